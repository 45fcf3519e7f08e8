// Copyright 2018-2023 CERN
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// In applying this license, CERN does not waive the privileges and immunities
// granted to it by virtue of its status as an Intergovernmental Organization
// or submit itself to any jurisdiction.

package signing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSigner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write([]byte("SIGNED:" + string(body)))
	}))
	defer server.Close()

	s := NewHTTPSigner(server.URL)
	signature, err := s.Sign(context.Background(), "sha256 abc hello.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "SIGNED:sha256 abc hello.tar.gz", signature)
}

func TestHTTPSignerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewHTTPSigner(server.URL)
	_, err := s.Sign(context.Background(), "sha256 abc")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSignerEmptySignature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	s := NewHTTPSigner(server.URL)
	_, err := s.Sign(context.Background(), "sha256 abc")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSignerBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewHTTPSigner(server.URL)
	for i := 0; i < 5; i++ {
		_, err := s.Sign(context.Background(), "sha256 abc")
		require.Error(t, err)
	}

	assert.True(t, s.breaker.Tripped())
	_, err := s.Sign(context.Background(), "sha256 abc")
	assert.ErrorIs(t, err, ErrUnavailable)
}
