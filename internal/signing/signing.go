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

// Package signing talks to the external service producing signatures
// over checksum manifests. The registry treats the service as opaque:
// it sends the checksum blob and stores whatever signature comes back.
package signing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrUnavailable is returned when the signing service cannot be
// reached, including when the circuit breaker is open.
var ErrUnavailable = errors.New("signing service unavailable")

// Signer produces a signature over a checksum manifest.
type Signer interface {
	Sign(ctx context.Context, checksums string) (string, error)
}

// HTTPSigner calls a signing service over HTTP. The request body is
// the raw checksum manifest; the response body is the signature.
// Failures trip a circuit breaker so a dead signer fails publishes
// fast instead of holding every request for the full timeout.
type HTTPSigner struct {
	url     string
	client  *http.Client
	breaker *circuit.Breaker
}

// NewHTTPSigner creates an HTTPSigner for the given endpoint.
func NewHTTPSigner(url string) *HTTPSigner {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Second
	b.MaxInterval = time.Minute
	b.Reset()

	return &HTTPSigner{
		url:    url,
		client: &http.Client{},
		breaker: circuit.NewBreakerWithOptions(&circuit.Options{
			BackOff:    b,
			ShouldTrip: circuit.ThresholdTripFunc(5),
		}),
	}
}

func (s *HTTPSigner) Sign(ctx context.Context, checksums string) (string, error) {
	if !s.breaker.Ready() {
		return "", fmt.Errorf("circuit breaker open: %w", ErrUnavailable)
	}

	var signature string
	err := s.breaker.Call(func() error {
		var err error
		signature, err = s.sign(ctx, checksums)
		return err
	}, 0)
	if err != nil {
		return "", err
	}
	return signature, nil
}

func (s *HTTPSigner) sign(ctx context.Context, checksums string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(checksums))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "text/plain")

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUnavailable, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	signature := strings.TrimSpace(string(body))
	if signature == "" {
		return "", fmt.Errorf("%w: empty signature", ErrUnavailable)
	}
	return signature, nil
}
