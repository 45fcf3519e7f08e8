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

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	calls int
	fail  bool
}

func (f *fakeSigner) Sign(_ context.Context, checksums string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("signer down")
	}
	return "sig(" + checksums + ")", nil
}

func newTestRegistry(t *testing.T) (*Registry, *fakeSigner) {
	t.Helper()
	repo, err := crud.NewSqlite(":memory:")
	require.NoError(t, err)

	signer := &fakeSigner{}
	return New(&Config{}, repo, signer), signer
}

func seedUser(t *testing.T, r *Registry, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "hash-of-" + username}
	require.NoError(t, r.repo.StoreUser(context.Background(), user))
	return user
}

func seedPackage(t *testing.T, r *Registry, author, slug string) *model.Package {
	t.Helper()
	ctx := context.Background()

	if _, err := r.repo.GetCategory(ctx, "tools"); errors.Is(err, crud.ErrNotFound) {
		_, err := r.CreateCategory(ctx, author, "tools", "Tools")
		require.NoError(t, err)
	}

	pkg, err := r.CreatePackage(ctx, author, slug, slug, "http://example.org/"+slug, "tools")
	require.NoError(t, err)
	return pkg
}
