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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePackage(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)
	seedUser(t, r, "fred")
	_, err := r.CreateCategory(ctx, "fred", "tools", "Tools")
	require.NoError(t, err)

	pkg, err := r.CreatePackage(ctx, "fred", "hello", "Hello", "http://example.org", "tools")
	require.NoError(t, err)
	assert.Equal(t, "fred", pkg.Author)

	t.Run("anonymous denied", func(t *testing.T) {
		_, err := r.CreatePackage(ctx, "", "other", "", "", "tools")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := r.CreatePackage(ctx, "fred", "hello", "", "", "tools")
		assert.ErrorIs(t, err, ErrDuplicateSlug)
	})

	t.Run("invalid slug", func(t *testing.T) {
		_, err := r.CreatePackage(ctx, "fred", "hello world", "", "", "tools")
		assert.ErrorIs(t, err, ErrInvalidSlug)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := r.CreatePackage(ctx, "fred", "fresh", "", "", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEditPackage(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)
	seedUser(t, r, "fred")
	seedPackage(t, r, "fred", "hello")

	t.Run("author edits", func(t *testing.T) {
		pkg, err := r.EditPackage(ctx, "fred", "hello", "Hello World", "http://hello.example.org", "tools")
		require.NoError(t, err)
		assert.Equal(t, "Hello World", pkg.Name)
		assert.Equal(t, "fred", pkg.Author)
	})

	t.Run("non-author denied", func(t *testing.T) {
		_, err := r.EditPackage(ctx, "alice", "hello", "", "", "tools")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown package", func(t *testing.T) {
		_, err := r.EditPackage(ctx, "fred", "missing", "", "", "tools")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)
	seedUser(t, r, "fred")

	t.Run("anonymous cannot create", func(t *testing.T) {
		_, err := r.CreateCategory(ctx, "", "tools", "Tools")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	_, err := r.CreateCategory(ctx, "fred", "tools", "Tools")
	require.NoError(t, err)

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := r.CreateCategory(ctx, "fred", "tools", "Other")
		assert.ErrorIs(t, err, ErrDuplicateSlug)
	})

	t.Run("category packages", func(t *testing.T) {
		_, err := r.CreatePackage(ctx, "fred", "hello", "Hello", "", "tools")
		require.NoError(t, err)

		name, pkgs, err := r.CategoryPackages(ctx, "tools", "")
		require.NoError(t, err)
		assert.Equal(t, "Tools", name)
		require.Len(t, pkgs, 1)
		assert.Equal(t, "hello", pkgs[0].Slug)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, _, err := r.CategoryPackages(ctx, "missing", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// The "my" pseudo-category resolves to the principal's packages and
// is an empty list, not an error, for anonymous callers.
func TestMyPseudoCategory(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)
	seedUser(t, r, "fred")
	seedUser(t, r, "alice")
	seedPackage(t, r, "fred", "hello")

	_, pkgs, err := r.CategoryPackages(ctx, PseudoCategoryMine, "fred")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "hello", pkgs[0].Slug)

	_, pkgs, err = r.CategoryPackages(ctx, PseudoCategoryMine, "alice")
	require.NoError(t, err)
	assert.Empty(t, pkgs)

	_, pkgs, err = r.CategoryPackages(ctx, PseudoCategoryMine, "")
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}
