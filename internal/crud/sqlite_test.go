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

package crud

import (
	"context"
	"testing"

	"github.com/cs3org/nirvana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSqlite(":memory:")
	require.NoError(t, err)
	return repo
}

func seedHello(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.StoreCategory(ctx, &model.Category{Slug: "tools", Name: "Tools"}))
	require.NoError(t, repo.StorePackage(ctx, &model.Package{
		Slug: "hello", Name: "Hello", Author: "fred", CategorySlug: "tools",
	}))
}

func TestStoreVersionPromotion(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedHello(t, repo)

	v1 := &model.Version{PackageSlug: "hello", Slug: "1.0"}
	require.NoError(t, repo.StoreVersion(ctx, v1, true))
	assert.True(t, v1.Latest)

	v2 := &model.Version{PackageSlug: "hello", Slug: "2.0"}
	require.NoError(t, repo.StoreVersion(ctx, v2, true))

	latest, err := repo.LatestVersion(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "2.0", latest.Slug)

	demoted, err := repo.GetVersion(ctx, "hello", "1.0")
	require.NoError(t, err)
	assert.False(t, demoted.Latest)
}

// A non-promoting save must not write the latest flag, even when the
// in-memory copy carries a stale value.
func TestSaveVersionKeepsLatestFlag(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedHello(t, repo)

	v1 := &model.Version{PackageSlug: "hello", Slug: "1.0"}
	require.NoError(t, repo.StoreVersion(ctx, v1, true))
	v2 := &model.Version{PackageSlug: "hello", Slug: "2.0"}
	require.NoError(t, repo.StoreVersion(ctx, v2, true))

	// v1 still says latest in memory; saving it must not resurrect it
	v1.Name = "renamed"
	require.NoError(t, repo.SaveVersion(ctx, v1, false))

	latest, err := repo.LatestVersion(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "2.0", latest.Slug)
}

func TestGetVersionNotFound(t *testing.T) {
	repo := newTestRepo(t)
	seedHello(t, repo)

	_, err := repo.GetVersion(context.Background(), "hello", "9.9")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.LatestVersion(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPackageVariantSlugs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedHello(t, repo)

	v1 := &model.Version{PackageSlug: "hello", Slug: "1.0"}
	require.NoError(t, repo.StoreVersion(ctx, v1, false))
	v2 := &model.Version{PackageSlug: "hello", Slug: "2.0"}
	require.NoError(t, repo.StoreVersion(ctx, v2, false))

	require.NoError(t, repo.StoreVariant(ctx, &model.Variant{VersionID: v1.ID, Slug: "linux"}))
	require.NoError(t, repo.StoreVariant(ctx, &model.Variant{VersionID: v2.ID, Slug: "linux"}))
	require.NoError(t, repo.StoreVariant(ctx, &model.Variant{VersionID: v2.ID, Slug: "mac"}))

	slugs, err := repo.ListPackageVariantSlugs(ctx, "hello")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"linux", "mac"}, slugs)
}

func TestReplaceGrants(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedHello(t, repo)

	require.NoError(t, repo.ReplaceGrants(ctx, "hello", []*model.ManagerPermission{
		{User: "alice", VariantSlug: "linux"},
		{User: "bob", VariantSlug: "mac"},
	}))
	require.NoError(t, repo.ReplaceGrants(ctx, "hello", []*model.ManagerPermission{
		{User: "alice", VariantSlug: "haiku"},
	}))

	grants, err := repo.ListGrants(ctx, "hello")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "alice", grants[0].User)
	assert.Equal(t, "haiku", grants[0].VariantSlug)
	assert.Equal(t, "hello", grants[0].PackageSlug)
}
