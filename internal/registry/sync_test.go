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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cs3org/nirvana/internal/crud"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoriesRepo(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"), []byte(contents), 0644))
	_, err = wt.Add("categories.json")
	require.NoError(t, err)
	_, err = wt.Commit("add categories", &git.CommitOptions{
		Author: &object.Signature{Name: "curator", Email: "curator@example.org", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestSyncCategories(t *testing.T) {
	ctx := context.Background()
	dir := newCategoriesRepo(t, `[
		{"slug": "tools", "name": "Tools"},
		{"slug": "not a slug", "name": "Skipped"},
		{"slug": "games", "name": "Games"}
	]`)

	repo, err := crud.NewSqlite(":memory:")
	require.NoError(t, err)
	r := New(&Config{CategoriesRepository: dir}, repo, nil)

	// an existing category survives the sync untouched
	_, err = r.CreateCategory(ctx, "fred", "tools", "Handmade Tools")
	require.NoError(t, err)

	require.NoError(t, r.SyncCategories(ctx))

	categories, err := r.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "games", categories[0].Slug)
	assert.Equal(t, "tools", categories[1].Slug)
	assert.Equal(t, "Handmade Tools", categories[1].Name)

	// idempotent
	require.NoError(t, r.SyncCategories(ctx))
	categories, err = r.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestSyncCategoriesUnconfigured(t *testing.T) {
	r, _ := newTestRegistry(t)
	assert.NoError(t, r.SyncCategories(context.Background()))
}
