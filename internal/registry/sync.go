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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/model"
	"github.com/go-git/go-billy/v5/memfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

type curatedCategory struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// SyncCategories pulls the curated category list from the configured
// git repository and registers any category not yet known. Existing
// categories are left untouched; curation only ever adds. A registry
// without a configured repository skips the sync.
func (r *Registry) SyncCategories(ctx context.Context) error {
	if r.c.CategoriesRepository == "" {
		return nil
	}

	r.c.Log.Info().Msg("triggered category sync")
	repo, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), &git.CloneOptions{
		URL:           r.c.CategoriesRepository,
		Depth:         1,
		ReferenceName: plumbing.Master,
	})
	if err != nil {
		return fmt.Errorf("error cloning repository %s: %w", r.c.CategoriesRepository, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return err
	}

	f, err := w.Filesystem.Open(r.c.CategoriesFile)
	if err != nil {
		return fmt.Errorf("error opening file %s: %w", r.c.CategoriesFile, err)
	}
	defer f.Close()

	var curated []curatedCategory
	if err := json.NewDecoder(f).Decode(&curated); err != nil {
		return fmt.Errorf("error decoding json file %s: %w", r.c.CategoriesFile, err)
	}

	for _, c := range curated {
		if !ValidSlug(c.Slug) {
			r.c.Log.Warn().Str("category", c.Slug).Msg("skipping curated category with invalid slug")
			continue
		}

		_, err := r.repo.GetCategory(ctx, c.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, crud.ErrNotFound) {
			return fmt.Errorf("error getting category %s: %w", c.Slug, err)
		}

		r.c.Log.Debug().Str("category", c.Slug).Msg("registering curated category")
		if err := r.repo.StoreCategory(ctx, &model.Category{Slug: c.Slug, Name: c.Name}); err != nil {
			r.c.Log.Warn().Err(err).Str("category", c.Slug).Msg("error registering category")
		}
	}
	return nil
}
