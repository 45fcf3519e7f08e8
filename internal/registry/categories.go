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

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/model"
)

// PseudoCategoryMine is a virtual category resolving to the packages
// owned by the requesting principal.
const PseudoCategoryMine = "my"

// CreateCategory registers a new category. Only authenticated users
// may create categories.
func (r *Registry) CreateCategory(ctx context.Context, principal, slug, name string) (*model.Category, error) {
	if principal == "" {
		return nil, ErrUnauthorized
	}
	if err := checkSlug("slug", slug); err != nil {
		return nil, err
	}

	if _, err := r.repo.GetCategory(ctx, slug); err == nil {
		return nil, ErrDuplicateSlug
	} else if !errors.Is(err, crud.ErrNotFound) {
		return nil, err
	}

	category := &model.Category{Slug: slug, Name: name}
	if err := r.repo.StoreCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Categories returns all registered categories.
func (r *Registry) Categories(ctx context.Context) ([]*model.Category, error) {
	return r.repo.ListCategories(ctx)
}

// CategoryPackages resolves a category slug to its packages. The
// pseudo-category "my" yields the principal's own packages, or an
// empty list for anonymous callers.
func (r *Registry) CategoryPackages(ctx context.Context, slug, principal string) (name string, pkgs []*model.Package, err error) {
	if slug == PseudoCategoryMine {
		if principal == "" {
			return "my packages", nil, nil
		}
		pkgs, err = r.repo.ListPackagesByAuthor(ctx, principal)
		return "my packages", pkgs, err
	}

	category, err := r.repo.GetCategory(ctx, slug)
	if errors.Is(err, crud.ErrNotFound) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, err
	}
	pkgs, err = r.repo.ListPackagesByCategory(ctx, category.Slug)
	return category.Name, pkgs, err
}
