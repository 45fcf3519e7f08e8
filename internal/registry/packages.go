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
	"github.com/rs/zerolog"
)

// CreatePackage registers a new package owned by principal. The slug
// is immutable afterwards and the author is never reassigned.
func (r *Registry) CreatePackage(ctx context.Context, principal, slug, name, homepage, categorySlug string) (*model.Package, error) {
	if principal == "" {
		return nil, ErrUnauthorized
	}
	if err := checkSlug("slug", slug); err != nil {
		return nil, err
	}

	if _, err := r.repo.GetCategory(ctx, categorySlug); err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := r.repo.GetPackage(ctx, slug); err == nil {
		return nil, ErrDuplicateSlug
	} else if !errors.Is(err, crud.ErrNotFound) {
		return nil, err
	}

	pkg := &model.Package{
		Slug:         slug,
		Name:         name,
		Author:       principal,
		Homepage:     homepage,
		CategorySlug: categorySlug,
	}
	if err := r.repo.StorePackage(ctx, pkg); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("package", slug).
		Str("author", principal).
		Msg("package created")
	return pkg, nil
}

// EditPackage updates the mutable attributes of a package: its display
// name, homepage and category. Only the author may edit; the HTTP
// boundary renders the refusal as a plain not-found.
func (r *Registry) EditPackage(ctx context.Context, principal, slug, name, homepage, categorySlug string) (*model.Package, error) {
	pkg, err := r.repo.GetPackage(ctx, slug)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if principal != pkg.Author {
		return nil, ErrUnauthorized
	}

	if _, err := r.repo.GetCategory(ctx, categorySlug); err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	pkg.Name = name
	pkg.Homepage = homepage
	pkg.CategorySlug = categorySlug
	if err := r.repo.SavePackage(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Package returns a package by slug.
func (r *Registry) Package(ctx context.Context, slug string) (*model.Package, error) {
	pkg, err := r.repo.GetPackage(ctx, slug)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrNotFound
	}
	return pkg, err
}
