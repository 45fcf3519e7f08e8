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

// LatestSlug is the virtual version slug resolving to the package's
// latest version.
const LatestSlug = "latest"

// CreateVersion publishes a new version of pkg on behalf of principal.
// Only the package author may create versions. The slug must be unique
// within the package (case-sensitive). If makeLatest is set, every
// other latest version of the package is demoted and the new one
// promoted in a single transaction, serialized with all other version
// writes on the same package.
func (r *Registry) CreateVersion(ctx context.Context, pkg *model.Package, principal, slug, name, usefile string, makeLatest bool) (*model.Version, error) {
	if principal == "" || principal != pkg.Author {
		return nil, ErrUnauthorized
	}
	if err := checkVersionSlug("slug", slug); err != nil {
		return nil, err
	}

	unlock := r.lockPackage(pkg.Slug)
	defer unlock()

	if _, err := r.repo.GetVersion(ctx, pkg.Slug, slug); err == nil {
		return nil, ErrDuplicateSlug
	} else if !errors.Is(err, crud.ErrNotFound) {
		return nil, err
	}

	version := &model.Version{
		PackageSlug: pkg.Slug,
		Slug:        slug,
		Name:        name,
		Usefile:     usefile,
	}
	if err := r.repo.StoreVersion(ctx, version, makeLatest); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("package", pkg.Slug).
		Str("version", slug).
		Bool("latest", makeLatest).
		Msg("version published")
	return version, nil
}

// EditVersion updates a version on behalf of principal. The uniqueness
// check for the new slug excludes the version being edited, so saving
// without renaming never self-collides. Passing makeLatest promotes
// the version under the same serialization as CreateVersion.
func (r *Registry) EditVersion(ctx context.Context, version *model.Version, principal, newSlug, newName, usefile string, makeLatest bool) (*model.Version, error) {
	pkg, err := r.Package(ctx, version.PackageSlug)
	if err != nil {
		return nil, err
	}
	if principal == "" || principal != pkg.Author {
		return nil, ErrUnauthorized
	}
	if err := checkVersionSlug("slug", newSlug); err != nil {
		return nil, err
	}

	unlock := r.lockPackage(pkg.Slug)
	defer unlock()

	if other, err := r.repo.GetVersion(ctx, pkg.Slug, newSlug); err == nil {
		if other.ID != version.ID {
			return nil, ErrDuplicateSlug
		}
	} else if !errors.Is(err, crud.ErrNotFound) {
		return nil, err
	}

	version.Slug = newSlug
	version.Name = newName
	version.Usefile = usefile
	if err := r.repo.SaveVersion(ctx, version, makeLatest); err != nil {
		return nil, err
	}
	return version, nil
}

// Version resolves a version slug within a package. The empty slug and
// LatestSlug both resolve to the package's latest version; a package
// without a latest version yields ErrNotFound.
func (r *Registry) Version(ctx context.Context, packageSlug, slug string) (*model.Version, error) {
	var v *model.Version
	var err error
	if slug == "" || slug == LatestSlug {
		v, err = r.repo.LatestVersion(ctx, packageSlug)
	} else {
		v, err = r.repo.GetVersion(ctx, packageSlug, slug)
	}
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

// Versions returns all versions of a package in publication order.
func (r *Registry) Versions(ctx context.Context, packageSlug string) ([]*model.Version, error) {
	return r.repo.ListVersions(ctx, packageSlug)
}
