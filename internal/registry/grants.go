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

	"github.com/cs3org/nirvana/internal/model"
	"github.com/rs/zerolog"
)

// Grant is one row of a package's manager-permission set.
type Grant struct {
	User        string
	VariantSlug string
}

// SetGrants replaces the manager-permission set of a package. Only the
// package author may edit grants; the whole set is applied atomically
// so concurrent readers never observe a half-edited table. Variant
// slugs are validated; they may name variants that do not exist yet.
func (r *Registry) SetGrants(ctx context.Context, pkg *model.Package, principal string, grants []Grant) error {
	if principal == "" || principal != pkg.Author {
		return ErrUnauthorized
	}

	rows := make([]*model.ManagerPermission, 0, len(grants))
	for _, g := range grants {
		if err := checkSlug("variant_slug", g.VariantSlug); err != nil {
			return err
		}
		if g.User == "" {
			return &ValidationError{Field: "user", Value: g.User}
		}
		rows = append(rows, &model.ManagerPermission{
			PackageSlug: pkg.Slug,
			User:        g.User,
			VariantSlug: g.VariantSlug,
		})
	}

	if err := r.repo.ReplaceGrants(ctx, pkg.Slug, rows); err != nil {
		return err
	}
	pkg.Grants = nil
	for _, row := range rows {
		pkg.Grants = append(pkg.Grants, *row)
	}

	zerolog.Ctx(ctx).Info().
		Str("package", pkg.Slug).
		Int("grants", len(rows)).
		Msg("manager grants replaced")
	return nil
}

// Grants returns the manager-permission set of a package. Only the
// author may list grants.
func (r *Registry) Grants(ctx context.Context, pkg *model.Package, principal string) ([]*model.ManagerPermission, error) {
	if principal == "" || principal != pkg.Author {
		return nil, ErrUnauthorized
	}
	return r.repo.ListGrants(ctx, pkg.Slug)
}
