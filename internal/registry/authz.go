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
)

// Authorized reports whether principal may manage the variant with the
// given slug within pkg. The package author has blanket authority over
// every variant, existing or future; anyone else needs a manager grant
// matching both the principal and the variant slug. The empty principal
// is never authorized.
//
// Grants may name variants that have not been published yet; such a
// grant pre-authorizes the first publish.
func Authorized(pkg *model.Package, principal, variantSlug string) bool {
	if principal == "" {
		return false
	}
	if principal == pkg.Author {
		return true
	}
	for _, g := range pkg.Grants {
		if g.User == principal && g.VariantSlug == variantSlug {
			return true
		}
	}
	return false
}

// AuthorizedVariants returns the variant slugs of pkg that principal
// holds grants for and that currently exist under some version of the
// package. Grants for not-yet-published variants still authorize via
// Authorized but are excluded here; this set is meant for display.
func (r *Registry) AuthorizedVariants(ctx context.Context, pkg *model.Package, principal string) ([]string, error) {
	if principal == "" {
		return nil, nil
	}

	existing, err := r.repo.ListPackageVariantSlugs(ctx, pkg.Slug)
	if err != nil {
		return nil, err
	}
	exists := make(map[string]bool, len(existing))
	for _, s := range existing {
		exists[s] = true
	}

	var slugs []string
	for _, g := range pkg.Grants {
		if g.User == principal && exists[g.VariantSlug] {
			slugs = append(slugs, g.VariantSlug)
		}
	}
	return slugs, nil
}
