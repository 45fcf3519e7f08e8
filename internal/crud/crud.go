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
	"errors"

	"github.com/cs3org/nirvana/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository is an interface for a store holding the registry data:
// users, categories, packages, versions, variants and manager grants.
type Repository interface {
	GetUser(ctx context.Context, username string) (*model.User, error)
	StoreUser(ctx context.Context, user *model.User) error

	StoreCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, slug string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)

	StorePackage(ctx context.Context, pkg *model.Package) error
	SavePackage(ctx context.Context, pkg *model.Package) error
	GetPackage(ctx context.Context, slug string) (*model.Package, error)
	ListPackagesByCategory(ctx context.Context, categorySlug string) ([]*model.Package, error)
	ListPackagesByAuthor(ctx context.Context, author string) ([]*model.Package, error)

	// StoreVersion persists a new version. If promote is set, every
	// other latest version of the same package is demoted in the same
	// transaction.
	StoreVersion(ctx context.Context, v *model.Version, promote bool) error
	SaveVersion(ctx context.Context, v *model.Version, promote bool) error
	GetVersion(ctx context.Context, packageSlug, slug string) (*model.Version, error)
	LatestVersion(ctx context.Context, packageSlug string) (*model.Version, error)
	ListVersions(ctx context.Context, packageSlug string) ([]*model.Version, error)

	StoreVariant(ctx context.Context, v *model.Variant) error
	SaveVariant(ctx context.Context, v *model.Variant) error
	GetVariant(ctx context.Context, versionID uint, slug string) (*model.Variant, error)
	ListVariants(ctx context.Context, versionID uint) ([]*model.Variant, error)
	ListPackageVariantSlugs(ctx context.Context, packageSlug string) ([]string, error)

	ListGrants(ctx context.Context, packageSlug string) ([]*model.ManagerPermission, error)
	// ReplaceGrants atomically replaces the grant set of one package.
	ReplaceGrants(ctx context.Context, packageSlug string, grants []*model.ManagerPermission) error
}
