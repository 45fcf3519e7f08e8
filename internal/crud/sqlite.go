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
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type drv struct {
	db *gorm.DB
}

func NewSqlite(file string) (Repository, error) {
	db, err := gorm.Open(sqlite.Open(file), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Package{},
		&model.Version{},
		&model.Variant{},
		&model.ManagerPermission{},
	)
	if err != nil {
		return nil, err
	}
	return &drv{db: db}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (d *drv) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := d.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (d *drv) StoreUser(ctx context.Context, user *model.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *drv) StoreCategory(ctx context.Context, category *model.Category) error {
	return d.db.WithContext(ctx).Create(category).Error
}

func (d *drv) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	err := d.db.WithContext(ctx).First(&c, "slug = ?", slug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (d *drv) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := d.db.WithContext(ctx).Order("slug").Find(&categories).Error
	return categories, err
}

func (d *drv) StorePackage(ctx context.Context, pkg *model.Package) error {
	return d.db.WithContext(ctx).Create(pkg).Error
}

func (d *drv) SavePackage(ctx context.Context, pkg *model.Package) error {
	return d.db.WithContext(ctx).Save(pkg).Error
}

func (d *drv) GetPackage(ctx context.Context, slug string) (*model.Package, error) {
	var pkg model.Package
	err := d.db.WithContext(ctx).
		Preload("Grants").
		First(&pkg, "slug = ?", slug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &pkg, nil
}

func (d *drv) ListPackagesByCategory(ctx context.Context, categorySlug string) ([]*model.Package, error) {
	var pkgs []*model.Package
	err := d.db.WithContext(ctx).
		Where("category_slug = ?", categorySlug).
		Order("slug").
		Find(&pkgs).Error
	return pkgs, err
}

func (d *drv) ListPackagesByAuthor(ctx context.Context, author string) ([]*model.Package, error) {
	var pkgs []*model.Package
	err := d.db.WithContext(ctx).
		Where("author = ?", author).
		Order("slug").
		Find(&pkgs).Error
	return pkgs, err
}

func (d *drv) StoreVersion(ctx context.Context, v *model.Version, promote bool) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if promote {
			err := tx.Model(&model.Version{}).
				Where("package_slug = ? AND latest = ?", v.PackageSlug, true).
				UpdateColumn("latest", false).Error
			if err != nil {
				return err
			}
			v.Latest = true
		}
		return tx.Create(v).Error
	})
}

// SaveVersion persists edits to a version. Without promotion the
// latest flag is deliberately left untouched so a stale in-memory
// copy cannot resurrect a demoted pointer.
func (d *drv) SaveVersion(ctx context.Context, v *model.Version, promote bool) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if promote {
			err := tx.Model(&model.Version{}).
				Where("package_slug = ? AND latest = ? AND id <> ?", v.PackageSlug, true, v.ID).
				UpdateColumn("latest", false).Error
			if err != nil {
				return err
			}
			v.Latest = true
			return tx.Save(v).Error
		}
		return tx.Model(v).Updates(map[string]any{
			"slug":    v.Slug,
			"name":    v.Name,
			"usefile": v.Usefile,
		}).Error
	})
}

func (d *drv) GetVersion(ctx context.Context, packageSlug, slug string) (*model.Version, error) {
	var v model.Version
	err := d.db.WithContext(ctx).
		First(&v, "package_slug = ? AND slug = ?", packageSlug, slug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (d *drv) LatestVersion(ctx context.Context, packageSlug string) (*model.Version, error) {
	var v model.Version
	err := d.db.WithContext(ctx).
		First(&v, "package_slug = ? AND latest = ?", packageSlug, true).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (d *drv) ListVersions(ctx context.Context, packageSlug string) ([]*model.Version, error) {
	var versions []*model.Version
	err := d.db.WithContext(ctx).
		Where("package_slug = ?", packageSlug).
		Order("id").
		Find(&versions).Error
	return versions, err
}

func (d *drv) StoreVariant(ctx context.Context, v *model.Variant) error {
	return d.db.WithContext(ctx).Create(v).Error
}

func (d *drv) SaveVariant(ctx context.Context, v *model.Variant) error {
	return d.db.WithContext(ctx).Save(v).Error
}

func (d *drv) GetVariant(ctx context.Context, versionID uint, slug string) (*model.Variant, error) {
	var v model.Variant
	err := d.db.WithContext(ctx).
		First(&v, "version_id = ? AND slug = ?", versionID, slug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (d *drv) ListVariants(ctx context.Context, versionID uint) ([]*model.Variant, error) {
	var variants []*model.Variant
	err := d.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("slug").
		Find(&variants).Error
	return variants, err
}

func (d *drv) ListPackageVariantSlugs(ctx context.Context, packageSlug string) ([]string, error) {
	var slugs []string
	err := d.db.WithContext(ctx).
		Model(&model.Variant{}).
		Distinct("variants.slug").
		Joins("JOIN versions ON versions.id = variants.version_id").
		Where("versions.package_slug = ?", packageSlug).
		Pluck("variants.slug", &slugs).Error
	return slugs, err
}

func (d *drv) ListGrants(ctx context.Context, packageSlug string) ([]*model.ManagerPermission, error) {
	var grants []*model.ManagerPermission
	err := d.db.WithContext(ctx).
		Where("package_slug = ?", packageSlug).
		Order("id").
		Find(&grants).Error
	return grants, err
}

func (d *drv) ReplaceGrants(ctx context.Context, packageSlug string, grants []*model.ManagerPermission) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("package_slug = ?", packageSlug).
			Delete(&model.ManagerPermission{}).Error
		if err != nil {
			return err
		}
		for _, g := range grants {
			g.ID = 0
			g.PackageSlug = packageSlug
			if err := tx.Create(g).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
