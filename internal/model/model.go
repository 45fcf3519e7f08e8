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

package model

import (
	"time"
)

// User is a publisher account. The password hash is the stored
// credential the API token is derived from; the registry never
// sees a cleartext password.
type User struct {
	Username     string `gorm:"primaryKey"`
	PasswordHash string
	CreatedAt    time.Time
}

// Category groups related packages. The slug is immutable and
// doubles as the primary key.
type Category struct {
	Slug string `gorm:"primaryKey"`
	Name string
}

// Package holds the information of a published package.
// Author is the owning principal, set once at creation and
// never reassigned.
type Package struct {
	Slug         string `gorm:"primaryKey"`
	Name         string
	Author       string
	Homepage     string
	CategorySlug string
	Versions     []Version           `gorm:"foreignKey:PackageSlug"`
	Grants       []ManagerPermission `gorm:"foreignKey:PackageSlug"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Version is one release of a package. The slug is unique within
// the package; at most one version per package has Latest set.
type Version struct {
	ID          uint   `gorm:"primaryKey"`
	PackageSlug string `gorm:"uniqueIndex:idx_version_pkg_slug"`
	Slug        string `gorm:"uniqueIndex:idx_version_pkg_slug"`
	Name        string
	Usefile     string
	Latest      bool
	Variants    []Variant `gorm:"foreignKey:VersionID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant is a sub-build of a version, for example a per-platform
// artifact set. The checksums signature is always derived from the
// checksums blob, never set by a caller.
type Variant struct {
	ID                 uint `gorm:"primaryKey"`
	VersionID          uint `gorm:"uniqueIndex:idx_variant_version_slug"`
	Slug               string `gorm:"uniqueIndex:idx_variant_version_slug"`
	Name               string
	Usefile            string
	Checksums          string
	ChecksumsSignature string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ManagerPermission lets a non-owner user manage one variant slug
// within a package. The grant is by slug string, not by reference:
// it may name a variant that does not exist yet.
type ManagerPermission struct {
	ID          uint   `gorm:"primaryKey"`
	PackageSlug string `gorm:"index"`
	User        string
	VariantSlug string
}
