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
	"github.com/cs3org/nirvana/internal/signing"
	"github.com/rs/zerolog"
)

// CreateVariant publishes a new variant under version on behalf of
// principal. Authorization is checked first, then slug uniqueness
// within the version. The checksums signature is obtained from the
// external signer before anything is persisted; a signing failure
// leaves no partial record. Empty checksums yield an empty signature
// without calling the signer.
func (r *Registry) CreateVariant(ctx context.Context, version *model.Version, principal, slug, name, usefile, checksums string) (*model.Variant, error) {
	pkg, err := r.Package(ctx, version.PackageSlug)
	if err != nil {
		return nil, err
	}
	if !Authorized(pkg, principal, slug) {
		return nil, ErrUnauthorized
	}
	if err := checkSlug("slug", slug); err != nil {
		return nil, err
	}

	unlock := r.lockPackage(pkg.Slug)
	defer unlock()

	if _, err := r.repo.GetVariant(ctx, version.ID, slug); err == nil {
		return nil, ErrDuplicateSlug
	} else if !errors.Is(err, crud.ErrNotFound) {
		return nil, err
	}

	signature, err := r.signChecksums(ctx, checksums)
	if err != nil {
		return nil, err
	}

	variant := &model.Variant{
		VersionID:          version.ID,
		Slug:               slug,
		Name:               name,
		Usefile:            usefile,
		Checksums:          checksums,
		ChecksumsSignature: signature,
	}
	if err := r.repo.StoreVariant(ctx, variant); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("package", pkg.Slug).
		Str("version", version.Slug).
		Str("variant", slug).
		Str("publisher", principal).
		Msg("variant published")
	return variant, nil
}

// EditVariant updates a variant. The variant slug is immutable, so
// authorization is evaluated against the variant's own slug. The
// signature is recomputed unconditionally since the checksums may
// have changed.
func (r *Registry) EditVariant(ctx context.Context, variant *model.Variant, version *model.Version, principal, name, usefile, checksums string) (*model.Variant, error) {
	pkg, err := r.Package(ctx, version.PackageSlug)
	if err != nil {
		return nil, err
	}
	if !Authorized(pkg, principal, variant.Slug) {
		return nil, ErrUnauthorized
	}

	unlock := r.lockPackage(pkg.Slug)
	defer unlock()

	signature, err := r.signChecksums(ctx, checksums)
	if err != nil {
		return nil, err
	}

	variant.Name = name
	variant.Usefile = usefile
	variant.Checksums = checksums
	variant.ChecksumsSignature = signature
	if err := r.repo.SaveVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// signChecksums obtains a signature over a non-empty checksum manifest
// under the configured deadline. Empty checksums never reach the
// signer.
func (r *Registry) signChecksums(ctx context.Context, checksums string) (string, error) {
	if checksums == "" {
		return "", nil
	}
	if r.signer == nil {
		return "", &SigningError{Err: signing.ErrUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, r.c.SigningTimeout)
	defer cancel()

	signature, err := r.signer.Sign(ctx, checksums)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	return signature, nil
}

// Variant resolves a variant slug within a version.
func (r *Registry) Variant(ctx context.Context, version *model.Version, slug string) (*model.Variant, error) {
	v, err := r.repo.GetVariant(ctx, version.ID, slug)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

// Variants returns all variants of a version.
func (r *Registry) Variants(ctx context.Context, version *model.Version) ([]*model.Variant, error) {
	return r.repo.ListVariants(ctx, version.ID)
}
