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
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/model"
	"github.com/cs3org/nirvana/internal/usefile"
)

// APIToken derives the publish token for a user from the stored
// password hash. This is the legacy scheme kept for client
// compatibility: an unsalted fast digest, weak by modern standards.
// New deployments should front it with a signed, expiring token.
func APIToken(u *model.User) string {
	sum := md5.Sum([]byte(u.Username + ":" + u.PasswordHash))
	return hex.EncodeToString(sum[:])
}

// Authenticate resolves a username/token pair to a principal.
// An unknown user yields ErrNotFound, a wrong token ErrInvalidToken.
func (r *Registry) Authenticate(ctx context.Context, username, token string) (string, error) {
	user, err := r.repo.GetUser(ctx, username)
	if errors.Is(err, crud.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(APIToken(user)), []byte(token)) != 1 {
		return "", ErrInvalidToken
	}
	return user.Username, nil
}

// SubmitRequest is an API publish: a release descriptor plus the
// publisher's credentials.
type SubmitRequest struct {
	Username    string
	Token       string
	PackageSlug string
	Usefile     string
	Checksums   string
	Name        string
	MakeLatest  bool
}

// SubmitResult reports what a submit created.
type SubmitResult struct {
	PackageSlug string
	VersionSlug string
	VariantSlug string
	Path        string
}

// Submit runs the publication pipeline: authenticate, parse and
// validate the descriptor, then route. If the descriptor's version
// does not exist yet it is created, which only the package author may
// do. If it exists, the descriptor's variant is published under it,
// gated by the authorization model.
func (r *Registry) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	principal, err := r.Authenticate(ctx, req.Username, req.Token)
	if err != nil {
		return nil, err
	}

	dct, err := usefile.Parse(req.Usefile)
	if err != nil {
		return nil, err
	}
	if err := usefile.Validate(dct); err != nil {
		return nil, err
	}

	pkg, err := r.Package(ctx, req.PackageSlug)
	if err != nil {
		return nil, err
	}

	versionSlug := dct["Version"]
	variantSlug := dct["Variant"]

	version, err := r.Version(ctx, pkg.Slug, versionSlug)
	switch {
	case errors.Is(err, ErrNotFound):
		version, err = r.CreateVersion(ctx, pkg, principal, versionSlug, req.Name, req.Usefile, req.MakeLatest)
		if err != nil {
			return nil, err
		}
		return &SubmitResult{
			PackageSlug: pkg.Slug,
			VersionSlug: version.Slug,
			Path:        fmt.Sprintf("/packages/%s/%s/", pkg.Slug, version.Slug),
		}, nil
	case err != nil:
		return nil, err
	}

	variant, err := r.CreateVariant(ctx, version, principal, variantSlug, req.Name, req.Usefile, req.Checksums)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{
		PackageSlug: pkg.Slug,
		VersionSlug: version.Slug,
		VariantSlug: variant.Slug,
		Path:        fmt.Sprintf("/packages/%s/%s/%s/", pkg.Slug, version.Slug, variant.Slug),
	}, nil
}
