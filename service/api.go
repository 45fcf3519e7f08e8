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

package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cs3org/nirvana/internal/registry"
	"github.com/go-chi/chi/v5"
)

const (
	shapeContents = "contents"
	shapeDetails  = "details"
)

// shape reads the ?type= selector. The default is contents; an
// unrecognized value is a not-found-class error, matching how the
// rest of the API refuses to confirm anything about bad requests.
func shape(r *http.Request) (string, error) {
	t := r.URL.Query().Get("type")
	if t == "" {
		return shapeContents, nil
	}
	if t != shapeContents && t != shapeDetails {
		return "", fmt.Errorf("unknown type %q: %w", t, registry.ErrNotFound)
	}
	return t, nil
}

// principal resolves the optional user/token credentials of a read
// request. Missing credentials are an anonymous caller, not an error;
// present-but-wrong credentials are.
func (s *Server) principal(r *http.Request) (string, error) {
	user := r.URL.Query().Get("user")
	token := r.URL.Query().Get("token")
	if user == "" {
		return "", nil
	}
	return s.reg.Authenticate(r.Context(), user, token)
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	t, err := shape(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := s.reg.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if t == shapeContents {
		contents := make(map[string]string, len(categories))
		for _, c := range categories {
			contents[c.Slug] = c.Name
		}
		writeJSON(w, http.StatusOK, contents)
		return
	}

	slugs := make([]string, 0, len(categories))
	for _, c := range categories {
		slugs = append(slugs, c.Slug)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": slugs})
}

func (s *Server) apiCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	t, err := shape(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	principal, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name, pkgs, err := s.reg.CategoryPackages(r.Context(), slug, principal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if t == shapeContents {
		contents := make(map[string]string, len(pkgs))
		for _, p := range pkgs {
			contents[p.Slug] = p.Name
		}
		writeJSON(w, http.StatusOK, contents)
		return
	}

	slugs := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		slugs = append(slugs, p.Slug)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":     slug,
		"name":     name,
		"packages": slugs,
	})
}

func (s *Server) apiPackage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	t, err := shape(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	pkg, err := s.reg.Package(ctx, slug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	versions, err := s.reg.Versions(ctx, pkg.Slug)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if t == shapeContents {
		contents := make(map[string]string, len(versions))
		for _, v := range versions {
			contents[v.Slug] = v.Name
		}
		writeJSON(w, http.StatusOK, contents)
		return
	}

	var latest string
	slugs := make([]string, 0, len(versions))
	for _, v := range versions {
		slugs = append(slugs, v.Slug)
		if v.Latest {
			latest = v.Slug
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":           pkg.Slug,
		"name":           pkg.Name,
		"author":         pkg.Author,
		"homepage":       pkg.Homepage,
		"latest_version": latest,
		"category":       pkg.CategorySlug,
		"versions":       slugs,
	})
}

func (s *Server) apiVersion(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	versionSlug := chi.URLParam(r, "version")
	t, err := shape(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	version, err := s.reg.Version(ctx, slug, versionSlug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	variants, err := s.reg.Variants(ctx, version)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if t == shapeContents {
		contents := make(map[string]string, len(variants))
		for _, v := range variants {
			contents[v.Slug] = v.Name
		}
		writeJSON(w, http.StatusOK, contents)
		return
	}

	slugs := make([]string, 0, len(variants))
	for _, v := range variants {
		slugs = append(slugs, v.Slug)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":     version.Slug,
		"name":     version.Name,
		"package":  version.PackageSlug,
		"latest":   version.Latest,
		"usefile":  fmt.Sprintf("/packages/%s/%s/%s.use", slug, version.Slug, slug),
		"variants": slugs,
	})
}

func (s *Server) apiVariant(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	versionSlug := chi.URLParam(r, "version")
	variantSlug := chi.URLParam(r, "variant")

	ctx := r.Context()
	version, err := s.reg.Version(ctx, slug, versionSlug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	variant, err := s.reg.Variant(ctx, version, variantSlug)
	if err != nil {
		writeError(w, r, err)
		return
	}

	base := fmt.Sprintf("/packages/%s/%s/%s", slug, version.Slug, variant.Slug)
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":      variant.Slug,
		"name":      variant.Name,
		"version":   version.Slug,
		"package":   version.PackageSlug,
		"usefile":   fmt.Sprintf("%s/%s.use", base, slug),
		"checksums": fmt.Sprintf("%s/%s.checksums", base, slug),
		"signature": fmt.Sprintf("%s/%s.sig", base, slug),
	})
}

func (s *Server) apiSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	res, err := s.reg.Submit(r.Context(), registry.SubmitRequest{
		Username:    r.PostFormValue("user"),
		Token:       r.PostFormValue("token"),
		PackageSlug: r.PostFormValue("slug"),
		Usefile:     r.PostFormValue("usefile"),
		Checksums:   r.PostFormValue("checksums"),
		Name:        r.PostFormValue("name"),
		MakeLatest:  r.PostFormValue("make_latest") == "true",
	})
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}
	writeEnvelope(w, map[string]any{"url": res.Path})
}

func (s *Server) apiPackageNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	principal, err := s.reg.Authenticate(r.Context(), r.PostFormValue("user"), r.PostFormValue("token"))
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	pkg, err := s.reg.CreatePackage(r.Context(), principal,
		r.PostFormValue("slug"),
		r.PostFormValue("name"),
		r.PostFormValue("homepage"),
		r.PostFormValue("category"),
	)
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}
	writeEnvelope(w, map[string]any{"url": fmt.Sprintf("/packages/%s/", pkg.Slug)})
}

func (s *Server) apiPackageEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	principal, err := s.reg.Authenticate(r.Context(), r.PostFormValue("user"), r.PostFormValue("token"))
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	pkg, err := s.reg.EditPackage(r.Context(), principal,
		chi.URLParam(r, "slug"),
		r.PostFormValue("name"),
		r.PostFormValue("homepage"),
		r.PostFormValue("category"),
	)
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}
	writeEnvelope(w, map[string]any{"url": fmt.Sprintf("/packages/%s/", pkg.Slug)})
}

func (s *Server) apiCategoryNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	principal, err := s.reg.Authenticate(r.Context(), r.PostFormValue("user"), r.PostFormValue("token"))
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	category, err := s.reg.CreateCategory(r.Context(), principal,
		r.PostFormValue("slug"),
		r.PostFormValue("name"),
	)
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}
	writeEnvelope(w, map[string]any{"url": fmt.Sprintf("/api/category/%s", category.Slug)})
}

type grantRow struct {
	User        string `json:"user"`
	VariantSlug string `json:"variant_slug"`
}

type grantsEditRequest struct {
	User   string     `json:"user"`
	Token  string     `json:"token"`
	Grants []grantRow `json:"grants"`
}

func (s *Server) apiGrantsEdit(w http.ResponseWriter, r *http.Request) {
	var req grantsEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	ctx := r.Context()
	principal, err := s.reg.Authenticate(ctx, req.User, req.Token)
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	pkg, err := s.reg.Package(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeEnvelopeError(w, r, err)
		return
	}

	grants := make([]registry.Grant, 0, len(req.Grants))
	for _, g := range req.Grants {
		grants = append(grants, registry.Grant{User: g.User, VariantSlug: g.VariantSlug})
	}
	if err := s.reg.SetGrants(ctx, pkg, principal, grants); err != nil {
		writeEnvelopeError(w, r, err)
		return
	}
	writeEnvelope(w, map[string]any{"grants": len(grants)})
}

func (s *Server) apiGrants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, err := s.principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg, err := s.reg.Package(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	grants, err := s.reg.Grants(ctx, pkg, principal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := make([]grantRow, 0, len(grants))
	for _, g := range grants {
		rows = append(rows, grantRow{User: g.User, VariantSlug: g.VariantSlug})
	}
	writeJSON(w, http.StatusOK, map[string]any{"grants": rows})
}
