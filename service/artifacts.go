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
	"net/http"

	"github.com/cs3org/nirvana/internal/model"
	"github.com/cs3org/nirvana/internal/registry"
	"github.com/go-chi/chi/v5"
)

// resolveArtifactVersion resolves the package and version of an
// artifact URL, enforcing the routing-layer convention that the
// requested filename equals the package slug.
func (s *Server) resolveArtifactVersion(r *http.Request) (*model.Version, error) {
	slug := chi.URLParam(r, "slug")
	if chi.URLParam(r, "file") != slug {
		return nil, registry.ErrNotFound
	}
	return s.reg.Version(r.Context(), slug, chi.URLParam(r, "version"))
}

func (s *Server) resolveArtifactVariant(r *http.Request) (*model.Variant, error) {
	version, err := s.resolveArtifactVersion(r)
	if err != nil {
		return nil, err
	}
	return s.reg.Variant(r.Context(), version, chi.URLParam(r, "variant"))
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *Server) versionUsefile(w http.ResponseWriter, r *http.Request) {
	version, err := s.resolveArtifactVersion(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, version.Usefile)
}

func (s *Server) variantUsefile(w http.ResponseWriter, r *http.Request) {
	variant, err := s.resolveArtifactVariant(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, variant.Usefile)
}

func (s *Server) variantChecksums(w http.ResponseWriter, r *http.Request) {
	variant, err := s.resolveArtifactVariant(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, variant.Checksums)
}

func (s *Server) variantSignature(w http.ResponseWriter, r *http.Request) {
	variant, err := s.resolveArtifactVariant(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, variant.ChecksumsSignature)
}
