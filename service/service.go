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

// Package service exposes the package registry over HTTP: a JSON API
// for browsing and publishing, and raw artifact endpoints serving
// usefiles, checksum manifests and their signatures.
package service

import (
	"net/http"
	"os"

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/registry"
	"github.com/cs3org/nirvana/internal/signing"
	"github.com/go-chi/chi/v5"
)

// Server holds the HTTP surface of the registry.
type Server struct {
	router *chi.Mux
	c      *Config
	reg    *registry.Registry
}

// Config holds the configuration of the HTTP service.
type Config struct {
	DBFile    string          `mapstructure:"db_file"`
	SignerURL string          `mapstructure:"signer_url"`
	Registry  registry.Config `mapstructure:"registry"`

	tmpFile bool
}

func (c *Config) ApplyDefaults() {
	if c.DBFile == "" {
		tmp, err := os.CreateTemp("", "*")
		if err != nil {
			panic(err)
		}
		c.DBFile = tmp.Name()
		c.tmpFile = true
	}
}

// New creates the registry server with its sqlite store and the
// external signer client.
func New(c *Config) (*Server, error) {
	c.ApplyDefaults()
	db, err := crud.NewSqlite(c.DBFile)
	if err != nil {
		return nil, err
	}

	var signer signing.Signer
	if c.SignerURL != "" {
		signer = signing.NewHTTPSigner(c.SignerURL)
	}

	s := Server{
		router: chi.NewRouter(),
		c:      c,
		reg:    registry.New(&c.Registry, db, signer),
	}
	s.initRouter()
	return &s, nil
}

func (s *Server) initRouter() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.apiCategories)
		r.Post("/categories", s.apiCategoryNew)
		r.Get("/category/{slug}", s.apiCategory)
		r.Post("/packages", s.apiPackageNew)
		r.Get("/package/{slug}", s.apiPackage)
		r.Post("/package/{slug}", s.apiPackageEdit)
		r.Get("/package/{slug}/permissions", s.apiGrants)
		r.Post("/package/{slug}/permissions", s.apiGrantsEdit)
		r.Get("/package/{slug}/{version}", s.apiVersion)
		r.Get("/package/{slug}/{version}/{variant}", s.apiVariant)
		r.Post("/submit", s.apiSubmit)
	})

	s.router.Get("/packages/{slug}/{version}/{file:[-\\w]+}.use", s.versionUsefile)
	s.router.Get("/packages/{slug}/{version}/{variant}/{file:[-\\w]+}.use", s.variantUsefile)
	s.router.Get("/packages/{slug}/{version}/{variant}/{file:[-\\w]+}.checksums", s.variantChecksums)
	s.router.Get("/packages/{slug}/{version}/{variant}/{file:[-\\w]+}.sig", s.variantSignature)
}

// Registry exposes the core for the scheduled category sync.
func (s *Server) Registry() *registry.Registry { return s.reg }

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Close() error {
	if s.c.tmpFile {
		return os.RemoveAll(s.c.DBFile)
	}
	return nil
}
