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

// Package registry implements the core of the package hosting service:
// slug validation, the authorization model, version and variant
// publication with their consistency rules, and the API publication
// pipeline.
//
// A package is owned by its author. Versions are unique by slug within
// a package and at most one version per package carries the latest
// flag. Variants are unique by slug within a version, and publishing
// one requires either package ownership or an explicit manager grant
// for that variant slug.
package registry

import (
	"sync"
	"time"

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/signing"
	"github.com/rs/zerolog"
)

// Config holds the configuration for the registry core.
type Config struct {
	// SigningTimeout bounds a single call to the external signing
	// service so a hung signer cannot stall a publish.
	SigningTimeout time.Duration `mapstructure:"signing_timeout"`

	// CategoriesRepository is an optional git repository holding the
	// curated category list, synced periodically.
	CategoriesRepository string `mapstructure:"categories_repository"`
	// CategoriesFile is the path of the category list inside the
	// repository.
	CategoriesFile string `mapstructure:"categories_file"`

	Log *zerolog.Logger `mapstructure:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.SigningTimeout == 0 {
		c.SigningTimeout = 10 * time.Second
	}
	if c.CategoriesFile == "" {
		c.CategoriesFile = "categories.json"
	}
	if c.Log == nil {
		l := zerolog.Nop()
		c.Log = &l
	}
}

// Registry is the system of record for packages, versions, variants
// and manager grants.
type Registry struct {
	c      *Config
	repo   crud.Repository
	signer signing.Signer

	locks keyedLocks
}

// New creates a Registry backed by the given repository and signer.
func New(c *Config, repository crud.Repository, signer signing.Signer) *Registry {
	c.ApplyDefaults()
	return &Registry{
		c:      c,
		repo:   repository,
		signer: signer,
	}
}

// keyedLocks hands out one mutex per key. The read-check-write
// sequences on versions and variants are serialized per package;
// two publishers racing on different packages never contend.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

func (r *Registry) lockPackage(slug string) func() {
	l := r.locks.get(slug)
	l.Lock()
	return l.Unlock
}
