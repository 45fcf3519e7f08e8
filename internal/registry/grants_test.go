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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGrants(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)
	seedUser(t, r, "fred")
	pkg := seedPackage(t, r, "fred", "hello")

	t.Run("author only", func(t *testing.T) {
		err := r.SetGrants(ctx, pkg, "alice", []Grant{{User: "alice", VariantSlug: "linux"}})
		assert.ErrorIs(t, err, ErrUnauthorized)
		err = r.SetGrants(ctx, pkg, "", nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("replace semantics", func(t *testing.T) {
		err := r.SetGrants(ctx, pkg, "fred", []Grant{
			{User: "alice", VariantSlug: "linux"},
			{User: "bob", VariantSlug: "mac"},
		})
		require.NoError(t, err)

		err = r.SetGrants(ctx, pkg, "fred", []Grant{
			{User: "alice", VariantSlug: "linux"},
		})
		require.NoError(t, err)

		grants, err := r.Grants(ctx, pkg, "fred")
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, "alice", grants[0].User)
		assert.Equal(t, "linux", grants[0].VariantSlug)
	})

	t.Run("validated rows", func(t *testing.T) {
		err := r.SetGrants(ctx, pkg, "fred", []Grant{{User: "alice", VariantSlug: "not a slug"}})
		assert.ErrorIs(t, err, ErrInvalidSlug)
		err = r.SetGrants(ctx, pkg, "fred", []Grant{{User: "", VariantSlug: "linux"}})
		assert.ErrorIs(t, err, ErrInvalidSlug)
	})

	t.Run("grants listing is author only", func(t *testing.T) {
		_, err := r.Grants(ctx, pkg, "alice")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
