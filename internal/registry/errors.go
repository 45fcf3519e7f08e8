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
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a package, version, variant,
	// category or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when a slug collides with an
	// existing record in the same scope.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrUnauthorized is returned when the principal may not perform
	// the requested operation. The HTTP boundary maps it to the same
	// response as ErrNotFound so probers cannot distinguish a denied
	// resource from a missing one.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken is returned when the supplied API token does not
	// match the one derived from the user's stored credentials.
	ErrInvalidToken = errors.New("invalid api token")

	// ErrInvalidSlug is the base error wrapped by ValidationError.
	ErrInvalidSlug = errors.New("invalid slug")
)

// ValidationError reports a field whose value does not match the
// allowed slug grammar.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid slug %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSlug
}

// SigningError wraps a failure of the external signing service.
// Nothing is persisted when it occurs.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing checksums: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
