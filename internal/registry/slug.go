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

import "regexp"

var (
	slugRe = regexp.MustCompile(`^[-\w]+$`)

	// Version slugs additionally permit dots so version strings
	// like "1.2.3" round-trip.
	versionSlugRe = regexp.MustCompile(`^[-\w.]+$`)
)

// ValidSlug reports whether s is a valid package or category slug:
// letters, digits, underscores and hyphens, non-empty.
func ValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

// ValidVersionSlug reports whether s is a valid version slug.
func ValidVersionSlug(s string) bool {
	return versionSlugRe.MatchString(s)
}

func checkSlug(field, value string) error {
	if !ValidSlug(value) {
		return &ValidationError{Field: field, Value: value}
	}
	return nil
}

func checkVersionSlug(field, value string) error {
	if !ValidVersionSlug(value) {
		return &ValidationError{Field: field, Value: value}
	}
	return nil
}
