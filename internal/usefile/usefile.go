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

// Package usefile parses the release descriptor format: one `Key: Value`
// pair per line, with blank lines and `#` comments skipped. A historic
// deployment stopped parsing at the first blank or comment line; that
// was a defect and this parser deliberately keeps accumulating instead.
package usefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptor is the base error for malformed or incomplete
// release descriptors.
var ErrInvalidDescriptor = errors.New("invalid usefile")

// RequiredKeys are the keys every release descriptor must carry.
var RequiredKeys = []string{"Name", "Version", "Variant", "Origin"}

// Parse reads a release descriptor into a key/value map. Keys and
// values are trimmed; later occurrences of a key overwrite earlier
// ones. A non-blank, non-comment line without a colon is an error.
func Parse(s string) (map[string]string, error) {
	dct := make(map[string]string)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: malformed line %q", ErrInvalidDescriptor, line)
		}
		dct[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return dct, nil
}

// Validate checks that all required keys are present. Extra keys are
// allowed and ignored.
func Validate(dct map[string]string) error {
	var missing []string
	for _, k := range RequiredKeys {
		if _, ok := dct[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDescriptor, strings.Join(missing, ", "))
	}
	return nil
}
