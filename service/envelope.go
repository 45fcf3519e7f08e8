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
	"errors"
	"net/http"

	"github.com/cs3org/nirvana/internal/registry"
	"github.com/cs3org/nirvana/internal/usefile"
	"github.com/rs/zerolog/hlog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEnvelope writes the submission envelope: __result "ok" with the
// payload merged in.
func writeEnvelope(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"__result": "ok"}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeEnvelopeError writes the submission envelope for a failure:
// __result "error" plus __text with the message.
func writeEnvelopeError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Info().Err(err).Msg("submission rejected")
	writeJSON(w, statusFor(err), map[string]any{
		"__result": "error",
		"__text":   publicMessage(err),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Info().Err(err).Msg("request failed")
	http.Error(w, publicMessage(err), statusFor(err))
}

// statusFor maps the registry error taxonomy to transport statuses.
// Unauthorized deliberately maps to 404: a denied resource must be
// indistinguishable from a missing one.
func statusFor(err error) int {
	var sigErr *registry.SigningError
	switch {
	case errors.Is(err, registry.ErrNotFound),
		errors.Is(err, registry.ErrUnauthorized):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrDuplicateSlug):
		return http.StatusConflict
	case errors.Is(err, registry.ErrInvalidSlug),
		errors.Is(err, usefile.ErrInvalidDescriptor):
		return http.StatusBadRequest
	case errors.As(err, &sigErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides the detail of denied lookups. Everything mapped
// to 404 gets the same text regardless of the underlying cause.
func publicMessage(err error) string {
	if statusFor(err) == http.StatusNotFound {
		return "not found"
	}
	return err.Error()
}
