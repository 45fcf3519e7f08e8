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
	"runtime/debug"
	"time"

	"github.com/openzipkin/zipkin-go/idgenerator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLoggerMiddleware tags every request with a random trace id
// and logs an access line once the response is written.
func RequestLoggerMiddleware(log *zerolog.Logger, next http.Handler) http.Handler {
	traceHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace := idgenerator.NewRandom128().TraceID()
			l := log.With().Str("trace_id", trace.String())
			next.ServeHTTP(w, r.WithContext(l.Logger().WithContext(r.Context())))
		})
	}

	requestHandler := hlog.AccessHandler(
		func(r *http.Request, status, size int, duration time.Duration) {
			log := hlog.FromRequest(r)
			var event *zerolog.Event
			switch {
			case status < 400:
				event = log.Info()
			case status < 500:
				event = log.Warn()
			default:
				event = log.Error()
			}

			event.Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Send()
		},
	)

	return traceHandler(requestHandler(next))
}

// RecoverFromPanicMiddleware keeps a panicking handler from taking
// down the server.
func RecoverFromPanicMiddleware(log *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Msgf("panic: %v\n%s", rec, debug.Stack())
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
