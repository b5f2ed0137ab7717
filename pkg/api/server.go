/*
 * Copyright 2025 Rotur.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api is the request/response HTTP surface: system info, the
// outbound proxy, drive and filesystem access, and volume controls. The
// push channel lives in pkg/hub; this package never broadcasts.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rotur/roturlink/pkg/host"
	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/policy"
	"github.com/rotur/roturlink/pkg/runner"
)

// Server holds the HTTP handler set.
type Server struct {
	store    *metrics.Store
	provider host.Provider
	runner   *runner.Runner
	policy   *policy.Policy
	logger   logger.Logger
}

// NewServer creates the HTTP API server.
func NewServer(store *metrics.Store, provider host.Provider, run *runner.Runner, pol *policy.Policy, log logger.Logger) *Server {
	return &Server{
		store:    store,
		provider: provider,
		runner:   run,
		policy:   pol,
		logger:   log,
	}
}

// Routes builds the full route table. Every route except /rotur sits
// behind the origin policy.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /rotur", s.handlePing)

	mux.HandleFunc("GET /sysinfo", s.secured(s.handleSysinfo))
	mux.HandleFunc("/proxy", s.secured(s.handleProxy))

	mux.HandleFunc("GET /usb/drives", s.secured(s.handleDrives))
	mux.HandleFunc("POST /usb/mount", s.secured(s.handleMount))
	mux.HandleFunc("POST /usb/remove", s.secured(s.handleRemove))
	mux.HandleFunc("GET /usb/unmounted", s.secured(s.handleUnmounted))

	mux.HandleFunc("GET /fs/list/{path...}", s.secured(s.handleFSList))
	mux.HandleFunc("GET /fs/read/{path...}", s.secured(s.handleFSRead))
	mux.HandleFunc("POST /fs/write/{path...}", s.secured(s.handleFSWrite))
	mux.HandleFunc("POST /fs/mkdir/{path...}", s.secured(s.handleFSMkdir))
	mux.HandleFunc("DELETE /fs/delete/{path...}", s.secured(s.handleFSDelete))

	mux.HandleFunc("GET /volume/get", s.secured(s.handleVolumeGet))
	mux.HandleFunc("GET /volume/set/{level}", s.secured(s.handleVolumeSet))
	mux.HandleFunc("POST /volume/mute", s.secured(s.handleVolumeMute))

	mux.HandleFunc("POST /run", s.secured(s.handleRun))

	return mux
}

// secured wraps a handler with CORS headers and the origin policy check.
// OPTIONS preflights are answered before the policy applies, so browsers
// can at least learn they are not welcome.
func (s *Server) secured(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		corsHeaders(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		if !s.policy.IsPermitted(r.RemoteAddr, r.Header.Get("Origin")) {
			s.logger.Warn().
				Str("remote_addr", r.RemoteAddr).
				Str("origin", r.Header.Get("Origin")).
				Str("path", r.URL.Path).
				Msg("Request rejected by origin policy")
			s.writeError(w, http.StatusForbidden, "Access denied")

			return
		}

		next(w, r)
	}
}

func corsHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
	h.Set("Access-Control-Max-Age", "86400")
}

// handlePing answers the presence probe. It is deliberately outside the
// policy: pages use it to discover whether the agent is running before
// they are in any allow-list.
func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	corsHeaders(w)
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("true"))
}

func (s *Server) handleSysinfo(w http.ResponseWriter, _ *http.Request) {
	s.writeSuccess(w, s.store.SystemInfo())
}

type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (s *Server) writeSuccess(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, envelope{Status: "error", Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug().Err(err).Msg("Response encoding failed")
	}
}
