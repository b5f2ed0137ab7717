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

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

const runTimeout = 30 * time.Second

func (s *Server) handleVolumeGet(w http.ResponseWriter, r *http.Request) {
	s.writeSuccess(w, s.provider.Volume(r.Context()))
}

func (s *Server) handleVolumeSet(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Volume must be a number")
		return
	}

	result := s.provider.SetVolume(r.Context(), level)
	if !result.Success {
		s.writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	s.writeSuccess(w, result)
}

func (s *Server) handleVolumeMute(w http.ResponseWriter, r *http.Request) {
	result := s.provider.ToggleMute(r.Context())
	if !result.Success {
		s.writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	s.writeSuccess(w, result)
}

type runPayload struct {
	Command string `json:"command"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Command == "" {
		s.writeError(w, http.StatusBadRequest, "Command required")
		return
	}

	s.writeSuccess(w, s.runner.RunShell(r.Context(), runTimeout, payload.Command))
}
