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
)

type devicePayload struct {
	Device string `json:"device"`
}

func (s *Server) handleDrives(w http.ResponseWriter, r *http.Request) {
	s.writeSuccess(w, map[string]interface{}{"drives": s.provider.Drives(r.Context())})
}

func (s *Server) handleUnmounted(w http.ResponseWriter, r *http.Request) {
	s.writeSuccess(w, map[string]interface{}{"unmounted_devices": s.provider.UnmountedDevices(r.Context())})
}

func (s *Server) handleMount(w http.ResponseWriter, r *http.Request) {
	device, ok := s.deviceFromBody(w, r)
	if !ok {
		return
	}

	result := s.provider.Mount(r.Context(), device)
	if !result.Success {
		s.writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	s.writeSuccess(w, result)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	device, ok := s.deviceFromBody(w, r)
	if !ok {
		return
	}

	result := s.provider.Unmount(r.Context(), device)
	if !result.Success {
		s.writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	s.writeSuccess(w, result)
}

func (s *Server) deviceFromBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload devicePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Device == "" {
		s.writeError(w, http.StatusBadRequest, "Device path required")
		return "", false
	}

	return payload.Device, true
}
