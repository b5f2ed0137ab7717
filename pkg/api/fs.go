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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotur/roturlink/pkg/host"
)

const maxReadSize = 1 << 20

// resolvePath turns the wildcard path segment into an absolute path and
// checks it sits under a mount point of a currently attached drive. All
// filesystem endpoints are scoped to removable media; the host's own
// filesystem is never reachable here.
func (s *Server) resolvePath(r *http.Request) (string, bool) {
	raw := r.PathValue("path")

	full := filepath.Clean("/" + raw)

	for _, drive := range s.provider.Drives(r.Context()) {
		for _, mp := range drive.MountPoints {
			root := filepath.Clean(mp.MountPoint)
			if full == root || strings.HasPrefix(full, root+string(filepath.Separator)) {
				return full, true
			}
		}
	}

	return full, false
}

func (s *Server) handleFSList(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolvePath(r)
	if !ok {
		s.writeError(w, http.StatusForbidden, "Access denied - path not in mounted drive")
		return
	}

	s.writeSuccess(w, map[string]interface{}{
		"path":     path,
		"contents": host.ListDirectory(path),
	})
}

func (s *Server) handleFSRead(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolvePath(r)
	if !ok {
		s.writeError(w, http.StatusForbidden, "Access denied - path not in mounted drive")
		return
	}

	maxSize := int64(maxReadSize)
	if raw := r.URL.Query().Get("max_size"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			maxSize = n
		}
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.writeError(w, http.StatusBadRequest, "File not accessible")
		return
	}

	if info.Size() > maxSize {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("File too large (max %dKB)", maxSize/1024))
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "File not accessible")
		return
	}

	if isTextContent(content) {
		s.writeSuccess(w, map[string]interface{}{
			"content":  string(content),
			"type":     "text",
			"size":     info.Size(),
			"encoding": "utf-8",
		})

		return
	}

	s.writeSuccess(w, map[string]interface{}{
		"content":  base64.StdEncoding.EncodeToString(content),
		"type":     "binary",
		"size":     info.Size(),
		"encoding": "base64",
	})
}

type writePayload struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
}

func (s *Server) handleFSWrite(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolvePath(r)
	if !ok {
		s.writeError(w, http.StatusForbidden, "Access denied - path not in mounted drive")
		return
	}

	var payload writePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Content == "" {
		s.writeError(w, http.StatusBadRequest, "Content required")
		return
	}

	if dir := filepath.Dir(path); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			s.writeError(w, http.StatusBadRequest, "Directory does not exist")
			return
		}
	}

	var data []byte

	switch payload.Type {
	case "", "text":
		data = []byte(payload.Content)
	case "binary":
		decoded, err := base64.StdEncoding.DecodeString(payload.Content)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid base64 content")
			return
		}

		data = decoded
	default:
		s.writeError(w, http.StatusBadRequest, "Invalid content type")
		return
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, map[string]interface{}{"message": "File written: " + path})
}

func (s *Server) handleFSMkdir(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolvePath(r)
	if !ok {
		s.writeError(w, http.StatusForbidden, "Access denied - path not in mounted drive")
		return
	}

	if _, err := os.Stat(path); err == nil {
		s.writeError(w, http.StatusBadRequest, "Directory already exists")
		return
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, map[string]interface{}{"message": "Directory created: " + path})
}

func (s *Server) handleFSDelete(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolvePath(r)
	if !ok {
		s.writeError(w, http.StatusForbidden, "Access denied - path not in mounted drive")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Path does not exist")
		return
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s.writeSuccess(w, map[string]interface{}{"message": "Directory deleted: " + path})

		return
	}

	if err := os.Remove(path); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, map[string]interface{}{"message": "File deleted: " + path})
}

// isTextContent applies a cheap binary sniff: valid UTF-8 with no NUL in
// the first KB counts as text.
func isTextContent(content []byte) bool {
	sample := content
	if len(sample) > 1024 {
		sample = sample[:1024]
	}

	for _, b := range sample {
		if b == 0 {
			return false
		}
	}

	return utf8.Valid(content)
}
