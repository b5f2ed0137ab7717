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
	"io"
	"net/http"
	"strings"
	"time"
)

const proxyTimeout = 10 * time.Second

var proxyClient = &http.Client{Timeout: proxyTimeout}

// hop-by-hop and request-specific headers that must not be forwarded.
var strippedHeaders = map[string]struct{}{
	"host":           {},
	"content-length": {},
	"connection":     {},
	"origin":         {},
	"referer":        {},
}

// handleProxy forwards the request to the url query parameter, working
// around CORS for pages that cannot reach third-party APIs directly. The
// upstream status and content type pass through; other response headers
// are replaced by our permissive CORS set.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "URL parameter missing")
		return
	}

	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		s.writeError(w, http.StatusBadRequest, "URL must be http or https")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for name, values := range r.Header {
		if _, strip := strippedHeaders[strings.ToLower(name)]; strip {
			continue
		}

		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := proxyClient.Do(req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Debug().Err(err).Str("url", target).Msg("Proxy body copy failed")
	}
}
