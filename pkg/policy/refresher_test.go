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

package policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotur/roturlink/pkg/logger"
)

func TestRefreshNowReplacesOrigins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"origins":["https://app.example.com"]}`))
	}))
	defer srv.Close()

	p := New([]string{"https://turbowarp.org"})
	r := NewRefresher(p, srv.URL, logger.NewTestLogger())

	require.NoError(t, r.RefreshNow(context.Background()))

	assert.True(t, p.IsOriginAllowed("https://app.example.com"))
	assert.True(t, p.IsOriginAllowed("https://turbowarp.org"))
}

func TestRefreshNowKeepsSetOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New([]string{"https://turbowarp.org"})
	p.Replace([]string{"https://app.example.com"})

	r := NewRefresher(p, srv.URL, logger.NewTestLogger())

	assert.Error(t, r.RefreshNow(context.Background()))
	assert.True(t, p.IsOriginAllowed("https://app.example.com"))
	assert.True(t, p.IsOriginAllowed("https://turbowarp.org"))
}

func TestRefreshNowKeepsSetOnMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "origins go here"},
		{name: "missing origins key", body: `{"allowed":["https://x.example"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := New([]string{"https://turbowarp.org"})
			r := NewRefresher(p, srv.URL, logger.NewTestLogger())

			assert.Error(t, r.RefreshNow(context.Background()))
			assert.True(t, p.IsOriginAllowed("https://turbowarp.org"))
		})
	}
}

func TestRefreshNowUnreachableRegistry(t *testing.T) {
	p := New([]string{"https://turbowarp.org"})
	r := NewRefresher(p, "http://127.0.0.1:1", logger.NewTestLogger())

	assert.Error(t, r.RefreshNow(context.Background()))
	assert.True(t, p.IsOriginAllowed("https://turbowarp.org"))
}

func TestRefreshNowEmptyOriginsListIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"origins":[]}`))
	}))
	defer srv.Close()

	p := New([]string{"https://turbowarp.org"})
	p.Replace([]string{"https://app.example.com"})

	r := NewRefresher(p, srv.URL, logger.NewTestLogger())

	require.NoError(t, r.RefreshNow(context.Background()))

	assert.False(t, p.IsOriginAllowed("https://app.example.com"))
	assert.True(t, p.IsOriginAllowed("https://turbowarp.org"))
}
