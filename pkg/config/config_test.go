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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5001", cfg.HTTPListenAddr)
	assert.Equal(t, "127.0.0.1:5002", cfg.WSListenAddr)
	assert.Equal(t, DefaultOriginsURL, cfg.OriginsURL)
	assert.Contains(t, cfg.AllowedOrigins, "https://turbowarp.org")
	assert.Equal(t, int64(4), cfg.Workers)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Intervals.Metrics))
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.Intervals.OriginRefresh))
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	content := `{
		"http_listen_addr": "127.0.0.1:6001",
		"workers": 8,
		"intervals": {"metrics": "2s"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6001", cfg.HTTPListenAddr)
	assert.Equal(t, int64(8), cfg.Workers)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Intervals.Metrics))

	// Untouched fields keep their defaults.
	assert.Equal(t, "127.0.0.1:5002", cfg.WSListenAddr)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.Intervals.MetricsIdle))
}

func TestLoadDurationAsNanoseconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"intervals": {"metrics": 3000000000}}`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, time.Duration(cfg.Intervals.Metrics))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.json")
	assert.Error(t, err)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "addr = 5001"},
		{name: "zero workers", content: `{"workers": 0}`},
		{name: "empty http addr", content: `{"http_listen_addr": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
