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

// Package config loads the agent configuration. Everything has a working
// default; a config file only overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/models"
)

// DefaultOriginsURL is the remote origin registry polled at runtime.
const DefaultOriginsURL = "https://link.rotur.dev/allowed.json"

// Intervals are the producer cadences. The idle variants apply while no
// client is connected.
type Intervals struct {
	Metrics       models.Duration `json:"metrics"`
	MetricsIdle   models.Duration `json:"metrics_idle"`
	Disk          models.Duration `json:"disk"`
	DiskIdle      models.Duration `json:"disk_idle"`
	Battery       models.Duration `json:"battery"`
	BatteryIdle   models.Duration `json:"battery_idle"`
	Controls      models.Duration `json:"controls"`
	ControlsIdle  models.Duration `json:"controls_idle"`
	Wifi          models.Duration `json:"wifi"`
	WifiIdle      models.Duration `json:"wifi_idle"`
	Bluetooth     models.Duration `json:"bluetooth"`
	Drives        models.Duration `json:"drives"`
	DrivesIdle    models.Duration `json:"drives_idle"`
	DriveMonitor  models.Duration `json:"drive_monitor"`
	DriveMonIdle  models.Duration `json:"drive_monitor_idle"`
	OriginRefresh models.Duration `json:"origin_refresh"`
}

// Config is the whole agent configuration.
type Config struct {
	HTTPListenAddr string         `json:"http_listen_addr"`
	WSListenAddr   string         `json:"ws_listen_addr"`
	OriginsURL     string         `json:"origins_url"`
	AllowedOrigins []string       `json:"allowed_origins"`
	Workers        int64          `json:"workers"`
	Intervals      Intervals      `json:"intervals"`
	Logging        *logger.Config `json:"logging"`
}

// Default returns the built-in configuration, matching the agent's
// published defaults: both listeners on loopback, the rotur origin
// baseline, four command workers.
func Default() *Config {
	return &Config{
		HTTPListenAddr: "127.0.0.1:5001",
		WSListenAddr:   "127.0.0.1:5002",
		OriginsURL:     DefaultOriginsURL,
		AllowedOrigins: []string{
			"https://turbowarp.org",
			"https://origin.mistium.com",
			"http://localhost:5001",
			"http://localhost:5002",
			"http://localhost:3000",
			"http://127.0.0.1:5001",
			"http://127.0.0.1:5002",
			"http://127.0.0.1:3000",
		},
		Workers: 4,
		Intervals: Intervals{
			Metrics:       models.Duration(5 * time.Second),
			MetricsIdle:   models.Duration(10 * time.Second),
			Disk:          models.Duration(30 * time.Second),
			DiskIdle:      models.Duration(60 * time.Second),
			Battery:       models.Duration(60 * time.Second),
			BatteryIdle:   models.Duration(120 * time.Second),
			Controls:      models.Duration(5 * time.Second),
			ControlsIdle:  models.Duration(30 * time.Second),
			Wifi:          models.Duration(45 * time.Second),
			WifiIdle:      models.Duration(60 * time.Second),
			Bluetooth:     models.Duration(30 * time.Second),
			Drives:        models.Duration(30 * time.Second),
			DrivesIdle:    models.Duration(60 * time.Second),
			DriveMonitor:  models.Duration(15 * time.Second),
			DriveMonIdle:  models.Duration(60 * time.Second),
			OriginRefresh: models.Duration(5 * time.Minute),
		},
		Logging: &logger.Config{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Load reads a JSON config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the agent cannot run with.
func (c *Config) Validate() error {
	if c.HTTPListenAddr == "" {
		return fmt.Errorf("http_listen_addr is required")
	}

	if c.WSListenAddr == "" {
		return fmt.Errorf("ws_listen_addr is required")
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	if c.Intervals.Metrics <= 0 || c.Intervals.OriginRefresh <= 0 {
		return fmt.Errorf("intervals must be positive")
	}

	return nil
}
