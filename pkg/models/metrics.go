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

package models

// CPUMetrics is the cpu category of a metrics snapshot.
type CPUMetrics struct {
	Percent float64 `json:"percent"`
}

// MemoryMetrics is the memory category of a metrics snapshot.
type MemoryMetrics struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// DiskMetrics is the root filesystem usage category.
type DiskMetrics struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// NetworkMetrics carries cumulative interface counters.
type NetworkMetrics struct {
	Sent     uint64 `json:"sent"`
	Received uint64 `json:"received"`
}

// BatteryInfo is the battery category. Present is false on hosts without a
// battery; the other fields are then zero.
type BatteryInfo struct {
	Present bool    `json:"present"`
	Percent float64 `json:"percent"`
	Plugged bool    `json:"plugged"`
}

// VolumeState is the cached volume category inside a metrics snapshot.
type VolumeState struct {
	Level int  `json:"level"`
	Muted bool `json:"muted"`
}

// MetricsSnapshot is the full cached telemetry state broadcast to clients
// and returned by get_metrics. Timestamp is the unix time of the newest
// field refresh, so two snapshots with no refresh between them compare
// equal.
type MetricsSnapshot struct {
	CPU        CPUMetrics     `json:"cpu"`
	Memory     MemoryMetrics  `json:"memory"`
	Disk       DiskMetrics    `json:"disk"`
	Network    NetworkMetrics `json:"network"`
	Battery    BatteryInfo    `json:"battery"`
	Wifi       WifiInfo       `json:"wifi"`
	Brightness int            `json:"brightness"`
	Volume     VolumeState    `json:"volume"`
	Drives     []DriveRecord  `json:"drives"`
	Timestamp  float64        `json:"timestamp"`
}

// SystemInfo is the static host description sent on connect and from
// /sysinfo. It is probed once at startup.
type SystemInfo struct {
	Platform  PlatformInfo     `json:"platform"`
	CPU       CPUInfo          `json:"cpu"`
	Bluetooth BluetoothSupport `json:"bluetooth"`
	Memory    MemoryInfo       `json:"memory"`
	Hostname  string           `json:"hostname"`
}

// PlatformInfo identifies the operating system.
type PlatformInfo struct {
	System       string `json:"system"`
	Architecture string `json:"architecture"`
	Version      string `json:"version,omitempty"`
}

// CPUInfo reports physical and logical core counts.
type CPUInfo struct {
	Cores   int `json:"cores"`
	Threads int `json:"threads"`
}

// BluetoothSupport reports whether a usable Bluetooth controller was found.
type BluetoothSupport struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
}

// MemoryInfo reports installed memory.
type MemoryInfo struct {
	TotalGB float64 `json:"total_gb"`
}
