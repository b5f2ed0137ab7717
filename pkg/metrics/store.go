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

// Package metrics holds the shared telemetry cache. Each category is owned
// by exactly one producer and stamped with its own refresh time, so
// producers on different cadences never clobber a fresher neighbor.
package metrics

import (
	"sync"
	"time"

	"github.com/rotur/roturlink/pkg/models"
)

// Store is the single in-process metrics cache. Writers are
// single-producer-per-field; Snapshot returns a full copy.
type Store struct {
	mu sync.RWMutex

	cpu        models.CPUMetrics
	memory     models.MemoryMetrics
	disk       models.DiskMetrics
	network    models.NetworkMetrics
	battery    models.BatteryInfo
	wifi       models.WifiInfo
	bluetooth  []models.BluetoothDevice
	drives     []models.DriveRecord
	brightness int
	volume     models.VolumeState

	updated map[string]time.Time

	systemInfo models.SystemInfo
}

// Category names, used as keys for the per-field refresh timestamps.
const (
	CategoryCPU        = "cpu"
	CategoryMemory     = "memory"
	CategoryDisk       = "disk"
	CategoryNetwork    = "network"
	CategoryBattery    = "battery"
	CategoryWifi       = "wifi"
	CategoryBluetooth  = "bluetooth"
	CategoryDrives     = "drives"
	CategoryBrightness = "brightness"
	CategoryVolume     = "volume"
)

// NewStore creates an empty metrics cache.
func NewStore() *Store {
	return &Store{
		updated: make(map[string]time.Time),
	}
}

func (s *Store) stamp(category string) {
	s.updated[category] = time.Now()
}

// SetCPU records a cpu refresh.
func (s *Store) SetCPU(m models.CPUMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cpu = m
	s.stamp(CategoryCPU)
}

// SetMemory records a memory refresh.
func (s *Store) SetMemory(m models.MemoryMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory = m
	s.stamp(CategoryMemory)
}

// SetDisk records a disk refresh.
func (s *Store) SetDisk(m models.DiskMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disk = m
	s.stamp(CategoryDisk)
}

// SetNetwork records a network counter refresh.
func (s *Store) SetNetwork(m models.NetworkMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.network = m
	s.stamp(CategoryNetwork)
}

// SetBattery records a battery refresh.
func (s *Store) SetBattery(b models.BatteryInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.battery = b
	s.stamp(CategoryBattery)
}

// SetWifi records a Wi-Fi refresh.
func (s *Store) SetWifi(w models.WifiInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wifi = w
	s.stamp(CategoryWifi)
}

// SetBluetooth records a Bluetooth device list refresh.
func (s *Store) SetBluetooth(devices []models.BluetoothDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bluetooth = devices
	s.stamp(CategoryBluetooth)
}

// SetDrives records a removable drive list refresh.
func (s *Store) SetDrives(drives []models.DriveRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drives = drives
	s.stamp(CategoryDrives)
}

// SetBrightness records a brightness refresh.
func (s *Store) SetBrightness(pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.brightness = pct
	s.stamp(CategoryBrightness)
}

// SetVolume records a volume refresh.
func (s *Store) SetVolume(v models.VolumeState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = v
	s.stamp(CategoryVolume)
}

// SetSystemInfo stores the startup host probe result.
func (s *Store) SetSystemInfo(info models.SystemInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.systemInfo = info
}

// SystemInfo returns the static host description.
func (s *Store) SystemInfo() models.SystemInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.systemInfo
}

// LastUpdate returns when a category was last refreshed. The zero time
// means the category has never been refreshed.
func (s *Store) LastUpdate(category string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.updated[category]
}

// Drives returns the last known drive list.
func (s *Store) Drives() []models.DriveRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DriveRecord, len(s.drives))
	copy(out, s.drives)

	return out
}

// Bluetooth returns the last known Bluetooth device list.
func (s *Store) Bluetooth() []models.BluetoothDevice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BluetoothDevice, len(s.bluetooth))
	copy(out, s.bluetooth)

	return out
}

// Snapshot copies the whole cache. The snapshot timestamp is the newest
// per-field refresh time, not the call time: two snapshots taken with no
// producer activity between them are identical.
func (s *Store) Snapshot() models.MetricsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest time.Time
	for _, t := range s.updated {
		if t.After(newest) {
			newest = t
		}
	}

	var ts float64
	if !newest.IsZero() {
		ts = float64(newest.UnixNano()) / float64(time.Second)
	}

	drives := make([]models.DriveRecord, len(s.drives))
	copy(drives, s.drives)

	return models.MetricsSnapshot{
		CPU:        s.cpu,
		Memory:     s.memory,
		Disk:       s.disk,
		Network:    s.network,
		Battery:    s.battery,
		Wifi:       s.wifi,
		Brightness: s.brightness,
		Volume:     s.volume,
		Drives:     drives,
		Timestamp:  ts,
	}
}
