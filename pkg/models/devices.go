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

// MountPoint describes one mounted filesystem of a drive.
type MountPoint struct {
	Device     string `json:"device"`
	MountPoint string `json:"mount_point"`
	MountName  string `json:"mount_name"`
	Filesystem string `json:"filesystem"`
}

// FileEntry is one row of a shallow directory listing.
type FileEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Readable    bool   `json:"readable"`
	Writable    bool   `json:"writable"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Modified    int64  `json:"modified"`
	Permissions string `json:"permissions"`
	Extension   string `json:"extension,omitempty"`
}

// DriveRecord is one removable drive. DeviceNode is the stable identifier
// used by the drive change monitor for set diffing.
type DriveRecord struct {
	DeviceNode  string       `json:"device_node"`
	Name        string       `json:"name"`
	SizeGB      float64      `json:"size_gb"`
	Files       []FileEntry  `json:"files"`
	MountPoints []MountPoint `json:"mount_points"`
}

// BluetoothDevice is one discovered or paired device, keyed by address.
// RSSI is -100 for devices that have aged out of scan range.
type BluetoothDevice struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	RSSI      int     `json:"rssi"`
	Paired    bool    `json:"paired"`
	Connected bool    `json:"connected"`
	Nearby    bool    `json:"nearby"`
	LastSeen  float64 `json:"last_seen"`
}

// WifiNetwork is one entry of a Wi-Fi scan.
type WifiNetwork struct {
	SSID           string `json:"ssid"`
	SignalStrength int    `json:"signal_strength"`
	Frequency      int    `json:"frequency"`
	Connected      bool   `json:"connected"`
}

// WifiInfo is the wifi category of a metrics snapshot.
type WifiInfo struct {
	Connected      bool          `json:"connected"`
	SSID           string        `json:"ssid"`
	SignalStrength int           `json:"signal_strength"`
	Scan           []WifiNetwork `json:"scan"`
	Error          string        `json:"error,omitempty"`
}

// BrightnessInfo is a brightness_get / brightness_response value.
type BrightnessInfo struct {
	Brightness int    `json:"brightness"`
	Available  bool   `json:"available"`
	Error      string `json:"error,omitempty"`
}

// VolumeInfo is a volume_get / volume_response value.
type VolumeInfo struct {
	Volume    int    `json:"volume"`
	Muted     bool   `json:"muted"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// ControlResult is the terminal outcome of a host-control action
// (brightness/volume set, mute toggle, bluetooth operation).
type ControlResult struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	Brightness int    `json:"brightness,omitempty"`
	Volume     int    `json:"volume,omitempty"`
	Muted      *bool  `json:"muted,omitempty"`
}

// MountResult is the outcome of a mount or unmount request.
type MountResult struct {
	Success    bool   `json:"success"`
	MountPoint string `json:"mount_point,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}
