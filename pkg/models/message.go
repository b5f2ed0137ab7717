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

// Package models defines the wire protocol and domain types shared by the
// hub, producers, host providers and the HTTP API.
package models

import "encoding/json"

// Event is a server-to-client push channel message. Every message on the
// channel, in either direction, is a {"cmd": ..., "val": ...} pair.
type Event struct {
	Cmd string      `json:"cmd"`
	Val interface{} `json:"val"`
}

// Command is a client-to-server message. Val stays raw until the handler
// for Cmd decides how to decode it.
type Command struct {
	Cmd string          `json:"cmd"`
	Val json.RawMessage `json:"val,omitempty"`
}

// Client-to-server command names. Routing is exact string match; anything
// else yields an error event.
const (
	CmdPing                = "ping"
	CmdGetMetrics          = "get_metrics"
	CmdGetSystemInfo       = "get_system_info"
	CmdGetDrives           = "get_drives"
	CmdBrightnessGet       = "brightness_get"
	CmdBrightnessSet       = "brightness_set"
	CmdVolumeGet           = "volume_get"
	CmdVolumeSet           = "volume_set"
	CmdVolumeMute          = "volume_mute"
	CmdBluetoothScan       = "bluetooth_scan"
	CmdBluetoothConnect    = "bluetooth_connect"
	CmdBluetoothDisconnect = "bluetooth_disconnect"
	CmdBluetoothPair       = "bluetooth_pair"
	CmdBluetoothUnpair     = "bluetooth_unpair"
	CmdRun                 = "run"
	CmdUSBMount            = "usb_mount"
	CmdUSBUnmount          = "usb_unmount"
)

// Server-to-client event names.
const (
	EventHandshake          = "handshake"
	EventPong               = "pong"
	EventError              = "error"
	EventMetrics            = "metrics"
	EventMetricsUpdate      = "metrics_update"
	EventSystemInfo         = "system_info"
	EventDrivesUpdate       = "drives_update"
	EventBluetoothUpdate    = "bluetooth_update"
	EventWifiUpdate         = "wifi_update"
	EventBrightnessAck      = "brightness_ack"
	EventBrightnessResponse = "brightness_response"
	EventVolumeAck          = "volume_ack"
	EventVolumeResponse     = "volume_response"
	EventBluetoothAck       = "bluetooth_ack"
	EventBluetoothResponse  = "bluetooth_response"
	EventRunAck             = "run_ack"
	EventRunResponse        = "run_response"
	EventUSBAck             = "usb_ack"
	EventUSBResponse        = "usb_response"
)

// Drive change tags carried in a drives_update payload.
const (
	DriveChangeInitial  = "initial"
	DriveChangeAddition = "addition"
	DriveChangeRemoval  = "removal"
	DriveChangePeriodic = "periodic"
)

// HandshakePayload is sent once, immediately after a connection is accepted.
type HandshakePayload struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// PongPayload answers a ping.
type PongPayload struct {
	Timestamp float64 `json:"timestamp"`
}

// ErrorPayload carries a human-readable failure reason.
type ErrorPayload struct {
	Message string `json:"message"`
}

// AckPayload is the immediate acknowledgement for a slow command. Status is
// a short progressive verb ("setting", "scanning", "pairing"). The optional
// fields echo the requested value so clients can render optimistic state.
type AckPayload struct {
	Status     string `json:"status"`
	Brightness *int   `json:"brightness,omitempty"`
	Volume     *int   `json:"volume,omitempty"`
	Address    string `json:"address,omitempty"`
	Device     string `json:"device,omitempty"`
}

// DrivesPayload is the val of a drives_update event.
type DrivesPayload struct {
	Drives     []DriveRecord `json:"drives"`
	ChangeType string        `json:"change_type"`
}

// WifiPayload is the val of a wifi_update event.
type WifiPayload struct {
	Wifi      WifiInfo `json:"wifi"`
	Timestamp float64  `json:"timestamp"`
}

// BluetoothPayload is the val of a bluetooth_update or bluetooth_response
// event.
type BluetoothPayload struct {
	Bluetooth BluetoothSummary `json:"bluetooth"`
}

// BluetoothSummary lists the currently known devices.
type BluetoothSummary struct {
	Devices   []BluetoothDevice `json:"devices"`
	Count     int               `json:"count"`
	Timestamp float64           `json:"timestamp"`
}
