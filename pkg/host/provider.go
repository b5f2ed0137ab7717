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

// Package host wraps the OS-specific shell-outs behind one narrow
// interface. The hub and the producers are platform-agnostic and never
// branch on the OS name; everything platform-shaped lives here.
package host

import (
	"context"

	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/runner"
)

// Bluetooth operation names accepted by BluetoothOp.
const (
	BluetoothConnect    = "connect"
	BluetoothDisconnect = "disconnect"
	BluetoothPair       = "pair"
	BluetoothUnpair     = "unpair"
)

// Provider is the host-control surface. One implementation per platform;
// every method is safe to call concurrently and honors the context
// deadline (all shell-outs go through the bounded runner).
type Provider interface {
	// Platform returns the OS description used in system info.
	Platform() models.PlatformInfo

	Brightness(ctx context.Context) models.BrightnessInfo
	SetBrightness(ctx context.Context, percent int) models.ControlResult

	Volume(ctx context.Context) models.VolumeInfo
	SetVolume(ctx context.Context, percent int) models.ControlResult
	ToggleMute(ctx context.Context) models.ControlResult

	Battery(ctx context.Context) models.BatteryInfo
	WifiInfo(ctx context.Context) models.WifiInfo

	BluetoothAvailable(ctx context.Context) bool
	BluetoothScan(ctx context.Context) []models.BluetoothDevice
	PairedDevices(ctx context.Context) []models.BluetoothDevice
	BluetoothOp(ctx context.Context, op, address string) models.ControlResult

	Drives(ctx context.Context) []models.DriveRecord
	UnmountedDevices(ctx context.Context) []models.DriveRecord
	Mount(ctx context.Context, device string) models.MountResult
	Unmount(ctx context.Context, device string) models.MountResult
}

// commandError picks the most specific failure string a runner result
// carries.
func commandError(res runner.Result, fallback string) string {
	if res.Err != "" {
		return res.Err
	}

	if res.Stderr != "" {
		return res.Stderr
	}

	return fallback
}

func clampPercent(pct, low int) int {
	if pct < low {
		return low
	}

	if pct > 100 {
		return 100
	}

	return pct
}
