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

//go:build !linux && !darwin

package host

import (
	"context"
	"runtime"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/runner"
)

const unsupportedMsg = "not supported on this platform"

type unsupportedProvider struct{}

// New returns a provider whose controls all report unavailable. Metrics
// collection still works through gopsutil; only host controls are stubbed.
func New(_ *runner.Runner, _ logger.Logger) Provider {
	return &unsupportedProvider{}
}

func (p *unsupportedProvider) Platform() models.PlatformInfo {
	return models.PlatformInfo{System: runtime.GOOS, Architecture: runtime.GOARCH}
}

func (p *unsupportedProvider) Brightness(context.Context) models.BrightnessInfo {
	return models.BrightnessInfo{Available: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) SetBrightness(context.Context, int) models.ControlResult {
	return models.ControlResult{Success: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) Volume(context.Context) models.VolumeInfo {
	return models.VolumeInfo{Available: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) SetVolume(context.Context, int) models.ControlResult {
	return models.ControlResult{Success: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) ToggleMute(context.Context) models.ControlResult {
	return models.ControlResult{Success: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) Battery(context.Context) models.BatteryInfo {
	return models.BatteryInfo{}
}

func (p *unsupportedProvider) WifiInfo(context.Context) models.WifiInfo {
	return models.WifiInfo{SSID: "Unknown", Scan: []models.WifiNetwork{}, Error: unsupportedMsg}
}

func (p *unsupportedProvider) BluetoothAvailable(context.Context) bool { return false }

func (p *unsupportedProvider) BluetoothScan(context.Context) []models.BluetoothDevice { return nil }

func (p *unsupportedProvider) PairedDevices(context.Context) []models.BluetoothDevice { return nil }

func (p *unsupportedProvider) BluetoothOp(context.Context, string, string) models.ControlResult {
	return models.ControlResult{Success: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) Drives(context.Context) []models.DriveRecord {
	return []models.DriveRecord{}
}

func (p *unsupportedProvider) UnmountedDevices(context.Context) []models.DriveRecord {
	return []models.DriveRecord{}
}

func (p *unsupportedProvider) Mount(context.Context, string) models.MountResult {
	return models.MountResult{Success: false, Error: unsupportedMsg}
}

func (p *unsupportedProvider) Unmount(context.Context, string) models.MountResult {
	return models.MountResult{Success: false, Error: unsupportedMsg}
}
