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

//go:build darwin

package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/runner"
)

const (
	airportBin = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

	mountTimeout    = 30 * time.Second
	wifiScanTimeout = 8 * time.Second
)

type darwinProvider struct {
	run *runner.Runner
	log logger.Logger
}

// New creates the macOS provider. Brightness needs the homebrew
// `brightness` tool and bluetooth needs `blueutil`; everything else uses
// tools shipped with the OS.
func New(run *runner.Runner, log logger.Logger) Provider {
	return &darwinProvider{run: run, log: log}
}

func (p *darwinProvider) Platform() models.PlatformInfo {
	info := models.PlatformInfo{
		System:       "Darwin",
		Architecture: runtime.GOARCH,
	}

	if res := p.run.Run(context.Background(), "sw_vers", "-productVersion"); res.Success {
		info.Version = res.Stdout
	}

	return info
}

func (p *darwinProvider) Brightness(ctx context.Context) models.BrightnessInfo {
	res := p.run.Run(ctx, "brightness", "-l")
	if !res.Success {
		return models.BrightnessInfo{Available: false, Error: "brightness tool not available (brew install brightness)"}
	}

	pct, ok := parseBrightnessDarwin(res.Stdout)
	if !ok {
		return models.BrightnessInfo{Available: false, Error: "unexpected brightness output"}
	}

	return models.BrightnessInfo{Brightness: pct, Available: true}
}

func (p *darwinProvider) SetBrightness(ctx context.Context, percent int) models.ControlResult {
	percent = clampPercent(percent, 1)

	res := p.run.Run(ctx, "brightness", fmt.Sprintf("%.2f", float64(percent)/100))
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "brightness tool not available (brew install brightness)")}
	}

	return models.ControlResult{Success: true, Brightness: percent}
}

func (p *darwinProvider) Volume(ctx context.Context) models.VolumeInfo {
	res := p.run.Run(ctx, "osascript", "-e", "get volume settings")
	if !res.Success {
		return models.VolumeInfo{Available: false, Error: commandError(res, "osascript failed")}
	}

	level, muted, ok := parseOsascriptVolume(res.Stdout)
	if !ok {
		return models.VolumeInfo{Available: false, Error: "unexpected volume settings output"}
	}

	return models.VolumeInfo{Volume: level, Muted: muted, Available: true}
}

func (p *darwinProvider) SetVolume(ctx context.Context, percent int) models.ControlResult {
	percent = clampPercent(percent, 0)

	res := p.run.Run(ctx, "osascript", "-e", fmt.Sprintf("set volume output volume %d", percent))
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "osascript failed")}
	}

	return models.ControlResult{Success: true, Volume: percent}
}

func (p *darwinProvider) ToggleMute(ctx context.Context) models.ControlResult {
	cur := p.run.Run(ctx, "osascript", "-e", "output muted of (get volume settings)")
	if !cur.Success {
		return models.ControlResult{Success: false, Error: commandError(cur, "osascript failed")}
	}

	target := cur.Stdout != "true"

	res := p.run.Run(ctx, "osascript", "-e", fmt.Sprintf("set volume output muted %t", target))
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "osascript failed")}
	}

	return models.ControlResult{Success: true, Muted: &target}
}

func (p *darwinProvider) Battery(ctx context.Context) models.BatteryInfo {
	res := p.run.Run(ctx, "pmset", "-g", "batt")
	if !res.Success {
		return models.BatteryInfo{}
	}

	return parsePmsetBattery(res.Stdout)
}

func (p *darwinProvider) WifiInfo(ctx context.Context) models.WifiInfo {
	info := models.WifiInfo{SSID: "Unknown", Scan: []models.WifiNetwork{}}

	cur := p.run.Run(ctx, airportBin, "-I")
	if cur.Success {
		if ssid, rssi, ok := parseAirportInfo(cur.Stdout); ok {
			info.Connected = true
			info.SSID = ssid
			info.SignalStrength = rssi
		}
	}

	scan := p.run.RunTimeout(ctx, wifiScanTimeout, airportBin, "-s")
	if scan.Success {
		info.Scan = parseAirportScan(scan.Stdout, info.SSID)
	}

	if !cur.Success && !scan.Success {
		info.Error = commandError(cur, "airport tool not available")
	}

	return info
}

func (p *darwinProvider) BluetoothAvailable(ctx context.Context) bool {
	res := p.run.Run(ctx, "defaults", "read", "/Library/Preferences/com.apple.Bluetooth", "ControllerPowerState")
	return res.Success && strings.TrimSpace(res.Stdout) == "1"
}

func (p *darwinProvider) BluetoothScan(ctx context.Context) []models.BluetoothDevice {
	res := p.run.RunTimeout(ctx, 15*time.Second, "blueutil", "--inquiry", "5")
	if !res.Success {
		return nil
	}

	return parseBlueutilPaired(res.Stdout)
}

func (p *darwinProvider) PairedDevices(ctx context.Context) []models.BluetoothDevice {
	res := p.run.Run(ctx, "blueutil", "--paired")
	if !res.Success {
		return nil
	}

	devices := parseBlueutilPaired(res.Stdout)
	for i := range devices {
		devices[i].Paired = true
	}

	return devices
}

func (p *darwinProvider) BluetoothOp(ctx context.Context, op, address string) models.ControlResult {
	flag := map[string]string{
		BluetoothConnect:    "--connect",
		BluetoothDisconnect: "--disconnect",
		BluetoothPair:       "--pair",
		BluetoothUnpair:     "--unpair",
	}[op]

	if flag == "" {
		return models.ControlResult{Success: false, Error: fmt.Sprintf("unsupported bluetooth operation: %s", op)}
	}

	res := p.run.RunTimeout(ctx, 15*time.Second, "blueutil", flag, address)
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "blueutil failed (brew install blueutil)")}
	}

	return models.ControlResult{Success: true, Message: fmt.Sprintf("%s %s", op, address)}
}

func (p *darwinProvider) Drives(ctx context.Context) []models.DriveRecord {
	drives := []models.DriveRecord{}

	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		return drives
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "Macintosh HD" {
			continue
		}

		path := filepath.Join("/Volumes", name)

		info := p.run.Run(ctx, "diskutil", "info", path)

		device := ""
		filesystem := "unknown"

		if info.Success {
			for _, line := range strings.Split(info.Stdout, "\n") {
				line = strings.TrimSpace(line)

				switch {
				case strings.HasPrefix(line, "Device Node:"):
					device = strings.TrimSpace(strings.TrimPrefix(line, "Device Node:"))
				case strings.HasPrefix(line, "Type (Bundle):"):
					filesystem = strings.TrimSpace(strings.TrimPrefix(line, "Type (Bundle):"))
				}
			}
		}

		if device == "" {
			continue
		}

		drives = append(drives, models.DriveRecord{
			DeviceNode: device,
			Name:       name,
			SizeGB:     p.volumeSizeGB(path),
			Files:      ListDirectory(path),
			MountPoints: []models.MountPoint{{
				Device:     device,
				MountPoint: path,
				MountName:  name,
				Filesystem: filesystem,
			}},
		})
	}

	return drives
}

func (p *darwinProvider) UnmountedDevices(_ context.Context) []models.DriveRecord {
	// diskutil has no cheap unmounted-volume listing; external devices
	// auto-mount on attach, so there is nothing to report.
	return []models.DriveRecord{}
}

func (p *darwinProvider) Mount(ctx context.Context, device string) models.MountResult {
	res := p.run.RunTimeout(ctx, mountTimeout, "diskutil", "mount", device)
	if !res.Success {
		return models.MountResult{Success: false, Error: commandError(res, res.Stderr)}
	}

	mountPoint := ""
	if info := p.run.Run(ctx, "diskutil", "info", device); info.Success {
		mountPoint = parseDiskutilMount(info.Stdout)
	}

	return models.MountResult{Success: true, MountPoint: mountPoint, Message: res.Stdout}
}

func (p *darwinProvider) Unmount(ctx context.Context, device string) models.MountResult {
	res := p.run.RunTimeout(ctx, mountTimeout, "diskutil", "unmount", device)
	if !res.Success {
		return models.MountResult{Success: false, Error: commandError(res, res.Stderr)}
	}

	return models.MountResult{Success: true, Message: res.Stdout}
}

func (p *darwinProvider) volumeSizeGB(path string) float64 {
	res := p.run.Run(context.Background(), "df", "-k", path)
	if !res.Success {
		return 0
	}

	lines := strings.Split(res.Stdout, "\n")
	if len(lines) < 2 {
		return 0
	}

	fields := strings.Fields(lines[1])
	if len(fields) < 2 {
		return 0
	}

	var kb float64
	if _, err := fmt.Sscanf(fields[1], "%f", &kb); err != nil {
		return 0
	}

	return kb / (1 << 20)
}
