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

//go:build linux

package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/runner"
)

const (
	mountTimeout  = 30 * time.Second
	btScanTimeout = 8 * time.Second
	btScanWindow  = "5"

	sectorSize = 512
)

type linuxProvider struct {
	run *runner.Runner
	log logger.Logger
}

// New creates the Linux provider. Controls shell out to brightnessctl,
// amixer, nmcli, bluetoothctl and udisksctl; availability of each tool is
// probed per call, not at startup.
func New(run *runner.Runner, log logger.Logger) Provider {
	return &linuxProvider{run: run, log: log}
}

func (p *linuxProvider) Platform() models.PlatformInfo {
	info := models.PlatformInfo{
		System:       "Linux",
		Architecture: runtime.GOARCH,
	}

	if release, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
		info.Version = strings.TrimSpace(string(release))
	}

	return info
}

func (p *linuxProvider) Brightness(ctx context.Context) models.BrightnessInfo {
	res := p.run.Run(ctx, "brightnessctl", "-m")
	if !res.Success {
		return models.BrightnessInfo{Available: false, Error: "brightnessctl not available"}
	}

	pct, ok := parseBrightnessctl(res.Stdout)
	if !ok {
		return models.BrightnessInfo{Available: false, Error: "unexpected brightnessctl output"}
	}

	return models.BrightnessInfo{Brightness: pct, Available: true}
}

func (p *linuxProvider) SetBrightness(ctx context.Context, percent int) models.ControlResult {
	percent = clampPercent(percent, 1)

	res := p.run.Run(ctx, "brightnessctl", "set", fmt.Sprintf("%d%%", percent))
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "brightnessctl failed")}
	}

	return models.ControlResult{Success: true, Brightness: percent}
}

func (p *linuxProvider) Volume(ctx context.Context) models.VolumeInfo {
	res := p.run.Run(ctx, "amixer", "get", "Master")
	if !res.Success {
		return models.VolumeInfo{Available: false, Error: "amixer not available"}
	}

	level, muted, ok := parseAmixer(res.Stdout)
	if !ok {
		return models.VolumeInfo{Available: false, Error: "unexpected amixer output"}
	}

	return models.VolumeInfo{Volume: level, Muted: muted, Available: true}
}

func (p *linuxProvider) SetVolume(ctx context.Context, percent int) models.ControlResult {
	percent = clampPercent(percent, 0)

	res := p.run.Run(ctx, "amixer", "set", "Master", fmt.Sprintf("%d%%", percent))
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "amixer failed")}
	}

	return models.ControlResult{Success: true, Volume: percent}
}

func (p *linuxProvider) ToggleMute(ctx context.Context) models.ControlResult {
	res := p.run.Run(ctx, "amixer", "set", "Master", "toggle")
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "amixer failed")}
	}

	_, muted, ok := parseAmixer(res.Stdout)
	if !ok {
		return models.ControlResult{Success: true, Message: "mute toggled"}
	}

	return models.ControlResult{Success: true, Muted: &muted}
}

func (p *linuxProvider) Battery(_ context.Context) models.BatteryInfo {
	supplies, err := filepath.Glob("/sys/class/power_supply/BAT*")
	if err != nil || len(supplies) == 0 {
		return models.BatteryInfo{}
	}

	base := supplies[0]

	capRaw, err := os.ReadFile(filepath.Join(base, "capacity"))
	if err != nil {
		return models.BatteryInfo{}
	}

	percent, err := strconv.ParseFloat(strings.TrimSpace(string(capRaw)), 64)
	if err != nil {
		return models.BatteryInfo{}
	}

	info := models.BatteryInfo{Present: true, Percent: percent}

	if status, err := os.ReadFile(filepath.Join(base, "status")); err == nil {
		s := strings.TrimSpace(string(status))
		info.Plugged = s == "Charging" || s == "Full"
	}

	return info
}

func (p *linuxProvider) WifiInfo(ctx context.Context) models.WifiInfo {
	res := p.run.Run(ctx, "nmcli", "-t", "-f", "ACTIVE,SSID,SIGNAL", "dev", "wifi")
	if !res.Success {
		return models.WifiInfo{SSID: "Unknown", Scan: []models.WifiNetwork{}, Error: commandError(res, "nmcli not available")}
	}

	return parseNmcliWifi(res.Stdout)
}

func (p *linuxProvider) BluetoothAvailable(ctx context.Context) bool {
	res := p.run.Run(ctx, "bluetoothctl", "show")
	return res.Success && strings.Contains(res.Stdout, "Controller")
}

func (p *linuxProvider) BluetoothScan(ctx context.Context) []models.BluetoothDevice {
	// A short discovery burst populates the controller's device cache;
	// `devices` then reads it back without blocking on discovery.
	p.run.RunTimeout(ctx, btScanTimeout, "bluetoothctl", "--timeout", btScanWindow, "scan", "on")

	res := p.run.Run(ctx, "bluetoothctl", "devices")
	if !res.Success {
		return nil
	}

	devices := parseBluetoothctlDevices(res.Stdout)
	for i := range devices {
		info := p.run.Run(ctx, "bluetoothctl", "info", devices[i].Address)
		if !info.Success {
			continue
		}

		paired, connected, rssi := parseBluetoothctlInfo(info.Stdout)
		devices[i].Paired = paired
		devices[i].Connected = connected
		devices[i].RSSI = rssi
	}

	return devices
}

func (p *linuxProvider) PairedDevices(ctx context.Context) []models.BluetoothDevice {
	res := p.run.Run(ctx, "bluetoothctl", "devices", "Paired")
	if !res.Success || strings.TrimSpace(res.Stdout) == "" {
		// bluez before 5.65 spells it differently.
		res = p.run.Run(ctx, "bluetoothctl", "paired-devices")
	}

	if !res.Success {
		return nil
	}

	devices := parseBluetoothctlDevices(res.Stdout)
	for i := range devices {
		devices[i].Paired = true

		if info := p.run.Run(ctx, "bluetoothctl", "info", devices[i].Address); info.Success {
			_, connected, _ := parseBluetoothctlInfo(info.Stdout)
			devices[i].Connected = connected
		}
	}

	return devices
}

func (p *linuxProvider) BluetoothOp(ctx context.Context, op, address string) models.ControlResult {
	verb := map[string]string{
		BluetoothConnect:    "connect",
		BluetoothDisconnect: "disconnect",
		BluetoothPair:       "pair",
		BluetoothUnpair:     "remove",
	}[op]

	if verb == "" {
		return models.ControlResult{Success: false, Error: fmt.Sprintf("unsupported bluetooth operation: %s", op)}
	}

	res := p.run.RunTimeout(ctx, 15*time.Second, "bluetoothctl", verb, address)
	if !res.Success {
		return models.ControlResult{Success: false, Error: commandError(res, "bluetoothctl failed")}
	}

	return models.ControlResult{Success: true, Message: fmt.Sprintf("%s %s", op, address)}
}

func (p *linuxProvider) Drives(_ context.Context) []models.DriveRecord {
	drives := []models.DriveRecord{}

	for _, disk := range p.removableDisks() {
		record := models.DriveRecord{
			DeviceNode:  "/dev/" + disk,
			Name:        disk,
			SizeGB:      p.diskSizeGB(disk),
			Files:       []models.FileEntry{},
			MountPoints: []models.MountPoint{},
		}

		for _, part := range p.partitions(disk) {
			record.MountPoints = append(record.MountPoints, p.mountsOf("/dev/"+part)...)
		}

		if len(record.MountPoints) == 0 {
			record.MountPoints = p.mountsOf(record.DeviceNode)
		}

		if len(record.MountPoints) > 0 {
			record.Name = record.MountPoints[0].MountName
			record.Files = ListDirectory(record.MountPoints[0].MountPoint)
			drives = append(drives, record)
		}
	}

	return drives
}

func (p *linuxProvider) UnmountedDevices(_ context.Context) []models.DriveRecord {
	devices := []models.DriveRecord{}

	for _, disk := range p.removableDisks() {
		parts := p.partitions(disk)
		if len(parts) == 0 {
			parts = []string{disk}
		}

		for _, part := range parts {
			node := "/dev/" + part
			if len(p.mountsOf(node)) > 0 {
				continue
			}

			devices = append(devices, models.DriveRecord{
				DeviceNode:  node,
				Name:        part,
				SizeGB:      p.diskSizeGB(disk),
				Files:       []models.FileEntry{},
				MountPoints: []models.MountPoint{},
			})
		}
	}

	return devices
}

func (p *linuxProvider) Mount(ctx context.Context, device string) models.MountResult {
	res := p.run.RunTimeout(ctx, mountTimeout, "udisksctl", "mount", "-b", device)
	if !res.Success {
		return models.MountResult{Success: false, Error: commandError(res, res.Stderr)}
	}

	// udisksctl reports "Mounted /dev/sdb1 at /run/media/user/STICK".
	mountPoint := ""
	if idx := strings.Index(res.Stdout, " at "); idx >= 0 {
		mountPoint = strings.TrimRight(strings.TrimSpace(res.Stdout[idx+4:]), ".")
	}

	return models.MountResult{Success: true, MountPoint: mountPoint, Message: res.Stdout}
}

func (p *linuxProvider) Unmount(ctx context.Context, device string) models.MountResult {
	res := p.run.RunTimeout(ctx, mountTimeout, "udisksctl", "unmount", "-b", device)
	if !res.Success {
		return models.MountResult{Success: false, Error: commandError(res, res.Stderr)}
	}

	return models.MountResult{Success: true, Message: res.Stdout}
}

func (p *linuxProvider) removableDisks() []string {
	entries, err := os.ReadDir("/sys/block")
	if err != nil {
		return nil
	}

	var disks []string

	for _, entry := range entries {
		flag, err := os.ReadFile(filepath.Join("/sys/block", entry.Name(), "removable"))
		if err != nil {
			continue
		}

		if strings.TrimSpace(string(flag)) == "1" {
			disks = append(disks, entry.Name())
		}
	}

	return disks
}

func (p *linuxProvider) partitions(disk string) []string {
	entries, err := os.ReadDir(filepath.Join("/sys/block", disk))
	if err != nil {
		return nil
	}

	var parts []string

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), disk) {
			parts = append(parts, entry.Name())
		}
	}

	return parts
}

func (p *linuxProvider) diskSizeGB(disk string) float64 {
	raw, err := os.ReadFile(filepath.Join("/sys/block", disk, "size"))
	if err != nil {
		return 0
	}

	sectors, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0
	}

	return float64(sectors*sectorSize) / (1 << 30)
}

func (p *linuxProvider) mountsOf(deviceNode string) []models.MountPoint {
	content, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return nil
	}

	return parseProcMounts(string(content), deviceNode)
}
