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

package host

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotur/roturlink/pkg/models"
)

// Pure output parsers for the tools the providers shell out to. They take
// raw stdout and never touch the system, so they are testable everywhere.

const wifiScanLimit = 20

var amixerLevelRE = regexp.MustCompile(`\[(\d+)%\]`)

// parseAmixer extracts level and mute state from `amixer get Master`.
// The interesting line looks like:
//
//	Front Left: Playback 37268 [57%] [on]
func parseAmixer(out string) (level int, muted, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		m := amixerLevelRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		return n, strings.Contains(line, "[off]"), true
	}

	return 0, false, false
}

// parseBrightnessctl extracts the percentage from `brightnessctl -m`, whose
// single line is comma-separated:
//
//	intel_backlight,backlight,48000,80%,60000
func parseBrightnessctl(out string) (int, bool) {
	fields := strings.Split(strings.TrimSpace(out), ",")
	if len(fields) < 4 {
		return 0, false
	}

	pct := strings.TrimSuffix(fields[3], "%")

	n, err := strconv.Atoi(pct)
	if err != nil {
		return 0, false
	}

	return n, true
}

// parseNmcliWifi parses `nmcli -t -f ACTIVE,SSID,SIGNAL dev wifi` terse
// output, one network per line:
//
//	yes:HomeNet:72
//	no:CoffeeShop:41
func parseNmcliWifi(out string) models.WifiInfo {
	info := models.WifiInfo{SSID: "Unknown", Scan: []models.WifiNetwork{}}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, ":", 3)
		if len(fields) < 3 {
			continue
		}

		signal, _ := strconv.Atoi(fields[2])
		network := models.WifiNetwork{
			SSID:           fields[1],
			SignalStrength: signal,
			Connected:      fields[0] == "yes",
		}

		if network.Connected {
			info.Connected = true
			info.SSID = network.SSID
			info.SignalStrength = network.SignalStrength
		}

		if network.SSID != "" && len(info.Scan) < wifiScanLimit {
			info.Scan = append(info.Scan, network)
		}
	}

	return info
}

// parseBluetoothctlDevices parses `bluetoothctl devices` output, one device
// per line:
//
//	Device AA:BB:CC:DD:EE:FF Keyboard K380
func parseBluetoothctlDevices(out string) []models.BluetoothDevice {
	var devices []models.BluetoothDevice

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		fields := strings.SplitN(line, " ", 3)
		if len(fields) < 2 || fields[0] != "Device" {
			continue
		}

		d := models.BluetoothDevice{Address: fields[1]}
		if len(fields) == 3 {
			d.Name = fields[2]
		}

		devices = append(devices, d)
	}

	return devices
}

// parseBluetoothctlInfo extracts the flags relevant to us from
// `bluetoothctl info <address>`.
func parseBluetoothctlInfo(out string) (paired, connected bool, rssi int) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "Paired:"):
			paired = strings.HasSuffix(line, "yes")
		case strings.HasPrefix(line, "Connected:"):
			connected = strings.HasSuffix(line, "yes")
		case strings.HasPrefix(line, "RSSI:"):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "RSSI:"))); err == nil {
				rssi = n
			}
		}
	}

	return paired, connected, rssi
}

// parseProcMounts returns the mount points of the given device node from
// /proc/mounts content.
func parseProcMounts(content, deviceNode string) []models.MountPoint {
	var mounts []models.MountPoint

	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != deviceNode {
			continue
		}

		// Octal escapes in mount paths, \040 for space being the common one.
		path := strings.ReplaceAll(fields[1], `\040`, " ")

		mounts = append(mounts, models.MountPoint{
			Device:     deviceNode,
			MountPoint: path,
			MountName:  baseName(path),
			Filesystem: fields[2],
		})
	}

	return mounts
}

// parseBrightnessDarwin extracts the fraction from `brightness -l`:
//
//	display 0: brightness 0.500000
func parseBrightnessDarwin(out string) (int, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(strings.ToLower(line), "brightness") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		f, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			continue
		}

		return int(f * 100), true
	}

	return 0, false
}

// parseAirportInfo parses `airport -I` key: value lines for the current
// connection.
func parseAirportInfo(out string) (ssid string, rssi int, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "SSID:"):
			ssid = strings.TrimSpace(strings.TrimPrefix(line, "SSID:"))
		case strings.HasPrefix(line, "agrCtlRSSI:"):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "agrCtlRSSI:"))); err == nil {
				rssi = n
			}
		}
	}

	return ssid, rssi, ssid != ""
}

// parseAirportScan parses `airport -s` columnar scan output. The header row
// is skipped; each row is SSID, BSSID, RSSI, then channel data.
func parseAirportScan(out, connectedSSID string) []models.WifiNetwork {
	var networks []models.WifiNetwork

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		// Column positions drift between OS releases, so take the first
		// negative integer after the SSID as the RSSI.
		rssi := 0

		for _, f := range fields[1:] {
			if n, err := strconv.Atoi(f); err == nil && n < 0 {
				rssi = n
				break
			}
		}

		ssid := fields[0]
		if len(networks) < wifiScanLimit && ssid != "" {
			networks = append(networks, models.WifiNetwork{
				SSID:           ssid,
				SignalStrength: rssi,
				Connected:      ssid == connectedSSID,
			})
		}
	}

	return networks
}

// parseOsascriptVolume parses `get volume settings` output:
//
//	output volume:57, input volume:75, alert volume:100, output muted:false
func parseOsascriptVolume(out string) (level int, muted, ok bool) {
	for _, part := range strings.Split(strings.TrimSpace(out), ",") {
		part = strings.TrimSpace(part)

		switch {
		case strings.HasPrefix(part, "output volume:"):
			n, err := strconv.Atoi(strings.TrimPrefix(part, "output volume:"))
			if err != nil {
				return 0, false, false
			}

			level = n
			ok = true
		case strings.HasPrefix(part, "output muted:"):
			muted = strings.TrimPrefix(part, "output muted:") == "true"
		}
	}

	return level, muted, ok
}

// parsePmsetBattery parses `pmset -g batt`:
//
//	-InternalBattery-0 (id=1234)	85%; discharging; 4:20 remaining
func parsePmsetBattery(out string) models.BatteryInfo {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "InternalBattery") {
			continue
		}

		info := models.BatteryInfo{Present: true}

		for _, field := range strings.Fields(line) {
			if strings.HasSuffix(field, "%;") {
				if n, err := strconv.ParseFloat(strings.TrimSuffix(field, "%;"), 64); err == nil {
					info.Percent = n
				}
			}
		}

		info.Plugged = strings.Contains(line, "charging") && !strings.Contains(line, "discharging") ||
			strings.Contains(line, "charged") || strings.Contains(line, "AC attached")

		return info
	}

	return models.BatteryInfo{}
}

// parseBlueutilPaired parses `blueutil --paired` or `blueutil --inquiry`
// output lines:
//
//	address: aa-bb-cc-dd-ee-ff, connected (master, -60 dBm), not favourite, paired, name: "K380"
func parseBlueutilPaired(out string) []models.BluetoothDevice {
	var devices []models.BluetoothDevice

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "address:") {
			continue
		}

		d := models.BluetoothDevice{
			Paired: strings.Contains(line, ", paired") && !strings.Contains(line, "not paired"),
		}

		rest := strings.TrimSpace(strings.TrimPrefix(line, "address:"))
		if idx := strings.Index(rest, ","); idx >= 0 {
			d.Address = strings.ToUpper(strings.ReplaceAll(rest[:idx], "-", ":"))
		} else {
			d.Address = strings.ToUpper(strings.ReplaceAll(rest, "-", ":"))
		}

		d.Connected = strings.Contains(line, " connected") && !strings.Contains(line, "not connected")

		if idx := strings.Index(line, `name: "`); idx >= 0 {
			name := line[idx+len(`name: "`):]
			if end := strings.Index(name, `"`); end >= 0 {
				d.Name = name[:end]
			}
		}

		devices = append(devices, d)
	}

	return devices
}

// parseDiskutilMount extracts the mount point from `diskutil info <dev>`.
func parseDiskutilMount(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Mount Point:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Mount Point:"))
		}
	}

	return ""
}

func baseName(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}

	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}

	return trimmed
}
