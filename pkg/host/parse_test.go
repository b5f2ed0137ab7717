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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmixer(t *testing.T) {
	out := `Simple mixer control 'Master',0
  Capabilities: pvolume pswitch pswitch-joined
  Playback channels: Front Left - Front Right
  Limits: Playback 0 - 65536
  Mono:
  Front Left: Playback 37268 [57%] [on]
  Front Right: Playback 37268 [57%] [on]`

	level, muted, ok := parseAmixer(out)

	require.True(t, ok)
	assert.Equal(t, 57, level)
	assert.False(t, muted)
}

func TestParseAmixerMuted(t *testing.T) {
	out := "  Front Left: Playback 0 [0%] [off]"

	level, muted, ok := parseAmixer(out)

	require.True(t, ok)
	assert.Zero(t, level)
	assert.True(t, muted)
}

func TestParseAmixerGarbage(t *testing.T) {
	_, _, ok := parseAmixer("amixer: Mixer attach default error")
	assert.False(t, ok)
}

func TestParseBrightnessctl(t *testing.T) {
	pct, ok := parseBrightnessctl("intel_backlight,backlight,48000,80%,60000\n")

	require.True(t, ok)
	assert.Equal(t, 80, pct)
}

func TestParseBrightnessctlGarbage(t *testing.T) {
	_, ok := parseBrightnessctl("Device 'intel_backlight' not found")
	assert.False(t, ok)
}

func TestParseNmcliWifi(t *testing.T) {
	out := "yes:HomeNet:72\nno:CoffeeShop:41\nno::30\n"

	info := parseNmcliWifi(out)

	assert.True(t, info.Connected)
	assert.Equal(t, "HomeNet", info.SSID)
	assert.Equal(t, 72, info.SignalStrength)

	// The hidden-SSID row is dropped from the scan list.
	require.Len(t, info.Scan, 2)
	assert.Equal(t, "CoffeeShop", info.Scan[1].SSID)
	assert.False(t, info.Scan[1].Connected)
}

func TestParseNmcliWifiDisconnected(t *testing.T) {
	info := parseNmcliWifi("no:CoffeeShop:41\n")

	assert.False(t, info.Connected)
	assert.Equal(t, "Unknown", info.SSID)
	assert.Len(t, info.Scan, 1)
}

func TestParseBluetoothctlDevices(t *testing.T) {
	out := `Device AA:BB:CC:DD:EE:FF Keyboard K380
Device 11:22:33:44:55:66 JBL Flip 5
[NEW] Controller 00:00:00:00:00:00 host`

	devices := parseBluetoothctlDevices(out)

	require.Len(t, devices, 2)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", devices[0].Address)
	assert.Equal(t, "Keyboard K380", devices[0].Name)
	assert.Equal(t, "JBL Flip 5", devices[1].Name)
}

func TestParseBluetoothctlInfo(t *testing.T) {
	out := `Device AA:BB:CC:DD:EE:FF (public)
	Name: Keyboard K380
	Paired: yes
	Connected: no
	RSSI: -54`

	paired, connected, rssi := parseBluetoothctlInfo(out)

	assert.True(t, paired)
	assert.False(t, connected)
	assert.Equal(t, -54, rssi)
}

func TestParseProcMounts(t *testing.T) {
	content := `/dev/nvme0n1p2 / ext4 rw,relatime 0 0
/dev/sdb1 /run/media/user/STICK vfat rw,nosuid 0 0
/dev/sdb1 /mnt/backup\040disk vfat rw 0 0
tmpfs /tmp tmpfs rw 0 0`

	mounts := parseProcMounts(content, "/dev/sdb1")

	require.Len(t, mounts, 2)
	assert.Equal(t, "/run/media/user/STICK", mounts[0].MountPoint)
	assert.Equal(t, "STICK", mounts[0].MountName)
	assert.Equal(t, "vfat", mounts[0].Filesystem)
	assert.Equal(t, "/mnt/backup disk", mounts[1].MountPoint)
}

func TestParseProcMountsNoMatch(t *testing.T) {
	assert.Empty(t, parseProcMounts("/dev/sda1 / ext4 rw 0 0", "/dev/sdb1"))
}

func TestParseBrightnessDarwin(t *testing.T) {
	pct, ok := parseBrightnessDarwin("display 0: brightness 0.500000\n")

	require.True(t, ok)
	assert.Equal(t, 50, pct)
}

func TestParseAirportInfo(t *testing.T) {
	out := `     agrCtlRSSI: -54
     agrExtRSSI: 0
           SSID: HomeNet`

	ssid, rssi, ok := parseAirportInfo(out)

	require.True(t, ok)
	assert.Equal(t, "HomeNet", ssid)
	assert.Equal(t, -54, rssi)
}

func TestParseAirportScan(t *testing.T) {
	out := `                            SSID BSSID             RSSI CHANNEL HT CC
                         HomeNet aa:bb:cc:dd:ee:ff -54  6       Y  US
                      CoffeeShop 11:22:33:44:55:66 -70  11      Y  US`

	networks := parseAirportScan(out, "HomeNet")

	require.Len(t, networks, 2)
	assert.Equal(t, "HomeNet", networks[0].SSID)
	assert.Equal(t, -54, networks[0].SignalStrength)
	assert.True(t, networks[0].Connected)
	assert.False(t, networks[1].Connected)
}

func TestParseOsascriptVolume(t *testing.T) {
	level, muted, ok := parseOsascriptVolume("output volume:57, input volume:75, alert volume:100, output muted:false")

	require.True(t, ok)
	assert.Equal(t, 57, level)
	assert.False(t, muted)
}

func TestParseOsascriptVolumeMuted(t *testing.T) {
	level, muted, ok := parseOsascriptVolume("output volume:0, input volume:75, alert volume:100, output muted:true")

	require.True(t, ok)
	assert.Zero(t, level)
	assert.True(t, muted)
}

func TestParsePmsetBattery(t *testing.T) {
	out := `Now drawing from 'Battery Power'
 -InternalBattery-0 (id=4522083)	85%; discharging; 4:20 remaining present: true`

	info := parsePmsetBattery(out)

	assert.True(t, info.Present)
	assert.InDelta(t, 85, info.Percent, 0.001)
	assert.False(t, info.Plugged)
}

func TestParsePmsetBatteryCharging(t *testing.T) {
	out := `Now drawing from 'AC Power'
 -InternalBattery-0 (id=4522083)	65%; charging; 1:10 remaining present: true`

	info := parsePmsetBattery(out)

	assert.True(t, info.Present)
	assert.True(t, info.Plugged)
}

func TestParsePmsetBatteryDesktop(t *testing.T) {
	info := parsePmsetBattery("Now drawing from 'AC Power'")
	assert.False(t, info.Present)
}

func TestParseBlueutilPaired(t *testing.T) {
	out := `address: aa-bb-cc-dd-ee-ff, connected (master, -60 dBm), not favourite, paired, name: "K380", recent access date: 2025-01-02
address: 11-22-33-44-55-66, not connected, not favourite, paired, name: "JBL Flip 5", recent access date: -`

	devices := parseBlueutilPaired(out)

	require.Len(t, devices, 2)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", devices[0].Address)
	assert.Equal(t, "K380", devices[0].Name)
	assert.True(t, devices[0].Connected)
	assert.True(t, devices[0].Paired)

	assert.False(t, devices[1].Connected)
}

func TestParseDiskutilMount(t *testing.T) {
	out := `   Device Identifier:         disk2s1
   Device Node:               /dev/disk2s1
   Mount Point:               /Volumes/STICK`

	assert.Equal(t, "/Volumes/STICK", parseDiskutilMount(out))
}
