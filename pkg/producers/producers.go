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

package producers

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"

	"github.com/rotur/roturlink/pkg/host"
	"github.com/rotur/roturlink/pkg/hub"
	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/policy"
)

// Intervals carries the per-producer cadences, already resolved from
// configuration.
type Intervals struct {
	Metrics       time.Duration
	MetricsIdle   time.Duration
	Disk          time.Duration
	DiskIdle      time.Duration
	Battery       time.Duration
	BatteryIdle   time.Duration
	Controls      time.Duration
	ControlsIdle  time.Duration
	Wifi          time.Duration
	WifiIdle      time.Duration
	Bluetooth     time.Duration
	Drives        time.Duration
	DrivesIdle    time.Duration
	DriveMonitor  time.Duration
	DriveMonIdle  time.Duration
	OriginRefresh time.Duration
}

// Deps are the collaborators the producer set publishes through.
type Deps struct {
	Store     *metrics.Store
	Provider  host.Provider
	Registry  *hub.Registry
	Refresher *policy.Refresher
	Logger    logger.Logger
}

// Build assembles the full producer table.
func Build(deps Deps, iv Intervals) []Producer {
	bt := newBluetoothTracker(deps.Store, deps.Provider, deps.Registry)
	dm := newDriveMonitor(deps.Store, deps.Provider, deps.Registry)

	return []Producer{
		{
			Name:         "metrics",
			Interval:     iv.Metrics,
			IdleInterval: iv.MetricsIdle,
			Run: func(ctx context.Context) error {
				return collectMetrics(ctx, deps.Store, deps.Registry)
			},
		},
		{
			Name:         "disk",
			Interval:     iv.Disk,
			IdleInterval: iv.DiskIdle,
			Run: func(ctx context.Context) error {
				return collectDisk(ctx, deps.Store)
			},
		},
		{
			Name:         "battery",
			Interval:     iv.Battery,
			IdleInterval: iv.BatteryIdle,
			Run: func(ctx context.Context) error {
				deps.Store.SetBattery(deps.Provider.Battery(ctx))
				return nil
			},
		},
		{
			Name:         "controls",
			Interval:     iv.Controls,
			IdleInterval: iv.ControlsIdle,
			Run: func(ctx context.Context) error {
				return collectControls(ctx, deps.Store, deps.Provider)
			},
		},
		{
			Name:         "wifi",
			Interval:     iv.Wifi,
			IdleInterval: iv.WifiIdle,
			Run: func(ctx context.Context) error {
				return collectWifi(ctx, deps.Store, deps.Registry, deps.Provider)
			},
		},
		{
			Name:     "bluetooth",
			Interval: iv.Bluetooth,
			Run:      bt.run,
		},
		{
			Name:         "drives",
			Interval:     iv.Drives,
			IdleInterval: iv.DrivesIdle,
			Run: func(ctx context.Context) error {
				return broadcastDrives(ctx, deps.Store, deps.Provider, deps.Registry)
			},
		},
		{
			Name:         "drive_monitor",
			Interval:     iv.DriveMonitor,
			IdleInterval: iv.DriveMonIdle,
			Run:          dm.run,
		},
		{
			// Policy refresh keeps running with zero clients so a client
			// arriving from a newly registered origin is admitted on its
			// first attempt.
			Name:        "origins",
			Interval:    iv.OriginRefresh,
			RunWhenIdle: true,
			Run:         deps.Refresher.RefreshNow,
		},
	}
}

// collectMetrics refreshes cpu, memory and network counters, then
// broadcasts the full snapshot. Each source failing is independent; the
// others still land in the cache.
func collectMetrics(ctx context.Context, store *metrics.Store, reg *hub.Registry) error {
	var errs []error

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		errs = append(errs, err)
	} else if len(percents) > 0 {
		store.SetCPU(models.CPUMetrics{Percent: percents[0]})
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, err)
	} else {
		store.SetMemory(models.MemoryMetrics{
			Total:   vm.Total,
			Used:    vm.Used,
			Percent: vm.UsedPercent,
		})
	}

	if counters, err := gopsnet.IOCountersWithContext(ctx, false); err != nil {
		errs = append(errs, err)
	} else if len(counters) > 0 {
		store.SetNetwork(models.NetworkMetrics{
			Sent:     counters[0].BytesSent,
			Received: counters[0].BytesRecv,
		})
	}

	reg.Broadcast(models.Event{Cmd: models.EventMetricsUpdate, Val: store.Snapshot()})

	return errors.Join(errs...)
}

func collectDisk(ctx context.Context, store *metrics.Store) error {
	usage, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return err
	}

	store.SetDisk(models.DiskMetrics{
		Total:   usage.Total,
		Used:    usage.Used,
		Percent: usage.UsedPercent,
	})

	return nil
}

// collectControls refreshes the cached brightness and volume readings.
// Unavailable controls are not errors; the cache simply keeps its last
// value.
func collectControls(ctx context.Context, store *metrics.Store, provider host.Provider) error {
	if b := provider.Brightness(ctx); b.Available {
		store.SetBrightness(b.Brightness)
	}

	if v := provider.Volume(ctx); v.Available {
		store.SetVolume(models.VolumeState{Level: v.Volume, Muted: v.Muted})
	}

	return nil
}

func collectWifi(ctx context.Context, store *metrics.Store, reg *hub.Registry, provider host.Provider) error {
	info := provider.WifiInfo(ctx)
	store.SetWifi(info)

	reg.Broadcast(models.Event{Cmd: models.EventWifiUpdate, Val: models.WifiPayload{
		Wifi:      info,
		Timestamp: unixSeconds(time.Now()),
	}})

	return nil
}

// broadcastDrives refreshes the drive cache and publishes the periodic
// full listing. Structural change events come from the drive monitor, not
// from here.
func broadcastDrives(ctx context.Context, store *metrics.Store, provider host.Provider, reg *hub.Registry) error {
	drives := provider.Drives(ctx)
	store.SetDrives(drives)

	reg.Broadcast(models.Event{Cmd: models.EventDrivesUpdate, Val: models.DrivesPayload{
		Drives:     drives,
		ChangeType: models.DriveChangePeriodic,
	}})

	return nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
