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

package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotur/roturlink/pkg/host"
	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/runner"
)

const (
	statusSetting       = "setting"
	statusTogglingMute  = "toggling_mute"
	statusScanning      = "scanning"
	statusConnecting    = "connecting"
	statusDisconnecting = "disconnecting"
	statusPairing       = "pairing"
	statusUnpairing     = "unpairing"
	statusRunning       = "running"
	statusMounting      = "mounting"
	statusUnmounting    = "unmounting"

	runCommandTimeout = 30 * time.Second

	defaultBrightness = 100
	defaultVolume     = 50
)

type handlerFunc func(ctx context.Context, c *Client, val json.RawMessage)

// Dispatcher routes inbound client commands to handlers by exact cmd
// string. Handlers whose work is not instantaneous send an immediate ack
// before the terminal response; every failure is an error event to the
// originating client only, never a dropped message or a dead connection.
type Dispatcher struct {
	store    *metrics.Store
	provider host.Provider
	runner   *runner.Runner
	logger   logger.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher wires the full command table.
func NewDispatcher(store *metrics.Store, provider host.Provider, run *runner.Runner, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		provider: provider,
		runner:   run,
		logger:   log,
	}

	d.handlers = map[string]handlerFunc{
		models.CmdPing:                d.handlePing,
		models.CmdGetMetrics:          d.handleGetMetrics,
		models.CmdGetSystemInfo:       d.handleGetSystemInfo,
		models.CmdGetDrives:           d.handleGetDrives,
		models.CmdBrightnessGet:       d.handleBrightnessGet,
		models.CmdBrightnessSet:       d.handleBrightnessSet,
		models.CmdVolumeGet:           d.handleVolumeGet,
		models.CmdVolumeSet:           d.handleVolumeSet,
		models.CmdVolumeMute:          d.handleVolumeMute,
		models.CmdBluetoothScan:       d.handleBluetoothScan,
		models.CmdBluetoothConnect:    d.bluetoothOpHandler(host.BluetoothConnect, statusConnecting),
		models.CmdBluetoothDisconnect: d.bluetoothOpHandler(host.BluetoothDisconnect, statusDisconnecting),
		models.CmdBluetoothPair:       d.bluetoothOpHandler(host.BluetoothPair, statusPairing),
		models.CmdBluetoothUnpair:     d.bluetoothOpHandler(host.BluetoothUnpair, statusUnpairing),
		models.CmdRun:                 d.handleRun,
		models.CmdUSBMount:            d.handleUSBMount,
		models.CmdUSBUnmount:          d.handleUSBUnmount,
	}

	return d
}

// Dispatch handles one raw inbound message. It is called on its own
// goroutine per message, so slow handlers never stall the read loop. A
// panicking handler produces an error event for this message only.
func (d *Dispatcher) Dispatch(ctx context.Context, c *Client, data []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error().
				Interface("panic", rec).
				Str("client_id", c.ID).
				Msg("Command handler panicked")
			d.sendError(c, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	var cmd models.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		d.sendError(c, "Invalid JSON")
		return
	}

	if cmd.Cmd == "" {
		d.sendError(c, "Missing cmd field")
		return
	}

	handler, ok := d.handlers[cmd.Cmd]
	if !ok {
		d.sendError(c, fmt.Sprintf("Unknown command: %s", cmd.Cmd))
		return
	}

	handler(ctx, c, cmd.Val)
}

func (d *Dispatcher) send(c *Client, ev models.Event) {
	if err := c.Send(ev); err != nil {
		d.logger.Debug().Err(err).Str("client_id", c.ID).Str("cmd", ev.Cmd).Msg("Response delivery failed")
	}
}

func (d *Dispatcher) sendError(c *Client, message string) {
	d.send(c, models.Event{Cmd: models.EventError, Val: models.ErrorPayload{Message: message}})
}

func (d *Dispatcher) handlePing(_ context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventPong, Val: models.PongPayload{Timestamp: unixSeconds(time.Now())}})
}

func (d *Dispatcher) handleGetMetrics(_ context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventMetrics, Val: d.store.Snapshot()})
}

func (d *Dispatcher) handleGetSystemInfo(_ context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventSystemInfo, Val: d.store.SystemInfo()})
}

func (d *Dispatcher) handleGetDrives(_ context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventDrivesUpdate, Val: models.DrivesPayload{
		Drives:     d.store.Drives(),
		ChangeType: models.DriveChangePeriodic,
	}})
}

func (d *Dispatcher) handleBrightnessGet(ctx context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventBrightnessResponse, Val: d.provider.Brightness(ctx)})
}

func (d *Dispatcher) handleBrightnessSet(ctx context.Context, c *Client, val json.RawMessage) {
	pct := parsePercent(val, defaultBrightness)

	d.send(c, models.Event{Cmd: models.EventBrightnessAck, Val: models.AckPayload{
		Status:     statusSetting,
		Brightness: &pct,
	}})

	result := d.provider.SetBrightness(ctx, pct)
	if result.Success {
		d.store.SetBrightness(pct)
	}

	d.send(c, models.Event{Cmd: models.EventBrightnessResponse, Val: result})
}

func (d *Dispatcher) handleVolumeGet(ctx context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventVolumeResponse, Val: d.provider.Volume(ctx)})
}

func (d *Dispatcher) handleVolumeSet(ctx context.Context, c *Client, val json.RawMessage) {
	pct := parsePercent(val, defaultVolume)

	d.send(c, models.Event{Cmd: models.EventVolumeAck, Val: models.AckPayload{
		Status: statusSetting,
		Volume: &pct,
	}})

	result := d.provider.SetVolume(ctx, pct)

	d.send(c, models.Event{Cmd: models.EventVolumeResponse, Val: result})
}

func (d *Dispatcher) handleVolumeMute(ctx context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventVolumeAck, Val: models.AckPayload{Status: statusTogglingMute}})

	result := d.provider.ToggleMute(ctx)

	d.send(c, models.Event{Cmd: models.EventVolumeResponse, Val: result})
}

func (d *Dispatcher) handleBluetoothScan(ctx context.Context, c *Client, _ json.RawMessage) {
	d.send(c, models.Event{Cmd: models.EventBluetoothAck, Val: models.AckPayload{Status: statusScanning}})

	devices := d.provider.BluetoothScan(ctx)

	d.send(c, models.Event{Cmd: models.EventBluetoothResponse, Val: models.BluetoothPayload{
		Bluetooth: models.BluetoothSummary{
			Devices:   devices,
			Count:     len(devices),
			Timestamp: unixSeconds(time.Now()),
		},
	}})
}

func (d *Dispatcher) bluetoothOpHandler(op, status string) handlerFunc {
	return func(ctx context.Context, c *Client, val json.RawMessage) {
		address := parseString(val)
		if address == "" {
			d.sendError(c, "Device address required")
			return
		}

		d.send(c, models.Event{Cmd: models.EventBluetoothAck, Val: models.AckPayload{
			Status:  status,
			Address: address,
		}})

		result := d.provider.BluetoothOp(ctx, op, address)

		d.send(c, models.Event{Cmd: models.EventBluetoothResponse, Val: result})
	}
}

func (d *Dispatcher) handleRun(ctx context.Context, c *Client, val json.RawMessage) {
	cmdline := parseString(val)
	if cmdline == "" {
		d.sendError(c, "Command required")
		return
	}

	d.send(c, models.Event{Cmd: models.EventRunAck, Val: models.AckPayload{Status: statusRunning}})

	result := d.runner.RunShell(ctx, runCommandTimeout, cmdline)

	d.send(c, models.Event{Cmd: models.EventRunResponse, Val: result})
}

func (d *Dispatcher) handleUSBMount(ctx context.Context, c *Client, val json.RawMessage) {
	d.usbOp(ctx, c, val, statusMounting, d.provider.Mount)
}

func (d *Dispatcher) handleUSBUnmount(ctx context.Context, c *Client, val json.RawMessage) {
	d.usbOp(ctx, c, val, statusUnmounting, d.provider.Unmount)
}

func (d *Dispatcher) usbOp(
	ctx context.Context, c *Client, val json.RawMessage, status string,
	op func(context.Context, string) models.MountResult) {
	device := parseString(val)
	if device == "" {
		d.sendError(c, "Device path required")
		return
	}

	d.send(c, models.Event{Cmd: models.EventUSBAck, Val: models.AckPayload{
		Status: status,
		Device: device,
	}})

	result := op(ctx, device)

	d.send(c, models.Event{Cmd: models.EventUSBResponse, Val: result})
}

// parsePercent accepts a JSON number or numeric string; anything else
// falls back to def. Range clamping is the provider's job.
func parsePercent(val json.RawMessage, def int) int {
	if len(val) == 0 {
		return def
	}

	var f float64
	if err := json.Unmarshal(val, &f); err == nil {
		return int(f)
	}

	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}

	return def
}

func parseString(val json.RawMessage) string {
	var s string
	if err := json.Unmarshal(val, &s); err != nil {
		return ""
	}

	return strings.TrimSpace(s)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
