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

// roturlink is the local host agent: it serves system telemetry and host
// controls to allowed browser pages over a loopback HTTP API and a
// websocket push channel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rotur/roturlink/pkg/api"
	"github.com/rotur/roturlink/pkg/config"
	"github.com/rotur/roturlink/pkg/host"
	"github.com/rotur/roturlink/pkg/hub"
	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/policy"
	"github.com/rotur/roturlink/pkg/producers"
	"github.com/rotur/roturlink/pkg/runner"
)

const (
	startupProbeTimeout = 10 * time.Second
	shutdownTimeout     = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roturlink: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = &logger.Config{Level: "info", Output: "stderr"}
	}

	logCfg.Debug = logCfg.Debug || *debug

	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdRunner := runner.New(cfg.Workers, runner.DefaultTimeout, log.WithComponent("runner"))
	provider := host.New(cmdRunner, log.WithComponent("host"))

	store := metrics.NewStore()

	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	info := host.ProbeSystemInfo(probeCtx, provider)
	cancel()

	store.SetSystemInfo(info)
	log.Info().
		Str("platform", info.Platform.System).
		Str("hostname", info.Hostname).
		Bool("bluetooth", info.Bluetooth.Available).
		Msg("Host probed")

	pol := policy.New(cfg.AllowedOrigins)
	refresher := policy.NewRefresher(pol, cfg.OriginsURL, log.WithComponent("policy"))

	// First refresh runs before the listeners open so remote origins work
	// from the first request. Failure is fine; the baseline still applies.
	if err := refresher.RefreshNow(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial origins fetch failed, starting with baseline allow-list")
	}

	registry := hub.NewRegistry(log.WithComponent("hub"))
	dispatcher := hub.NewDispatcher(store, provider, cmdRunner, log.WithComponent("dispatcher"))
	wsHandler := hub.NewHandler(registry, dispatcher, store, pol, log.WithComponent("ws"))

	scheduler := producers.NewScheduler(producers.Build(producers.Deps{
		Store:     store,
		Provider:  provider,
		Registry:  registry,
		Refresher: refresher,
		Logger:    log.WithComponent("producers"),
	}, intervalsFrom(cfg)), registry, log.WithComponent("scheduler"))

	scheduler.Start(ctx)

	apiServer := api.NewServer(store, provider, cmdRunner, pol, log.WithComponent("api"))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           apiServer.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wsSrv := &http.Server{
		Addr:              cfg.WSListenAddr,
		Handler:           wsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPListenAddr).Msg("HTTP API listening")

		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		log.Info().Str("addr", cfg.WSListenAddr).Msg("Websocket listening")

		if err := wsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("websocket server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = httpSrv.Shutdown(shutdownCtx)
		_ = wsSrv.Shutdown(shutdownCtx)

		return nil
	})

	err = g.Wait()
	scheduler.Wait()

	return err
}

func intervalsFrom(cfg *config.Config) producers.Intervals {
	iv := cfg.Intervals

	return producers.Intervals{
		Metrics:       time.Duration(iv.Metrics),
		MetricsIdle:   time.Duration(iv.MetricsIdle),
		Disk:          time.Duration(iv.Disk),
		DiskIdle:      time.Duration(iv.DiskIdle),
		Battery:       time.Duration(iv.Battery),
		BatteryIdle:   time.Duration(iv.BatteryIdle),
		Controls:      time.Duration(iv.Controls),
		ControlsIdle:  time.Duration(iv.ControlsIdle),
		Wifi:          time.Duration(iv.Wifi),
		WifiIdle:      time.Duration(iv.WifiIdle),
		Bluetooth:     time.Duration(iv.Bluetooth),
		Drives:        time.Duration(iv.Drives),
		DrivesIdle:    time.Duration(iv.DrivesIdle),
		DriveMonitor:  time.Duration(iv.DriveMonitor),
		DriveMonIdle:  time.Duration(iv.DriveMonIdle),
		OriginRefresh: time.Duration(iv.OriginRefresh),
	}
}
