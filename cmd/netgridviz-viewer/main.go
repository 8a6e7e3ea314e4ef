// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// netgridviz-viewer is the standalone TUI that decodes a live client
// emitter stream into a Game→Run→Stroke→Event timeline and renders the
// selected run's visible prefix with bubbletea.
//
// It listens on a TCP port (default 41088) for a single client
// connection at a time, following spec.md's one-viewer, one-client
// model. Everything beyond that — the metrics endpoint, mDNS
// advertisement, YAML-configured theme and key bindings, and the debug
// snapshot/PDF export paths — is optional and off unless a flag asks
// for it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/netgridviz/netgridviz/discovery"
	"github.com/netgridviz/netgridviz/exportpdf"
	"github.com/netgridviz/netgridviz/lib/clock"
	"github.com/netgridviz/netgridviz/lib/config"
	"github.com/netgridviz/netgridviz/lib/version"
	"github.com/netgridviz/netgridviz/metrics"
	"github.com/netgridviz/netgridviz/render"
	"github.com/netgridviz/netgridviz/server"
	"github.com/netgridviz/netgridviz/snapshot"
	"github.com/netgridviz/netgridviz/timeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		port         int
		metricsAddr  string
		advertise    bool
		configPath   string
		snapshotOut  string
		snapshotIn   string
		exportPDFArg string
		showVersion  bool
	)

	flagSet := pflag.NewFlagSet("netgridviz-viewer", pflag.ContinueOnError)
	flagSet.IntVar(&port, "port", 0, "listen port (default from config, normally 41088)")
	flagSet.StringVar(&metricsAddr, "metrics-addr", "", "address for a Prometheus /metrics endpoint (disabled if empty)")
	flagSet.BoolVar(&advertise, "advertise", false, "advertise the listening port via mDNS")
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (theme, key bindings, defaults)")
	flagSet.StringVar(&snapshotOut, "snapshot-out", "", "on quit, write a CBOR+BLAKE3 debug snapshot of the game to this path")
	flagSet.StringVar(&snapshotIn, "snapshot-in", "", "on start, load a previously exported snapshot as read-only history")
	flagSet.StringVar(&exportPDFArg, "export-pdf", "", "on export key binding, write the selected run's visible prefix to this PDF path")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Println(version.Full())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if advertise {
		cfg.Advertise = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	reg := metrics.New(prometheus.DefaultRegisterer)

	game := timeline.NewGame(clock.Real())
	if snapshotIn != "" {
		imported, err := snapshot.Import(snapshotIn)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		game = imported
		logger.Info("loaded snapshot as read-only history", "path", snapshotIn, "runs", len(game.Runs))
	}

	decoder, err := server.Listen(fmt.Sprintf(":%d", cfg.Port), logger, reg)
	if err != nil {
		return fmt.Errorf("starting listener: %w", err)
	}
	defer decoder.Close()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer metricsServer.Shutdown(context.Background())
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	if cfg.Advertise {
		advertiser, err := discovery.Advertise(cfg.Port, logger)
		if err != nil {
			logger.Warn("mDNS advertisement failed to start", "error", err)
		} else {
			defer advertiser.Close()
		}
	}

	keys := cfg.ResolveKeyMap()
	theme := cfg.ResolveTheme()

	model := render.NewModel(decoder, game, clock.Real(), keys, theme)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	finalModel, runErr := program.Run()

	if final, ok := finalModel.(render.Model); ok {
		if run := final.TakeExportRequest(); run != nil {
			path := exportPDFArg
			if path == "" {
				path = "netgridviz-export.pdf"
			}
			if err := exportpdf.ExportRun(path, run); err != nil {
				logger.Error("PDF export failed", "error", err)
			} else {
				logger.Info("exported run to PDF", "path", path)
			}
		}
	}

	if snapshotOut != "" {
		if err := snapshot.Export(snapshotOut, game); err != nil {
			logger.Error("snapshot export failed", "error", err)
		} else {
			logger.Info("wrote snapshot", "path", snapshotOut)
		}
	}

	return runErr
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
