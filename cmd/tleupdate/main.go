// Command tleupdate downloads the current TLE for a named satellite from
// CelesTrak and overwrites the station's TLE file.
//
// Usage:
//
//	tleupdate "ISS (ZARYA)"
//
// Exit codes: 0 success, 1 usage error or provider reports no data,
// 2 network/provider/payload error, 3 file-write error.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/discosat/sattrack/internal/celestrak"
	"github.com/discosat/sattrack/internal/metrics"
	"github.com/discosat/sattrack/internal/station"
	"github.com/discosat/sattrack/internal/update"
)

const (
	exitUsage  = 1
	exitNoData = 1
	exitFetch  = 2
	exitWrite  = 3
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, `usage: tleupdate "SATELLITE NAME"`)
		os.Exit(exitUsage)
	}
	name := os.Args[1]

	cfg := loadUpdateConfig(logger)

	client := celestrak.NewClient(cfg.baseURL, cfg.timeout, logger)
	updater := update.New(client, update.Config{
		OutputPath: cfg.outputPath,
		NameMatch:  cfg.nameMatch,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := updater.Run(ctx, name)

	if cfg.pushgatewayURL != "" {
		run := metrics.UpdateRun{Satellite: name, Success: err == nil}
		if res != nil {
			run.NameMismatch = res.NameMismatch
			run.Bytes = res.BytesWritten
			run.Elapsed = res.Elapsed
		}
		if perr := metrics.PushUpdateRun(cfg.pushgatewayURL, run); perr != nil {
			logger.Warn("metrics push failed", "gateway", cfg.pushgatewayURL, "error", perr)
		}
	}

	if err != nil {
		switch {
		case errors.Is(err, celestrak.ErrNoGPData):
			fmt.Printf("No TLE data found for %s\n", name)
			os.Exit(exitNoData)
		case errors.Is(err, update.ErrWrite):
			logger.Error("TLE update failed", "satellite", name, "error", err)
			os.Exit(exitWrite)
		default:
			logger.Error("TLE update failed", "satellite", name, "error", err)
			os.Exit(exitFetch)
		}
	}

	if res.NameMismatch {
		fmt.Printf("Warning: fetched TLE name %q does not match %q\n", res.FirstLine, name)
	}
	fmt.Printf("Successfully updated TLE data for %s\n", name)
}

type updateConfig struct {
	baseURL        string
	outputPath     string
	nameMatch      string
	timeout        time.Duration
	pushgatewayURL string
}

func loadUpdateConfig(logger *slog.Logger) updateConfig {
	cfg := updateConfig{
		// The TLE file lives beside the installed tool, not in the caller's
		// working directory.
		outputPath: filepath.Join(station.BaseDir(), "config", "disco.tle"),
		nameMatch:  update.MatchPrefix,
		timeout:    15 * time.Second,
	}

	if v := os.Getenv("SATTRACK_TLE_URL"); v != "" {
		cfg.baseURL = v
	}

	if v := os.Getenv("SATTRACK_TLE_PATH"); v != "" {
		cfg.outputPath = v
	}

	if v := os.Getenv("SATTRACK_NAME_MATCH"); v != "" {
		if v != update.MatchPrefix && v != update.MatchExact {
			logger.Warn("invalid SATTRACK_NAME_MATCH value, using prefix", "value", v)
		} else {
			cfg.nameMatch = v
		}
	}

	if v := os.Getenv("SATTRACK_HTTP_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SATTRACK_HTTP_TIMEOUT value, using default", "value", v, "default", 15)
		} else {
			cfg.timeout = time.Duration(n) * time.Second
		}
	}

	cfg.pushgatewayURL = os.Getenv("SATTRACK_PUSHGATEWAY_URL")

	return cfg
}
