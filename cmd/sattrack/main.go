// Command sattrack tracks the satellite's next pass live, steering a
// rotctld-compatible rotor when one is configured. Without a rotor it prints
// look angles only, which is useful for dry runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/discosat/sattrack/internal/passes"
	"github.com/discosat/sattrack/internal/propagation"
	"github.com/discosat/sattrack/internal/rotor"
	"github.com/discosat/sattrack/internal/station"
	"github.com/discosat/sattrack/internal/tle"
	"github.com/discosat/sattrack/internal/track"
	"github.com/discosat/sattrack/internal/transform"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := station.Load(station.BaseDir(), logger)
	if err != nil {
		logger.Error("invalid station config", "error", err)
		os.Exit(1)
	}

	var (
		tlePath   = flag.String("tle", cfg.TLEPath, "path to TLE file")
		rotorAddr = flag.String("rotor", cfg.RotorAddr, "rotctld address (host:port), empty disables the rotor")
		hours     = flag.Float64("hours", 48, "how far ahead to search for a pass (hours)")
		minEl     = flag.Float64("min-elevation", 10, "minimum pass elevation (degrees)")
	)
	flag.Parse()

	entry, err := tle.First(*tlePath, logger)
	if err != nil {
		logger.Error("loading TLE", "error", err)
		os.Exit(1)
	}

	prop, err := propagation.New(entry)
	if err != nil {
		logger.Error("initializing propagator", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded satellite", "name", entry.Name, "norad_id", entry.NORADID,
		"epoch", entry.Epoch.Format(time.RFC3339))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := transform.NewObserverPosition(cfg.Latitude, cfg.Longitude, cfg.AltitudeM)
	pass, err := passes.Next(ctx, prop, obs, time.Now().UTC(), *hours, *minEl)
	if err != nil {
		logger.Error("pass search failed", "error", err)
		os.Exit(1)
	}
	if pass == nil {
		fmt.Printf("No upcoming passes for %s in the next %.0f hours\n", entry.Name, *hours)
		os.Exit(1)
	}

	fmt.Printf("Next pass for %s: rise %s, max elevation %.1f deg, set %s\n",
		entry.Name,
		pass.Rise.Format(time.RFC3339),
		pass.MaxElevation,
		pass.Set.Format(time.RFC3339),
	)

	var pointer track.Pointer
	if *rotorAddr != "" {
		client, err := rotor.Dial(ctx, *rotorAddr)
		if err != nil {
			logger.Error("rotor connection failed", "addr", *rotorAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		pointer = client
		logger.Info("rotor connected", "addr", *rotorAddr)
	}

	tracker := track.New(func(t time.Time) (transform.LookAngles, error) {
		return prop.LookAnglesAt(obs, t)
	}, pointer, logger)

	if err := tracker.Run(ctx, *pass); err != nil {
		if ctx.Err() != nil {
			logger.Info("tracking interrupted")
			return
		}
		logger.Error("tracking failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Finished tracking %s\n", entry.Name)
}
