// Command satpass predicts upcoming passes of the station's satellite over
// the configured observer location.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/discosat/sattrack/internal/passes"
	"github.com/discosat/sattrack/internal/propagation"
	"github.com/discosat/sattrack/internal/station"
	"github.com/discosat/sattrack/internal/tle"
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
		tlePath = flag.String("tle", cfg.TLEPath, "path to TLE file")
		lat     = flag.Float64("lat", cfg.Latitude, "observer latitude (degrees)")
		lon     = flag.Float64("lon", cfg.Longitude, "observer longitude (degrees)")
		alt     = flag.Float64("alt", cfg.AltitudeM, "observer altitude (meters)")
		hours   = flag.Float64("hours", 24, "prediction horizon (hours)")
		minEl   = flag.Float64("min-elevation", 5, "minimum pass elevation (degrees)")
		maxN    = flag.Int("max", 10, "maximum number of passes")
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

	obs := transform.NewObserverPosition(*lat, *lon, *alt)
	found, err := passes.Predict(context.Background(), prop, passes.Request{
		Observer:     obs,
		Start:        time.Now().UTC(),
		HorizonHours: *hours,
		MinElevation: *minEl,
		MaxPasses:    *maxN,
	})
	if err != nil {
		logger.Error("pass prediction failed", "error", err)
		os.Exit(1)
	}

	if len(found) == 0 {
		fmt.Printf("No passes for %s in the next %.0f hours\n", entry.Name, *hours)
		return
	}

	fmt.Printf("Passes for %s (NORAD %d), next %.0f hours, min elevation %.0f deg:\n",
		entry.Name, entry.NORADID, *hours, *minEl)
	for i, p := range found {
		fmt.Printf("%2d. rise %s az %5.1f  culminate %s el %4.1f  set %s az %5.1f  (%.0fs)\n",
			i+1,
			p.Rise.Format("2006-01-02 15:04:05"), p.RiseAzimuth,
			p.Culminate.Format("15:04:05"), p.MaxElevation,
			p.Set.Format("15:04:05"), p.SetAzimuth,
			p.DurationSeconds,
		)
	}
}
