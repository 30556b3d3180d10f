// Command satpos prints the current sub-satellite point for the satellite in
// the station's TLE file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/discosat/sattrack/internal/propagation"
	"github.com/discosat/sattrack/internal/station"
	"github.com/discosat/sattrack/internal/tle"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := station.Load(station.BaseDir(), logger)
	if err != nil {
		logger.Error("invalid station config", "error", err)
		os.Exit(1)
	}

	tlePath := flag.String("tle", cfg.TLEPath, "path to TLE file")
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

	now := time.Now().UTC()
	point, err := prop.SubPointAt(now)
	if err != nil {
		logger.Error("propagation failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s (NORAD %d)\n", entry.Name, entry.NORADID)
	fmt.Printf("  time:      %s\n", now.Format(time.RFC3339))
	fmt.Printf("  latitude:  %.4f\n", point.LatDeg)
	fmt.Printf("  longitude: %.4f\n", point.LonDeg)
	fmt.Printf("  altitude:  %.0f m\n", point.AltM)
}
