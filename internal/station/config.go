// Package station resolves the ground station configuration: observer
// location, rotor address, and the TLE file path. Everything is anchored to
// the directory the executable lives in, not the caller's working directory,
// so the tools behave the same from cron, a shell, or a service unit.
package station

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default observer location: Aarhus ground station.
const (
	defaultLatitude  = 56.162937
	defaultLongitude = 10.203921
)

const (
	configRelPath = "config/station.yaml"
	tleRelPath    = "config/disco.tle"
)

// Config holds the ground station settings.
type Config struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	AltitudeM float64 `yaml:"altitude_m"`
	RotorAddr string  `yaml:"rotor_addr"`
	TLEPath   string  `yaml:"tle_path"`
}

// BaseDir returns the directory containing the running executable. Falls back
// to the working directory if the executable path cannot be resolved.
func BaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// Load reads baseDir/config/station.yaml and applies defaults for anything
// missing. A missing file is not an error; the defaults are used and logged,
// matching how the station behaved before it had a config file at all.
func Load(baseDir string, logger *slog.Logger) (Config, error) {
	cfg := Config{
		Latitude:  defaultLatitude,
		Longitude: defaultLongitude,
	}

	path := filepath.Join(baseDir, configRelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no station config found, using defaults",
				"path", path,
				"latitude", cfg.Latitude,
				"longitude", cfg.Longitude,
			)
			cfg.TLEPath = filepath.Join(baseDir, tleRelPath)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading station config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing station config: %w", err)
	}

	if cfg.Latitude < -90 || cfg.Latitude > 90 {
		return cfg, fmt.Errorf("latitude %v out of range [-90, 90]", cfg.Latitude)
	}
	if cfg.Longitude < -180 || cfg.Longitude > 180 {
		return cfg, fmt.Errorf("longitude %v out of range [-180, 180]", cfg.Longitude)
	}

	if cfg.TLEPath == "" {
		cfg.TLEPath = tleRelPath
	}
	if !filepath.IsAbs(cfg.TLEPath) {
		cfg.TLEPath = filepath.Join(baseDir, cfg.TLEPath)
	}

	logger.Info("station config loaded",
		"path", path,
		"latitude", cfg.Latitude,
		"longitude", cfg.Longitude,
		"altitude_m", cfg.AltitudeM,
		"rotor_addr", cfg.RotorAddr,
		"tle_path", cfg.TLEPath,
	)
	return cfg, nil
}
