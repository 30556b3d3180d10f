// Package propagation wraps SGP4 orbit propagation for the tracked satellite.
//
// Library: github.com/joshuaferrara/go-satellite — pure Go, widely used,
// explicit TEME output. Its Propagate() takes the Satellite by value, so SGP4
// error codes never reach the caller; failures are detected by checking the
// output for NaN/Inf and implausible position magnitudes instead.
package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/discosat/sattrack/internal/tle"
	"github.com/discosat/sattrack/internal/transform"
)

// Propagator computes positions for a single satellite from its TLE.
type Propagator struct {
	sat     satellite.Satellite
	noradID int
	name    string
}

// New creates a Propagator from a parsed TLE entry.
//
// The TLE lines are re-validated before reaching the library, because
// go-satellite calls log.Fatal on malformed input (which would kill the
// process).
func New(entry tle.Entry) (*Propagator, error) {
	if err := validateLines(entry.Line1, entry.Line2); err != nil {
		return nil, fmt.Errorf("invalid TLE for NORAD %d: %w", entry.NORADID, err)
	}

	sat := satellite.TLEToSat(entry.Line1, entry.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for NORAD %d: code=%d %s", entry.NORADID, sat.Error, sat.ErrorStr)
	}
	return &Propagator{sat: sat, noradID: entry.NORADID, name: entry.Name}, nil
}

// Name returns the satellite name from the TLE.
func (p *Propagator) Name() string {
	return p.name
}

// NORADID returns the satellite's catalog number.
func (p *Propagator) NORADID() int {
	return p.noradID
}

// PositionAt computes the satellite's ECEF position (meters) at time t.
func (p *Propagator) PositionAt(t time.Time) (transform.PositionECEF, error) {
	t = t.UTC()
	pos, _ := satellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return transform.PositionECEF{}, fmt.Errorf("sgp4 propagation failed for NORAD %d: output is NaN/Inf", p.noradID)
	}

	// Position magnitude should be between low LEO and beyond GEO.
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return transform.PositionECEF{}, fmt.Errorf("sgp4 propagation failed for NORAD %d: unreasonable position magnitude %.1f km", p.noradID, mag)
	}

	teme := transform.PositionTEME{X: pos.X, Y: pos.Y, Z: pos.Z}
	return transform.TEMEToECEF(teme, t), nil
}

// LookAnglesAt computes azimuth/elevation/range from obs to the satellite at t.
func (p *Propagator) LookAnglesAt(obs transform.ObserverPosition, t time.Time) (transform.LookAngles, error) {
	ecef, err := p.PositionAt(t)
	if err != nil {
		return transform.LookAngles{}, err
	}
	return transform.ECEFToLookAngles(obs, ecef), nil
}

// SubPointAt computes the sub-satellite geodetic point at t.
func (p *Propagator) SubPointAt(t time.Time) (transform.GeodeticPoint, error) {
	ecef, err := p.PositionAt(t)
	if err != nil {
		return transform.GeodeticPoint{}, err
	}
	return transform.ECEFToGeodetic(ecef), nil
}

// validateLines performs basic format validation on TLE element lines.
func validateLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}
