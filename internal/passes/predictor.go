// Package passes predicts satellite passes over the ground station.
package passes

import (
	"context"
	"time"

	"github.com/discosat/sattrack/internal/propagation"
	"github.com/discosat/sattrack/internal/transform"
)

// Pass describes a single pass of the satellite over the observer.
// Times are UTC.
type Pass struct {
	Rise            time.Time `json:"rise"`
	Culminate       time.Time `json:"culminate"`
	Set             time.Time `json:"set"`
	DurationSeconds float64   `json:"duration_seconds"`
	MaxElevation    float64   `json:"max_elevation"`
	RiseAzimuth     float64   `json:"rise_azimuth"`
	SetAzimuth      float64   `json:"set_azimuth"`
}

// Request holds pass prediction parameters.
type Request struct {
	Observer     transform.ObserverPosition
	Start        time.Time
	HorizonHours float64
	MinElevation float64 // degrees
	MaxPasses    int
}

const (
	coarseStepSec = 30 // seconds between coarse scan steps
	fineStepSec   = 1  // seconds between fine scan steps
	minPassDur    = 10 * time.Second
)

// Predict scans forward from req.Start and returns the passes found within
// the horizon, in chronological order. A coarse scan locates above-threshold
// windows; each window is then refined at one-second resolution to pin down
// rise, culmination, and set.
func Predict(ctx context.Context, prop *propagation.Propagator, req Request) ([]Pass, error) {
	end := req.Start.Add(time.Duration(req.HorizonHours * float64(time.Hour)))
	maxPasses := req.MaxPasses
	if maxPasses <= 0 {
		maxPasses = 10
	}

	var found []Pass
	t := req.Start
	for t.Before(end) && len(found) < maxPasses {
		if ctx.Err() != nil {
			return found, ctx.Err()
		}

		la, err := prop.LookAnglesAt(req.Observer, t)
		if err != nil {
			t = t.Add(coarseStepSec * time.Second)
			continue
		}

		if la.ElevationDeg >= req.MinElevation {
			pass, windowEnd := refinePass(ctx, prop, req, t, end)
			if pass != nil && pass.Set.Sub(pass.Rise) >= minPassDur {
				found = append(found, *pass)
			}
			t = windowEnd.Add(coarseStepSec * time.Second)
		} else {
			t = t.Add(coarseStepSec * time.Second)
		}
	}

	return found, nil
}

// Next returns the first pass after start, searching up to horizonHours ahead.
// Returns nil if no complete pass is found within the horizon.
func Next(ctx context.Context, prop *propagation.Propagator, obs transform.ObserverPosition, start time.Time, horizonHours, minElevation float64) (*Pass, error) {
	found, err := Predict(ctx, prop, Request{
		Observer:     obs,
		Start:        start,
		HorizonHours: horizonHours,
		MinElevation: minElevation,
		MaxPasses:    1,
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// refinePass fine-scans around a coarse hit to find the full pass.
// It backs up one coarse step to catch the actual rise, then walks forward
// until the satellite drops below the threshold. Returns the pass (nil if
// incomplete) and the time the scan stopped.
func refinePass(ctx context.Context, prop *propagation.Propagator, req Request, coarseHit, windowEnd time.Time) (*Pass, time.Time) {
	t := coarseHit.Add(-coarseStepSec * time.Second)
	if t.Before(req.Start) {
		t = req.Start
	}

	var (
		rise      time.Time
		set       time.Time
		riseAz    float64
		setAz     float64
		maxEl     float64
		culminate time.Time
		wasAbove  bool
		foundRise bool
	)

	for t.Before(windowEnd) {
		if ctx.Err() != nil {
			break
		}

		la, err := prop.LookAnglesAt(req.Observer, t)
		if err != nil {
			t = t.Add(fineStepSec * time.Second)
			continue
		}

		above := la.ElevationDeg >= req.MinElevation

		if above && !wasAbove {
			rise = t
			riseAz = la.AzimuthDeg
			foundRise = true
			maxEl = la.ElevationDeg
			culminate = t
		}

		if above && foundRise && la.ElevationDeg > maxEl {
			maxEl = la.ElevationDeg
			culminate = t
		}

		if !above && wasAbove && foundRise {
			set = t
			setAz = la.AzimuthDeg
			break
		}

		wasAbove = above
		t = t.Add(fineStepSec * time.Second)
	}

	// Still above threshold at the window end: close the pass there.
	if foundRise && set.IsZero() && wasAbove {
		set = t
		if la, err := prop.LookAnglesAt(req.Observer, t); err == nil {
			setAz = la.AzimuthDeg
			if la.ElevationDeg > maxEl {
				maxEl = la.ElevationDeg
				culminate = t
			}
		}
	}

	if !foundRise || set.IsZero() {
		return nil, t
	}

	return &Pass{
		Rise:            rise,
		Culminate:       culminate,
		Set:             set,
		DurationSeconds: set.Sub(rise).Seconds(),
		MaxElevation:    maxEl,
		RiseAzimuth:     riseAz,
		SetAzimuth:      setAz,
	}, set
}
