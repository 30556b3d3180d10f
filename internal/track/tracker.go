// Package track runs the live tracking loop for a single pass: wait until
// rise, then periodically compute look angles and steer the rotor until the
// satellite sets.
package track

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/discosat/sattrack/internal/passes"
	"github.com/discosat/sattrack/internal/transform"
)

// AnglesFunc computes the observer-to-satellite look angles at a given time.
type AnglesFunc func(t time.Time) (transform.LookAngles, error)

// Pointer steers the rotor. Implemented by *rotor.Client; nil-safe via the
// Tracker (a station without a rotor just logs the angles).
type Pointer interface {
	Point(ctx context.Context, az, el float64) error
}

// Tracker follows one satellite through a pass.
type Tracker struct {
	Angles AnglesFunc
	Rotor  Pointer // optional
	Step   time.Duration
	Logger *slog.Logger

	now func() time.Time
}

// New creates a Tracker with a 1 s update step.
func New(angles AnglesFunc, rotor Pointer, logger *slog.Logger) *Tracker {
	return &Tracker{
		Angles: angles,
		Rotor:  rotor,
		Step:   time.Second,
		Logger: logger,
		now:    time.Now,
	}
}

// Run tracks the satellite through the given pass. It blocks until the pass
// is over, the satellite drops below the horizon, or ctx is cancelled.
func (t *Tracker) Run(ctx context.Context, pass passes.Pass) error {
	if t.now == nil {
		t.now = time.Now
	}

	if wait := pass.Rise.Sub(t.now()); wait > 0 {
		t.Logger.Info("waiting for rise", "rise", pass.Rise.Format(time.RFC3339), "wait_s", int(wait.Seconds()))
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			t.Logger.Info("tracking cancelled before rise")
			return ctx.Err()
		}
	}

	t.Logger.Info("tracking started", "set", pass.Set.Format(time.RFC3339))

	ticker := time.NewTicker(t.Step)
	defer ticker.Stop()

	for {
		now := t.now()
		if now.After(pass.Set) {
			t.Logger.Info("pass completed")
			return nil
		}

		la, err := t.Angles(now)
		if err != nil {
			return fmt.Errorf("computing look angles: %w", err)
		}

		if t.Rotor != nil {
			if err := t.Rotor.Point(ctx, la.AzimuthDeg, la.ElevationDeg); err != nil {
				return fmt.Errorf("steering rotor: %w", err)
			}
		}

		t.Logger.Info("pointing",
			"azimuth", la.AzimuthDeg,
			"elevation", la.ElevationDeg,
			"range_km", la.RangeKm,
		)

		// Once the satellite drops below the horizon the pass is effectively
		// over even if the predicted set time has not been reached.
		if la.ElevationDeg < 0 {
			t.Logger.Info("satellite below horizon, stopping")
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			t.Logger.Info("tracking cancelled")
			return ctx.Err()
		}
	}
}
