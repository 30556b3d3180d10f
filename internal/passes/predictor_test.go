package passes

import (
	"context"
	"testing"
	"time"

	"github.com/discosat/sattrack/internal/propagation"
	"github.com/discosat/sattrack/internal/tle"
	"github.com/discosat/sattrack/internal/transform"
)

// Historical ISS TLE (epoch 2008-09-20), checksums valid. Predictions start
// near the epoch so the test is deterministic regardless of the current date.
var issEntry = tle.Entry{
	NORADID: 25544,
	Name:    "ISS (ZARYA)",
	Line1:   "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927",
	Line2:   "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537",
	Epoch:   time.Date(2008, 9, 20, 12, 25, 40, 0, time.UTC),
}

// Aarhus ground station.
var aarhusObserver = transform.NewObserverPosition(56.162937, 10.203921, 0)

func issProp(t *testing.T) *propagation.Propagator {
	t.Helper()
	prop, err := propagation.New(issEntry)
	if err != nil {
		t.Fatalf("sgp4 init: %v", err)
	}
	return prop
}

func TestPredictISSOverAarhus(t *testing.T) {
	prop := issProp(t)

	found, err := Predict(context.Background(), prop, Request{
		Observer:     aarhusObserver,
		Start:        time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 0,
		MaxPasses:    10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The ISS rises over Aarhus several times a day.
	if len(found) == 0 {
		t.Fatal("expected at least 1 ISS pass over Aarhus in 24h")
	}

	for i, p := range found {
		if p.DurationSeconds < 10 {
			t.Errorf("pass %d: duration %.1fs too short", i, p.DurationSeconds)
		}
		if p.MaxElevation <= 0 || p.MaxElevation > 90 {
			t.Errorf("pass %d: max elevation %.2f out of range", i, p.MaxElevation)
		}
		if p.RiseAzimuth < 0 || p.RiseAzimuth >= 360 {
			t.Errorf("pass %d: rise azimuth %.2f out of range", i, p.RiseAzimuth)
		}
		if p.SetAzimuth < 0 || p.SetAzimuth >= 360 {
			t.Errorf("pass %d: set azimuth %.2f out of range", i, p.SetAzimuth)
		}
		if p.Rise.After(p.Culminate) || p.Culminate.After(p.Set) {
			t.Errorf("pass %d: time ordering violated: rise=%v culminate=%v set=%v", i, p.Rise, p.Culminate, p.Set)
		}
		if i > 0 && !found[i-1].Set.Before(p.Rise) {
			t.Errorf("pass %d overlaps previous pass", i)
		}

		t.Logf("pass %d: rise=%v maxEl=%.1f dur=%.0fs",
			i, p.Rise.Format(time.RFC3339), p.MaxElevation, p.DurationSeconds)
	}
}

func TestPredictMinElevationFilter(t *testing.T) {
	prop := issProp(t)
	start := time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC)

	low, err := Predict(context.Background(), prop, Request{
		Observer:     aarhusObserver,
		Start:        start,
		HorizonHours: 48,
		MinElevation: 0,
		MaxPasses:    20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	high, err := Predict(context.Background(), prop, Request{
		Observer:     aarhusObserver,
		Start:        start,
		HorizonHours: 48,
		MinElevation: 25,
		MaxPasses:    20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(high) > len(low) {
		t.Errorf("raising the elevation threshold found more passes: %d > %d", len(high), len(low))
	}
	for i, p := range high {
		if p.MaxElevation < 25 {
			t.Errorf("pass %d: max elevation %.2f below the 25 degree threshold", i, p.MaxElevation)
		}
	}
}

func TestPredictMaxPassesLimit(t *testing.T) {
	prop := issProp(t)

	found, err := Predict(context.Background(), prop, Request{
		Observer:     aarhusObserver,
		Start:        time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC),
		HorizonHours: 48,
		MinElevation: 0,
		MaxPasses:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) > 2 {
		t.Errorf("got %d passes, limit was 2", len(found))
	}
}

func TestPredictCancelledContext(t *testing.T) {
	prop := issProp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Predict(ctx, prop, Request{
		Observer:     aarhusObserver,
		Start:        time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		MinElevation: 0,
		MaxPasses:    10,
	})
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestNextReturnsFirstPass(t *testing.T) {
	prop := issProp(t)
	start := time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC)

	next, err := Next(context.Background(), prop, aarhusObserver, start, 24, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next == nil {
		t.Fatal("expected a pass within 24h")
	}
	if next.Rise.Before(start) {
		t.Errorf("pass rises %v before search start %v", next.Rise, start)
	}
}
