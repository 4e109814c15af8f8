package location

import (
	"context"
	"testing"
	"time"

	"github.com/verte-zerg/pawtrail/internal/geo"
	"github.com/verte-zerg/pawtrail/internal/model"
)

func TestSimulatorCurrentReturnsHome(t *testing.T) {
	home := model.GeoPoint{Lat: 51.5, Lng: -0.12}
	sim := NewSimulator(home, time.Second, 1)
	got, err := sim.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got != home {
		t.Fatalf("expected home, got %+v", got)
	}
}

func TestSimulatorWatchWalksFromHome(t *testing.T) {
	home := model.GeoPoint{Lat: 51.5, Lng: -0.12}
	sim := NewSimulator(home, 10*time.Millisecond, 42)

	fixes := make(chan model.GeoPoint, 16)
	sub, err := sim.Watch(func(p model.GeoPoint) { fixes <- p }, func(err error) {
		t.Errorf("unexpected stream error: %v", err)
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer sub.Stop()

	first := waitFix(t, fixes)
	if first != home {
		t.Fatalf("expected first fix at home, got %+v", first)
	}
	second := waitFix(t, fixes)
	third := waitFix(t, fixes)
	if second == first && third == second {
		t.Fatal("expected the simulated position to move")
	}
	// One 10ms step at walking pace covers well under a meter.
	if d := geo.HaversineKm(first, second); d > 0.001 {
		t.Fatalf("step too large: %f km", d)
	}

	sub.Stop()
	sub.Stop() // idempotent
}
