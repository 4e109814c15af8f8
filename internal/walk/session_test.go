package walk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/model"
)

type stopFunc func()

func (f stopFunc) Stop() { f() }

type fakeClock struct {
	now         time.Time
	fn          func(time.Time)
	tickerStops int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Tick(_ time.Duration, fn func(time.Time)) Ticker {
	c.fn = fn
	return stopFunc(func() {
		c.fn = nil
		c.tickerStops++
	})
}

// advance moves virtual time forward, firing the tick callback once per
// whole second while a ticker is active.
func (c *fakeClock) advance(d time.Duration) {
	for i := 0; i < int(d/time.Second); i++ {
		c.now = c.now.Add(time.Second)
		if c.fn != nil {
			c.fn(c.now)
		}
	}
	c.now = c.now.Add(d % time.Second)
}

type fakeSource struct {
	watchErr   error
	onFix      func(model.GeoPoint)
	onErr      func(error)
	watchStops int
}

func (f *fakeSource) Current(context.Context) (model.GeoPoint, error) {
	return model.GeoPoint{}, f.watchErr
}

func (f *fakeSource) Watch(onFix func(model.GeoPoint), onErr func(error)) (Subscription, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.onFix = onFix
	f.onErr = onErr
	return stopFunc(func() {
		f.onFix = nil
		f.onErr = nil
		f.watchStops++
	}), nil
}

func (f *fakeSource) emit(p model.GeoPoint) {
	if f.onFix != nil {
		f.onFix(p)
	}
}

func (f *fakeSource) fail(err error) {
	if f.onErr != nil {
		f.onErr(err)
	}
}

func newTestSession() (*Session, *fakeClock, *fakeSource) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	source := &fakeSource{}
	return NewSession(clock, source, zerolog.Nop()), clock, source
}

func TestStartFailureStaysIdle(t *testing.T) {
	s, _, source := newTestSession()
	source.watchErr = errors.New("permission denied")

	err := s.Start()
	if err == nil {
		t.Fatal("expected Start to fail")
	}
	if !errors.Is(err, ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
	snap := s.Snapshot()
	if snap.State != Idle {
		t.Fatalf("expected Idle after failed start, got %v", snap.State)
	}
	if snap.LastErr == nil {
		t.Fatal("expected LastErr to be set")
	}
}

func TestIncrementalDistance(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	source.emit(model.GeoPoint{Lat: 0, Lng: 0})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.001})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.002})
	clock.advance(time.Second)

	snap := s.Snapshot()
	if len(snap.Route) != 3 {
		t.Fatalf("expected 3 route points, got %d", len(snap.Route))
	}
	want := 2 * 111.19 * 0.001 / 1 // two segments of a thousandth of a degree
	if snap.Distance < want*0.99 || snap.Distance > want*1.01 {
		t.Fatalf("unexpected live distance: %v", snap.Distance)
	}
}

func TestDiscardBelowThreshold(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	source.emit(model.GeoPoint{Lat: 0, Lng: 0})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.0045}) // ~0.5 km
	clock.advance(3 * time.Second)

	if _, ok := s.Finish(); ok {
		t.Fatal("3-second session should be discarded regardless of distance")
	}
	snap := s.Snapshot()
	if snap.State != Idle || snap.Elapsed != 0 || snap.Distance != 0 {
		t.Fatalf("expected fresh idle session after finish, got %+v", snap)
	}
}

func TestFinishAboveThreshold(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	source.emit(model.GeoPoint{Lat: 0, Lng: 0})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.0002}) // ~0.02 km
	clock.advance(10 * time.Second)

	w, ok := s.Finish()
	if !ok {
		t.Fatal("10-second, 0.02 km session should produce a walk")
	}
	if w.Duration != 10 {
		t.Fatalf("expected duration 10, got %d", w.Duration)
	}
	if w.Distance != 0.02 {
		t.Fatalf("expected distance rounded to 0.02, got %v", w.Distance)
	}
	if len(w.Route) != 2 {
		t.Fatalf("expected 2 route points, got %d", len(w.Route))
	}
	if w.ID == "" {
		t.Fatal("expected a walk id")
	}
}

func TestPauseResumeContinuity(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	source.emit(model.GeoPoint{Lat: 0, Lng: 0})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.001})
	clock.advance(10 * time.Second)

	s.Pause()
	clock.advance(100 * time.Second) // paused gap, must be excluded

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	clock.advance(5 * time.Second)

	w, ok := s.Finish()
	if !ok {
		t.Fatal("expected a finalized walk")
	}
	if w.Duration != 15 {
		t.Fatalf("expected duration 15, got %d", w.Duration)
	}
}

func TestAvgSpeedRounding(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	source.emit(model.GeoPoint{Lat: 0, Lng: 0})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.009}) // ~1.0 km
	clock.advance(600 * time.Second)

	w, ok := s.Finish()
	if !ok {
		t.Fatal("expected a finalized walk")
	}
	want := roundTo(w.Distance/(600.0/3600), 1)
	// AvgSpeed is computed from the unrounded distance, so allow one ulp
	// of the 1 dp grid.
	if diff := w.AvgSpeed - want; diff > 0.11 || diff < -0.11 {
		t.Fatalf("avg speed %v too far from %v", w.AvgSpeed, want)
	}
}

func TestStreamErrorPausesAndPreserves(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	source.emit(model.GeoPoint{Lat: 0, Lng: 0})
	source.emit(model.GeoPoint{Lat: 0, Lng: 0.001})
	clock.advance(8 * time.Second)

	source.fail(errors.New("gps signal lost"))

	snap := s.Snapshot()
	if snap.State != Paused {
		t.Fatalf("expected Paused after stream error, got %v", snap.State)
	}
	if snap.LastErr == nil {
		t.Fatal("expected LastErr after stream error")
	}
	if len(snap.Route) != 2 || snap.Elapsed != 8 {
		t.Fatalf("accumulated state lost: %+v", snap)
	}
	if clock.tickerStops != 1 || source.watchStops != 1 {
		t.Fatalf("expected both subscriptions released, got ticker=%d watch=%d", clock.tickerStops, source.watchStops)
	}

	// The user may retry after inspecting the error.
	if err := s.Resume(); err != nil {
		t.Fatalf("Resume after stream error failed: %v", err)
	}
	if got := s.Snapshot().State; got != Tracking {
		t.Fatalf("expected Tracking after retry, got %v", got)
	}
}

func TestReleaseOnEveryExit(t *testing.T) {
	s, clock, source := newTestSession()
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.advance(2 * time.Second)

	s.Pause()
	if clock.tickerStops != 1 || source.watchStops != 1 {
		t.Fatalf("pause must release both subscriptions, got ticker=%d watch=%d", clock.tickerStops, source.watchStops)
	}

	// Teardown racing a pause is a no-op, not a double stop.
	s.Close()
	if clock.tickerStops != 1 || source.watchStops != 1 {
		t.Fatalf("close after pause must not stop again, got ticker=%d watch=%d", clock.tickerStops, source.watchStops)
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	clock.advance(10 * time.Second)
	s.Close()
	if clock.tickerStops != 2 || source.watchStops != 2 {
		t.Fatalf("close must release both subscriptions, got ticker=%d watch=%d", clock.tickerStops, source.watchStops)
	}
	if got := s.Snapshot().State; got != Paused {
		t.Fatalf("expected Paused after close while tracking, got %v", got)
	}
}

func TestFinishFromIdleIsNoop(t *testing.T) {
	s, _, _ := newTestSession()
	if _, ok := s.Finish(); ok {
		t.Fatal("finishing an idle session must not produce a walk")
	}
}
