// Package walk owns the live walk-tracking state machine.
package walk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/geo"
	"github.com/verte-zerg/pawtrail/internal/model"
)

// Finish thresholds below which an attempt is discarded as noise.
const (
	minFinishSeconds    = 5.0
	minFinishDistanceKm = 0.01
)

// ErrLocationUnavailable reports that no location stream could be acquired.
// Recoverable; the user retries Start manually.
var ErrLocationUnavailable = errors.New("location unavailable")

// State is the lifecycle state of a session.
type State int

// Session states.
const (
	Idle State = iota
	Tracking
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Ticker is a cancelable repeating timer subscription. Stop is idempotent.
type Ticker interface {
	Stop()
}

// Clock abstracts wall time and repeating ticks so sessions can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
	Tick(interval time.Duration, fn func(now time.Time)) Ticker
}

// Subscription is a cancelable location stream. Stop is idempotent.
type Subscription interface {
	Stop()
}

// LocationSource supplies GPS fixes, either one-shot or streamed.
type LocationSource interface {
	Current(ctx context.Context) (model.GeoPoint, error)
	Watch(onFix func(model.GeoPoint), onErr func(error)) (Subscription, error)
}

// Session accumulates a live walk. It owns two subscriptions, a 1-second
// timer and a location stream, acquired together on Start/Resume and
// released together on every exit transition. Callbacks may arrive from
// other goroutines, so all state is guarded by the mutex.
type Session struct {
	clock  Clock
	source LocationSource
	log    zerolog.Logger

	mu       sync.Mutex
	state    State
	base     time.Time // wall-clock start, shifted back by accumulated elapsed
	elapsed  float64   // seconds, frozen while paused
	route    []model.GeoPoint
	distance float64 // km, unrounded until finalize
	lastErr  error

	ticker Ticker
	watch  Subscription
}

// NewSession creates a fresh idle session.
func NewSession(clock Clock, source LocationSource, log zerolog.Logger) *Session {
	return &Session{clock: clock, source: source, log: log}
}

// Snapshot is a read-only view of the live session state.
type Snapshot struct {
	State    State
	Elapsed  float64
	Distance float64
	Route    []model.GeoPoint
	LastErr  error
}

// Snapshot returns a copy of the current live state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	route := make([]model.GeoPoint, len(s.route))
	copy(route, s.route)
	return Snapshot{
		State:    s.state,
		Elapsed:  s.elapsed,
		Distance: s.distance,
		Route:    route,
		LastErr:  s.lastErr,
	}
}

// Start begins or resumes tracking. From Idle the accumulators are already
// zero; from Paused the elapsed time continues where it left off. On
// failure the session stays out of Tracking and LastErr is set.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle && s.state != Paused {
		return nil
	}
	s.lastErr = nil

	watch, err := s.source.Watch(s.onFix, s.onStreamError)
	if err != nil {
		s.lastErr = fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
		s.log.Error().Err(err).Msg("failed to acquire location stream")
		return s.lastErr
	}
	s.watch = watch

	// Shifting the base back by the accumulated elapsed time makes the
	// timer continue seamlessly across pauses.
	s.base = s.clock.Now().Add(-time.Duration(s.elapsed * float64(time.Second)))
	s.ticker = s.clock.Tick(time.Second, s.onTick)
	s.state = Tracking
	return nil
}

// Resume is Start from Paused.
func (s *Session) Resume() error {
	return s.Start()
}

// Pause stops both subscriptions and freezes the accumulators.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Tracking {
		return
	}
	s.stopLocked()
	s.state = Paused
}

// Finish stops tracking and finalizes the session. Attempts below the
// discard thresholds produce no Walk. Either way the session resets to a
// fresh Idle state for the next walk.
func (s *Session) Finish() (model.Walk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Tracking && s.state != Paused {
		return model.Walk{}, false
	}
	s.stopLocked()
	s.state = Finished

	var w model.Walk
	ok := s.elapsed > minFinishSeconds && s.distance > minFinishDistanceKm
	if ok {
		avgSpeed := 0.0
		if s.elapsed > 0 {
			avgSpeed = roundTo(s.distance/(s.elapsed/3600), 1)
		}
		w = model.Walk{
			ID:       uuid.NewString(),
			Date:     s.clock.Now(),
			Duration: int(math.Round(s.elapsed)),
			Distance: roundTo(s.distance, 2),
			Route:    s.route,
			AvgSpeed: avgSpeed,
		}
	}

	s.resetLocked()
	return w, ok
}

// Close releases both subscriptions without finalizing. Safe to call from
// screen teardown at any time, including when already stopped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if s.state == Tracking {
		s.state = Paused
	}
}

func (s *Session) onTick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Tracking {
		return
	}
	s.elapsed = now.Sub(s.base).Seconds()
}

func (s *Session) onFix(p model.GeoPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Tracking {
		return
	}
	// Raw fixes are accepted as-is, in arrival order. Each contribution
	// depends only on the previous stored point.
	if len(s.route) > 0 {
		s.distance += geo.HaversineKm(s.route[len(s.route)-1], p)
	}
	s.route = append(s.route, p)
}

func (s *Session) onStreamError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Tracking {
		return
	}
	s.lastErr = err
	s.stopLocked()
	s.state = Paused
	s.log.Warn().Err(err).Msg("location stream error, session paused")
}

// stopLocked releases both subscriptions. Idempotent; teardown may race
// with a user-initiated pause.
func (s *Session) stopLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.watch != nil {
		s.watch.Stop()
		s.watch = nil
	}
}

func (s *Session) resetLocked() {
	s.state = Idle
	s.base = time.Time{}
	s.elapsed = 0
	s.route = nil
	s.distance = 0
	s.lastErr = nil
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
