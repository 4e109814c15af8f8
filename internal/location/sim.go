package location

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/walk"
)

// Simulator emits a plausible walking route around a home coordinate, for
// demos and machines without a GPS receiver.
type Simulator struct {
	home     model.GeoPoint
	interval time.Duration
	seed     int64
}

const (
	simSpeedMps  = 1.4 // comfortable walking pace
	kmPerDegree  = 111.19
	headingDrift = 0.35 // radians per step
)

// NewSimulator creates a simulated source stepping once per interval.
func NewSimulator(home model.GeoPoint, interval time.Duration, seed int64) *Simulator {
	return &Simulator{home: home, interval: interval, seed: seed}
}

// Current returns the home coordinate.
func (s *Simulator) Current(context.Context) (model.GeoPoint, error) {
	return s.home, nil
}

// Watch emits one fix per interval until stopped.
func (s *Simulator) Watch(onFix func(model.GeoPoint), onErr func(error)) (walk.Subscription, error) {
	rng := rand.New(rand.NewSource(s.seed))
	pos := s.home
	heading := rng.Float64() * 2 * math.Pi
	stepKm := simSpeedMps * s.interval.Seconds() / 1000

	ticker := time.NewTicker(s.interval)
	done := make(chan struct{})
	go func() {
		onFix(pos)
		for {
			select {
			case <-ticker.C:
				heading += (rng.Float64() - 0.5) * 2 * headingDrift
				stepDeg := stepKm / kmPerDegree
				pos.Lat += math.Cos(heading) * stepDeg
				pos.Lng += math.Sin(heading) * stepDeg / math.Cos(pos.Lat*math.Pi/180)
				onFix(pos)
			case <-done:
				return
			}
		}
	}()
	return &simWatch{ticker: ticker, done: done}, nil
}

type simWatch struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the stream. Idempotent.
func (w *simWatch) Stop() {
	w.once.Do(func() {
		w.ticker.Stop()
		close(w.done)
	})
}
