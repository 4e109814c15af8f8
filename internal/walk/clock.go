package walk

import (
	"sync"
	"time"
)

// SystemClock implements Clock on real timers.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Tick schedules fn on a repeating interval until the returned Ticker is
// stopped.
func (SystemClock) Tick(interval time.Duration, fn func(now time.Time)) Ticker {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case now := <-t.C:
				fn(now)
			case <-done:
				return
			}
		}
	}()
	return &systemTicker{t: t, done: done}
}

type systemTicker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (st *systemTicker) Stop() {
	st.once.Do(func() {
		st.t.Stop()
		close(st.done)
	})
}
