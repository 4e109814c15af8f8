// Package location provides GPS fix sources for walk tracking.
package location

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/walk"
)

// DefaultGpsdAddr is the standard local gpsd endpoint.
const DefaultGpsdAddr = "127.0.0.1:2947"

// watchCommand enables streaming JSON reports. gpsd only reports live
// fixes, so there is no cached-position staleness to guard against.
const watchCommand = `?WATCH={"enable":true,"json":true};` + "\n"

// Gpsd streams position fixes from a gpsd socket. Connection failures are
// reported to the caller; retry is manual.
type Gpsd struct {
	addr    string
	timeout time.Duration
	log     zerolog.Logger
}

// NewGpsd creates a gpsd-backed location source. timeout bounds both the
// dial and each report read.
func NewGpsd(addr string, timeout time.Duration, log zerolog.Logger) *Gpsd {
	if addr == "" {
		addr = DefaultGpsdAddr
	}
	return &Gpsd{addr: addr, timeout: timeout, log: log}
}

// tpvReport is the subset of a gpsd TPV report we consume. Mode 2 and 3
// are 2D and 3D fixes; anything lower has no position.
type tpvReport struct {
	Class string  `json:"class"`
	Mode  int     `json:"mode"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Current returns a single fix, waiting until the context deadline at the
// latest.
func (g *Gpsd) Current(ctx context.Context) (model.GeoPoint, error) {
	conn, scanner, err := g.connect()
	if err != nil {
		return model.GeoPoint{}, err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetReadDeadline(deadline); err != nil {
			return model.GeoPoint{}, err
		}
	}
	for scanner.Scan() {
		if p, ok := parseFix(scanner.Bytes()); ok {
			return p, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return model.GeoPoint{}, fmt.Errorf("gpsd read: %w", err)
	}
	return model.GeoPoint{}, fmt.Errorf("gpsd closed the stream before a fix")
}

// Watch streams fixes until the returned subscription is stopped. A read
// failure ends the stream and is reported through onErr exactly once.
func (g *Gpsd) Watch(onFix func(model.GeoPoint), onErr func(error)) (walk.Subscription, error) {
	conn, scanner, err := g.connect()
	if err != nil {
		return nil, err
	}

	sub := &gpsdWatch{conn: conn}
	go func() {
		for {
			if g.timeout > 0 {
				if err := conn.SetReadDeadline(time.Now().Add(g.timeout)); err != nil {
					break
				}
			}
			if !scanner.Scan() {
				break
			}
			if sub.stopped.Load() {
				return
			}
			if p, ok := parseFix(scanner.Bytes()); ok {
				onFix(p)
			}
		}
		if sub.stopped.Load() {
			return
		}
		err := scanner.Err()
		if err == nil {
			err = fmt.Errorf("gpsd closed the stream")
		}
		g.log.Warn().Err(err).Msg("gpsd stream ended")
		onErr(err)
	}()
	return sub, nil
}

func (g *Gpsd) connect() (net.Conn, *bufio.Scanner, error) {
	conn, err := net.DialTimeout("tcp", g.addr, g.timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("gpsd dial %s: %w", g.addr, err)
	}
	if _, err := conn.Write([]byte(watchCommand)); err != nil {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
		return nil, nil, fmt.Errorf("gpsd watch command: %w", err)
	}
	return conn, bufio.NewScanner(conn), nil
}

func parseFix(line []byte) (model.GeoPoint, bool) {
	var report tpvReport
	if err := json.Unmarshal(line, &report); err != nil {
		return model.GeoPoint{}, false
	}
	if report.Class != "TPV" || report.Mode < 2 {
		return model.GeoPoint{}, false
	}
	return model.GeoPoint{Lat: report.Lat, Lng: report.Lon}, true
}

type gpsdWatch struct {
	conn    net.Conn
	stopped atomic.Bool
	once    sync.Once
}

// Stop cancels the stream. Idempotent.
func (w *gpsdWatch) Stop() {
	w.once.Do(func() {
		w.stopped.Store(true)
		if cerr := w.conn.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	})
}
