package location

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/model"
)

func TestParseFix(t *testing.T) {
	cases := []struct {
		name string
		line string
		want model.GeoPoint
		ok   bool
	}{
		{
			name: "3d fix",
			line: `{"class":"TPV","mode":3,"lat":51.5074,"lon":-0.1278}`,
			want: model.GeoPoint{Lat: 51.5074, Lng: -0.1278},
			ok:   true,
		},
		{
			name: "2d fix",
			line: `{"class":"TPV","mode":2,"lat":48.8566,"lon":2.3522}`,
			want: model.GeoPoint{Lat: 48.8566, Lng: 2.3522},
			ok:   true,
		},
		{
			name: "no fix yet",
			line: `{"class":"TPV","mode":1}`,
			ok:   false,
		},
		{
			name: "version banner",
			line: `{"class":"VERSION","release":"3.25"}`,
			ok:   false,
		},
		{
			name: "garbage",
			line: `not json`,
			ok:   false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := parseFix([]byte(c.line))
			if ok != c.ok {
				t.Fatalf("expected ok=%v, got %v", c.ok, ok)
			}
			if ok && got != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

// fakeGpsd accepts one connection, waits for the watch command, and then
// replies with the given lines.
func fakeGpsd(t *testing.T, lines []string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() {
		if cerr := ln.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	})
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() {
			_ = conn.Close()
		}()
		reader := bufio.NewReader(conn)
		if _, err := reader.ReadString('\n'); err != nil {
			return
		}
		for _, line := range lines {
			if _, err := conn.Write([]byte(line + "\n")); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestGpsdWatchDeliversFixes(t *testing.T) {
	addr := fakeGpsd(t, []string{
		`{"class":"VERSION","release":"3.25"}`,
		`{"class":"TPV","mode":3,"lat":51.5,"lon":-0.12}`,
		`{"class":"TPV","mode":3,"lat":51.501,"lon":-0.119}`,
	})

	fixes := make(chan model.GeoPoint, 4)
	errs := make(chan error, 1)
	source := NewGpsd(addr, 2*time.Second, zerolog.Nop())
	sub, err := source.Watch(
		func(p model.GeoPoint) { fixes <- p },
		func(err error) { errs <- err },
	)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	first := waitFix(t, fixes)
	if first.Lat != 51.5 || first.Lng != -0.12 {
		t.Fatalf("unexpected first fix: %+v", first)
	}
	second := waitFix(t, fixes)
	if second.Lat != 51.501 {
		t.Fatalf("unexpected second fix: %+v", second)
	}

	sub.Stop()
	sub.Stop() // idempotent
}

func TestGpsdWatchReportsStreamEnd(t *testing.T) {
	addr := fakeGpsd(t, []string{
		`{"class":"TPV","mode":3,"lat":51.5,"lon":-0.12}`,
	})

	fixes := make(chan model.GeoPoint, 1)
	errs := make(chan error, 1)
	source := NewGpsd(addr, 2*time.Second, zerolog.Nop())
	if _, err := source.Watch(
		func(p model.GeoPoint) { fixes <- p },
		func(err error) { errs <- err },
	); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	waitFix(t, fixes)
	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("expected a stream error")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for stream error")
	}
}

func TestGpsdDialFailure(t *testing.T) {
	source := NewGpsd("127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())
	if _, err := source.Watch(func(model.GeoPoint) {}, func(error) {}); err == nil {
		t.Fatal("expected dial failure")
	} else if !strings.Contains(err.Error(), "gpsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func waitFix(t *testing.T, fixes <-chan model.GeoPoint) model.GeoPoint {
	t.Helper()
	select {
	case p := <-fixes:
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for fix")
		return model.GeoPoint{}
	}
}
