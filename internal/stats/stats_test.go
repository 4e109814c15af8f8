package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/pawtrail/internal/model"
)

func walk(duration int, distance float64) model.Walk {
	return model.Walk{
		ID:       "w",
		Date:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Duration: duration,
		Distance: distance,
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregate([]model.Walk{walk(1800, 2.5), walk(1800, 2.5)})
	if got.Walks != 2 {
		t.Fatalf("expected 2 walks, got %d", got.Walks)
	}
	if got.TotalDistanceKm != 5.0 {
		t.Fatalf("expected total distance 5.0, got %v", got.TotalDistanceKm)
	}
	if got.TotalDurationSec != 3600 {
		t.Fatalf("expected total duration 3600, got %v", got.TotalDurationSec)
	}
	if got.OverallAvgSpeedKmh != 5.0 {
		t.Fatalf("expected overall avg speed 5.0, got %v", got.OverallAvgSpeedKmh)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	if got.Walks != 0 || got.OverallAvgSpeedKmh != 0 {
		t.Fatalf("expected zero aggregate, got %+v", got)
	}
}

func TestDistanceSeriesOldestFirst(t *testing.T) {
	// Stored order is most-recent-first; the series reverses it.
	walks := []model.Walk{walk(60, 3), walk(60, 2), walk(60, 1)}
	got := DistanceSeries(walks)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected series: %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(3723); got != "01:02:03" {
		t.Fatalf("expected 01:02:03, got %s", got)
	}
	if got := FormatClock(0); got != "00:00:00" {
		t.Fatalf("expected 00:00:00, got %s", got)
	}
}

func TestFormatDurationShort(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{3900, "1 hr 5 min"},
		{3600, "1 hr 0 min"},
		{300, "5 min"},
		{42, "42 sec"},
	}
	for _, c := range cases {
		if got := FormatDurationShort(c.seconds); got != c.want {
			t.Fatalf("FormatDurationShort(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	got := Sparkline([]float64{2, 2, 2})
	if len(got) != 3 {
		t.Fatalf("expected 3 chars, got %q", got)
	}
	if got[0] != got[1] || got[1] != got[2] {
		t.Fatalf("flat series should render uniformly: %q", got)
	}
}

func TestSparklineRange(t *testing.T) {
	got := Sparkline([]float64{0, 10})
	if len(got) != 2 {
		t.Fatalf("expected 2 chars, got %q", got)
	}
	if got[0] != ' ' || got[1] != '@' {
		t.Fatalf("expected min/max extremes, got %q", got)
	}
}
