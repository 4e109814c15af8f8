// Package stats aggregates walk history statistics.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/pawtrail/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Lifetime holds aggregate totals over the full walk history.
type Lifetime struct {
	Walks              int
	TotalDistanceKm    float64
	TotalDurationSec   int
	OverallAvgSpeedKmh float64
}

// Aggregate recomputes lifetime totals from the stored walks. Cheap enough
// to run on every read for a single-user history.
func Aggregate(walks []model.Walk) Lifetime {
	out := Lifetime{Walks: len(walks)}
	for _, w := range walks {
		out.TotalDistanceKm += w.Distance
		out.TotalDurationSec += w.Duration
	}
	if out.TotalDurationSec > 0 {
		out.OverallAvgSpeedKmh = out.TotalDistanceKm / (float64(out.TotalDurationSec) / 3600)
	}
	return out
}

// DistanceSeries returns per-walk distances oldest first, for charting.
func DistanceSeries(walks []model.Walk) []float64 {
	out := make([]float64, 0, len(walks))
	for i := len(walks) - 1; i >= 0; i-- {
		out = append(out, walks[i].Distance)
	}
	return out
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatDurationShort renders seconds as a compact "1 hr 5 min" label.
func FormatDurationShort(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	parts := []string{}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%d hr", h))
	}
	if m > 0 || h > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d sec", seconds)
	}
	return strings.Join(parts, " ")
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
