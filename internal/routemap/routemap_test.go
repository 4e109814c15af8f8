package routemap

import (
	"strings"
	"testing"

	"github.com/verte-zerg/pawtrail/internal/model"
)

func TestRenderPlaceholderForShortRoutes(t *testing.T) {
	if got := Render(nil, 40, 10); got != Placeholder {
		t.Fatalf("expected placeholder for empty route, got %q", got)
	}
	single := []model.GeoPoint{{Lat: 51.5, Lng: -0.12}}
	if got := Render(single, 40, 10); got != Placeholder {
		t.Fatalf("expected placeholder for single-point route, got %q", got)
	}
}

func TestRenderDimensions(t *testing.T) {
	route := []model.GeoPoint{
		{Lat: 51.500, Lng: -0.120},
		{Lat: 51.501, Lng: -0.118},
		{Lat: 51.503, Lng: -0.119},
	}
	out := Render(route, 40, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 40 {
			t.Fatalf("line %d has width %d, want 40", i, n)
		}
	}
}

func TestRenderMarkers(t *testing.T) {
	route := []model.GeoPoint{
		{Lat: 51.500, Lng: -0.120},
		{Lat: 51.510, Lng: -0.100},
	}
	out := Render(route, 40, 10)
	if !strings.ContainsRune(out, startMarker) {
		t.Fatal("expected start marker in output")
	}
	if !strings.ContainsRune(out, endMarker) {
		t.Fatal("expected end marker in output")
	}
}

func TestRenderDrawsPath(t *testing.T) {
	route := []model.GeoPoint{
		{Lat: 51.500, Lng: -0.120},
		{Lat: 51.500, Lng: -0.100},
	}
	out := Render(route, 40, 10)
	dots := 0
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			dots++
		}
	}
	if dots == 0 {
		t.Fatal("expected braille dots along the path")
	}
}
