package geo

import (
	"math"
	"testing"

	"github.com/verte-zerg/pawtrail/internal/model"
)

func TestHaversineKmIdentity(t *testing.T) {
	p := model.GeoPoint{Lat: 51.5074, Lng: -0.1278}
	if d := HaversineKm(p, p); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %v", d)
	}
}

func TestHaversineKmSymmetry(t *testing.T) {
	a := model.GeoPoint{Lat: 59.3293, Lng: 18.0686}
	b := model.GeoPoint{Lat: 55.6761, Lng: 12.5683}
	if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); d1 != d2 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineKmOneDegreeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is about 111.19 km.
	d := HaversineKm(model.GeoPoint{Lat: 0, Lng: 0}, model.GeoPoint{Lat: 0, Lng: 1})
	if math.Abs(d-111.19) > 0.01 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestRouteDistanceMatchesIncremental(t *testing.T) {
	route := []model.GeoPoint{
		{Lat: 51.5000, Lng: -0.1200},
		{Lat: 51.5010, Lng: -0.1190},
		{Lat: 51.5022, Lng: -0.1201},
		{Lat: 51.5030, Lng: -0.1215},
	}
	incremental := 0.0
	for i := 1; i < len(route); i++ {
		incremental += HaversineKm(route[i-1], route[i])
	}
	if batch := RouteDistanceKm(route); batch != incremental {
		t.Fatalf("batch %v != incremental %v", batch, incremental)
	}
}

func TestProjectUniformScale(t *testing.T) {
	// Equal lat/lng ranges on a non-square viewport must use the same
	// scale on both axes.
	points := []model.GeoPoint{
		{Lat: 10, Lng: 20},
		{Lat: 11, Lng: 21},
	}
	out := Project(points, 500, 300, 20)
	if len(out) != 2 {
		t.Fatalf("expected 2 projected points, got %d", len(out))
	}
	spanX := math.Abs(out[1].X - out[0].X)
	spanY := math.Abs(out[1].Y - out[0].Y)
	if math.Abs(spanX-spanY) > 1e-9 {
		t.Fatalf("aspect ratio distorted: spanX=%v spanY=%v", spanX, spanY)
	}
	// The smaller axis (height 300 - 2*20 = 260) bounds the scale.
	if spanY != 260 {
		t.Fatalf("expected vertical span 260, got %v", spanY)
	}
}

func TestProjectFlipsVerticalAxis(t *testing.T) {
	points := []model.GeoPoint{
		{Lat: 10, Lng: 20}, // south
		{Lat: 11, Lng: 20}, // north
	}
	out := Project(points, 100, 100, 0)
	if out[1].Y >= out[0].Y {
		t.Fatalf("higher latitude should project to smaller y: %v vs %v", out[1].Y, out[0].Y)
	}
}

func TestProjectDegenerateAxis(t *testing.T) {
	// All points on the same latitude: the lat range is substituted with 1
	// instead of dividing by zero.
	points := []model.GeoPoint{
		{Lat: 45, Lng: 7.0},
		{Lat: 45, Lng: 7.5},
	}
	out := Project(points, 200, 200, 10)
	for _, p := range out {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("degenerate axis produced invalid projection: %+v", p)
		}
	}
	if out[0].Y != out[1].Y {
		t.Fatalf("same-latitude points should share y, got %v and %v", out[0].Y, out[1].Y)
	}
}
