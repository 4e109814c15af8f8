// Package geo provides great-circle distance and route projection math.
package geo

import (
	"math"

	"github.com/verte-zerg/pawtrail/internal/model"
)

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b model.GeoPoint) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLng*sinLng
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RouteDistanceKm sums consecutive-pair distances over a route.
func RouteDistanceKm(route []model.GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(route); i++ {
		total += HaversineKm(route[i-1], route[i])
	}
	return total
}

// XY is a projected canvas coordinate.
type XY struct {
	X float64
	Y float64
}

// Project maps geographic coordinates onto a width x height canvas with the
// given padding. The scale is uniform (min of the per-axis scales) so the
// route is not distorted, and the vertical axis is flipped so higher
// latitudes render closer to the top. Callers must special-case routes
// shorter than two points.
func Project(points []model.GeoPoint, width, height, padding float64) []XY {
	if len(points) == 0 {
		return nil
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
	}

	// A degenerate axis (all points share a latitude or longitude) gets a
	// range of 1, which centers the route on that axis.
	latRange := maxLat - minLat
	if latRange == 0 {
		latRange = 1
	}
	lngRange := maxLng - minLng
	if lngRange == 0 {
		lngRange = 1
	}

	scaleX := (width - padding*2) / lngRange
	scaleY := (height - padding*2) / latRange
	scale := math.Min(scaleX, scaleY)

	out := make([]XY, 0, len(points))
	for _, p := range points {
		out = append(out, XY{
			X: (p.Lng-minLng)*scale + padding,
			Y: (maxLat-p.Lat)*scale + padding,
		})
	}
	return out
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
