// Package geo holds the geographic primitives shared by the risk pipeline:
// the WGS 84 point type and great-circle distance on a mean-radius sphere.
package geo

import "math"

// meanEarthRadiusMeters is the mean Earth radius used for great-circle math.
const meanEarthRadiusMeters = 6371000.0

// Point is a geographic coordinate (WGS 84).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies inside the usual lat/lon ranges.
// NaN coordinates are not valid.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the great-circle distance between a and b in meters,
// using the haversine formula on a mean Earth radius. Out-of-range or NaN
// inputs are not special-cased; NaN propagates to the result.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return meanEarthRadiusMeters * c
}

// toRadians converts degrees to radians.
func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
