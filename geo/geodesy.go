package geo

import (
	"math"

	"github.com/tilemaps/tilemaps/affine"
	"github.com/tilemaps/tilemaps/mathhelp"
)

// EarthRadiusMeters is the WGS-84 equatorial radius.
const EarthRadiusMeters = 6.378137e6

// Distance returns the great-circle distance between two points in meters,
// using the haversine formula.
func Distance(p1, p2 LatLon) float64 {
	lat1 := mathhelp.Radians(p1.Lat)
	lat2 := mathhelp.Radians(p2.Lat)
	dlat := lat1 - lat2
	dlon := mathhelp.Radians(p1.Lon) - mathhelp.Radians(p2.Lon)

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Bearing returns the initial bearing from p1 to p2, in degrees clockwise
// from north.
func Bearing(p1, p2 LatLon) float64 {
	lat1 := mathhelp.Radians(p1.Lat)
	lat2 := mathhelp.Radians(p2.Lat)
	dlon := mathhelp.Radians(p2.Lon) - mathhelp.Radians(p1.Lon)
	x := math.Cos(lat2) * math.Sin(dlon)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	return mathhelp.Degrees(math.Atan2(x, y))
}

// MoveFromLatLon displaces a point along a great circle by the given bearing
// (degrees clockwise from north) and distance (meters).
func MoveFromLatLon(p LatLon, bearing, distance float64) LatLon {
	b := mathhelp.Radians(bearing)
	lat := mathhelp.Radians(p.Lat)
	lon := mathhelp.Radians(p.Lon)

	angular := distance / EarthRadiusMeters

	targetLat := math.Asin(math.Sin(lat)*math.Cos(angular) + math.Cos(lat)*math.Sin(angular)*math.Cos(b))
	targetLon := lon + math.Atan2(
		math.Sin(b)*math.Sin(angular)*math.Cos(lat),
		math.Cos(angular)-math.Sin(lat)*math.Sin(targetLat),
	)
	targetLon = mathhelp.NormalizeAngle(targetLon)

	return LatLon{Lat: mathhelp.Degrees(targetLat), Lon: mathhelp.Degrees(targetLon)}
}

// MetersPerDegAtLatLon returns how many meters one degree of latitude and
// one degree of longitude span at the given point, derived from two
// one-meter displacements.
func MetersPerDegAtLatLon(p LatLon) affine.Vec2 {
	const distance = 1.0
	p2 := MoveFromLatLon(MoveFromLatLon(p, 90, distance), 0, distance)
	diff := p.Vec().Sub(p2.Vec()).Abs()
	return affine.Vec2{distance / diff[0], distance / diff[1]}
}
