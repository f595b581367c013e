// Package geo computes great-circle distances between listings and the fixed
// amenity catalogs, plus deterministic travel-time estimates derived from
// distance alone (no live routing).
package geo

import (
	"math"
	"sort"

	"nadlan_mcp/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two lat/lon pairs.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Estimate holds the derived travel profile for one distance. The formulas
// are part of the served contract: base walking and driving minutes round up,
// the terrain/traffic penalties and the transit leg truncate toward zero.
type Estimate struct {
	DistanceKm     float64
	DistanceMeters int
	WalkMin        int
	DriveMin       int
	TransitMin     *int // nil when the distance is too short for transit
	Accessibility  string
}

const (
	walkSpeedKmh  = 4.5
	driveSpeedKmh = 22.0
	busSpeedKmh   = 18.0
)

// Estimated wait at a stop plus the walk to and from it, minutes.
const (
	transitWaitMin = 10
	transitWalkMin = 6
)

// EstimateTravel derives walking, driving and public-transit minutes plus an
// accessibility tier from a distance in kilometers.
func EstimateTravel(km float64) Estimate {
	e := Estimate{
		DistanceKm:     km,
		DistanceMeters: int(km * 1000),
		Accessibility:  Accessibility(km),
	}

	e.WalkMin = int(math.Ceil(km / walkSpeedKmh * 60))
	if km > 0.5 {
		e.WalkMin += int(km * 3) // hill penalty, 3 min/km
	}

	e.DriveMin = int(math.Ceil(km / driveSpeedKmh * 60))
	if e.DriveMin < 2 {
		e.DriveMin = 2
	}
	if km > 0.8 {
		e.DriveMin += int(km * 2) // traffic and parking
	}

	// Not applicable for short distances, reported as absent rather than zero.
	if km > 1.5 {
		t := transitWaitMin + int(km/busSpeedKmh*60) + transitWalkMin
		e.TransitMin = &t
	}
	return e
}

// Accessibility maps a distance to its tier. Boundary values belong to the
// next-lower tier (strict less-than).
func Accessibility(km float64) string {
	switch {
	case km < 0.3:
		return "Excellent - Very close"
	case km < 0.8:
		return "Very Good - Walking distance"
	case km < 1.5:
		return "Good - Short commute"
	default:
		return "Fair - Longer commute"
	}
}

// RankedAmenity is a catalog entry with its travel profile from a query point.
type RankedAmenity struct {
	domain.Amenity
	Estimate
}

// KNearest returns up to k catalog entries ordered by ascending distance from
// (lat, lon), each with its travel estimate.
func KNearest(lat, lon float64, catalog []domain.Amenity, k int) []RankedAmenity {
	out := make([]RankedAmenity, 0, len(catalog))
	for _, a := range catalog {
		km := DistanceKm(lat, lon, a.Lat, a.Lon)
		out = append(out, RankedAmenity{Amenity: a, Estimate: EstimateTravel(km)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// NearestTo finds the closest catalog entry to a listing location. Missing
// coordinates or an empty catalog degrade to the sentinel distance instead of
// failing.
func NearestTo(lat, lon *float64, catalog []domain.Amenity) (string, float64) {
	if lat == nil || lon == nil || len(catalog) == 0 {
		return "Unknown", domain.SentinelDistanceKm
	}
	best := KNearest(*lat, *lon, catalog, 1)
	return best[0].Name, best[0].DistanceKm
}
