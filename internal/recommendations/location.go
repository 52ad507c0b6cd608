// internal/recommendations/location.go

package recommendations

import (
	"math"

	"github.com/sfuqua6/foodie/internal/restaurants"
)

const earthRadiusKm = 6371.0

// Distance bands and their score multipliers. Nearby places get a bump,
// far-away ones are heavily demoted but never removed.
var locationBoosts = []struct {
	maxKm float64
	boost float64
}{
	{2, 1.2},
	{5, 1.0},
	{10, 0.8},
}

const farBoost = 0.3

// applyLocationBoost scales scores by distance band when the request
// carries coordinates. Restaurants without coordinates are left alone.
func applyLocationBoost(results []Result, candidates []restaurants.Restaurant, lat, lng *float64) {
	if lat == nil || lng == nil {
		return
	}
	coords := make(map[int64][2]float64, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		if r.Latitude == 0 && r.Longitude == 0 {
			continue
		}
		coords[r.ID] = [2]float64{r.Latitude, r.Longitude}
	}

	for i := range results {
		c, ok := coords[results[i].RestaurantID]
		if !ok {
			continue
		}
		results[i].Score *= boostFor(haversineKm(*lat, *lng, c[0], c[1]))
	}
}

func boostFor(distanceKm float64) float64 {
	for _, band := range locationBoosts {
		if distanceKm <= band.maxKm {
			return band.boost
		}
	}
	return farBoost
}

// haversineKm is the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
