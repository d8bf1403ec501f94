// Package geo computes distances between institutions and ranks them by
// proximity to a point.
package geo

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// EarthRadius is the equatorial radius of WGS84 in metres.
const EarthRadius = 6378137.0

// DefaultK is the number of results KNearest returns when k <= 0.
const DefaultK = 5

// GreatCircleDistance returns the distance between p1 and p2 in metres,
// rounded half-up to three decimals.
func GreatCircleDistance(p1, p2 models.Point) float64 {
	lat1 := radians(p1.Latitude)
	lat2 := radians(p2.Latitude)
	dLng := radians(p2.Longitude - p1.Longitude)

	cos := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLng)
	// Rounding can push identical points just past 1.
	cos = math.Max(-1, math.Min(1, cos))

	return roundHalfUp(EarthRadius*math.Acos(cos), 3)
}

// Ranked is one KNearest result.
type Ranked[T any] struct {
	Item T `json:"item"`
	// Rank starts at 1 for the nearest candidate.
	Rank       int     `json:"rank"`
	DistanceKM float64 `json:"distance_km"`
}

// KNearest ranks candidates by distance from origin and returns the first k.
// Candidates for which point reports no coordinates are skipped. Equal
// distances keep their input order.
func KNearest[T any](origin models.Point, candidates []T, k int, point func(T) (models.Point, bool)) []Ranked[T] {
	if k <= 0 {
		k = DefaultK
	}

	type scored struct {
		item     T
		distance float64
	}
	located := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		p, ok := point(c)
		if !ok {
			continue
		}
		located = append(located, scored{item: c, distance: GreatCircleDistance(origin, p)})
	}

	sort.SliceStable(located, func(i, j int) bool {
		return located[i].distance < located[j].distance
	})

	if len(located) > k {
		located = located[:k]
	}

	ranked := make([]Ranked[T], len(located))
	for i, s := range located {
		ranked[i] = Ranked[T]{
			Item:       s.item,
			Rank:       i + 1,
			DistanceKM: roundHalfUp(s.distance/1000, 2),
		}
	}
	return ranked
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// roundHalfUp rounds the shortest decimal form of v, so 2.675 becomes 2.68.
func roundHalfUp(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
