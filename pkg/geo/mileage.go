package geo

import (
	"context"
	"math"
)

// Oracle answers mileage questions between two points.
type Oracle interface {
	// Mileage returns the ticketed point mileage between from and to.
	Mileage(ctx context.Context, from, to *Loc) (int, error)
}

const earthRadiusMiles = 3958.7613

// GreatCircleMiles returns the haversine distance between a and b in
// statute miles, rounded to the nearest mile.
func GreatCircleMiles(a, b *Loc) int {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(math.Round(earthRadiusMiles * c))
}

// GreatCircleOracle is an Oracle with no published mileage; every answer
// is the great-circle distance.
type GreatCircleOracle struct{}

// Mileage implements Oracle.
func (GreatCircleOracle) Mileage(_ context.Context, from, to *Loc) (int, error) {
	return GreatCircleMiles(from, to), nil
}

var _ Oracle = GreatCircleOracle{}
