// Package geo models the geography that fare construction rules depend on.
//
// A [Loc] carries the IATA classification of a point (area, subarea, zones)
// together with its nation and coordinates. The package provides the point
// predicates used when pricing units are assembled (same point, same nation,
// Scandinavia, the Russian area split, Netherlands Antilles) and the
// [Oracle] abstraction that answers ticketed point mileage questions.
//
// [SameNationGroup] covers only the nation groups that are always one
// country. Rules that depend on the itinerary, such as Scandinavia or the
// US and Canada counting as one country, belong to the caller.
//
// # Mileage
//
// Mileage lookups are frequent during open-jaw validation, so callers
// normally wrap their oracle with [NewMemoOracle]:
//
//	oracle, err := geo.NewMemoOracle(tables, 4096)
//	if err != nil {
//	    return err
//	}
//	miles, err := oracle.Mileage(ctx, lon, par)
//
// [GreatCircleMiles] is the fallback when no published mileage exists.
package geo
