// Package itin is the itinerary input model for pricing unit construction.
//
// An [Itin] is an ordered list of [TravelSeg] values. Upstream fare market
// analysis groups contiguous segments into [MergedFareMarket] values and
// enumerates every way of traversing the itinerary as a [FareMarketPath].
// A path may carry side trips: nested paths that leave from and return to a
// point inside one of its markets.
//
// Values in this package are built once (usually by package scenario) and
// are only read afterwards, so they may be shared between goroutines.
package itin
