// Package pricing enumerates pricing unit paths for an itinerary.
//
// A pricing unit ([PU]) groups fare markets that are priced together under
// one combinability rule set: a one way, round trip, circle trip, open jaw
// or round-the-world unit. A [PUPath] partitions every market of one
// [itin.FareMarketPath] into pricing units and carries the alternative
// pricing unit paths of its side trips.
//
// # Building
//
// A [Matrix] is created per itinerary and built once:
//
//	m, err := pricing.New(it, tables, pricing.Config{})
//	if err != nil {
//	    return err
//	}
//	ok, err := m.BuildAll(ctx, paths, buckets)
//
// BuildAll caps the number of fare market paths, builds every path
// concurrently, deduplicates structurally equal pricing units across all
// paths and registers each distinct unit once per passenger type bucket.
//
// # Search
//
// Construction is a depth-first search over the unassigned markets of a
// path. At each step the first unassigned market is tried as the start of
// a round trip, a circle trip, every open jaw shape and finally a one way.
// Each alternative works on its own copy of the partial path. A per-path
// budget stops the search once enough complete paths exist.
//
// Rejections are not errors: a candidate that breaks a geography or
// mileage rule is dropped and the search continues. Errors are reserved for
// cancellation (code ABORTED) and failing collaborators such as the
// mileage oracle.
package pricing
