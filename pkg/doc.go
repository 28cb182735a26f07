// Package pkg holds the farepath libraries.
//
// # Overview
//
// farepath enumerates the pricing unit paths of an itinerary. Given the
// fare market paths of a journey, it finds every way to group their fare
// markets into one way, round trip, circle trip, open jaw and round the
// world pricing units, attaches side trips, and registers each distinct
// unit once per passenger type for fare lookup.
//
// # Data Flow
//
//	scenario TOML
//	     ↓
//	[scenario] (resolve itinerary, fare markets, paths)  ← [refdata] tables
//	     ↓
//	[pricing] (build the pu path matrix)                 ← [geo] mileage oracle
//	     ↓
//	[diag], [render] (text dump, JSON, DOT/SVG/PNG)
//
// [pipeline] runs these stages with caching ([cache]) and build records
// ([store]); the CLI and the HTTP server both go through it.
//
// # Quick Start
//
//	sc, err := scenario.Load("examples/scenarios/round-trip.toml")
//	if err != nil {
//	    return err
//	}
//	m, err := pricing.New(sc.Itin, sc.Tables, sc.Config)
//	if err != nil {
//	    return err
//	}
//	if _, err := m.BuildAll(ctx, sc.Paths, sc.Buckets()); err != nil {
//	    return err
//	}
//	for _, p := range m.Paths() {
//	    fmt.Println(p)
//	}
//
// # Packages
//
// [itin] - itinerary, fare markets and fare market paths.
//
// [geo] - locations, geographic predicates and the mileage oracle.
//
// [refdata] - reference tables: locations, mileage, carrier preferences,
// circle trip provisions and same points.
//
// [pricing] - the matrix: recursive unit construction, open jaw and circle
// trip validation, side trip composition, dedup and factory registration.
//
// [errors] - coded errors shared by every package.
//
// [observability] - hooks for the pipeline, cache and HTTP layers.
package pkg
