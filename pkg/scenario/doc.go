// Package scenario reads TOML scenario files.
//
// A scenario describes one itinerary, its merged fare markets, the fare
// market paths to build and the engine configuration. Reference data is
// given inline, loaded from a file named by the top level refdata key, or
// both (inline rows override the file).
//
//	refdata = "world.toml"
//
//	[config]
//	workers = 4
//
//	[[itin.segment]]
//	from = "LON"
//	to = "PAR"
//	carrier = "BA"
//
//	[[itin.segment]]
//	from = "PAR"
//	to = "LON"
//	carrier = "BA"
//
//	[[market]]
//	id = "out"
//	segments = [1]
//	global_direction = "AT"
//	carriers = ["BA"]
//
//	[[market]]
//	id = "in"
//	segments = [2]
//	global_direction = "AT"
//	carriers = ["BA"]
//
//	[[path]]
//	markets = ["out", "in"]
//
// Side trips hang off a main market of a path and list their alternative
// market sequences:
//
//	[[path.side_trip]]
//	from = "out"
//	paths = [["st1", "st2"]]
package scenario
