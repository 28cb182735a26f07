package itin

import "github.com/matzehuels/farepath/pkg/geo"

// Classify derives the geo travel type of travel touching the given
// segments: one US or CA nation is Domestic, mixed US/CA is Transborder,
// any other single nation is ForeignDomestic and everything else is
// International.
func Classify(segs []*TravelSeg) GeoTravelType {
	if len(segs) == 0 {
		return GeoUnknown
	}
	first := segs[0].Origin
	sameNation, allUSCA := true, true
	for _, s := range segs {
		for _, l := range []*geo.Loc{s.Origin, s.Destination} {
			if l.Nation != first.Nation {
				sameNation = false
			}
			if !geo.IsUSCA(l) {
				allUSCA = false
			}
		}
	}
	switch {
	case sameNation && allUSCA:
		return Domestic
	case allUSCA:
		return Transborder
	case sameNation:
		return ForeignDomestic
	}
	return International
}
