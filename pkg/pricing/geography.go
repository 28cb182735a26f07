package pricing

import (
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// combineGeoTravelType folds the travel type of fm into cur. International
// dominates foreign domestic, which dominates transborder.
func combineGeoTravelType(cur itin.GeoTravelType, fm *itin.MergedFareMarket) itin.GeoTravelType {
	g := fm.GeoTravelType
	switch {
	case g == cur, cur == itin.International:
		return cur
	case g == itin.International:
		return itin.International
	case g == itin.ForeignDomestic:
		return itin.ForeignDomestic
	case g == itin.Transborder && cur != itin.ForeignDomestic:
		return itin.Transborder
	}
	return cur
}

// sameCountry reports whether a and b count as one country for this
// itinerary. Only international and transborder itineraries have borders.
// On an international itinerary that leaves Scandinavia the three
// Scandinavian nations are one country, as are the US and Canada.
func (m *Matrix) sameCountry(a, b *geo.Loc) bool {
	if !m.crossesBorders() || geo.SameNationGroup(a, b) {
		return true
	}
	if m.itin.GeoTravelType != itin.International || m.withinScandinavia {
		return false
	}
	return (geo.IsUSCA(a) && geo.IsUSCA(b)) || (geo.IsScandinavia(a) && geo.IsScandinavia(b))
}

// sameCountrySurface is sameCountry for the surface a-b of an open jaw
// whose other surface is outA-outB. On international travel a surface
// inside Europe, or inside the Antilles, is domestic when the other one
// is not.
func (m *Matrix) sameCountrySurface(a, b, outA, outB *geo.Loc) bool {
	if m.sameCountry(a, b) {
		return true
	}
	if m.itin.GeoTravelType != itin.International {
		return false
	}
	if geo.IsEurope(a) && geo.IsEurope(b) && !(geo.IsEurope(outA) && geo.IsEurope(outB)) {
		return true
	}
	return geo.IsNetherlandsAntilles(a) && geo.IsNetherlandsAntilles(b) &&
		!(geo.IsNetherlandsAntilles(outA) && geo.IsNetherlandsAntilles(outB))
}

func (m *Matrix) crossesBorders() bool {
	g := m.itin.GeoTravelType
	return g == itin.International || g == itin.Transborder
}

// isInboundToCountry reports whether a market from orig to dest returns to
// the country of puOrig.
func (m *Matrix) isInboundToCountry(puOrig, orig, dest *geo.Loc) bool {
	if !m.crossesBorders() || m.sameCountry(puOrig, orig) {
		return false
	}
	return m.sameCountry(puOrig, dest)
}

// isOutboundFromCountry reports whether a market from orig to dest leaves
// the country of puOrig.
func (m *Matrix) isOutboundFromCountry(puOrig, orig, dest *geo.Loc) bool {
	if !m.crossesBorders() {
		return false
	}
	return m.sameCountry(puOrig, orig) && !m.sameCountry(orig, dest)
}

// isInboundToZone210 reports a market returning into Europe from outside
// for a unit that started in a different European nation.
func isInboundToZone210(origin *geo.Loc, fm *itin.MergedFareMarket) bool {
	if geo.SameNation(origin, fm.Origin()) {
		return false
	}
	return origin.InZone(geo.ZoneEurope) &&
		!fm.Origin().InZone(geo.ZoneEurope) &&
		fm.Destination().InZone(geo.ZoneEurope)
}

func isInboundToNetherlandsAntilles(origin *geo.Loc, fm *itin.MergedFareMarket) bool {
	if geo.SameNation(origin, fm.Origin()) {
		return false
	}
	return geo.IsNetherlandsAntilles(origin) &&
		!geo.IsNetherlandsAntilles(fm.Origin()) &&
		geo.IsNetherlandsAntilles(fm.Destination())
}

// determineItinTravelBoundary classifies the itinerary by the IATA areas
// it touches. Travel that never leaves the subarea of its origin is
// OneSubIATA; inside subarea 21 it may also be wholly Scandinavian.
func (m *Matrix) determineItinTravelBoundary() {
	segs := m.itin.Segments
	m.boundary = OneIATA
	m.withinScandinavia = false
	if len(segs) == 0 {
		return
	}

	areas := map[string]bool{}
	for _, s := range segs {
		areas[s.Origin.Area] = true
		areas[s.Destination.Area] = true
	}
	n := 0
	for _, a := range []string{geo.Area1, geo.Area2, geo.Area3} {
		if areas[a] {
			n++
		}
	}
	switch n {
	case 3:
		m.boundary = AllIATA
		return
	case 2:
		m.boundary = TwoIATA
	}

	sub := segs[0].Origin.SubArea
	for _, s := range segs {
		if s.Destination.SubArea != sub {
			return
		}
	}
	m.boundary = OneSubIATA
	if sub == geo.SubArea21 {
		m.withinScandinavia = travelWithinScandinavia(segs)
	}
}

func travelWithinScandinavia(segs []*itin.TravelSeg) bool {
	for _, s := range segs {
		if !geo.IsScandinavia(s.Origin) || !geo.IsScandinavia(s.Destination) {
			return false
		}
	}
	return true
}
