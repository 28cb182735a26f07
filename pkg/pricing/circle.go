package pricing

import (
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// buildCT tries a circle trip starting at the first unassigned market.
// It is also the branch that completes a path whose remaining markets are
// all assigned.
func (s *search) buildCT(idx int, path *PUPath) {
	if s.stopped() {
		return
	}
	idx = s.firstUnassigned(idx, path)
	if idx >= s.total() {
		s.buildPUPath(idx, path.clone())
		return
	}
	start := s.markets[idx]
	if start.StartsWithArunk() {
		return
	}

	ct := newPU(CircleTrip)
	ct.GeoTravelType = start.GeoTravelType
	ct.add(start, From)
	ct.CxrFarePreferred = start.CxrFarePreferred

	ctPath := path.clone()
	ctPath.CxrFarePreferred = ct.CxrFarePreferred
	found := false
	s.buildCTPU(ct, idx+1, ctPath, false, &found)
	if !found {
		return
	}
	s.buildPUPath(idx+1, ctPath)
}

// buildCTPU grows ct with markets from next on until it closes. Leaving
// out the market at next is tried before taking it, and the first closed
// circle wins. A closed circle is pushed onto path.
func (s *search) buildCTPU(ct *PU, next int, path *PUPath, passedProvision bool, found *bool) {
	if s.stopped() || *found || next >= s.total() {
		return
	}

	skip := newPU(CircleTrip)
	skip.GeoTravelType = ct.GeoTravelType
	skip.CxrFarePreferred = ct.CxrFarePreferred
	skip.Markets = append(skip.Markets, ct.Markets...)
	skip.Directions = append(skip.Directions, ct.Directions...)
	skipFound := false
	s.buildCTPU(skip, next+1, path, passedProvision, &skipFound)
	if skipFound {
		*found = true
		return
	}

	fm := s.markets[next]
	if path.IsMarketAssigned(fm) {
		return
	}
	dir, closed, ok := s.m.isValidFCforCT(ct, fm, &passedProvision)
	if !ok {
		return
	}

	ct.add(fm, dir)
	ct.CxrFarePreferred = ct.CxrFarePreferred || fm.CxrFarePreferred
	if dir == To && ct.TurnaroundSeg == nil {
		ct.TurnaroundSeg = fm.First()
	}
	ct.GeoTravelType = combineGeoTravelType(ct.GeoTravelType, fm)

	if !closed {
		s.buildCTPU(ct, next+1, path, passedProvision, found)
		return
	}

	if !s.m.isValidCT(ct, passedProvision) || !checkTag2(ct) {
		return
	}
	last := ct.Markets[len(ct.Markets)-1]
	if ct.GeoTravelType == itin.International && last.GeoTravelType != itin.International &&
		last.GeoTravelType != itin.GeoUnknown {
		ct.Directions[len(ct.Directions)-1] = From
	}
	ct.setFCCount()
	*found = true
	path.push(ct)
	setCTTurnaround(ct)
}

// isValidFCforCT reports whether fm may extend ct: it must be contiguous
// (or bridged by a circle trip provision surface sector on international
// travel) and must not return to an intermediate point. closed is set when
// fm returns to the circle origin.
func (m *Matrix) isValidFCforCT(ct *PU, fm *itin.MergedFareMarket, passedProvision *bool) (dir Directionality, closed, ok bool) {
	first := ct.Markets[0]
	last := ct.Markets[len(ct.Markets)-1]
	puOrig := first.Origin()
	orig, dest := fm.Origin(), fm.Destination()

	checkProvision := m.itin.GeoTravelType == itin.International

	if !geo.SamePoint(last.Destination(), orig) {
		if !checkProvision || !m.provisionBridges(last, fm) {
			return From, false, false
		}
		*passedProvision = true
	}

	if geo.SamePoint(puOrig, dest) {
		return To, true, true
	}
	if checkProvision && m.ref.CircleTripProvision(fm.Last().Destination.CityCode(), puOrig.CityCode()) {
		*passedProvision = true
		dir = From
		if m.isInboundToCountry(puOrig, orig, dest) {
			dir = To
		}
		return dir, true, true
	}

	for _, prev := range ct.Markets[1:] {
		if geo.SamePoint(prev.Origin(), dest) {
			return From, false, false
		}
	}

	if m.isInboundToCountry(puOrig, orig, dest) {
		return To, false, true
	}
	return From, false, true
}

// provisionBridges reports whether exactly one surface sector separates
// prev and fm and the provision table lists it.
func (m *Matrix) provisionBridges(prev, fm *itin.MergedFareMarket) bool {
	n1, n2 := prev.Last().Number, fm.First().Number
	if n1+2 != n2 {
		return false
	}
	arunk := m.itin.Segment(n1 + 1)
	if arunk == nil || !arunk.Arunk {
		return false
	}
	return m.ref.CircleTripProvision(arunk.Origin.CityCode(), arunk.Destination.CityCode())
}

// isValidCT rejects two-component circles that are really round trips.
func (m *Matrix) isValidCT(ct *PU, passedProvision bool) bool {
	if passedProvision && ct.GeoTravelType != itin.International {
		return false
	}
	switch n := len(ct.Markets); {
	case n > 2:
		return true
	case n == 2:
		return ct.Markets[0].GlobalDirection != ct.Markets[1].GlobalDirection || passedProvision
	}
	return false
}

// setCTTurnaround moves the turnaround to the market origin furthest from
// the circle origin.
func setCTTurnaround(ct *PU) {
	origin := ct.Markets[0].Origin()
	best := 0
	var seg *itin.TravelSeg
	for _, fm := range ct.Markets {
		if d := geo.GreatCircleMiles(origin, fm.First().Origin); d > best {
			best = d
			seg = fm.First()
		}
	}
	if seg != nil {
		ct.TurnaroundSeg = seg
	}
}

// checkTag2 requires a tag-2 fare in some market of a domestic or
// transborder unit.
func checkTag2(pu *PU) bool {
	if pu.GeoTravelType != itin.Domestic && pu.GeoTravelType != itin.Transborder {
		return true
	}
	return hasTag2(pu.Markets)
}

func hasTag2(markets []*itin.MergedFareMarket) bool {
	for _, fm := range markets {
		if fm.Tag2 == itin.Tag2Present {
			return true
		}
	}
	return false
}
