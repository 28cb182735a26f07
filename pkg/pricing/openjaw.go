package pricing

import (
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// buildOJ tries an open jaw with ob outbound markets starting at the first
// unassigned market at or after idx, and ib inbound markets starting at
// ibIdx. Only one inbound start is tried per call; the caller enumerates
// the inbound positions.
//
// The size and international checks apply to every market skipped on the
// way, so an international market already covered by the path still
// limits the open jaw to two components.
func (s *search) buildOJ(ob, ib, idx, ibIdx int, path *PUPath) {
	if s.stopped() {
		return
	}
	n := ob + ib
	for {
		if idx+n > s.total() {
			return
		}
		if s.markets[idx].GeoTravelType == itin.International && n > 2 {
			return
		}
		if !path.IsMarketAssigned(s.markets[idx]) {
			break
		}
		idx++
	}
	// the legs may not share a market
	if ibIdx < idx+ob {
		return
	}

	fm := s.markets[idx]
	obGeo := fm.GeoTravelType
	if fm.StartsWithArunk() {
		return
	}

	cxrPref := false
	outbound := []*itin.MergedFareMarket{fm}
	prev := fm
	for i := idx + 1; i < idx+ob; i++ {
		next := s.markets[i]
		obGeo = combineGeoTravelType(obGeo, next)
		if obGeo == itin.International && n > 2 {
			return
		}
		if !geo.SamePoint(prev.Destination(), next.Origin()) {
			return
		}
		if !s.m.isValidFCforOJLeg(fm, next) || path.IsMarketAssigned(next) {
			return
		}
		if fmReturnsToLeg(next, outbound) {
			return
		}
		cxrPref = cxrPref || next.CxrFarePreferred
		outbound = append(outbound, next)
		prev = next
	}

	if ibIdx+ib > s.total() {
		return
	}
	first := s.markets[ibIdx]
	geoType := combineGeoTravelType(obGeo, first)
	if geoType == itin.International && n > 2 {
		return
	}
	if path.IsMarketAssigned(first) {
		return
	}
	cxrPref = cxrPref || first.CxrFarePreferred
	inbound := []*itin.MergedFareMarket{first}
	prev = first
	for i := ibIdx + 1; i < ibIdx+ib; i++ {
		next := s.markets[i]
		geoType = combineGeoTravelType(geoType, next)
		if geoType == itin.International && n > 2 {
			return
		}
		if !geo.SamePoint(prev.Destination(), next.Origin()) {
			return
		}
		if !s.m.isValidFCforOJLeg(fm, next) || path.IsMarketAssigned(next) {
			return
		}
		if fmReturnsToLeg(next, inbound) {
			return
		}
		cxrPref = cxrPref || next.CxrFarePreferred
		inbound = append(inbound, next)
		prev = next
	}

	pu := s.buildOJPU(outbound, inbound, geoType, cxrPref)
	if pu == nil {
		return
	}
	ojPath := path.clone()
	ojPath.push(pu)
	s.buildPUPath(idx+1, ojPath)
}

// buildOJPU returns the open jaw unit for the two legs, or nil when they
// do not form a valid open jaw.
func (s *search) buildOJPU(outbound, inbound []*itin.MergedFareMarket, geoType itin.GeoTravelType, cxrPref bool) *PU {
	c, ok := s.isValidOpenJawTrip(outbound, inbound, geoType)
	if !ok {
		return nil
	}

	pu := newPU(OpenJaw)
	pu.OJType = c.ojType
	pu.SameNationOJ = c.sameNation
	pu.SameNationOrigSurfaceOJ = c.sameNationOrigSurface
	pu.AllowNOJInZone210 = c.allowNOJInZone210
	pu.SurfaceCheck = c.surface
	pu.GeoTravelType = geoType
	pu.OJLeg1FCCount = len(outbound)
	for _, fm := range outbound {
		pu.add(fm, From)
	}
	pu.CxrFarePreferred = cxrPref

	if s.m.cfg.SpecialOpenJaw {
		pu.InvalidateYYForTOJ = c.betweenAreas || c.specialOJ
		pu.SpecialOpenJaw = c.specialOJ
	} else {
		pu.InvalidateYYForTOJ = c.betweenAreas
	}
	pu.InvalidCxrForOJ = c.invalidCxr
	pu.InDiffCntrySameSubareaForOOJ = c.diffCountrySameSubareaOOJ
	pu.SpecialEuropeanDoubleOJ = c.specialEuropeanDOJ

	if geoType == itin.International {
		// an international open jaw has exactly one inbound component
		obOrig := outbound[0].Origin()
		ibFM := inbound[0]
		dir := From
		if c.ojType == DestOpenJaw ||
			isInboundToZone210(obOrig, ibFM) ||
			s.m.isInboundToCountry(obOrig, ibFM.Origin(), ibFM.Destination()) ||
			isInboundToNetherlandsAntilles(obOrig, ibFM) {
			dir = To
		}
		pu.add(ibFM, dir)
		pu.TurnaroundSeg = ibFM.First()
	} else {
		for i, fm := range inbound {
			dir := From
			if i == len(inbound)-1 {
				dir = To
			}
			pu.add(fm, dir)
		}
		pu.TurnaroundSeg = inbound[len(inbound)-1].First()
	}
	pu.setFCCount()
	return pu
}

// isValidFCforOJLeg reports whether fm may join a multi-component leg that
// starts with orig. Such legs stay domestic or foreign domestic throughout.
func (m *Matrix) isValidFCforOJLeg(orig, fm *itin.MergedFareMarket) bool {
	if fm.GeoTravelType == itin.International || orig.GeoTravelType == itin.International {
		return false
	}
	if m.itin.GeoTravelType == itin.Transborder &&
		(fm.GeoTravelType == itin.Transborder || orig.GeoTravelType == itin.Transborder) {
		return false
	}
	return orig.GeoTravelType == fm.GeoTravelType
}

// fmReturnsToLeg reports whether fm ends at any endpoint of leg.
func fmReturnsToLeg(fm *itin.MergedFareMarket, leg []*itin.MergedFareMarket) bool {
	dest := fm.Destination()
	for _, l := range leg {
		if geo.SamePoint(dest, l.Origin()) || geo.SamePoint(dest, l.Destination()) {
			return true
		}
	}
	return false
}

// intersectOJLegs reports whether the inbound leg touches a point of the
// outbound leg. The inbound start may meet the outbound start and the
// inbound end may meet the outbound end; those are the open jaw surfaces.
func intersectOJLegs(outbound, inbound []*itin.MergedFareMarket) bool {
	for i, fm := range inbound {
		if inLeg(fm.Origin(), outbound, i == 0) {
			return true
		}
		if inLeg(fm.Destination(), outbound, i == len(inbound)-1) {
			return true
		}
	}
	return false
}

func inLeg(loc *geo.Loc, leg []*itin.MergedFareMarket, endpoint bool) bool {
	for i, fm := range leg {
		if (i != 0 || !endpoint) && geo.SamePoint(loc, fm.Origin()) {
			return true
		}
		if (i != len(leg)-1 || !endpoint) && geo.SamePoint(loc, fm.Destination()) {
			return true
		}
	}
	return false
}
