package pricing

import (
	"slices"

	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// ojCheck collects what the open jaw rules learn about a pair of legs.
type ojCheck struct {
	ojType                    OJType
	sameNation                bool
	sameNationOrigSurface     bool
	allowNOJInZone210         bool
	surface                   SurfaceStatus
	betweenAreas              bool
	invalidCxr                []string
	diffCountrySameSubareaOOJ bool
	specialEuropeanDOJ        bool
	specialOJ                 bool
}

func (c *ojCheck) invalidate(cxr string) {
	if !slices.Contains(c.invalidCxr, cxr) {
		c.invalidCxr = append(c.invalidCxr, cxr)
	}
}

// isValidOpenJawTrip applies the open jaw construction rules to an
// outbound and an inbound leg of travel type geoType.
func (s *search) isValidOpenJawTrip(outbound, inbound []*itin.MergedFareMarket, geoType itin.GeoTravelType) (*ojCheck, bool) {
	m := s.m
	if intersectOJLegs(outbound, inbound) {
		return nil, false
	}

	obOrigFM, obDestFM := outbound[0], outbound[len(outbound)-1]
	ibOrigFM, ibDestFM := inbound[0], inbound[len(inbound)-1]

	// an international open jaw may pair with a US/CA domestic leg but not
	// with a foreign domestic one
	if geoType == itin.International &&
		(obOrigFM.GeoTravelType == itin.ForeignDomestic || ibOrigFM.GeoTravelType == itin.ForeignDomestic) {
		return nil, false
	}
	if (geoType == itin.Domestic || geoType == itin.Transborder) && !hasTag2(outbound) && !hasTag2(inbound) {
		return nil, false
	}

	obOrig, obDest := obOrigFM.Origin(), obDestFM.Destination()
	ibOrig, ibDest := ibOrigFM.Origin(), ibDestFM.Destination()

	origMatch := obOrig.CityCode() == ibDest.CityCode()
	destMatch := obDest.CityCode() == ibOrig.CityCode()
	if origMatch && destMatch {
		return nil, false
	}
	if m.isSamePointInFcc(&origMatch, obOrigFM, ibDestFM, &destMatch, obDestFM, ibOrigFM) {
		return nil, false
	}

	c := &ojCheck{}
	if !origMatch && !destMatch &&
		obOrigFM.GeoTravelType == itin.International && ibOrigFM.GeoTravelType == itin.International &&
		isSameAnyOneXPoint(obOrigFM, ibDestFM, obDestFM, ibOrigFM) &&
		m.isSpecialEuropeanDoubleOJ(obOrig, obDest, ibOrig, ibDest) {
		c.specialEuropeanDOJ = true
	}
	if !c.specialEuropeanDOJ && (geo.SamePoint(obOrig, ibOrig) || geo.SamePoint(obDest, ibDest)) {
		return nil, false
	}

	if obOrig.Area != ibDest.Area && !(geo.IsRussianGroup(obOrig) && geo.IsRussianGroup(ibDest)) {
		switch {
		case m.cfg.DiffCountryNMLOpenJaw:
			c.betweenAreas = true
		case m.cfg.SpecialOpenJaw:
			c.specialOJ = true
		default:
			return nil, false
		}
	}

	switch {
	case origMatch:
		c.ojType = DestOpenJaw
		if m.sameCountrySurface(obDest, ibOrig, obOrig, ibDest) {
			c.sameNation = true
			c.allowNOJInZone210 = true
		}
	case destMatch:
		c.ojType = OrigOpenJaw
		if m.sameCountrySurface(obOrig, ibDest, obDest, ibOrig) {
			c.sameNation = true
			c.sameNationOrigSurface = true
			c.allowNOJInZone210 = true
		}
	default:
		c.ojType = DoubleOpenJaw
		c.sameNationOrigSurface = m.sameCountrySurface(obOrig, ibDest, obDest, ibOrig)
		if c.sameNationOrigSurface && m.sameCountrySurface(obDest, ibOrig, obOrig, ibDest) {
			c.sameNation = true
			c.allowNOJInZone210 = true
		}
	}

	if c.specialEuropeanDOJ {
		// subarea rules do not apply; mileage only sets the surface status
		if !s.checkOJMileageRestriction(outbound, inbound, geoType, c, c.betweenAreas, false) {
			return nil, false
		}
		ok := m.specialDOJCarrierPref(outbound, c) && m.specialDOJCarrierPref(inbound, c)
		return c, ok
	}

	failOnMileage := false
	if !c.sameNation {
		ok, invalidOJ, fail := m.checkOJIataArea(obOrig, obDest, ibOrig, ibDest, c)
		if !ok {
			// a destination open jaw across countries may still pass on
			// mileage alone
			if c.ojType == DestOpenJaw && !invalidOJ &&
				s.checkOJMileageRestriction(outbound, inbound, geoType, c, c.betweenAreas, true) {
				return c, true
			}
			return nil, false
		}
		failOnMileage = fail
		if c.ojType == OrigOpenJaw && !c.sameNationOrigSurface &&
			!c.allowNOJInZone210 && obOrig.SubArea == ibDest.SubArea {
			c.diffCountrySameSubareaOOJ = true
		}
	}

	if !s.checkOJMileageRestriction(outbound, inbound, geoType, c, c.betweenAreas || c.specialOJ, failOnMileage) {
		return nil, false
	}
	return c, true
}

// specialDOJCarrierPref passes when some governing carrier of the first
// market of leg opts into the special European double open jaw. The
// others are recorded as invalid for the unit.
func (m *Matrix) specialDOJCarrierPref(leg []*itin.MergedFareMarket, c *ojCheck) bool {
	pass := false
	for _, cxr := range leg[0].GoverningCarriers {
		if m.carrierPref(cxr).ApplySpclDOJEurope {
			pass = true
		} else {
			c.invalidate(cxr)
		}
	}
	return pass
}

// checkOJIataArea applies the IATA area and subarea rules to an open jaw
// whose surfaces cross countries. invalidOJ marks a failure that mileage
// cannot rescue; failOnMileage asks the mileage check to be strict.
func (m *Matrix) checkOJIataArea(obOrig, obDest, ibOrig, ibDest *geo.Loc, c *ojCheck) (ok, invalidOJ, failOnMileage bool) {
	allAreas := false
	if m.boundary == AllIATA {
		pts := []*geo.Loc{obOrig, obDest, ibOrig, ibDest}
		has := func(area string) bool {
			return slices.ContainsFunc(pts, func(l *geo.Loc) bool { return l.Area == area })
		}
		allAreas = has(geo.Area1) && has(geo.Area2) && has(geo.Area3)
	}
	path := func(oo, od, io, id string) bool {
		return obOrig.Area == oo && obDest.Area == od && ibOrig.Area == io && ibDest.Area == id
	}

	switch c.ojType {
	case OrigOpenJaw:
		if allAreas {
			switch {
			case path(geo.Area2, geo.Area1, geo.Area1, geo.Area3),
				path(geo.Area3, geo.Area1, geo.Area1, geo.Area2),
				path(geo.Area2, geo.Area3, geo.Area3, geo.Area1),
				path(geo.Area1, geo.Area3, geo.Area3, geo.Area2):
				return true, false, false
			case m.cfg.SpecialOpenJaw && path(geo.Area1, geo.Area2, geo.Area2, geo.Area3):
				return true, false, false
			}
			return false, false, false
		}
		if obOrig.SubArea == ibDest.SubArea {
			return true, false, false
		}
		if !m.cfg.SpecialOpenJaw {
			if geo.IsRussianGroup(obOrig) && geo.IsRussianGroup(ibDest) {
				return true, false, false
			}
			if obOrig.Area != ibDest.Area {
				return false, true, false
			}
		}
		// surface ending in the subarea of the turnaround
		if obOrig.SubArea == obDest.SubArea || ibDest.SubArea == obDest.SubArea {
			return true, false, true
		}
		return true, false, false

	case DestOpenJaw:
		if allAreas {
			c.betweenAreas = true
			return true, false, false
		}
		if obDest.SubArea == ibOrig.SubArea {
			return true, false, false
		}
		if geo.IsRussianGroup(obDest) && geo.IsRussianGroup(ibOrig) {
			return true, false, false
		}
		if obDest.Area != ibOrig.Area {
			c.betweenAreas = true
			return true, false, false
		}
		// surface ending in the subarea of the origin
		if obDest.SubArea == obOrig.SubArea || ibOrig.SubArea == obOrig.SubArea {
			return false, false, false
		}
		return true, false, false

	case DoubleOpenJaw:
		if allAreas {
			c.betweenAreas = true
			return true, false, false
		}
		if obDest.SubArea == ibOrig.SubArea && ibDest.SubArea == obOrig.SubArea {
			return true, false, false
		}
		destRussia := geo.IsRussianGroup(obDest) && geo.IsRussianGroup(ibOrig)
		if obDest.Area != ibOrig.Area && !destRussia {
			c.betweenAreas = true
			return true, false, false
		}
		origRussia := geo.IsRussianGroup(obOrig) && geo.IsRussianGroup(ibDest)
		if !m.cfg.SpecialOpenJaw && obOrig.Area != ibDest.Area && !origRussia {
			return false, true, false
		}
		if !origRussia && !destRussia &&
			(obDest.SubArea == obOrig.SubArea || obDest.SubArea == ibDest.SubArea ||
				ibOrig.SubArea == obOrig.SubArea || ibOrig.SubArea == ibDest.SubArea) {
			return true, false, true
		}
		return true, false, false
	}
	return false, false, false
}

// isSamePointInFcc widens the endpoint matches with the fare calculation
// same point table and reports whether both ends then match.
func (m *Matrix) isSamePointInFcc(origMatch *bool, obOrigFM, ibDestFM *itin.MergedFareMarket,
	destMatch *bool, obDestFM, ibOrigFM *itin.MergedFareMarket) bool {
	if !m.ref.HasSamePoints() {
		return false
	}
	if !*origMatch {
		*origMatch = m.ref.SameDisplayLoc(
			obOrigFM.First().Origin.Code, obOrigFM.Origin().CityCode(),
			ibDestFM.Last().Destination.Code, ibDestFM.Destination().CityCode())
	}
	if !*destMatch {
		*destMatch = m.ref.SameDisplayLoc(
			obDestFM.Last().Destination.Code, obDestFM.Destination().CityCode(),
			ibOrigFM.First().Origin.Code, ibOrigFM.Origin().CityCode())
	}
	return *origMatch && *destMatch
}

// isSameAnyOneXPoint matches A-B/A-C and A-B/C-B: exactly one of the two
// legs' starts or ends coincide.
func isSameAnyOneXPoint(obOrigFM, ibDestFM, obDestFM, ibOrigFM *itin.MergedFareMarket) bool {
	starts := obOrigFM.Origin().CityCode() == ibOrigFM.Origin().CityCode()
	ends := obDestFM.Destination().CityCode() == ibDestFM.Destination().CityCode()
	return starts != ends
}

// isSpecialEuropeanDoubleOJ holds when both surfaces cross a border and
// every endpoint lies in Europe.
func (m *Matrix) isSpecialEuropeanDoubleOJ(obOrig, obDest, ibOrig, ibDest *geo.Loc) bool {
	if m.sameCountry(obDest, ibOrig) || m.sameCountry(obOrig, ibDest) {
		return false
	}
	for _, l := range []*geo.Loc{obOrig, obDest, ibOrig, ibDest} {
		if !l.InZone(geo.ZoneEurope) {
			return false
		}
	}
	return true
}
