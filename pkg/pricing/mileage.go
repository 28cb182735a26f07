package pricing

import (
	"github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// mileage asks the oracle for the ticketed point mileage between a and b.
// A failed lookup stops the search.
func (s *search) mileage(a, b *geo.Loc) int {
	if s.err != nil {
		return 0
	}
	miles, err := s.m.oracle.Mileage(s.ctx, a, b)
	if err != nil {
		code := errors.ErrCodeInvalidRefData
		if s.ctx.Err() != nil {
			code = errors.ErrCodeAborted
		}
		s.fail(errors.Wrap(code, err, "mileage %s-%s", a, b))
		return 0
	}
	return miles
}

// legMileage is the endpoint mileage of a leg, or for international travel
// the sum over every sector flown or surface.
func (s *search) legMileage(leg []*itin.MergedFareMarket, geoType itin.GeoTravelType) int {
	if geoType != itin.International {
		return s.mileage(leg[0].Origin(), leg[len(leg)-1].Destination())
	}
	total := 0
	for _, fm := range leg {
		for _, seg := range fm.Segments {
			total += s.mileage(seg.Origin, seg.Destination)
		}
	}
	return total
}

// checkOJMileageRestriction compares the open jaw surfaces with the leg
// mileages and records the outcome in c.surface. International and foreign
// domestic open jaws only fail here on carrier preference or when
// failOnMileage is set.
func (s *search) checkOJMileageRestriction(outbound, inbound []*itin.MergedFareMarket, geoType itin.GeoTravelType,
	c *ojCheck, betweenAreas, failOnMileage bool) bool {
	obMiles := s.legMileage(outbound, geoType)
	ibMiles := s.legMileage(inbound, geoType)

	obOrig := outbound[0].Origin()
	obDest := outbound[len(outbound)-1].Destination()
	ibOrig := inbound[0].Origin()
	ibDest := inbound[len(inbound)-1].Destination()

	var surface1, surface2 int
	switch c.ojType {
	case DestOpenJaw:
		surface1 = s.mileage(obDest, ibOrig)
	case OrigOpenJaw:
		surface1 = s.mileage(obOrig, ibDest)
	case DoubleOpenJaw:
		surface1 = s.mileage(obOrig, ibDest)
		surface2 = s.mileage(obDest, ibOrig)
	}
	if s.err != nil {
		return false
	}

	smaller, larger := min(obMiles, ibMiles), max(obMiles, ibMiles)

	if s.m.cfg.SpecialOpenJaw && betweenAreas &&
		(c.ojType == OrigOpenJaw || c.ojType == DoubleOpenJaw) && surface1 > larger {
		return false
	}

	if betweenAreas && (c.ojType == DoubleOpenJaw || c.ojType == DestOpenJaw) {
		tojSurface := surface1
		if c.ojType == DoubleOpenJaw {
			tojSurface = surface2
		}
		if !s.m.checkTOJAcrossAreas(outbound, smaller, larger, tojSurface, c) ||
			!s.m.checkTOJAcrossAreas(inbound, smaller, larger, tojSurface, c) {
			return false
		}
	}

	switch {
	case surface1 <= smaller && surface2 <= smaller:
		c.surface = SurfaceShortest
		return true
	case surface1 <= larger && surface2 <= larger:
		c.surface = SurfaceNotShortest
		return true
	case failOnMileage:
		return false
	case geoType != itin.International && geoType != itin.ForeignDomestic:
		return false
	}

	limit := 1.25 * float64(larger)
	if float64(surface1) < limit && float64(surface2) < limit {
		c.surface = Surface125Larger
	} else {
		c.surface = SurfaceVeryLarge
	}
	return true
}

// checkTOJAcrossAreas passes when a governing carrier of the first market
// of leg accepts a turnaround surface of this length between two areas,
// either up to the shorter or up to the longer component.
func (m *Matrix) checkTOJAcrossAreas(leg []*itin.MergedFareMarket, smaller, larger, surface int, c *ojCheck) bool {
	pass := false
	for _, cxr := range leg[0].GoverningCarriers {
		pref := m.carrierPref(cxr)
		switch {
		case pref.ApplySingleTOJBetwAreasShorterFC && surface <= smaller:
			pass = true
		case pref.ApplySingleTOJBetwAreasLongerFC && surface <= larger:
			pass = true
		default:
			c.invalidate(cxr)
		}
	}
	return pass
}
