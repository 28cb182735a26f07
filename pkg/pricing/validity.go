package pricing

import (
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// isPUPathValid accepts a complete path when its units cover exactly
// total markets, it does not price an international round trip as two one
// ways, and under reduced constructions it stays within the component caps.
func (m *Matrix) isPUPathValid(fmp *itin.FareMarketPath, p *PUPath, total int) bool {
	if m.isOWoutOfIntlRT(fmp, p) {
		return false
	}

	maxFC := max(m.itin.Legs, minReducedFCCap)
	fc, markets := 0, 0
	for _, pu := range p.PUs {
		if m.cfg.ReducedConstructions {
			fc += pu.FCCount
			if fc > maxFC {
				return false
			}
			if (pu.Type == OpenJaw && pu.FCCount > 2) || (pu.Type == CircleTrip && pu.FCCount > 3) {
				return false
			}
		}
		markets += len(pu.Markets)
	}
	return markets == total
}

// isOWoutOfIntlRT reports two one way units that together form an
// international round trip. A plain A-B-A journey is exempt and flagged.
func (m *Matrix) isOWoutOfIntlRT(fmp *itin.FareMarketPath, p *PUPath) bool {
	if len(fmp.Markets) <= 2 && len(fmp.SideTrips) == 0 {
		if len(p.PUs) == 2 && twoOWFormRT(p.PUs[0], p.PUs[1]) {
			p.ABATripWithOWPU = true
		}
		return false
	}

	for i, pu1 := range p.PUs {
		if !owPUtoBlock(pu1) {
			continue
		}
		for _, pu2 := range p.PUs[i+1:] {
			if owPUtoBlock(pu2) && twoOWFormRT(pu1, pu2) {
				return true
			}
		}
	}
	return false
}

// owPUtoBlock reports one way units that may not stand in for a round
// trip. Domestic, transborder and area 3 foreign domestic travel try both.
func owPUtoBlock(pu *PU) bool {
	if pu.Type != OneWay {
		return false
	}
	switch pu.GeoTravelType {
	case itin.Domestic, itin.Transborder:
		return false
	case itin.ForeignDomestic:
		fm := pu.Markets[0]
		if fm.Origin().Area == geo.Area3 && fm.Destination().Area == geo.Area3 {
			return false
		}
	}
	return true
}

func twoOWFormRT(pu1, pu2 *PU) bool {
	fm1, fm2 := pu1.Markets[0], pu2.Markets[0]
	return geo.SamePoint(fm1.Origin(), fm2.Destination()) &&
		geo.SamePoint(fm1.Destination(), fm2.Origin())
}

// setOWPUDirectionality makes a one way unit inbound when it returns to the
// country or the point an earlier outbound unit left from.
func (m *Matrix) setOWPUDirectionality(p *PUPath) {
	if m.itin.GeoTravelType == itin.Domestic || m.itin.GeoTravelType == itin.Transborder {
		return
	}
	for i := 1; i < len(p.PUs); i++ {
		cur := p.PUs[i]
		if cur.Type != OneWay {
			continue
		}
		switch cur.GeoTravelType {
		case itin.ForeignDomestic, itin.Transborder, itin.Domestic:
			continue
		}
		curFM := cur.Markets[0]

	previous:
		for _, prev := range p.PUs[:i] {
			prevOrig := prev.Markets[0].Origin()
			if !geo.SameNation(prevOrig, curFM.Origin()) &&
				!(geo.IsRussianGroup(prevOrig) && geo.IsRussianGroup(curFM.Origin())) {
				if !m.isInboundToCountry(prevOrig, curFM.Origin(), curFM.Destination()) {
					continue
				}
				for j, fm := range prev.Markets {
					if m.isOutboundFromCountry(prevOrig, fm.Origin(), fm.Destination()) && prev.Directions[j] == From {
						cur.Directions[0] = To
						break
					}
				}
			} else if geo.SamePoint(prevOrig, curFM.Destination()) && prev.Directions[0] == From {
				cur.Directions[0] = To
				break previous
			}
		}
	}
}

// setIsIntlCTJourneyWithOWPU flags paths whose international one way units
// sit inside a journey that circles back to its origin without side trips.
func (m *Matrix) setIsIntlCTJourneyWithOWPU(fmp *itin.FareMarketPath, p *PUPath) {
	if len(fmp.Markets) < 2 || len(p.SideTrips) > 0 {
		return
	}

	owExists := false
	for _, pu := range p.PUs {
		if pu.Type != OneWay ||
			(pu.GeoTravelType != itin.International && pu.GeoTravelType != itin.ForeignDomestic) {
			continue
		}
		fm := pu.Markets[0]
		// Japan waits for fare selection
		if fm.Origin().Nation == "JP" && (fm.Destination().Nation == "JP" || pu.Directions[0] == From) {
			return
		}
		owExists = true
		break
	}
	if !owExists {
		return
	}

	markets := fmp.Markets
	dest := markets[0].Destination()
	intl := false
	for i := 1; i < len(markets); i++ {
		fm := markets[i]
		if !geo.SamePoint(dest, fm.Origin()) {
			return
		}
		dest = fm.Destination()
		for _, earlier := range markets[:i] {
			if geo.SamePoint(earlier.Destination(), dest) {
				return
			}
		}
		if fm.GeoTravelType == itin.International || fm.GeoTravelType == itin.ForeignDomestic {
			intl = true
		}
	}
	if intl && geo.SamePoint(markets[0].Origin(), dest) {
		p.IntlCTJourneyWithOWPU = true
	}
}
