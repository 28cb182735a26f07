package pricing

import (
	"github.com/matzehuels/farepath/pkg/itin"
)

// =============================================================================
// Buckets
// =============================================================================

// Factory is the per passenger type handle of one distinct pricing unit.
// Fare selection for the unit starts from it.
type Factory struct {
	PU               *PU
	PaxType          itin.PaxType
	FCCount          int
	LowerBound       float64
	UseCxrPreference bool
}

// Bucket holds one Factory per distinct pricing unit for a passenger type.
type Bucket struct {
	PaxType    itin.PaxType
	LowerBound float64
	Factories  map[*PU]*Factory

	order []*PU
}

// NewBucket returns an empty bucket for pax.
func NewBucket(pax itin.PaxType, lowerBound float64) *Bucket {
	return &Bucket{
		PaxType:    pax,
		LowerBound: lowerBound,
		Factories:  make(map[*PU]*Factory),
	}
}

func (b *Bucket) add(pu *PU, useCxrPref bool) {
	if _, ok := b.Factories[pu]; ok {
		return
	}
	b.Factories[pu] = &Factory{
		PU:               pu,
		PaxType:          b.PaxType,
		FCCount:          pu.FCCount,
		LowerBound:       b.LowerBound,
		UseCxrPreference: useCxrPref,
	}
	b.order = append(b.order, pu)
}

// PUs returns the units of the bucket in registration order.
func (b *Bucket) PUs() []*PU {
	return b.order
}

// Len returns the number of factories.
func (b *Bucket) Len() int {
	return len(b.order)
}

// =============================================================================
// Arena
// =============================================================================

// arena owns the canonical pricing units of a matrix. Units are looked up
// by Key and identified by their position.
type arena struct {
	index map[string]int
	pus   []*PU
}

func newArena() *arena {
	return &arena{index: make(map[string]int)}
}

// register returns the canonical instance for pu, adding pu when it is new.
func (m *Matrix) register(pu *PU, buckets []*Bucket) *PU {
	key := pu.Key()
	if i, ok := m.arena.index[key]; ok {
		canon := m.arena.pus[i]
		canon.PossibleSideTrip = canon.PossibleSideTrip || pu.PossibleSideTrip
		return canon
	}

	pu.setFCCount()
	pu.ItinWithinScandinavia = m.withinScandinavia
	pu.ItinGeoTravelType = m.itin.GeoTravelType
	setPUGovCarrier(pu)

	pu.index = len(m.arena.pus)
	m.arena.index[key] = pu.index
	m.arena.pus = append(m.arena.pus, pu)
	for _, b := range buckets {
		b.add(pu, m.cfg.CarrierPreferences)
	}
	return pu
}

// updateBuckets replaces every unit of p by its canonical instance and
// sets the journey level flags of the main units.
func (m *Matrix) updateBuckets(p *PUPath, buckets []*Bucket) {
	p.PUIndex = make([]int, len(p.PUs))
	for i, pu := range p.PUs {
		p.PUs[i] = m.register(pu, buckets)
		p.PUIndex[i] = p.PUs[i].index
	}

	if len(p.PUs) == 1 {
		p.PUs[0].NoPUToEOE = true
		if len(p.SideTrips) == 0 {
			p.PUs[0].CompleteJourney = true
			return
		}
	}

	for _, st := range p.SideTripPaths() {
		st.PUIndex = make([]int, len(st.PUs))
		for i, pu := range st.PUs {
			pu.PossibleSideTrip = true
			st.PUs[i] = m.register(pu, buckets)
			st.PUIndex[i] = st.PUs[i].index
		}
	}
}

func setPUGovCarrier(pu *PU) {
	first := pu.Markets[0].GoverningCarriers
	if len(first) != 1 {
		pu.CarrierClass = CarrierUnknown
		return
	}
	cxr := first[0]
	for _, fm := range pu.Markets[1:] {
		switch {
		case len(fm.GoverningCarriers) != 1:
			pu.CarrierClass = CarrierUnknown
			return
		case fm.GoverningCarriers[0] != cxr:
			pu.CarrierClass = MultiCarrier
			return
		}
	}
	if cxr == "AA" {
		pu.CarrierClass = AllAACarrier
	} else {
		pu.CarrierClass = SameCarrier
	}
}

// createMainTripSideTripLink lays out AllPU and records, for every fare
// usage with side trips, the AllPU positions of each side trip's units.
func (m *Matrix) createMainTripSideTripLink(p *PUPath) {
	p.AllPU = append([]*PU(nil), p.PUs...)
	total := len(p.AllPU)

	if len(p.SideTrips) == 0 {
		p.EOEAvailable = nil
		if total > 1 {
			p.EOEAvailable = make([]bool, total)
			for i := range p.EOEAvailable {
				p.EOEAvailable[i] = true
			}
		}
		return
	}

	p.EOEAvailable = make([]bool, total)
	for i := range p.EOEAvailable {
		p.EOEAvailable[i] = total > 1
	}

	p.Links = make(map[int]map[int][][]int)
	for puIdx, pu := range p.PUs {
		fuLinks := make(map[int][][]int)
		for fuIdx, fm := range pu.Markets {
			sts := p.SideTrips[fm]
			if len(sts) == 0 {
				continue
			}
			var lists [][]int
			for _, st := range sts {
				eoe := len(st.PUs) > 1
				var idx []int
				for _, stPU := range st.PUs {
					stPU.PossibleSideTrip = true
					p.AllPU = append(p.AllPU, stPU)
					p.EOEAvailable = append(p.EOEAvailable, eoe)
					idx = append(idx, len(p.AllPU)-1)
				}
				lists = append(lists, idx)
			}
			fuLinks[fuIdx] = lists
			pu.HasSideTrip = true
		}
		if len(fuLinks) > 0 {
			p.Links[puIdx] = fuLinks
			p.HasSideTrip = true
			m.hasSideTrip = true
		}
	}
}

// =============================================================================
// Broken open jaws
// =============================================================================

// FindUniqueInternationalSameNationOJ returns every distinct international
// same-nation open jaw of the matrix, main and side trip units alike, in
// first-seen order. It only reads.
func (m *Matrix) FindUniqueInternationalSameNationOJ() []*PU {
	var out []*PU
	seen := make(map[*PU]bool)
	add := func(pu *PU) {
		if pu.Type == OpenJaw && pu.GeoTravelType == itin.International && pu.SameNationOJ && !seen[pu] {
			seen[pu] = true
			out = append(out, pu)
		}
	}
	for _, p := range m.paths {
		for _, pu := range p.PUs {
			add(pu)
		}
		for _, st := range p.SideTripPaths() {
			for _, pu := range st.PUs {
				add(pu)
			}
		}
	}
	return out
}

// markIntlOWfromBrokenOJ links oj to every international one way unit that
// prices the same city pair as its first or last market.
func (m *Matrix) markIntlOWfromBrokenOJ(oj *PU) {
	fm1, fm2 := oj.Markets[0], oj.Markets[len(oj.Markets)-1]
	sameCities := func(a, b *itin.MergedFareMarket) bool {
		return a.Origin().CityCode() == b.Origin().CityCode() &&
			a.Destination().CityCode() == b.Destination().CityCode()
	}
	for _, p := range m.paths {
		for _, pu := range p.PUs {
			if pu.Type != OneWay || pu.GeoTravelType != itin.International {
				continue
			}
			fm := pu.Markets[0]
			if sameCities(fm1, fm) || sameCities(fm2, fm) {
				pu.addIntlOJ(oj)
			}
		}
	}
}
