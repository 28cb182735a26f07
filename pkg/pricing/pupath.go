package pricing

import (
	"slices"
	"strings"

	"github.com/matzehuels/farepath/pkg/itin"
)

// PUPath partitions the markets of one fare market path into pricing
// units. Every market of the path appears in exactly one unit of PUs.
type PUPath struct {
	PUs []*PU

	// SideTrips maps a main market to one pricing unit path per side trip
	// leaving from it.
	SideTrips map[*itin.MergedFareMarket][]*PUPath

	// AllPU is PUs followed by the units of every side trip, in link
	// order. EOEAvailable is parallel to it.
	AllPU        []*PU
	EOEAvailable []bool

	// PUIndex holds the arena index of each unit in PUs.
	PUIndex []int

	// Links maps a main unit index to a fare usage index within it, and
	// from there to one list of AllPU indices per side trip.
	Links map[int]map[int][][]int

	TotalPU int
	TotalFC int

	ABATripWithOWPU       bool
	IntlCTJourneyWithOWPU bool
	ItinWithinScandinavia bool
	HasSideTrip           bool
	CxrFarePreferred      bool

	Path *itin.FareMarketPath
}

// IsMarketAssigned reports whether a main unit already covers m.
func (p *PUPath) IsMarketAssigned(m *itin.MergedFareMarket) bool {
	for _, pu := range p.PUs {
		if pu.Contains(m) {
			return true
		}
	}
	return false
}

func (p *PUPath) push(pu *PU) {
	p.PUs = append(p.PUs, pu)
	p.CxrFarePreferred = p.CxrFarePreferred || pu.CxrFarePreferred
}

// clone deep copies the units and side trip paths.
func (p *PUPath) clone() *PUPath {
	c := &PUPath{
		PUs:              make([]*PU, len(p.PUs)),
		CxrFarePreferred: p.CxrFarePreferred,
		Path:             p.Path,
	}
	for i, pu := range p.PUs {
		c.PUs[i] = pu.clone()
	}
	if len(p.SideTrips) > 0 {
		c.SideTrips = make(map[*itin.MergedFareMarket][]*PUPath, len(p.SideTrips))
		for m, paths := range p.SideTrips {
			cp := make([]*PUPath, len(paths))
			for i, st := range paths {
				cp[i] = st.clone()
			}
			c.SideTrips[m] = cp
		}
	}
	return c
}

// SideTripPaths returns the side trip paths in itinerary order of the
// markets they leave from.
func (p *PUPath) SideTripPaths() []*PUPath {
	var out []*PUPath
	for _, pu := range p.PUs {
		for _, m := range pu.Markets {
			out = append(out, p.SideTrips[m]...)
		}
	}
	return out
}

func (p *PUPath) setTotalPU() {
	n := len(p.PUs)
	for _, st := range p.SideTripPaths() {
		n += len(st.PUs)
	}
	p.TotalPU = n
}

func (p *PUPath) countTotalFC() {
	n := 0
	for _, pu := range p.PUs {
		n += pu.FCCount
	}
	for _, st := range p.SideTripPaths() {
		for _, pu := range st.PUs {
			n += pu.FCCount
		}
	}
	p.TotalFC = n
}

// Key is the canonical form of the whole path, side trips included.
func (p *PUPath) Key() string {
	var b strings.Builder
	for i, pu := range p.PUs {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(pu.Key())
		for _, m := range pu.Markets {
			for _, st := range p.SideTrips[m] {
				b.WriteString(" [")
				b.WriteString(st.Key())
				b.WriteByte(']')
			}
		}
	}
	return b.String()
}

// Less is the total order used to sort results in test mode: fewer units
// first, then by canonical key.
func (p *PUPath) Less(other *PUPath) bool {
	if len(p.PUs) != len(other.PUs) {
		return len(p.PUs) < len(other.PUs)
	}
	return p.Key() < other.Key()
}

// Markets returns the markets covered by the main units, in unit order.
func (p *PUPath) Markets() []*itin.MergedFareMarket {
	var out []*itin.MergedFareMarket
	for _, pu := range p.PUs {
		out = append(out, pu.Markets...)
	}
	return out
}

// String renders the main units joined by " + ".
func (p *PUPath) String() string {
	parts := make([]string, len(p.PUs))
	for i, pu := range p.PUs {
		parts[i] = pu.String()
	}
	return strings.Join(parts, " + ")
}

func sortPaths(paths []*PUPath) {
	slices.SortStableFunc(paths, func(a, b *PUPath) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}
