package pricing

import (
	"slices"
	"strings"

	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// PU is a pricing unit: an ordered group of fare markets with one
// directionality per market.
//
// During the search every partial path owns private copies of its units.
// Once a path is accepted, structurally equal units are replaced by one
// canonical instance shared by every path of the matrix; after that only
// the flag fields below may change.
type PU struct {
	Type       PUType
	OJType     OJType
	Markets    []*itin.MergedFareMarket
	Directions []Directionality

	GeoTravelType itin.GeoTravelType
	TurnaroundSeg *itin.TravelSeg
	FCCount       int

	// OJLeg1FCCount is the number of outbound components of an open jaw.
	OJLeg1FCCount int

	CarrierClass     CarrierClass
	SurfaceCheck     SurfaceStatus
	CxrFarePreferred bool

	SameNationOJ                 bool
	SameNationOrigSurfaceOJ      bool
	AllowNOJInZone210            bool
	SpecialEuropeanDoubleOJ      bool
	SpecialOpenJaw               bool
	InDiffCntrySameSubareaForOOJ bool
	InvalidateYYForTOJ           bool

	// InvalidCxrForOJ lists governing carriers whose preferences reject
	// this open jaw. Fare validation uses it; construction does not.
	InvalidCxrForOJ []string

	// IntlOJToOW holds the international same-nation open jaws whose legs
	// match this one way unit.
	IntlOJToOW []*PU

	PossibleSideTrip      bool
	HasSideTrip           bool
	NoPUToEOE             bool
	CompleteJourney       bool
	ItinWithinScandinavia bool
	ItinGeoTravelType     itin.GeoTravelType

	// index in the matrix arena, -1 until registered
	index int
}

func newPU(t PUType) *PU {
	return &PU{Type: t, index: -1}
}

// Index returns the arena index of a canonical unit, or -1.
func (pu *PU) Index() int {
	return pu.index
}

// Key is the canonical form used for deduplication: type, open jaw type and
// each market with its directionality.
func (pu *PU) Key() string {
	var b strings.Builder
	b.WriteString(pu.Type.String())
	if pu.OJType != NotOpenJaw {
		b.WriteByte('/')
		b.WriteString(pu.OJType.String())
	}
	for i, m := range pu.Markets {
		b.WriteByte('|')
		b.WriteString(m.ID)
		b.WriteByte(':')
		b.WriteString(pu.Directions[i].String())
	}
	return b.String()
}

// Less orders units by their canonical key.
func (pu *PU) Less(other *PU) bool {
	return pu.Key() < other.Key()
}

// Origin returns the board point of the first market.
func (pu *PU) Origin() *geo.Loc {
	return pu.Markets[0].Origin()
}

// Contains reports whether m is one of the unit's markets.
func (pu *PU) Contains(m *itin.MergedFareMarket) bool {
	return slices.Contains(pu.Markets, m)
}

func (pu *PU) add(m *itin.MergedFareMarket, dir Directionality) {
	pu.Markets = append(pu.Markets, m)
	pu.Directions = append(pu.Directions, dir)
}

func (pu *PU) setFCCount() {
	pu.FCCount = len(pu.Markets)
}

// clone copies everything the search owns. Matrix-level links
// (IntlOJToOW, arena index) are not carried over.
func (pu *PU) clone() *PU {
	c := *pu
	c.Markets = slices.Clone(pu.Markets)
	c.Directions = slices.Clone(pu.Directions)
	c.InvalidCxrForOJ = slices.Clone(pu.InvalidCxrForOJ)
	c.IntlOJToOW = nil
	c.index = -1
	return &c
}

func (pu *PU) addIntlOJ(oj *PU) {
	if !slices.Contains(pu.IntlOJToOW, oj) {
		pu.IntlOJToOW = append(pu.IntlOJToOW, oj)
	}
}

// String renders the unit as "RT LON-BA-PAR(O) PAR-BA-LON(I)".
func (pu *PU) String() string {
	var b strings.Builder
	b.WriteString(pu.Type.String())
	if pu.OJType != NotOpenJaw {
		b.WriteByte('/')
		b.WriteString(pu.OJType.String())
	}
	for i, m := range pu.Markets {
		b.WriteByte(' ')
		b.WriteString(m.String())
		b.WriteByte('(')
		b.WriteString(pu.Directions[i].String())
		b.WriteByte(')')
	}
	return b.String()
}
