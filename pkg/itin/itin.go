package itin

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/farepath/pkg/geo"
)

// TravelSeg is one flown or surface (ARUNK) segment of an itinerary.
// Number is the 1-based position in the itinerary.
type TravelSeg struct {
	Number      int
	Origin      *geo.Loc
	Destination *geo.Loc
	Carrier     string
	Arunk       bool

	// FareCalcAmount is a fare amount carried from a prior fare
	// calculation, empty when the segment has none.
	FareCalcAmount string
}

func (s *TravelSeg) String() string {
	cxr := s.Carrier
	if s.Arunk {
		cxr = "//"
	}
	return fmt.Sprintf("%d:%s-%s-%s", s.Number, s.Origin, cxr, s.Destination)
}

// MergedFareMarket groups contiguous segments priced as one origin and
// destination pair. GoverningCarriers has one entry per underlying fare
// market.
type MergedFareMarket struct {
	ID                string
	Segments          []*TravelSeg
	GlobalDirection   GlobalDirection
	GeoTravelType     GeoTravelType
	Tag2              Tag2
	GoverningCarriers []string
	CxrFarePreferred  bool
}

// Origin returns the board point of the first segment.
func (m *MergedFareMarket) Origin() *geo.Loc {
	return m.Segments[0].Origin
}

// Destination returns the off point of the last segment.
func (m *MergedFareMarket) Destination() *geo.Loc {
	return m.Segments[len(m.Segments)-1].Destination
}

// First returns the first segment.
func (m *MergedFareMarket) First() *TravelSeg {
	return m.Segments[0]
}

// Last returns the last segment.
func (m *MergedFareMarket) Last() *TravelSeg {
	return m.Segments[len(m.Segments)-1]
}

// StartsWithArunk reports whether the market begins with a surface sector.
func (m *MergedFareMarket) StartsWithArunk() bool {
	return len(m.Segments) > 0 && m.Segments[0].Arunk
}

// FareMarketCount is the number of fare markets merged into m.
func (m *MergedFareMarket) FareMarketCount() int {
	return len(m.GoverningCarriers)
}

// String renders the market as LON-BA-PAR.
func (m *MergedFareMarket) String() string {
	cxr := strings.Join(m.GoverningCarriers, "/")
	if cxr == "" {
		cxr = "**"
	}
	return fmt.Sprintf("%s-%s-%s", m.Origin().CityCode(), cxr, m.Destination().CityCode())
}

// FareMarketPath is one traversal of the itinerary. SideTrips maps a main
// market to the alternative paths of the side trips leaving from it.
type FareMarketPath struct {
	Markets   []*MergedFareMarket
	SideTrips map[*MergedFareMarket][]*FareMarketPath
}

// FareBreakCount counts main markets plus the markets of every side trip
// path.
func (p *FareMarketPath) FareBreakCount() int {
	n := len(p.Markets)
	for _, paths := range p.SideTrips {
		for _, st := range paths {
			n += len(st.Markets)
		}
	}
	return n
}

// SideTripMarkets returns the main markets that have side trips, in
// itinerary order.
func (p *FareMarketPath) SideTripMarkets() []*MergedFareMarket {
	if len(p.SideTrips) == 0 {
		return nil
	}
	var out []*MergedFareMarket
	for _, m := range p.Markets {
		if len(p.SideTrips[m]) > 0 {
			out = append(out, m)
		}
	}
	return out
}

// String renders the path as market strings joined by spaces, with side
// trips in brackets after the market they leave from.
func (p *FareMarketPath) String() string {
	var b strings.Builder
	for i, m := range p.Markets {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.String())
		for _, st := range p.SideTrips[m] {
			b.WriteString(" [")
			b.WriteString(st.String())
			b.WriteByte(']')
		}
	}
	return b.String()
}

// PaxType is a requested passenger type.
type PaxType struct {
	Code   string `toml:"code" json:"code"`
	Number int    `toml:"number" json:"number"`
}

// Itin is the whole journey.
type Itin struct {
	Segments      []*TravelSeg
	GeoTravelType GeoTravelType
	TravelDate    time.Time

	// RoundTheWorld short-circuits construction to a single PU covering
	// the whole path; RoundTheWorldSFC selects the RW type over CT.
	RoundTheWorld    bool
	RoundTheWorldSFC bool
	FurthestPoint    *TravelSeg

	// Legs is the number of itinerary legs, used by reduced constructions.
	Legs int
}

// Segment returns the segment with the given number, or nil.
func (it *Itin) Segment(number int) *TravelSeg {
	for _, s := range it.Segments {
		if s.Number == number {
			return s
		}
	}
	return nil
}

// Origin returns the board point of the journey.
func (it *Itin) Origin() *geo.Loc {
	if len(it.Segments) == 0 {
		return nil
	}
	return it.Segments[0].Origin
}
