package render

import (
	"encoding/json"

	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/pricing"
)

// Document is the JSON form of a built matrix. Paths refer to units by
// their index in Units.
type Document struct {
	GeoTravelType     itin.GeoTravelType `json:"geo_travel_type"`
	Boundary          pricing.Boundary   `json:"boundary"`
	WithinScandinavia bool               `json:"within_scandinavia,omitempty"`
	Stats             pricing.Stats      `json:"stats"`
	Units             []Unit             `json:"units"`
	Paths             []Path             `json:"paths"`
}

// Unit is one canonical pricing unit.
type Unit struct {
	Index         int                      `json:"index"`
	Type          pricing.PUType           `json:"type"`
	OJType        string                   `json:"oj_type,omitempty"`
	Markets       []string                 `json:"markets"`
	Directions    []pricing.Directionality `json:"directions"`
	GeoTravelType itin.GeoTravelType       `json:"geo_travel_type"`
	CarrierClass  pricing.CarrierClass     `json:"carrier_class"`
	SurfaceCheck  pricing.SurfaceStatus    `json:"surface_check"`
	FCCount       int                      `json:"fc_count"`
	Flags         []string                 `json:"flags,omitempty"`
	BrokenOJs     []int                    `json:"broken_ojs,omitempty"`
}

// Path is one pricing unit path.
type Path struct {
	FareMarketPath string     `json:"fare_market_path"`
	Units          []int      `json:"units"`
	SideTrips      []SideTrip `json:"side_trips,omitempty"`
	TotalPU        int        `json:"total_pu"`
	TotalFC        int        `json:"total_fc"`
	ABAWithOW      bool       `json:"aba_trip_with_ow,omitempty"`
	IntlCTWithOW   bool       `json:"intl_ct_journey_with_ow,omitempty"`
}

// SideTrip is one side trip path attached to a main market.
type SideTrip struct {
	From  string `json:"from"`
	Units []int  `json:"units"`
}

// NewDocument converts m.
func NewDocument(m *pricing.Matrix) Document {
	doc := Document{
		GeoTravelType:     m.Itin().GeoTravelType,
		Boundary:          m.Boundary(),
		WithinScandinavia: m.WithinScandinavia(),
		Stats:             m.Stats(),
		Units:             make([]Unit, 0, len(m.PUs())),
		Paths:             make([]Path, 0, len(m.Paths())),
	}
	for _, pu := range m.PUs() {
		doc.Units = append(doc.Units, newUnit(pu))
	}
	for _, p := range m.Paths() {
		out := Path{
			FareMarketPath: p.Path.String(),
			Units:          indices(p.PUs),
			TotalPU:        p.TotalPU,
			TotalFC:        p.TotalFC,
			ABAWithOW:      p.ABATripWithOWPU,
			IntlCTWithOW:   p.IntlCTJourneyWithOWPU,
		}
		for _, fm := range p.Path.SideTripMarkets() {
			for _, st := range p.SideTrips[fm] {
				out.SideTrips = append(out.SideTrips, SideTrip{From: fm.String(), Units: indices(st.PUs)})
			}
		}
		doc.Paths = append(doc.Paths, out)
	}
	return doc
}

// JSON encodes m as an indented [Document].
func JSON(m *pricing.Matrix) ([]byte, error) {
	return json.MarshalIndent(NewDocument(m), "", "  ")
}

func newUnit(pu *pricing.PU) Unit {
	u := Unit{
		Index:         pu.Index(),
		Type:          pu.Type,
		OJType:        pu.OJType.String(),
		Directions:    pu.Directions,
		GeoTravelType: pu.GeoTravelType,
		CarrierClass:  pu.CarrierClass,
		SurfaceCheck:  pu.SurfaceCheck,
		FCCount:       pu.FCCount,
		BrokenOJs:     indices(pu.IntlOJToOW),
	}
	for _, fm := range pu.Markets {
		u.Markets = append(u.Markets, fm.String())
	}
	flag := func(on bool, name string) {
		if on {
			u.Flags = append(u.Flags, name)
		}
	}
	flag(pu.SameNationOJ, "same_nation_oj")
	flag(pu.SameNationOrigSurfaceOJ, "same_nation_orig_surface_oj")
	flag(pu.AllowNOJInZone210, "noj_zone210")
	flag(pu.SpecialEuropeanDoubleOJ, "special_european_doj")
	flag(pu.SpecialOpenJaw, "special_oj")
	flag(pu.InDiffCntrySameSubareaForOOJ, "diff_country_same_subarea_ooj")
	flag(pu.InvalidateYYForTOJ, "invalidate_yy_toj")
	flag(pu.PossibleSideTrip, "possible_side_trip")
	flag(pu.HasSideTrip, "has_side_trip")
	flag(pu.NoPUToEOE, "no_pu_to_eoe")
	flag(pu.CompleteJourney, "complete_journey")
	return u
}

func indices(pus []*pricing.PU) []int {
	if len(pus) == 0 {
		return nil
	}
	out := make([]int, len(pus))
	for i, pu := range pus {
		out[i] = pu.Index()
	}
	return out
}
