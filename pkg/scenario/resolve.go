package scenario

import (
	"slices"

	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/itin"
)

// resolver turns the decoded definitions into itinerary values, checking
// every cross reference.
type resolver struct {
	s          *Scenario
	marketByID map[string]*itin.MergedFareMarket
}

func (r *resolver) itin(def itinDef) error {
	if len(def.Segments) == 0 {
		return ferrors.New(ferrors.ErrCodeInvalidScenario, "itinerary has no segments")
	}

	it := &itin.Itin{
		TravelDate:       def.TravelDate,
		RoundTheWorld:    def.RoundTheWorld,
		RoundTheWorldSFC: def.RoundTheWorldSFC,
		Legs:             def.Legs,
	}
	for i, sd := range def.Segments {
		orig, err := r.s.Tables.Loc(sd.From)
		if err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidScenario, err, "segment %d", i+1)
		}
		dest, err := r.s.Tables.Loc(sd.To)
		if err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidScenario, err, "segment %d", i+1)
		}
		if !sd.Arunk {
			if err := ferrors.ValidateCarrierCode(sd.Carrier); err != nil {
				return ferrors.Wrap(ferrors.ErrCodeInvalidScenario, err, "segment %d", i+1)
			}
		}
		it.Segments = append(it.Segments, &itin.TravelSeg{
			Number:         i + 1,
			Origin:         orig,
			Destination:    dest,
			Carrier:        sd.Carrier,
			Arunk:          sd.Arunk,
			FareCalcAmount: sd.FareCalcAmount,
		})
	}

	if def.GeoTravelType != nil {
		it.GeoTravelType = *def.GeoTravelType
	} else {
		it.GeoTravelType = itin.Classify(it.Segments)
	}
	if it.Legs == 0 {
		it.Legs = len(it.Segments)
	}
	if def.FurthestPoint != 0 {
		if it.FurthestPoint = it.Segment(def.FurthestPoint); it.FurthestPoint == nil {
			return ferrors.New(ferrors.ErrCodeInvalidScenario, "furthest point: no segment %d", def.FurthestPoint)
		}
	}
	r.s.Itin = it
	return nil
}

func (r *resolver) markets(defs []marketDef) error {
	if len(defs) == 0 {
		return ferrors.New(ferrors.ErrCodeInvalidScenario, "scenario has no markets")
	}
	for _, md := range defs {
		if err := ferrors.ValidateMarketID(md.ID); err != nil {
			return err
		}
		if _, dup := r.marketByID[md.ID]; dup {
			return ferrors.New(ferrors.ErrCodeInvalidScenario, "duplicate market %q", md.ID)
		}
		if len(md.Segments) == 0 {
			return ferrors.New(ferrors.ErrCodeInvalidScenario, "market %q has no segments", md.ID)
		}

		fm := &itin.MergedFareMarket{
			ID:                md.ID,
			GlobalDirection:   itin.GlobalDirection(md.GlobalDirection),
			Tag2:              md.Tag2,
			GoverningCarriers: md.Carriers,
			CxrFarePreferred:  md.CxrFarePreferred,
		}
		for i, n := range md.Segments {
			seg := r.s.Itin.Segment(n)
			if seg == nil {
				return ferrors.New(ferrors.ErrCodeInvalidScenario, "market %q: no segment %d", md.ID, n)
			}
			if i > 0 && seg.Number != md.Segments[i-1]+1 {
				return ferrors.New(ferrors.ErrCodeInvalidScenario, "market %q: segments must be contiguous", md.ID)
			}
			fm.Segments = append(fm.Segments, seg)
		}
		if len(fm.GoverningCarriers) == 0 {
			fm.GoverningCarriers = []string{governingCarrier(fm.Segments)}
		}
		if md.GeoTravelType != nil {
			fm.GeoTravelType = *md.GeoTravelType
		} else {
			fm.GeoTravelType = itin.Classify(fm.Segments)
		}

		r.marketByID[md.ID] = fm
		r.s.Markets = append(r.s.Markets, fm)
	}
	return nil
}

// governingCarrier picks the carrier of the first flown segment.
func governingCarrier(segs []*itin.TravelSeg) string {
	for _, s := range segs {
		if !s.Arunk {
			return s.Carrier
		}
	}
	return ""
}

func (r *resolver) paths(defs []pathDef) error {
	if len(defs) == 0 {
		return ferrors.New(ferrors.ErrCodeInvalidScenario, "scenario has no paths")
	}
	for i, pd := range defs {
		fmp, err := r.path(pd.Markets)
		if err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidScenario, err, "path %d", i+1)
		}
		for _, sd := range pd.SideTrips {
			from, ok := r.marketByID[sd.From]
			if !ok || !slices.Contains(fmp.Markets, from) {
				return ferrors.New(ferrors.ErrCodeInvalidScenario, "path %d: side trip from %q which is not a market of the path", i+1, sd.From)
			}
			if fmp.SideTrips == nil {
				fmp.SideTrips = make(map[*itin.MergedFareMarket][]*itin.FareMarketPath)
			}
			for _, ids := range sd.Paths {
				st, err := r.path(ids)
				if err != nil {
					return ferrors.Wrap(ferrors.ErrCodeInvalidScenario, err, "path %d side trip", i+1)
				}
				fmp.SideTrips[from] = append(fmp.SideTrips[from], st)
			}
		}
		r.s.Paths = append(r.s.Paths, fmp)
	}
	return nil
}

func (r *resolver) path(ids []string) (*itin.FareMarketPath, error) {
	if len(ids) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidScenario, "empty market list")
	}
	fmp := &itin.FareMarketPath{}
	for _, id := range ids {
		fm, ok := r.marketByID[id]
		if !ok {
			return nil, ferrors.New(ferrors.ErrCodeInvalidScenario, "unknown market %q", id)
		}
		if slices.Contains(fmp.Markets, fm) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidScenario, "market %q used twice", id)
		}
		fmp.Markets = append(fmp.Markets, fm)
	}
	return fmp, nil
}
