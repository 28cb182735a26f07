package pricing

import (
	"context"

	"github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
)

// budget bounds the pricing unit paths accepted for one fare market path.
// Every branch of a search shares it; once done, branches return at their
// next entry.
type budget struct {
	max   int
	count int
	done  bool
}

func (b *budget) add() {
	b.count++
	if b.count >= b.max {
		b.done = true
	}
}

// search is the depth-first construction over one market sequence. Side
// trip searches use their own market sequence but keep the owning main
// path in fmp.
type search struct {
	m       *Matrix
	ctx     context.Context
	fmp     *itin.FareMarketPath
	markets []*itin.MergedFareMarket
	budget  *budget
	results []*PUPath
	err     error
}

func (m *Matrix) newSearch(ctx context.Context, fmp *itin.FareMarketPath, markets []*itin.MergedFareMarket) *search {
	return &search{
		m:       m,
		ctx:     ctx,
		fmp:     fmp,
		markets: markets,
		budget:  &budget{max: m.maxPerPath},
	}
}

func (s *search) run() ([]*PUPath, error) {
	if s.total() == 0 {
		return nil, nil
	}
	s.buildPUPath(0, &PUPath{})
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// fail records the first error and stops every branch.
func (s *search) fail(err error) {
	if s.err == nil {
		s.err = err
	}
	s.budget.done = true
}

func (s *search) stopped() bool {
	return s.budget.done || s.err != nil
}

func (s *search) aborted() bool {
	if err := s.ctx.Err(); err != nil {
		s.fail(errors.Wrap(errors.ErrCodeAborted, err, "build pu paths"))
		return true
	}
	return false
}

func (s *search) total() int {
	return len(s.markets)
}

// firstUnassigned returns the first index at or after idx whose market is
// not yet covered by path.
func (s *search) firstUnassigned(idx int, path *PUPath) int {
	for idx < s.total() && path.IsMarketAssigned(s.markets[idx]) {
		idx++
	}
	return idx
}

// buildPUPath extends path from market idx on. Markets before idx are
// assigned.
func (s *search) buildPUPath(idx int, path *PUPath) {
	if s.m.itin.RoundTheWorld {
		path.push(s.m.buildRW(s.markets[0]))
		path.Path = s.fmp
		s.results = append(s.results, path)
		return
	}

	if idx >= s.total() {
		if !s.budget.done && s.m.isPUPathValid(s.fmp, path, s.total()) {
			path.Path = s.fmp
			s.m.setOWPUDirectionality(path)
			s.m.setIsIntlCTJourneyWithOWPU(s.fmp, path)
			s.results = append(s.results, path)
			s.budget.add()
		}
		return
	}
	if s.stopped() || s.aborted() {
		return
	}

	if !s.m.cfg.OnlyOWFares {
		s.buildRT(idx, path)
		s.buildCT(idx, path)

		maxOJ := MaxOJComponents
		if s.m.pathCount > PathCountThreshold {
			maxOJ = ReducedOJComponents
		}
		for comp := 2; comp <= s.total()-idx && comp <= maxOJ; comp++ {
			for ob := 1; ob < comp; ob++ {
				ib := comp - ob
				for ibIdx := idx + ob; ibIdx+ib <= s.total(); ibIdx++ {
					s.buildOJ(ob, ib, idx, ibIdx, path)
				}
			}
		}
	}

	// one way extends path itself
	s.buildOW(idx, path)
}

// =============================================================================
// Round trip
// =============================================================================

func (s *search) buildRT(idx int, path *PUPath) {
	if s.stopped() {
		return
	}
	idx = s.firstUnassigned(idx, path)
	if idx >= s.total() {
		return
	}
	fm1 := s.markets[idx]
	if fm1.StartsWithArunk() {
		return
	}
	for j := idx + 1; j < s.total(); j++ {
		fm2 := s.markets[j]
		if path.IsMarketAssigned(fm2) {
			continue
		}
		pu := buildRTPU(fm1, fm2)
		if pu == nil {
			continue
		}
		rt := path.clone()
		rt.push(pu)
		s.buildPUPath(idx+1, rt)
	}
}

func buildRTPU(fm1, fm2 *itin.MergedFareMarket) *PU {
	if !isRoundTrip(fm1, fm2) {
		return nil
	}
	// without a tag-2 fare in either market no round trip combination exists
	if fm1.Tag2 == itin.Tag2Absent && fm2.Tag2 == itin.Tag2Absent {
		return nil
	}
	pu := newPU(RoundTrip)
	pu.FCCount = 2
	pu.add(fm1, From)
	pu.add(fm2, To)
	pu.TurnaroundSeg = fm2.First()
	pu.GeoTravelType = fm1.GeoTravelType
	pu.CxrFarePreferred = fm1.CxrFarePreferred || fm2.CxrFarePreferred
	return pu
}

func isRoundTrip(fm1, fm2 *itin.MergedFareMarket) bool {
	return geo.SamePoint(fm1.Origin(), fm2.Destination()) &&
		geo.SamePoint(fm1.Destination(), fm2.Origin()) &&
		fm1.GlobalDirection == fm2.GlobalDirection
}

// =============================================================================
// One way and round the world
// =============================================================================

func (s *search) buildOW(idx int, path *PUPath) {
	if s.stopped() {
		return
	}
	idx = s.firstUnassigned(idx, path)
	if idx >= s.total() {
		return
	}
	pu := buildOWPU(s.markets[idx])
	if pu == nil {
		return
	}
	path.push(pu)
	s.buildPUPath(idx+1, path)
}

func buildOWPU(fm *itin.MergedFareMarket) *PU {
	if fm.StartsWithArunk() {
		// only a carried fare calc amount on a single fare market may start
		// with a surface sector
		if fm.Last().FareCalcAmount == "" || fm.FareMarketCount() != 1 {
			return nil
		}
	}
	pu := newPU(OneWay)
	pu.FCCount = 1
	pu.add(fm, From)
	pu.GeoTravelType = fm.GeoTravelType
	pu.CxrFarePreferred = fm.CxrFarePreferred
	return pu
}

func (m *Matrix) buildRW(fm *itin.MergedFareMarket) *PU {
	t := CircleTripSFC
	if m.itin.RoundTheWorldSFC {
		t = RoundTheWorldSFC
	}
	pu := newPU(t)
	pu.GeoTravelType = fm.GeoTravelType
	pu.add(fm, From)
	pu.CxrFarePreferred = fm.CxrFarePreferred
	pu.TurnaroundSeg = m.itin.FurthestPoint
	pu.FCCount = 1
	return pu
}
