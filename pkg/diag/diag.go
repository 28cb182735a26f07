// Package diag prints a built pricing unit path matrix as text.
//
// The dump lists every pricing unit path with its units, the markets and
// directionality of each unit, the construction flags and the side trips,
// followed by a summary of the build:
//
//	m, _ := pricing.New(it, tables, cfg)
//	m.BuildAll(ctx, paths, nil)
//	diag.Write(os.Stdout, m, diag.Options{Flags: true})
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/pricing"
)

// Options controls the dump.
type Options struct {
	// Flags prints the construction flags of every unit.
	Flags bool

	// Limit stops after this many pricing unit paths. Zero prints all.
	Limit int
}

// Write prints m to w.
func Write(w io.Writer, m *pricing.Matrix, opts Options) error {
	d := &dumper{w: w, opts: opts}
	d.header(m)

	paths := m.Paths()
	for i, p := range paths {
		if opts.Limit > 0 && i >= opts.Limit {
			d.printf("... %d more pu paths\n", len(paths)-i)
			break
		}
		d.printf("\n%d: %s\n", i+1, p.Path)
		d.path(p, "   ")
	}

	d.summary(m)
	return d.err
}

// dumper remembers the first write error.
type dumper struct {
	w    io.Writer
	opts Options
	err  error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) header(m *pricing.Matrix) {
	it := m.Itin()
	d.printf("PU PATH MATRIX\n")
	d.printf("ITIN %s %s", it.GeoTravelType.Short(), m.Boundary())
	if m.WithinScandinavia() {
		d.printf(" SCANDINAVIA")
	}
	if it.RoundTheWorld {
		d.printf(" RTW")
	}
	d.printf("\n")
	for _, s := range it.Segments {
		d.printf("  %s\n", s)
	}
	d.printf("%s\n", strings.Repeat("-", 60))
}

func (d *dumper) path(p *pricing.PUPath, indent string) {
	for i, pu := range p.PUs {
		d.unit(pu, indent)
		for j, fm := range pu.Markets {
			d.sideTrips(p, fm, i, j, indent+"   ")
		}
	}
	var notes []string
	if p.ABATripWithOWPU {
		notes = append(notes, "ABA_OW")
	}
	if p.IntlCTJourneyWithOWPU {
		notes = append(notes, "INTL_CT_OW")
	}
	if p.CxrFarePreferred {
		notes = append(notes, "CXR_FARE_PREF")
	}
	d.printf("%sTOTAL PU %d FC %d", indent, p.TotalPU, p.TotalFC)
	if len(notes) > 0 {
		d.printf(" %s", strings.Join(notes, " "))
	}
	d.printf("\n")
}

func (d *dumper) sideTrips(p *pricing.PUPath, fm *itin.MergedFareMarket, puIdx, fuIdx int, indent string) {
	sts := p.SideTrips[fm]
	if len(sts) == 0 {
		return
	}
	links := p.Links[puIdx][fuIdx]
	for k, st := range sts {
		d.printf("%sSIDE TRIP FROM %s", indent, fm)
		if k < len(links) {
			d.printf(" AT %v", links[k])
		}
		d.printf("\n")
		for _, pu := range st.PUs {
			d.unit(pu, indent+"  ")
		}
	}
}

func (d *dumper) unit(pu *pricing.PU, indent string) {
	var b strings.Builder
	b.WriteString(pu.Type.String())
	if pu.OJType != pricing.NotOpenJaw {
		b.WriteByte('/')
		b.WriteString(pu.OJType.String())
	}
	d.printf("%s#%-3d %-10s", indent, pu.Index(), b.String())
	for i, fm := range pu.Markets {
		d.printf(" %s(%s)", fm, pu.Directions[i])
	}
	d.printf("  %s %s", pu.GeoTravelType.Short(), pu.CarrierClass)
	if pu.SurfaceCheck != pricing.SurfaceNotChecked {
		d.printf(" SURFACE=%s", pu.SurfaceCheck)
	}
	d.printf("\n")

	if !d.opts.Flags {
		return
	}
	if flags := unitFlags(pu); len(flags) > 0 {
		d.printf("%s     %s\n", indent, strings.Join(flags, " "))
	}
}

func unitFlags(pu *pricing.PU) []string {
	var out []string
	add := func(on bool, name string) {
		if on {
			out = append(out, name)
		}
	}
	add(pu.SameNationOJ, "SAME_NATION_OJ")
	add(pu.SameNationOrigSurfaceOJ, "SAME_NATION_ORIG_SURFACE_OJ")
	add(pu.AllowNOJInZone210, "NOJ_ZONE210")
	add(pu.SpecialEuropeanDoubleOJ, "SPECIAL_EUR_DOJ")
	add(pu.SpecialOpenJaw, "SPECIAL_OJ")
	add(pu.InDiffCntrySameSubareaForOOJ, "DIFF_CNTRY_SAME_SUBAREA_OOJ")
	add(pu.InvalidateYYForTOJ, "INVALIDATE_YY_TOJ")
	add(pu.CxrFarePreferred, "CXR_FARE_PREF")
	add(pu.PossibleSideTrip, "POSSIBLE_SIDE_TRIP")
	add(pu.HasSideTrip, "HAS_SIDE_TRIP")
	add(pu.NoPUToEOE, "NO_PU_TO_EOE")
	add(pu.CompleteJourney, "COMPLETE_JOURNEY")
	if len(pu.InvalidCxrForOJ) > 0 {
		out = append(out, "INVALID_CXR="+strings.Join(pu.InvalidCxrForOJ, "/"))
	}
	if len(pu.IntlOJToOW) > 0 {
		idx := make([]string, len(pu.IntlOJToOW))
		for i, oj := range pu.IntlOJToOW {
			idx[i] = fmt.Sprintf("#%d", oj.Index())
		}
		out = append(out, "BROKEN_OJ="+strings.Join(idx, ","))
	}
	return out
}

func (d *dumper) summary(m *pricing.Matrix) {
	s := m.Stats()
	d.printf("%s\n", strings.Repeat("-", 60))
	d.printf("FARE MARKET PATHS %d", s.InputPaths)
	if s.Truncated {
		d.printf(" (LIMITED TO %d)", s.BuiltPaths)
	}
	d.printf("\nPU PATHS %d\nUNIQUE PUS %d\n", s.PUPaths, s.UniquePUs)
	if m.HasSideTrip() {
		d.printf("SIDE TRIPS PRESENT\n")
	}
}
