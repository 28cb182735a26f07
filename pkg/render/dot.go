package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/pricing"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds flags and geo travel type to unit labels.
	Detailed bool

	// MaxPaths limits the exported pricing unit paths. Zero exports all.
	MaxPaths int
}

// ToDOT converts a built matrix to Graphviz DOT source. Path nodes point
// to their main units with solid edges and to side trip units with dashed
// edges; unit nodes point to their markets, labelled with the
// directionality.
func ToDOT(m *pricing.Matrix, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph matrix {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n\n")

	paths := m.Paths()
	if opts.MaxPaths > 0 && len(paths) > opts.MaxPaths {
		paths = paths[:opts.MaxPaths]
	}

	seen := make(map[*pricing.PU]bool)
	var units []*pricing.PU
	addUnit := func(pu *pricing.PU) {
		if !seen[pu] {
			seen[pu] = true
			units = append(units, pu)
		}
	}

	for i, p := range paths {
		fmt.Fprintf(&buf, "  %q [shape=ellipse, fillcolor=lightgrey, label=%q];\n", pathID(i), fmt.Sprintf("path %d", i+1))
		for _, pu := range p.PUs {
			addUnit(pu)
			fmt.Fprintf(&buf, "  %q -> %q;\n", pathID(i), unitID(pu))
		}
		for _, st := range p.SideTripPaths() {
			for _, pu := range st.PUs {
				addUnit(pu)
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", pathID(i), unitID(pu))
			}
		}
	}
	buf.WriteString("\n")

	markets := make(map[*itin.MergedFareMarket]bool)
	for _, pu := range units {
		fmt.Fprintf(&buf, "  %q [%s];\n", unitID(pu), strings.Join(unitAttrs(pu, opts.Detailed), ", "))
		for i, fm := range pu.Markets {
			if !markets[fm] {
				markets[fm] = true
				fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", label=%q];\n", marketID(fm), fm.String())
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", unitID(pu), marketID(fm), pu.Directions[i].String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pathID(i int) string { return fmt.Sprintf("path_%d", i) }

func unitID(pu *pricing.PU) string { return fmt.Sprintf("pu_%d", pu.Index()) }

func marketID(fm *itin.MergedFareMarket) string { return "fm_" + fm.ID }

var unitColors = map[pricing.PUType]string{
	pricing.OneWay:           "white",
	pricing.RoundTrip:        "palegreen",
	pricing.CircleTrip:       "lightblue",
	pricing.OpenJaw:          "khaki",
	pricing.RoundTheWorldSFC: "plum",
	pricing.CircleTripSFC:    "plum",
}

func unitAttrs(pu *pricing.PU, detailed bool) []string {
	label := pu.Type.String()
	if pu.OJType != pricing.NotOpenJaw {
		label += "/" + pu.OJType.String()
	}
	label = fmt.Sprintf("#%d %s", pu.Index(), label)
	if detailed {
		label += "\n" + pu.GeoTravelType.Short() + " " + pu.CarrierClass.String()
		if pu.SurfaceCheck != pricing.SurfaceNotChecked {
			label += "\nsurface " + pu.SurfaceCheck.String()
		}
		if pu.SpecialOpenJaw {
			label += "\nspecial"
		}
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c, ok := unitColors[pu.Type]; ok {
		attrs = append(attrs, "fillcolor="+c)
	}
	if pu.PossibleSideTrip {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}
