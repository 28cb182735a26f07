package itin

import (
	"fmt"
	"strings"
)

// GeoTravelType classifies where travel takes place. The order matters:
// International dominates every other value.
type GeoTravelType int

const (
	GeoUnknown GeoTravelType = iota
	Domestic
	Transborder
	ForeignDomestic
	International
)

var geoNames = map[GeoTravelType]string{
	GeoUnknown:      "unknown",
	Domestic:        "domestic",
	Transborder:     "transborder",
	ForeignDomestic: "foreign_domestic",
	International:   "international",
}

func (g GeoTravelType) String() string {
	if s, ok := geoNames[g]; ok {
		return s
	}
	return fmt.Sprintf("GeoTravelType(%d)", int(g))
}

// Short returns the two-letter diagnostic form.
func (g GeoTravelType) Short() string {
	switch g {
	case Domestic:
		return "DOM"
	case Transborder:
		return "TRB"
	case ForeignDomestic:
		return "FDOM"
	case International:
		return "INTL"
	}
	return "UNK"
}

// MarshalText implements encoding.TextMarshaler.
func (g GeoTravelType) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GeoTravelType) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for k, v := range geoNames {
		if v == s {
			*g = k
			return nil
		}
	}
	return fmt.Errorf("unknown geo travel type %q", s)
}

// Tag2 says whether tag-2 fares (round trip fares for US/CA combinability)
// exist in a market. Outside US/CA the question does not arise.
type Tag2 int

const (
	Tag2NonIssue Tag2 = iota
	Tag2Present
	Tag2Absent
)

func (t Tag2) String() string {
	switch t {
	case Tag2Present:
		return "present"
	case Tag2Absent:
		return "absent"
	}
	return "non_issue"
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag2) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag2) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "present":
		*t = Tag2Present
	case "absent":
		*t = Tag2Absent
	case "non_issue", "":
		*t = Tag2NonIssue
	default:
		return fmt.Errorf("unknown tag2 indicator %q", string(b))
	}
	return nil
}

// GlobalDirection is an IATA global indicator such as AT, PA, WH or EH.
type GlobalDirection string
