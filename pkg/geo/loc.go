package geo

import "slices"

// IATA traffic conference areas.
const (
	Area1 = "1"
	Area2 = "2"
	Area3 = "3"
)

// SubArea21 is Europe; travel wholly inside it may qualify as Scandinavian.
const SubArea21 = "21"

// ZoneEurope is the ATPCO zone used by European open-jaw rules.
const ZoneEurope = "210"

// Loc is a point as seen by fare construction: an airport or city with its
// IATA classification.
type Loc struct {
	Code    string   `toml:"code" json:"code"`
	City    string   `toml:"city" json:"city,omitempty"`
	Nation  string   `toml:"nation" json:"nation"`
	State   string   `toml:"state" json:"state,omitempty"`
	Area    string   `toml:"area" json:"area"`
	SubArea string   `toml:"subarea" json:"subarea"`
	Zones   []string `toml:"zones" json:"zones,omitempty"`
	Lat     float64  `toml:"lat" json:"lat"`
	Lon     float64  `toml:"lon" json:"lon"`
}

// CityCode returns the multi-city code of the point, or its own code when
// the point is not part of a multi-airport city.
func (l *Loc) CityCode() string {
	if l.City != "" {
		return l.City
	}
	return l.Code
}

// InZone reports whether the point belongs to the given zone.
func (l *Loc) InZone(zone string) bool {
	return slices.Contains(l.Zones, zone)
}

func (l *Loc) String() string {
	return l.Code
}

// SamePoint reports whether a and b are the same fare construction point,
// i.e. they share a multi-city code.
func SamePoint(a, b *Loc) bool {
	if a == nil || b == nil {
		return false
	}
	return a.CityCode() == b.CityCode()
}

// SameNation reports whether a and b lie in the same nation.
func SameNation(a, b *Loc) bool {
	return a.Nation == b.Nation
}

// SameArea reports whether a and b lie in the same IATA area.
func SameArea(a, b *Loc) bool {
	return a.Area == b.Area
}

// SameSubArea reports whether a and b lie in the same IATA subarea.
func SameSubArea(a, b *Loc) bool {
	return a.SubArea == b.SubArea
}

var scandinavianNations = []string{"DK", "NO", "SE"}

// IsScandinavia reports whether the point is in Denmark, Norway or Sweden.
func IsScandinavia(l *Loc) bool {
	return slices.Contains(scandinavianNations, l.Nation)
}

// IsRussianGroup reports whether the point is in Russia. Russia spans two
// IATA areas and is coded RU (area 2) and XU (area 3).
func IsRussianGroup(l *Loc) bool {
	return l.Nation == "RU" || l.Nation == "XU"
}

var antillesNations = []string{"AN", "AW", "BQ", "CW", "SX"}

// IsNetherlandsAntilles reports whether the point is one of the former
// Netherlands Antilles or Aruba.
func IsNetherlandsAntilles(l *Loc) bool {
	return slices.Contains(antillesNations, l.Nation)
}

// IsArubaOrAntilles reports whether the point is coded AW or AN. The two
// codes are one nation for country rules.
func IsArubaOrAntilles(l *Loc) bool {
	return l.Nation == "AW" || l.Nation == "AN"
}

var frenchNations = []string{"FR", "GP", "MQ", "GF", "PM", "YT", "RE", "KM", "NC", "PF", "WF"}

// IsFrenchNationGroup reports whether the point is in France or one of its
// overseas departments and territories.
func IsFrenchNationGroup(l *Loc) bool {
	return slices.Contains(frenchNations, l.Nation)
}

// IsUSCA reports whether the point is in the United States or Canada.
func IsUSCA(l *Loc) bool {
	return l.Nation == "US" || l.Nation == "CA"
}

// IsEurope reports whether the point is in the European zone.
func IsEurope(l *Loc) bool {
	return l.InZone(ZoneEurope)
}

// SameNationGroup reports whether a and b share a nation, or lie in a
// group of nations that always counts as one country: the French group,
// the two Russian codes, or Aruba and the Antilles.
func SameNationGroup(a, b *Loc) bool {
	switch {
	case a.Nation == b.Nation:
		return true
	case IsFrenchNationGroup(a) && IsFrenchNationGroup(b):
		return true
	case IsRussianGroup(a) && IsRussianGroup(b):
		return true
	}
	return IsArubaOrAntilles(a) && IsArubaOrAntilles(b)
}
