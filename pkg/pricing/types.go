package pricing

import "fmt"

// PUType is the kind of a pricing unit.
type PUType int

const (
	OneWay PUType = iota
	RoundTrip
	CircleTrip
	OpenJaw
	RoundTheWorldSFC
	CircleTripSFC
)

func (t PUType) String() string {
	switch t {
	case OneWay:
		return "OW"
	case RoundTrip:
		return "RT"
	case CircleTrip:
		return "CT"
	case OpenJaw:
		return "OJ"
	case RoundTheWorldSFC:
		return "RW"
	case CircleTripSFC:
		return "CT_SFC"
	}
	return fmt.Sprintf("PUType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t PUType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// OJType is the open jaw subtype.
type OJType int

const (
	NotOpenJaw OJType = iota
	// OrigOpenJaw has its surface sector at the origin.
	OrigOpenJaw
	// DestOpenJaw has its surface sector at the turnaround.
	DestOpenJaw
	// DoubleOpenJaw has surface sectors at both ends.
	DoubleOpenJaw
)

func (t OJType) String() string {
	switch t {
	case OrigOpenJaw:
		return "OOJ"
	case DestOpenJaw:
		return "TOJ"
	case DoubleOpenJaw:
		return "DOJ"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (t OJType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Directionality of a fare component within its pricing unit.
type Directionality int

const (
	// From is outbound.
	From Directionality = iota
	// To is inbound.
	To
)

func (d Directionality) String() string {
	if d == To {
		return "I"
	}
	return "O"
}

// MarshalText implements encoding.TextMarshaler.
func (d Directionality) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// CarrierClass classifies the governing carriers of a pricing unit.
type CarrierClass int

const (
	CarrierUnknown CarrierClass = iota
	SameCarrier
	MultiCarrier
	AllAACarrier
)

func (c CarrierClass) String() string {
	switch c {
	case SameCarrier:
		return "SAME"
	case MultiCarrier:
		return "MULTI"
	case AllAACarrier:
		return "ALL_AA"
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (c CarrierClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// SurfaceStatus is the outcome of the open jaw surface mileage check.
type SurfaceStatus int

const (
	SurfaceNotChecked SurfaceStatus = iota
	// SurfaceShortest: every surface is within the shorter leg.
	SurfaceShortest
	// SurfaceNotShortest: every surface is within the longer leg.
	SurfaceNotShortest
	// Surface125Larger: within 125% of the longer leg.
	Surface125Larger
	// SurfaceVeryLarge: beyond 125% of the longer leg.
	SurfaceVeryLarge
)

func (s SurfaceStatus) String() string {
	switch s {
	case SurfaceShortest:
		return "SHORTEST"
	case SurfaceNotShortest:
		return "NOT_SHORTEST"
	case Surface125Larger:
		return "125LARGER"
	case SurfaceVeryLarge:
		return "VERYLARGE"
	}
	return "NOT_CHECKED"
}

// MarshalText implements encoding.TextMarshaler.
func (s SurfaceStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Boundary is how many IATA areas an itinerary touches.
type Boundary int

const (
	// OneSubIATA: every segment stays in the subarea of the journey origin.
	OneSubIATA Boundary = iota
	OneIATA
	TwoIATA
	AllIATA
)

func (b Boundary) String() string {
	switch b {
	case OneSubIATA:
		return "ONE_SUB_IATA"
	case OneIATA:
		return "ONE_IATA"
	case TwoIATA:
		return "TWO_IATA"
	case AllIATA:
		return "ALL_IATA"
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b Boundary) MarshalText() ([]byte, error) { return []byte(b.String()), nil }
