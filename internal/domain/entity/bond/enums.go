package bond

import "fmt"

// DayCount is a day-count convention used to turn a date span into a year fraction.
type DayCount string

const (
	DayCountAct360     DayCount = "ACT_360"
	DayCountAct365F    DayCount = "ACT_365F"
	DayCountActActICMA DayCount = "ACT_ACT_ICMA"
	DayCount30E360     DayCount = "30E_360"
	DayCount30360US    DayCount = "30_360"
)

func (dc DayCount) String() string {
	return string(dc)
}

func (dc DayCount) IsValid() bool {
	switch dc {
	case DayCountAct360, DayCountAct365F, DayCountActActICMA, DayCount30E360, DayCount30360US:
		return true
	default:
		return false
	}
}

// NewDayCount parses a wire-format day-count string. ACT_ACT_ISDA is accepted as an
// alias for the ICMA approximation. Unknown conventions are an error, never a default.
func NewDayCount(s string) (DayCount, error) {
	if s == "ACT_ACT_ISDA" {
		return DayCountActActICMA, nil
	}
	dc := DayCount(s)
	if !dc.IsValid() {
		return "", fmt.Errorf("unknown day count convention: %s", s)
	}
	return dc, nil
}

// Frequency is the number of coupon payments per year.
type Frequency int

const (
	FrequencyAnnual     Frequency = 1
	FrequencySemiAnnual Frequency = 2
	FrequencyQuarterly  Frequency = 4
	FrequencyMonthly    Frequency = 12
)

func (f Frequency) PerYear() int {
	return int(f)
}

// Months returns the length of one coupon period in months.
func (f Frequency) Months() int {
	return 12 / int(f)
}

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyAnnual, FrequencySemiAnnual, FrequencyQuarterly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

func NewFrequency(perYear int) (Frequency, error) {
	f := Frequency(perYear)
	if !f.IsValid() {
		return 0, fmt.Errorf("invalid frequency: %d (supported: 1, 2, 4, 12)", perYear)
	}
	return f, nil
}

// Type selects the pricing model for a bond.
type Type string

const (
	TypeRegular            Type = "REGULAR"
	TypeDiscounted         Type = "DISCOUNTED"
	TypeInterestAtMaturity Type = "INTEREST_AT_MATURITY"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeRegular, TypeDiscounted, TypeInterestAtMaturity:
		return true
	default:
		return false
	}
}

// NewType parses a wire-format bond type. An empty or unrecognized string falls back
// to REGULAR; "IAM" is accepted as shorthand for INTEREST_AT_MATURITY.
func NewType(s string) Type {
	switch s {
	case "DISCOUNTED":
		return TypeDiscounted
	case "IAM", "INTEREST_AT_MATURITY":
		return TypeInterestAtMaturity
	default:
		return TypeRegular
	}
}

// StubPosition is reserved for explicit stub handling; only StubNone is produced today.
type StubPosition string

const (
	StubNone       StubPosition = "NONE"
	StubShortFirst StubPosition = "SHORT_FIRST"
	StubLongFirst  StubPosition = "LONG_FIRST"
	StubShortLast  StubPosition = "SHORT_LAST"
	StubLongLast   StubPosition = "LONG_LAST"
)
