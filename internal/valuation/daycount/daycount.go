// Package daycount implements the year-fraction functions behind the
// engine's YearFractionProvider capability.
package daycount

import (
	"fmt"
	"time"

	"main/internal/domain/entity/bond"
)

// YearFraction computes the year fraction from start to end under the given
// convention. Callers must pass start <= end; inverted ranges are undefined.
// An unknown convention is a construction-time error, never a silent default.
func YearFraction(start, end time.Time, convention bond.DayCount) (float64, error) {
	switch convention {
	case bond.DayCountAct360:
		return act360(start, end), nil
	case bond.DayCountAct365F:
		return act365F(start, end), nil
	case bond.DayCountActActICMA:
		return actActICMA(start, end), nil
	case bond.DayCount30E360:
		return euro30360(start, end), nil
	case bond.DayCount30360US:
		return us30360(start, end), nil
	default:
		return 0, fmt.Errorf("unsupported day count convention: %s", convention)
	}
}

// days returns calendar days between two UTC-midnight dates.
func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

func act360(start, end time.Time) float64 {
	return days(start, end) / 360.0
}

func act365F(start, end time.Time) float64 {
	return days(start, end) / 365.0
}

// actActICMA is a fixed-divisor approximation. Exact ICMA needs the reference
// coupon period, which the engine does not carry.
func actActICMA(start, end time.Time) float64 {
	return days(start, end) / 365.25
}

// euro30360 is 30E/360: day-of-month capped at 30 on both ends.
func euro30360(start, end time.Time) float64 {
	d1 := start.Day()
	if d1 > 30 {
		d1 = 30
	}
	d2 := end.Day()
	if d2 > 30 {
		d2 = 30
	}
	return thirty360(start, end, d1, d2)
}

// us30360 is 30/360 US (bond basis): start day 31 becomes 30; end day 31
// becomes 30 only when the adjusted start day is at least 30.
func us30360(start, end time.Time) float64 {
	d1 := start.Day()
	if d1 == 31 {
		d1 = 30
	}
	d2 := end.Day()
	if d2 == 31 && d1 >= 30 {
		d2 = 30
	}
	return thirty360(start, end, d1, d2)
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}
