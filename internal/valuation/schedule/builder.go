// Package schedule generates coupon date schedules for bonds.
package schedule

import (
	"sort"
	"time"

	"main/internal/domain/entity/bond"
)

// Builder produces maturity-anchored coupon schedules: dates are walked
// backward from maturity, so an irregular first period is an implicit stub
// absorbed into the earliest generated period.
type Builder struct{}

func NewBuilder() Builder {
	return Builder{}
}

// Build returns the bond's coupon dates in strictly ascending order; the last
// element is always the maturity date. The walk stops at the issue date when
// present, otherwise at settlement, and explicit first/last coupon overrides
// are merged in without re-anchoring the rest of the schedule. The result may
// contain only the maturity date for very short-dated bonds; callers must not
// assume at least two entries.
func (Builder) Build(spec bond.Spec) []time.Time {
	if spec.Frequency.PerYear() <= 0 {
		return []time.Time{spec.Maturity}
	}

	months := spec.Frequency.Months()
	stop := spec.Settlement
	if spec.IssueDate != nil {
		stop = *spec.IssueDate
	}

	dates := []time.Time{spec.Maturity}
	d := spec.Maturity
	for {
		d = addMonths(d, -months)
		if !d.After(stop) {
			break
		}
		dates = append(dates, d)
	}

	if spec.FirstCoupon != nil && !containsDate(dates, *spec.FirstCoupon) {
		dates = append(dates, *spec.FirstCoupon)
	}
	if spec.LastCoupon != nil && !containsDate(dates, *spec.LastCoupon) {
		dates = append(dates, *spec.LastCoupon)
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

func containsDate(dates []time.Time, target time.Time) bool {
	for _, d := range dates {
		if d.Equal(target) {
			return true
		}
	}
	return false
}

// addMonths behaves like Excel's EDATE: the day of month is clamped to the
// target month's last day instead of rolling over, avoiding Go's AddDate
// normalization surprises (e.g. Mar 31 - 1 month must be Feb 28/29, not Mar 3).
func addMonths(t time.Time, months int) time.Time {
	shifted := t.AddDate(0, months, 0)
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if shifted.Month() == firstOfTarget.Month() {
		return shifted
	}

	// Overflowed into the next month; back up to the target month's last day.
	d := shifted
	overflow := d.Month()
	for d.Month() == overflow {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
