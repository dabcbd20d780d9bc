// Package calculator implements the pricing algorithms for the three
// supported bond families and the yield solver that inverts them.
package calculator

import (
	"context"
	"time"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
	"main/internal/valuation/schedule"
)

// base carries the injected capabilities shared by every calculator variant.
type base struct {
	provider interfaces.YearFractionProvider
	builder  schedule.Builder
}

// accruedInterest is the shared accrual rule, keyed on bond type.
//
// Regular bonds accrue a fraction of the current coupon; interest-at-maturity
// bonds accrue from their anchor date; discounted bonds never accrue. A
// settlement outside any bracketable schedule period is a valid edge case for
// short-dated or matured instruments and yields zero, not an error.
func (b base) accruedInterest(ctx context.Context, spec bond.Spec) (float64, error) {
	switch spec.Type {
	case bond.TypeRegular:
		dates := b.builder.Build(spec)
		prev, next, ok := bracket(dates, spec.Settlement)
		if !ok {
			return 0, nil
		}
		period, err := b.provider.YearFraction(ctx, prev, next, spec.DayCount)
		if err != nil {
			return 0, err
		}
		elapsed, err := b.provider.YearFraction(ctx, prev, spec.Settlement, spec.DayCount)
		if err != nil {
			return 0, err
		}
		coupon := spec.Face * spec.CouponRate / float64(spec.Frequency.PerYear())
		return coupon * (elapsed / period), nil

	case bond.TypeInterestAtMaturity:
		elapsed, err := b.provider.YearFraction(ctx, spec.AccrualAnchor(), spec.Settlement, spec.DayCount)
		if err != nil {
			return 0, err
		}
		return spec.Face * spec.CouponRate * elapsed, nil

	default:
		return 0, nil
	}
}

// bracket returns the schedule entries immediately surrounding settlement:
// prev <= settlement < next. ok is false when settlement falls outside the
// generated schedule.
func bracket(dates []time.Time, settlement time.Time) (prev, next time.Time, ok bool) {
	var havePrev, haveNext bool
	for _, d := range dates {
		if !d.After(settlement) {
			if !havePrev || d.After(prev) {
				prev = d
				havePrev = true
			}
			continue
		}
		if !haveNext || d.Before(next) {
			next = d
			haveNext = true
		}
	}
	return prev, next, havePrev && haveNext
}
