package calculator

import (
	"context"
	"math"
	"sort"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
)

// RegularCoupon prices standard bullet bonds: periodic coupons plus the face
// value redeemed at maturity, discounted with periodic compounding.
type RegularCoupon struct {
	base
}

var _ interfaces.BondCalculator = (*RegularCoupon)(nil)

// discountTerms holds the precomputed per-cashflow quantities of the dirty
// price sum, so the yield inversion can iterate without re-querying the
// year-fraction provider.
type discountTerms struct {
	amounts []float64
	periods []float64 // frequency * year fraction from settlement
	m       float64
}

func (t discountTerms) dirty(y float64) float64 {
	var total float64
	for i, amount := range t.amounts {
		total += amount / math.Pow(1+y/t.m, t.periods[i])
	}
	return total
}

func (c *RegularCoupon) terms(ctx context.Context, spec bond.Spec) (discountTerms, error) {
	m := float64(spec.Frequency.PerYear())
	dates := c.builder.Build(spec)
	last := dates[len(dates)-1]

	t := discountTerms{m: m}
	for _, d := range dates {
		if !d.After(spec.Settlement) {
			continue
		}
		yf, err := c.provider.YearFraction(ctx, spec.Settlement, d, spec.DayCount)
		if err != nil {
			return discountTerms{}, err
		}
		amount := spec.Face * spec.CouponRate / m
		if d.Equal(last) {
			amount += spec.Face
		}
		t.amounts = append(t.amounts, amount)
		t.periods = append(t.periods, m*yf)
	}
	return t, nil
}

func (c *RegularCoupon) PriceFromYield(ctx context.Context, spec bond.Spec, ytm float64) (*bond.PricingResult, error) {
	terms, err := c.terms(ctx, spec)
	if err != nil {
		return nil, err
	}
	accrued, err := c.accruedInterest(ctx, spec)
	if err != nil {
		return nil, err
	}
	dirty := terms.dirty(ytm)
	return &bond.PricingResult{Clean: dirty - accrued, Dirty: dirty, Accrued: accrued, YTM: ytm}, nil
}

func (c *RegularCoupon) YieldFromPrice(ctx context.Context, spec bond.Spec, cleanPrice, guess float64) (*bond.PricingResult, error) {
	terms, err := c.terms(ctx, spec)
	if err != nil {
		return nil, err
	}
	accrued, err := c.accruedInterest(ctx, spec)
	if err != nil {
		return nil, err
	}
	targetDirty := cleanPrice + accrued

	f := func(y float64) float64 {
		return terms.dirty(y) - targetDirty
	}
	// No closed form for irregular-date discounting; use a central difference.
	df := func(y float64) float64 {
		eps := math.Max(1e-7, math.Abs(y)*1e-5)
		return (f(y+eps) - f(y-eps)) / (2 * eps)
	}

	y, err := newtonRaphson(f, df, guess)
	if err != nil {
		return nil, err
	}
	return c.PriceFromYield(ctx, spec, y)
}

func (c *RegularCoupon) Cashflows(_ context.Context, spec bond.Spec) ([]bond.Cashflow, error) {
	m := float64(spec.Frequency.PerYear())
	dates := c.builder.Build(spec)
	last := dates[len(dates)-1]

	flows := make([]bond.Cashflow, 0, len(dates)+1)
	for _, d := range dates {
		flows = append(flows, bond.Cashflow{
			Date:   d,
			Amount: spec.Face * spec.CouponRate / m,
			Kind:   bond.CashflowCoupon,
		})
		if d.Equal(last) {
			flows = append(flows, bond.Cashflow{
				Date:   d,
				Amount: spec.Face,
				Kind:   bond.CashflowRedemption,
			})
		}
	}
	// Stable: the maturity coupon stays ahead of the redemption on the same date.
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Date.Before(flows[j].Date)
	})
	return flows, nil
}

func (c *RegularCoupon) AccruedInterest(ctx context.Context, spec bond.Spec) (float64, error) {
	return c.accruedInterest(ctx, spec)
}
