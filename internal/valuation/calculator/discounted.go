package calculator

import (
	"context"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
)

// Discounted prices money-market style instruments: a single redemption at
// maturity, simple discounting, no accrual. The price-yield relationship has a
// closed-form inverse, so YieldFromPrice never iterates.
type Discounted struct {
	base
}

var _ interfaces.BondCalculator = (*Discounted)(nil)

func (c *Discounted) PriceFromYield(ctx context.Context, spec bond.Spec, ytm float64) (*bond.PricingResult, error) {
	yf, err := c.provider.YearFraction(ctx, spec.Settlement, spec.Maturity, spec.DayCount)
	if err != nil {
		return nil, err
	}
	dirty := spec.Face / (1 + ytm*yf)
	return &bond.PricingResult{Clean: dirty, Dirty: dirty, Accrued: 0, YTM: ytm}, nil
}

func (c *Discounted) YieldFromPrice(ctx context.Context, spec bond.Spec, cleanPrice, _ float64) (*bond.PricingResult, error) {
	yf, err := c.provider.YearFraction(ctx, spec.Settlement, spec.Maturity, spec.DayCount)
	if err != nil {
		return nil, err
	}
	y := (spec.Face/cleanPrice - 1) / yf
	return c.PriceFromYield(ctx, spec, y)
}

func (c *Discounted) Cashflows(_ context.Context, spec bond.Spec) ([]bond.Cashflow, error) {
	return []bond.Cashflow{
		{Date: spec.Maturity, Amount: spec.Face, Kind: bond.CashflowRedemption},
	}, nil
}

func (c *Discounted) AccruedInterest(ctx context.Context, spec bond.Spec) (float64, error) {
	return c.accruedInterest(ctx, spec)
}
