package calculator

import (
	"context"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
)

// InterestAtMaturity prices instruments that compound a single interest
// payment into the redemption at maturity. The interest accrues from the
// issue date (or settlement when no issue date is known) to maturity.
type InterestAtMaturity struct {
	base
}

var _ interfaces.BondCalculator = (*InterestAtMaturity)(nil)

// redemptionAndDiscount returns the redemption amount and the
// settlement-to-maturity year fraction used for discounting.
func (c *InterestAtMaturity) redemptionAndDiscount(ctx context.Context, spec bond.Spec) (redemption, yfDiscount float64, err error) {
	yfCoupon, err := c.provider.YearFraction(ctx, spec.AccrualAnchor(), spec.Maturity, spec.DayCount)
	if err != nil {
		return 0, 0, err
	}
	yfDiscount, err = c.provider.YearFraction(ctx, spec.Settlement, spec.Maturity, spec.DayCount)
	if err != nil {
		return 0, 0, err
	}
	redemption = spec.Face * (1 + spec.CouponRate*yfCoupon)
	return redemption, yfDiscount, nil
}

func (c *InterestAtMaturity) PriceFromYield(ctx context.Context, spec bond.Spec, ytm float64) (*bond.PricingResult, error) {
	redemption, yfDiscount, err := c.redemptionAndDiscount(ctx, spec)
	if err != nil {
		return nil, err
	}
	accrued, err := c.accruedInterest(ctx, spec)
	if err != nil {
		return nil, err
	}
	dirty := redemption / (1 + ytm*yfDiscount)
	return &bond.PricingResult{Clean: dirty - accrued, Dirty: dirty, Accrued: accrued, YTM: ytm}, nil
}

func (c *InterestAtMaturity) YieldFromPrice(ctx context.Context, spec bond.Spec, cleanPrice, guess float64) (*bond.PricingResult, error) {
	redemption, yfDiscount, err := c.redemptionAndDiscount(ctx, spec)
	if err != nil {
		return nil, err
	}
	accrued, err := c.accruedInterest(ctx, spec)
	if err != nil {
		return nil, err
	}
	targetDirty := cleanPrice + accrued

	f := func(y float64) float64 {
		return redemption/(1+y*yfDiscount) - targetDirty
	}
	// Analytic derivative of the dirty price.
	df := func(y float64) float64 {
		denom := 1 + y*yfDiscount
		return -redemption * yfDiscount / (denom * denom)
	}

	y, err := newtonRaphson(f, df, guess)
	if err != nil {
		return nil, err
	}
	return c.PriceFromYield(ctx, spec, y)
}

func (c *InterestAtMaturity) Cashflows(ctx context.Context, spec bond.Spec) ([]bond.Cashflow, error) {
	yfCoupon, err := c.provider.YearFraction(ctx, spec.AccrualAnchor(), spec.Maturity, spec.DayCount)
	if err != nil {
		return nil, err
	}
	interest := spec.Face * spec.CouponRate * yfCoupon
	return []bond.Cashflow{
		{Date: spec.Maturity, Amount: interest, Kind: bond.CashflowInterest},
		{Date: spec.Maturity, Amount: spec.Face, Kind: bond.CashflowRedemption},
	}, nil
}

func (c *InterestAtMaturity) AccruedInterest(ctx context.Context, spec bond.Spec) (float64, error) {
	return c.accruedInterest(ctx, spec)
}
