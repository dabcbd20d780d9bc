package calculator_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
	"main/internal/valuation/calculator"
	"main/internal/valuation/daycount"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func regularSpec() bond.Spec {
	return bond.Spec{
		Settlement: date(2025, 1, 1),
		Maturity:   date(2030, 1, 1),
		Face:       100,
		CouponRate: 0.05,
		Frequency:  bond.FrequencySemiAnnual,
		DayCount:   bond.DayCountAct360,
		EOMRule:    true,
		Stub:       bond.StubNone,
		Type:       bond.TypeRegular,
	}
}

func get(t *testing.T, bondType bond.Type) interfaces.BondCalculator {
	t.Helper()
	factory := calculator.NewFactory(daycount.NewLocalProvider())
	calc, err := factory.Get(bondType)
	if err != nil {
		t.Fatalf("factory.Get(%s): %v", bondType, err)
	}
	return calc
}

func TestRegularPriceAtZeroYield(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeRegular)
	spec := regularSpec()

	result, err := calc.PriceFromYield(context.Background(), spec, 0)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	// At zero yield the dirty price is the undiscounted cashflow sum:
	// ten semiannual coupons of 2.5 plus the face.
	if math.Abs(result.Dirty-125) > 1e-9 {
		t.Fatalf("Dirty = %v, want 125", result.Dirty)
	}
	if result.Accrued != 0 {
		t.Fatalf("Accrued = %v, want 0 for a settlement on the period start", result.Accrued)
	}
}

func TestRegularPriceSanity(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeRegular)
	spec := regularSpec()

	result, err := calc.PriceFromYield(context.Background(), spec, 0.048)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	// Coupon above yield: the bond trades at a modest premium.
	if result.Clean <= 100 || result.Clean >= 105 {
		t.Fatalf("Clean = %v, want a value in (100, 105)", result.Clean)
	}
	if math.Abs(result.Dirty-result.Clean-result.Accrued) > 1e-9 {
		t.Fatalf("Dirty-Clean = %v, want Accrued %v", result.Dirty-result.Clean, result.Accrued)
	}
}

func TestRegularYieldRoundTrip(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeRegular)
	spec := regularSpec()

	for _, ytm := range []float64{0.005, 0.03, 0.048, 0.09, 0.15} {
		priced, err := calc.PriceFromYield(context.Background(), spec, ytm)
		if err != nil {
			t.Fatalf("PriceFromYield(%v): %v", ytm, err)
		}
		solved, err := calc.YieldFromPrice(context.Background(), spec, priced.Clean, calculator.DefaultGuess)
		if err != nil {
			t.Fatalf("YieldFromPrice(%v): %v", priced.Clean, err)
		}
		if math.Abs(solved.YTM-ytm) > 1e-8 {
			t.Fatalf("round trip yield = %.12f, want %.12f", solved.YTM, ytm)
		}
	}
}

func TestRegularAccruedInterest(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeRegular)
	issue := date(2025, 1, 15)
	spec := bond.Spec{
		Settlement: date(2025, 10, 1),
		Maturity:   date(2030, 1, 15),
		IssueDate:  &issue,
		Face:       100,
		CouponRate: 0.05,
		Frequency:  bond.FrequencySemiAnnual,
		DayCount:   bond.DayCountAct365F,
		EOMRule:    true,
		Stub:       bond.StubNone,
		Type:       bond.TypeRegular,
	}

	accrued, err := calc.AccruedInterest(context.Background(), spec)
	if err != nil {
		t.Fatalf("AccruedInterest: %v", err)
	}
	// 78 of the 184 days between the 2025-07-15 and 2026-01-15 coupons have elapsed.
	want := 2.5 * 78.0 / 184.0
	if math.Abs(accrued-want) > 1e-9 {
		t.Fatalf("accrued = %.12f, want %.12f", accrued, want)
	}

	// Accrual grows within the period and resets to zero on a coupon date.
	spec.Settlement = date(2025, 11, 1)
	later, err := calc.AccruedInterest(context.Background(), spec)
	if err != nil {
		t.Fatalf("AccruedInterest: %v", err)
	}
	if later <= accrued {
		t.Fatalf("accrued did not grow: %v then %v", accrued, later)
	}

	spec.Settlement = date(2026, 1, 15)
	onCoupon, err := calc.AccruedInterest(context.Background(), spec)
	if err != nil {
		t.Fatalf("AccruedInterest: %v", err)
	}
	if onCoupon != 0 {
		t.Fatalf("accrued on coupon date = %v, want 0", onCoupon)
	}
}

func TestRegularCashflows(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeRegular)
	spec := regularSpec()

	flows, err := calc.Cashflows(context.Background(), spec)
	if err != nil {
		t.Fatalf("Cashflows: %v", err)
	}
	// Ten coupons plus the redemption.
	if len(flows) != 11 {
		t.Fatalf("got %d cashflows, want 11", len(flows))
	}
	last := flows[len(flows)-1]
	if last.Kind != bond.CashflowRedemption || !last.Date.Equal(spec.Maturity) || last.Amount != 100 {
		t.Fatalf("unexpected final cashflow: %+v", last)
	}
	penultimate := flows[len(flows)-2]
	if penultimate.Kind != bond.CashflowCoupon || !penultimate.Date.Equal(spec.Maturity) {
		t.Fatalf("maturity coupon must precede the redemption, got %+v", penultimate)
	}
}

func TestDiscounted(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeDiscounted)
	spec := bond.Spec{
		Settlement: date(2025, 1, 1),
		Maturity:   date(2026, 1, 1),
		Face:       100,
		CouponRate: 0,
		Frequency:  bond.FrequencyAnnual,
		DayCount:   bond.DayCountAct360,
		EOMRule:    true,
		Stub:       bond.StubNone,
		Type:       bond.TypeDiscounted,
	}

	result, err := calc.PriceFromYield(context.Background(), spec, 0.05)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	want := 100 / (1 + 0.05*365.0/360.0)
	if math.Abs(result.Dirty-want) > 1e-12 {
		t.Fatalf("Dirty = %.15f, want %.15f", result.Dirty, want)
	}
	if result.Clean != result.Dirty || result.Accrued != 0 {
		t.Fatalf("discounted bonds never accrue: clean=%v dirty=%v accrued=%v", result.Clean, result.Dirty, result.Accrued)
	}

	// The inverse is closed form, so the round trip is exact to machine precision.
	solved, err := calc.YieldFromPrice(context.Background(), spec, result.Clean, calculator.DefaultGuess)
	if err != nil {
		t.Fatalf("YieldFromPrice: %v", err)
	}
	if math.Abs(solved.YTM-0.05) > 1e-12 {
		t.Fatalf("solved yield = %.15f, want 0.05", solved.YTM)
	}

	flows, err := calc.Cashflows(context.Background(), spec)
	if err != nil {
		t.Fatalf("Cashflows: %v", err)
	}
	if len(flows) != 1 || flows[0].Kind != bond.CashflowRedemption {
		t.Fatalf("got %+v, want a single redemption", flows)
	}
}

func TestInterestAtMaturity(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeInterestAtMaturity)
	issue := date(2025, 1, 1)
	spec := bond.Spec{
		Settlement: date(2025, 1, 1),
		Maturity:   date(2027, 1, 1),
		IssueDate:  &issue,
		Face:       100,
		CouponRate: 0.06,
		Frequency:  bond.FrequencyAnnual,
		DayCount:   bond.DayCountAct365F,
		EOMRule:    true,
		Stub:       bond.StubNone,
		Type:       bond.TypeInterestAtMaturity,
	}

	result, err := calc.PriceFromYield(context.Background(), spec, 0.05)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	// Two years of simple interest compounded into a 112 redemption.
	want := 112.0 / (1 + 0.05*2)
	if math.Abs(result.Dirty-want) > 1e-9 {
		t.Fatalf("Dirty = %.12f, want %.12f", result.Dirty, want)
	}
	if result.Accrued != 0 {
		t.Fatalf("Accrued = %v, want 0 when settling on the issue date", result.Accrued)
	}

	// One year in: 6 of interest accrued, one year left to discount.
	spec.Settlement = date(2026, 1, 1)
	result, err = calc.PriceFromYield(context.Background(), spec, 0.05)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	if math.Abs(result.Accrued-6) > 1e-9 {
		t.Fatalf("Accrued = %v, want 6", result.Accrued)
	}
	wantDirty := 112.0 / 1.05
	if math.Abs(result.Dirty-wantDirty) > 1e-9 {
		t.Fatalf("Dirty = %.12f, want %.12f", result.Dirty, wantDirty)
	}

	solved, err := calc.YieldFromPrice(context.Background(), spec, result.Clean, calculator.DefaultGuess)
	if err != nil {
		t.Fatalf("YieldFromPrice: %v", err)
	}
	if math.Abs(solved.YTM-0.05) > 1e-8 {
		t.Fatalf("round trip yield = %.12f, want 0.05", solved.YTM)
	}

	flows, err := calc.Cashflows(context.Background(), spec)
	if err != nil {
		t.Fatalf("Cashflows: %v", err)
	}
	if len(flows) != 2 || flows[0].Kind != bond.CashflowInterest || flows[1].Kind != bond.CashflowRedemption {
		t.Fatalf("got %+v, want interest then redemption", flows)
	}
	if math.Abs(flows[0].Amount-12) > 1e-9 {
		t.Fatalf("interest amount = %v, want 12", flows[0].Amount)
	}
}

func TestDiscountedClosedFormFromPrice(t *testing.T) {
	t.Parallel()

	calc := get(t, bond.TypeDiscounted)
	spec := bond.Spec{
		Settlement: date(2025, 1, 1),
		Maturity:   date(2025, 7, 1),
		Face:       100,
		CouponRate: 0,
		Frequency:  bond.FrequencyAnnual,
		DayCount:   bond.DayCountAct360,
		EOMRule:    true,
		Stub:       bond.StubNone,
		Type:       bond.TypeDiscounted,
	}

	result, err := calc.YieldFromPrice(context.Background(), spec, 98.0, calculator.DefaultGuess)
	if err != nil {
		t.Fatalf("YieldFromPrice: %v", err)
	}
	// Evaluate through float64 variables so the expectation goes through the
	// same runtime rounding as the engine instead of constant folding.
	face, price, yf := 100.0, 98.0, 181.0/360.0
	want := (face/price - 1) / yf
	if result.YTM != want {
		t.Fatalf("yield = %.17f, want the closed form %.17f", result.YTM, want)
	}

	repriced, err := calc.PriceFromYield(context.Background(), spec, result.YTM)
	if err != nil {
		t.Fatalf("PriceFromYield: %v", err)
	}
	if math.Abs(repriced.Clean-98.0) > 1e-12 {
		t.Fatalf("repriced clean = %.15f, want 98", repriced.Clean)
	}
}

func TestFactoryUnsupportedType(t *testing.T) {
	t.Parallel()

	factory := calculator.NewFactory(daycount.NewLocalProvider())
	if _, err := factory.Get(bond.Type("PERPETUAL")); !errors.Is(err, calculator.ErrUnsupportedBondType) {
		t.Fatalf("got %v, want ErrUnsupportedBondType", err)
	}
}
