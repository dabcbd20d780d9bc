package bond

import "time"

// CashflowKind tags what a dated payment represents.
type CashflowKind string

const (
	CashflowCoupon     CashflowKind = "coupon"
	CashflowRedemption CashflowKind = "redemption"
	CashflowInterest   CashflowKind = "interest"
)

// Cashflow is a single dated cash payment. The final date of a regular coupon
// bond carries two entries, a coupon and the redemption, in that order.
type Cashflow struct {
	Date   time.Time
	Amount float64
	Kind   CashflowKind
}

// PricingResult holds the output of a single pricing or yield computation.
// Invariant: Dirty == Clean + Accrued within floating-point tolerance.
type PricingResult struct {
	Clean   float64
	Dirty   float64
	Accrued float64
	YTM     float64
}
