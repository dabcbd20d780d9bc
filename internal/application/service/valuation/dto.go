package valuation

import (
	"github.com/shopspring/decimal"

	"main/internal/domain/entity/bond"
)

const dateLayout = "2006-01-02"

// Result is the wire-shaped outcome of a pricing or yield computation.
// Monetary fields are rounded to 6 decimal places; Raw keeps the unrounded
// engine output for history records.
type Result struct {
	CleanPrice      float64       `json:"cleanPrice"`
	DirtyPrice      float64       `json:"dirtyPrice"`
	AccruedInterest float64       `json:"accruedInterest"`
	Yield           float64       `json:"yield"`
	Cashflows       []CashflowDTO `json:"cashflows,omitempty"`
	NextCouponDate  string        `json:"nextCouponDate,omitempty"`
	Version         string        `json:"version"`

	Raw bond.PricingResult `json:"-"`
}

type CashflowDTO struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

func newResult(spec bond.Spec, result bond.PricingResult, flows []bond.Cashflow, version string) *Result {
	out := &Result{
		CleanPrice:      round6(result.Clean),
		DirtyPrice:      round6(result.Dirty),
		AccruedInterest: round6(result.Accrued),
		Yield:           round6(result.YTM),
		Version:         version,
		Raw:             result,
	}
	for _, cf := range flows {
		out.Cashflows = append(out.Cashflows, CashflowDTO{
			Date:   cf.Date.Format(dateLayout),
			Amount: round6(cf.Amount),
			Type:   string(cf.Kind),
		})
		if out.NextCouponDate == "" && cf.Kind == bond.CashflowCoupon && cf.Date.After(spec.Settlement) {
			out.NextCouponDate = cf.Date.Format(dateLayout)
		}
	}
	return out
}

func round6(v float64) float64 {
	return decimal.NewFromFloat(v).Round(6).InexactFloat64()
}
