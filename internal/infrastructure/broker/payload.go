package broker

import (
	"errors"
	"fmt"
	"time"

	"main/internal/domain/entity/bond"
)

var (
	errMissingSettlement   = errors.New("settlement_date is required")
	errMissingMaturity     = errors.New("maturity_date is required")
	errMissingYieldPrice   = errors.New("either yield or price is required")
	errAmbiguousYieldPrice = errors.New("yield and price are mutually exclusive")
	errCouponRateRange     = errors.New("coupon_rate must be between 0 and 1")
)

// Request is a queued valuation job. Exactly one of Yield or Price must be
// set: the worker prices from the yield or solves the yield from the price.
type Request struct {
	SettlementDate  string   `json:"settlement_date"`
	MaturityDate    string   `json:"maturity_date"`
	IssueDate       string   `json:"issue_date,omitempty"`
	CouponRate      float64  `json:"coupon_rate"`
	Frequency       int      `json:"frequency"`
	Face            *float64 `json:"face,omitempty"`
	DayCount        string   `json:"day_count"`
	EOMRule         *bool    `json:"eom_rule,omitempty"`
	FirstCouponDate string   `json:"first_coupon_date,omitempty"`
	LastCouponDate  string   `json:"last_coupon_date,omitempty"`
	BondType        string   `json:"bond_type,omitempty"`
	Yield           *float64 `json:"yield,omitempty"`
	Price           *float64 `json:"price,omitempty"`
}

func (r Request) toSpec() (bond.Spec, error) {
	if r.SettlementDate == "" {
		return bond.Spec{}, errMissingSettlement
	}
	if r.MaturityDate == "" {
		return bond.Spec{}, errMissingMaturity
	}
	settlement, err := parseDate(r.SettlementDate)
	if err != nil {
		return bond.Spec{}, err
	}
	maturity, err := parseDate(r.MaturityDate)
	if err != nil {
		return bond.Spec{}, err
	}
	if r.CouponRate < 0 || r.CouponRate > 1 {
		return bond.Spec{}, errCouponRateRange
	}
	frequency, err := bond.NewFrequency(r.Frequency)
	if err != nil {
		return bond.Spec{}, err
	}
	dayCount, err := bond.NewDayCount(r.DayCount)
	if err != nil {
		return bond.Spec{}, err
	}

	face := 100.0
	if r.Face != nil {
		face = *r.Face
	}
	eomRule := true
	if r.EOMRule != nil {
		eomRule = *r.EOMRule
	}

	spec := bond.Spec{
		Settlement: settlement,
		Maturity:   maturity,
		Face:       face,
		CouponRate: r.CouponRate,
		Frequency:  frequency,
		DayCount:   dayCount,
		EOMRule:    eomRule,
		Stub:       bond.StubNone,
		Type:       bond.NewType(r.BondType),
	}
	if spec.IssueDate, err = parseOptionalDate(r.IssueDate); err != nil {
		return bond.Spec{}, err
	}
	if spec.FirstCoupon, err = parseOptionalDate(r.FirstCouponDate); err != nil {
		return bond.Spec{}, err
	}
	if spec.LastCoupon, err = parseOptionalDate(r.LastCouponDate); err != nil {
		return bond.Spec{}, err
	}
	if err := spec.Validate(); err != nil {
		return bond.Spec{}, err
	}
	return spec, nil
}

func (r Request) validateMode() error {
	if r.Yield == nil && r.Price == nil {
		return errMissingYieldPrice
	}
	if r.Yield != nil && r.Price != nil {
		return errAmbiguousYieldPrice
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
