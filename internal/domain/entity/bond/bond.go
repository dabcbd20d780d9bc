package bond

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMaturityNotAfterSettlement = errors.New("maturity must be after settlement")
	ErrIssueAfterSettlement       = errors.New("issue date must not be after settlement")
	ErrNegativeFace               = errors.New("face value must be non-negative")
)

// Spec is the immutable per-request description of a bond handed to the
// valuation engine. All dates are calendar dates at UTC midnight.
type Spec struct {
	Settlement  time.Time
	Maturity    time.Time
	IssueDate   *time.Time
	Face        float64
	CouponRate  float64
	Frequency   Frequency
	DayCount    DayCount
	EOMRule     bool
	Stub        StubPosition
	FirstCoupon *time.Time
	LastCoupon  *time.Time
	Type        Type
}

// Validate checks the cross-field invariants the engine relies on.
func (s Spec) Validate() error {
	if !s.Maturity.After(s.Settlement) {
		return ErrMaturityNotAfterSettlement
	}
	if s.IssueDate != nil && s.IssueDate.After(s.Settlement) {
		return ErrIssueAfterSettlement
	}
	if s.Face < 0 {
		return ErrNegativeFace
	}
	return nil
}

// AccrualAnchor is the date interest starts accruing from for anchor-based
// calculations: the issue date when known, the settlement date otherwise.
func (s Spec) AccrualAnchor() time.Time {
	if s.IssueDate != nil {
		return *s.IssueDate
	}
	return s.Settlement
}

// Definition is a stored bond: the static terms of a Spec without a settlement
// date, priced on demand for any settlement. Corresponds to the `bonds` table.
type Definition struct {
	UID         uuid.UUID
	Ticker      string
	Maturity    time.Time
	IssueDate   *time.Time
	Face        float64
	CouponRate  float64
	Frequency   Frequency
	DayCount    DayCount
	EOMRule     bool
	FirstCoupon *time.Time
	LastCoupon  *time.Time
	Type        Type
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// SpecAt binds the stored terms to a settlement date.
func (d Definition) SpecAt(settlement time.Time) Spec {
	return Spec{
		Settlement:  settlement,
		Maturity:    d.Maturity,
		IssueDate:   d.IssueDate,
		Face:        d.Face,
		CouponRate:  d.CouponRate,
		Frequency:   d.Frequency,
		DayCount:    d.DayCount,
		EOMRule:     d.EOMRule,
		Stub:        StubNone,
		FirstCoupon: d.FirstCoupon,
		LastCoupon:  d.LastCoupon,
		Type:        d.Type,
	}
}
