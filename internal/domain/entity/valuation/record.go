package valuation

import (
	"time"

	"github.com/google/uuid"

	"main/internal/domain/entity/bond"
)

// Record is one persisted valuation run: the bond terms it was computed for
// plus the unrounded results. Corresponds to the `valuations` table.
type Record struct {
	ID         uuid.UUID
	BondType   bond.Type
	Settlement time.Time
	Maturity   time.Time
	Face       float64
	CouponRate float64
	Frequency  int
	DayCount   bond.DayCount
	Clean      float64
	Dirty      float64
	Accrued    float64
	YTM        float64
	Source     string
	CreatedAt  time.Time
}

// Sources a Record can originate from.
const (
	SourceHTTP   = "http"
	SourceWorker = "worker"
)

// NewRecord snapshots a pricing result for the history store.
func NewRecord(spec bond.Spec, result bond.PricingResult, source string) *Record {
	return &Record{
		ID:         uuid.New(),
		BondType:   spec.Type,
		Settlement: spec.Settlement,
		Maturity:   spec.Maturity,
		Face:       spec.Face,
		CouponRate: spec.CouponRate,
		Frequency:  spec.Frequency.PerYear(),
		DayCount:   spec.DayCount,
		Clean:      result.Clean,
		Dirty:      result.Dirty,
		Accrued:    result.Accrued,
		YTM:        result.YTM,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}
}
