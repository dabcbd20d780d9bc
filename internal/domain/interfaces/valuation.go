package interfaces

import (
	"context"
	"time"

	"main/internal/domain/entity/bond"
	"main/internal/domain/entity/valuation"

	"github.com/google/uuid"
)

// YearFractionProvider converts a date span into a year fraction under a
// day-count convention. The local implementation is a pure function; a
// remote-backed implementation satisfies the same contract. The engine issues
// at most one call at a time per pricing request.
type YearFractionProvider interface {
	YearFraction(ctx context.Context, start, end time.Time, convention bond.DayCount) (float64, error)
}

// BondCalculator prices one family of bonds. Implementations are stateless;
// every method is a pure function of its inputs and the injected provider.
type BondCalculator interface {
	PriceFromYield(ctx context.Context, spec bond.Spec, ytm float64) (*bond.PricingResult, error)
	YieldFromPrice(ctx context.Context, spec bond.Spec, cleanPrice, guess float64) (*bond.PricingResult, error)
	Cashflows(ctx context.Context, spec bond.Spec) ([]bond.Cashflow, error)
	AccruedInterest(ctx context.Context, spec bond.Spec) (float64, error)
}

type BondsRepository interface {
	CreateBond(ctx context.Context, def *bond.Definition) error
	GetBond(ctx context.Context, uid uuid.UUID) (*bond.Definition, error)
	UpdateBond(ctx context.Context, def *bond.Definition) error
	DeleteBond(ctx context.Context, uid uuid.UUID) error
	ListBonds(ctx context.Context) ([]bond.Definition, error)
	Close()
}

type ValuationsRepository interface {
	AddRecord(ctx context.Context, record *valuation.Record) error
	AddRecords(ctx context.Context, records []valuation.Record) error
	LastRecords(ctx context.Context, limit int) ([]valuation.Record, error)
	Close()
}
