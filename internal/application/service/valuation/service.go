package valuation

import (
	"context"
	"errors"

	"main/internal/domain/entity/bond"
	domain "main/internal/domain/entity/valuation"
	"main/internal/domain/interfaces"
	"main/internal/valuation/calculator"
)

var (
	ErrNilRecord    = errors.New("valuation record is nil")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// Service orchestrates the pricing engine and the valuation history store.
type Service struct {
	factory *calculator.Factory
	history interfaces.ValuationsRepository
	version string
}

func NewService(factory *calculator.Factory, history interfaces.ValuationsRepository, version string) *Service {
	return &Service{factory: factory, history: history, version: version}
}

// Price computes clean/dirty price and the cashflow schedule from a yield.
func (s *Service) Price(ctx context.Context, spec bond.Spec, ytm float64) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	calc, err := s.factory.Get(spec.Type)
	if err != nil {
		return nil, err
	}
	result, err := calc.PriceFromYield(ctx, spec, ytm)
	if err != nil {
		return nil, err
	}
	flows, err := calc.Cashflows(ctx, spec)
	if err != nil {
		return nil, err
	}
	return newResult(spec, *result, flows, s.version), nil
}

// Yield inverts the price formula: clean price in, yield out, together with
// the full pricing result at the solved yield.
func (s *Service) Yield(ctx context.Context, spec bond.Spec, cleanPrice float64) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	calc, err := s.factory.Get(spec.Type)
	if err != nil {
		return nil, err
	}
	result, err := calc.YieldFromPrice(ctx, spec, cleanPrice, calculator.DefaultGuess)
	if err != nil {
		return nil, err
	}
	flows, err := calc.Cashflows(ctx, spec)
	if err != nil {
		return nil, err
	}
	return newResult(spec, *result, flows, s.version), nil
}

// Cashflows returns the full dated cashflow list for a bond.
func (s *Service) Cashflows(ctx context.Context, spec bond.Spec) ([]bond.Cashflow, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	calc, err := s.factory.Get(spec.Type)
	if err != nil {
		return nil, err
	}
	return calc.Cashflows(ctx, spec)
}

// Record persists a single valuation run.
func (s *Service) Record(ctx context.Context, record *domain.Record) error {
	if record == nil {
		return ErrNilRecord
	}
	return s.history.AddRecord(ctx, record)
}

// RecordBatch persists valuation runs in bulk; used by the queue worker.
func (s *Service) RecordBatch(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return s.history.AddRecords(ctx, records)
}

func (s *Service) LastRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.history.LastRecords(ctx, limit)
}

func (s *Service) Close() {
	s.history.Close()
}
