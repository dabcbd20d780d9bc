package valuation_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	appvaluation "main/internal/application/service/valuation"
	"main/internal/domain/entity/bond"
	domain "main/internal/domain/entity/valuation"
	"main/internal/valuation/calculator"
	"main/internal/valuation/daycount"
)

type historyStub struct {
	records []domain.Record
	err     error
}

func (h *historyStub) AddRecord(_ context.Context, record *domain.Record) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, *record)
	return nil
}

func (h *historyStub) AddRecords(_ context.Context, records []domain.Record) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, records...)
	return nil
}

func (h *historyStub) LastRecords(_ context.Context, limit int) ([]domain.Record, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit > len(h.records) {
		limit = len(h.records)
	}
	return h.records[len(h.records)-limit:], nil
}

func (h *historyStub) Close() {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(history *historyStub) *appvaluation.Service {
	factory := calculator.NewFactory(daycount.NewLocalProvider())
	return appvaluation.NewService(factory, history, "test")
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

func isRounded6(v float64) bool {
	scaled := v * 1e6
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func TestPrice(t *testing.T) {
	t.Parallel()

	svc := newService(&historyStub{})
	result, err := svc.Price(context.Background(), regularSpec(), 0.048)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if result.Version != "test" {
		t.Fatalf("Version = %q, want %q", result.Version, "test")
	}
	for name, v := range map[string]float64{
		"cleanPrice":      result.CleanPrice,
		"dirtyPrice":      result.DirtyPrice,
		"accruedInterest": result.AccruedInterest,
		"yield":           result.Yield,
	} {
		if !isRounded6(v) {
			t.Fatalf("%s = %v is not rounded to 6 decimal places", name, v)
		}
	}
	if math.Abs(result.DirtyPrice-result.CleanPrice-result.AccruedInterest) > 1e-6 {
		t.Fatalf("dirty %v != clean %v + accrued %v", result.DirtyPrice, result.CleanPrice, result.AccruedInterest)
	}
	if result.NextCouponDate != "2025-07-01" {
		t.Fatalf("NextCouponDate = %q, want 2025-07-01", result.NextCouponDate)
	}
	if len(result.Cashflows) != 11 {
		t.Fatalf("got %d cashflows, want 11", len(result.Cashflows))
	}
}

func TestPriceInvalidSpec(t *testing.T) {
	t.Parallel()

	svc := newService(&historyStub{})
	spec := regularSpec()
	spec.Maturity = spec.Settlement

	if _, err := svc.Price(context.Background(), spec, 0.05); !errors.Is(err, bond.ErrMaturityNotAfterSettlement) {
		t.Fatalf("got %v, want ErrMaturityNotAfterSettlement", err)
	}
}

func TestYieldRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newService(&historyStub{})
	spec := regularSpec()

	priced, err := svc.Price(context.Background(), spec, 0.048)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	solved, err := svc.Yield(context.Background(), spec, priced.CleanPrice)
	if err != nil {
		t.Fatalf("Yield: %v", err)
	}
	if math.Abs(solved.Yield-0.048) > 1e-6 {
		t.Fatalf("solved yield = %v, want 0.048", solved.Yield)
	}
}

func TestNextCouponDateSkipsPastCoupons(t *testing.T) {
	t.Parallel()

	svc := newService(&historyStub{})
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

	result, err := svc.Price(context.Background(), spec, 0.05)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	// The 2025-07-15 coupon is already paid; the next one is in January.
	if result.NextCouponDate != "2026-01-15" {
		t.Fatalf("NextCouponDate = %q, want 2026-01-15", result.NextCouponDate)
	}
}

func TestRecordHistory(t *testing.T) {
	t.Parallel()

	history := &historyStub{}
	svc := newService(history)

	if err := svc.Record(context.Background(), nil); !errors.Is(err, appvaluation.ErrNilRecord) {
		t.Fatalf("got %v, want ErrNilRecord", err)
	}
	if _, err := svc.LastRecords(context.Background(), 0); !errors.Is(err, appvaluation.ErrInvalidLimit) {
		t.Fatalf("got %v, want ErrInvalidLimit", err)
	}

	spec := regularSpec()
	result, err := svc.Price(context.Background(), spec, 0.05)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if err := svc.Record(context.Background(), domain.NewRecord(spec, result.Raw, domain.SourceHTTP)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.RecordBatch(context.Background(), nil); err != nil {
		t.Fatalf("RecordBatch with no records: %v", err)
	}

	records, err := svc.LastRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("LastRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Source != domain.SourceHTTP || rec.BondType != bond.TypeRegular || rec.YTM != 0.05 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
