package broker

import (
	"errors"
	"testing"

	"main/internal/domain/entity/bond"
)

func validRequest() Request {
	yield := 0.05
	return Request{
		SettlementDate: "2025-01-01",
		MaturityDate:   "2030-01-01",
		CouponRate:     0.05,
		Frequency:      2,
		DayCount:       "ACT_360",
		Yield:          &yield,
	}
}

func TestRequestToSpec(t *testing.T) {
	t.Parallel()

	spec, err := validRequest().toSpec()
	if err != nil {
		t.Fatalf("toSpec: %v", err)
	}
	if spec.Type != bond.TypeRegular {
		t.Fatalf("Type = %s, want REGULAR fallback", spec.Type)
	}
	if spec.Face != 100 {
		t.Fatalf("Face = %v, want the 100 default", spec.Face)
	}
	if !spec.EOMRule {
		t.Fatal("EOMRule must default to true")
	}
}

func TestRequestToSpecRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing settlement", func(r *Request) { r.SettlementDate = "" }},
		{"missing maturity", func(r *Request) { r.MaturityDate = "" }},
		{"bad date format", func(r *Request) { r.SettlementDate = "01/01/2025" }},
		{"coupon rate out of range", func(r *Request) { r.CouponRate = 5 }},
		{"unknown day count", func(r *Request) { r.DayCount = "ACT_252" }},
		{"invalid frequency", func(r *Request) { r.Frequency = 3 }},
		{"maturity before settlement", func(r *Request) { r.MaturityDate = "2020-01-01" }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			request := validRequest()
			tc.mutate(&request)
			if _, err := request.toSpec(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRequestValidateMode(t *testing.T) {
	t.Parallel()

	request := validRequest()
	if err := request.validateMode(); err != nil {
		t.Fatalf("validateMode: %v", err)
	}

	request.Yield = nil
	if err := request.validateMode(); !errors.Is(err, errMissingYieldPrice) {
		t.Fatalf("got %v, want errMissingYieldPrice", err)
	}

	price := 99.5
	yield := 0.05
	request.Yield = &yield
	request.Price = &price
	if err := request.validateMode(); !errors.Is(err, errAmbiguousYieldPrice) {
		t.Fatalf("got %v, want errAmbiguousYieldPrice", err)
	}
}
