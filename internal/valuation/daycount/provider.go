package daycount

import (
	"context"
	"time"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
)

// LocalProvider computes year fractions in-process. It is stateless and safe
// for concurrent use.
type LocalProvider struct{}

var _ interfaces.YearFractionProvider = LocalProvider{}

func NewLocalProvider() LocalProvider {
	return LocalProvider{}
}

func (LocalProvider) YearFraction(_ context.Context, start, end time.Time, convention bond.DayCount) (float64, error) {
	return YearFraction(start, end, convention)
}
