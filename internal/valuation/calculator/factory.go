package calculator

import (
	"errors"
	"fmt"

	"main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"
	"main/internal/valuation/schedule"
)

var ErrUnsupportedBondType = errors.New("unsupported bond type")

// Factory selects the calculator variant for a bond type. Selection is
// stateless and construction is cheap, so no caching is done.
type Factory struct {
	base base
}

func NewFactory(provider interfaces.YearFractionProvider) *Factory {
	return &Factory{base: base{provider: provider, builder: schedule.NewBuilder()}}
}

func (f *Factory) Get(bondType bond.Type) (interfaces.BondCalculator, error) {
	switch bondType {
	case bond.TypeDiscounted:
		return &Discounted{base: f.base}, nil
	case bond.TypeInterestAtMaturity:
		return &InterestAtMaturity{base: f.base}, nil
	case bond.TypeRegular:
		return &RegularCoupon{base: f.base}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBondType, bondType)
	}
}
