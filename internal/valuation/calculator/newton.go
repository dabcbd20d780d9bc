package calculator

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultGuess is the starting yield for iterative inversions.
	DefaultGuess = 0.05

	yieldTolerance = 1e-10
	yieldMaxIter   = 100
)

// Numerical failure modes of the yield inversion. Both are computation errors,
// distinct from input validation: the caller should treat them as an
// infeasible price/yield combination, not a transient fault.
var (
	ErrZeroDerivative = errors.New("newton-raphson: zero derivative")
	ErrNotConverged   = errors.New("newton-raphson: did not converge")
)

// newtonRaphson finds x such that f(x) == 0, starting from x0. It stops when
// the step size drops below yieldTolerance. There is no bisection fallback.
func newtonRaphson(f, df func(float64) float64, x0 float64) (float64, error) {
	x := x0
	for iter := 0; iter < yieldMaxIter; iter++ {
		dfx := df(x)
		if dfx == 0 {
			return 0, fmt.Errorf("%w at iteration %d", ErrZeroDerivative, iter)
		}
		step := f(x) / dfx
		x -= step
		if math.Abs(step) < yieldTolerance {
			return x, nil
		}
	}
	return 0, fmt.Errorf("%w after %d iterations", ErrNotConverged, yieldMaxIter)
}
