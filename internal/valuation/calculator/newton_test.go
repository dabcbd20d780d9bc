package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestNewtonRaphsonConverges(t *testing.T) {
	t.Parallel()

	f := func(x float64) float64 { return x*x - 4 }
	df := func(x float64) float64 { return 2 * x }

	root, err := newtonRaphson(f, df, 3)
	if err != nil {
		t.Fatalf("newtonRaphson: %v", err)
	}
	if math.Abs(root-2) > 1e-9 {
		t.Fatalf("root = %.12f, want 2", root)
	}
}

func TestNewtonRaphsonZeroDerivative(t *testing.T) {
	t.Parallel()

	f := func(x float64) float64 { return x*x + 1 }
	df := func(float64) float64 { return 0 }

	if _, err := newtonRaphson(f, df, 1); !errors.Is(err, ErrZeroDerivative) {
		t.Fatalf("got %v, want ErrZeroDerivative", err)
	}
}

func TestNewtonRaphsonExhaustsIterations(t *testing.T) {
	t.Parallel()

	// A constant residual keeps the step at 1 forever.
	f := func(float64) float64 { return 1 }
	df := func(float64) float64 { return 1 }

	if _, err := newtonRaphson(f, df, 0); !errors.Is(err, ErrNotConverged) {
		t.Fatalf("got %v, want ErrNotConverged", err)
	}
}
