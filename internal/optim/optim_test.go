package optim

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/slicot"
	"github.com/san-kum/hinfsyn/internal/slicot/slicottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func problem() Problem {
	return Problem{
		Plant: &lti.System{
			A: mat.NewDense(2, 2, []float64{0, 1, -1, -1}),
			B: mat.NewDense(2, 2, []float64{0, 0, 1, 1}),
			C: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
			D: mat.NewDense(2, 2, []float64{0, 1, 1, 0}),
		},
		NCon:  1,
		NMeas: 1,
	}
}

func synth(t *testing.T, k slicot.Kernel) *slicot.Synthesizer {
	t.Helper()
	s, err := slicot.New(slicot.WithKernel(k))
	require.NoError(t, err)
	return s
}

func TestBisectionConverges(t *testing.T) {
	kernel := &slicottest.Kernel{MinGamma: 1.7}
	b := Bisection{Lo: 0.5, Hi: 10, Tol: 1e-4, MaxIter: 100}

	res, err := b.Search(context.Background(), synth(t, kernel), problem())
	require.NoError(t, err)
	assert.True(t, res.Feasible())
	assert.GreaterOrEqual(t, res.Gamma, 1.7)
	assert.InDelta(t, 1.7, res.Gamma, 1e-3)
	assert.Less(t, res.Lower, 1.7)
	assert.Equal(t, res.Iterations+1, len(kernel.Calls()))
}

func TestBisectionInfeasibleUpperBound(t *testing.T) {
	kernel := &slicottest.Kernel{MinGamma: 20}
	b := Bisection{Lo: 0, Hi: 10, Tol: 1e-3, MaxIter: 10}

	_, err := b.Search(context.Background(), synth(t, kernel), problem())
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.Len(t, kernel.Calls(), 1)
}

func TestBisectionKernelException(t *testing.T) {
	b := Bisection{Lo: 0, Hi: 10, Tol: 1e-3, MaxIter: 10}
	_, err := b.Search(context.Background(), synth(t, &slicottest.Kernel{Trap: true}), problem())
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestBisectionArgumentError(t *testing.T) {
	p := problem()
	p.NCon = 3
	b := Bisection{Lo: 0, Hi: 10, Tol: 1e-3, MaxIter: 10}

	_, err := b.Search(context.Background(), synth(t, slicottest.New()), p)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInfeasible))
	info, ok := slicot.Info(err)
	assert.True(t, ok)
	assert.Negative(t, info)
}

func TestBisectionInvalidRange(t *testing.T) {
	for _, b := range []Bisection{
		{Lo: 2, Hi: 1, Tol: 1e-3, MaxIter: 10},
		{Lo: -1, Hi: 1, Tol: 1e-3, MaxIter: 10},
		{Lo: 0, Hi: 1, Tol: 0, MaxIter: 10},
		{Lo: 0, Hi: 1, Tol: 1e-3, MaxIter: 0},
	} {
		_, err := b.Search(context.Background(), synth(t, slicottest.New()), problem())
		assert.ErrorIs(t, err, ErrInvalidRange)
	}
}

func TestBisectionCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := DefaultBisection().Search(ctx, synth(t, slicottest.New()), problem())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 100.0, res.Gamma)
}

// cancelAfter cancels its context once n syntheses have run.
type cancelAfter struct {
	Synthesizer
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Synthesize(plant *lti.System, ncon, nmeas int, gamma float64) (*lti.Controller, error) {
	k, err := c.Synthesizer.Synthesize(plant, ncon, nmeas, gamma)
	if c.n--; c.n == 0 {
		c.cancel()
	}
	return k, err
}

func TestBisectionCanceledKeepsBracket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &cancelAfter{Synthesizer: synth(t, &slicottest.Kernel{MinGamma: 30}), n: 4, cancel: cancel}

	// 100 ok, 50 ok, 25 infeasible, 37.5 ok.
	res, err := DefaultBisection().Search(ctx, s, problem())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 37.5, res.Gamma)
	assert.Equal(t, 25.0, res.Lower)
}

func TestGridSearch(t *testing.T) {
	kernel := &slicottest.Kernel{MinGamma: 2.5}
	gammas := Linspace(1, 5, 9)

	outcomes := NewGridSearch(gammas, 4).Search(context.Background(), synth(t, kernel), problem())
	require.Len(t, outcomes, 9)
	for i, o := range outcomes {
		assert.Equal(t, gammas[i], o.Gamma)
		assert.Equal(t, o.Gamma >= 2.5, o.Feasible(), "gamma %g", o.Gamma)
		if !o.Feasible() {
			assert.True(t, Infeasible(o.Err))
		}
	}

	best, ok := Best(outcomes)
	require.True(t, ok)
	assert.Equal(t, 2.5, best.Gamma)
	assert.Len(t, kernel.Calls(), 9)
}

func TestGridSearchNotify(t *testing.T) {
	gammas := []float64{1, 2, 3, 4, 5}
	var (
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	outcomes := NewGridSearch(gammas, 3).Notify(func(idx int, o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		seen[idx] = o.Feasible()
	}).Search(context.Background(), synth(t, &slicottest.Kernel{MinGamma: 2.5}), problem())

	require.Len(t, seen, len(gammas))
	for i, o := range outcomes {
		assert.Equal(t, o.Feasible(), seen[i], "gamma %g", o.Gamma)
	}
}

func TestBestNoneFeasible(t *testing.T) {
	_, ok := Best([]Outcome{{Gamma: 1, Err: slicot.ErrKernelException}})
	assert.False(t, ok)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{4}, Linspace(0, 4, 1))
}
