package optim

import (
	"context"
	"fmt"
)

// Bisection narrows [Lo, Hi] until (Hi-Lo) <= Tol*Hi or MaxIter syntheses
// have run after the initial check of Hi.
type Bisection struct {
	Lo      float64
	Hi      float64
	Tol     float64
	MaxIter int
}

func DefaultBisection() Bisection {
	return Bisection{Lo: 0, Hi: 100, Tol: 1e-3, MaxIter: 60}
}

// Result is the smallest feasible gamma found and its controller.
type Result struct {
	Outcome
	Lower      float64
	Iterations int
}

func (b Bisection) validate() error {
	if b.Lo < 0 || b.Hi <= b.Lo {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, b.Lo, b.Hi)
	}
	if b.Tol <= 0 || b.MaxIter <= 0 {
		return fmt.Errorf("%w: tol=%g maxiter=%d", ErrInvalidRange, b.Tol, b.MaxIter)
	}
	return nil
}

func (b Bisection) Search(ctx context.Context, s Synthesizer, p Problem) (*Result, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	k, err := s.Synthesize(p.Plant, p.NCon, p.NMeas, b.Hi)
	if err != nil {
		if Infeasible(err) {
			return nil, fmt.Errorf("%w: gamma=%g: %v", ErrInfeasible, b.Hi, err)
		}
		return nil, err
	}

	res := &Result{Outcome: Outcome{Gamma: b.Hi, Controller: k}, Lower: b.Lo}
	lo, hi := b.Lo, b.Hi
	for res.Iterations < b.MaxIter && hi-lo > b.Tol*hi {
		if err := ctx.Err(); err != nil {
			res.Lower = lo
			return res, err
		}
		mid := 0.5 * (lo + hi)
		res.Iterations++

		k, err := s.Synthesize(p.Plant, p.NCon, p.NMeas, mid)
		switch {
		case err == nil:
			hi = mid
			res.Gamma, res.Controller = mid, k
		case Infeasible(err):
			lo = mid
		default:
			return nil, err
		}
	}
	res.Lower = lo
	return res, nil
}
