package optim

import (
	"context"
	"sync"
)

// GridSearch synthesizes at every gamma concurrently. Each synthesis uses
// its own workspace, so no state is shared between the goroutines.
type GridSearch struct {
	gammas  []float64
	workers int
	notify  func(idx int, o Outcome)
}

func NewGridSearch(gammas []float64, workers int) *GridSearch {
	if workers < 1 {
		workers = 1
	}
	return &GridSearch{gammas: gammas, workers: workers}
}

// Notify registers fn to receive every outcome as soon as it is known. fn
// is called from the worker goroutines.
func (g *GridSearch) Notify(fn func(idx int, o Outcome)) *GridSearch {
	g.notify = fn
	return g
}

// Search returns one outcome per gamma, in input order. Outcomes skipped by
// cancellation carry ctx.Err().
func (g *GridSearch) Search(ctx context.Context, s Synthesizer, p Problem) []Outcome {
	outcomes := make([]Outcome, len(g.gammas))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < g.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				gamma := g.gammas[idx]
				o := Outcome{Gamma: gamma, Err: ctx.Err()}
				if o.Err == nil {
					o.Controller, o.Err = s.Synthesize(p.Plant, p.NCon, p.NMeas, gamma)
				}
				outcomes[idx] = o
				if g.notify != nil {
					g.notify(idx, o)
				}
			}
		}()
	}

	for i := range g.gammas {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// Best returns the feasible outcome with the smallest gamma.
func Best(outcomes []Outcome) (Outcome, bool) {
	var best Outcome
	found := false
	for _, o := range outcomes {
		if o.Feasible() && (!found || o.Gamma < best.Gamma) {
			best, found = o, true
		}
	}
	return best, found
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{hi}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
