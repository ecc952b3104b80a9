package metrics

import "github.com/san-kum/hinfsyn/internal/dynamo"

// Stability is the fraction of samples whose state norm stays inside a ball
// of the given radius. Peak holds the largest norm seen.
type Stability struct {
	radius  float64
	inside  int
	samples int
	Peak    float64
}

func NewStability(radius float64) *Stability {
	return &Stability{radius: radius}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, _ dynamo.Input, _ dynamo.Output, _ float64) {
	n := x.Norm()
	s.samples++
	if n <= s.radius {
		s.inside++
	}
	if n > s.Peak {
		s.Peak = n
	}
}

// Value is 1 when nothing has been observed.
func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return float64(s.inside) / float64(s.samples)
}

func (s *Stability) Reset() {
	*s = Stability{radius: s.radius}
}
