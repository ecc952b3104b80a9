package slicot

import (
	"github.com/san-kum/hinfsyn/internal/lti"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Synthesizer invokes SB10FD through a Kernel.
type Synthesizer struct {
	kernel Kernel
	logger *zap.Logger
	tol    float64
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithKernel replaces the default native kernel.
func WithKernel(k Kernel) Option {
	return func(s *Synthesizer) { s.kernel = k }
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// WithTolerance sets TOL for Synthesize. Zero selects the kernel default.
// The host-call entry point always passes zero.
func WithTolerance(tol float64) Option {
	return func(s *Synthesizer) { s.tol = tol }
}

// New returns a Synthesizer. Without WithKernel it binds DefaultKernel and
// fails with ErrNotBuilt when no native kernel is linked.
func New(opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.kernel == nil {
		k, err := DefaultKernel()
		if err != nil {
			return nil, err
		}
		s.kernel = k
	}
	return s, nil
}

// Synthesize computes an H-infinity controller for plant with the last ncon
// inputs as controls and the last nmeas outputs as measurements, targeting
// closed-loop norm gamma.
func (s *Synthesizer) Synthesize(plant *lti.System, ncon, nmeas int, gamma float64) (*lti.Controller, error) {
	if plant == nil {
		return nil, ErrNilMatrix
	}
	return s.SB10FD(plant.A, plant.B, plant.C, plant.D, ncon, nmeas, gamma)
}

// SB10FD runs the kernel on (a, b, c, d). Dimension consistency is left to
// the kernel's own argument checks, reported through a StatusError with a
// negative INFO.
func (s *Synthesizer) SB10FD(a, b, c, d mat.Matrix, ncon, nmeas int, gamma float64) (*lti.Controller, error) {
	return s.sb10fd(a, b, c, d, ncon, nmeas, gamma, s.tol)
}

func (s *Synthesizer) sb10fd(a, b, c, d mat.Matrix, ncon, nmeas int, gamma, tol float64) (*lti.Controller, error) {
	if a == nil || b == nil || c == nil || d == nil {
		return nil, ErrNilMatrix
	}
	ra, _ := a.Dims()
	rb, m := b.Dims()
	rc, _ := c.Dims()
	rd, _ := d.Dims()
	dims := Dims{N: ra, M: m, NP: rc, NCon: ncon, NMeas: nmeas}
	n := dims.N

	call := &Call{
		N:     n,
		M:     dims.M,
		NP:    dims.NP,
		NCon:  ncon,
		NMeas: nmeas,
		Gamma: gamma,
		LDA:   leading(ra),
		LDB:   leading(rb),
		LDC:   leading(rc),
		LDD:   leading(rd),
		LDAK:  leading(n),
		LDBK:  leading(n),
		LDCK:  leading(ncon),
		LDDK:  leading(ncon),
		RCond: make([]float64, 4),
		Tol:   tol,
	}
	// The kernel reads LDA*N, LDB*M, LDC*N and LDD*M entries whatever
	// the column counts of the inputs.
	call.A = colMajor(a, call.LDA, n)
	call.B = colMajor(b, call.LDB, dims.M)
	call.C = colMajor(c, call.LDC, n)
	call.D = colMajor(d, call.LDD, dims.M)
	call.AK = outBuffer(call.LDAK, n)
	call.BK = outBuffer(call.LDBK, nmeas)
	call.CK = outBuffer(call.LDCK, n)
	call.DK = outBuffer(call.LDDK, nmeas)

	ws := NewWorkspace(dims)
	call.IWork, call.DWork, call.LDWork, call.BWork = ws.IWork, ws.DWork, ws.LDWork, ws.BWork

	s.logger.Debug("calling SB10FD",
		zap.Int("n", n), zap.Int("m", dims.M), zap.Int("np", dims.NP),
		zap.Int("ncon", ncon), zap.Int("nmeas", nmeas),
		zap.Float64("gamma", gamma), zap.Float64("tol", tol),
		zap.Int("liwork", LIWork(dims)), zap.Int("ldwork", ws.LDWork), zap.Int("lbwork", LBWork(dims)))

	res := s.kernel.SB10FD(call)
	switch {
	case res.Outcome == Exception:
		s.logger.Debug("SB10FD trapped a floating-point exception")
		return nil, ErrKernelException
	case res.Outcome == Failure || res.Info != 0:
		s.logger.Debug("SB10FD failed", zap.Int("info", res.Info))
		return nil, &StatusError{Routine: routine, Info: res.Info}
	}

	k := &lti.Controller{
		AK: fromColMajor(call.AK, call.LDAK, n, n),
		BK: fromColMajor(call.BK, call.LDBK, n, nmeas),
		CK: fromColMajor(call.CK, call.LDCK, ncon, n),
		DK: fromColMajor(call.DK, call.LDDK, ncon, nmeas),
	}
	copy(k.RCond[:], call.RCond)
	return k, nil
}
