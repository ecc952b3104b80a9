// Package optim searches over the performance level gamma by repeated
// synthesis. The binding itself never iterates; this package is its caller.
package optim

import (
	"errors"

	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/slicot"
)

var (
	// ErrInfeasible indicates no gamma in the searched range admitted a controller.
	ErrInfeasible = errors.New("optim: no feasible gamma in range")

	// ErrInvalidRange indicates bounds or tolerance that cannot be searched.
	ErrInvalidRange = errors.New("optim: invalid gamma range")
)

// Synthesizer is satisfied by *slicot.Synthesizer.
type Synthesizer interface {
	Synthesize(plant *lti.System, ncon, nmeas int, gamma float64) (*lti.Controller, error)
}

// Problem fixes the plant and its channel partition.
type Problem struct {
	Plant *lti.System
	NCon  int
	NMeas int
}

// Outcome is the result of synthesis at one gamma.
type Outcome struct {
	Gamma      float64
	Controller *lti.Controller
	Err        error
}

func (o Outcome) Feasible() bool {
	return o.Err == nil && o.Controller != nil
}

// Infeasible reports whether err means "no controller at this gamma" as
// opposed to a malformed problem. Positive INFO codes and trapped kernel
// exceptions count as infeasible; negative INFO codes flag bad arguments.
func Infeasible(err error) bool {
	if errors.Is(err, slicot.ErrKernelException) {
		return true
	}
	info, ok := slicot.Info(err)
	return ok && info > 0
}
