package slicot

import (
	"github.com/san-kum/hinfsyn/internal/dld"
	"gonum.org/v1/gonum/mat"
)

const (
	// FunctionName is the registered host name of the SB10FD binding.
	FunctionName = "slsb10fd"
	usage        = "Slicot SB10FD Release 5.0"
	arity        = 7
)

// Function returns the host entry [AK, BK, CK, DK] = slsb10fd(A, B, C, D,
// NCON, NMEAS, GAMMA). TOL is always zero here.
func (s *Synthesizer) Function() dld.Function {
	return dld.Function{
		Name:  FunctionName,
		Usage: usage,
		Arity: arity,
		Fn:    s.call,
	}
}

// Register installs the SB10FD binding in reg.
func Register(reg *dld.Registry, s *Synthesizer) error {
	return reg.Register(s.Function())
}

func (s *Synthesizer) call(args []dld.Value, nargout int) ([]dld.Value, error) {
	var mats [4]*mat.Dense
	for i := range mats {
		m, err := dld.MatrixValue(args[i])
		if err != nil {
			return nil, &dld.ArgError{Func: FunctionName, Index: i, Err: err}
		}
		mats[i] = m
	}
	ncon, err := dld.IntValue(args[4])
	if err != nil {
		return nil, &dld.ArgError{Func: FunctionName, Index: 4, Err: err}
	}
	nmeas, err := dld.IntValue(args[5])
	if err != nil {
		return nil, &dld.ArgError{Func: FunctionName, Index: 5, Err: err}
	}
	gamma, err := dld.DoubleValue(args[6])
	if err != nil {
		return nil, &dld.ArgError{Func: FunctionName, Index: 6, Err: err}
	}

	k, err := s.sb10fd(mats[0], mats[1], mats[2], mats[3], ncon, nmeas, gamma, 0)
	if err != nil {
		return nil, err
	}
	return []dld.Value{k.AK, k.BK, k.CK, k.DK}, nil
}
