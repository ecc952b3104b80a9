// Package slicottest provides a scriptable SB10FD kernel for tests.
package slicottest

import (
	"fmt"
	"sync"

	"github.com/san-kum/hinfsyn/internal/slicot"
)

// Snapshot records the scalar arguments and buffer sizes of one call.
type Snapshot struct {
	Dims   slicot.Dims
	Gamma  float64
	Tol    float64
	LDA    int
	LDB    int
	LDC    int
	LDD    int
	LDAK   int
	LDBK   int
	LDCK   int
	LDDK   int
	LIWork int
	LDWork int
	DWork  int
	LBWork int

	// Lengths of the A, B, C and D input buffers.
	LenA, LenB, LenC, LenD int
}

// Kernel is a deterministic stand-in for SB10FD. It performs the argument
// checks of the real routine, rejects gamma below MinGamma with Status, and
// otherwise fills
//
//	AK = A - gamma I,  BK = C2',  CK = -B2',  DK = 0
type Kernel struct {
	// MinGamma is the smallest gamma treated as feasible.
	MinGamma float64
	// Status is returned for infeasible gamma; zero means 2.
	Status int
	// Trap makes every call report a floating-point exception.
	Trap bool

	mu    sync.Mutex
	calls []Snapshot
}

func New() *Kernel {
	return &Kernel{}
}

// Calls returns the snapshots recorded so far.
func (k *Kernel) Calls() []Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]Snapshot, len(k.calls))
	copy(out, k.calls)
	return out
}

func (k *Kernel) SB10FD(call *slicot.Call) slicot.Result {
	dims := slicot.Dims{N: call.N, M: call.M, NP: call.NP, NCon: call.NCon, NMeas: call.NMeas}
	k.mu.Lock()
	k.calls = append(k.calls, Snapshot{
		Dims:   dims,
		Gamma:  call.Gamma,
		Tol:    call.Tol,
		LDA:    call.LDA,
		LDB:    call.LDB,
		LDC:    call.LDC,
		LDD:    call.LDD,
		LDAK:   call.LDAK,
		LDBK:   call.LDBK,
		LDCK:   call.LDCK,
		LDDK:   call.LDDK,
		LIWork: len(call.IWork),
		LDWork: call.LDWork,
		DWork:  len(call.DWork),
		LBWork: len(call.BWork),
		LenA:   len(call.A),
		LenB:   len(call.B),
		LenC:   len(call.C),
		LenD:   len(call.D),
	})
	k.mu.Unlock()

	if info := checkArgs(call, dims); info != 0 {
		return slicot.Completed(info)
	}
	if err := checkBuffers(call, dims); err != nil {
		panic(err)
	}
	if k.Trap {
		return slicot.Trapped()
	}
	if call.Gamma < k.MinGamma {
		status := k.Status
		if status == 0 {
			status = 2
		}
		return slicot.Completed(status)
	}

	n := call.N
	m1, _, np1, _ := dims.Partition()
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v := call.A[i+j*call.LDA]
			if i == j {
				v -= call.Gamma
			}
			call.AK[i+j*call.LDAK] = v
		}
	}
	for j := 0; j < call.NMeas; j++ {
		for i := 0; i < n; i++ {
			call.BK[i+j*call.LDBK] = call.C[(np1+j)+i*call.LDC]
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < call.NCon; i++ {
			call.CK[i+j*call.LDCK] = -call.B[j+(m1+i)*call.LDB]
		}
	}
	for j := 0; j < call.NMeas; j++ {
		for i := 0; i < call.NCon; i++ {
			call.DK[i+j*call.LDDK] = 0
		}
	}
	for i := range call.RCond {
		call.RCond[i] = 1
	}
	return slicot.Completed(0)
}

// checkArgs mirrors the INFO < 0 argument checks of SB10FD.
func checkArgs(call *slicot.Call, d slicot.Dims) int {
	m1, m2, np1, np2 := d.Partition()
	switch {
	case d.N < 0:
		return -1
	case d.M < 0:
		return -2
	case d.NP < 0:
		return -3
	case d.NCon < 0 || m1 < 0 || m2 > np1:
		return -4
	case d.NMeas < 0 || np1 < 0 || np2 > m1:
		return -5
	case call.Gamma < 0:
		return -6
	case call.LDA < max(1, d.N):
		return -8
	case call.LDB < max(1, d.N):
		return -10
	case call.LDC < max(1, d.NP):
		return -12
	case call.LDD < max(1, d.NP):
		return -14
	case call.LDAK < max(1, d.N):
		return -16
	case call.LDBK < max(1, d.N):
		return -18
	case call.LDCK < max(1, m2):
		return -20
	case call.LDDK < max(1, m2):
		return -22
	case call.LDWork < slicot.LDWork(d):
		return -27
	}
	return 0
}

func checkBuffers(call *slicot.Call, d slicot.Dims) error {
	switch {
	case len(call.A) < call.LDA*d.N || len(call.B) < call.LDB*d.M ||
		len(call.C) < call.LDC*d.N || len(call.D) < call.LDD*d.M:
		return fmt.Errorf("slicottest: input buffer shorter than the kernel reads")
	case len(call.IWork) < slicot.LIWork(d):
		return fmt.Errorf("slicottest: IWORK has %d entries, need %d", len(call.IWork), slicot.LIWork(d))
	case len(call.DWork) < call.LDWork:
		return fmt.Errorf("slicottest: DWORK has %d entries, LDWORK is %d", len(call.DWork), call.LDWork)
	case len(call.BWork) < slicot.LBWork(d):
		return fmt.Errorf("slicottest: BWORK has %d entries, need %d", len(call.BWork), slicot.LBWork(d))
	case len(call.RCond) < 4:
		return fmt.Errorf("slicottest: RCOND has %d entries", len(call.RCond))
	case len(call.AK) < call.LDAK*d.N || len(call.BK) < call.LDBK*d.NMeas ||
		len(call.CK) < call.LDCK*d.N || len(call.DK) < call.LDDK*d.NMeas:
		return fmt.Errorf("slicottest: controller buffer too small")
	}
	return nil
}
