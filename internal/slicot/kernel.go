package slicot

// Call carries every SB10FD argument in Fortran order. Matrices are
// column-major with the paired leading dimension. The kernel writes AK, BK,
// CK, DK and RCond in place.
type Call struct {
	N, M, NP    int
	NCon, NMeas int
	Gamma       float64

	A   []float64
	LDA int
	B   []float64
	LDB int
	C   []float64
	LDC int
	D   []float64
	LDD int

	AK   []float64
	LDAK int
	BK   []float64
	LDBK int
	CK   []float64
	LDCK int
	DK   []float64
	LDDK int

	RCond []float64
	Tol   float64

	IWork  []int32
	DWork  []float64
	LDWork int
	BWork  []int32
}

// Outcome tags how a kernel invocation ended.
type Outcome int

const (
	// Success means the kernel returned with INFO = 0.
	Success Outcome = iota
	// Exception means a floating-point exception was trapped during the call.
	Exception
	// Failure means the kernel returned a nonzero INFO.
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Exception:
		return "exception"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of one kernel invocation.
type Result struct {
	Outcome Outcome
	Info    int
}

// Completed builds the Result of a kernel that returned normally.
func Completed(info int) Result {
	if info != 0 {
		return Result{Outcome: Failure, Info: info}
	}
	return Result{Outcome: Success}
}

// Trapped builds the Result of a kernel that raised an exception.
func Trapped() Result {
	return Result{Outcome: Exception}
}

// Kernel is the external SB10FD implementation. SB10FD runs synchronously on
// the calling goroutine.
type Kernel interface {
	SB10FD(call *Call) Result
}

// KernelFunc adapts a function to the Kernel interface.
type KernelFunc func(call *Call) Result

func (f KernelFunc) SB10FD(call *Call) Result {
	return f(call)
}
