package slicot

import (
	"errors"
	"fmt"
)

const routine = "SB10FD"

var (
	// ErrKernelException indicates a trapped floating-point exception inside SB10FD.
	ErrKernelException = errors.New("hinfsyn: slsb10fd: exception in SLICOT subroutine SB10FD")

	// ErrStatus is wrapped by every StatusError.
	ErrStatus = errors.New("hinfsyn: slsb10fd: nonzero SB10FD status")

	// ErrNotBuilt indicates the native kernel was not compiled in.
	ErrNotBuilt = errors.New("slicot: native SB10FD kernel not built (rebuild with cgo and -tags slicot)")

	// ErrNilMatrix indicates a missing plant matrix.
	ErrNilMatrix = errors.New("slicot: nil plant matrix")
)

// StatusError reports a nonzero INFO returned by the kernel. The value is
// passed through verbatim; its meaning is documented with SB10FD.
type StatusError struct {
	Routine string
	Info    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hinfsyn: slsb10fd: %s returned info = %d", e.Routine, e.Info)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Info extracts the INFO value from err, if err carries one.
func Info(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Info, true
	}
	return 0, false
}
