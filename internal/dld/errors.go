package dld

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is wrapped by every UsageError.
	ErrUsage = errors.New("dld: invalid call")

	// ErrUnknownFunction indicates a call to a name that was never registered.
	ErrUnknownFunction = errors.New("dld: unknown function")

	// ErrDuplicate indicates a second registration under the same name.
	ErrDuplicate = errors.New("dld: function already registered")

	// ErrType indicates an argument that cannot be converted to the requested type.
	ErrType = errors.New("dld: wrong argument type")
)

// UsageError reports a call with the wrong number of arguments.
type UsageError struct {
	Name  string
	Usage string
	Got   int
	Want  int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("Invalid call to %s (%d arguments, want %d). Correct usage is: %s",
		e.Name, e.Got, e.Want, e.Usage)
}

func (e *UsageError) Unwrap() error {
	return ErrUsage
}

// ArgError reports a single argument that failed conversion.
type ArgError struct {
	Func  string
	Index int
	Err   error
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("%s: argument %d: %v", e.Func, e.Index+1, e.Err)
}

func (e *ArgError) Unwrap() error {
	return e.Err
}
