//go:build !slicot || !cgo

package slicot

// DefaultKernel reports ErrNotBuilt in builds without the native library.
func DefaultKernel() (Kernel, error) {
	return nil, ErrNotBuilt
}
