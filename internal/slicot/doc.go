// Package slicot binds the SLICOT routine SB10FD, which synthesizes an
// H-infinity (sub)optimal output-feedback controller for a continuous-time
// plant
//
//	dx/dt = A x + B1 w + B2 u
//	    z = C1 x + D11 w + D12 u
//	    y = C2 x + D21 w + D22 u
//
// The package only marshals: it derives the integer dimension parameters,
// sizes the integer, real and logical work arrays with the closed-form
// formulas from the SB10FD documentation, converts gonum matrices to
// Fortran column-major buffers, invokes the [Kernel] and repackages AK, BK,
// CK and DK. The numerical algorithm is entirely the kernel's.
//
// # Kernels
//
// Building with -tags slicot (and cgo enabled) links the native library
// (libslicot, liblapack, libblas, libgfortran) and makes [DefaultKernel]
// return it. Without the tag [DefaultKernel] reports [ErrNotBuilt]; tests
// and callers may inject any [Kernel] through [WithKernel].
//
// # Results
//
// A kernel call yields a tagged [Result]: success, a trapped floating-point
// exception, or a nonzero INFO status. The shim maps these to a controller,
// [ErrKernelException], or a [*StatusError] carrying the literal INFO value.
// No partial output is ever returned.
//
// # Thread Safety
//
// A [Synthesizer] holds no mutable state. Each call allocates its own
// workspace, so concurrent calls are safe as long as the kernel is.
package slicot
