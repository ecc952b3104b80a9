//go:build slicot && cgo

package slicot

/*
#cgo LDFLAGS: -lslicot -llapack -lblas -lgfortran -lm
#include <fenv.h>

extern void sb10fd_(int* n, int* m, int* np, int* ncon, int* nmeas,
	double* gamma,
	double* a, int* lda, double* b, int* ldb,
	double* c, int* ldc, double* d, int* ldd,
	double* ak, int* ldak, double* bk, int* ldbk,
	double* ck, int* ldck, double* dk, int* lddk,
	double* rcond, double* tol,
	int* iwork, double* dwork, int* ldwork, int* bwork,
	int* info);

// Clearing and testing the flags inside one C call keeps both on the same
// OS thread.
static int hinfsyn_sb10fd(int n, int m, int np, int ncon, int nmeas,
	double gamma,
	double* a, int lda, double* b, int ldb,
	double* c, int ldc, double* d, int ldd,
	double* ak, int ldak, double* bk, int ldbk,
	double* ck, int ldck, double* dk, int lddk,
	double* rcond, double tol,
	int* iwork, double* dwork, int ldwork, int* bwork,
	int* info)
{
	feclearexcept(FE_ALL_EXCEPT);
	sb10fd_(&n, &m, &np, &ncon, &nmeas, &gamma,
		a, &lda, b, &ldb, c, &ldc, d, &ldd,
		ak, &ldak, bk, &ldbk, ck, &ldck, dk, &lddk,
		rcond, &tol, iwork, dwork, &ldwork, bwork, info);
	return fetestexcept(FE_INVALID | FE_DIVBYZERO) != 0;
}
*/
import "C"

import "unsafe"

// Native calls the SB10FD routine of the linked SLICOT library.
type Native struct{}

// DefaultKernel returns the linked SLICOT library.
func DefaultKernel() (Kernel, error) {
	return Native{}, nil
}

func (Native) SB10FD(call *Call) Result {
	var info C.int
	trapped := C.hinfsyn_sb10fd(
		C.int(call.N), C.int(call.M), C.int(call.NP), C.int(call.NCon), C.int(call.NMeas),
		C.double(call.Gamma),
		dptr(call.A), C.int(call.LDA), dptr(call.B), C.int(call.LDB),
		dptr(call.C), C.int(call.LDC), dptr(call.D), C.int(call.LDD),
		dptr(call.AK), C.int(call.LDAK), dptr(call.BK), C.int(call.LDBK),
		dptr(call.CK), C.int(call.LDCK), dptr(call.DK), C.int(call.LDDK),
		dptr(call.RCond), C.double(call.Tol),
		iptr(call.IWork), dptr(call.DWork), C.int(call.LDWork), iptr(call.BWork),
		&info)
	if trapped != 0 {
		return Trapped()
	}
	return Completed(int(info))
}

func dptr(s []float64) *C.double {
	return (*C.double)(unsafe.Pointer(&s[0]))
}

func iptr(s []int32) *C.int {
	return (*C.int)(unsafe.Pointer(&s[0]))
}
