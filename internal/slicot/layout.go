package slicot

import "gonum.org/v1/gonum/mat"

// leading returns the Fortran leading dimension for a matrix with rows rows.
func leading(rows int) int {
	return max(1, rows)
}

// colMajor copies m into a zero-padded column-major buffer of ld rows and
// cols columns. Entries of m outside that block are dropped.
func colMajor(m mat.Matrix, ld, cols int) []float64 {
	r, c := m.Dims()
	r, c = min(r, ld), min(c, max(0, cols))
	buf := make([]float64, max(1, ld*max(0, cols)))
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			buf[i+j*ld] = m.At(i, j)
		}
	}
	return buf
}

// outBuffer allocates an output array of ld rows and cols columns.
func outBuffer(ld, cols int) []float64 {
	return make([]float64, max(1, ld*max(0, cols)))
}

// fromColMajor extracts the leading rows×cols block of a column-major buffer.
// A matrix with a zero dimension is returned as an empty Dense.
func fromColMajor(buf []float64, ld, rows, cols int) *mat.Dense {
	if rows <= 0 || cols <= 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out.Set(i, j, buf[i+j*ld])
		}
	}
	return out
}
