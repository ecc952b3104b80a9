package dld

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MatrixValue converts v to a matrix. Scalars become 1×1 matrices and
// [][]float64 is read row by row.
func MatrixValue(v Value) (*mat.Dense, error) {
	switch x := v.(type) {
	case *mat.Dense:
		if x == nil {
			return nil, fmt.Errorf("%w: nil matrix", ErrType)
		}
		return x, nil
	case mat.Matrix:
		return mat.DenseCopyOf(x), nil
	case [][]float64:
		return fromRows(x)
	case float64:
		return mat.NewDense(1, 1, []float64{x}), nil
	case int:
		return mat.NewDense(1, 1, []float64{float64(x)}), nil
	default:
		return nil, fmt.Errorf("%w: %T is not a matrix", ErrType, v)
	}
}

func fromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrType)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrType, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// IntValue converts v to an int. Floats must be integral.
func IntValue(v Value) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrType, x)
		}
		return int(x), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrType, v)
	}
}

// DoubleValue converts v to a float64.
func DoubleValue(v Value) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%w: %T is not a real scalar", ErrType, v)
	}
}
