package lti

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ClosedLoop returns the lower linear fractional interconnection of the
// plant with controller k, mapping w to z. With R = (I - DK D22)^-1 the
// control signal is u = R (DK C2 x + CK xk + DK D21 w).
func ClosedLoop(plant *System, ncon, nmeas int, k *Controller) (*System, error) {
	if err := plant.Validate(); err != nil {
		return nil, err
	}
	part, err := plant.Partition(ncon, nmeas)
	if err != nil {
		return nil, err
	}
	if part.M1 == 0 || part.NP1 == 0 {
		return nil, fmt.Errorf("%w: m1=%d np1=%d", ErrNoExogenous, part.M1, part.NP1)
	}
	if err := k.System().Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	if _, km, kp := k.System().Dims(); km != nmeas || kp != ncon {
		return nil, fmt.Errorf("%w: controller maps %d inputs to %d outputs, want %d to %d",
			ErrDimensionMismatch, km, kp, nmeas, ncon)
	}

	n, m, p := plant.Dims()
	b1 := plant.B.Slice(0, n, 0, part.M1)
	b2 := plant.B.Slice(0, n, part.M1, m)
	c1 := plant.C.Slice(0, part.NP1, 0, n)
	c2 := plant.C.Slice(part.NP1, p, 0, n)
	d11 := plant.D.Slice(0, part.NP1, 0, part.M1)
	d12 := plant.D.Slice(0, part.NP1, part.M1, m)
	d21 := plant.D.Slice(part.NP1, p, 0, part.M1)
	d22 := plant.D.Slice(part.NP1, p, part.M1, m)

	imr := eye(ncon)
	imr.Sub(imr, mul(k.DK, d22))
	var r mat.Dense
	if err := r.Inverse(imr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllPosed, err)
	}

	ux := mul(&r, mul(k.DK, c2))
	uk := mul(&r, k.CK)
	uw := mul(&r, mul(k.DK, d21))

	yx := add(c2, mul(d22, ux))
	yk := mul(d22, uk)
	yw := add(d21, mul(d22, uw))

	return &System{
		A: assemble([][]mat.Matrix{
			{add(plant.A, mul(b2, ux)), mul(b2, uk)},
			{mul(k.BK, yx), add(k.AK, mul(k.BK, yk))},
		}),
		B: assemble([][]mat.Matrix{
			{add(b1, mul(b2, uw))},
			{mul(k.BK, yw)},
		}),
		C: assemble([][]mat.Matrix{
			{add(c1, mul(d12, ux)), mul(d12, uk)},
		}),
		D: add(d11, mul(d12, uw)),
	}, nil
}

func eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

func mul(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

func add(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Add(a, b)
	return &out
}

// assemble builds a block matrix from a grid whose rows share heights and
// whose columns share widths.
func assemble(grid [][]mat.Matrix) *mat.Dense {
	rows, cols := 0, 0
	for _, row := range grid {
		r, _ := row[0].Dims()
		rows += r
	}
	for _, blk := range grid[0] {
		_, c := blk.Dims()
		cols += c
	}
	out := mat.NewDense(rows, cols, nil)
	i := 0
	for _, row := range grid {
		r, _ := row[0].Dims()
		j := 0
		for _, blk := range row {
			_, c := blk.Dims()
			out.Slice(i, i+r, j, j+c).(*mat.Dense).Copy(blk)
			j += c
		}
		i += r
	}
	return out
}
