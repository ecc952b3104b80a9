package lti

import "fmt"

// Partition splits the plant channels into exogenous and control parts:
// B = [B1 B2], C = [C1; C2], with B2 of width M2 = ncon and C2 of height
// NP2 = nmeas.
type Partition struct {
	M1, M2   int
	NP1, NP2 int
}

// Partition checks 1 <= ncon <= m and 1 <= nmeas <= p and returns the split.
func (s *System) Partition(ncon, nmeas int) (Partition, error) {
	_, m, p := s.Dims()
	if ncon < 1 || ncon > m {
		return Partition{}, fmt.Errorf("%w: ncon=%d with %d plant inputs", ErrPartition, ncon, m)
	}
	if nmeas < 1 || nmeas > p {
		return Partition{}, fmt.Errorf("%w: nmeas=%d with %d plant outputs", ErrPartition, nmeas, p)
	}
	return Partition{M1: m - ncon, M2: ncon, NP1: p - nmeas, NP2: nmeas}, nil
}
