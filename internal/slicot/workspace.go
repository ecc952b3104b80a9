package slicot

// Dims holds the integer dimension parameters passed to SB10FD.
type Dims struct {
	N     int // plant order
	M     int // total plant inputs
	NP    int // total plant outputs
	NCon  int // control inputs (M2)
	NMeas int // measurements (NP2)
}

// Partition returns the channel split M1, M2, NP1, NP2.
func (d Dims) Partition() (m1, m2, np1, np2 int) {
	return d.M - d.NCon, d.NCon, d.NP - d.NMeas, d.NMeas
}

// Q is the largest partition size; it drives the real workspace bound.
func (d Dims) Q() int {
	m1, m2, np1, np2 := d.Partition()
	return max(m1, m2, np1, np2)
}

// LIWork is the length of IWORK.
func LIWork(d Dims) int {
	return max(2*max(d.N, d.M-d.NCon, d.NP-d.NMeas, d.NCon), d.N*d.N)
}

// LDWork is the length of DWORK. The expression is the minimum documented by
// SB10FD and must not be altered; an undersized DWORK corrupts the kernel.
func LDWork(d Dims) int {
	n, q := d.N, d.Q()
	return 2*q*(3*q+2*n) + max(1, (n+q)*(n+q+6), q*(q+max(n, q, 5)+1),
		2*n*(n+2*q)+max(1, 4*q*q+max(2*q, 3*n*n+max(2*n*q, 10*n*n+12*n+5)),
			q*(3*n+3*q+max(2*n, 4*q+max(n, q)))))
}

// LBWork is the length of BWORK.
func LBWork(d Dims) int {
	return 2 * d.N
}

// Workspace is the scratch memory of a single SB10FD call. BWORK is a
// Fortran LOGICAL array, so each entry is a 4-byte integer.
type Workspace struct {
	IWork []int32
	DWork []float64
	BWork []int32

	// LDWork is the value passed as LDWORK. It equals LDWork(d) even when
	// that is not positive, so the kernel can reject it itself.
	LDWork int
}

// NewWorkspace allocates fresh work arrays for d. Every array holds at least
// one element so a valid pointer can always be handed to the kernel.
func NewWorkspace(d Dims) *Workspace {
	ldwork := LDWork(d)
	return &Workspace{
		IWork:  make([]int32, max(1, LIWork(d))),
		DWork:  make([]float64, max(1, ldwork)),
		BWork:  make([]int32, max(1, LBWork(d))),
		LDWork: ldwork,
	}
}
