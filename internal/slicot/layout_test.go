package slicot

import (
	"testing"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"
)

func TestColMajorRoundTrip(t *testing.T) {
	g := NewWithT(t)
	m := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	buf := colMajor(m, 4, 3)
	g.Expect(buf).To(HaveLen(12))
	g.Expect(buf[:4]).To(Equal([]float64{1, 4, 0, 0}))
	g.Expect(buf[4:6]).To(Equal([]float64{2, 5}))

	back := fromColMajor(buf, 4, 2, 3)
	g.Expect(mat.Equal(back, m)).To(BeTrue())
}

func TestColMajorPadsToKernelShape(t *testing.T) {
	g := NewWithT(t)
	narrow := mat.NewDense(3, 1, []float64{1, 2, 3})

	buf := colMajor(narrow, 3, 3)
	g.Expect(buf).To(Equal([]float64{1, 2, 3, 0, 0, 0, 0, 0, 0}))

	wide := mat.NewDense(1, 3, []float64{1, 2, 3})
	g.Expect(colMajor(wide, 1, 2)).To(Equal([]float64{1, 2}))
	g.Expect(colMajor(wide, 1, 0)).To(HaveLen(1))
}

func TestFromColMajorZeroDims(t *testing.T) {
	g := NewWithT(t)
	out := fromColMajor([]float64{0}, 1, 0, 3)
	r, c := out.Dims()
	g.Expect(r).To(Equal(0))
	g.Expect(c).To(Equal(0))
}

func TestOutBuffer(t *testing.T) {
	g := NewWithT(t)
	g.Expect(outBuffer(3, 2)).To(HaveLen(6))
	g.Expect(outBuffer(1, 0)).To(HaveLen(1))
	g.Expect(outBuffer(1, -2)).To(HaveLen(1))
}

func TestOutcomeTagging(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Completed(0)).To(Equal(Result{Outcome: Success}))
	g.Expect(Completed(3)).To(Equal(Result{Outcome: Failure, Info: 3}))
	g.Expect(Trapped().Outcome).To(Equal(Exception))
	g.Expect(Exception.String()).To(Equal("exception"))
}
