package dld_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/hinfsyn/internal/dld"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("Registry", func() {
	var (
		reg   *dld.Registry
		calls int
	)

	sum := dld.Function{
		Name:  "sum2",
		Usage: "s = sum2 (a, b)",
		Arity: 2,
		Fn: func(args []dld.Value, nargout int) ([]dld.Value, error) {
			calls++
			a, err := dld.DoubleValue(args[0])
			if err != nil {
				return nil, err
			}
			b, err := dld.DoubleValue(args[1])
			if err != nil {
				return nil, err
			}
			return []dld.Value{a + b}, nil
		},
	}

	BeforeEach(func() {
		calls = 0
		reg = dld.NewRegistry()
		Expect(reg.Register(sum)).To(Succeed())
	})

	It("calls a function with the declared arity", func() {
		out, err := reg.Call("sum2", 1, 1.5, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]dld.Value{3.5}))
		Expect(calls).To(Equal(1))
	})

	DescribeTable("rejects the wrong arity without running the body",
		func(args []dld.Value) {
			out, err := reg.Call("sum2", 1, args...)
			Expect(err).To(MatchError(dld.ErrUsage))
			Expect(out).To(BeNil())
			Expect(calls).To(BeZero())

			var ue *dld.UsageError
			Expect(errors.As(err, &ue)).To(BeTrue())
			Expect(ue.Want).To(Equal(2))
			Expect(ue.Got).To(Equal(len(args)))
			Expect(ue.Error()).To(ContainSubstring("s = sum2 (a, b)"))
		},
		Entry("no arguments", []dld.Value{}),
		Entry("one argument", []dld.Value{1.0}),
		Entry("three arguments", []dld.Value{1.0, 2.0, 3.0}),
	)

	It("drops results when the body fails", func() {
		out, err := reg.Call("sum2", 1, "x", 2)
		Expect(err).To(MatchError(dld.ErrType))
		Expect(out).To(BeNil())
	})

	It("reports unknown functions", func() {
		_, err := reg.Call("missing", 1)
		Expect(err).To(MatchError(dld.ErrUnknownFunction))
	})

	It("refuses duplicate registrations", func() {
		Expect(reg.Register(sum)).To(MatchError(dld.ErrDuplicate))
	})

	It("lists names in order", func() {
		Expect(reg.Register(dld.Function{Name: "abs", Arity: -1, Fn: sum.Fn})).To(Succeed())
		Expect(reg.Names()).To(Equal([]string{"abs", "sum2"}))
	})
})

var _ = Describe("Conversions", func() {
	It("reads matrices from several representations", func() {
		m, err := dld.MatrixValue([][]float64{{1, 2}, {3, 4}})
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.Equal(m, mat.NewDense(2, 2, []float64{1, 2, 3, 4}))).To(BeTrue())

		s, err := dld.MatrixValue(2.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.At(0, 0)).To(Equal(2.0))

		d, err := dld.MatrixValue(mat.NewDiagDense(2, []float64{1, 1}))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.At(1, 1)).To(Equal(1.0))
	})

	It("rejects ragged or foreign values", func() {
		_, err := dld.MatrixValue([][]float64{{1, 2}, {3}})
		Expect(err).To(MatchError(dld.ErrType))
		_, err = dld.MatrixValue("abc")
		Expect(err).To(MatchError(dld.ErrType))
		_, err = dld.MatrixValue((*mat.Dense)(nil))
		Expect(err).To(MatchError(dld.ErrType))
	})

	It("accepts integral floats as integers only", func() {
		n, err := dld.IntValue(3.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))
		_, err = dld.IntValue(3.2)
		Expect(err).To(MatchError(dld.ErrType))
	})

	It("widens integers to doubles", func() {
		v, err := dld.DoubleValue(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(4.0))
	})
})
