package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/hinfsyn/internal/dynamo"
	"github.com/san-kum/hinfsyn/internal/integrators"
	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/sim"
	"gonum.org/v1/gonum/mat"
)

// Gain is a peak singular value of the frequency response and where it occurs.
type Gain struct {
	Value float64
	Omega float64
}

// ImpulseResponses returns, for each input i, the samples of z = C x(t)
// starting from x(0) = B e_i with zero input. The direct feedthrough D is not
// part of the samples.
func ImpulseResponses(ctx context.Context, sys *lti.System, integ dynamo.Integrator, dt, duration float64) ([][]dynamo.Output, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	n, m, _ := sys.Dims()
	cfg := dynamo.DefaultConfig()
	cfg.Dt = dt
	cfg.Duration = duration

	responses := make([][]dynamo.Output, m)
	for i := 0; i < m; i++ {
		x0 := make(dynamo.State, n)
		for j := 0; j < n; j++ {
			x0[j] = sys.B.At(j, i)
		}
		res, err := sim.New(sys, integ, nil).Run(ctx, x0, cfg)
		if err != nil {
			return nil, err
		}
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("analysis: impulse on input %d: %w", i, res.Errors[0])
		}
		responses[i] = res.Outputs
	}
	return responses, nil
}

// PeakGain estimates max_k sigma_max(G(j w_k)) with
//
//	G(j w_k) = D + dt * sum_t h(t) exp(-j w_k t)
//
// over the non-negative FFT bins w_k = 2 pi k / (N dt). The first sample
// carries half weight (trapezoidal rule).
func PeakGain(h [][]dynamo.Output, d mat.Matrix, dt float64) (Gain, error) {
	p, m := d.Dims()
	if len(h) != m {
		return Gain{}, fmt.Errorf("analysis: %d impulse responses for %d inputs", len(h), m)
	}
	samples := len(h[0])
	if samples == 0 {
		return Gain{}, fmt.Errorf("analysis: empty impulse response")
	}

	// spectra[i][j] is the spectrum of output j for input i.
	spectra := make([][][]complex128, m)
	for i := range h {
		if len(h[i]) != samples {
			return Gain{}, fmt.Errorf("analysis: ragged impulse responses")
		}
		spectra[i] = make([][]complex128, p)
		series := make([]float64, samples)
		for j := 0; j < p; j++ {
			for t, z := range h[i] {
				series[t] = z[j]
			}
			series[0] *= 0.5
			spectra[i][j] = fft.FFTReal(series)
		}
	}

	best := Gain{Value: math.Inf(-1)}
	embed := mat.NewDense(2*p, 2*m, nil)
	var svd mat.SVD
	for k := 0; k <= samples/2; k++ {
		for i := 0; i < m; i++ {
			for j := 0; j < p; j++ {
				g := complex(d.At(j, i), 0) + complex(dt, 0)*spectra[i][j][k]
				re, im := real(g), imag(g)
				embed.Set(j, i, re)
				embed.Set(j, m+i, -im)
				embed.Set(p+j, i, im)
				embed.Set(p+j, m+i, re)
			}
		}
		if ok := svd.Factorize(embed, mat.SVDNone); !ok {
			return Gain{}, fmt.Errorf("analysis: SVD failed at bin %d", k)
		}
		if s := svd.Values(nil)[0]; s > best.Value {
			best = Gain{Value: s, Omega: 2 * math.Pi * float64(k) / (float64(samples) * dt)}
		}
	}
	return best, nil
}

// Estimate integrates the impulse responses of sys with RK4 and returns
// their peak gain.
func Estimate(ctx context.Context, sys *lti.System, dt, duration float64) (Gain, error) {
	h, err := ImpulseResponses(ctx, sys, integrators.NewRK4(), dt, duration)
	if err != nil {
		return Gain{}, err
	}
	return PeakGain(h, sys.D, dt)
}
