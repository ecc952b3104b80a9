// Package analysis checks a synthesized closed loop against its target.
//
//   - [ImpulseResponses]: z(t) for a unit impulse on each exogenous input
//   - [PeakGain]: H-infinity norm estimate from the impulse-response spectrum
//   - [Estimate]: both of the above with an RK4 integrator
//
// The estimate is a sampled lower bound of sup_w sigma_max(G(jw)); a loop
// synthesized for level gamma should satisfy
//
//	gain, _ := analysis.Estimate(ctx, loop, 0.01, 50)
//	ok := gain.Value < gamma
package analysis
