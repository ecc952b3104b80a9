// Package dynamo provides the simulation primitives used to exercise a
// synthesized closed loop.
//
//   - [State]: state vector x
//   - [Input], [Output]: exogenous input w and performance output z
//   - [System]: dx/dt = f(x, w, t); [Observable] adds z = h(x, w, t)
//   - [Integrator]: numerical stepper
//   - [Source]: exogenous signal generator
//   - [Metric], [Observer]: per-step hooks
//
// # Example
//
//	loop, _ := lti.ClosedLoop(plant, ncon, nmeas, ctrl)
//	s := sim.New(loop, integrators.NewRK4(), sim.Step(loop.InputDim(), 0, 1))
//	result, _ := s.Run(ctx, make(dynamo.State, loop.StateDim()), dynamo.DefaultConfig())
package dynamo
