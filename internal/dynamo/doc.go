// Package dynamo provides the core value types shared by every part of the
// pendulum simulation:
//
//   - [State]: the angular state (two angles, two angular velocities)
//   - [Params]: rod lengths, masses, gravity and damping, fixed per run
//   - [Result]: the record of a headless run
//
// State is a plain value. Step functions take a State and return the next
// one; nothing in this package holds mutable simulation data.
//
// # Example
//
//	p := dynamo.DefaultParams()
//	s := dynamo.InitialState()
//	s = integrators.NewSemiImplicitEuler().Step(physics.NewDoublePendulum(p), s)
package dynamo
