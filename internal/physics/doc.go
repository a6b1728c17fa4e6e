// Package physics provides the equations of motion of the two-link pendulum.
//
// [DoublePendulum] computes the angular accelerations for a given
// [dynamo.State] and its mechanical energy:
//
//	dp := physics.NewDoublePendulum(dynamo.DefaultParams())
//	alpha1, alpha2 := dp.Accelerations(state)
//	energy := dp.Energy(state)
//
// Both methods are pure functions of the state and the parameters supplied at
// construction.
package physics
