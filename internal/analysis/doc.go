// Package analysis characterises recorded or simulated pendulum motion.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [NewPhasePortrait]: 2D phase space trajectory from recorded states
//   - [NewPoincareSection]: states sampled where the upper link swings
//     through the vertical
//   - [NewSpectrum]: windowed FFT magnitude spectrum of one coordinate
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(p, x0, 5000, 1e-8)
//	if err == nil && lambda > 0 {
//	    // nearby starts diverge
//	}
//
// Damping bleeds energy from both trajectories, so over long runs the
// estimate drifts towards zero or below as the pendulum settles.
package analysis
