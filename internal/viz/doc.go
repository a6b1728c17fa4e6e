// Package viz hosts the pendulum in a terminal using Bubble Tea.
//
// The pendulum is drawn on a braille canvas (2x4 dots per cell) scaled so the
// full reach fits the window. Mouse motion moves the pivot; frames are pumped
// with tea.Tick at the configured FPS.
//
// # Key Bindings
//
//	T     - Cycle color themes
//	H     - Toggle the stats panel
//	Q/Esc - Quit
package viz
