// Package viz renders trajectory comparisons in the terminal.
//
// [PlotTrajectories] draws both height profiles as an asciigraph line
// chart for one-shot output. [Explorer] is a Bubble Tea program that
// recomputes the comparison as launch parameters are edited and draws the
// two paths on a braille [Canvas].
//
// # Key Bindings
//
//	up/down, j/k    - Select parameter
//	left/right, h/l - Nudge selected parameter
//	enter           - Type a value for the selected parameter
//	esc             - Cancel editing
//	r               - Reset parameters
//	t               - Cycle color themes
//	?               - Toggle full help
//	q               - Quit
package viz
