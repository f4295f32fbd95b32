// Package viz renders the Trisolaris sky in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, driving a [sim.Engine] once per frame
//   - [Canvas]: Braille canvas with per-cell color
//   - [Rasterize]: maps a projected draw sequence onto a canvas
//   - a preset menu in front of the live view ([RunInteractive])
//
// # Key Bindings
//
//	Space - Run/Pause simulation
//	R     - Reset current preset
//	1-4   - Select preset
//	+/-   - Gravity
//	[]/   - Time scale
//	WASD  - Rotate and tilt (arrows too)
//	O     - Consult the oracle
//	G     - Toggle GIF recording
//	T     - Cycle color themes
//
// # Input
//
// Terminals report key presses and auto-repeats but no releases, so a
// rotation key counts as held for [view.HoldWindow] after its last press.
// The mouse pans by dragging and zooms with the wheel.
package viz
