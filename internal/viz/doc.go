// Package viz provides the terminal views of the n-body simulation.
//
//   - [Model]: Bubble Tea model behind `nbody watch`, a live top-down
//     projection of the bodies with energy and drift readouts
//   - [Canvas]: Braille-based pixel canvas
//   - lipgloss styles shared with the CLI summaries
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Zoom in/out
//	?     - Show key help
//	Q     - Quit
package viz
