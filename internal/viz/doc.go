// Package viz renders finished rod simulations in the terminal.
//
// Everything here consumes plain output arrays after a run completes:
//
//   - [PlotProfiles], [ReportPlot]: asciigraph plots of temperature against position
//   - [Replay]: Bubble Tea player for a recorded snapshot series
//   - [Canvas]: Braille-based pixel canvas used by the player
//
// # Key Bindings
//
//	Space - Play/Pause
//	R     - Restart from t=0
//	[]    - Step one frame back/forward
//	L     - Toggle looping
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
