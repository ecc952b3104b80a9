// Package viz renders synthesis results in the terminal.
//
//   - [Report]: lipgloss-styled key/value panel with matrix blocks
//   - [PoleMap]: Braille plot of poles in the complex plane
//   - [PlotOutputs]: asciigraph time response of each output channel
//   - [Sparkline]: one-line feasibility trace of a gamma sweep
package viz
