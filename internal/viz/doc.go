// Package viz renders particle trajectories in the terminal.
//
//   - [Canvas]: braille pixel canvas with line and circle drawing
//   - [Viewport]: maps box coordinates onto canvas sub-pixels
//   - [Player]: Bubble Tea model that replays recorded frames
//   - [EncodeGIF]: writes a trajectory as an animated GIF
//
// # Key Bindings
//
//	Space      - Play/Pause
//	Left/Right - Step one frame
//	+/-        - Change playback speed
//	g/G        - Jump to first/last frame
//	T          - Cycle color themes
//	?          - Show help overlay
package viz
