// Package viz is the terminal front-end for the particle solver.
//
// [Model] is a Bubble Tea program that maps keyboard and mouse input to
// solver operations and draws particles on a braille [Canvas], one
// coloured cell per 2x4 dots.
//
// # Key Bindings
//
//	1-4     - Brush material: water, sand, stone, fire
//	Z/X     - Wall shape: circle, rect
//	G/F     - Toggle pull/push attractor at the cursor
//	O       - Toggle spatial grid
//	r       - Clear all particles and walls
//	R       - Restore the starting scene
//	Space   - Pause/Resume
//	.       - Single frame while paused
//	Q       - Quit
//
// Left click (or drag) spawns the brush material, right click places a
// wall.
package viz
