// Package analysis provides statistics over particle runs.
//
//   - [SpeedHistogram]: binned speed distribution of a frame
//   - [RayleighScale] / [RayleighPDF]: the 2D equilibrium speed distribution
//   - [MeanFreeSteps]: average steps between collisions per particle
//   - [ParticlePath]: one particle's trajectory across frames
//
// # Equilibrium check
//
// An elastic hard-disk gas started at a single speed relaxes towards a
// Rayleigh speed distribution whose scale only depends on the kinetic
// energy:
//
//	sigma := analysis.RayleighScale(speeds)
//	h := analysis.SpeedHistogram(speeds, 20)
//	expected := h.Expected(sigma, len(speeds))
package analysis
