// Package trajectory produces the two projectile trajectories being compared.
//
//   - [Galileo]: drag-free closed form, landing time from the quadratic root
//   - [Newton]: quadratic drag integrated at a fixed step, landing located by
//     a sign change of height and linear interpolation between the two
//     bracketing samples
//
// Both return a [Trajectory] whose last sample lies exactly on the ground
// (Y == 0) and a [Landing] summary.
//
// Newton keeps stepping and landing snapping apart: the loop records raw
// samples and [Finalize] replaces the bracketing sample with the
// interpolated landing point afterwards. The velocity of that last sample is
// left as integrated, not re-interpolated.
package trajectory
