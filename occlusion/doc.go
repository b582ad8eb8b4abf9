// Package occlusion decides which characters are visually covered by
// later-drawn graphics.
//
// The [Detector] consumes character and non-character bounding boxes in
// painter's order. Each character starts fully visible; every
// subsequent opaque primitive obstructs any character corner falling
// inside its rectangle. A character is covered exactly when all four
// corners are obstructed by the cumulative set of later primitives.
// Primitives with opacity below the configured threshold never occlude.
//
// Two boundary choices are deliberate and configurable through
// [Config]: opacity exactly at the threshold occludes, and a corner
// exactly on a primitive's edge counts as obstructed (closed-interval
// containment).
//
// Verdicts feed the page assembler (covered text is kept selectable
// but rendered invisible) and the background strategy (covered text is
// rasterized into the background).
package occlusion
