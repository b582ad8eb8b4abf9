// Package style deduplicates style values into a compact class table.
//
// A document conversion produces thousands of near-identical style
// values: font sizes, spacing amounts, colors, and transform matrices.
// The [Registry] interns each distinct value (under a per-kind epsilon
// equality rule) into a small integer [ID], so every page's markup can
// reference shared stylesheet classes instead of repeating inline
// styles.
//
// Equality rules:
//
//   - Scalars of the same kind are equal when they differ by at most
//     the configured epsilon.
//   - A transparent color always compares equal to any other
//     transparent color, regardless of RGB.
//   - Transform matrices compare on their four linear components only;
//     translation is ignored.
//
// The registry is append-only and document-scoped: IDs are never
// reused, and aborting a page conversion never invalidates previously
// installed IDs.
package style
