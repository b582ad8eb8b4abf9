// Package gstate tracks the graphics state for one page and decides
// run boundaries.
//
// The [Tracker] consumes state-change events from the page backend,
// maintains a save/restore stack of value-type [State] snapshots, and
// records a dirty bit per field. Before each character is drawn,
// [Tracker.RunBreak] classifies the pending changes: continue the
// current run, start a new run on the same line, or close the line
// (when the clip changed or the transform is no longer proportional to
// the line's transform).
//
// When a run starts, [Tracker.BeginRun] corrects numeric edge cases
// (negative and effectively-zero font sizes) and interns the state's
// style values into the shared registry, yielding the style.Set that
// governs the run.
package gstate
