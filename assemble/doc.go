// Package assemble groups characters into runs and lines and
// serializes a page's text layer as markup.
//
// # Runs and Lines
//
// A [Run] is a maximal sequence of characters sharing one style set; a
// [Line] is an ordered sequence of runs whose transforms are mutually
// proportional, so the whole line can be positioned with a single
// transform class. The [Builder] accumulates both, driven by the
// break decisions of the graphics-state tracker: it opens lines,
// starts new runs when the interned style set changes, and folds
// inter-character spacing through an epsilon filter so negligible
// offsets never reach the output.
//
// # Serialization
//
// [Builder.Dump] renders the accumulated lines as nested markup:
// a page container, clip wrappers for regions narrower than the page,
// positioned line elements, and styled run spans. Characters the
// occlusion detector marked covered, and characters rasterized into
// the background, are wrapped in the shared transparent fill style so
// they remain selectable but invisible. Run text is normalized to NFC
// before it is written.
//
// All builder state is per page; discarding a builder mid-page leaves
// the shared style registry intact.
package assemble
