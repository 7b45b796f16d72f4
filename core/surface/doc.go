// Package surface provides the default in-memory display surface: a
// MutationSink implementation that tracks per-section item counts, a visible
// cell registry, and an ordered record of every patch operation it receives.
//
// It backs the test suite, the replay CLI, and the HTTP inspector. It is not
// a renderer; "display" here means bookkeeping that mirrors what a real
// widget would do: counts that must stay consistent under patches, cells
// that exist only while on-screen, and a full reload path that resets
// everything from the data source.
//
// Index consistency is enforced loudly: a patch addressing a section or item
// the surface does not have is a caller contract violation and panics, the
// way a real display widget would abort on an invalid index path.
package surface
