package reconcile

import "view-sync/core/sectioned"

// MutationSink is the patch-receiving capability a live display surface
// exposes to the engine. The engine holds a sink as a non-owning reference
// supplied by the caller; the surface's lifetime is owned entirely by the
// caller and the engine must tolerate the surface being torn down.
type MutationSink interface {
	// InsertSections inserts empty sections at the given indexes.
	InsertSections(indexes []int)
	// DeleteSections removes the sections at the given indexes.
	DeleteSections(indexes []int)
	// InsertItems inserts items at the given paths.
	InsertItems(paths []sectioned.IndexPath)
	// DeleteItems removes the items at the given paths.
	DeleteItems(paths []sectioned.IndexPath)
	// CellAt returns the visible cell at path, if any. Non-mutating; used
	// for update reconfiguration of on-screen items.
	CellAt(path sectioned.IndexPath) (Cell, bool)
	// ReloadAll fully resynchronizes the surface from its data source.
	ReloadAll()
}

// BatchSink is the optional atomic-batch capability. Surfaces that support
// it apply all patches issued between BeginBatch and EndBatch as one atomic
// transition; completion fires after the transition has settled.
type BatchSink interface {
	MutationSink

	BeginBatch()
	EndBatch(completion func())
}
