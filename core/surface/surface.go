package surface

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"view-sync/core/reconcile"
	"view-sync/core/sectioned"
)

// DataSource answers the count and item queries the surface needs for full
// reloads and for bringing cells on-screen. sectioned.Model satisfies it.
type DataSource interface {
	NumberOfSections() int
	NumberOfItems(section int) int
	Item(path sectioned.IndexPath) (any, bool)
}

// CellFactory dequeues-or-creates and configures cells. Configure must be
// idempotent: the reconciler may reconfigure the same cell repeatedly.
type CellFactory interface {
	Obtain(item any, path sectioned.IndexPath) reconcile.Cell
	Configure(cell reconcile.Cell, item any, path sectioned.IndexPath) reconcile.Cell
}

// SupplementaryFactory produces a decorative view (header, footer) for a
// section. Supplementary views sit outside the incremental patch contract.
type SupplementaryFactory func(section int) any

// Op is one recorded patch operation, in the order the surface received it.
type Op struct {
	Name     string                `json:"name"`
	Sections []int                 `json:"sections,omitempty"`
	Paths    []sectioned.IndexPath `json:"paths,omitempty"`
}

// Snapshot is a point-in-time view of the surface state, serialized by the
// HTTP inspector.
type Snapshot struct {
	SectionCounts []int                 `json:"section_counts"`
	VisiblePaths  []sectioned.IndexPath `json:"visible_paths"`
	Ops           []Op                  `json:"ops"`
}

// Surface is the in-memory display surface. It implements both
// reconcile.MutationSink and reconcile.BatchSink; batches settle
// synchronously, so EndBatch completions fire before it returns.
//
// Not safe for concurrent use; all calls belong to the owning thread.
type Surface struct {
	source        DataSource
	factory       CellFactory
	supplementary map[string]SupplementaryFactory

	counts     []int
	cells      map[sectioned.IndexPath]reconcile.Cell
	ops        []Op
	batchDepth int

	log *zap.Logger
}

// New creates a surface synchronized with source. factory may be nil for
// surfaces that never bring cells on-screen. A nil logger is replaced with a
// no-op logger.
func New(source DataSource, factory CellFactory, log *zap.Logger) *Surface {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Surface{
		source:        source,
		factory:       factory,
		supplementary: make(map[string]SupplementaryFactory),
		cells:         make(map[sectioned.IndexPath]reconcile.Cell),
		log:           log,
	}
	s.reloadCounts()
	return s
}

// RegisterSupplementary registers the factory for a decorative view kind.
func (s *Surface) RegisterSupplementary(kind string, factory SupplementaryFactory) {
	s.supplementary[kind] = factory
}

// Supplementary returns the decorative view of the given kind for a section.
// Requesting a kind no factory was registered for is a registration contract
// violation and panics; returning a placeholder would mask the bug.
func (s *Surface) Supplementary(kind string, section int) any {
	factory, ok := s.supplementary[kind]
	if !ok {
		panic(fmt.Sprintf("surface: no supplementary factory registered for kind %q", kind))
	}
	return factory(section)
}

// Display brings the item at path on-screen: the cell is obtained from the
// factory, configured, and registered as visible.
func (s *Surface) Display(path sectioned.IndexPath) (reconcile.Cell, error) {
	if s.factory == nil {
		return nil, fmt.Errorf("display %s: surface has no cell factory", path)
	}
	item, ok := s.source.Item(path)
	if !ok {
		return nil, fmt.Errorf("display %s: data source has no item", path)
	}
	cell := s.factory.Obtain(item, path)
	cell = s.factory.Configure(cell, item, path)
	s.cells[path] = cell
	return cell, nil
}

// Hide takes the cell at path off-screen.
func (s *Surface) Hide(path sectioned.IndexPath) {
	delete(s.cells, path)
}

// NumberOfSections returns the surface's current section count.
func (s *Surface) NumberOfSections() int {
	return len(s.counts)
}

// NumberOfItems returns the surface's current item count for a section.
func (s *Surface) NumberOfItems(section int) int {
	if section < 0 || section >= len(s.counts) {
		return 0
	}
	return s.counts[section]
}

// Ops returns the recorded patch operations in arrival order.
func (s *Surface) Ops() []Op {
	return s.ops
}

// ResetOps clears the recorded operations.
func (s *Surface) ResetOps() {
	s.ops = nil
}

// Snapshot captures the current surface state.
func (s *Surface) Snapshot() Snapshot {
	counts := make([]int, len(s.counts))
	copy(counts, s.counts)

	paths := make([]sectioned.IndexPath, 0, len(s.cells))
	for path := range s.cells {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Section != paths[j].Section {
			return paths[i].Section < paths[j].Section
		}
		return paths[i].Item < paths[j].Item
	})

	ops := make([]Op, len(s.ops))
	copy(ops, s.ops)

	return Snapshot{SectionCounts: counts, VisiblePaths: paths, Ops: ops}
}

// BeginBatch opens an atomic batch bracket. Brackets may nest.
func (s *Surface) BeginBatch() {
	s.batchDepth++
	s.record(Op{Name: "begin_batch"})
}

// EndBatch closes the bracket. This surface settles synchronously, so the
// completion fires before EndBatch returns.
func (s *Surface) EndBatch(completion func()) {
	if s.batchDepth == 0 {
		panic("surface: EndBatch without matching BeginBatch")
	}
	s.batchDepth--
	s.record(Op{Name: "end_batch"})
	if completion != nil {
		completion()
	}
}

// InsertSections inserts empty sections at the given indexes.
func (s *Surface) InsertSections(indexes []int) {
	s.record(Op{Name: "insert_sections", Sections: indexes})
	for _, index := range indexes {
		if index < 0 || index > len(s.counts) {
			panic(fmt.Sprintf("surface: insert section %d out of range (have %d sections)", index, len(s.counts)))
		}
		s.counts = append(s.counts, 0)
		copy(s.counts[index+1:], s.counts[index:])
		s.counts[index] = 0
		s.shiftSectionCells(index, +1)
	}
}

// DeleteSections removes the sections at the given indexes.
func (s *Surface) DeleteSections(indexes []int) {
	s.record(Op{Name: "delete_sections", Sections: indexes})
	for _, index := range indexes {
		if index < 0 || index >= len(s.counts) {
			panic(fmt.Sprintf("surface: delete section %d out of range (have %d sections)", index, len(s.counts)))
		}
		s.counts = append(s.counts[:index], s.counts[index+1:]...)
		for path := range s.cells {
			if path.Section == index {
				delete(s.cells, path)
			}
		}
		s.shiftSectionCells(index+1, -1)
	}
}

// InsertItems inserts items at the given paths.
func (s *Surface) InsertItems(paths []sectioned.IndexPath) {
	s.record(Op{Name: "insert_items", Paths: paths})
	for _, path := range paths {
		if path.Section < 0 || path.Section >= len(s.counts) {
			panic(fmt.Sprintf("surface: insert item at %s: no such section", path))
		}
		if path.Item < 0 || path.Item > s.counts[path.Section] {
			panic(fmt.Sprintf("surface: insert item at %s out of range (section has %d items)", path, s.counts[path.Section]))
		}
		s.shiftCells(path.Section, path.Item, +1)
		s.counts[path.Section]++
	}
}

// DeleteItems removes the items at the given paths.
func (s *Surface) DeleteItems(paths []sectioned.IndexPath) {
	s.record(Op{Name: "delete_items", Paths: paths})
	for _, path := range paths {
		if path.Section < 0 || path.Section >= len(s.counts) {
			panic(fmt.Sprintf("surface: delete item at %s: no such section", path))
		}
		if path.Item < 0 || path.Item >= s.counts[path.Section] {
			panic(fmt.Sprintf("surface: delete item at %s out of range (section has %d items)", path, s.counts[path.Section]))
		}
		delete(s.cells, path)
		s.shiftCells(path.Section, path.Item+1, -1)
		s.counts[path.Section]--
	}
}

// CellAt returns the visible cell at path, if any.
func (s *Surface) CellAt(path sectioned.IndexPath) (reconcile.Cell, bool) {
	cell, ok := s.cells[path]
	return cell, ok
}

// ReloadAll resets counts from the data source and re-obtains every visible
// cell whose path still exists; cells beyond the new bounds go off-screen.
func (s *Surface) ReloadAll() {
	s.record(Op{Name: "reload_all"})
	s.reloadCounts()

	for path := range s.cells {
		item, ok := s.source.Item(path)
		if !ok {
			delete(s.cells, path)
			continue
		}
		if s.factory == nil {
			continue
		}
		cell := s.factory.Obtain(item, path)
		s.cells[path] = s.factory.Configure(cell, item, path)
	}
}

func (s *Surface) reloadCounts() {
	if s.source == nil {
		s.counts = nil
		return
	}
	counts := make([]int, s.source.NumberOfSections())
	for i := range counts {
		counts[i] = s.source.NumberOfItems(i)
	}
	s.counts = counts
}

// shiftSectionCells renumbers visible cells in sections at or after from by
// delta, keeping the registry aligned with patched section indexes.
func (s *Surface) shiftSectionCells(from, delta int) {
	shifted := make(map[sectioned.IndexPath]reconcile.Cell)
	for path, cell := range s.cells {
		if path.Section >= from {
			delete(s.cells, path)
			shifted[sectioned.Path(path.Section+delta, path.Item)] = cell
		}
	}
	for path, cell := range shifted {
		s.cells[path] = cell
	}
}

// shiftCells renumbers visible cells in section at or after fromItem by
// delta, keeping the registry aligned with patched indexes.
func (s *Surface) shiftCells(section, fromItem, delta int) {
	shifted := make(map[sectioned.IndexPath]reconcile.Cell)
	for path, cell := range s.cells {
		if path.Section == section && path.Item >= fromItem {
			delete(s.cells, path)
			shifted[sectioned.Path(section, path.Item+delta)] = cell
		}
	}
	for path, cell := range shifted {
		s.cells[path] = cell
	}
}

func (s *Surface) record(op Op) {
	s.ops = append(s.ops, op)
}
