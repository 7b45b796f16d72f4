package surface

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"view-sync/core/reconcile"
	"view-sync/core/sectioned"
)

// labelCell is the cell type used by the test factory.
type labelCell struct {
	Text string
}

// labelFactory builds labelCells and counts factory traffic.
type labelFactory struct {
	obtained   int
	configured int
}

func (f *labelFactory) Obtain(item any, path sectioned.IndexPath) reconcile.Cell {
	f.obtained++
	return &labelCell{}
}

func (f *labelFactory) Configure(cell reconcile.Cell, item any, path sectioned.IndexPath) reconcile.Cell {
	f.configured++
	cell.(*labelCell).Text = fmt.Sprintf("%v", item)
	return cell
}

func newTestSurface() (*Surface, *sectioned.Model, *labelFactory) {
	model := sectioned.NewModel(
		sectioned.Section{Title: "First", Items: []any{"a", "b", "c"}},
		sectioned.Section{Title: "Second", Items: []any{"x", "y"}},
	)
	factory := &labelFactory{}
	return New(model, factory, nil), model, factory
}

func TestSurface_InitialCountsFromSource(t *testing.T) {
	s, _, _ := newTestSurface()

	assert.Equal(t, 2, s.NumberOfSections())
	assert.Equal(t, 3, s.NumberOfItems(0))
	assert.Equal(t, 2, s.NumberOfItems(1))
}

func TestSurface_ItemPatchesAdjustCounts(t *testing.T) {
	s, _, _ := newTestSurface()

	s.InsertItems([]sectioned.IndexPath{sectioned.Path(0, 1)})
	s.InsertItems([]sectioned.IndexPath{sectioned.Path(0, 0)})
	s.DeleteItems([]sectioned.IndexPath{sectioned.Path(1, 0)})

	assert.Equal(t, 5, s.NumberOfItems(0))
	assert.Equal(t, 1, s.NumberOfItems(1))
}

func TestSurface_SectionPatchesAdjustCounts(t *testing.T) {
	s, _, _ := newTestSurface()

	s.InsertSections([]int{1})
	assert.Equal(t, 3, s.NumberOfSections())
	assert.Equal(t, 0, s.NumberOfItems(1))
	// Former section 1 shifted to index 2
	assert.Equal(t, 2, s.NumberOfItems(2))

	s.DeleteSections([]int{0})
	assert.Equal(t, 2, s.NumberOfSections())
	assert.Equal(t, 0, s.NumberOfItems(0))
}

func TestSurface_OutOfRangePatchPanics(t *testing.T) {
	s, _, _ := newTestSurface()

	assert.Panics(t, func() { s.InsertItems([]sectioned.IndexPath{sectioned.Path(9, 0)}) })
	assert.Panics(t, func() { s.InsertItems([]sectioned.IndexPath{sectioned.Path(0, 7)}) })
	assert.Panics(t, func() { s.DeleteItems([]sectioned.IndexPath{sectioned.Path(0, 3)}) })
	assert.Panics(t, func() { s.DeleteSections([]int{5}) })
}

func TestSurface_DisplayAndCellShifting(t *testing.T) {
	s, _, factory := newTestSurface()

	cell, err := s.Display(sectioned.Path(0, 1))
	require.NoError(t, err)
	assert.Equal(t, "b", cell.(*labelCell).Text)
	assert.Equal(t, 1, factory.obtained)

	// Inserting above the visible cell shifts it down
	s.InsertItems([]sectioned.IndexPath{sectioned.Path(0, 0)})
	_, ok := s.CellAt(sectioned.Path(0, 1))
	assert.False(t, ok)
	shifted, ok := s.CellAt(sectioned.Path(0, 2))
	require.True(t, ok)
	assert.Equal(t, "b", shifted.(*labelCell).Text)

	// Deleting above shifts it back up
	s.DeleteItems([]sectioned.IndexPath{sectioned.Path(0, 0)})
	_, ok = s.CellAt(sectioned.Path(0, 1))
	assert.True(t, ok)
}

func TestSurface_SectionInsertShiftsVisibleCells(t *testing.T) {
	s, model, _ := newTestSurface()

	cell, err := s.Display(sectioned.Path(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "a", cell.(*labelCell).Text)

	// The model gains a section above the visible cell; the surface is
	// patched to match.
	require.NoError(t, model.InsertSection(0, sectioned.Section{Title: "New"}))
	s.InsertSections([]int{0})

	// The cell now lives at (1,0), not (0,0).
	_, ok := s.CellAt(sectioned.Path(0, 0))
	assert.False(t, ok)
	shifted, ok := s.CellAt(sectioned.Path(1, 0))
	require.True(t, ok)
	assert.Equal(t, "a", shifted.(*labelCell).Text)

	// The post-section full reload re-obtains the cell at its shifted path
	// instead of dropping it.
	s.ReloadAll()
	reloaded, ok := s.CellAt(sectioned.Path(1, 0))
	require.True(t, ok)
	assert.Equal(t, "a", reloaded.(*labelCell).Text)
}

func TestSurface_SectionDeleteShiftsVisibleCells(t *testing.T) {
	s, _, _ := newTestSurface()

	_, err := s.Display(sectioned.Path(0, 0))
	require.NoError(t, err)
	_, err = s.Display(sectioned.Path(1, 1))
	require.NoError(t, err)

	s.DeleteSections([]int{0})

	// The deleted section's cell is gone; the survivor moved up a section.
	_, ok := s.CellAt(sectioned.Path(0, 0))
	assert.False(t, ok)
	moved, ok := s.CellAt(sectioned.Path(0, 1))
	require.True(t, ok)
	assert.Equal(t, "y", moved.(*labelCell).Text)
}

func TestSurface_DeleteRemovesVisibleCell(t *testing.T) {
	s, _, _ := newTestSurface()

	_, err := s.Display(sectioned.Path(1, 0))
	require.NoError(t, err)

	s.DeleteItems([]sectioned.IndexPath{sectioned.Path(1, 0)})
	_, ok := s.CellAt(sectioned.Path(1, 0))
	assert.False(t, ok)
}

func TestSurface_BatchBracket(t *testing.T) {
	s, _, _ := newTestSurface()

	completed := false
	s.BeginBatch()
	s.InsertItems([]sectioned.IndexPath{sectioned.Path(0, 0)})
	s.EndBatch(func() { completed = true })

	assert.True(t, completed)

	ops := s.Ops()
	require.Len(t, ops, 3)
	assert.Equal(t, "begin_batch", ops[0].Name)
	assert.Equal(t, "insert_items", ops[1].Name)
	assert.Equal(t, "end_batch", ops[2].Name)

	assert.Panics(t, func() { s.EndBatch(nil) })
}

func TestSurface_SupplementaryRegistration(t *testing.T) {
	s, _, _ := newTestSurface()

	s.RegisterSupplementary("header", func(section int) any {
		return fmt.Sprintf("header-%d", section)
	})

	assert.Equal(t, "header-1", s.Supplementary("header", 1))

	// Unregistered kind is a registration contract violation
	assert.Panics(t, func() { s.Supplementary("footer", 0) })
}

func TestSurface_ReloadAllResyncsFromSource(t *testing.T) {
	s, model, _ := newTestSurface()

	_, err := s.Display(sectioned.Path(0, 2))
	require.NoError(t, err)

	// The model changes underneath; patches never told the surface.
	_, err = model.Remove(sectioned.Path(0, 2))
	require.NoError(t, err)
	require.NoError(t, model.Insert(sectioned.Path(1, 0), "w"))

	s.ReloadAll()

	assert.Equal(t, 2, s.NumberOfItems(0))
	assert.Equal(t, 3, s.NumberOfItems(1))
	// The visible cell's path no longer exists, so it went off-screen.
	_, ok := s.CellAt(sectioned.Path(0, 2))
	assert.False(t, ok)
}

func TestSurface_SnapshotVisiblePathsOrdered(t *testing.T) {
	s, _, _ := newTestSurface()

	for _, p := range []sectioned.IndexPath{
		sectioned.Path(1, 1),
		sectioned.Path(0, 2),
		sectioned.Path(0, 0),
	} {
		_, err := s.Display(p)
		require.NoError(t, err)
	}

	snap := s.Snapshot()
	assert.Equal(t, []sectioned.IndexPath{
		sectioned.Path(0, 0),
		sectioned.Path(0, 2),
		sectioned.Path(1, 1),
	}, snap.VisiblePaths)
}

// TestSurface_NetCountInvariant replays a mixed transaction through the
// sequential reconciler: for i inserts, d deletes, and any number of moves, a
// section ends with before+i-d items.
func TestSurface_NetCountInvariant(t *testing.T) {
	s, _, _ := newTestSurface()
	before := s.NumberOfItems(0)

	r := reconcile.NewSequential(s, nil, nil)

	txn := reconcile.NewTransaction()
	p1 := sectioned.Path(0, 0)
	p2 := sectioned.Path(0, 1)
	p3 := sectioned.Path(0, 4)
	p4 := sectioned.Path(0, 2)
	p5 := sectioned.Path(0, 3)
	txn.AppendItem(reconcile.ChangeEvent{Kind: reconcile.ChangeInsert, NewPath: &p1})
	txn.AppendItem(reconcile.ChangeEvent{Kind: reconcile.ChangeInsert, NewPath: &p2})
	txn.AppendItem(reconcile.ChangeEvent{Kind: reconcile.ChangeDelete, OldPath: &p3})
	txn.AppendItem(reconcile.ChangeEvent{Kind: reconcile.ChangeMove, OldPath: &p4, NewPath: &p5})

	r.Apply(txn)

	// 2 inserts, 1 delete, moves net zero
	assert.Equal(t, before+2-1, s.NumberOfItems(0))
}
