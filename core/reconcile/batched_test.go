package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"view-sync/core/sectioned"
)

func TestBatched_ItemsBeforeSections(t *testing.T) {
	sink := newRecordingBatchSink()
	r := NewBatched(sink, nil, nil)

	txn := NewTransaction()
	// Section event arrives first, yet items replay first.
	txn.AppendSection(SectionChangeEvent{Kind: ChangeDelete, Index: 2})
	txn.AppendItem(ChangeEvent{Kind: ChangeInsert, NewPath: path(0, 1)})
	txn.AppendItem(ChangeEvent{Kind: ChangeDelete, OldPath: path(1, 0)})

	r.Apply(txn)

	assert.Equal(t, []string{
		"begin_batch",
		"insert_items [(0,1)]",
		"delete_items [(1,0)]",
		"delete_sections [2]",
		"end_batch",
		"reload_all",
	}, sink.ops)
}

func TestBatched_SectionInsertScenario(t *testing.T) {
	sink := newRecordingBatchSink()
	r := NewBatched(sink, nil, nil)

	txn := NewTransaction()
	txn.AppendSection(SectionChangeEvent{Kind: ChangeInsert, Index: 1})

	r.Apply(txn)

	assert.Equal(t, []string{
		"begin_batch",
		"insert_sections [1]",
		"end_batch",
		"reload_all",
	}, sink.ops)
}

func TestBatched_NoReloadWithoutSectionEvents(t *testing.T) {
	sink := newRecordingBatchSink()
	r := NewBatched(sink, nil, nil)

	txn := NewTransaction()
	txn.AppendItem(ChangeEvent{Kind: ChangeInsert, NewPath: path(0, 2)})
	txn.AppendItem(ChangeEvent{Kind: ChangeMove, OldPath: path(0, 0), NewPath: path(1, 0)})

	r.Apply(txn)

	assert.NotContains(t, sink.ops, "reload_all")
}

func TestBatched_ExactlyOneReloadPerTransaction(t *testing.T) {
	sink := newRecordingBatchSink()
	r := NewBatched(sink, nil, nil)

	txn := NewTransaction()
	txn.AppendSection(SectionChangeEvent{Kind: ChangeInsert, Index: 0})
	txn.AppendSection(SectionChangeEvent{Kind: ChangeDelete, Index: 3})
	txn.AppendSection(SectionChangeEvent{Kind: ChangeInsert, Index: 1})

	r.Apply(txn)

	reloads := 0
	for _, op := range sink.ops {
		if op == "reload_all" {
			reloads++
		}
	}
	assert.Equal(t, 1, reloads)
}

func TestBatched_ReloadWaitsForCompletion(t *testing.T) {
	sink := newRecordingBatchSink()
	sink.holdCompletion = true
	r := NewBatched(sink, nil, nil)

	txn := NewTransaction()
	txn.AppendSection(SectionChangeEvent{Kind: ChangeInsert, Index: 0})

	r.Apply(txn)
	assert.NotContains(t, sink.ops, "reload_all")

	// The surface settles its batch; only now does the reload fire, even
	// though the transaction buffer has been recycled in the meantime.
	txn.Reset()
	require.NotNil(t, sink.pending)
	sink.pending()

	assert.Equal(t, "reload_all", sink.ops[len(sink.ops)-1])
}

func TestBatched_UpdatePreconditions(t *testing.T) {
	sink := newRecordingBatchSink()
	sink.cells[sectioned.Path(0, 0)] = "cell"

	calls := 0
	r := NewBatched(sink, func(Cell, any, sectioned.IndexPath) { calls++ }, nil)

	txn := NewTransaction()
	// Visible cell but no snapshot: skipped, not fatal.
	txn.AppendItem(ChangeEvent{Kind: ChangeUpdate, OldPath: path(0, 0)})
	// No visible cell: skipped.
	txn.AppendItem(ChangeEvent{Kind: ChangeUpdate, OldPath: path(5, 5)})

	r.Apply(txn)
	assert.Zero(t, calls)

	// All preconditions met: exactly one configure call.
	txn2 := NewTransaction()
	txn2.AppendItem(ChangeEvent{Kind: ChangeUpdate, OldPath: path(0, 0)})
	txn2.Snapshot(sectioned.Path(0, 0), "fresh")

	r.Apply(txn2)
	assert.Equal(t, 1, calls)
}

func TestBatched_RequiresBatchSink(t *testing.T) {
	sink := newRecordingSink()
	r := NewBatched(sink, nil, nil)

	txn := NewTransaction()
	txn.AppendItem(ChangeEvent{Kind: ChangeInsert, NewPath: path(0, 0)})

	r.Apply(txn)
	assert.Empty(t, sink.ops)
}

func TestBatched_DetachedSinkIsNoOp(t *testing.T) {
	sink := newRecordingBatchSink()
	r := NewBatched(sink, nil, nil)
	r.Detach()

	txn := NewTransaction()
	txn.AppendSection(SectionChangeEvent{Kind: ChangeInsert, Index: 0})

	r.Apply(txn)
	assert.Empty(t, sink.ops)
}
