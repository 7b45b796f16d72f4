package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"view-sync/core/sectioned"
)

func TestTransaction_OrderPreserved(t *testing.T) {
	txn := NewTransaction()

	txn.AppendItem(ChangeEvent{Kind: ChangeInsert, NewPath: path(0, 0)})
	txn.AppendItem(ChangeEvent{Kind: ChangeDelete, OldPath: path(1, 2)})
	txn.AppendSection(SectionChangeEvent{Kind: ChangeInsert, Index: 1})
	txn.AppendItem(ChangeEvent{Kind: ChangeInsert, NewPath: path(2, 0)})

	items := txn.ItemEvents()
	require.Len(t, items, 3)
	assert.Equal(t, ChangeInsert, items[0].Kind)
	assert.Equal(t, ChangeDelete, items[1].Kind)
	assert.Equal(t, ChangeInsert, items[2].Kind)
	assert.Equal(t, sectioned.Path(2, 0), *items[2].NewPath)

	require.Len(t, txn.SectionEvents(), 1)
	assert.True(t, txn.HasSectionChanges())
}

func TestTransaction_SnapshotFidelity(t *testing.T) {
	txn := NewTransaction()

	// The snapshot captured at notification time survives the store moving
	// on to newer values.
	txn.Snapshot(sectioned.Path(0, 2), "V")

	got, ok := txn.SnapshotAt(sectioned.Path(0, 2))
	require.True(t, ok)
	assert.Equal(t, "V", got)

	_, ok = txn.SnapshotAt(sectioned.Path(0, 3))
	assert.False(t, ok)
}

func TestTransaction_Reset(t *testing.T) {
	txn := NewTransaction()
	firstID := txn.ID()

	txn.AppendItem(ChangeEvent{Kind: ChangeInsert, NewPath: path(0, 0)})
	txn.AppendSection(SectionChangeEvent{Kind: ChangeDelete, Index: 0})
	txn.Snapshot(sectioned.Path(0, 0), "stale")
	require.False(t, txn.Empty())

	txn.Reset()

	assert.True(t, txn.Empty())
	assert.False(t, txn.HasSectionChanges())
	assert.NotEqual(t, firstID, txn.ID())
	_, ok := txn.SnapshotAt(sectioned.Path(0, 0))
	assert.False(t, ok)
}

func TestChangeEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   ChangeEvent
		wantErr bool
	}{
		{name: "valid insert", event: ChangeEvent{Kind: ChangeInsert, NewPath: path(0, 0)}},
		{name: "insert missing new path", event: ChangeEvent{Kind: ChangeInsert}, wantErr: true},
		{name: "valid delete", event: ChangeEvent{Kind: ChangeDelete, OldPath: path(0, 0)}},
		{name: "delete missing old path", event: ChangeEvent{Kind: ChangeDelete, NewPath: path(0, 0)}, wantErr: true},
		{name: "valid update", event: ChangeEvent{Kind: ChangeUpdate, OldPath: path(0, 0)}},
		{name: "update missing old path", event: ChangeEvent{Kind: ChangeUpdate}, wantErr: true},
		{name: "valid move", event: ChangeEvent{Kind: ChangeMove, OldPath: path(0, 0), NewPath: path(0, 1)}},
		{name: "move missing new path", event: ChangeEvent{Kind: ChangeMove, OldPath: path(0, 0)}, wantErr: true},
		{name: "move missing old path", event: ChangeEvent{Kind: ChangeMove, NewPath: path(0, 1)}, wantErr: true},
		{name: "unknown kind", event: ChangeEvent{Kind: "shuffle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
