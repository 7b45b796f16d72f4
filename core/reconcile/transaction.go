package reconcile

import (
	"github.com/google/uuid"

	"view-sync/core/sectioned"
)

// Transaction accumulates the events of one update cycle of the observed
// store: the ordered item-level events, the ordered section-level events, and
// a side table mapping an index path to the item value snapshotted when an
// update was reported. The snapshot is captured at notification time because
// the store may already reflect the new state by replay time.
//
// A Transaction lives from the store's WillChange to its DidChangeContent and
// never persists across update cycles.
type Transaction struct {
	id        uuid.UUID
	items     []ChangeEvent
	sections  []SectionChangeEvent
	snapshots map[sectioned.IndexPath]any
}

// NewTransaction creates an empty transaction with a fresh id.
func NewTransaction() *Transaction {
	return &Transaction{
		id:        uuid.New(),
		snapshots: make(map[sectioned.IndexPath]any),
	}
}

// ID returns the transaction's correlation id, used in log fields.
func (t *Transaction) ID() uuid.UUID {
	return t.id
}

// Reset discards all buffered events and snapshots and assigns a fresh id,
// starting a new update cycle.
func (t *Transaction) Reset() {
	t.id = uuid.New()
	t.items = t.items[:0]
	t.sections = t.sections[:0]
	t.snapshots = make(map[sectioned.IndexPath]any)
}

// AppendItem records an item-level event, preserving arrival order.
func (t *Transaction) AppendItem(ev ChangeEvent) {
	t.items = append(t.items, ev)
}

// AppendSection records a section-level event, preserving arrival order.
func (t *Transaction) AppendSection(ev SectionChangeEvent) {
	t.sections = append(t.sections, ev)
}

// ItemEvents returns the buffered item events in arrival order.
func (t *Transaction) ItemEvents() []ChangeEvent {
	return t.items
}

// SectionEvents returns the buffered section events in arrival order.
func (t *Transaction) SectionEvents() []SectionChangeEvent {
	return t.sections
}

// Snapshot stores the item value reported with an update event, keyed by the
// event's old path.
func (t *Transaction) Snapshot(path sectioned.IndexPath, item any) {
	t.snapshots[path] = item
}

// SnapshotAt returns the snapshotted item value for path, if one was stored.
func (t *Transaction) SnapshotAt(path sectioned.IndexPath) (any, bool) {
	item, ok := t.snapshots[path]
	return item, ok
}

// HasSectionChanges reports whether any section-level event was recorded.
func (t *Transaction) HasSectionChanges() bool {
	return len(t.sections) > 0
}

// Empty reports whether the transaction holds no events at all.
func (t *Transaction) Empty() bool {
	return len(t.items) == 0 && len(t.sections) == 0
}
