package reconcile

import (
	"go.uber.org/zap"

	"view-sync/core/sectioned"
)

// Sequential replays a transaction as immediate, sequential patches: the
// policy for row-oriented surfaces that apply each patch as it arrives,
// inside a single begin/end bracket when the sink supports one.
//
// Replay order: all section events in arrival order, then all item events in
// arrival order. A move is decomposed into a delete at the old path followed
// by an insert at the new path; the sink is never required to support an
// atomic move primitive.
type Sequential struct {
	sink      MutationSink
	configure ConfigureFunc
	log       *zap.Logger
}

// NewSequential creates the immediate-apply reconciler. The sink reference
// is non-owning; configure may be nil when the surface has no refreshable
// cell content. A nil logger is replaced with a no-op logger.
func NewSequential(sink MutationSink, configure ConfigureFunc, log *zap.Logger) *Sequential {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sequential{sink: sink, configure: configure, log: log}
}

// Detach invalidates the sink reference. Every subsequent Apply is a no-op,
// which is how the engine tolerates the surface being torn down before the
// store stops notifying.
func (r *Sequential) Detach() {
	r.sink = nil
}

// Apply replays txn against the sink. Events replay in exactly their arrival
// order within each pass; updates for off-screen items are skipped silently.
func (r *Sequential) Apply(txn *Transaction) {
	if r.sink == nil || txn == nil {
		return
	}

	r.log.Debug("sequential replay",
		zap.String("txn", txn.ID().String()),
		zap.Int("item_events", len(txn.ItemEvents())),
		zap.Int("section_events", len(txn.SectionEvents())))

	batch, bracketed := r.sink.(BatchSink)
	if bracketed {
		batch.BeginBatch()
	}

	for _, ev := range txn.SectionEvents() {
		switch ev.Kind {
		case ChangeInsert:
			r.sink.InsertSections([]int{ev.Index})
		case ChangeDelete:
			r.sink.DeleteSections([]int{ev.Index})
		}
	}

	for _, ev := range txn.ItemEvents() {
		r.applyItem(txn, ev)
	}

	if bracketed {
		batch.EndBatch(nil)
	}
}

func (r *Sequential) applyItem(txn *Transaction, ev ChangeEvent) {
	if err := ev.Validate(); err != nil {
		// The bridge drops malformed events before they reach the buffer;
		// hand-built transactions get the same leniency.
		r.log.Warn("skipping malformed change event", zap.Error(err))
		return
	}

	switch ev.Kind {
	case ChangeInsert:
		r.sink.InsertItems([]sectioned.IndexPath{*ev.NewPath})
	case ChangeDelete:
		r.sink.DeleteItems([]sectioned.IndexPath{*ev.OldPath})
	case ChangeUpdate:
		r.reconfigure(txn, *ev.OldPath)
	case ChangeMove:
		r.sink.DeleteItems([]sectioned.IndexPath{*ev.OldPath})
		r.sink.InsertItems([]sectioned.IndexPath{*ev.NewPath})
	}
}

// reconfigure refreshes the visible cell at path with the snapshotted item
// value. Off-screen items have no visible state to refresh and are skipped.
func (r *Sequential) reconfigure(txn *Transaction, path sectioned.IndexPath) {
	cell, visible := r.sink.CellAt(path)
	if !visible {
		return
	}
	item, ok := txn.SnapshotAt(path)
	if !ok || r.configure == nil {
		return
	}
	r.configure(cell, item, path)
}
