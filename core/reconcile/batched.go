package reconcile

import (
	"go.uber.org/zap"

	"view-sync/core/sectioned"
)

// Batched replays a transaction inside one atomic batch: the policy for grid
// surfaces that separate item-level from section-level patches within a batch
// and carry decorative section elements (headers, footers) outside the
// incremental patch contract.
//
// Replay order: all item events in arrival order, then all section events in
// arrival order, then the batch is closed. When the transaction contained at
// least one section event, a single full reload is issued after the batch
// completion fires: decorative elements tied to sections can be stale or
// mispositioned after a section insert or delete, and the full reload is the
// only repair the patch API guarantees. The reload is deliberately coarse;
// downstream consumers rely on it refreshing decorative state unrelated to
// the declared section delta, so it must not be narrowed to the affected
// sections.
type Batched struct {
	sink      MutationSink
	configure ConfigureFunc
	log       *zap.Logger
}

// NewBatched creates the atomic-batch reconciler. The sink reference is
// non-owning and must provide the BatchSink capability at replay time. A nil
// logger is replaced with a no-op logger.
func NewBatched(sink MutationSink, configure ConfigureFunc, log *zap.Logger) *Batched {
	if log == nil {
		log = zap.NewNop()
	}
	return &Batched{sink: sink, configure: configure, log: log}
}

// Detach invalidates the sink reference; every subsequent Apply is a no-op.
func (r *Batched) Detach() {
	r.sink = nil
}

// Apply replays txn as one atomic batch against the sink.
func (r *Batched) Apply(txn *Transaction) {
	if r.sink == nil || txn == nil {
		return
	}

	batch, ok := r.sink.(BatchSink)
	if !ok {
		r.log.Error("batched replay requires a sink with atomic batch support",
			zap.String("txn", txn.ID().String()))
		return
	}

	r.log.Debug("batched replay",
		zap.String("txn", txn.ID().String()),
		zap.Int("item_events", len(txn.ItemEvents())),
		zap.Int("section_events", len(txn.SectionEvents())))

	batch.BeginBatch()

	for _, ev := range txn.ItemEvents() {
		r.applyItem(txn, ev)
	}

	for _, ev := range txn.SectionEvents() {
		switch ev.Kind {
		case ChangeInsert:
			batch.InsertSections([]int{ev.Index})
		case ChangeDelete:
			batch.DeleteSections([]int{ev.Index})
		}
	}

	// The transaction buffer is recycled once Apply returns, so the
	// completion closure must not touch txn.
	needsReload := txn.HasSectionChanges()
	txnID := txn.ID().String()

	batch.EndBatch(func() {
		if !needsReload {
			return
		}
		r.log.Debug("post-batch full reload", zap.String("txn", txnID))
		batch.ReloadAll()
	})
}

func (r *Batched) applyItem(txn *Transaction, ev ChangeEvent) {
	if err := ev.Validate(); err != nil {
		r.log.Warn("skipping malformed change event", zap.Error(err))
		return
	}

	switch ev.Kind {
	case ChangeInsert:
		r.sink.InsertItems([]sectioned.IndexPath{*ev.NewPath})
	case ChangeDelete:
		r.sink.DeleteItems([]sectioned.IndexPath{*ev.OldPath})
	case ChangeUpdate:
		// Preconditions: the cell is on-screen and a snapshotted value
		// exists. Failing either is a skip, never fatal mid-batch.
		cell, visible := r.sink.CellAt(*ev.OldPath)
		if !visible {
			return
		}
		item, ok := txn.SnapshotAt(*ev.OldPath)
		if !ok || r.configure == nil {
			return
		}
		r.configure(cell, item, *ev.OldPath)
	case ChangeMove:
		r.sink.DeleteItems([]sectioned.IndexPath{*ev.OldPath})
		r.sink.InsertItems([]sectioned.IndexPath{*ev.NewPath})
	}
}
