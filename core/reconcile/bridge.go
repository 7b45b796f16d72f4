package reconcile

import (
	"go.uber.org/zap"

	"view-sync/core/sectioned"
)

// Bridge translates the observed store's native four-callback shape into
// canonical events on a Transaction. It owns no replay logic beyond
// dispatch-by-kind and defensive validation, performs no surface calls
// itself, and holds a plain function for the replay hook so the reconciler
// stays free of any store-imposed base type.
type Bridge struct {
	txn   *Transaction
	apply func(*Transaction)
	log   *zap.Logger
}

// NewBridge creates a bridge that hands completed transactions to apply.
// A nil logger is replaced with a no-op logger.
func NewBridge(apply func(*Transaction), log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{
		txn:   NewTransaction(),
		apply: apply,
		log:   log,
	}
}

// Transaction exposes the buffer being accumulated. Intended for tests and
// diagnostics; callers must not retain it across update cycles.
func (b *Bridge) Transaction() *Transaction {
	return b.txn
}

// WillChange starts a new update cycle. It clears the buffer even if the
// previous cycle never received DidChangeContent, so a store that skips an
// end signal cannot leak events into the next transaction.
func (b *Bridge) WillChange() {
	b.txn.Reset()
	b.log.Debug("transaction begun", zap.String("txn", b.txn.ID().String()))
}

// DidChangeSection records a section-level mutation.
func (b *Bridge) DidChangeSection(index int, kind ChangeKind) {
	b.txn.AppendSection(SectionChangeEvent{Kind: kind, Index: index})
}

// DidChangeObject records an item-level mutation. Events whose path presence
// does not match their kind are dropped; the drop is logged rather than
// fatal, so one malformed notification cannot abort the whole transaction.
// For updates, the reported item value is snapshotted keyed by the old path.
func (b *Bridge) DidChangeObject(item any, oldPath, newPath *sectioned.IndexPath, kind ChangeKind) {
	ev := ChangeEvent{Kind: kind, OldPath: oldPath, NewPath: newPath}
	if err := ev.Validate(); err != nil {
		b.log.Warn("dropping malformed change event",
			zap.String("txn", b.txn.ID().String()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}

	b.txn.AppendItem(ev)
	if kind == ChangeUpdate {
		b.txn.Snapshot(*oldPath, item)
	}
}

// DidChangeContent ends the update cycle: the buffered transaction is handed
// to the replay hook, then discarded.
func (b *Bridge) DidChangeContent() {
	b.log.Debug("transaction committed",
		zap.String("txn", b.txn.ID().String()),
		zap.Int("item_events", len(b.txn.ItemEvents())),
		zap.Int("section_events", len(b.txn.SectionEvents())))

	if b.apply != nil {
		b.apply(b.txn)
	}
	b.txn.Reset()
}
