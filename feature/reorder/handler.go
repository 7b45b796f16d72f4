package reorder

import (
	"fmt"

	"go.uber.org/zap"

	"view-sync/core/reconcile"
	"view-sync/core/runloop"
	"view-sync/core/sectioned"
)

// Callback receives the completed move after the surface has settled: the
// moved item, its resolved cell, and the source and destination paths.
type Callback func(item any, cell reconcile.Cell, from, to sectioned.IndexPath)

// Handler mediates drag-moves between a surface and the in-memory model it
// displays. The sink reference is non-owning, like the reconcilers'.
type Handler struct {
	model    *sectioned.Model
	sink     reconcile.MutationSink
	loop     *runloop.Loop
	callback Callback
	log      *zap.Logger
}

// NewHandler creates a drag-move handler. callback may be nil, which leaves
// drag gestures disabled. A nil logger is replaced with a no-op logger.
func NewHandler(model *sectioned.Model, sink reconcile.MutationSink, loop *runloop.Loop, callback Callback, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		model:    model,
		sink:     sink,
		loop:     loop,
		callback: callback,
		log:      log,
	}
}

// CanMove answers the surface's capability query for the item at path.
func (h *Handler) CanMove(path sectioned.IndexPath) bool {
	return h.callback != nil
}

// Move applies a completed drag from one path to another: the item is
// removed from the source and inserted at the destination synchronously,
// then the callback is posted to the next runloop tick. When the deferred
// task runs, the surface must be able to resolve a cell at the destination;
// failing that, the surface and the model have diverged and the handler
// panics rather than hiding the contract violation.
func (h *Handler) Move(from, to sectioned.IndexPath) error {
	if h.callback == nil {
		return nil
	}

	item, err := h.model.Move(from, to)
	if err != nil {
		return fmt.Errorf("reorder: %w", err)
	}

	h.log.Debug("item moved",
		zap.String("from", from.String()),
		zap.String("to", to.String()))

	h.loop.Post(func() {
		var cell reconcile.Cell
		if h.sink != nil {
			var ok bool
			cell, ok = h.sink.CellAt(to)
			if !ok {
				panic(fmt.Sprintf("reorder: no cell at destination %s after move from %s; surface and model have diverged", to, from))
			}
		}
		h.callback(item, cell, from, to)
	})

	return nil
}
