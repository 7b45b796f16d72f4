// Package reorder implements the drag-move capability for surfaces backed by
// a plain in-memory sectioned model rather than an observed store.
//
// A completed drag is a direct, synchronous model edit plus a deferred
// callback; it never goes through the transaction buffer or the reconcilers.
// The callback is deferred to the next runloop tick because the surface has
// not settled its own internal bookkeeping synchronously within the move
// notification.
//
// Dragging is disabled by default: CanMove answers true only when a reorder
// callback was supplied at construction.
package reorder
