// Package reconcile implements the change-notification replay engine that
// keeps a sectioned display surface synchronized with an externally observed,
// mutable data store.
//
// The observed store emits fine-grained mutation notifications (item insert,
// delete, update, move; section insert, delete) during one logical update
// transaction. This package buffers those notifications and replays them as
// an ordered, index-path-safe sequence of patch operations against the live
// surface, so callers never hand-write diff logic and the surface never sees
// a stale index. The engine only replays events it is told about; it never
// computes a diff between snapshots.
//
// # Architecture
//
// 1. Bridge: stateless translator from the store's four lifecycle callbacks
// (WillChange, DidChangeSection, DidChangeObject, DidChangeContent) into
// canonical events appended to a Transaction. It validates path presence per
// event kind and snapshots updated item values at notification time, because
// by replay time the store may already reflect the new state.
//
// 2. Transaction: the per-update-cycle buffer. Ordered item events, ordered
// section events, and the path-to-snapshot side table. Created at WillChange,
// consumed and discarded at DidChangeContent; never persists across cycles.
//
// 3. Reconcilers: Sequential replays sections then items as immediate patches
// inside one batch bracket when the sink supports one (row-oriented
// surfaces). Batched requires an atomic batch, replays items before
// sections, and issues a full reload after the batch completes whenever the
// transaction contained section changes (grid surfaces with decorative
// section elements not covered by the incremental patch API).
//
// 4. MutationSink: the abstract patch-receiving capability of the surface.
// The engine holds it as a non-owning reference; after Detach all sink calls
// become no-ops.
//
// # Threading
//
// Everything here is single-threaded and cooperative: buffer mutation,
// replay, and sink calls all happen on the thread that owns the surface. The
// store must deliver its callbacks serially, all notifications of one logical
// mutation batch between one WillChange/DidChangeContent pair.
//
// # Usage
//
//	recon := reconcile.NewSequential(surface, configureCell, log)
//	bridge := reconcile.NewBridge(recon.Apply, log)
//	controller.SetListener(bridge)
package reconcile
