// Package store provides a fetched-results controller over a database table:
// the observed, mutable data store whose mutation notifications drive the
// reconciliation engine.
//
// The controller owns a sectioned mirror of the table (rows ordered by
// section and position) and a write path, Perform, through which all
// mutations flow. Each Perform call runs its operations inside one database
// transaction and, after commit, delivers the corresponding notifications as
// one bracketed batch: WillChange, then one DidChangeSection/DidChangeObject
// per operation in arrival order, then DidChangeContent. Nothing is ever
// diffed; the notifications are recorded as the mutations happen.
//
// The listener side of the contract is exactly the shape reconcile.Bridge
// implements, so wiring the store to a surface is:
//
//	recon := reconcile.NewSequential(surf, configure, log)
//	bridge := reconcile.NewBridge(recon.Apply, log)
//	controller.SetListener(bridge)
package store
