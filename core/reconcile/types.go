package reconcile

import (
	"fmt"

	"view-sync/core/sectioned"
)

// ChangeKind identifies the mutation described by an event.
type ChangeKind string

const (
	// ChangeInsert is an insertion at NewPath (or a section insertion).
	ChangeInsert ChangeKind = "insert"
	// ChangeDelete is a deletion at OldPath (or a section deletion).
	ChangeDelete ChangeKind = "delete"
	// ChangeUpdate is an in-place item update at OldPath.
	ChangeUpdate ChangeKind = "update"
	// ChangeMove relocates an item from OldPath to NewPath.
	ChangeMove ChangeKind = "move"
)

// ChangeEvent describes one item-level mutation reported by the observed
// store. Which paths must be present depends on Kind:
//
//	insert: NewPath only
//	delete: OldPath only
//	update: OldPath only (plus a snapshotted item value in the Transaction)
//	move:   both OldPath and NewPath
type ChangeEvent struct {
	Kind    ChangeKind           `json:"kind"`
	OldPath *sectioned.IndexPath `json:"old_path,omitempty"`
	NewPath *sectioned.IndexPath `json:"new_path,omitempty"`
}

// Validate checks path presence for the event's kind.
func (e ChangeEvent) Validate() error {
	switch e.Kind {
	case ChangeInsert:
		if e.NewPath == nil {
			return fmt.Errorf("insert event missing new path")
		}
	case ChangeDelete:
		if e.OldPath == nil {
			return fmt.Errorf("delete event missing old path")
		}
	case ChangeUpdate:
		if e.OldPath == nil {
			return fmt.Errorf("update event missing old path")
		}
	case ChangeMove:
		if e.OldPath == nil || e.NewPath == nil {
			return fmt.Errorf("move event missing old or new path")
		}
	default:
		return fmt.Errorf("unknown change kind %q", e.Kind)
	}
	return nil
}

// SectionChangeEvent describes one section-level mutation. Only insert and
// delete kinds are meaningful; reconcilers ignore anything else.
type SectionChangeEvent struct {
	Kind  ChangeKind `json:"kind"`
	Index int        `json:"index"`
}

// Cell is an opaque handle to a visible cell owned by the display surface.
type Cell any

// ConfigureFunc refreshes an already-visible cell with an item value. It must
// be idempotent; the engine may invoke it multiple times for the same cell.
// The engine never creates cells, it only reconfigures ones the surface
// reports as visible.
type ConfigureFunc func(cell Cell, item any, path sectioned.IndexPath)
