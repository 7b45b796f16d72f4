package store

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"view-sync/core/reconcile"
	"view-sync/core/sectioned"
)

// notification is one recorded listener call, replayed after commit.
type notification struct {
	section *reconcile.SectionChangeEvent

	kind    reconcile.ChangeKind
	item    any
	oldPath *sectioned.IndexPath
	newPath *sectioned.IndexPath
}

// Mutation is the write surface handed to Perform callbacks. Every operation
// updates the table inside the surrounding transaction, updates the mirror,
// and records the notification that will be delivered after commit.
type Mutation struct {
	controller *Controller
	tx         *gorm.DB
	notes      []notification
}

// InsertItem creates a row at (section, index), shifting later rows down.
func (m *Mutation) InsertItem(section, index int, payload string) (Entry, error) {
	path := sectioned.Path(section, index)
	entry := Entry{
		ID:       uuid.NewString(),
		Section:  section,
		Position: index,
		Payload:  payload,
	}

	shift := m.tx.Model(&Entry{}).
		Where("section = ? AND position >= ?", section, index).
		UpdateColumn("position", gorm.Expr("position + 1"))
	if shift.Error != nil {
		return Entry{}, fmt.Errorf("insert at %s: shift positions: %w", path, shift.Error)
	}
	if err := m.tx.Create(&entry).Error; err != nil {
		return Entry{}, fmt.Errorf("insert at %s: %w", path, err)
	}

	if err := m.controller.mirror.Insert(path, entry); err != nil {
		return Entry{}, err
	}

	m.notes = append(m.notes, notification{
		kind:    reconcile.ChangeInsert,
		item:    entry,
		newPath: &path,
	})
	return entry, nil
}

// DeleteItem removes the row at path, shifting later rows up.
func (m *Mutation) DeleteItem(path sectioned.IndexPath) error {
	entry, err := sectioned.ItemAs[Entry](m.controller.mirror, path)
	if err != nil {
		return fmt.Errorf("delete at %s: %w", path, err)
	}

	if err := m.tx.Delete(&Entry{}, "id = ?", entry.ID).Error; err != nil {
		return fmt.Errorf("delete at %s: %w", path, err)
	}
	shift := m.tx.Model(&Entry{}).
		Where("section = ? AND position > ?", path.Section, path.Item).
		UpdateColumn("position", gorm.Expr("position - 1"))
	if shift.Error != nil {
		return fmt.Errorf("delete at %s: shift positions: %w", path, shift.Error)
	}

	if _, err := m.controller.mirror.Remove(path); err != nil {
		return err
	}

	m.notes = append(m.notes, notification{
		kind:    reconcile.ChangeDelete,
		item:    entry,
		oldPath: &path,
	})
	return nil
}

// UpdateItem replaces the payload of the row at path. The notification
// carries the updated entry so the bridge snapshots the new value at
// notification time.
func (m *Mutation) UpdateItem(path sectioned.IndexPath, payload string) (Entry, error) {
	entry, err := sectioned.ItemAs[Entry](m.controller.mirror, path)
	if err != nil {
		return Entry{}, fmt.Errorf("update at %s: %w", path, err)
	}
	entry.Payload = payload

	result := m.tx.Model(&Entry{}).
		Where("id = ?", entry.ID).
		UpdateColumn("payload", payload)
	if result.Error != nil {
		return Entry{}, fmt.Errorf("update at %s: %w", path, result.Error)
	}

	if _, err := m.controller.mirror.Remove(path); err != nil {
		return Entry{}, err
	}
	if err := m.controller.mirror.Insert(path, entry); err != nil {
		return Entry{}, err
	}

	m.notes = append(m.notes, notification{
		kind:    reconcile.ChangeUpdate,
		item:    entry,
		oldPath: &path,
	})
	return entry, nil
}

// MoveItem relocates the row at from to to, adjusting positions in both the
// source and destination sections.
func (m *Mutation) MoveItem(from, to sectioned.IndexPath) error {
	entry, err := sectioned.ItemAs[Entry](m.controller.mirror, from)
	if err != nil {
		return fmt.Errorf("move %s -> %s: %w", from, to, err)
	}

	shiftOut := m.tx.Model(&Entry{}).
		Where("section = ? AND position > ?", from.Section, from.Item).
		UpdateColumn("position", gorm.Expr("position - 1"))
	if shiftOut.Error != nil {
		return fmt.Errorf("move %s -> %s: shift source: %w", from, to, shiftOut.Error)
	}
	shiftIn := m.tx.Model(&Entry{}).
		Where("section = ? AND position >= ? AND id <> ?", to.Section, to.Item, entry.ID).
		UpdateColumn("position", gorm.Expr("position + 1"))
	if shiftIn.Error != nil {
		return fmt.Errorf("move %s -> %s: shift destination: %w", from, to, shiftIn.Error)
	}
	place := m.tx.Model(&Entry{}).
		Where("id = ?", entry.ID).
		UpdateColumns(map[string]any{"section": to.Section, "position": to.Item})
	if place.Error != nil {
		return fmt.Errorf("move %s -> %s: %w", from, to, place.Error)
	}

	if _, err := m.controller.mirror.Move(from, to); err != nil {
		return err
	}

	m.notes = append(m.notes, notification{
		kind:    reconcile.ChangeMove,
		item:    entry,
		oldPath: &from,
		newPath: &to,
	})
	return nil
}

// InsertSection opens an empty section at index, shifting later sections.
func (m *Mutation) InsertSection(index int) error {
	shift := m.tx.Model(&Entry{}).
		Where("section >= ?", index).
		UpdateColumn("section", gorm.Expr("section + 1"))
	if shift.Error != nil {
		return fmt.Errorf("insert section %d: %w", index, shift.Error)
	}

	if err := m.controller.mirror.InsertSection(index, sectioned.Section{}); err != nil {
		return err
	}

	m.notes = append(m.notes, notification{
		section: &reconcile.SectionChangeEvent{Kind: reconcile.ChangeInsert, Index: index},
	})
	return nil
}

// DeleteSection removes the section at index together with its rows,
// shifting later sections up.
func (m *Mutation) DeleteSection(index int) error {
	if err := m.tx.Delete(&Entry{}, "section = ?", index).Error; err != nil {
		return fmt.Errorf("delete section %d: %w", index, err)
	}
	shift := m.tx.Model(&Entry{}).
		Where("section > ?", index).
		UpdateColumn("section", gorm.Expr("section - 1"))
	if shift.Error != nil {
		return fmt.Errorf("delete section %d: shift sections: %w", index, shift.Error)
	}

	if err := m.controller.mirror.RemoveSection(index); err != nil {
		return err
	}

	m.notes = append(m.notes, notification{
		section: &reconcile.SectionChangeEvent{Kind: reconcile.ChangeDelete, Index: index},
	})
	return nil
}
