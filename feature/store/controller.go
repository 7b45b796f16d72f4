package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"view-sync/core/reconcile"
	"view-sync/core/sectioned"
)

// Listener is the observed-store notification contract consumed by the
// bridge adapter. All notifications of one logical mutation batch arrive
// between one WillChange/DidChangeContent pair, delivered serially on the
// caller's thread, with no interleaving from a second batch.
type Listener interface {
	WillChange()
	DidChangeSection(index int, kind reconcile.ChangeKind)
	DidChangeObject(item any, oldPath, newPath *sectioned.IndexPath, kind reconcile.ChangeKind)
	DidChangeContent()
}

// Controller is a fetched-results controller over the entries table. It
// keeps a sectioned in-memory mirror of the table and notifies its listener
// about every mutation performed through it.
type Controller struct {
	db       *gorm.DB
	mirror   *sectioned.Model
	listener Listener
	log      *zap.Logger
}

// NewController creates a controller with an empty mirror; call Fetch to
// populate it. A nil logger is replaced with a no-op logger.
func NewController(db *gorm.DB, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		db:     db,
		mirror: sectioned.NewModel(),
		log:    log,
	}
}

// SetListener installs the notification listener. Pass nil to detach.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// Model exposes the controller's mirror. Callers must treat it as read-only.
func (c *Controller) Model() *sectioned.Model {
	return c.mirror
}

// NumberOfSections makes the controller a surface data source. The
// indirection matters: Fetch replaces the mirror, so surfaces must query
// through the controller rather than hold the mirror pointer.
func (c *Controller) NumberOfSections() int {
	return c.mirror.NumberOfSections()
}

// NumberOfItems returns the mirror's item count for a section.
func (c *Controller) NumberOfItems(section int) int {
	return c.mirror.NumberOfItems(section)
}

// Item returns the mirror's item at path.
func (c *Controller) Item(path sectioned.IndexPath) (any, bool) {
	return c.mirror.Item(path)
}

// Fetch loads all rows ordered by section and position and rebuilds the
// mirror. Sections are contiguous: the mirror has max(section)+1 sections,
// empty ones included.
func (c *Controller) Fetch(ctx context.Context) error {
	var rows []Entry
	result := c.db.WithContext(ctx).
		Order("section, position").
		Find(&rows)
	if result.Error != nil {
		return fmt.Errorf("fetch entries: %w", result.Error)
	}

	sections := 0
	for _, row := range rows {
		if row.Section+1 > sections {
			sections = row.Section + 1
		}
	}

	built := make([]sectioned.Section, sections)
	for _, row := range rows {
		built[row.Section].Items = append(built[row.Section].Items, row)
	}

	c.mirror = sectioned.NewModel(built...)
	c.log.Debug("fetched entries", zap.Int("rows", len(rows)), zap.Int("sections", sections))
	return nil
}

// Perform runs fn's mutation operations inside one database transaction and,
// after a successful commit, delivers the recorded notifications as one
// bracketed batch. On error the database transaction rolls back and the
// mirror is re-fetched so it cannot drift from the table; no notifications
// are delivered.
func (c *Controller) Perform(ctx context.Context, fn func(m *Mutation) error) error {
	m := &Mutation{controller: c}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m.tx = tx
		return fn(m)
	})
	if err != nil {
		if fetchErr := c.Fetch(ctx); fetchErr != nil {
			c.log.Error("mirror re-fetch after rollback failed", zap.Error(fetchErr))
		}
		return fmt.Errorf("perform mutation batch: %w", err)
	}

	c.deliver(m.notes)
	return nil
}

// deliver replays the recorded notifications to the listener in arrival
// order, bracketed by WillChange and DidChangeContent.
func (c *Controller) deliver(notes []notification) {
	if c.listener == nil {
		return
	}

	c.listener.WillChange()
	for _, n := range notes {
		if n.section != nil {
			c.listener.DidChangeSection(n.section.Index, n.section.Kind)
			continue
		}
		c.listener.DidChangeObject(n.item, n.oldPath, n.newPath, n.kind)
	}
	c.listener.DidChangeContent()
}
