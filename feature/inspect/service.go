package inspect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"view-sync/core/reconcile"
	"view-sync/core/sectioned"
	"view-sync/core/server"
	"view-sync/core/surface"
	"view-sync/feature/store"
)

// Reconciler is the policy surface the service drives. Both
// reconcile.Sequential and reconcile.Batched satisfy it.
type Reconciler interface {
	Apply(txn *reconcile.Transaction)
	Detach()
}

// Event is one mutation in a posted transaction. Kind selects which fields
// are required:
//
//	insert          new_path, item
//	delete          old_path
//	update          old_path, item
//	move            old_path, new_path
//	insert_section  index (title optional)
//	delete_section  index
type Event struct {
	Kind    string               `json:"kind"`
	OldPath *sectioned.IndexPath `json:"old_path,omitempty"`
	NewPath *sectioned.IndexPath `json:"new_path,omitempty"`
	Index   *int                 `json:"index,omitempty"`
	Title   string               `json:"title,omitempty"`
	Item    any                  `json:"item,omitempty"`
}

// Report describes what a posted transaction did to the surface.
// Transaction is empty when the mutation was routed through the persistent
// store, whose notifications arrive only after commit.
type Report struct {
	Transaction string           `json:"transaction,omitempty"`
	Ops         []surface.Op     `json:"ops"`
	Surface     surface.Snapshot `json:"surface"`
}

// Service owns the inspectable model, surface, and reconciliation pipeline.
// With a store attached, mutations run through the store's database
// transaction instead of the in-memory model.
type Service struct {
	model      *sectioned.Model
	store      *store.Controller
	surface    *surface.Surface
	bridge     *reconcile.Bridge
	reconciler Reconciler
	logger     *zap.Logger
}

// NewService wires a model, surface, and policy into a working pipeline.
// policy must be one of the server policy constants.
func NewService(model *sectioned.Model, surf *surface.Surface, policy string, configure reconcile.ConfigureFunc, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var rec Reconciler
	switch policy {
	case server.PolicySequential:
		rec = reconcile.NewSequential(surf, configure, logger)
	case server.PolicyBatched:
		rec = reconcile.NewBatched(surf, configure, logger)
	default:
		return nil, fmt.Errorf("unknown reconciler policy %q", policy)
	}

	s := &Service{
		model:      model,
		surface:    surf,
		reconciler: rec,
		logger:     logger,
	}
	s.bridge = reconcile.NewBridge(rec.Apply, logger)
	return s, nil
}

// NewStoreService wires a database-backed controller into the pipeline. The
// controller's mirror is the observed model and its post-commit notifications
// drive the reconciler.
func NewStoreService(ctrl *store.Controller, surf *surface.Surface, policy string, configure reconcile.ConfigureFunc, logger *zap.Logger) (*Service, error) {
	s, err := NewService(ctrl.Model(), surf, policy, configure, logger)
	if err != nil {
		return nil, err
	}
	s.store = ctrl
	ctrl.SetListener(s.bridge)
	return s, nil
}

// Snapshot returns the current surface state.
func (s *Service) Snapshot() surface.Snapshot {
	return s.surface.Snapshot()
}

// Perform applies the events in order, forwarding each as a change
// notification, then commits the transaction so the reconciler replays it
// against the surface. The returned report contains only the operations this
// transaction issued.
//
// A mutation failure aborts the transaction before commit; the surface is
// resynchronized with a full reload so the two cannot stay diverged.
func (s *Service) Perform(ctx context.Context, events []Event) (*Report, error) {
	if s.store != nil {
		return s.performStore(ctx, events)
	}

	s.surface.ResetOps()

	s.bridge.WillChange()
	txnID := s.bridge.Transaction().ID().String()

	for i, ev := range events {
		if err := s.applyEvent(ev); err != nil {
			s.logger.Warn("transaction aborted",
				zap.String("txn", txnID),
				zap.Int("event", i),
				zap.Error(err))
			s.surface.ReloadAll()
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}

	s.bridge.DidChangeContent()

	return &Report{
		Transaction: txnID,
		Ops:         s.surface.Ops(),
		Surface:     s.surface.Snapshot(),
	}, nil
}

// performStore routes the events through the controller's database
// transaction. Notifications arrive after commit, so a failed event rolls
// the whole batch back and the surface sees nothing.
func (s *Service) performStore(ctx context.Context, events []Event) (*Report, error) {
	s.surface.ResetOps()

	err := s.store.Perform(ctx, func(m *store.Mutation) error {
		for i, ev := range events {
			if err := s.applyStoreEvent(m, ev); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Report{
		Ops:     s.surface.Ops(),
		Surface: s.surface.Snapshot(),
	}, nil
}

// applyStoreEvent maps one posted event onto the store's mutation surface.
func (s *Service) applyStoreEvent(m *store.Mutation, ev Event) error {
	switch ev.Kind {
	case "insert":
		if ev.NewPath == nil {
			return fmt.Errorf("insert requires new_path")
		}
		_, err := m.InsertItem(ev.NewPath.Section, ev.NewPath.Item, payloadString(ev.Item))
		return err

	case "delete":
		if ev.OldPath == nil {
			return fmt.Errorf("delete requires old_path")
		}
		return m.DeleteItem(*ev.OldPath)

	case "update":
		if ev.OldPath == nil {
			return fmt.Errorf("update requires old_path")
		}
		_, err := m.UpdateItem(*ev.OldPath, payloadString(ev.Item))
		return err

	case "move":
		if ev.OldPath == nil || ev.NewPath == nil {
			return fmt.Errorf("move requires old_path and new_path")
		}
		return m.MoveItem(*ev.OldPath, *ev.NewPath)

	case "insert_section":
		if ev.Index == nil {
			return fmt.Errorf("insert_section requires index")
		}
		return m.InsertSection(*ev.Index)

	case "delete_section":
		if ev.Index == nil {
			return fmt.Errorf("delete_section requires index")
		}
		return m.DeleteSection(*ev.Index)

	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func payloadString(item any) string {
	if s, ok := item.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", item)
}

// applyEvent mutates the model and forwards the matching notification.
func (s *Service) applyEvent(ev Event) error {
	switch ev.Kind {
	case "insert":
		if ev.NewPath == nil {
			return fmt.Errorf("insert requires new_path")
		}
		if err := s.model.Insert(*ev.NewPath, ev.Item); err != nil {
			return err
		}
		s.bridge.DidChangeObject(ev.Item, nil, ev.NewPath, reconcile.ChangeInsert)

	case "delete":
		if ev.OldPath == nil {
			return fmt.Errorf("delete requires old_path")
		}
		if _, err := s.model.Remove(*ev.OldPath); err != nil {
			return err
		}
		s.bridge.DidChangeObject(nil, ev.OldPath, nil, reconcile.ChangeDelete)

	case "update":
		if ev.OldPath == nil {
			return fmt.Errorf("update requires old_path")
		}
		if _, err := s.model.Remove(*ev.OldPath); err != nil {
			return err
		}
		if err := s.model.Insert(*ev.OldPath, ev.Item); err != nil {
			return err
		}
		s.bridge.DidChangeObject(ev.Item, ev.OldPath, nil, reconcile.ChangeUpdate)

	case "move":
		if ev.OldPath == nil || ev.NewPath == nil {
			return fmt.Errorf("move requires old_path and new_path")
		}
		item, err := s.model.Move(*ev.OldPath, *ev.NewPath)
		if err != nil {
			return err
		}
		s.bridge.DidChangeObject(item, ev.OldPath, ev.NewPath, reconcile.ChangeMove)

	case "insert_section":
		if ev.Index == nil {
			return fmt.Errorf("insert_section requires index")
		}
		if err := s.model.InsertSection(*ev.Index, sectioned.Section{Title: ev.Title}); err != nil {
			return err
		}
		s.bridge.DidChangeSection(*ev.Index, reconcile.ChangeInsert)

	case "delete_section":
		if ev.Index == nil {
			return fmt.Errorf("delete_section requires index")
		}
		if err := s.model.RemoveSection(*ev.Index); err != nil {
			return err
		}
		s.bridge.DidChangeSection(*ev.Index, reconcile.ChangeDelete)

	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	return nil
}
