// Package orders holds the service orders the calendar schedules from.
//
// MemoryStore is seeded from a YAML file and keeps edits in memory only;
// the order entry system remains the system of record.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
	"fieldcal/internal/recurrence"
)

// ErrNotFound is returned when no order has the requested ID.
var ErrNotFound = errors.New("service order not found")

// Store is the read/update surface the calendar needs.
type Store interface {
	List(ctx context.Context) ([]model.ServiceOrder, error)
	Get(ctx context.Context, id string) (model.ServiceOrder, error)
	UpdateRecurrence(ctx context.Context, id string, cfg model.RecurrenceConfig) (model.ServiceOrder, error)
}

// MemoryStore is a Store backed by a slice, in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []model.ServiceOrder
	index  map[string]int
}

// NewMemoryStore builds a store from orders, recomputing every next
// execution date. Duplicate IDs and invalid recurrences are rejected.
func NewMemoryStore(orders []model.ServiceOrder) (*MemoryStore, error) {
	s := &MemoryStore{
		orders: make([]model.ServiceOrder, 0, len(orders)),
		index:  make(map[string]int, len(orders)),
	}
	for _, o := range orders {
		if o.ID == "" {
			return nil, fmt.Errorf("service order %q: missing id", o.Number)
		}
		if _, dup := s.index[o.ID]; dup {
			return nil, fmt.Errorf("service order %q: duplicate id", o.ID)
		}
		if err := applyRecurrence(&o, o.Recurrence); err != nil {
			return nil, fmt.Errorf("service order %q: %w", o.ID, err)
		}
		s.index[o.ID] = len(s.orders)
		s.orders = append(s.orders, cloneOrder(o))
	}
	return s, nil
}

// Replace swaps the whole order set, as when the seed file changes. The
// new set is validated first; on error the current set stays.
func (s *MemoryStore) Replace(orders []model.ServiceOrder) error {
	next, err := NewMemoryStore(orders)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.orders, s.index = next.orders, next.index
	s.mu.Unlock()
	return nil
}

// List returns copies of all orders in load order.
func (s *MemoryStore) List(_ context.Context) ([]model.ServiceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ServiceOrder, len(s.orders))
	for i, o := range s.orders {
		out[i] = cloneOrder(o)
	}
	return out, nil
}

// Get returns a copy of the order with the given ID or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (model.ServiceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.ServiceOrder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneOrder(s.orders[i]), nil
}

// UpdateRecurrence replaces the order's recurrence settings and recomputes
// its next execution date. A zero cfg.Anchor means the order's open date.
// On error the stored order is left untouched.
func (s *MemoryStore) UpdateRecurrence(_ context.Context, id string, cfg model.RecurrenceConfig) (model.ServiceOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.ServiceOrder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	o := cloneOrder(s.orders[i])
	if err := applyRecurrence(&o, cfg); err != nil {
		return model.ServiceOrder{}, fmt.Errorf("service order %q: %w", id, err)
	}
	s.orders[i] = o

	next := "none"
	if o.NextExecutionDate != nil {
		next = model.DateKey(*o.NextExecutionDate)
	}
	appLog.Info("recurrence updated", "id", id, "rule", recurrence.Describe(o.Recurrence), "next", next)
	return cloneOrder(o), nil
}

func applyRecurrence(o *model.ServiceOrder, cfg model.RecurrenceConfig) error {
	if cfg.Anchor.IsZero() {
		cfg.Anchor = o.OpenDate
	}
	next, err := recurrence.NextExecutionDate(cfg)
	if err != nil {
		return err
	}
	o.Recurrence = cfg
	if d, ok := next.Get(); ok {
		o.NextExecutionDate = &d
	} else {
		o.NextExecutionDate = nil
	}
	return nil
}

func cloneOrder(o model.ServiceOrder) model.ServiceOrder {
	o.ForecastDate = clonePtr(o.ForecastDate)
	o.NextExecutionDate = clonePtr(o.NextExecutionDate)
	return o
}

func clonePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
