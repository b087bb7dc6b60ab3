// Package memory implementa los puertos de persistencia en memoria. Se usa en pruebas y en
// ejecuciones locales sin PostgreSQL (DATABASE_URL=memory).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store datos en memoria. Run serializa las transacciones (equivalente a bloquear todas las filas)
// y en caso de error restaura la copia tomada al inicio.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	items     map[string]*entity.Item
	locations map[string]*entity.Location
	batches   map[string]*entity.Batch
	movements []*entity.Movement
	lines     map[string]*entity.OpenOrderLine
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]*entity.Item),
		locations: make(map[string]*entity.Location),
		batches:   make(map[string]*entity.Batch),
		lines:     make(map[string]*entity.OpenOrderLine),
	}
}

// Repos devuelve los repositorios sobre el store.
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Movements:  &movementRepo{s: s},
		Items:      &itemRepo{s: s},
		Locations:  &locationRepo{s: s},
		Batches:    &batchRepo{s: s},
		OpenOrders: &openOrderRepo{s: s},
	}
}

// Run ejecuta fn como una transacción: todo o nada.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.restore(snap)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type snapshot struct {
	items     map[string]*entity.Item
	locations map[string]*entity.Location
	batches   map[string]*entity.Batch
	movements int
	lines     map[string]*entity.OpenOrderLine
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		items:     make(map[string]*entity.Item, len(s.items)),
		locations: make(map[string]*entity.Location, len(s.locations)),
		batches:   make(map[string]*entity.Batch, len(s.batches)),
		movements: len(s.movements),
		lines:     make(map[string]*entity.OpenOrderLine, len(s.lines)),
	}
	for k, v := range s.items {
		c := *v
		snap.items[k] = &c
	}
	for k, v := range s.locations {
		c := *v
		snap.locations[k] = &c
	}
	for k, v := range s.batches {
		c := *v
		snap.batches[k] = &c
	}
	for k, v := range s.lines {
		c := *v
		snap.lines[k] = &c
	}
	return snap
}

// restore vuelve al estado de la copia. El ledger solo crece, basta truncarlo.
func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.locations = snap.locations
	s.batches = snap.batches
	s.movements = s.movements[:snap.movements]
	s.lines = snap.lines
}
