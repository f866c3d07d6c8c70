package host

import (
	"fmt"
	"sync"

	"github.com/aretw0/narrative/pkg/domain"
)

// EntityNotFoundError is returned for commands naming an unknown entity.
type EntityNotFoundError struct {
	ID string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found", e.ID)
}

// Model is the host's runtime entity store. It records the changes made
// since the last Flush.
type Model struct {
	mu       sync.RWMutex
	entities map[string]domain.EntityBase
	order    []string

	added   []string
	updated map[string][]string
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		entities: make(map[string]domain.EntityBase),
		updated:  make(map[string][]string),
	}
}

// Add inserts a new entity. IDs must be unique.
func (m *Model) Add(e domain.EntityBase) error {
	if e.ID == "" {
		return fmt.Errorf("entity id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entities[e.ID]; exists {
		return fmt.Errorf("entity %q already exists", e.ID)
	}
	m.entities[e.ID] = e
	m.order = append(m.order, e.ID)
	m.added = append(m.added, e.ID)
	return nil
}

// Rename changes the name of an existing entity.
func (m *Model) Rename(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return &EntityNotFoundError{ID: id}
	}
	e.Name = name
	m.entities[id] = e
	m.markUpdated(id, "name")
	return nil
}

func (m *Model) markUpdated(id, prop string) {
	for _, p := range m.updated[id] {
		if p == prop {
			return
		}
	}
	m.updated[id] = append(m.updated[id], prop)
}

// Get returns an entity by id.
func (m *Model) Get(id string) (domain.EntityBase, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	return e, ok
}

// List returns the entities in insertion order.
func (m *Model) List() []domain.EntityBase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.EntityBase, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entities[id])
	}
	return out
}

// Flush returns the pending change set and starts a new one. An entity
// added and renamed in the same period is reported only as added.
func (m *Model) Flush() domain.EntityChanges {
	m.mu.Lock()
	defer m.mu.Unlock()

	var changes domain.EntityChanges
	fresh := make(map[string]bool, len(m.added))
	for _, id := range m.added {
		fresh[id] = true
		changes.Added = append(changes.Added, m.entities[id])
	}
	for _, id := range m.order {
		props, ok := m.updated[id]
		if !ok || fresh[id] {
			continue
		}
		changes.Updated = append(changes.Updated, domain.UpdatedEntity{
			Entity:             m.entities[id],
			ModifiedProperties: props,
		})
	}

	m.added = nil
	m.updated = make(map[string][]string)
	return changes
}
