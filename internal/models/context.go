package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CustomerContext represents one customer deployment context managed by GECK.
type CustomerContext struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CustomerName string    `json:"customer_name"`
	Industry     string    `json:"industry"` // "Travel", "Finance", etc.
	Entity       string    `json:"entity"`
	Status       string    `json:"status"` // "active" or "inactive"
	Capabilities []string  `json:"capabilities"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SearchFields returns the field values matched by free-text search.
func (c *CustomerContext) SearchFields() []string {
	return []string{c.Name, c.CustomerName, c.Industry, c.Entity}
}

// Attribute returns the categorical attribute value for a filter name.
func (c *CustomerContext) Attribute(name string) string {
	switch name {
	case "industry":
		return c.Industry
	case "entity":
		return c.Entity
	case "status":
		return c.Status
	}
	return ""
}

// ContextStore is an in-memory thread-safe store for customer contexts.
// List order is insertion order, which is what list views display.
type ContextStore struct {
	mu    sync.RWMutex
	byID  map[string]*CustomerContext
	order []string
}

// NewContextStore creates an empty context store.
func NewContextStore() *ContextStore {
	return &ContextStore{byID: make(map[string]*CustomerContext)}
}

// Create adds a new context, assigning it a UUID and stamping UpdatedAt.
func (s *ContextStore) Create(c *CustomerContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New().String()
	c.UpdatedAt = time.Now()
	s.byID[c.ID] = c
	s.order = append(s.order, c.ID)
}

// Get returns a context by ID, or nil if not found.
func (s *ContextStore) Get(id string) *CustomerContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// List returns all contexts in insertion order.
func (s *ContextStore) List() []*CustomerContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*CustomerContext, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// FindByName returns the context with the given name, or nil.
func (s *ContextStore) FindByName(name string) *CustomerContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.byID[id].Name == name {
			return s.byID[id]
		}
	}
	return nil
}

// Update replaces an existing context's fields. The ID is immutable.
func (s *ContextStore) Update(c *CustomerContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[c.ID]; !ok {
		return false
	}
	c.UpdatedAt = time.Now()
	s.byID[c.ID] = c
	return true
}

// Delete removes a context by ID.
func (s *ContextStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
