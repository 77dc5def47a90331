package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgramConfig represents one vendor program configuration.
type ProgramConfig struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Vendor       string    `json:"vendor"`
	Type         string    `json:"type"`     // "loyalty", "booking", etc.
	APIType      string    `json:"api_type"` // "rest", "soap", "graphql"
	Status       string    `json:"status"`   // "active" or "inactive"
	Capabilities []string  `json:"capabilities"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SearchFields returns the field values matched by free-text search.
func (p *ProgramConfig) SearchFields() []string {
	return []string{p.Name, p.Vendor, p.Type, p.APIType}
}

// Attribute returns the categorical attribute value for a filter name.
func (p *ProgramConfig) Attribute(name string) string {
	switch name {
	case "vendor":
		return p.Vendor
	case "type":
		return p.Type
	case "api_type":
		return p.APIType
	case "status":
		return p.Status
	}
	return ""
}

// ProgramStore is an in-memory thread-safe store for program configs.
type ProgramStore struct {
	mu    sync.RWMutex
	byID  map[string]*ProgramConfig
	order []string
}

// NewProgramStore creates an empty program store.
func NewProgramStore() *ProgramStore {
	return &ProgramStore{byID: make(map[string]*ProgramConfig)}
}

// Create adds a new program, assigning it a UUID and stamping UpdatedAt.
func (s *ProgramStore) Create(p *ProgramConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New().String()
	p.UpdatedAt = time.Now()
	s.byID[p.ID] = p
	s.order = append(s.order, p.ID)
}

// Get returns a program by ID, or nil if not found.
func (s *ProgramStore) Get(id string) *ProgramConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// List returns all programs in insertion order.
func (s *ProgramStore) List() []*ProgramConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*ProgramConfig, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// FindByName returns the program with the given name, or nil.
func (s *ProgramStore) FindByName(name string) *ProgramConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.byID[id].Name == name {
			return s.byID[id]
		}
	}
	return nil
}

// Update replaces an existing program's fields. The ID is immutable.
func (s *ProgramStore) Update(p *ProgramConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return false
	}
	p.UpdatedAt = time.Now()
	s.byID[p.ID] = p
	return true
}

// Delete removes a program by ID.
func (s *ProgramStore) Delete(id string) bool {
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
