package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// User represents an operator account in the admin tool.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // "admin", "editor", "viewer"
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchFields returns the field values matched by free-text search.
func (u *User) SearchFields() []string {
	return []string{u.Name, u.Email, u.Role}
}

// Attribute returns the categorical attribute value for a filter name.
func (u *User) Attribute(name string) string {
	switch name {
	case "role":
		return u.Role
	case "status":
		if u.Active {
			return "active"
		}
		return "inactive"
	}
	return ""
}

// UserStore is an in-memory thread-safe store for users.
type UserStore struct {
	mu    sync.RWMutex
	byID  map[string]*User
	order []string
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[string]*User)}
}

// Create adds a new user, assigning it a UUID and stamping UpdatedAt.
func (s *UserStore) Create(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.New().String()
	u.UpdatedAt = time.Now()
	s.byID[u.ID] = u
	s.order = append(s.order, u.ID)
}

// Get returns a user by ID, or nil if not found.
func (s *UserStore) Get(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// List returns all users in insertion order.
func (s *UserStore) List() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*User, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// FindByName returns the user with the given name, or nil.
func (s *UserStore) FindByName(name string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.byID[id].Name == name {
			return s.byID[id]
		}
	}
	return nil
}

// FindByEmail returns the user with the given email, or nil.
func (s *UserStore) FindByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.byID[id].Email == email {
			return s.byID[id]
		}
	}
	return nil
}

// Update replaces an existing user's fields. The ID is immutable.
func (s *UserStore) Update(u *User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return false
	}
	u.UpdatedAt = time.Now()
	s.byID[u.ID] = u
	return true
}

// ToggleActive flips a user's active flag, returning the new value. The
// stored struct is replaced rather than mutated so pointers handed out by
// Get/List stay stable for concurrent readers.
func (s *UserStore) ToggleActive(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return false, false
	}
	toggled := *u
	toggled.Active = !toggled.Active
	toggled.UpdatedAt = time.Now()
	s.byID[id] = &toggled
	return toggled.Active, true
}

// Delete removes a user by ID.
func (s *UserStore) Delete(id string) bool {
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
