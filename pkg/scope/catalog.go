package scope

import (
	"fmt"
	"sort"
	"sync"
)

// Scope is a governance scope entity: a selector owned by a team for
// accountability, referenced by policies via its identifier.
type Scope struct {
	// ID is the stable human-readable identifier, prefixed by the domain.
	ID string `yaml:"id"`

	// OwningTeam is the team accountable for decisions under this scope.
	OwningTeam string `yaml:"owning_team"`

	// Selector describes the slice of the organization this scope covers.
	Selector Selector `yaml:",inline"`
}

// Validate checks the scope's structural integrity, including the
// domain-prefix rule on its identifier.
func (s *Scope) Validate() error {
	if s.Selector.Domain == "" {
		return &IsolationError{ScopeID: s.ID, Message: "scope domain is required"}
	}
	return ValidateID(s.ID, s.Selector.Domain)
}

// Catalog is a thread-safe registry of scope entities keyed by identifier.
// Scope identifiers violating the domain-prefix rule are rejected on entry,
// never corrected.
type Catalog struct {
	mu     sync.RWMutex
	scopes map[string]*Scope
}

// NewCatalog creates an empty scope catalog.
func NewCatalog() *Catalog {
	return &Catalog{scopes: make(map[string]*Scope)}
}

// Add registers a scope entity. Adding an existing identifier replaces the
// prior entry.
func (c *Catalog) Add(s *Scope) error {
	if s == nil {
		return fmt.Errorf("scope cannot be nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *s
	c.scopes[s.ID] = &copied
	return nil
}

// Get returns the scope with the given identifier.
func (c *Catalog) Get(id string) (*Scope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.scopes[id]
	if !ok {
		return nil, false
	}
	copied := *s
	return &copied, true
}

// Has reports whether a scope with the identifier exists.
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.scopes[id]
	return ok
}

// Count returns the number of registered scopes.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.scopes)
}

// IDs returns all scope identifiers, sorted.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.scopes))
	for id := range c.scopes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve finds the scope whose selector exactly equals the record's
// dimensions (empty-for-empty on optional fields). Exact match is used
// rather than most-specific match so a decision always lands on the scope
// the caller declared, never a broader one. Candidates are checked in
// sorted identifier order so resolution is stable when two entries carry
// the same selector.
func (c *Catalog) Resolve(rec Record) (*Scope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.scopes))
	for id := range c.scopes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := c.scopes[id]
		sel := s.Selector
		if sel.Domain == rec.Domain &&
			sel.Service == rec.Service &&
			sel.Agent == rec.Agent &&
			sel.System == rec.System &&
			sel.Environment == rec.Environment {
			copied := *s
			return &copied, true
		}
	}
	return nil, false
}
