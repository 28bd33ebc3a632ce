package spec

import (
	"fmt"
	"sort"
	"sync"

	"clearline-hq/arbiter/pkg/decision"
)

// Registry is thread-safe in-memory storage for decision contracts. It owns
// the spec lifecycle: specs enter as drafts, are activated (at most one
// active spec per key), and are deprecated when superseded, never deleted.
//
// The registry stores deep copies and returns deep copies, so active specs
// are immutable from the caller's point of view.
type Registry struct {
	mu sync.RWMutex

	// specs indexes every registered spec version by "id@version".
	specs map[string]*Spec

	// active indexes the single active spec per key.
	active map[Key]*Spec
}

// NewRegistry creates an empty spec registry.
func NewRegistry() *Registry {
	return &Registry{
		specs:  make(map[string]*Spec),
		active: make(map[Key]*Spec),
	}
}

func versionKey(id, version string) string {
	return id + "@" + version
}

// Register adds a spec to the registry in draft status. The spec must pass
// structural validation. Registering an (id, version) pair twice is an
// error: spec versions are immutable.
func (r *Registry) Register(s *Spec) error {
	if s == nil {
		return &RegistryError{Operation: "register", Message: "spec cannot be nil"}
	}
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	vk := versionKey(s.ID, s.Version)
	if _, exists := r.specs[vk]; exists {
		return &RegistryError{
			SpecID:    s.ID,
			Operation: "register",
			Message:   fmt.Sprintf("version %s already registered; spec versions are immutable", s.Version),
		}
	}

	stored := s.Clone()
	stored.Status = StatusDraft
	r.specs[vk] = stored

	return nil
}

// Activate promotes a registered spec version to active. At most one spec
// may be active per key: if a different spec already holds the key, the
// prior active spec is deprecated and superseded atomically.
func (r *Registry) Activate(id, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.specs[versionKey(id, version)]
	if !ok {
		return &RegistryError{
			SpecID:    id,
			Operation: "activate",
			Message:   fmt.Sprintf("version %s not registered", version),
		}
	}

	if s.Status == StatusDeprecated {
		return &RegistryError{
			SpecID:    id,
			Operation: "activate",
			Message:   fmt.Sprintf("version %s is deprecated and cannot be reactivated", version),
		}
	}

	if prior, ok := r.active[s.Key]; ok && (prior.ID != s.ID || prior.Version != s.Version) {
		prior.Status = StatusDeprecated
	}

	s.Status = StatusActive
	r.active[s.Key] = s

	return nil
}

// Deprecate retires a spec version. If it is the active spec for its key,
// the key is left with no active spec.
func (r *Registry) Deprecate(id, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.specs[versionKey(id, version)]
	if !ok {
		return &RegistryError{
			SpecID:    id,
			Operation: "deprecate",
			Message:   fmt.Sprintf("version %s not registered", version),
		}
	}

	if cur, ok := r.active[s.Key]; ok && cur == s {
		delete(r.active, s.Key)
	}
	s.Status = StatusDeprecated

	return nil
}

// ResolveActive returns a copy of the single active spec for the key, or a
// *NotFoundError when no active spec matches. The returned copy is locked
// to its version: later registry changes never affect it.
func (r *Registry) ResolveActive(org, domain, intent string, stage decision.Stage) (*Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := Key{Organization: org, Domain: domain, Intent: intent, Stage: stage}
	s, ok := r.active[key]
	if !ok {
		return nil, &NotFoundError{
			Organization: org,
			Domain:       domain,
			Intent:       intent,
			Stage:        stage,
		}
	}

	return s.Clone(), nil
}

// Get returns a copy of the spec with the given id and version, registered
// in any lifecycle status.
func (r *Registry) Get(id, version string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.specs[versionKey(id, version)]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// HasSpec reports whether any version of the spec id is registered.
func (r *Registry) HasSpec(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.specs {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Count returns the number of registered spec versions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.specs)
}

// ActiveSpecs returns copies of all active specs, sorted by key for
// deterministic iteration.
func (r *Registry) ActiveSpecs() []*Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]*Spec, 0, len(r.active))
	for _, s := range r.active {
		specs = append(specs, s.Clone())
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Key.String() < specs[j].Key.String()
	})
	return specs
}
