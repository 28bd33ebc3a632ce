package scope

import "strings"

// Record describes the governance scope a decision event occurred in.
// All populated fields are authoritative; signal population copies from
// them verbatim and never writes back.
type Record struct {
	// ID is the stable human-readable scope identifier. It must carry the
	// domain as a prefix (see ValidateID).
	ID string `json:"id" yaml:"id"`

	// Domain is the governance domain. Required.
	Domain string `json:"domain" yaml:"domain"`

	// Service is the service the event originates from.
	Service string `json:"service,omitempty" yaml:"service,omitempty"`

	// Agent is the acting agent identity.
	Agent string `json:"agent,omitempty" yaml:"agent,omitempty"`

	// System is the system the event belongs to.
	System string `json:"system,omitempty" yaml:"system,omitempty"`

	// Environment is the deployment environment (e.g. "production").
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// OwningTeam is the team accountable for this scope.
	OwningTeam string `json:"owning_team,omitempty" yaml:"owning_team,omitempty"`
}

// Selector describes which decision scopes a policy governs. Domain is
// required and matched exactly; every other field acts as a wildcard when
// empty and as an exact-match requirement when set.
type Selector struct {
	Domain      string `json:"domain" yaml:"domain"`
	Service     string `json:"service,omitempty" yaml:"service,omitempty"`
	Agent       string `json:"agent,omitempty" yaml:"agent,omitempty"`
	System      string `json:"system,omitempty" yaml:"system,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// Matches reports whether the selector governs the given scope record.
func Matches(sel Selector, rec Record) bool {
	// Domain is the hard governance boundary.
	if sel.Domain != rec.Domain {
		return false
	}

	if sel.Service != "" && sel.Service != rec.Service {
		return false
	}
	if sel.Agent != "" && sel.Agent != rec.Agent {
		return false
	}
	if sel.System != "" && sel.System != rec.System {
		return false
	}
	if sel.Environment != "" && sel.Environment != rec.Environment {
		return false
	}

	return true
}

// DimensionValue returns the value of the named scope dimension on the
// record, if the name refers to one. Used by condition evaluation as the
// fallback after the signal context.
func (r Record) DimensionValue(name string) (string, bool) {
	switch name {
	case "domain":
		return r.Domain, true
	case "service":
		return r.Service, true
	case "agent":
		return r.Agent, true
	case "system":
		return r.System, true
	case "environment":
		return r.Environment, true
	}
	return "", false
}

// IsDimension reports whether name is a scope dimension.
func IsDimension(name string) bool {
	switch name {
	case "domain", "service", "agent", "system", "environment":
		return true
	}
	return false
}

// ValidateID checks that a scope identifier carries its declared domain as
// a prefix. The identifier must equal the domain or start with "<domain>.".
// A violating identifier is a scope isolation violation and must be
// rejected, never corrected.
func ValidateID(id, domain string) error {
	if domain == "" {
		return &IsolationError{ScopeID: id, Domain: domain, Message: "domain is required"}
	}
	if id == "" {
		return &IsolationError{ScopeID: id, Domain: domain, Message: "scope id is required"}
	}
	if id == domain || strings.HasPrefix(id, domain+".") {
		return nil
	}
	return &IsolationError{
		ScopeID: id,
		Domain:  domain,
		Message: "scope id must be prefixed by its domain",
	}
}

// Validate checks the structural integrity of a scope record.
func (r Record) Validate() error {
	return ValidateID(r.ID, r.Domain)
}
