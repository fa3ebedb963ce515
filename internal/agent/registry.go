package agent

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownRole is returned when a role has no registered persona.
var ErrUnknownRole = errors.New("unknown agent role")

// Registry maps agent roles to their personas. It is safe for concurrent use;
// servers share one registry across requests.
type Registry struct {
	mu       sync.RWMutex
	personas map[Role]Persona
}

// NewRegistry creates a Registry pre-registered with the default persona for
// every role.
func NewRegistry() *Registry {
	return &Registry{
		personas: map[Role]Persona{
			RoleVenue:     VenueCoordinator,
			RoleLogistics: LogisticsManager,
			RoleMarketing: MarketingSpecialist,
		},
	}
}

// Roles returns the built-in roles in pipeline order.
func Roles() []Role {
	return []Role{RoleVenue, RoleLogistics, RoleMarketing}
}

// Register sets the persona for a role, replacing any existing one.
func (r *Registry) Register(role Role, p Persona) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas[role] = p
}

// Override merges the non-empty fields of p into the persona registered for
// role.
func (r *Registry) Override(role Role, p Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.personas[role]
	if !ok {
		return fmt.Errorf("override %q: %w", role, ErrUnknownRole)
	}
	r.personas[role] = current.Merge(p)
	return nil
}

// Lookup returns the persona registered for role.
func (r *Registry) Lookup(role Role) (Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.personas[role]
	if !ok {
		return Persona{}, fmt.Errorf("lookup %q: %w", role, ErrUnknownRole)
	}
	return p, nil
}

// MustLookup is like Lookup but panics when the role is missing. It is meant
// for the built-in roles, which NewRegistry always registers.
func (r *Registry) MustLookup(role Role) Persona {
	p, err := r.Lookup(role)
	if err != nil {
		panic(err)
	}
	return p
}
