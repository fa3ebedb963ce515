package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupEachRole(t *testing.T) {
	want := map[Role]Persona{
		RoleVenue:     VenueCoordinator,
		RoleLogistics: LogisticsManager,
		RoleMarketing: MarketingSpecialist,
	}

	reg := NewRegistry()
	for _, role := range Roles() {
		t.Run(string(role), func(t *testing.T) {
			p, err := reg.Lookup(role)
			require.NoError(t, err, "Lookup(%q) should succeed", role)
			assert.Equal(t, want[role], p)
			assert.NotEmpty(t, p.Role)
			assert.NotEmpty(t, p.Goal)
			assert.NotEmpty(t, p.Backstory)
		})
	}
}

func TestRegistry_LookupUnknownRole(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Lookup(Role("caterer"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRole))
	assert.Contains(t, err.Error(), "caterer")
}

func TestRegistry_Override(t *testing.T) {
	reg := NewRegistry()

	err := reg.Override(RoleVenue, Persona{Goal: "Find outdoor venues"})
	require.NoError(t, err)

	p := reg.MustLookup(RoleVenue)
	assert.Equal(t, "Venue Coordinator", p.Role, "empty override fields keep the default")
	assert.Equal(t, "Find outdoor venues", p.Goal)
	assert.Equal(t, VenueCoordinator.Backstory, p.Backstory)

	// Other roles are untouched.
	assert.Equal(t, LogisticsManager, reg.MustLookup(RoleLogistics))
}

func TestRegistry_OverrideUnknownRole(t *testing.T) {
	reg := NewRegistry()
	err := reg.Override(Role("security"), Persona{Role: "Guard"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	custom := Persona{Role: "Planner", Goal: "Plan", Backstory: "Plans things."}
	reg.Register(RoleMarketing, custom)
	assert.Equal(t, custom, reg.MustLookup(RoleMarketing))
}

func TestRegistry_MustLookupPanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() { reg.MustLookup(Role("nope")) })
}

func TestPersona_MergeAndIsZero(t *testing.T) {
	assert.True(t, Persona{}.IsZero())
	assert.False(t, VenueCoordinator.IsZero())

	merged := VenueCoordinator.Merge(Persona{})
	assert.Equal(t, VenueCoordinator, merged)

	merged = VenueCoordinator.Merge(Persona{Role: "Site Scout", Backstory: "You scout."})
	assert.Equal(t, "Site Scout", merged.Role)
	assert.Equal(t, VenueCoordinator.Goal, merged.Goal)
	assert.Equal(t, "You scout.", merged.Backstory)
}
