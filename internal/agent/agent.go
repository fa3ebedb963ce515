package agent

// Role identifies a specialist persona. There is one role per pipeline stage.
type Role string

const (
	RoleVenue     Role = "venue"
	RoleLogistics Role = "logistics"
	RoleMarketing Role = "marketing"
)

// Persona is the identity a stage executor speaks as when it asks the
// completion provider for advice.
type Persona struct {
	Role      string `yaml:"role,omitempty" json:"role"`
	Goal      string `yaml:"goal,omitempty" json:"goal"`
	Backstory string `yaml:"backstory,omitempty" json:"backstory"`
}

// IsZero reports whether no field of the persona is set.
func (p Persona) IsZero() bool {
	return p.Role == "" && p.Goal == "" && p.Backstory == ""
}

// Merge returns a copy of p with every non-empty field of override applied.
func (p Persona) Merge(override Persona) Persona {
	if override.Role != "" {
		p.Role = override.Role
	}
	if override.Goal != "" {
		p.Goal = override.Goal
	}
	if override.Backstory != "" {
		p.Backstory = override.Backstory
	}
	return p
}

// Default personas, one per role.
var (
	VenueCoordinator = Persona{
		Role: "Venue Coordinator",
		Goal: "Find suitable venues for events",
		Backstory: "You are an experienced venue coordinator with extensive knowledge of event spaces. " +
			"You provide practical venue recommendations with accurate details.",
	}

	LogisticsManager = Persona{
		Role: "Logistics Manager",
		Goal: "Arrange catering & equipment for events",
		Backstory: "You are a detail-oriented logistics manager with years of experience. " +
			"You provide practical, cost-effective solutions for event operations.",
	}

	MarketingSpecialist = Persona{
		Role: "Marketing Specialist",
		Goal: "Create effective event marketing strategies",
		Backstory: "You are a creative marketing specialist who develops practical, " +
			"budget-conscious marketing plans with measurable outcomes.",
	}
)
