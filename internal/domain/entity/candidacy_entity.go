package entity

// CandidacyStatus is the lifecycle state of one (project, user) pair.
type CandidacyStatus string

const (
	StatusNone     CandidacyStatus = "none"
	StatusApplied  CandidacyStatus = "applied"
	StatusAccepted CandidacyStatus = "accepted"
	StatusRejected CandidacyStatus = "rejected"
)

// Terminal reports whether no further transition can leave this state.
func (s CandidacyStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ProjectTemplate is a ready-made title/description pair offered when
// publishing a new project.
type ProjectTemplate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProjectTemplates are the built-in postings suggested to new authors.
var ProjectTemplates = []ProjectTemplate{
	{
		Title:       "Smart meal planner",
		Description: "An app that analyses eating habits, builds a personalised menu and orders groceries from nearby shops automatically. Integrates with popular grocery delivery services.",
	},
	{
		Title:       "Local guides marketplace",
		Description: "A platform for finding local guides and unique city tours. Guides publish their own routes and travellers pick tours by interest and budget.",
	},
	{
		Title:       "Kids activities aggregator",
		Description: "Search and sign children up for clubs, sports sections and creative workshops, with parent reviews, teacher ratings and online payment.",
	},
	{
		Title:       "Garage workshop rental",
		Description: "Owners of garages and workshops rent them out by the hour for car repair, woodworking or other hobbies, tools and equipment included.",
	},
	{
		Title:       "Used electronics marketplace",
		Description: "Resale of second-hand electronics with condition checks, warranty and delivery. Integrates with service centres for diagnostics and repair.",
	},
}
