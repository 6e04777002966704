package entities

// UserProfile is owned by the caller's session and only read by the
// engine; all matching is computed against a snapshot of it.
type UserProfile struct {
	Skills      []string
	Experience  ProfileExperience
	Preferences ProfilePreferences
	Education   []string
	Portfolio   []string
	CareerGoals string
}

type ProfileExperience struct {
	Years      int
	Level      ExperienceLevel
	Industries []string
	Roles      []string
}

type ProfilePreferences struct {
	SalaryMin   int
	SalaryMax   int
	Locations   []string
	JobTypes    []JobType
	RemoteWork  bool
	GamingFocus bool
}

type MatchFactor struct {
	Category string
	Score    int
	Weight   float64
	Details  string
}

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// MatchResult is derived per search and never persisted.
type MatchResult struct {
	TotalScore      int
	Factors         []MatchFactor
	Recommendation  string
	ConfidenceLevel ConfidenceLevel
}
