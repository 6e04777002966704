package entities

import "time"

type JobType string

const (
	FullTime   JobType = "full-time"
	PartTime   JobType = "part-time"
	Contract   JobType = "contract"
	Internship JobType = "internship"
	Freelance  JobType = "freelance"
)

// ParsedLocation is the structured form of a listing's free-text location.
type ParsedLocation struct {
	City    string
	State   string
	Country string
	Remote  bool
	Hybrid  bool
}

// ParsedSalary is the structured form of a listing's free-text salary.
// Min and Max are zero when the source gave nothing parseable.
type ParsedSalary struct {
	Min      int
	Max      int
	Currency string
	Period   string
	Estimate bool
}

func (s ParsedSalary) IsZero() bool {
	return s.Min == 0 && s.Max == 0
}

// Midpoint returns the middle of the salary band, or Min/Max when only
// one bound is known.
func (s ParsedSalary) Midpoint() int {
	if s.Min == 0 {
		return s.Max
	}
	if s.Max == 0 {
		return s.Min
	}
	return (s.Min + s.Max) / 2
}

// Job is the canonical listing every source adapter normalizes into.
// Scores are filled in by the aggregator after dedup, never by adapters.
type Job struct {
	ID             string
	Title          string
	Company        string
	Location       string
	ParsedLocation ParsedLocation
	Type           JobType
	Description    string
	Salary         string
	ParsedSalary   ParsedSalary
	ApplyURL       string
	PostedAt       string
	PublishedAt    time.Time
	Source         string
	Requirements   []string
	Tags           []string
	RelevanceScore int
	QualityScore   int
	Verified       bool
}

// DedupKey identifies near-identical listings across sources.
func (j Job) DedupKey() string {
	return dedupKey(j.Title, j.Company)
}
