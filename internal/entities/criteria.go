package entities

import (
	"sort"
	"strings"
)

type SortMode string

const (
	SortByRelevance   SortMode = "relevance"
	SortByDate        SortMode = "date"
	SortBySalary      SortMode = "salary"
	SortByQuality     SortMode = "quality"
	SortByCompany     SortMode = "company"
	SortByCompetition SortMode = "competition"
)

type ExperienceLevel string

const (
	LevelAny       ExperienceLevel = ""
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelExecutive ExperienceLevel = "executive"
)

// SearchCriteria is immutable per search invocation. The same struct is
// persisted as the body of an Alert.
type SearchCriteria struct {
	Location   string          `json:"location"`
	Remote     bool            `json:"remote"`
	SalaryMin  int             `json:"salaryMin" validate:"min=0"`
	SalaryMax  int             `json:"salaryMax" validate:"min=0"`
	Experience ExperienceLevel `json:"experience" validate:"omitempty,oneof=entry mid senior executive"`
	JobType    JobType         `json:"jobType" validate:"omitempty,oneof=full-time part-time contract internship freelance"`
	Industry   string          `json:"industry"`
	Sources    []string        `json:"sources"`
	MaxResults int             `json:"maxResults" validate:"min=0,max=200"`
	SortBy     SortMode        `json:"sortBy" validate:"omitempty,oneof=relevance date salary quality company competition"`
}

// CacheKey builds the canonical string the aggregator hashes for its
// result cache. Only fields that change the fetched set participate;
// sort mode and result cap are applied after fetching.
func (c SearchCriteria) CacheKey(query string) string {
	sources := append([]string(nil), c.Sources...)
	sort.Strings(sources)

	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	b.WriteByte('|')
	b.WriteString(strings.ToLower(strings.TrimSpace(c.Location)))
	b.WriteByte('|')
	if c.Remote {
		b.WriteString("remote")
	}
	b.WriteByte('|')
	b.WriteString(strings.ToLower(c.Industry))
	b.WriteByte('|')
	b.WriteString(strings.Join(sources, ","))
	return b.String()
}

func dedupKey(title, company string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(company))
}
