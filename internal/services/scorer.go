package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/questkit/jobscout/internal/entities"
)

// Factor weights of the personalized match score. They sum to 1 so the
// weighted total stays within [0,100].
const (
	weightSkills     = 0.30
	weightExperience = 0.25
	weightSalary     = 0.20
	weightLocation   = 0.15
	weightGaming     = 0.10
)

const neutralScore = 50

// gamingTerms is the fixed domain dictionary for bare relevance.
// Title hits count double.
var gamingTerms = map[string]int{
	"game": 10, "games": 10, "gaming": 10, "gameplay": 14,
	"unity": 12, "unreal": 12, "godot": 10,
	"studio": 5, "multiplayer": 10, "console": 8,
	"aaa": 10, "indie": 8, "mmo": 8, "rpg": 6, "fps": 6,
	"level design": 12, "game design": 14, "shader": 8,
	"esports": 8, "playtest": 8, "live ops": 8, "monetization": 6,
}

// knownStudios earn a flat employer bonus.
var knownStudios = []string{
	"riot games", "blizzard", "epic games", "ubisoft", "nintendo",
	"valve", "electronic arts", "naughty dog", "cd projekt", "rockstar",
	"bungie", "insomniac", "bethesda", "square enix", "capcom", "sega",
}

// techTerms earn a smaller per-term bonus and mark a skill as core
// technical for the skill factor.
var techTerms = map[string]struct{}{
	"c++": {}, "c#": {}, "unity": {}, "unreal": {}, "godot": {},
	"directx": {}, "opengl": {}, "vulkan": {}, "physics": {},
	"networking": {}, "shader": {}, "lua": {}, "python": {}, "go": {},
}

var (
	requiredYearsRe = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)
	seniorTitleRe   = regexp.MustCompile(`(?i)\b(senior|sr\.?|lead|principal|staff)\b`)
	execTitleRe     = regexp.MustCompile(`(?i)\b(director|vp|head of|chief|executive)\b`)
	entryTitleRe    = regexp.MustCompile(`(?i)\b(junior|jr\.?|intern|entry|graduate|associate|trainee)\b`)
)

// Scorer computes relevance and match scores. It holds no state and
// performs no I/O: identical inputs always produce identical outputs.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Relevance estimates how relevant a listing is to the gaming industry,
// mixed with how well it matches the query terms. Clamped to [0,100].
func (s *Scorer) Relevance(job entities.Job, query string) int {

	title := strings.ToLower(job.Title)
	body := strings.ToLower(job.Description + " " + strings.Join(job.Tags, " "))
	company := strings.ToLower(job.Company)

	score := 0
	for term, weight := range gamingTerms {
		if strings.Contains(title, term) {
			score += weight * 2
		} else if strings.Contains(body, term) {
			score += weight
		}
	}

	for _, studio := range knownStudios {
		if strings.Contains(company, studio) {
			score += 15
			break
		}
	}

	for term := range techTerms {
		if containsTerm(title+" "+body, term) {
			score += 3
		}
	}

	for _, term := range queryTerms(query) {
		if strings.Contains(title, term) {
			score += 10
		} else if strings.Contains(body, term) {
			score += 5
		}
	}

	return clampScore(score)
}

// Quality estimates how complete and trustworthy a listing is,
// independent of the query.
func (s *Scorer) Quality(job entities.Job) int {
	score := 20
	if job.Verified {
		score += 20
	}
	if !job.ParsedSalary.IsZero() && !job.ParsedSalary.Estimate {
		score += 20
	}
	if len(job.Description) > 200 {
		score += 15
	}
	if job.ApplyURL != "" {
		score += 15
	}
	if len(job.Requirements) > 0 {
		score += 10
	}
	return clampScore(score)
}

// Match computes the weighted five-factor personalized score.
func (s *Scorer) Match(job entities.Job, profile entities.UserProfile) entities.MatchResult {

	factors := []entities.MatchFactor{
		s.skillFactor(job, profile),
		s.experienceFactor(job, profile),
		s.salaryFactor(job, profile),
		s.locationFactor(job, profile),
		s.gamingFactor(job, profile),
	}

	var total float64
	for _, factor := range factors {
		total += float64(factor.Score) * factor.Weight
	}
	totalScore := clampScore(int(total + 0.5))

	return entities.MatchResult{
		TotalScore:      totalScore,
		Factors:         factors,
		Recommendation:  recommendationFor(totalScore),
		ConfidenceLevel: confidenceFor(factors),
	}
}

func (s *Scorer) skillFactor(job entities.Job, profile entities.UserProfile) entities.MatchFactor {

	text := strings.ToLower(job.Title + " " + job.Description + " " +
		strings.Join(job.Tags, " ") + " " + strings.Join(job.Requirements, " "))

	if len(profile.Skills) == 0 {
		return entities.MatchFactor{
			Category: "skills", Score: neutralScore, Weight: weightSkills,
			Details: "no skills in profile",
		}
	}

	matched := 0
	score := 0
	for _, skill := range profile.Skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		occurrences := strings.Count(text, skill)
		if occurrences == 0 {
			continue
		}
		matched++

		// repeated mentions signal importance to the employer
		repetition := (occurrences - 1) * 5
		if repetition > 15 {
			repetition = 15
		}
		score += repetition

		if _, core := techTerms[skill]; core {
			score += 5
		}
	}

	score += int(float64(matched) / float64(len(profile.Skills)) * 60)

	// breadth bonus
	switch {
	case matched >= 4:
		score += 20
	case matched >= 2:
		score += 10
	}

	return entities.MatchFactor{
		Category: "skills",
		Score:    clampScore(score),
		Weight:   weightSkills,
		Details:  fmt.Sprintf("%d of %d skills matched", matched, len(profile.Skills)),
	}
}

func (s *Scorer) experienceFactor(job entities.Job, profile entities.UserProfile) entities.MatchFactor {

	jobLevel := InferJobLevel(job.Title)
	userLevel := profile.Experience.Level
	if userLevel == entities.LevelAny {
		userLevel = entities.LevelMid
	}

	gap := levelIndex(jobLevel) - levelIndex(userLevel)

	var score int
	var details string
	switch {
	case gap == 0:
		score, details = 90, "level matches"
	case gap == 1:
		score, details = 75, "growth opportunity"
	case gap == -1:
		score, details = 60, "below current level"
	default:
		score, details = 30, "level mismatch"
	}

	if required, ok := requiredYears(job.Description); ok {
		switch {
		case profile.Experience.Years >= required:
			score += 10
		case required-profile.Experience.Years > 1:
			score -= 10
		}
	}

	return entities.MatchFactor{
		Category: "experience",
		Score:    clampScore(score),
		Weight:   weightExperience,
		Details:  details,
	}
}

func (s *Scorer) salaryFactor(job entities.Job, profile entities.UserProfile) entities.MatchFactor {

	prefMin := profile.Preferences.SalaryMin
	if job.ParsedSalary.IsZero() || (prefMin == 0 && profile.Preferences.SalaryMax == 0) {
		return entities.MatchFactor{
			Category: "salary", Score: neutralScore, Weight: weightSalary,
			Details: "no salary data",
		}
	}

	midpoint := job.ParsedSalary.Midpoint()

	// at or above the expected minimum is a full match: jobs paying more
	// than the upper preference are not penalized
	if prefMin == 0 || midpoint >= prefMin {
		return entities.MatchFactor{
			Category: "salary", Score: 100, Weight: weightSalary,
			Details: "within expected range",
		}
	}

	score := int(float64(midpoint) / float64(prefMin) * 100)
	return entities.MatchFactor{
		Category: "salary",
		Score:    clampScore(score),
		Weight:   weightSalary,
		Details:  "below expected minimum",
	}
}

func (s *Scorer) locationFactor(job entities.Job, profile entities.UserProfile) entities.MatchFactor {

	loc := job.ParsedLocation

	if profile.Preferences.RemoteWork && loc.Remote {
		return entities.MatchFactor{
			Category: "location", Score: 95, Weight: weightLocation,
			Details: "remote preference satisfied",
		}
	}

	jobLocation := strings.ToLower(job.Location)
	for _, preferred := range profile.Preferences.Locations {
		preferred = strings.ToLower(strings.TrimSpace(preferred))
		if preferred == "" {
			continue
		}
		if strings.Contains(jobLocation, preferred) || strings.Contains(preferred, strings.ToLower(loc.City)) && loc.City != "" {
			return entities.MatchFactor{
				Category: "location", Score: 85, Weight: weightLocation,
				Details: "preferred location",
			}
		}
		if loc.State != "" && strings.Contains(preferred, strings.ToLower(loc.State)) {
			return entities.MatchFactor{
				Category: "location", Score: 70, Weight: weightLocation,
				Details: "same region",
			}
		}
	}

	if loc.Hybrid {
		return entities.MatchFactor{
			Category: "location", Score: 55, Weight: weightLocation,
			Details: "hybrid",
		}
	}

	if len(profile.Preferences.Locations) == 0 && !profile.Preferences.RemoteWork {
		return entities.MatchFactor{
			Category: "location", Score: neutralScore, Weight: weightLocation,
			Details: "no location preference",
		}
	}

	return entities.MatchFactor{
		Category: "location", Score: 30, Weight: weightLocation,
		Details: "relocation likely",
	}
}

func (s *Scorer) gamingFactor(job entities.Job, profile entities.UserProfile) entities.MatchFactor {

	if !profile.Preferences.GamingFocus {
		return entities.MatchFactor{
			Category: "gaming", Score: neutralScore, Weight: weightGaming,
			Details: "no gaming focus preference",
		}
	}

	return entities.MatchFactor{
		Category: "gaming",
		Score:    s.Relevance(job, ""),
		Weight:   weightGaming,
		Details:  "gaming industry relevance",
	}
}

// InferJobLevel reads the seniority ladder off title keywords.
func InferJobLevel(title string) entities.ExperienceLevel {
	switch {
	case execTitleRe.MatchString(title):
		return entities.LevelExecutive
	case seniorTitleRe.MatchString(title):
		return entities.LevelSenior
	case entryTitleRe.MatchString(title):
		return entities.LevelEntry
	default:
		return entities.LevelMid
	}
}

func levelIndex(level entities.ExperienceLevel) int {
	switch level {
	case entities.LevelEntry:
		return 0
	case entities.LevelMid:
		return 1
	case entities.LevelSenior:
		return 2
	case entities.LevelExecutive:
		return 3
	}
	return 1
}

func requiredYears(description string) (int, bool) {
	m := requiredYearsRe.FindStringSubmatch(strings.ToLower(description))
	if m == nil {
		return 0, false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil || years > 30 {
		return 0, false
	}
	return years, true
}

func recommendationFor(score int) string {
	switch {
	case score >= 85:
		return "excellent match"
	case score >= 70:
		return "very good match"
	case score >= 55:
		return "good match"
	case score >= 40:
		return "fair match"
	default:
		return "poor match"
	}
}

const highConfidenceThreshold = 70

func confidenceFor(factors []entities.MatchFactor) entities.ConfidenceLevel {
	high := 0
	for _, factor := range factors {
		if factor.Score >= highConfidenceThreshold {
			high++
		}
	}

	ratio := float64(high) / float64(len(factors))
	switch {
	case ratio >= 0.8:
		return entities.ConfidenceHigh
	case ratio >= 0.6:
		return entities.ConfidenceMedium
	default:
		return entities.ConfidenceLow
	}
}

func queryTerms(query string) []string {
	var terms []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if len(term) >= 3 {
			terms = append(terms, term)
		}
	}
	return terms
}

func containsTerm(text, term string) bool {
	idx := strings.Index(text, term)
	if idx < 0 {
		return false
	}
	// short terms like "go" need word boundaries, longer ones don't
	if len(term) > 2 {
		return true
	}
	beforeOK := idx == 0 || !isWordChar(text[idx-1])
	end := idx + len(term)
	afterOK := end == len(text) || !isWordChar(text[end])
	return beforeOK && afterOK
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
