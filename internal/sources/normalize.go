package sources

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/questkit/jobscout/internal/entities"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	salaryRe     = regexp.MustCompile(`[$£€]?\s*(\d{1,3}(?:,\d{3})+|\d{4,6})`)
	kSuffixRe    = regexp.MustCompile(`(?i)\b(\d{2,3})\s*k\b`)
	retirementRe = regexp.MustCompile(`(?i)\b401\s*\(?k\)?\b`)
	relativeRe   = regexp.MustCompile(`(?i)(\d+)\s*(hour|day|week|month)s?\s*ago`)
)

// StripHTML removes markup and collapses whitespace. Descriptions from
// every source pass through here before anything scores them.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ParseSalary extracts a numeric band from free text like
// "$95,000 - $120,000 / year" or "80k-100k". A zero value means the
// text held nothing parseable; callers fall back to EstimateSalary.
func ParseSalary(text string) entities.ParsedSalary {

	// "401k" is a benefit, not a salary; expand "80k" to "80000"
	text = retirementRe.ReplaceAllString(text, "")
	text = kSuffixRe.ReplaceAllString(text, "${1}000")

	matches := salaryRe.FindAllStringSubmatch(text, 2)
	if len(matches) == 0 {
		return entities.ParsedSalary{}
	}

	parse := func(m []string) int {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			return 0
		}
		return n
	}

	result := entities.ParsedSalary{Min: parse(matches[0]), Currency: detectCurrency(text), Period: "year"}
	if len(matches) > 1 {
		result.Max = parse(matches[1])
	} else {
		result.Max = result.Min
	}

	// hourly rates and typos produce implausible annual figures
	if result.Min < 10000 || result.Max < result.Min {
		return entities.ParsedSalary{}
	}
	return result
}

func detectCurrency(text string) string {
	switch {
	case strings.Contains(text, "£"):
		return "GBP"
	case strings.Contains(text, "€"):
		return "EUR"
	default:
		return "USD"
	}
}

// roleBands maps role keywords to base annual salary bands. The single
// authoritative estimation path: every adapter that needs a salary
// estimate goes through EstimateSalary, nothing else.
var roleBands = []struct {
	keyword  string
	min, max int
}{
	{"director", 140000, 200000},
	{"principal", 140000, 190000},
	{"lead", 110000, 160000},
	{"senior", 100000, 150000},
	{"producer", 80000, 130000},
	{"designer", 65000, 110000},
	{"artist", 55000, 95000},
	{"animator", 55000, 100000},
	{"engineer", 80000, 130000},
	{"developer", 75000, 125000},
	{"programmer", 75000, 125000},
	{"qa", 45000, 75000},
	{"tester", 45000, 75000},
	{"analyst", 55000, 90000},
}

var locationMultipliers = map[string]float64{
	"san francisco": 1.35,
	"seattle":       1.25,
	"los angeles":   1.2,
	"new york":      1.25,
	"austin":        1.1,
	"london":        1.15,
	"tokyo":         1.1,
	"montreal":      0.95,
	"berlin":        0.95,
}

// EstimateSalary produces a band from role keywords in the title scaled
// by a location multiplier, used when a source omits salary data.
func EstimateSalary(title, location string) entities.ParsedSalary {
	lowTitle := strings.ToLower(title)

	min, max := 50000, 85000
	for _, band := range roleBands {
		if strings.Contains(lowTitle, band.keyword) {
			min, max = band.min, band.max
			break
		}
	}

	multiplier := 1.0
	lowLocation := strings.ToLower(location)
	for place, m := range locationMultipliers {
		if strings.Contains(lowLocation, place) {
			multiplier = m
			break
		}
	}

	return entities.ParsedSalary{
		Min:      int(float64(min) * multiplier),
		Max:      int(float64(max) * multiplier),
		Currency: "USD",
		Period:   "year",
		Estimate: true,
	}
}

// ParseLocation splits free text like "Austin, TX, USA" or
// "Remote (US)" into structured parts.
func ParseLocation(text string) entities.ParsedLocation {
	low := strings.ToLower(text)
	result := entities.ParsedLocation{
		Remote: strings.Contains(low, "remote") || strings.Contains(low, "anywhere"),
		Hybrid: strings.Contains(low, "hybrid"),
	}

	cleaned := strings.NewReplacer("(", ",", ")", "").Replace(text)
	parts := strings.Split(cleaned, ",")
	var fields []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		lp := strings.ToLower(p)
		if p == "" || lp == "remote" || lp == "hybrid" || lp == "anywhere" {
			continue
		}
		fields = append(fields, p)
	}

	switch len(fields) {
	case 0:
	case 1:
		result.City = fields[0]
	case 2:
		result.City, result.State = fields[0], fields[1]
	default:
		result.City, result.State, result.Country = fields[0], fields[1], fields[2]
	}
	return result
}

// RecencyBucket renders a timestamp as the coarse age string the UI
// layer shows ("today", "3 days ago", "2 weeks ago", "30+ days ago").
func RecencyBucket(publishedAt, now time.Time) string {
	if publishedAt.IsZero() {
		return "recently"
	}

	age := now.Sub(publishedAt)
	days := int(age.Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return strconv.Itoa(days) + " days ago"
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return strconv.Itoa(weeks) + " weeks ago"
	default:
		return "30+ days ago"
	}
}

// ParseRelativeDate resolves strings like "3 days ago" against now.
// Unparseable input returns the zero time.
func ParseRelativeDate(text string, now time.Time) time.Time {
	low := strings.ToLower(strings.TrimSpace(text))
	if low == "today" || low == "just now" {
		return now
	}
	if low == "yesterday" {
		return now.AddDate(0, 0, -1)
	}

	m := relativeRe.FindStringSubmatch(low)
	if m == nil {
		if t, err := time.Parse("2006-01-02", low); err == nil {
			return t
		}
		return time.Time{}
	}

	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour)
	case "day":
		return now.AddDate(0, 0, -n)
	case "week":
		return now.AddDate(0, 0, -7*n)
	case "month":
		return now.AddDate(0, -n, 0)
	}
	return time.Time{}
}

// NormalizeJobType maps the many source spellings onto the canonical
// enum, defaulting to full-time.
func NormalizeJobType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "part-time", "part_time", "parttime":
		return "part-time"
	case "contract", "contractor", "fixed-term":
		return "contract"
	case "internship", "intern":
		return "internship"
	case "freelance", "gig":
		return "freelance"
	default:
		return "full-time"
	}
}
