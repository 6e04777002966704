package sources

import (
	"testing"
	"time"

	"github.com/questkit/jobscout/internal/entities"
	"github.com/stretchr/testify/assert"
)

func Test_StripHTML(t *testing.T) {

	input := "<p>Build  <b>gameplay</b> systems&nbsp;in C#.</p>\n<ul><li>Unity &amp; Unreal</li></ul>"

	assert.Equal(t, "Build gameplay systems in C#. Unity & Unreal", StripHTML(input))
}

func Test_ParseSalary_AnnualRangeWithCommas(t *testing.T) {

	salary := ParseSalary("$95,000 - $120,000 / year")

	assert.Equal(t, 95000, salary.Min)
	assert.Equal(t, 120000, salary.Max)
	assert.Equal(t, "USD", salary.Currency)
	assert.False(t, salary.Estimate)
}

func Test_ParseSalary_KSuffixRange(t *testing.T) {

	salary := ParseSalary("80k-100k DOE")

	assert.Equal(t, 80000, salary.Min)
	assert.Equal(t, 100000, salary.Max)
}

func Test_ParseSalary_SingleFigure_ShouldUseItAsBothBounds(t *testing.T) {

	salary := ParseSalary("up to £65,000")

	assert.Equal(t, 65000, salary.Min)
	assert.Equal(t, 65000, salary.Max)
	assert.Equal(t, "GBP", salary.Currency)
}

func Test_ParseSalary_ImplausibleFigures_ShouldReturnZeroValue(t *testing.T) {

	assert.True(t, ParseSalary("competitive salary").IsZero())
	assert.True(t, ParseSalary("$25/hour").IsZero())
}

func Test_EstimateSalary_ShouldScaleRoleBandByLocation(t *testing.T) {

	estimate := EstimateSalary("Senior Gameplay Programmer", "San Francisco, CA")

	// senior band beats programmer band because it appears first
	assert.Equal(t, 135000, estimate.Min)
	assert.Equal(t, 202500, estimate.Max)
	assert.True(t, estimate.Estimate)
}

func Test_EstimateSalary_UnknownRole_ShouldUseDefaultBand(t *testing.T) {

	estimate := EstimateSalary("Community Manager", "Berlin")

	assert.Equal(t, 47500, estimate.Min)
	assert.Equal(t, 80750, estimate.Max)
}

func Test_ParseLocation(t *testing.T) {

	cases := map[string]entities.ParsedLocation{
		"Austin, TX, USA": {City: "Austin", State: "TX", Country: "USA"},
		"Remote (US)":     {Remote: true, City: "US"},
		"Hybrid - London": {Hybrid: true, City: "Hybrid - London"},
		"Anywhere":        {Remote: true},
	}

	for input, expected := range cases {
		assert.Equal(t, expected, ParseLocation(input), input)
	}
}

func Test_RecencyBucket(t *testing.T) {

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "today", RecencyBucket(now, now))
	assert.Equal(t, "yesterday", RecencyBucket(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "3 days ago", RecencyBucket(now.AddDate(0, 0, -3), now))
	assert.Equal(t, "1 week ago", RecencyBucket(now.AddDate(0, 0, -10), now))
	assert.Equal(t, "3 weeks ago", RecencyBucket(now.AddDate(0, 0, -21), now))
	assert.Equal(t, "30+ days ago", RecencyBucket(now.AddDate(0, 0, -45), now))
	assert.Equal(t, "recently", RecencyBucket(time.Time{}, now))
}

func Test_ParseRelativeDate(t *testing.T) {

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now, ParseRelativeDate("today", now))
	assert.Equal(t, now.AddDate(0, 0, -3), ParseRelativeDate("3 days ago", now))
	assert.Equal(t, now.Add(-5*time.Hour), ParseRelativeDate("5 hours ago", now))
	assert.Equal(t, now.AddDate(0, 0, -14), ParseRelativeDate("2 weeks ago", now))
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), ParseRelativeDate("2026-08-01", now))
	assert.True(t, ParseRelativeDate("someday", now).IsZero())
}

func Test_NormalizeJobType(t *testing.T) {

	cases := map[string]string{
		"Part_Time":  "part-time",
		"contractor": "contract",
		"Intern":     "internship",
		"gig":        "freelance",
		"":           "full-time",
		"permanent":  "full-time",
	}

	for raw, expected := range cases {
		assert.Equal(t, expected, NormalizeJobType(raw), raw)
	}
}

func Test_FallbackJobs_ShouldBeDeterministic(t *testing.T) {

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	first := FallbackJobs(now)
	second := FallbackJobs(now)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	for _, job := range first {
		assert.Equal(t, "fallback", job.Source)
		assert.NotEmpty(t, job.Title)
		assert.NotEmpty(t, job.Company)
	}
}
