package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/questkit/jobscout/internal/clients/talenthub"
	"github.com/questkit/jobscout/internal/entities"
	log "github.com/sirupsen/logrus"
)

const talenthubName = "talenthub"

type TalentHubAdapter struct {
	client  *talenthub.Client
	perPage int
}

func NewTalentHubAdapter(client *talenthub.Client) *TalentHubAdapter {
	return &TalentHubAdapter{client: client, perPage: 50}
}

func (a *TalentHubAdapter) Name() string {
	return talenthubName
}

func (a *TalentHubAdapter) Fetch(ctx context.Context, query, location string) ([]entities.Job, error) {

	results, err := a.client.Search(ctx, query, location, 0, a.perPage)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	jobs := make([]entities.Job, 0, len(results))
	for _, result := range results {
		job, ok := a.toJob(result, now)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (a *TalentHubAdapter) toJob(result talenthub.Result, now time.Time) (entities.Job, bool) {

	if result.UUID == "" || result.Position == "" || result.Employer.Name == "" {
		log.Debugf("skipping malformed talenthub result %q", result.UUID)
		return entities.Job{}, false
	}

	location := result.City
	if result.Country != "" {
		if location != "" {
			location += ", "
		}
		location += result.Country
	}

	salary := entities.ParsedSalary{
		Min:      result.SalaryMin,
		Max:      result.SalaryMax,
		Currency: "USD",
		Period:   "year",
	}
	if salary.IsZero() {
		salary = EstimateSalary(result.Position, location)
	}

	publishedAt := ParseRelativeDate(result.Posted, now)

	return entities.Job{
		ID:             talenthubName + "-" + result.UUID,
		Title:          result.Position,
		Company:        result.Employer.Name,
		Location:       location,
		ParsedLocation: ParseLocation(location),
		Type:           entities.JobType(NormalizeJobType(result.Type)),
		Description:    StripHTML(result.Description),
		Salary:         formatSalary(salary),
		ParsedSalary:   salary,
		ApplyURL:       result.Link,
		PostedAt:       RecencyBucket(publishedAt, now),
		PublishedAt:    publishedAt,
		Source:         talenthubName,
		Requirements:   result.Requirements,
		Verified:       result.Employer.Verified,
	}, true
}

func formatSalary(s entities.ParsedSalary) string {
	if s.IsZero() {
		return ""
	}
	text := fmt.Sprintf("$%s - $%s / year", groupDigits(s.Min), groupDigits(s.Max))
	if s.Estimate {
		text += " (estimated)"
	}
	return text
}

func groupDigits(n int) string {
	raw := fmt.Sprintf("%d", n)
	var parts []string
	for len(raw) > 3 {
		parts = append([]string{raw[len(raw)-3:]}, parts...)
		raw = raw[:len(raw)-3]
	}
	parts = append([]string{raw}, parts...)
	return strings.Join(parts, ",")
}
