package sources

import (
	"context"
	"time"

	"github.com/questkit/jobscout/internal/clients/remotely"
	"github.com/questkit/jobscout/internal/entities"
	log "github.com/sirupsen/logrus"
)

const remotelyName = "remotely"

type RemotelyAdapter struct {
	client *remotely.Client
	limit  int
}

func NewRemotelyAdapter(client *remotely.Client) *RemotelyAdapter {
	return &RemotelyAdapter{client: client, limit: 50}
}

func (a *RemotelyAdapter) Name() string {
	return remotelyName
}

// Fetch ignores location: every Remotely position is remote by
// definition, so only the query is forwarded.
func (a *RemotelyAdapter) Fetch(ctx context.Context, query, _ string) ([]entities.Job, error) {

	positions, err := a.client.Search(ctx, query, a.limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	jobs := make([]entities.Job, 0, len(positions))
	for _, position := range positions {
		job, ok := a.toJob(position, now)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (a *RemotelyAdapter) toJob(position remotely.Position, now time.Time) (entities.Job, bool) {

	if position.Slug == "" || position.Role == "" || position.CompanyName == "" {
		log.Debugf("skipping malformed remotely position %q", position.Slug)
		return entities.Job{}, false
	}

	salary := entities.ParsedSalary{
		Min:      position.Compensation.Min,
		Max:      position.Compensation.Max,
		Currency: position.Compensation.Currency,
		Period:   "year",
	}
	if salary.IsZero() {
		salary = EstimateSalary(position.Role, "")
	}
	if salary.Currency == "" {
		salary.Currency = "USD"
	}

	location := "Remote"
	if position.Region != "" {
		location = "Remote (" + position.Region + ")"
	}

	publishedAt := ParseRelativeDate(position.PostedOn, now)

	return entities.Job{
		ID:             remotelyName + "-" + position.Slug,
		Title:          position.Role,
		Company:        position.CompanyName,
		Location:       location,
		ParsedLocation: entities.ParsedLocation{Country: position.Region, Remote: true},
		Type:           entities.JobType(NormalizeJobType(position.ContractType)),
		Description:    StripHTML(position.Summary),
		Salary:         formatSalary(salary),
		ParsedSalary:   salary,
		ApplyURL:       position.ApplyURL,
		PostedAt:       RecencyBucket(publishedAt, now),
		PublishedAt:    publishedAt,
		Source:         remotelyName,
		Tags:           position.Stack,
	}, true
}
