package sources

import (
	"context"
	"strconv"
	"time"

	"github.com/questkit/jobscout/internal/clients/arcade"
	"github.com/questkit/jobscout/internal/entities"
	log "github.com/sirupsen/logrus"
)

const arcadeName = "arcade"

type ArcadeAdapter struct {
	client  *arcade.Client
	perPage int
}

func NewArcadeAdapter(client *arcade.Client) *ArcadeAdapter {
	return &ArcadeAdapter{client: client, perPage: 50}
}

func (a *ArcadeAdapter) Name() string {
	return arcadeName
}

func (a *ArcadeAdapter) Fetch(ctx context.Context, query, location string) ([]entities.Job, error) {

	listings, err := a.client.Search(ctx, arcade.SearchParameters{
		Query:    query,
		Location: location,
		PerPage:  a.perPage,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	jobs := make([]entities.Job, 0, len(listings))
	for _, listing := range listings {
		job, ok := a.toJob(listing, now)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (a *ArcadeAdapter) toJob(listing arcade.Listing, now time.Time) (entities.Job, bool) {

	if listing.Title == "" || listing.Studio == "" {
		log.Debugf("skipping malformed arcade listing %d", listing.ID)
		return entities.Job{}, false
	}

	salary := ParseSalary(listing.SalaryRange)
	if salary.IsZero() {
		salary = EstimateSalary(listing.Title, listing.Location)
	}

	return entities.Job{
		ID:             arcadeName + "-" + strconv.Itoa(listing.ID),
		Title:          listing.Title,
		Company:        listing.Studio,
		Location:       listing.Location,
		ParsedLocation: ParseLocation(listing.Location),
		Type:           entities.JobType(NormalizeJobType(listing.EmploymentType)),
		Description:    StripHTML(listing.DescriptionHTML),
		Salary:         listing.SalaryRange,
		ParsedSalary:   salary,
		ApplyURL:       listing.URL,
		PostedAt:       RecencyBucket(listing.PublishedAt.Time, now),
		PublishedAt:    listing.PublishedAt.Time,
		Source:         arcadeName,
		Requirements:   listing.Skills,
		Tags:           listing.Tags,
		Verified:       listing.Verified,
	}, true
}
