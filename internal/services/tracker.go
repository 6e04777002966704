package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/questkit/jobscout/internal/entities"
)

var ErrApplicationNotFound = errors.New("application not found")
var ErrApplicationExists = errors.New("application already tracked")
var ErrApplicationClosed = errors.New("application in terminal status")

type applicationRepository interface {
	Add(ctx context.Context, application *entities.Application) error
	GetByJobID(ctx context.Context, jobID string) (*entities.Application, error)
	GetAll(ctx context.Context) ([]entities.Application, error)
	AppendStatus(ctx context.Context, applicationID int, status entities.ApplicationStatus, notes string) error
	SaveJob(ctx context.Context, saved entities.SavedJob) error
	UnsaveJob(ctx context.Context, jobID string) error
	IsJobSaved(ctx context.Context, jobID string) (bool, error)
	GetSavedJobs(ctx context.Context) ([]entities.SavedJob, error)
}

type outcomeRepository interface {
	AddInterview(ctx context.Context, interview entities.Interview) error
	CountInterviewsForJob(ctx context.Context, jobID string) (int64, error)
	AddOffer(ctx context.Context, offer entities.Offer) error
	AddRejection(ctx context.Context, rejection entities.Rejection) error
}

// ApplicationData carries the optional fields of TrackApplication.
type ApplicationData struct {
	JobTitle string
	Company  string
	Platform string
	Notes    string
}

// StatusData carries the optional fields of UpdateApplicationStatus.
type StatusData struct {
	Notes       string
	ScheduledAt time.Time
	Deadline    time.Time
}

// ApplicationTracker drives the per-job application state machine and
// derives statistics from the accumulated history.
type ApplicationTracker struct {
	applications applicationRepository
	outcomes     outcomeRepository
}

func NewApplicationTracker(applications applicationRepository, outcomes outcomeRepository) *ApplicationTracker {
	return &ApplicationTracker{applications: applications, outcomes: outcomes}
}

// SaveJob bookmarks a job. Saving a job that is already being applied
// to is a no-op: an applied job is past the saved stage.
func (t *ApplicationTracker) SaveJob(ctx context.Context, job entities.Job) error {

	application, err := t.applications.GetByJobID(ctx, job.ID)
	if err != nil {
		return err
	}
	if application != nil {
		return nil
	}

	return t.applications.SaveJob(ctx, entities.SavedJob{
		JobID:     job.ID,
		Title:     job.Title,
		Company:   job.Company,
		CreatedAt: time.Now(),
	})
}

func (t *ApplicationTracker) UnsaveJob(ctx context.Context, jobID string) error {
	return t.applications.UnsaveJob(ctx, jobID)
}

func (t *ApplicationTracker) IsJobSaved(ctx context.Context, jobID string) (bool, error) {
	return t.applications.IsJobSaved(ctx, jobID)
}

func (t *ApplicationTracker) GetSavedJobs(ctx context.Context) ([]entities.SavedJob, error) {
	return t.applications.GetSavedJobs(ctx)
}

// TrackApplication creates the Application record with an initial
// "applied" history entry and removes the job from the saved set.
func (t *ApplicationTracker) TrackApplication(ctx context.Context, jobID string,
	data ApplicationData) (*entities.Application, error) {

	existing, err := t.applications.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Wrapf(ErrApplicationExists, "job %v", jobID)
	}

	now := time.Now()
	application := &entities.Application{
		JobID:     jobID,
		JobTitle:  data.JobTitle,
		Company:   data.Company,
		Status:    entities.StatusApplied,
		Platform:  data.Platform,
		Notes:     data.Notes,
		AppliedAt: now,
		StatusHistory: []entities.StatusEntry{
			{Status: entities.StatusApplied, Notes: data.Notes, CreatedAt: now},
		},
	}

	if err = t.applications.Add(ctx, application); err != nil {
		return nil, err
	}

	if err = t.applications.UnsaveJob(ctx, jobID); err != nil {
		return nil, err
	}

	return application, nil
}

// UpdateApplicationStatus validates the status value, appends it to the
// history and creates the side-effect records certain transitions
// imply. Updating an untracked job is an error, never a silent create.
func (t *ApplicationTracker) UpdateApplicationStatus(ctx context.Context, jobID string,
	status string, data StatusData) error {

	parsed, err := entities.ParseApplicationStatus(status)
	if err != nil {
		return err
	}

	application, err := t.applications.GetByJobID(ctx, jobID)
	if err != nil {
		return err
	}
	if application == nil {
		return errors.Wrapf(ErrApplicationNotFound, "job %v", jobID)
	}

	if application.Status.IsTerminal() {
		return errors.Wrapf(ErrApplicationClosed, "job %v is %v", jobID, application.Status)
	}

	if err = t.applications.AppendStatus(ctx, application.ID, parsed, data.Notes); err != nil {
		return err
	}

	return t.recordOutcome(ctx, jobID, parsed, data)
}

func (t *ApplicationTracker) recordOutcome(ctx context.Context, jobID string,
	status entities.ApplicationStatus, data StatusData) error {

	switch status {
	case entities.StatusInterviewScheduled:
		rounds, err := t.outcomes.CountInterviewsForJob(ctx, jobID)
		if err != nil {
			return err
		}
		return t.outcomes.AddInterview(ctx, entities.Interview{
			JobID:       jobID,
			Round:       int(rounds) + 1,
			ScheduledAt: data.ScheduledAt,
			Notes:       data.Notes,
			CreatedAt:   time.Now(),
		})

	case entities.StatusOfferReceived:
		return t.outcomes.AddOffer(ctx, entities.Offer{
			JobID:      jobID,
			SalaryNote: data.Notes,
			Deadline:   data.Deadline,
			CreatedAt:  time.Now(),
		})

	case entities.StatusRejected, entities.StatusGhosted:
		return t.outcomes.AddRejection(ctx, entities.Rejection{
			JobID:     jobID,
			Reason:    data.Notes,
			Ghosted:   status == entities.StatusGhosted,
			CreatedAt: time.Now(),
		})
	}

	return nil
}

func (t *ApplicationTracker) GetApplicationForJob(ctx context.Context, jobID string) (*entities.Application, error) {

	application, err := t.applications.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, errors.Wrapf(ErrApplicationNotFound, "job %v", jobID)
	}
	return application, nil
}

// Stats derives the aggregate statistics from the full application set.
func (t *ApplicationTracker) Stats(ctx context.Context) (entities.ApplicationStats, error) {

	applications, err := t.applications.GetAll(ctx)
	if err != nil {
		return entities.ApplicationStats{}, err
	}

	stats := entities.ApplicationStats{TotalApplications: len(applications)}
	if len(applications) == 0 {
		return stats, nil
	}

	responded := 0
	var totalResponseDays float64

	for _, application := range applications {

		reachedInterview := false
		var firstResponse time.Time

		for _, entry := range application.StatusHistory {
			if entry.Status.IsInterviewStage() {
				reachedInterview = true
			}
			if entry.Status != entities.StatusApplied && firstResponse.IsZero() {
				firstResponse = entry.CreatedAt
			}
			switch entry.Status {
			case entities.StatusInterviewScheduled:
				stats.TotalInterviews++
			case entities.StatusOfferReceived:
				stats.TotalOffers++
			case entities.StatusRejected, entities.StatusGhosted:
				stats.TotalRejections++
			}
		}

		if reachedInterview {
			stats.InterviewRate++
		}
		if !firstResponse.IsZero() {
			responded++
			totalResponseDays += firstResponse.Sub(application.AppliedAt).Hours() / 24
		}
	}

	total := float64(len(applications))
	stats.SuccessRate = float64(stats.TotalOffers) / total
	stats.ResponseRate = float64(responded) / total
	stats.InterviewRate = stats.InterviewRate / total
	if responded > 0 {
		stats.AvgResponseTimeDays = totalResponseDays / float64(responded)
	}

	return stats, nil
}
