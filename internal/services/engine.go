package services

import (
	"context"
	"sort"

	"github.com/questkit/jobscout/internal/entities"
	"github.com/questkit/jobscout/internal/logger"
	"github.com/questkit/jobscout/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// Recommendation pairs a job with its match breakdown and an optional
// AI fit summary.
type Recommendation struct {
	Job     entities.Job
	Match   entities.MatchResult
	Summary string
}

// Engine is the single entry point callers wire against. It composes
// search, scoring, tracking, alerting and notifications.
type Engine struct {
	aggregator    *Aggregator
	scorer        *Scorer
	tracker       *ApplicationTracker
	alerts        *AlertEngine
	notifications *NotificationService
	ai            *AIService
}

func NewEngine(aggregator *Aggregator, scorer *Scorer, tracker *ApplicationTracker,
	alerts *AlertEngine, notifications *NotificationService, ai *AIService) *Engine {

	return &Engine{
		aggregator:    aggregator,
		scorer:        scorer,
		tracker:       tracker,
		alerts:        alerts,
		notifications: notifications,
		ai:            ai,
	}
}

func (e *Engine) Search(ctx context.Context, query string, criteria entities.SearchCriteria) ([]entities.Job, error) {
	return e.aggregator.Search(ctx, query, criteria)
}

// GetRecommendations searches with criteria derived from the profile,
// ranks the results by match score and enriches the top ones with AI
// summaries when the AI service is configured.
func (e *Engine) GetRecommendations(ctx context.Context, query string,
	profile entities.UserProfile, limit int) ([]Recommendation, error) {

	criteria := criteriaFromProfile(profile)
	jobs, err := e.aggregator.Search(ctx, query, criteria)
	if err != nil {
		return nil, err
	}

	recommendations := make([]Recommendation, 0, len(jobs))
	for _, job := range jobs {
		recommendations = append(recommendations, Recommendation{
			Job:   job,
			Match: e.scorer.Match(job, profile),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Match.TotalScore > recommendations[j].Match.TotalScore
	})
	if limit > 0 && len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}

	if e.ai != nil {
		for i := range recommendations {
			summary, err := e.ai.SummarizeFit(ctx, profile, recommendations[i].Job, recommendations[i].Match)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
					Errorf("fit summary failed for job %v: %v", recommendations[i].Job.ID, err)
				continue
			}
			recommendations[i].Summary = summary
		}
	}

	return recommendations, nil
}

func (e *Engine) CalculateJobMatchScore(job entities.Job, profile entities.UserProfile) entities.MatchResult {
	return e.scorer.Match(job, profile)
}

func (e *Engine) SaveJob(ctx context.Context, job entities.Job) error {
	return e.tracker.SaveJob(ctx, job)
}

func (e *Engine) UnsaveJob(ctx context.Context, jobID string) error {
	return e.tracker.UnsaveJob(ctx, jobID)
}

func (e *Engine) IsJobSaved(ctx context.Context, jobID string) (bool, error) {
	return e.tracker.IsJobSaved(ctx, jobID)
}

func (e *Engine) GetSavedJobs(ctx context.Context) ([]entities.SavedJob, error) {
	return e.tracker.GetSavedJobs(ctx)
}

func (e *Engine) TrackApplication(ctx context.Context, jobID string, data ApplicationData) (*entities.Application, error) {
	return e.tracker.TrackApplication(ctx, jobID, data)
}

func (e *Engine) UpdateApplicationStatus(ctx context.Context, jobID string, status string, data StatusData) error {
	return e.tracker.UpdateApplicationStatus(ctx, jobID, status, data)
}

func (e *Engine) GetApplicationForJob(ctx context.Context, jobID string) (*entities.Application, error) {
	return e.tracker.GetApplicationForJob(ctx, jobID)
}

func (e *Engine) GetApplicationStats(ctx context.Context) (entities.ApplicationStats, error) {
	return e.tracker.Stats(ctx)
}

func (e *Engine) CreateAlert(ctx context.Context, config AlertConfig) (*entities.Alert, error) {
	return e.alerts.CreateAlert(ctx, config)
}

func (e *Engine) UpdateAlert(ctx context.Context, id string, config AlertConfig) (*entities.Alert, error) {
	return e.alerts.UpdateAlert(ctx, id, config)
}

func (e *Engine) DeleteAlert(ctx context.Context, id string) error {
	return e.alerts.DeleteAlert(ctx, id)
}

func (e *Engine) ToggleAlert(ctx context.Context, id string) (*entities.Alert, error) {
	return e.alerts.ToggleAlert(ctx, id)
}

func (e *Engine) GetAlerts(ctx context.Context) ([]entities.Alert, error) {
	return e.alerts.GetAlerts(ctx)
}

func (e *Engine) CheckAlerts(ctx context.Context) ([]entities.Notification, error) {
	return e.alerts.CheckAlerts(ctx)
}

func (e *Engine) GetNotifications(ctx context.Context, filter repositories.NotificationFilter) ([]entities.Notification, error) {
	return e.notifications.GetNotifications(ctx, filter)
}

func (e *Engine) MarkAsRead(ctx context.Context, id string) error {
	return e.notifications.MarkAsRead(ctx, id)
}

func (e *Engine) MarkAllAsRead(ctx context.Context) error {
	return e.notifications.MarkAllAsRead(ctx)
}

func (e *Engine) GenerateDailyDigest(ctx context.Context) (*DailyDigest, error) {
	return e.notifications.GenerateDailyDigest(ctx)
}

func criteriaFromProfile(profile entities.UserProfile) entities.SearchCriteria {

	criteria := entities.SearchCriteria{
		Remote:     profile.Preferences.RemoteWork,
		SalaryMin:  profile.Preferences.SalaryMin,
		SalaryMax:  profile.Preferences.SalaryMax,
		Experience: profile.Experience.Level,
		SortBy:     entities.SortByRelevance,
	}
	if len(profile.Preferences.Locations) > 0 {
		criteria.Location = profile.Preferences.Locations[0]
	}
	if len(profile.Preferences.JobTypes) > 0 {
		criteria.JobType = profile.Preferences.JobTypes[0]
	}
	if len(profile.Experience.Industries) > 0 {
		criteria.Industry = profile.Experience.Industries[0]
	}
	return criteria
}
