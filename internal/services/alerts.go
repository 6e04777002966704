package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/questkit/jobscout/internal/entities"
	"github.com/questkit/jobscout/internal/events"
	"github.com/questkit/jobscout/internal/logger"
	"github.com/questkit/jobscout/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var ErrAlertNotFound = errors.New("alert not found")

type alertRepository interface {
	Add(ctx context.Context, alert entities.Alert) error
	GetByID(ctx context.Context, id string) (*entities.Alert, error)
	GetActive(ctx context.Context) ([]entities.Alert, error)
	GetAll(ctx context.Context) ([]entities.Alert, error)
	Update(ctx context.Context, alert entities.Alert) error
	SetActive(ctx context.Context, id string, active bool) error
	MarkTriggered(ctx context.Context, id string, newMatches int) error
	Remove(ctx context.Context, id string) error
}

type notifiedRepository interface {
	IsNotified(ctx context.Context, alertID, jobID string) (bool, error)
	RecordNotified(ctx context.Context, alertID, jobID string) error
	RemoveByAlert(ctx context.Context, alertID string) error
}

type notificationSink interface {
	Add(ctx context.Context, notification entities.Notification) error
}

type searchService interface {
	Search(ctx context.Context, query string, criteria entities.SearchCriteria) ([]entities.Job, error)
}

// IDGenerator supplies identifiers for alerts and notifications, kept
// injectable so tests can make them predictable.
type IDGenerator func() string

// AlertConfig is the caller-facing shape of CreateAlert and UpdateAlert.
// Zero-value fields are left out of an update: a nil Criteria or Filters
// keeps what the alert already has.
type AlertConfig struct {
	Name      string
	Query     string
	Criteria  *entities.SearchCriteria
	Filters   *entities.AlertFilters
	Frequency entities.AlertFrequency
}

// AlertEngine periodically re-runs saved searches and turns previously
// unseen matches into notifications. One alert failing never blocks the
// rest of the pass.
type AlertEngine struct {
	bus           EventBus.Bus
	search        searchService
	alerts        alertRepository
	notified      notifiedRepository
	notifications notificationSink
	newID         IDGenerator
	validate      *validator.Validate
	cron          *cron.Cron
	checkContexts sync.Map
}

func NewAlertEngine(bus EventBus.Bus, search searchService, alerts alertRepository,
	notified notifiedRepository, notifications notificationSink, newID IDGenerator) (*AlertEngine, error) {

	engine := &AlertEngine{
		bus:           bus,
		search:        search,
		alerts:        alerts,
		notified:      notified,
		notifications: notifications,
		newID:         newID,
		validate:      validator.New(),
		cron:          cron.New(),
	}

	err := bus.Subscribe(events.AlertDeletedTopic, engine.onAlertDeleted)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// StartPolling schedules CheckAlerts on a fixed interval. Frequency
// gating inside CheckAlerts decides which alerts actually run.
func (e *AlertEngine) StartPolling(interval time.Duration) error {

	_, err := e.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if _, err := e.CheckAlerts(context.Background()); err != nil {
			log.Errorf("alert polling pass failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	e.cron.Start()
	log.Infof("alert polling started, interval: %v", interval)
	return nil
}

func (e *AlertEngine) StopPolling() {
	e.cron.Stop()
}

func (e *AlertEngine) CreateAlert(ctx context.Context, config AlertConfig) (*entities.Alert, error) {

	alert := entities.Alert{
		ID:        e.newID(),
		Name:      config.Name,
		Query:     config.Query,
		Frequency: config.Frequency,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if alert.Frequency == "" {
		alert.Frequency = entities.FrequencyDaily
	}

	if err := e.validate.Struct(alert); err != nil {
		return nil, err
	}
	if config.Criteria != nil {
		if err := alert.SetCriteria(*config.Criteria); err != nil {
			return nil, err
		}
	}
	if config.Filters != nil {
		if err := alert.SetFilters(*config.Filters); err != nil {
			return nil, err
		}
	}

	if err := e.alerts.Add(ctx, alert); err != nil {
		return nil, err
	}

	log.Infof("created alert %v for query %q, frequency %v", alert.ID, alert.Query, alert.Frequency)
	return &alert, nil
}

func (e *AlertEngine) UpdateAlert(ctx context.Context, id string, config AlertConfig) (*entities.Alert, error) {

	alert, err := e.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, errors.Wrapf(ErrAlertNotFound, "id %v", id)
	}

	if config.Name != "" {
		alert.Name = config.Name
	}
	if config.Query != "" {
		alert.Query = config.Query
	}
	if config.Frequency != "" {
		alert.Frequency = config.Frequency
	}
	if err = e.validate.Struct(alert); err != nil {
		return nil, err
	}
	if config.Criteria != nil {
		if err = alert.SetCriteria(*config.Criteria); err != nil {
			return nil, err
		}
	}
	if config.Filters != nil {
		if err = alert.SetFilters(*config.Filters); err != nil {
			return nil, err
		}
	}

	if err = e.alerts.Update(ctx, *alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// DeleteAlert removes the alert with its notified-ID set and cancels an
// in-flight check of it.
func (e *AlertEngine) DeleteAlert(ctx context.Context, id string) error {

	alert, err := e.alerts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if alert == nil {
		return errors.Wrapf(ErrAlertNotFound, "id %v", id)
	}

	if err = e.alerts.Remove(ctx, id); err != nil {
		return err
	}
	if err = e.notified.RemoveByAlert(ctx, id); err != nil {
		return err
	}

	e.bus.Publish(events.AlertDeletedTopic, events.AlertDeleted{AlertID: id})
	return nil
}

func (e *AlertEngine) ToggleAlert(ctx context.Context, id string) (*entities.Alert, error) {

	alert, err := e.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, errors.Wrapf(ErrAlertNotFound, "id %v", id)
	}

	alert.IsActive = !alert.IsActive
	if err = e.alerts.SetActive(ctx, id, alert.IsActive); err != nil {
		return nil, err
	}
	return alert, nil
}

func (e *AlertEngine) GetAlerts(ctx context.Context) ([]entities.Alert, error) {
	return e.alerts.GetAll(ctx)
}

// CheckAlerts runs one full pass over the active alerts and returns the
// notifications the pass generated. Per-alert errors become error-type
// notifications instead of aborting the pass.
func (e *AlertEngine) CheckAlerts(ctx context.Context) ([]entities.Notification, error) {

	metrics.AlertChecksCounter.Inc()

	alerts, err := e.alerts.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var generated []entities.Notification

	for _, alert := range alerts {
		if !alert.IsDue(now) {
			continue
		}

		notification, err := e.checkAlert(ctx, alert)
		if err != nil {
			log.Errorf("alert %v check failed: %v", alert.ID, err)
			errNotification := e.errorNotification(alert, err)
			if addErr := e.notifications.Add(ctx, errNotification); addErr != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
					Errorf("failed to store error notification: %v", addErr)
				continue
			}
			metrics.NotificationsCounter.WithLabelValues(string(entities.NotificationError)).Inc()
			generated = append(generated, errNotification)
			continue
		}

		if notification != nil {
			generated = append(generated, *notification)
		}
	}

	log.Infof("alert pass complete, %v alerts checked, %v notifications", len(alerts), len(generated))
	return generated, nil
}

func (e *AlertEngine) checkAlert(ctx context.Context, alert entities.Alert) (*entities.Notification, error) {

	checkCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.checkContexts.Store(alert.ID, cancel)
	defer e.checkContexts.Delete(alert.ID)

	criteria, err := alert.Criteria()
	if err != nil {
		return nil, err
	}
	filters, err := alert.Filters()
	if err != nil {
		return nil, err
	}

	jobs, err := e.search.Search(checkCtx, alert.Query, criteria)
	if err != nil {
		return nil, err
	}

	jobs = applyAlertFilters(jobs, filters)

	fresh, err := e.filterAlreadyNotified(checkCtx, alert.ID, jobs)
	if err != nil {
		return nil, err
	}

	if err = e.alerts.MarkTriggered(ctx, alert.ID, len(fresh)); err != nil {
		return nil, err
	}

	if len(fresh) == 0 {
		return nil, nil
	}

	notification := entities.Notification{
		ID:        e.newID(),
		AlertID:   alert.ID,
		Type:      entities.NotificationJobAlert,
		Priority:  notificationPriority(fresh),
		Title:     fmt.Sprintf("%d new jobs for %q", len(fresh), alert.Query),
		Message:   summarizeBatch(fresh),
		CreatedAt: time.Now(),
	}
	if err = notification.SetJobs(fresh); err != nil {
		return nil, err
	}

	if err = e.notifications.Add(ctx, notification); err != nil {
		return nil, err
	}
	metrics.NotificationsCounter.WithLabelValues(string(entities.NotificationJobAlert)).Inc()

	e.bus.Publish(events.JobsFoundTopic, events.JobsFound{
		Alert:        alert,
		Notification: notification,
		Jobs:         fresh,
	})

	return &notification, nil
}

// filterAlreadyNotified drops jobs in the alert's notified-ID set and
// records the remainder before returning, so a crash between checks
// can't double-notify.
func (e *AlertEngine) filterAlreadyNotified(ctx context.Context, alertID string,
	jobs []entities.Job) ([]entities.Job, error) {

	var fresh []entities.Job
	for _, job := range jobs {
		notified, err := e.notified.IsNotified(ctx, alertID, job.ID)
		if err != nil {
			return nil, err
		}
		if notified {
			continue
		}

		if err = e.notified.RecordNotified(ctx, alertID, job.ID); err != nil {
			return nil, err
		}
		fresh = append(fresh, job)
	}
	return fresh, nil
}

func (e *AlertEngine) errorNotification(alert entities.Alert, err error) entities.Notification {
	return entities.Notification{
		ID:        e.newID(),
		AlertID:   alert.ID,
		Type:      entities.NotificationError,
		Priority:  entities.PriorityLow,
		Title:     fmt.Sprintf("alert %q check failed", alert.Name),
		Message:   err.Error(),
		CreatedAt: time.Now(),
	}
}

func (e *AlertEngine) onAlertDeleted(event events.AlertDeleted) {
	if cancel, ok := e.checkContexts.Load(event.AlertID); ok {
		cancel.(context.CancelFunc)()
		e.checkContexts.Delete(event.AlertID)
	}
}

func applyAlertFilters(jobs []entities.Job, filters entities.AlertFilters) []entities.Job {
	return lo.Filter(jobs, func(job entities.Job, _ int) bool {

		company := strings.ToLower(job.Company)
		if len(filters.Companies) > 0 && !containsFold(filters.Companies, company) {
			return false
		}
		if containsFold(filters.ExcludeCompanies, company) {
			return false
		}

		text := strings.ToLower(job.Title + " " + job.Description)
		for _, keyword := range filters.ExcludeKeywords {
			if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
				return false
			}
		}
		if len(filters.Keywords) > 0 {
			matched := false
			for _, keyword := range filters.Keywords {
				if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}

		return job.RelevanceScore >= filters.MinRelevance
	})
}

func containsFold(haystack []string, needle string) bool {
	return lo.ContainsBy(haystack, func(item string) bool {
		return strings.EqualFold(strings.TrimSpace(item), needle)
	})
}

// notificationPriority grades the batch: high-relevance, remote or
// high-salary jobs raise it. Used only for ordering in consumers.
func notificationPriority(jobs []entities.Job) entities.NotificationPriority {
	for _, job := range jobs {
		if job.RelevanceScore >= 80 || job.ParsedSalary.Min >= 120000 {
			return entities.PriorityHigh
		}
	}
	for _, job := range jobs {
		if job.ParsedLocation.Remote || job.RelevanceScore >= 60 {
			return entities.PriorityMedium
		}
	}
	return entities.PriorityLow
}

func summarizeBatch(jobs []entities.Job) string {
	titles := lo.Map(jobs, func(job entities.Job, _ int) string {
		return job.Title + " at " + job.Company
	})
	if len(titles) > 3 {
		titles = append(titles[:3], fmt.Sprintf("and %d more", len(jobs)-3))
	}
	return strings.Join(titles, "; ")
}
