package services

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/questkit/jobscout/internal/entities"
	"github.com/questkit/jobscout/internal/events"
	"github.com/stretchr/testify/assert"
)

type fakeAlerts struct {
	alerts map[string]*entities.Alert
}

func newFakeAlerts() *fakeAlerts {
	return &fakeAlerts{alerts: map[string]*entities.Alert{}}
}

func (f *fakeAlerts) Add(_ context.Context, alert entities.Alert) error {
	f.alerts[alert.ID] = &alert
	return nil
}

func (f *fakeAlerts) GetByID(_ context.Context, id string) (*entities.Alert, error) {
	return f.alerts[id], nil
}

func (f *fakeAlerts) GetActive(_ context.Context) ([]entities.Alert, error) {
	var active []entities.Alert
	for _, alert := range f.alerts {
		if alert.IsActive {
			active = append(active, *alert)
		}
	}
	return active, nil
}

func (f *fakeAlerts) GetAll(_ context.Context) ([]entities.Alert, error) {
	var all []entities.Alert
	for _, alert := range f.alerts {
		all = append(all, *alert)
	}
	return all, nil
}

func (f *fakeAlerts) Update(_ context.Context, alert entities.Alert) error {
	f.alerts[alert.ID] = &alert
	return nil
}

func (f *fakeAlerts) SetActive(_ context.Context, id string, active bool) error {
	f.alerts[id].IsActive = active
	return nil
}

func (f *fakeAlerts) MarkTriggered(_ context.Context, id string, newMatches int) error {
	f.alerts[id].LastTriggered = time.Now()
	f.alerts[id].TotalMatches += newMatches
	return nil
}

func (f *fakeAlerts) Remove(_ context.Context, id string) error {
	delete(f.alerts, id)
	return nil
}

type fakeNotified struct {
	seen map[string]struct{}
}

func newFakeNotified() *fakeNotified {
	return &fakeNotified{seen: map[string]struct{}{}}
}

func (f *fakeNotified) key(alertID, jobID string) string { return alertID + "|" + jobID }

func (f *fakeNotified) IsNotified(_ context.Context, alertID, jobID string) (bool, error) {
	_, ok := f.seen[f.key(alertID, jobID)]
	return ok, nil
}

func (f *fakeNotified) RecordNotified(_ context.Context, alertID, jobID string) error {
	f.seen[f.key(alertID, jobID)] = struct{}{}
	return nil
}

func (f *fakeNotified) RemoveByAlert(_ context.Context, alertID string) error {
	for key := range f.seen {
		if len(key) > len(alertID) && key[:len(alertID)] == alertID {
			delete(f.seen, key)
		}
	}
	return nil
}

type fakeNotifications struct {
	added []entities.Notification
}

func (f *fakeNotifications) Add(_ context.Context, notification entities.Notification) error {
	f.added = append(f.added, notification)
	return nil
}

type fakeSearch struct {
	jobs  map[string][]entities.Job
	err   error
	calls atomic.Int64
}

func (f *fakeSearch) Search(_ context.Context, query string, _ entities.SearchCriteria) ([]entities.Job, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs[query], nil
}

func sequentialIDs() IDGenerator {
	var counter atomic.Int64
	return func() string {
		return "id-" + strconv.FormatInt(counter.Add(1), 10)
	}
}

func newTestEngine(t *testing.T, search searchService, alerts alertRepository,
	notified notifiedRepository, notifications notificationSink) *AlertEngine {
	t.Helper()
	engine, err := NewAlertEngine(EventBus.New(), search, alerts, notified, notifications, sequentialIDs())
	assert.NoError(t, err)
	return engine
}

func Test_CreateAlert_WithoutQuery_ShouldFail(t *testing.T) {

	engine := newTestEngine(t, &fakeSearch{}, newFakeAlerts(), newFakeNotified(), &fakeNotifications{})

	_, err := engine.CreateAlert(context.Background(), AlertConfig{Name: "empty"})
	assert.Error(t, err)
}

func Test_CreateAlert_WithoutFrequency_ShouldDefaultToDaily(t *testing.T) {

	engine := newTestEngine(t, &fakeSearch{}, newFakeAlerts(), newFakeNotified(), &fakeNotifications{})

	alert, err := engine.CreateAlert(context.Background(), AlertConfig{Query: "unity"})
	assert.NoError(t, err)
	assert.Equal(t, entities.FrequencyDaily, alert.Frequency)
	assert.True(t, alert.IsActive)
}

func Test_CheckAlerts_SecondPass_ShouldNotRenotifySameJobs(t *testing.T) {

	search := &fakeSearch{jobs: map[string][]entities.Job{
		"unity": {
			{ID: "arcade-1", Title: "Unity Developer", Company: "Moonlight"},
			{ID: "arcade-2", Title: "Gameplay Programmer", Company: "Pixel Forge"},
		},
	}}
	alerts := newFakeAlerts()
	notifications := &fakeNotifications{}

	engine := newTestEngine(t, search, alerts, newFakeNotified(), notifications)

	alert, err := engine.CreateAlert(context.Background(),
		AlertConfig{Query: "unity", Frequency: entities.FrequencyInstant})
	assert.NoError(t, err)

	generated, err := engine.CheckAlerts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, generated, 1)

	jobs, err := generated[0].Jobs()
	assert.NoError(t, err)
	assert.Len(t, jobs, 2)

	// pretend the frequency window passed; same jobs come back from search
	alerts.alerts[alert.ID].LastTriggered = time.Now().Add(-time.Hour)

	generated, err = engine.CheckAlerts(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, generated)
	assert.Len(t, notifications.added, 1)
}

func Test_CheckAlerts_WithinFrequencyWindow_ShouldSkipAlert(t *testing.T) {

	search := &fakeSearch{}
	alerts := newFakeAlerts()

	engine := newTestEngine(t, search, alerts, newFakeNotified(), &fakeNotifications{})

	alert, err := engine.CreateAlert(context.Background(),
		AlertConfig{Query: "unity", Frequency: entities.FrequencyDaily})
	assert.NoError(t, err)
	alerts.alerts[alert.ID].LastTriggered = time.Now().Add(-time.Hour)

	generated, err := engine.CheckAlerts(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, generated)
	assert.Equal(t, int64(0), search.calls.Load())
}

func Test_CheckAlerts_WhenSearchFails_ShouldEmitErrorNotificationAndContinue(t *testing.T) {

	alerts := newFakeAlerts()
	notifications := &fakeNotifications{}

	failing := &fakeSearch{err: errors.New("all sources down")}
	engine := newTestEngine(t, failing, alerts, newFakeNotified(), notifications)

	_, err := engine.CreateAlert(context.Background(),
		AlertConfig{Query: "unity", Frequency: entities.FrequencyInstant})
	assert.NoError(t, err)
	_, err = engine.CreateAlert(context.Background(),
		AlertConfig{Query: "unreal", Frequency: entities.FrequencyInstant})
	assert.NoError(t, err)

	generated, err := engine.CheckAlerts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, generated, 2)
	for _, notification := range generated {
		assert.Equal(t, entities.NotificationError, notification.Type)
		assert.Equal(t, entities.PriorityLow, notification.Priority)
	}
}

func Test_CheckAlerts_MinRelevanceFilter_ShouldDropWeakMatches(t *testing.T) {

	search := &fakeSearch{jobs: map[string][]entities.Job{
		"unity": {
			{ID: "weak", Title: "Unity Developer", Company: "Moonlight", RelevanceScore: 20},
			{ID: "strong", Title: "Senior Unity Developer", Company: "Pixel Forge", RelevanceScore: 80},
		},
	}}

	engine := newTestEngine(t, search, newFakeAlerts(), newFakeNotified(), &fakeNotifications{})

	_, err := engine.CreateAlert(context.Background(), AlertConfig{
		Query:     "unity",
		Frequency: entities.FrequencyInstant,
		Filters:   &entities.AlertFilters{MinRelevance: 50},
	})
	assert.NoError(t, err)

	generated, err := engine.CheckAlerts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, generated, 1)

	jobs, err := generated[0].Jobs()
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, "strong", jobs[0].ID)
}

func Test_ApplyAlertFilters(t *testing.T) {

	jobs := []entities.Job{
		{ID: "1", Title: "Unity Developer", Company: "Moonlight", Description: "live ops team"},
		{ID: "2", Title: "Unreal Developer", Company: "Pixel Forge", Description: "aaa shooter"},
		{ID: "3", Title: "Slots Designer", Company: "Moonlight", Description: "casino gambling"},
	}

	filtered := applyAlertFilters(jobs, entities.AlertFilters{
		Companies:       []string{"Moonlight"},
		ExcludeKeywords: []string{"gambling"},
	})

	assert.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)
}

func Test_UpdateAlert_RenameOnly_ShouldKeepCriteriaAndFilters(t *testing.T) {

	engine := newTestEngine(t, &fakeSearch{}, newFakeAlerts(), newFakeNotified(), &fakeNotifications{})

	alert, err := engine.CreateAlert(context.Background(), AlertConfig{
		Query:    "unity",
		Criteria: &entities.SearchCriteria{Location: "Austin", SalaryMin: 80000},
		Filters:  &entities.AlertFilters{MinRelevance: 50},
	})
	assert.NoError(t, err)

	updated, err := engine.UpdateAlert(context.Background(), alert.ID, AlertConfig{Name: "renamed"})
	assert.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "unity", updated.Query)

	criteria, err := updated.Criteria()
	assert.NoError(t, err)
	assert.Equal(t, "Austin", criteria.Location)
	assert.Equal(t, 80000, criteria.SalaryMin)

	filters, err := updated.Filters()
	assert.NoError(t, err)
	assert.Equal(t, 50, filters.MinRelevance)
}

func Test_UpdateAlert_WithCriteria_ShouldReplaceThem(t *testing.T) {

	engine := newTestEngine(t, &fakeSearch{}, newFakeAlerts(), newFakeNotified(), &fakeNotifications{})

	alert, err := engine.CreateAlert(context.Background(), AlertConfig{
		Query:    "unity",
		Criteria: &entities.SearchCriteria{Location: "Austin"},
	})
	assert.NoError(t, err)

	updated, err := engine.UpdateAlert(context.Background(), alert.ID,
		AlertConfig{Criteria: &entities.SearchCriteria{Location: "Berlin"}})
	assert.NoError(t, err)

	criteria, err := updated.Criteria()
	assert.NoError(t, err)
	assert.Equal(t, "Berlin", criteria.Location)

	_, err = engine.UpdateAlert(context.Background(), "missing", AlertConfig{Name: "x"})
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func Test_DeleteAlert_ShouldClearNotifiedSetAndPublishEvent(t *testing.T) {

	bus := EventBus.New()
	alerts := newFakeAlerts()
	notified := newFakeNotified()

	engine, err := NewAlertEngine(bus, &fakeSearch{}, alerts, notified, &fakeNotifications{}, sequentialIDs())
	assert.NoError(t, err)

	var deletedID string
	err = bus.Subscribe(events.AlertDeletedTopic, func(event events.AlertDeleted) {
		deletedID = event.AlertID
	})
	assert.NoError(t, err)

	alert, err := engine.CreateAlert(context.Background(),
		AlertConfig{Query: "unity", Frequency: entities.FrequencyDaily})
	assert.NoError(t, err)
	assert.NoError(t, notified.RecordNotified(context.Background(), alert.ID, "job-1"))

	err = engine.DeleteAlert(context.Background(), alert.ID)
	assert.NoError(t, err)

	assert.Empty(t, notified.seen)
	assert.Equal(t, alert.ID, deletedID)

	err = engine.DeleteAlert(context.Background(), alert.ID)
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func Test_ToggleAlert_ShouldFlipActiveFlag(t *testing.T) {

	alerts := newFakeAlerts()
	engine := newTestEngine(t, &fakeSearch{}, alerts, newFakeNotified(), &fakeNotifications{})

	alert, err := engine.CreateAlert(context.Background(),
		AlertConfig{Query: "unity", Frequency: entities.FrequencyDaily})
	assert.NoError(t, err)

	toggled, err := engine.ToggleAlert(context.Background(), alert.ID)
	assert.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.False(t, alerts.alerts[alert.ID].IsActive)
}

func Test_NotificationPriority_HighRelevanceJob_ShouldBeHigh(t *testing.T) {

	high := notificationPriority([]entities.Job{{RelevanceScore: 85}})
	assert.Equal(t, entities.PriorityHigh, high)

	medium := notificationPriority([]entities.Job{
		{RelevanceScore: 40, ParsedLocation: entities.ParsedLocation{Remote: true}},
	})
	assert.Equal(t, entities.PriorityMedium, medium)

	low := notificationPriority([]entities.Job{{RelevanceScore: 10}})
	assert.Equal(t, entities.PriorityLow, low)
}

func Test_SummarizeBatch_ShouldTruncateLongBatches(t *testing.T) {

	var jobs []entities.Job
	for i := 0; i < 6; i++ {
		jobs = append(jobs, entities.Job{
			Title: fmt.Sprintf("Job %d", i), Company: "Studio",
		})
	}

	summary := summarizeBatch(jobs)
	assert.Contains(t, summary, "and 3 more")
}
