package services

import (
	"context"
	"testing"
	"time"

	"github.com/questkit/jobscout/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockApplications struct {
	mock.Mock
}

func (m *mockApplications) Add(ctx context.Context, application *entities.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *mockApplications) GetByJobID(ctx context.Context, jobID string) (*entities.Application, error) {
	args := m.Called(ctx, jobID)
	application, _ := args.Get(0).(*entities.Application)
	return application, args.Error(1)
}

func (m *mockApplications) GetAll(ctx context.Context) ([]entities.Application, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Application), args.Error(1)
}

func (m *mockApplications) AppendStatus(ctx context.Context, applicationID int,
	status entities.ApplicationStatus, notes string) error {
	return m.Called(ctx, applicationID, status, notes).Error(0)
}

func (m *mockApplications) SaveJob(ctx context.Context, saved entities.SavedJob) error {
	return m.Called(ctx, saved).Error(0)
}

func (m *mockApplications) UnsaveJob(ctx context.Context, jobID string) error {
	return m.Called(ctx, jobID).Error(0)
}

func (m *mockApplications) IsJobSaved(ctx context.Context, jobID string) (bool, error) {
	args := m.Called(ctx, jobID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplications) GetSavedJobs(ctx context.Context) ([]entities.SavedJob, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.SavedJob), args.Error(1)
}

type mockOutcomes struct {
	mock.Mock
}

func (m *mockOutcomes) AddInterview(ctx context.Context, interview entities.Interview) error {
	return m.Called(ctx, interview).Error(0)
}

func (m *mockOutcomes) CountInterviewsForJob(ctx context.Context, jobID string) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOutcomes) AddOffer(ctx context.Context, offer entities.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *mockOutcomes) AddRejection(ctx context.Context, rejection entities.Rejection) error {
	return m.Called(ctx, rejection).Error(0)
}

func Test_SaveJob_WhenAlreadyApplied_ShouldIgnore(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").
		Return(&entities.Application{ID: 1, JobID: "job-1"}, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	err := tracker.SaveJob(context.Background(), entities.Job{ID: "job-1"})
	assert.NoError(t, err)
	applications.AssertNotCalled(t, "SaveJob", mock.Anything, mock.Anything)
}

func Test_TrackApplication_ShouldCreateWithAppliedHistoryEntry(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").Return(nil, nil)
	applications.On("Add", mock.Anything, mock.Anything).Return(nil)
	applications.On("UnsaveJob", mock.Anything, "job-1").Return(nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	application, err := tracker.TrackApplication(context.Background(), "job-1",
		ApplicationData{JobTitle: "Gameplay Programmer", Company: "Pixel Forge"})
	assert.NoError(t, err)

	assert.Equal(t, entities.StatusApplied, application.Status)
	assert.Len(t, application.StatusHistory, 1)
	assert.Equal(t, entities.StatusApplied, application.StatusHistory[0].Status)
	applications.AssertExpectations(t)
}

func Test_TrackApplication_WhenAlreadyTracked_ShouldReturnError(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").
		Return(&entities.Application{ID: 1, JobID: "job-1"}, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	_, err := tracker.TrackApplication(context.Background(), "job-1", ApplicationData{})
	assert.ErrorIs(t, err, ErrApplicationExists)
}

func Test_UpdateApplicationStatus_WithUnknownStatus_ShouldReturnError(t *testing.T) {

	tracker := NewApplicationTracker(&mockApplications{}, &mockOutcomes{})

	err := tracker.UpdateApplicationStatus(context.Background(), "job-1", "promoted", StatusData{})
	assert.ErrorIs(t, err, entities.ErrUnknownStatus)
}

func Test_UpdateApplicationStatus_WhenNotTracked_ShouldReturnNotFound(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").Return(nil, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	err := tracker.UpdateApplicationStatus(context.Background(), "job-1",
		string(entities.StatusUnderReview), StatusData{})
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func Test_UpdateApplicationStatus_WhenTerminal_ShouldReturnClosed(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").
		Return(&entities.Application{ID: 1, JobID: "job-1", Status: entities.StatusRejected}, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	err := tracker.UpdateApplicationStatus(context.Background(), "job-1",
		string(entities.StatusUnderReview), StatusData{})
	assert.ErrorIs(t, err, ErrApplicationClosed)

	applications.AssertNotCalled(t, "AppendStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_UpdateApplicationStatus_ToInterviewScheduled_ShouldRecordNextRound(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").
		Return(&entities.Application{ID: 1, JobID: "job-1", Status: entities.StatusUnderReview}, nil)
	applications.On("AppendStatus", mock.Anything, 1, entities.StatusInterviewScheduled, "phone screen").
		Return(nil)

	outcomes := &mockOutcomes{}
	outcomes.On("CountInterviewsForJob", mock.Anything, "job-1").Return(int64(1), nil)
	outcomes.On("AddInterview", mock.Anything, mock.MatchedBy(func(interview entities.Interview) bool {
		return interview.JobID == "job-1" && interview.Round == 2
	})).Return(nil)

	tracker := NewApplicationTracker(applications, outcomes)

	err := tracker.UpdateApplicationStatus(context.Background(), "job-1",
		string(entities.StatusInterviewScheduled), StatusData{Notes: "phone screen"})
	assert.NoError(t, err)
	outcomes.AssertExpectations(t)
}

func Test_UpdateApplicationStatus_ToGhosted_ShouldRecordGhostedRejection(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-1").
		Return(&entities.Application{ID: 1, JobID: "job-1", Status: entities.StatusApplied}, nil)
	applications.On("AppendStatus", mock.Anything, 1, entities.StatusGhosted, "").Return(nil)

	outcomes := &mockOutcomes{}
	outcomes.On("AddRejection", mock.Anything, mock.MatchedBy(func(rejection entities.Rejection) bool {
		return rejection.JobID == "job-1" && rejection.Ghosted
	})).Return(nil)

	tracker := NewApplicationTracker(applications, outcomes)

	err := tracker.UpdateApplicationStatus(context.Background(), "job-1",
		string(entities.StatusGhosted), StatusData{})
	assert.NoError(t, err)
	outcomes.AssertExpectations(t)
}

func Test_GetApplicationForJob_WhenMissing_ShouldReturnNotFound(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetByJobID", mock.Anything, "job-404").Return(nil, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	_, err := tracker.GetApplicationForJob(context.Background(), "job-404")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func Test_Stats_ShouldDeriveRatesFromHistory(t *testing.T) {

	applied := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	applications := &mockApplications{}
	applications.On("GetAll", mock.Anything).Return([]entities.Application{
		{
			JobID: "job-1", AppliedAt: applied,
			StatusHistory: []entities.StatusEntry{
				{Status: entities.StatusApplied, CreatedAt: applied},
				{Status: entities.StatusInterviewScheduled, CreatedAt: applied.Add(48 * time.Hour)},
				{Status: entities.StatusOfferReceived, CreatedAt: applied.Add(10 * 24 * time.Hour)},
			},
		},
		{
			JobID: "job-2", AppliedAt: applied,
			StatusHistory: []entities.StatusEntry{
				{Status: entities.StatusApplied, CreatedAt: applied},
			},
		},
	}, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	stats, err := tracker.Stats(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, stats.TotalApplications)
	assert.Equal(t, 1, stats.TotalInterviews)
	assert.Equal(t, 1, stats.TotalOffers)
	assert.Equal(t, 0, stats.TotalRejections)
	assert.InDelta(t, 0.5, stats.ResponseRate, 1e-9)
	assert.InDelta(t, 0.5, stats.InterviewRate, 1e-9)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	assert.InDelta(t, 2.0, stats.AvgResponseTimeDays, 1e-9)
}

func Test_Stats_WithNoApplications_ShouldReturnZeroes(t *testing.T) {

	applications := &mockApplications{}
	applications.On("GetAll", mock.Anything).Return([]entities.Application{}, nil)

	tracker := NewApplicationTracker(applications, &mockOutcomes{})

	stats, err := tracker.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, entities.ApplicationStats{}, stats)
}
