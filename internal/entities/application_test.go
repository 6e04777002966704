package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseApplicationStatus_WithUnknownValue_ShouldFail(t *testing.T) {

	_, err := ParseApplicationStatus("promoted")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	status, err := ParseApplicationStatus("interview_scheduled")
	assert.NoError(t, err)
	assert.Equal(t, StatusInterviewScheduled, status)
}

func Test_ApplicationStatus_IsTerminal(t *testing.T) {

	terminal := []ApplicationStatus{
		StatusOfferAccepted, StatusOfferDeclined, StatusRejected, StatusWithdrawn, StatusGhosted,
	}
	for _, status := range terminal {
		assert.True(t, status.IsTerminal(), string(status))
	}

	open := []ApplicationStatus{
		StatusSaved, StatusApplied, StatusUnderReview, StatusInterviewScheduled,
		StatusInterviewed, StatusSecondInterview, StatusFinalInterview,
		StatusReferenceCheck, StatusOfferReceived,
	}
	for _, status := range open {
		assert.False(t, status.IsTerminal(), string(status))
	}
}

func Test_ApplicationStatus_IsInterviewStage(t *testing.T) {

	assert.True(t, StatusInterviewScheduled.IsInterviewStage())
	assert.True(t, StatusFinalInterview.IsInterviewStage())
	assert.False(t, StatusOfferReceived.IsInterviewStage())
	assert.False(t, StatusApplied.IsInterviewStage())
}
