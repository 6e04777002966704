package services

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/questkit/jobscout/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAiClient struct {
	mock.Mock
}

func (m *mockAiClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func Test_SummarizeFit_ShouldIncludeJobAndProfileInPrompt(t *testing.T) {

	ai := &mockAiClient{}
	ai.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Unity Developer") &&
			strings.Contains(prompt, "Moonlight") &&
			strings.Contains(prompt, "c#") &&
			strings.Contains(prompt, "senior")
	})).Return("  **Strong fit thanks to Unity experience.**  ", nil).Once()

	service := NewAIService(ai)

	summary, err := service.SummarizeFit(context.Background(),
		entities.UserProfile{
			Skills:     []string{"c#", "unity"},
			Experience: entities.ProfileExperience{Level: entities.LevelSenior},
		},
		entities.Job{ID: "1", Title: "Unity Developer", Company: "Moonlight"},
		entities.MatchResult{Recommendation: "very good match"})

	assert.NoError(t, err)
	assert.Equal(t, "Strong fit thanks to Unity experience.", summary)
	ai.AssertExpectations(t)
}

func Test_SummarizeFit_WhenClientFails_ShouldPropagateError(t *testing.T) {

	ai := &mockAiClient{}
	ai.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	service := NewAIService(ai)

	_, err := service.SummarizeFit(context.Background(),
		entities.UserProfile{}, entities.Job{}, entities.MatchResult{})
	assert.Error(t, err)
}
