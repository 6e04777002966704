package services

import (
	"context"
	"strings"

	"github.com/questkit/jobscout/internal/entities"
	log "github.com/sirupsen/logrus"
)

type aiClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService produces short natural-language fit summaries for match
// results. Optional, the engine works without it.
type AIService struct {
	aiClient aiClient
}

func NewAIService(aiClient aiClient) *AIService {
	return &AIService{aiClient: aiClient}
}

// SummarizeFit asks the model for a one-line explanation of how well
// the job fits the profile.
func (a *AIService) SummarizeFit(ctx context.Context, profile entities.UserProfile,
	job entities.Job, match entities.MatchResult) (string, error) {

	response, err := a.aiClient.Generate(ctx, a.fitSummaryPrompt(profile, job, match))
	if err != nil {
		return "", err
	}

	log.Debugf("got fit summary for job %v", job.ID)
	return strings.TrimSpace(strings.ReplaceAll(response, "*", "")), nil
}

func (a *AIService) fitSummaryPrompt(profile entities.UserProfile,
	job entities.Job, match entities.MatchResult) (prompt string) {

	prompt = "Job title: " + job.Title
	prompt += " Company: " + job.Company
	if job.Description != "" {
		prompt += " Description: " + truncateText(job.Description, 1500)
	}

	if len(profile.Skills) != 0 {
		prompt += " Candidate skills: " + strings.Join(profile.Skills, ", ")
	}
	prompt += " Candidate experience level: " + string(profile.Experience.Level)
	prompt += " Computed match score: " + match.Recommendation

	prompt += " You are a career assistant for game industry job seekers. " +
		"In one sentence, explain why this job does or does not fit the candidate. " +
		"Be concrete, mention the strongest matching or missing skill."
	return prompt
}

func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
