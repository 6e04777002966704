package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//ModelFlash is the fastest model, good enough for short summaries
	ModelFlash Model = "gemini-1.5-flash"
	//ModelFlash8b is the smallest model for lower intelligence use cases
	ModelFlash8b Model = "gemini-1.5-flash-8b"
	//ModelPro is the strongest model with the largest context window
	ModelPro Model = "gemini-1.5-pro"
)

// Client wraps the generative model with minute and day rate limits,
// both optional.
type Client struct {
	client            *genai.Client
	model             *genai.GenerativeModel
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(string(model)),
	}, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

// Generate sends the prompt and returns the text of the first
// candidate, retrying transient server errors.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		resp, err = c.waitAndGenerate(ctx, prompt)
		return err, isInternalError(err)
	})

	return resp, err
}

func (c *Client) waitAndGenerate(ctx context.Context, prompt string) (string, error) {

	for _, limiter := range []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter} {
		if limiter == nil {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	response, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response has no content")
	}

	if textPart, ok := response.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(textPart), nil
	}
	return "", fmt.Errorf("response part is not text")
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
