package talenthub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const apiURL = "https://api.talenthub.dev/v1/search"

type searchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page,omitempty"`
}

type searchResponse struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the TalentHub recruiting API, which takes its search
// parameters as a JSON POST body.
type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) Search(ctx context.Context, query, location string, page, perPage int) ([]Result, error) {

	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	payload, err := json.Marshal(searchRequest{
		Query:    query,
		Location: location,
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding request body: %v", err)
	}

	body, err := c.sendRequest(ctx, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return response.Results, nil
}

func (c *Client) sendRequest(ctx context.Context, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(raw))
	}

	return raw, nil
}
