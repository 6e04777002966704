package remotely

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

const apiURL = "https://remotely.works/api/v1/positions"

type searchResponse struct {
	Positions []Position `json:"positions"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Remotely positions API. The board lists remote
// jobs only, so there is no location parameter.
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

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Position, error) {

	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	params := url.Values{}
	params.Add("search", query)
	if limit > 0 {
		params.Add("limit", fmt.Sprintf("%d", limit))
	}

	body, err := c.sendRequest(ctx, apiURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return response.Positions, nil
}

func (c *Client) sendRequest(ctx context.Context, url string) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
