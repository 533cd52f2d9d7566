package course

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrMissingURL is returned when Fetch is called without a course URL
var ErrMissingURL = errors.New("missing course URL")

// Client calls the course-data fetch endpoint
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the fetch endpoint at endpoint. apiKey, when
// set, is sent as a bearer token.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type fetchRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Fetch requests course data for the course website at pageURL
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Course, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, ErrMissingURL
	}

	body, err := json.Marshal(fetchRequest{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("fetch endpoint returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("fetch endpoint returned status %d", resp.StatusCode)
	}

	var result Course
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	for i := range result.Tees {
		result.Tees[i].TeeName = NormalizeTeeName(result.Tees[i].TeeName)
	}

	return &result, nil
}
