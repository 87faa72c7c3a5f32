package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultRequestTimeout = 10 * time.Second
	healthPollInterval    = 500 * time.Millisecond
	requestIDHeader       = "X-Request-ID"
)

// HttpClient talks JSON to a bookings server rooted at BaseURL.
type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHttpClient(baseURL string) *HttpClient {
	return &HttpClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Response is a fully read reply; Body stays available after the connection is released.
type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// RequestID is the id the server assigned to the call, for correlating with its logs.
func (r *Response) RequestID() string {
	return r.Header.Get(requestIDHeader)
}

func (c *HttpClient) send(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	return &Response{Response: resp, Body: data}, nil
}

// WaitForHealthy polls /health until it answers 200 or maxWait elapses.
func (c *HttpClient) WaitForHealthy(maxWait time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	defer cancel()

	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()

	for {
		resp, err := c.send(ctx, http.MethodGet, "/health", nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("service did not become healthy within %v", maxWait)
		case <-ticker.C:
		}
	}
}

// GetErrorDetail extracts the {detail} field of a failure response.
func GetErrorDetail(resp *Response) string {
	var failure struct {
		Detail string `json:"detail"`
	}
	if err := resp.DecodeJSON(&failure); err != nil {
		return fmt.Sprintf("failed to unmarshal error: %v", err)
	}
	return failure.Detail
}
