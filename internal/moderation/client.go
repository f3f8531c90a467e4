// Package moderation is the client for the external content classifier.
// The service is a black box: given post text it either flags it with a
// reason or returns a category and tags.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Result struct {
	IsFlagged bool     `json:"isFlagged"`
	Reason    string   `json:"reason,omitempty"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type classifyRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Client calls the moderation/categorization service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a service endpoint is configured. With no
// endpoint, Classify approves everything.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Classify submits post text and returns the service's verdict. Network
// or decode failures are returned as errors; the caller decides whether a
// publish may proceed without a verdict.
func (c *Client) Classify(ctx context.Context, title, content string) (*Result, error) {
	if !c.Enabled() {
		return &Result{}, nil
	}

	body, err := json.Marshal(classifyRequest{Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to encode moderation request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build moderation request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation service unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation service returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode moderation response: %v", err)
	}
	return &result, nil
}
