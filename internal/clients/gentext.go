// Package clients holds the HTTP collaborators: the generative text service,
// the plant identification service, and the IoT telemetry service. Each
// client speaks only the response contract; no retries, no queuing.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRateLimited reports an HTTP 429 from the generative text service. The
// care resolver degrades to generic guidance on this error specifically.
var ErrRateLimited = errors.New("generative service rate limited")

// TextGenerator produces free text for a prompt. The care resolver expects
// the text to parse as JSON.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenTextClient calls the generative text collaborator.
type GenTextClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewGenTextClient(baseURL, apiKey string) *GenTextClient {
	return &GenTextClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GenTextClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generative service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generative response: %w", err)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode generative response: %w", err)
	}
	return out.Text, nil
}
