// Package textgen is a minimal client for an OpenAI-compatible chat
// completion endpoint. The service treats the backend as an opaque text
// generator: one request, one completion, no streaming.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"backlink-radar/config"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Message is one chat turn sent to the backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls the configured text-generation backend.
type Client struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewClient creates a new text-generation client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{Config: cfg, Logger: logger}
}

// Enabled reports whether a backend is configured. Callers are expected to
// fall back to static templates when it is not.
func (c *Client) Enabled() bool {
	return c.Config.TextGenAPIKey != ""
}

// Complete sends a chat completion request and returns the generated text.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("text generation backend is not configured")
	}

	body, err := json.Marshal(request{
		Model: c.Config.TextGenModel,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		return "", err
	}

	url := c.Config.TextGenBaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Config.TextGenAPIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation request failed with status: %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("text generation response contained no completion")
	}
	return out.Choices[0].Message.Content, nil
}
