// Package groq talks to an OpenAI-compatible chat-completions endpoint (Groq by
// default) and turns its JSON replies into simulation decisions.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL      = "https://api.groq.com/openai/v1"
	DefaultAgentModel   = "llama-3.1-8b-instant"
	DefaultCEOModel     = "llama-3.3-70b-versatile"
	DefaultMaxPerMinute = 30

	systemPrompt = "You are a simulation agent. You MUST respond with valid JSON."
	temperature  = 0.6
)

var (
	ErrNotConfigured = errors.New("groq client not configured")
	ErrRateLimited   = errors.New("groq rate limit exceeded")
)

type Options struct {
	BaseURL      string
	APIKeys      []string
	MaxPerMinute int
	HTTPClient   *http.Client
}

// Client is safe for concurrent use. Keys are used round-robin.
type Client struct {
	baseURL    string
	keys       []string
	httpClient *http.Client
	now        func() time.Time

	mu        sync.Mutex
	nextKey   int
	callCount int
	resetAt   time.Time
	maxPerMin int
}

// NewClient returns nil when no API key is given.
func NewClient(opts Options) *Client {
	keys := make([]string, 0, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		keys:       keys,
		httpClient: opts.HTTPClient,
		now:        time.Now,
		maxPerMin:  opts.MaxPerMinute,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.maxPerMin <= 0 {
		c.maxPerMin = DefaultMaxPerMinute
	}
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && len(c.keys) > 0
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type request struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends prompt to model in JSON mode and returns the raw message content.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	key, err := c.acquire()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(request{
		Model: model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", errors.New("empty response")
	}

	slog.Debug("chat completion",
		"model", model,
		"prompt_tokens", apiResp.Usage.PromptTokens,
		"completion_tokens", apiResp.Usage.CompletionTokens,
	)
	return apiResp.Choices[0].Message.Content, nil
}

// acquire counts one call against the per-minute window and picks the next key.
func (c *Client) acquire() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.After(c.resetAt) {
		c.callCount = 0
		c.resetAt = now.Add(time.Minute)
	}
	if c.callCount >= c.maxPerMin {
		return "", fmt.Errorf("%w (%d calls/min)", ErrRateLimited, c.maxPerMin)
	}
	c.callCount++
	key := c.keys[c.nextKey%len(c.keys)]
	c.nextKey++
	return key, nil
}
