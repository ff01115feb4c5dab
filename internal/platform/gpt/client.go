// Package gpt implements a client for the YandexGPT foundation-models API.
// It is the only outbound integration of the service and is rate limited
// client-side to stay within the provider's quota.
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://llm.api.cloud.yandex.net/foundationModels/v1"
	defaultModel   = "yandexgpt-lite"

	defaultTemperature = 0.3
	defaultMaxTokens   = 2000
)

// Message is a single chat turn sent to the model.
type Message struct {
	Role string `json:"role"` // "system", "user", "assistant"
	Text string `json:"text"`
}

type completionRequest struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions completionOptions `json:"completionOptions"`
	Messages          []Message         `json:"messages"`
}

type completionOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message struct {
				Role string `json:"role"`
				Text string `json:"text"`
			} `json:"message"`
			Status string `json:"status"`
		} `json:"alternatives"`
		Usage map[string]any `json:"usage"`
	} `json:"result"`
}

// Client calls the YandexGPT completion endpoint. Authentication uses an
// API key (Api-Key scheme) or an IAM token (Bearer scheme); exactly one
// must be set.
type Client struct {
	httpClient *http.Client
	apiKey     string
	iamToken   string
	folderID   string
	limiter    *rate.Limiter
	baseURL    string
	model      string
}

// Option customizes a Client.
type Option func(*Client)

// WithModel overrides the default model (yandexgpt, yandexgpt-lite).
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithIAMToken switches authentication to an IAM bearer token.
func WithIAMToken(token string) Option {
	return func(c *Client) {
		c.iamToken = token
		c.apiKey = ""
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a YandexGPT client authenticated with an API key.
func NewClient(apiKey, folderID string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		folderID:   folderID,
		// one request per second keeps us inside the provider quota
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		baseURL: defaultBaseURL,
		model:   defaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a chat completion request and returns the raw response.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (*completionResponse, error) {
	if c.folderID == "" {
		return nil, fmt.Errorf("gpt: folder id required")
	}
	if c.apiKey == "" && c.iamToken == "" {
		return nil, fmt.Errorf("gpt: api key or iam token required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody := completionRequest{
		ModelURI: fmt.Sprintf("gpt://%s/%s", c.folderID, c.model),
		CompletionOptions: completionOptions{
			Stream:      false,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
		Messages: messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completion", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.iamToken)
	}
	req.Header.Set("x-folder-id", c.folderID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gpt: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("gpt: status %d: %v", resp.StatusCode, errBody)
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gpt: decode response: %w", err)
	}

	return &result, nil
}

// GenerateText sends a system prompt plus a user prompt and returns the
// first alternative's text.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []Message{
		{Role: "system", Text: systemPrompt},
		{Role: "user", Text: userPrompt},
	}

	resp, err := c.Complete(ctx, messages, defaultTemperature, defaultMaxTokens)
	if err != nil {
		return "", err
	}

	if len(resp.Result.Alternatives) == 0 {
		return "", fmt.Errorf("gpt: no alternatives returned")
	}

	return resp.Result.Alternatives[0].Message.Text, nil
}
