// Package llm talks to the hosted OpenAI-compatible endpoint: chat
// completions for question generation and answer evaluation, audio
// transcriptions for speech-to-text.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// TransportError covers network failures, timeouts, and non-200 responses
// from the completion endpoint.
type TransportError struct {
	Wrapped error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport error: %v", e.Wrapped)
}

func (e *TransportError) Unwrap() error {
	return e.Wrapped
}

// SchemaError is returned when the endpoint answered but the body did not
// contain the expected structured output.
type SchemaError struct {
	Reason  string
	Wrapped error
}

func (e *SchemaError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("completion schema error: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("completion schema error: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Wrapped
}

// Client calls the hosted endpoint. Each call is retried up to maxAttempts
// times in total; the last error is returned once attempts are exhausted.
// Callers on the evaluation path convert that error into a degraded result,
// so it never propagates past the evaluator.
type Client struct {
	baseURL         string
	apiKey          string
	model           string
	transcribeModel string
	maxAttempts     int
	client          *http.Client
	logger          *slog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL         string // e.g. "https://api.groq.com/openai"
	APIKey          string
	Model           string
	TranscribeModel string
	Timeout         time.Duration
	MaxAttempts     int
}

// New creates a Client for the given endpoint.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:         opts.BaseURL,
		apiKey:          opts.APIKey,
		model:           opts.Model,
		transcribeModel: opts.TranscribeModel,
		maxAttempts:     opts.MaxAttempts,
		client:          &http.Client{Timeout: opts.Timeout},
		logger:          logger,
	}
}

// Request is one completion call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Complete sends the prompt and returns the raw text of the first choice.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		text, err := c.call(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.logger.Warn("completion attempt failed",
			"attempt", attempt+1,
			"max_attempts", c.maxAttempts,
			"error", err,
		)
	}
	return "", lastErr
}

// CompleteJSON sends the prompt, extracts the outermost JSON object from the
// response text, and unmarshals it into out. A response with no parseable
// JSON counts as a failed attempt and is retried like a transport failure.
func (c *Client) CompleteJSON(ctx context.Context, req Request, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		text, err := c.call(ctx, req)
		if err != nil {
			lastErr = err
			c.logger.Warn("completion attempt failed",
				"attempt", attempt+1,
				"max_attempts", c.maxAttempts,
				"error", err,
			)
			continue
		}

		jsonStr := ExtractJSON(text)
		if jsonStr == "" {
			lastErr = &SchemaError{Reason: "no JSON object found in model response"}
			continue
		}
		if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
			lastErr = &SchemaError{Reason: "invalid JSON from model", Wrapped: err}
			continue
		}
		return nil
	}
	return lastErr
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// call performs a single chat-completions request.
func (c *Client) call(ctx context.Context, r Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if r.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: r.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: r.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Wrapped: fmt.Errorf("endpoint returned status %d", resp.StatusCode)}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", &SchemaError{Reason: "failed to decode response body", Wrapped: err}
	}
	if chat.Error != nil {
		return "", &TransportError{Wrapped: fmt.Errorf("endpoint error: %s", chat.Error.Message)}
	}
	if len(chat.Choices) == 0 {
		return "", &SchemaError{Reason: "model returned no choices"}
	}

	content := chat.Choices[0].Message.Content
	if content == "" {
		return "", &SchemaError{Reason: "model returned empty content"}
	}
	return content, nil
}

// ExtractJSON finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings.
func ExtractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
