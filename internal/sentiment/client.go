// Package sentiment talks to the AI completion provider and applies its
// judgment to the top scan results.
package sentiment

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

	"golang.org/x/time/rate"
)

// ErrUnparseable marks a provider response that contained no JSON object.
var ErrUnparseable = errors.New("sentiment: no JSON object in response")

// Request styles. Empty style tries responses first, then chat.
const (
	StyleResponses = "responses"
	StyleChat      = "chat"
)

// Client calls the completion provider. Two request shapes are supported:
// the structured-output "responses" style and the conversational "chat
// completions" style, tried in that order with parameter relaxation on
// client errors.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	baseURL string
	apiKey  string
	model   string
	style   string
}

// Config holds completion client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	Style          string // "responses" | "chat" | ""
	RequestTimeout time.Duration
}

// NewClient creates a completion client.
func NewClient(config Config) *Client {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		model:      config.Model,
		style:      strings.ToLower(strings.TrimSpace(config.Style)),
	}
}

// Configured reports whether the client has credentials to work with.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// genOptions tune one generation call.
type genOptions struct {
	maxOutputTokens int
	temperature     *float64
}

// providerError is the JSON error envelope client-error responses carry.
type providerError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param"`
		Code    string `json:"code"`
	} `json:"error"`
}

// GenerateObject runs the prompt through the fallback chain and returns
// the first JSON object found in the response text. Failures of both
// styles come back as one aggregated error.
func (c *Client) GenerateObject(ctx context.Context, prompt string, opts genOptions) (json.RawMessage, error) {
	if opts.maxOutputTokens == 0 {
		opts.maxOutputTokens = 600
	}

	var attemptErrs []string

	if c.style == "" || c.style == StyleResponses {
		obj, err := c.tryResponses(ctx, prompt, opts)
		if err == nil {
			return obj, nil
		}
		attemptErrs = append(attemptErrs, fmt.Sprintf("responses: %v", err))
	}

	if c.style == "" || c.style == StyleChat {
		obj, err := c.tryChat(ctx, prompt, opts)
		if err == nil {
			return obj, nil
		}
		attemptErrs = append(attemptErrs, fmt.Sprintf("chat: %v", err))
	}

	if len(attemptErrs) == 0 {
		return nil, fmt.Errorf("unknown API style %q", c.style)
	}
	return nil, errors.New(strings.Join(attemptErrs, "; "))
}

// tryResponses posts a structured-output request, relaxing incompatible
// parameters on HTTP 400 up to three attempts: unsupported temperature is
// dropped, the reasoning-effort hint escalates low -> medium -> removed.
func (c *Client) tryResponses(ctx context.Context, prompt string, opts genOptions) (json.RawMessage, error) {
	body := map[string]any{
		"model":             c.model,
		"input":             prompt,
		"max_output_tokens": opts.maxOutputTokens,
		"reasoning":         map[string]any{"effort": "low"},
	}
	if opts.temperature != nil {
		body["temperature"] = *opts.temperature
	}

	var status int
	var respBody []byte
	var err error

	for attempt := 0; attempt < 3; attempt++ {
		status, respBody, err = c.post(ctx, "/responses", body)
		if err != nil {
			return nil, err
		}
		if status != http.StatusBadRequest {
			break
		}
		if !relaxRequest(body, respBody) {
			break
		}
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", status, truncateBody(respBody))
	}

	text, err := extractResponsesText(respBody)
	if err != nil {
		return nil, err
	}
	obj, ok := extractJSONObject(text)
	if !ok {
		return nil, ErrUnparseable
	}
	return obj, nil
}

// relaxRequest inspects a client-error body and strips or adjusts the
// parameter it rejects. Returns false when nothing applicable changed.
func relaxRequest(body map[string]any, errBody []byte) bool {
	var pe providerError
	_ = json.Unmarshal(errBody, &pe)
	hint := pe.Error.Param + " " + pe.Error.Message

	changed := false

	if strings.Contains(hint, "temperature") {
		if _, ok := body["temperature"]; ok {
			delete(body, "temperature")
			changed = true
		}
	}

	if strings.Contains(hint, "reasoning") {
		if reasoning, ok := body["reasoning"].(map[string]any); ok {
			switch reasoning["effort"] {
			case "low":
				reasoning["effort"] = "medium"
				changed = true
			case "medium":
				delete(body, "reasoning")
				changed = true
			default:
				delete(body, "reasoning")
				changed = true
			}
		}
	}

	return changed
}

// tryChat posts a conversational-completion request with the analogous
// token-limit field for the model family.
func (c *Client) tryChat(ctx context.Context, prompt string, opts genOptions) (json.RawMessage, error) {
	payload := map[string]any{
		"model":    c.model,
		"messages": []map[string]string{{"role": "user", "content": prompt}},
	}
	if strings.HasPrefix(c.model, "gpt-5") {
		payload["max_completion_tokens"] = opts.maxOutputTokens
	} else {
		payload["max_tokens"] = opts.maxOutputTokens
		if opts.temperature != nil {
			payload["temperature"] = *opts.temperature
		}
	}

	status, respBody, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", status, truncateBody(respBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("response has no choices")
	}

	obj, ok := extractJSONObject(parsed.Choices[0].Message.Content)
	if !ok {
		return nil, ErrUnparseable
	}
	return obj, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// extractResponsesText pulls the assembled output text from a responses-
// style payload: the output_text convenience field when present, else the
// concatenated message content parts.
func extractResponsesText(body []byte) (string, error) {
	var parsed struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Type    string `json:"type"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if strings.TrimSpace(parsed.OutputText) != "" {
		return strings.TrimSpace(parsed.OutputText), nil
	}

	var parts []string
	for _, item := range parsed.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			parts = append(parts, c.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

// extractJSONObject finds the first well-formed JSON object in free text.
func extractJSONObject(text string) (json.RawMessage, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var obj map[string]json.RawMessage
		if err := dec.Decode(&obj); err == nil {
			raw := json.RawMessage(text[i : i+int(dec.InputOffset())])
			return raw, true
		}
	}
	return nil, false
}

func truncateBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
