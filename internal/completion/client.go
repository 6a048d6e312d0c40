// Package completion builds project-idea prompts and sends them to an
// OpenAI-compatible chat-completion endpoint.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/project-roulette/engine/internal/metrics"
	"github.com/project-roulette/engine/internal/models"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"github.com/project-roulette/engine/pkg/logger"
)

const (
	DefaultEndpoint    = "https://api.groq.com/openai/v1/chat/completions"
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 2500

	// errorBodyLimit caps how much of a failed response is kept in logs.
	errorBodyLimit = 2048
)

// Config is injected at startup; nothing here is read from the environment.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	// Temperature of zero selects DefaultTemperature.
	Temperature float64
	MaxTokens   int
	// HTTPClient defaults to a client with an otelhttp transport and no
	// timeout of its own; callers bound requests with the context.
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Client issues one chat-completion request per Generate call.
type Client struct {
	cfg  Config
	http *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient validates cfg and fills defaults.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, appErr.New(appErr.CodeInvalid, "completion api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, appErr.New(appErr.CodeInvalid, "completion model is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{cfg: cfg, http: hc}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// Generate builds the prompt for params and returns the trimmed text of the
// first completion choice.
func (c *Client) Generate(ctx context.Context, params models.ProjectParameters) (string, error) {
	return c.Complete(ctx, BuildPrompt(params))
}

// Complete sends prompt as the user message after the fixed system message.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.complete(ctx, prompt)
	c.cfg.Metrics.RecordCompletion(c.cfg.Model, err == nil, time.Since(start).Seconds())
	return text, err
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "build completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	logger.L().Info("sending completion request", zap.String("model", c.cfg.Model), zap.Int("prompt_chars", len(prompt)))

	resp, err := c.http.Do(req)
	if err != nil {
		logger.L().Error("completion request failed", zap.Error(err))
		return "", appErr.Wrap(err, appErr.CodeUpstream, "completion request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeUpstream, "read completion response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp, respBody)
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		logger.L().Error("completion response is not json", zap.Error(err))
		return "", appErr.Wrap(err, appErr.CodeBadResponse, "invalid response format from completion endpoint")
	}
	if len(out.Choices) == 0 || out.Choices[0].Message == nil || out.Choices[0].Message.Content == nil {
		logger.L().Error("completion response has no content", zap.Int("choices", len(out.Choices)))
		return "", appErr.New(appErr.CodeBadResponse, "invalid response format from completion endpoint")
	}

	text := strings.TrimSpace(*out.Choices[0].Message.Content)
	logger.L().Info("completion received", zap.String("model", c.cfg.Model), zap.Int("response_chars", len(text)))
	return text, nil
}

// statusError builds the ApiError for a non-2xx answer. It carries the status
// code, the reason phrase and the provider's own message when one is present.
func statusError(resp *http.Response, body []byte) error {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}

	logged := body
	if len(logged) > errorBodyLimit {
		logged = logged[:errorBodyLimit]
	}
	logger.L().Error("completion endpoint error",
		zap.Int("status", resp.StatusCode),
		zap.String("reason", reason),
		zap.ByteString("body", logged),
	)

	e := appErr.New(appErr.CodeUpstream, fmt.Sprintf("failed to generate project idea: %d %s", resp.StatusCode, reason)).
		WithMeta("status", resp.StatusCode).
		WithMeta("reason", reason)

	var pe providerError
	if json.Unmarshal(body, &pe) == nil && pe.Error.Message != "" {
		e.WithMeta("provider_message", pe.Error.Message)
	}
	return e
}
