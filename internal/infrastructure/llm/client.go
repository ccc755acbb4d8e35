package llm

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
	"time"

	"github.com/cenkalti/backoff/v4"

	"SportsFeed/internal/config"
	"SportsFeed/internal/domain"
	"SportsFeed/internal/infrastructure/metrics"
	"SportsFeed/internal/ports"
)

var (
	// ErrMisconfigured means endpoint, model or API key is missing.
	ErrMisconfigured = errors.New("llm client misconfigured")
	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("llm returned no text")
)

// Client implements ports.Enricher against an OpenAI-compatible chat
// completions endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	language   string
	retry      config.RetryConfig
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Enricher = (*Client)(nil)

// NewClient builds a client from configuration. A nil httpClient gets one
// with the configured timeout.
func NewClient(cfg config.LLMConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = config.DefaultLanguage
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		language:   language,
		retry:      cfg.Retry,
		httpClient: httpClient,
		logger:     logger.With("component", "llm"),
	}
}

// Rewrite asks for a fresh title, a two sentence summary and an HTML article.
func (c *Client) Rewrite(ctx context.Context, title, content string) (domain.Rewrite, error) {
	prompt := fmt.Sprintf(`Role: professional sports journalist.
Task: rewrite the following news into a unique, professional article in %s.
Source: %q

Requirements:
1. title: catchy, SEO friendly title.
2. summary: two sentence summary.
3. fullArticle: a long, engaging article of at least three paragraphs with analysis, formatted with <p>, <b> and <br> tags.

Respond with JSON only: {"title": "...", "summary": "...", "fullArticle": "..."}`,
		c.language, title+" - "+content)

	text, err := c.complete(ctx, prompt, true)
	if err != nil {
		return domain.Rewrite{}, err
	}

	var out domain.Rewrite
	if err := json.Unmarshal([]byte(stripFence(text)), &out); err != nil {
		return domain.Rewrite{}, fmt.Errorf("decode rewrite: %w", err)
	}
	if strings.TrimSpace(out.Title) == "" || strings.TrimSpace(out.Summary) == "" {
		return domain.Rewrite{}, fmt.Errorf("decode rewrite: %w", ErrEmptyResponse)
	}
	return out, nil
}

// AnalyzeMatch returns a short commentary on a fixture or result.
func (c *Client) AnalyzeMatch(ctx context.Context, score domain.ScoreItem) (string, error) {
	prompt := fmt.Sprintf(`Analyze this match result or fixture in %s:
Match: %s vs %s
Score: %d - %d
Status: %s
Context: %s

Provide a short, exciting commentary (max 100 words) about what this result means or what to expect.`,
		c.language, score.HomeTeam, score.AwayTeam, score.HomeScore, score.AwayScore, score.Status, score.RawDescription)

	return c.complete(ctx, prompt, false)
}

// Report writes a status summary of the stored collection.
func (c *Client) Report(ctx context.Context, stats domain.StoreStats) (string, error) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	prompt := fmt.Sprintf("Generate a professional status report summary for a sports news website based on these stats: %s. Write in %s.",
		payload, c.language)

	return c.complete(ctx, prompt, false)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", ErrMisconfigured
	}

	req := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if jsonMode {
		req.ResponseFormat = map[string]string{"type": "json_object"}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	started := time.Now()
	defer func() { metrics.EnrichmentDuration.Observe(time.Since(started).Seconds()) }()

	var text string
	op := func() error {
		var opErr error
		text, opErr = c.post(ctx, body)
		return opErr
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("chat completion failed, retrying", "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, c.retryPolicy(ctx), notify); err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.retry.InitialInterval > 0 {
		exp.InitialInterval = c.retry.InitialInterval
	}
	if c.retry.MaxInterval > 0 {
		exp.MaxInterval = c.retry.MaxInterval
	}
	retries := c.retry.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := fmt.Errorf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", statusErr
		}
		return "", backoff.Permanent(statusErr)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode chat response: %w", err))
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", backoff.Permanent(ErrEmptyResponse)
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

// stripFence removes a ```json fence some models wrap around JSON output.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
