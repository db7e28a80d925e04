package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/metrics"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 200 * time.Millisecond
)

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client         *openai.Client
	model          openai.EmbeddingModel
	dimensions     int
	user           string
	provider       string
	retryAttempts  int
	retryBaseDelay time.Duration
	logger         *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Dimensions     int
	User           string
	Provider       string
	RetryAttempts  int
	RetryBaseDelay time.Duration
	Logger         *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}

	return &Embedder{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          openai.EmbeddingModel(cfg.Model),
		dimensions:     cfg.Dimensions,
		user:           cfg.User,
		provider:       cfg.Provider,
		retryAttempts:  attempts,
		retryBaseDelay: baseDelay,
		logger:         cfg.Logger,
	}
}

// Embed implements domain.Embedder. Rate-limit responses are retried with
// exponential backoff; a vector search never proceeds with a made-up vector,
// so exhaustion surfaces as an error instead of a zero embedding.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var lastErr error
	for attempt := 1; attempt <= e.retryAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, ctx.Err())
		default:
		}

		result, err := e.embedOnce(ctx, text)
		if err == nil {
			return result, nil
		}
		if !isRateLimited(err) {
			return domain.EmbeddingResult{}, err
		}

		lastErr = err
		if attempt == e.retryAttempts {
			break
		}

		metrics.EmbeddingRetriesTotal.WithLabelValues(e.provider, string(e.model)).Inc()
		delay := e.retryBaseDelay << (attempt - 1)
		e.logger.Warn("Embedding rate limited, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, ctx.Err())
		case <-timer.C:
		}
	}

	return domain.EmbeddingResult{}, fmt.Errorf(
		"%w: rate limited after %d attempts: %w",
		domain.ErrEmbeddingUnavailable, e.retryAttempts, lastErr,
	)
}

func (e *Embedder) embedOnce(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingUnavailable)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, string(e.model)).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, string(e.model), "prompt").Add(float64(promptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, string(e.model), "total").Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// isRateLimited reports whether the error is an HTTP 429 from the provider.
func isRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

// parseAPIError extracts a human-readable error from the API response.
// Rate limiting keeps its own sentinel so the retry loop can see it;
// everything else maps to ErrEmbeddingUnavailable.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := statusSentinel(reqErr.HTTPStatusCode)
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrap := statusSentinel(apiErr.HTTPStatusCode)
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", domain.ErrEmbeddingUnavailable)
}

func statusSentinel(status int) error {
	if status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return domain.ErrEmbeddingUnavailable
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
