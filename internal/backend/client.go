// Package backend talks to the search engine over its JSON query DSL.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/domain/search/result"
)

// Config configures the backend client.
type Config struct {
	BaseURL  string
	Analyzer string
	Timeout  time.Duration
}

const defaultTimeout = 5 * time.Second

// Client executes search, analyze, and health requests against the engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	analyzer   string
	logger     *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend: base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		analyzer:   cfg.Analyzer,
		logger:     logger,
	}, nil
}

// Response is the engine's answer to a search request.
type Response struct {
	Took         int
	Total        int64
	Hits         []result.Hit
	Aggregations result.Aggregations
}

// Search executes a query DSL body against an index.
func (c *Client) Search(ctx context.Context, index string, body map[string]any) (Response, error) {
	var raw searchResponseBody
	if err := c.post(ctx, "/"+index+"/_search", body, &raw); err != nil {
		return Response{}, err
	}

	hits := make([]result.Hit, 0, len(raw.Hits.Hits))
	for _, h := range raw.Hits.Hits {
		hits = append(hits, result.New(h.ID, h.Score, h.Source))
	}

	aggs := make(result.Aggregations, len(raw.Aggregations))
	for name, agg := range raw.Aggregations {
		buckets := make([]result.Bucket, 0, len(agg.Buckets))
		for _, b := range agg.Buckets {
			buckets = append(buckets, result.Bucket{Key: b.Key, DocCount: b.DocCount})
		}
		aggs[name] = buckets
	}

	return Response{
		Took:         raw.Took,
		Total:        raw.Hits.Total.Value,
		Hits:         hits,
		Aggregations: aggs,
	}, nil
}

// Analyze tokenizes text with the index's configured analyzer.
// The tokens feed morpheme-level dictionary matching.
func (c *Client) Analyze(ctx context.Context, index, text string) ([]string, error) {
	body := map[string]any{"text": text}
	if c.analyzer != "" {
		body["analyzer"] = c.analyzer
	}

	var raw analyzeResponseBody
	if err := c.post(ctx, "/"+index+"/_analyze", body, &raw); err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(raw.Tokens))
	for _, t := range raw.Tokens {
		if t.Token != "" {
			tokens = append(tokens, t.Token)
		}
	}
	return tokens, nil
}

// Ping verifies the engine answers on its root endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("backend: build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: ping status %d", domain.ErrRetrievalUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("backend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrRetrievalUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Backend request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)),
		)
		return fmt.Errorf("%w: status %d", domain.ErrRetrievalUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrRetrievalUnavailable, err)
	}
	return nil
}

// mapTransportError distinguishes deadline expiry from other transport
// failures so callers can surface 504 versus 503.
func (c *Client) mapTransportError(err error) error {
	var uerr *url.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &uerr) && uerr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrRetrievalTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

type searchResponseBody struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string         `json:"_id"`
			Score  float64        `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int64  `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

type analyzeResponseBody struct {
	Tokens []struct {
		Token string `json:"token"`
	} `json:"tokens"`
}
