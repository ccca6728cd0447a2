package pagefetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/monitoring"
)

// HTTPFetcher downloads the raw page and parses it without running scripts.
type HTTPFetcher struct {
	client   *http.Client
	agents   *AgentRotator
	maxBytes int64
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64, m *monitoring.Metrics, logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		agents:   NewAgentRotator(),
		maxBytes: maxBytes,
		metrics:  m,
		logger:   logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*domain.PageSnapshot, error) {
	snap, err := f.fetch(ctx, url)
	if err != nil {
		f.metrics.IncPageFetch(ModeHTTP, "error")
		return nil, err
	}
	f.metrics.IncPageFetch(ModeHTTP, "ok")
	return snap, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) (*domain.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.agents.Next())
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && mediaType != "text/html" && mediaType != "application/xhtml+xml" {
			return nil, fmt.Errorf("unsupported content type %q", mediaType)
		}
	}

	// Pages larger than maxBytes are parsed from their head only
	snap, err := Extract(resp.Request.URL.String(), io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	f.logger.Debug("page fetched",
		zap.String("url", url),
		zap.String("title", snap.Title),
		zap.Int("headings", len(snap.Headings)),
	)
	return snap, nil
}

func (f *HTTPFetcher) Close() error { return nil }
