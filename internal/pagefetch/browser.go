package pagefetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/monitoring"
)

// BrowserFetcher renders the page in headless Chrome so client-side
// rendered titles and headings are visible.
type BrowserFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	metrics     *monitoring.Metrics
	logger      *zap.Logger
}

// NewBrowserFetcher starts no browser yet. Each Fetch launches Chrome from
// the shared allocator and closes it when done.
func NewBrowserFetcher(timeout time.Duration, m *monitoring.Metrics, logger *zap.Logger) *BrowserFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(NewAgentRotator().Next()),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserFetcher{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     timeout,
		metrics:     m,
		logger:      logger,
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*domain.PageSnapshot, error) {
	snap, err := f.fetch(ctx, url)
	if err != nil {
		f.metrics.IncPageFetch(ModeBrowser, "error")
		return nil, err
	}
	f.metrics.IncPageFetch(ModeBrowser, "ok")
	return snap, nil
}

func (f *BrowserFetcher) fetch(ctx context.Context, url string) (*domain.PageSnapshot, error) {
	taskCtx, cancel := chromedp.NewContext(f.allocCtx, chromedp.WithLogf(f.logger.Sugar().Debugf))
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	// Tie the tab to the caller's context as well as the browser's
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	snap, err := Extract(url, strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	f.logger.Debug("page rendered", zap.String("url", url), zap.String("title", snap.Title))
	return snap, nil
}

// Close releases the allocator.
func (f *BrowserFetcher) Close() error {
	f.allocCancel()
	return nil
}
