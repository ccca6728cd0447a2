// Package pagefetch reads the live page behind a submitted URL so its
// current title, description and headings can be shown to the model.
package pagefetch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/monitoring"
)

// Fetch modes, matching PAGE_FETCH_MODE.
const (
	ModeOff     = "off"
	ModeHTTP    = "http"
	ModeBrowser = "browser"
)

// Fetcher returns a snapshot of one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*domain.PageSnapshot, error)
	Close() error
}

// New returns the fetcher for mode, or nil when fetching is off.
func New(mode string, timeout time.Duration, maxBytes int64, m *monitoring.Metrics, logger *zap.Logger) (Fetcher, error) {
	switch mode {
	case ModeOff, "":
		return nil, nil
	case ModeHTTP:
		return NewHTTPFetcher(timeout, maxBytes, m, logger), nil
	case ModeBrowser:
		return NewBrowserFetcher(timeout, m, logger), nil
	default:
		return nil, fmt.Errorf("unknown page fetch mode %q", mode)
	}
}
