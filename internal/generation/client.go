package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/user/seo-meta-service/internal/domain"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-3-flash-preview"

// Config holds what the client needs to reach the provider.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the Gemini endpoint, mainly for tests
	// HTTPClient is optional; the SDK default is used when nil.
	HTTPClient *http.Client
}

// Result is the raw model text plus any web sources the provider cited.
type Result struct {
	Text    string
	Sources []string
}

// Client sends one prompt per call to Gemini.
type Client struct {
	genai  *genai.Client
	model  string
	logger *zap.Logger
}

// New builds a client. A missing API key is not an error here: every
// Generate call then fails with domain.ErrConfiguration.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	c := &Client{model: model, logger: logger}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		logger.Warn("no Gemini API key configured; generation requests will fail")
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.genai = gc
	return c, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate sends prompt and returns the model's text. Grounding attaches the
// Google Search tool. The response is always requested as JSON.
func (c *Client) Generate(ctx context.Context, prompt string, useSearchGrounding bool) (Result, error) {
	if c.genai == nil {
		return Result{}, fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrConfiguration)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if useSearchGrounding {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		c.logger.Warn("gemini request failed",
			zap.String("model", c.model),
			zap.Bool("grounded", useSearchGrounding),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return Result{}, classify(err)
	}

	if resp == nil {
		return Result{}, domain.ErrEmptyResponse
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return Result{}, fmt.Errorf("%w: Gemini blocked the prompt (%s)", domain.ErrTransport, fb.BlockReason)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Result{}, domain.ErrEmptyResponse
	}

	sources := groundingSources(resp)
	c.logger.Debug("gemini response received",
		zap.String("model", c.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("chars", len(text)),
		zap.Int("sources", len(sources)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Result{Text: text, Sources: sources}, nil
}

// groundingSources collects the distinct web URIs cited by the first candidate.
func groundingSources(resp *genai.GenerateContentResponse) []string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var sources []string
	seen := make(map[string]struct{})
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if _, ok := seen[chunk.Web.URI]; ok {
			continue
		}
		seen[chunk.Web.URI] = struct{}{}
		sources = append(sources, chunk.Web.URI)
	}
	return sources
}

// classify maps SDK and network failures onto the domain taxonomy.
func classify(err error) error {
	var apiErr genai.APIError
	if ptr := (*genai.APIError)(nil); errors.As(err, &ptr) && ptr != nil {
		apiErr = *ptr
	} else if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: request to Gemini was interrupted: %v", domain.ErrTransport, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	msg := strings.TrimSpace(apiErr.Message)
	if msg == "" {
		msg = http.StatusText(apiErr.Code)
	}
	switch {
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: Gemini rejected the API key (%d): %s", domain.ErrConfiguration, apiErr.Code, msg)
	case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "api key"):
		return fmt.Errorf("%w: Gemini rejected the API key: %s", domain.ErrConfiguration, msg)
	default:
		return fmt.Errorf("%w: Gemini returned %d: %s", domain.ErrTransport, apiErr.Code, msg)
	}
}
