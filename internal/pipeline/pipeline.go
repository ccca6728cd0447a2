// Package pipeline runs one generation: build the prompt, call the model,
// validate the reply.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/generation"
	"github.com/user/seo-meta-service/internal/monitoring"
	"github.com/user/seo-meta-service/internal/parser"
	"github.com/user/seo-meta-service/internal/prompt"
)

// Generator sends a prompt to the model.
type Generator interface {
	Generate(ctx context.Context, prompt string, grounding bool) (generation.Result, error)
}

// PageFetcher reads the live page for a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.PageSnapshot, error)
}

// Outcome is a validated response plus how it was produced.
type Outcome struct {
	Response *domain.SeoResponse `json:"response"`
	Sources  []string            `json:"sources,omitempty"`
	Grounded bool                `json:"grounded"`
}

// Pipeline is safe for concurrent use when its Generator and PageFetcher are.
type Pipeline struct {
	gen     Generator
	fetcher PageFetcher
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// New wires a pipeline. fetcher may be nil to skip page snapshots.
func New(gen Generator, fetcher PageFetcher, m *monitoring.Metrics, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{gen: gen, fetcher: fetcher, metrics: m, logger: logger}
}

// Run performs exactly one provider call. Errors are classified with
// domain.Classify.
func (p *Pipeline) Run(ctx context.Context, in domain.AnalysisInputs) (*Outcome, error) {
	page := p.snapshot(ctx, in)
	pr := prompt.BuildWithPage(in, page)

	log := p.logger.With(
		zap.String("url", in.TrimmedURL()),
		zap.Bool("grounded", pr.UseSearchGrounding),
	)
	log.Info("generating meta tags", zap.Bool("page_snapshot", page != nil))

	p.metrics.GenerationStarted()
	start := time.Now()
	out, err := p.generate(ctx, pr)
	elapsed := time.Since(start)
	p.metrics.GenerationFinished()

	if err != nil {
		kind := domain.Classify(err)
		p.metrics.ObserveGeneration(string(kind), pr.UseSearchGrounding, elapsed)
		log.Warn("generation failed", zap.String("kind", string(kind)), zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, err
	}

	p.metrics.ObserveGeneration("success", pr.UseSearchGrounding, elapsed)
	log.Info("generation succeeded",
		zap.Duration("elapsed", elapsed),
		zap.Int("sources", len(out.Sources)),
		zap.Int("title_1_length", out.Response.Option1.MetaTitleLength),
		zap.Int("title_2_length", out.Response.Option2.MetaTitleLength),
	)
	return out, nil
}

func (p *Pipeline) generate(ctx context.Context, pr prompt.Prompt) (*Outcome, error) {
	res, err := p.gen.Generate(ctx, pr.Text, pr.UseSearchGrounding)
	if err != nil {
		return nil, err
	}
	resp, err := parser.Parse(res.Text)
	if err != nil {
		return nil, err
	}
	return &Outcome{Response: resp, Sources: res.Sources, Grounded: pr.UseSearchGrounding}, nil
}

// snapshot never fails the run; a page that cannot be read is left out.
func (p *Pipeline) snapshot(ctx context.Context, in domain.AnalysisInputs) *domain.PageSnapshot {
	url := in.TrimmedURL()
	if p.fetcher == nil || url == "" {
		return nil
	}
	page, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		p.logger.Warn("page snapshot unavailable, continuing without it", zap.String("url", url), zap.Error(err))
		return nil
	}
	return page
}
