package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/generation"
	"github.com/user/seo-meta-service/internal/monitoring"
)

const validReply = "```json\n" + `{
  "option_1": {"type": "Marketing/Campaign Focused", "meta_title": "Spring Sale on Espresso", "meta_description": "Save big this spring."},
  "option_2": {"type": "SEO Best Practices", "meta_title": "Espresso Machines", "meta_description": "Compare espresso machines."}
}` + "\n```"

type fakeGenerator struct {
	mu       sync.Mutex
	reply    generation.Result
	err      error
	prompts  []string
	grounded []bool
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, grounding bool) (generation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.grounded = append(f.grounded, grounding)
	return f.reply, f.err
}

type fakeFetcher struct {
	page  *domain.PageSnapshot
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.PageSnapshot, error) {
	f.calls++
	return f.page, f.err
}

func TestRunSuccess(t *testing.T) {
	gen := &fakeGenerator{reply: generation.Result{Text: validReply, Sources: []string{"https://shop.example.com/"}}}
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	p := New(gen, nil, m, zaptest.NewLogger(t))

	out, err := p.Run(context.Background(), domain.AnalysisInputs{URL: " https://shop.example.com/espresso "})
	require.NoError(t, err)

	assert.True(t, out.Grounded)
	assert.Equal(t, []string{"https://shop.example.com/"}, out.Sources)
	assert.Equal(t, "Spring Sale on Espresso", out.Response.Option1.MetaTitle)
	assert.Equal(t, 23, out.Response.Option1.MetaTitleLength)
	assert.Equal(t, 17, out.Response.Option2.MetaTitleLength)

	require.Len(t, gen.prompts, 1, "exactly one provider call per run")
	assert.Equal(t, []bool{true}, gen.grounded)
	assert.Contains(t, gen.prompts[0], "https://shop.example.com/espresso")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GenerationsActive))
}

func TestRunWithoutURLIsUngrounded(t *testing.T) {
	gen := &fakeGenerator{reply: generation.Result{Text: validReply}}
	fetcher := &fakeFetcher{page: &domain.PageSnapshot{Title: "x"}}
	p := New(gen, fetcher, nil, zaptest.NewLogger(t))

	out, err := p.Run(context.Background(), domain.AnalysisInputs{TargetPageContent: "A long enough description of the page."})
	require.NoError(t, err)
	assert.False(t, out.Grounded)
	assert.Equal(t, []bool{false}, gen.grounded)
	assert.Zero(t, fetcher.calls, "no URL, nothing to fetch")
}

func TestRunIncludesPageSnapshot(t *testing.T) {
	gen := &fakeGenerator{reply: generation.Result{Text: validReply}}
	fetcher := &fakeFetcher{page: &domain.PageSnapshot{
		Title:           "Old Espresso Title",
		MetaDescription: "Old description.",
		Headings:        []string{"Espresso Machines"},
	}}
	p := New(gen, fetcher, nil, zaptest.NewLogger(t))

	_, err := p.Run(context.Background(), domain.AnalysisInputs{URL: "https://shop.example.com/espresso"})
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Contains(t, gen.prompts[0], "Current Page Metadata")
	assert.Contains(t, gen.prompts[0], "Old Espresso Title")
}

func TestRunSnapshotFailureIsSoft(t *testing.T) {
	gen := &fakeGenerator{reply: generation.Result{Text: validReply}}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	p := New(gen, fetcher, nil, zaptest.NewLogger(t))

	out, err := p.Run(context.Background(), domain.AnalysisInputs{URL: "https://shop.example.com/"})
	require.NoError(t, err)
	assert.NotNil(t, out.Response)
	assert.NotContains(t, gen.prompts[0], "Current Page Metadata")
}

func TestRunMalformedReply(t *testing.T) {
	gen := &fakeGenerator{reply: generation.Result{Text: `{"option_1":{"type":"a","meta_title":"t","meta_description":"d"}}`}}
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	p := New(gen, nil, m, zaptest.NewLogger(t))

	out, err := p.Run(context.Background(), domain.AnalysisInputs{URL: "https://shop.example.com/"})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, domain.KindMalformedResponse, domain.Classify(err))
	assert.Equal(t, "The AI returned a response that could not be interpreted: missing option_2", domain.UserMessage(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("malformed_response")))
}

func TestRunPropagatesProviderErrors(t *testing.T) {
	tests := []struct {
		err  error
		kind domain.ErrorKind
	}{
		{fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrConfiguration), domain.KindConfiguration},
		{domain.ErrEmptyResponse, domain.KindTransport},
		{fmt.Errorf("%w: Gemini returned 503: overloaded", domain.ErrTransport), domain.KindTransport},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			p := New(&fakeGenerator{err: tt.err}, nil, nil, zaptest.NewLogger(t))
			_, err := p.Run(context.Background(), domain.AnalysisInputs{URL: "https://shop.example.com/"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err))
			assert.Equal(t, tt.kind, domain.Classify(err))
		})
	}
}
