package console

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/seo-meta-service/internal/domain"
)

func sampleResponse() *domain.SeoResponse {
	return &domain.SeoResponse{
		Option1: domain.MetaOption{
			Type:                  "Marketing/Campaign Focused",
			MetaTitle:             "Spring Espresso Sale",
			MetaTitleLength:       20,
			MetaDescription:       "Save on every machine this week.",
			MetaDescriptionLength: 32,
		},
		Option2: domain.MetaOption{
			Type:                  "SEO Best Practices",
			MetaTitle:             "Espresso Machines",
			MetaTitleLength:       61,
			MetaDescription:       "Compare espresso machines.",
			MetaDescriptionLength: 150,
		},
	}
}

func TestRenderResult(t *testing.T) {
	out := RenderResult(sampleResponse(), []string{"https://shop.example.com/"})

	for _, want := range []string{
		"Option 1 · Marketing/Campaign Focused",
		"Option 2 · SEO Best Practices",
		"Spring Espresso Sale",
		"Save on every machine this week.",
		"20 / 60",
		"32 / 155",
		"61 / 60",
		"150 / 155",
		"Sources",
		"https://shop.example.com/",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderResultWithoutSources(t *testing.T) {
	out := RenderResult(sampleResponse(), nil)
	assert.NotContains(t, out, "Sources")
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, colorOK, statusColor(domain.GradeLength(20, 60)))
	assert.Equal(t, colorNear, statusColor(domain.GradeLength(50, 60)))
	assert.Equal(t, colorOver, statusColor(domain.GradeLength(61, 60)))
}

func TestRenderError(t *testing.T) {
	assert.Contains(t, RenderError("No response received from Gemini."), "Error: No response received from Gemini.")
}

func TestCopy(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	resp := sampleResponse()
	want := map[string]string{
		"title1":       "Spring Espresso Sale",
		"description1": "Save on every machine this week.",
		"title2":       "Espresso Machines",
		"description2": "Compare espresso machines.",
	}
	for _, key := range CopyKeys {
		text, err := Copy(resp, key)
		require.NoError(t, err)
		assert.Equal(t, want[key], text)
		assert.Equal(t, want[key], copied)
	}

	_, err := Copy(resp, "title3")
	assert.Error(t, err)
}

func TestCopyClipboardFailure(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard utility") }
	t.Cleanup(func() { writeClipboard = orig })

	_, err := Copy(sampleResponse(), "title1")
	assert.ErrorContains(t, err, "no clipboard utility")
}

func TestWatchReturnsTerminalState(t *testing.T) {
	states := make(chan domain.RequestState, 3)
	states <- domain.IdleState()
	states <- domain.LoadingState(1, "run")
	states <- domain.SuccessState(1, "run", sampleResponse(), nil)

	var buf bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := Watch(ctx, states, &buf)
	require.NoError(t, err)
	assert.Equal(t, domain.StateSuccess, got.Kind)
	assert.Equal(t, uint64(1), got.Seq)
}

func TestWatchStreamClosed(t *testing.T) {
	states := make(chan domain.RequestState, 1)
	states <- domain.LoadingState(1, "run")
	close(states)

	_, err := Watch(context.Background(), states, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestWatchContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Watch(ctx, make(chan domain.RequestState), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
