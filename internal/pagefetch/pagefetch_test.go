package pagefetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/seo-meta-service/internal/monitoring"
)

const samplePage = `<!DOCTYPE html>
<html lang="en-GB">
<head>
  <title>  Artisan Coffee
     Roasters </title>
  <meta name="Description" content="Small-batch beans roasted daily.">
  <meta property="og:title" content="OG title">
  <link rel="canonical" href="/coffee">
  <style>body { color: red; }</style>
</head>
<body>
  <h1>Our Coffee</h1>
  <p>Roasted   every morning.</p>
  <h2>Espresso</h2>
  <h3> </h3>
  <script>var tracking = true;</script>
</body>
</html>`

func TestExtract(t *testing.T) {
	snap, err := Extract("https://shop.example.com/coffee?ref=x", strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/coffee?ref=x", snap.URL)
	assert.Equal(t, "Artisan Coffee Roasters", snap.Title)
	assert.Equal(t, "Small-batch beans roasted daily.", snap.MetaDescription)
	assert.Equal(t, "en-GB", snap.Language)
	assert.Equal(t, "https://shop.example.com/coffee", snap.Canonical)
	assert.Equal(t, []string{"Our Coffee", "Espresso"}, snap.Headings)
	assert.Equal(t, "Our Coffee Roasted every morning. Espresso", snap.Text)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestExtractFallsBackToOpenGraph(t *testing.T) {
	page := `<html><head>
	  <meta property="og:title" content="OG Title">
	  <meta property="og:description" content="OG description">
	</head><body></body></html>`

	snap, err := Extract("https://example.com", strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "OG Title", snap.Title)
	assert.Equal(t, "OG description", snap.MetaDescription)
	assert.Empty(t, snap.Canonical)
	assert.Empty(t, snap.Headings)
}

func TestAgentRotator(t *testing.T) {
	r := NewAgentRotator("a", "b")
	assert.Equal(t, []string{"a", "b", "a"}, []string{r.Next(), r.Next(), r.Next()})
	assert.NotEmpty(t, NewAgentRotator().Next())
}

func TestHTTPFetcher(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	m := monitoring.NewMetrics(prometheus.NewRegistry())
	f := NewHTTPFetcher(5*time.Second, 1<<20, m, zaptest.NewLogger(t))
	snap, err := f.Fetch(context.Background(), srv.URL+"/coffee")
	require.NoError(t, err)

	assert.Equal(t, "Artisan Coffee Roasters", snap.Title)
	assert.Equal(t, srv.URL+"/coffee", snap.Canonical)
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageFetchesTotal.WithLabelValues(ModeHTTP, "ok")))
}

func TestHTTPFetcherErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"not html", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = io.WriteString(w, "%PDF-1.7")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			m := monitoring.NewMetrics(prometheus.NewRegistry())
			f := NewHTTPFetcher(5*time.Second, 1<<20, m, zaptest.NewLogger(t))
			_, err := f.Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.PageFetchesTotal.WithLabelValues(ModeHTTP, "error")))
		})
	}
}

func TestHTTPFetcherTruncatesLargePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><head><title>Big</title></head><body><p>")
		_, _ = io.WriteString(w, strings.Repeat("word ", 10000))
		_, _ = io.WriteString(w, "</p><h1>Unreachable</h1></body></html>")
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, 1024, nil, nil)
	snap, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Big", snap.Title)
	assert.Empty(t, snap.Headings)
	assert.Less(t, len(snap.Text), 1024)
}

func TestNew(t *testing.T) {
	f, err := New(ModeOff, time.Second, 1, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = New(ModeHTTP, time.Second, 1, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPFetcher{}, f)
	assert.NoError(t, f.Close())

	_, err = New("curl", time.Second, 1, nil, nil)
	assert.Error(t, err)
}
