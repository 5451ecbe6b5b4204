package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/fetch"
)

const postingHTML = `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Senior Software Engineer</h1>
<article>
<h2>Requirements</h2>
<ul>
<li>Go experience</li>
<li>Distributed systems</li>
</ul>
</article>
</main>
<footer>Footer</footer>
</body>
</html>`

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func stubRenderer(t *testing.T, fn func(ctx context.Context, url string, timeout time.Duration, log *zap.Logger) (string, error)) *atomic.Int32 {
	t.Helper()
	calls := &atomic.Int32{}
	prev := renderPage
	renderPage = func(ctx context.Context, url string, timeout time.Duration, log *zap.Logger) (string, error) {
		calls.Add(1)
		return fn(ctx, url, timeout, log)
	}
	t.Cleanup(func() { renderPage = prev })
	return calls
}

func TestIngestFromURL_Success(t *testing.T) {
	server := serveHTML(t, postingHTML)

	text, metadata, err := IngestFromURL(context.Background(), server.URL, URLOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Senior Software Engineer\nRequirements\n- Go experience\n- Distributed systems", text)
	assert.Equal(t, server.URL, metadata.URL)
	assert.Equal(t, FormatHTML, metadata.Format)
	assert.Equal(t, string(fetch.PlatformUnknown), metadata.Platform)
	assert.False(t, metadata.RenderedWithBrowser)
	assert.Equal(t, computeHash(text), metadata.Hash)
}

func TestIngestFromURL_Markdown(t *testing.T) {
	server := serveHTML(t, postingHTML)

	text, metadata, err := IngestFromURL(context.Background(), server.URL, URLOptions{Markdown: true})
	require.NoError(t, err)

	assert.Contains(t, text, "# Senior Software Engineer")
	assert.Contains(t, text, "## Requirements")
	assert.Contains(t, text, "- Go experience\n- Distributed systems")
	assert.NotContains(t, text, "Footer")
	assert.Equal(t, FormatMarkdown, metadata.Format)
}

func TestIngestFromURL_Errors(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no host", "http://"},
		{"not found", notFound.URL},
		{"unreachable", "http://127.0.0.1:1/posting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, metadata, err := IngestFromURL(context.Background(), tt.url, URLOptions{})
			require.Error(t, err)
			assert.Nil(t, metadata)
			assert.ErrorIs(t, err, ErrHTTPRequestFailed)

			var fetchErr *fetch.Error
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}

func TestIngestFromURL_BrowserFallback(t *testing.T) {
	server := serveHTML(t, `<html><body><div id="root">Loading...</div></body></html>`)
	rendered := "<html><body><main><p>" + strings.Repeat("Kubernetes operators in Go. ", 30) + "</p></main></body></html>"

	t.Run("disabled", func(t *testing.T) {
		calls := stubRenderer(t, func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
			return rendered, nil
		})
		text, metadata, err := IngestFromURL(context.Background(), server.URL, URLOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Loading...", text)
		assert.False(t, metadata.RenderedWithBrowser)
		assert.Zero(t, calls.Load())
	})

	t.Run("short content is rendered", func(t *testing.T) {
		calls := stubRenderer(t, func(_ context.Context, url string, timeout time.Duration, _ *zap.Logger) (string, error) {
			assert.Equal(t, server.URL, url)
			assert.Equal(t, 5*time.Second, timeout)
			return rendered, nil
		})
		text, metadata, err := IngestFromURL(context.Background(), server.URL, URLOptions{UseBrowser: true, BrowserTimeout: 5 * time.Second})
		require.NoError(t, err)
		assert.Contains(t, text, "Kubernetes operators in Go.")
		assert.True(t, metadata.RenderedWithBrowser)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("render failure keeps HTTP text", func(t *testing.T) {
		stubRenderer(t, func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
			return "", errors.New("chrome not installed")
		})
		text, metadata, err := IngestFromURL(context.Background(), server.URL, URLOptions{UseBrowser: true})
		require.NoError(t, err)
		assert.Equal(t, "Loading...", text)
		assert.False(t, metadata.RenderedWithBrowser)
	})

	t.Run("long content skips browser", func(t *testing.T) {
		calls := stubRenderer(t, func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
			return rendered, nil
		})
		long := serveHTML(t, rendered)
		_, metadata, err := IngestFromURL(context.Background(), long.URL, URLOptions{UseBrowser: true})
		require.NoError(t, err)
		assert.False(t, metadata.RenderedWithBrowser)
		assert.Zero(t, calls.Load())
	})
}

func TestIngestURLs(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte("<html><body><main><p>Posting " + strings.TrimPrefix(r.URL.Path, "/") + "</p></main></body></html>"))
	}))
	defer server.Close()

	urls := []string{server.URL + "/1", server.URL + "/2", server.URL + "/3", server.URL + "/4"}
	docs, err := IngestURLs(context.Background(), urls, URLOptions{}, 2)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	for i, doc := range docs {
		assert.Equal(t, urls[i], doc.Metadata.URL)
		assert.Equal(t, "Posting "+urls[i][len(server.URL)+1:], doc.Text)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestIngestURLs_FirstErrorWins(t *testing.T) {
	server := serveHTML(t, postingHTML)

	docs, err := IngestURLs(context.Background(), []string{server.URL, "not-a-url"}, URLOptions{}, 0)
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}
