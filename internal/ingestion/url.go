package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-engine/internal/fetch"
	"github.com/jonathan/ats-engine/internal/logger"
)

var (
	// ErrHTTPRequestFailed is returned when the posting could not be downloaded.
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when HTML could not be reduced to text.
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// renderPage is swapped out in tests.
var renderPage = fetch.WithBrowser

// URLOptions configures IngestFromURL.
type URLOptions struct {
	Fetch *fetch.Options
	// UseBrowser re-renders pages whose extracted text is shorter than
	// fetch.MinContentLength in headless Chrome.
	UseBrowser     bool
	BrowserTimeout time.Duration
	// Markdown keeps headings and lists as markdown instead of plain lines.
	Markdown bool
	Logger   *zap.Logger
}

func (o URLOptions) extract(html string, contentSelectors, noiseSelectors []string) (string, error) {
	if o.Markdown {
		return fetch.ExtractMarkdown(html, contentSelectors, noiseSelectors...)
	}
	return fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
}

// IngestFromURL downloads a job posting, extracts its main text with the
// selectors for the detected platform and returns the cleaned text.
func IngestFromURL(ctx context.Context, urlStr string, opts URLOptions) (string, *Metadata, error) {
	log := logger.Named(opts.Logger, "ingestion").With(zap.String("url", urlStr))

	platform := fetch.DetectPlatform(urlStr)
	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debug("fetched posting", zap.String("platform", string(platform)), zap.Int("bytes", len(result.HTML)))

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	text, err := opts.extract(result.HTML, contentSelectors, noiseSelectors)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	rendered := false
	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		log.Debug("content too short, rendering in browser", zap.Int("chars", len(text)))
		html, renderErr := renderPage(ctx, urlStr, opts.BrowserTimeout, opts.Logger)
		if renderErr != nil {
			log.Warn("browser rendering failed, keeping HTTP content", zap.Error(renderErr))
		} else if browserText, extractErr := opts.extract(html, contentSelectors, noiseSelectors); extractErr != nil {
			log.Warn("browser content extraction failed", zap.Error(extractErr))
		} else {
			text = browserText
			rendered = true
		}
	}

	cleaned := CleanText(text)
	metadata := NewMetadata(cleaned, urlStr)
	metadata.Format = FormatHTML
	if opts.Markdown {
		metadata.Format = FormatMarkdown
	}
	metadata.Platform = string(platform)
	metadata.RenderedWithBrowser = rendered
	log.Info("ingested posting", zap.Int("chars", metadata.Characters), zap.Bool("browser", rendered))
	return cleaned, metadata, nil
}

// Document is one ingested posting.
type Document struct {
	Text     string
	Metadata *Metadata
}

// IngestURLs ingests several postings with at most limit concurrent fetches.
// Results keep the order of urls. The first failure cancels the rest.
func IngestURLs(ctx context.Context, urls []string, opts URLOptions, limit int) ([]Document, error) {
	docs := make([]Document, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range urls {
		g.Go(func() error {
			text, meta, err := IngestFromURL(ctx, u, opts)
			if err != nil {
				return err
			}
			docs[i] = Document{Text: text, Metadata: meta}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
