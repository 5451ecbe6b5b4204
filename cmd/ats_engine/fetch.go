package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/fetch"
	"github.com/jonathan/ats-engine/internal/ingestion"
	"github.com/jonathan/ats-engine/internal/observability"
)

type fetchedPosting struct {
	Text     string              `json:"text"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

func newFetchCmd(a *app) *cobra.Command {
	var (
		outDir      string
		useBrowser  bool
		markdown    bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Download job postings and extract their text",
		Long: `Fetch job postings over HTTP and reduce them to clean text using selectors
for the detected job board (Greenhouse, Lever, Workday, Ashby). With --out each
posting is written as posting-NN.txt plus posting-NN.meta.json. --markdown keeps
the posting's headings and bullet lists as markdown.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ingestion.URLOptions{
				Fetch: &fetch.Options{
					Timeout:   a.cfg.Fetch.Timeout,
					UserAgent: a.cfg.Fetch.UserAgent,
				},
				UseBrowser:     useBrowser || a.cfg.Fetch.UseBrowser,
				BrowserTimeout: a.cfg.Fetch.Timeout,
				Markdown:       markdown,
				Logger:         a.log,
			}
			docs, err := ingestion.IngestURLs(cmd.Context(), args, opts, concurrency)
			if err != nil {
				return err
			}

			if outDir != "" {
				for i, d := range docs {
					name := fmt.Sprintf("posting-%02d", i+1)
					if err := ingestion.WriteOutput(outDir, name, d.Text, d.Metadata); err != nil {
						return err
					}
					a.log.Info("wrote posting",
						zap.String("url", d.Metadata.URL),
						zap.String("path", filepath.Join(outDir, name+".txt")),
					)
				}
			}

			postings := make([]fetchedPosting, len(docs))
			for i, d := range docs {
				postings[i] = fetchedPosting{Text: d.Text, Metadata: d.Metadata}
			}
			return a.emit(postings, "", func(p *observability.Printer) {
				for _, d := range postings {
					p.PrintPosting(d.Metadata.URL, d.Metadata.Platform, d.Text)
				}
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write cleaned text and metadata into")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "render short pages in headless Chrome")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "keep headings and lists as markdown")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum concurrent downloads")
	return cmd
}
