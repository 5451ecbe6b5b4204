// Package ingestion turns résumé files and job posting pages into cleaned
// plain text for the scorer.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/ats-engine/internal/fetch"
)

// ErrUnsupportedFormat is returned for binary formats that need OCR or a PDF parser.
var ErrUnsupportedFormat = errors.New("unsupported document format")

var (
	innerSpaceRe  = regexp.MustCompile(`\s+`)
	blankLinesRe  = regexp.MustCompile(`\n\n\n+`)
	bulletMarkers = []string{"- ", "* ", "• ", "· "}
)

// CleanText normalizes line endings and whitespace while keeping headings,
// bullets and indentation. At most one blank line separates blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	result := blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Headings lose their indentation.
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + innerSpaceRe.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, m := range bulletMarkers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

// DetectFormat maps a file extension to a Format. Unknown extensions are
// read as plain text.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".docx":
		return FormatDOCX, nil
	case ".pdf", ".doc", ".png", ".jpg", ".jpeg":
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	default:
		return FormatText, nil
	}
}

// IngestFromFile reads a .txt, .md, .html or .docx file and returns its
// cleaned text with metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return "", nil, err
	}

	var raw string
	switch format {
	case FormatDOCX:
		raw, err = readDOCX(path)
	default:
		var data []byte
		data, err = os.ReadFile(path)
		raw = string(data)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	if format == FormatHTML {
		raw, err = fetch.ExtractMainText(raw, fetch.JobPostingSelectors(), fetch.PlatformNoiseSelectors(fetch.PlatformUnknown)...)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	cleaned := CleanText(raw)
	metadata := NewMetadata(cleaned, "")
	metadata.Path = path
	metadata.Format = format
	return cleaned, metadata, nil
}

// WriteOutput writes <name>.txt and <name>.meta.json into outDir.
func WriteOutput(outDir, name, cleanedText string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, name+".txt")
	if err := os.WriteFile(textPath, []byte(cleanedText), 0o644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(outDir, name+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
