package ingestion

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// Format is the document type text was ingested from.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
)

// Metadata describes one ingested document.
type Metadata struct {
	URL                 string `json:"url,omitempty"`
	Path                string `json:"path,omitempty"`
	Format              Format `json:"format"`
	Platform            string `json:"platform,omitempty"`
	RenderedWithBrowser bool   `json:"renderedWithBrowser,omitempty"`
	Timestamp           string `json:"timestamp"` // RFC3339, UTC
	Hash                string `json:"hash"`      // BLAKE2b-256 hex of the cleaned text
	Characters          int    `json:"characters"`
}

// NewMetadata creates metadata for cleaned content stamped with the current time.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:        url,
		Format:     FormatText,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(content),
		Characters: utf8.RuneCountInString(content),
	}
}

func computeHash(content string) string {
	sum := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ToJSON marshals Metadata to indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return data, nil
}
