package ingestion

import (
	"html"
	"regexp"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxBreak        = regexp.MustCompile(`<w:(?:br|cr)(?:\s[^>]*)?/>`)
	docxTab          = regexp.MustCompile(`<w:tab(?:\s[^>]*)?/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// readDOCX returns the body text of a Word document, one paragraph per line.
func readDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()
	return docxXMLToText(r.Editable().GetContent()), nil
}

func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxBreak.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
