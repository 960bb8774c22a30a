package converter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// MarkdownConverter renders Markdown to HTML and delegates to the HTML
// converter through a temporary sibling file in the destination directory.
// The temporary file is removed regardless of outcome.
type MarkdownConverter struct {
	html *HTMLConverter
}

// NewMarkdownConverter returns a Markdown converter delegating to html.
func NewMarkdownConverter(html *HTMLConverter) *MarkdownConverter {
	return &MarkdownConverter{html: html}
}

// Convert renders the Markdown source to destDir/<stem>.pdf.
func (c *MarkdownConverter) Convert(src, destDir string) (string, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}
	// Lenient decoding, same policy as the text converter.
	raw = []byte(strings.ToValidUTF8(string(raw), ""))

	var body bytes.Buffer
	if err := goldmark.Convert(raw, &body); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	tmp := filepath.Join(destDir, "_"+stem+".html")
	if err := os.WriteFile(tmp, body.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write intermediate html: %w", err)
	}
	defer os.Remove(tmp)

	return c.html.convertAs(tmp, destDir, stem)
}
