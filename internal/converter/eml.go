package converter

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/jung-kurt/gofpdf"
)

// EMLConverter converts an email message into a PDF. When a browser renderer
// is available the message is rebuilt as a complete HTML document and
// rendered with it; otherwise a basic text layout is produced directly.
type EMLConverter struct {
	renderer Renderer
}

// NewEMLConverter returns an email converter backed by the given renderer.
func NewEMLConverter(r Renderer) *EMLConverter {
	return &EMLConverter{renderer: r}
}

// Convert parses the EML source and writes a PDF to destDir.
func (c *EMLConverter) Convert(src, destDir string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open eml file: %w", err)
	}
	defer f.Close()

	envelope, err := enmime.ReadEnvelope(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse eml content: %w", err)
	}

	dest := outputTarget(src, destDir)

	if c.renderer != nil && c.renderer.Available() == nil {
		if err := c.renderDocument(envelope, dest); err == nil {
			return dest, nil
		}
		// Rich rendering failed; fall back to the basic layout.
	}

	if err := writeBasicPDF(envelope, dest); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// renderDocument rebuilds the message as a standalone HTML document in a
// temporary file and prints it with the renderer.
func (c *EMLConverter) renderDocument(envelope *enmime.Envelope, dest string) error {
	tmpDir, err := os.MkdirTemp("", "codypdf-eml")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpHTML := filepath.Join(tmpDir, "message.html")
	if err := os.WriteFile(tmpHTML, []byte(buildDocumentHTML(envelope)), 0o644); err != nil {
		return fmt.Errorf("failed to write temp HTML file: %w", err)
	}

	if err := c.renderer.RenderFile(context.Background(), tmpHTML, dest); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// buildDocumentHTML creates a well-formed HTML document from the message
// parts: a header block, the body, and an attachment listing.
func buildDocumentHTML(envelope *enmime.Envelope) string {
	var b bytes.Buffer

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>" + html.EscapeString(envelope.GetHeader("Subject")) + "</title>\n")
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: Arial, sans-serif; margin: 20px; }\n")
	b.WriteString(".mail-header { margin-bottom: 20px; border-bottom: 1px solid #ccc; padding-bottom: 10px; }\n")
	b.WriteString(".header-row { margin: 5px 0; }\n")
	b.WriteString(".header-label { font-weight: bold; width: 60px; display: inline-block; }\n")
	b.WriteString(".mail-body { margin-top: 20px; }\n")
	b.WriteString(".attachments { margin-top: 30px; border-top: 1px solid #eee; padding-top: 10px; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")

	b.WriteString("<div class=\"mail-header\">\n")
	writeHeaderRow(&b, "From", envelope.GetHeader("From"))
	writeHeaderRow(&b, "To", envelope.GetHeader("To"))
	if cc := envelope.GetHeader("Cc"); cc != "" {
		writeHeaderRow(&b, "Cc", cc)
	}
	writeHeaderRow(&b, "Subject", envelope.GetHeader("Subject"))
	writeHeaderRow(&b, "Date", formatMailDate(envelope.GetHeader("Date")))
	b.WriteString("</div>\n")

	b.WriteString("<div class=\"mail-body\">\n")
	if envelope.HTML != "" {
		b.WriteString(envelope.HTML)
	} else if envelope.Text != "" {
		for _, line := range strings.Split(envelope.Text, "\n") {
			if line == "" {
				b.WriteString("<br>\n")
			} else {
				b.WriteString(html.EscapeString(line) + "<br>\n")
			}
		}
	}
	b.WriteString("</div>\n")

	if len(envelope.Attachments) > 0 {
		b.WriteString("<div class=\"attachments\">\n")
		fmt.Fprintf(&b, "<h3>Attachments (%d)</h3>\n<ul>\n", len(envelope.Attachments))
		for _, att := range envelope.Attachments {
			fmt.Fprintf(&b, "<li>%s (%s)</li>\n",
				html.EscapeString(att.FileName), formatByteSize(int64(len(att.Content))))
		}
		b.WriteString("</ul>\n</div>\n")
	}

	b.WriteString("</body>\n</html>")
	return b.String()
}

// writeHeaderRow appends one labelled header line to the HTML buffer.
func writeHeaderRow(b *bytes.Buffer, label, value string) {
	fmt.Fprintf(b, "<div class=\"header-row\"><span class=\"header-label\">%s</span> %s</div>\n",
		label, html.EscapeString(value))
}

// writeBasicPDF lays the message out with gofpdf: header block, divider,
// body text, attachment listing.
func writeBasicPDF(envelope *enmime.Envelope, dest string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func(label, value string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, label+":")
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 10, tr(value))
		pdf.Ln(10)
	}

	header("From", envelope.GetHeader("From"))
	header("To", envelope.GetHeader("To"))
	if cc := envelope.GetHeader("Cc"); cc != "" {
		header("Cc", cc)
	}
	header("Subject", envelope.GetHeader("Subject"))
	header("Date", formatMailDate(envelope.GetHeader("Date")))

	pdf.Line(10, pdf.GetY()+5, 200, pdf.GetY()+5)
	pdf.SetY(pdf.GetY() + 10)

	pdf.SetFont("Arial", "", 11)
	body := envelope.Text
	if body == "" && envelope.HTML != "" {
		body = stripTags(envelope.HTML)
	}
	pdf.MultiCell(0, 5, tr(body), "", "", false)

	if len(envelope.Attachments) > 0 {
		pdf.Ln(10)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 10, fmt.Sprintf("Attachments (%d):", len(envelope.Attachments)))
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 10)
		for _, att := range envelope.Attachments {
			pdf.Cell(0, 5, tr(fmt.Sprintf("- %s (%s)",
				att.FileName, formatByteSize(int64(len(att.Content))))))
			pdf.Ln(5)
		}
	}

	if err := pdf.OutputFileAndClose(dest); err != nil {
		return fmt.Errorf("failed to write pdf file: %w", err)
	}
	return nil
}

// stripTags reduces an HTML body to plain text: block-element ends become
// line breaks, common entities are decoded, all remaining tags are dropped.
func stripTags(markup string) string {
	for _, tag := range []string{"</p>", "</div>", "</h1>", "</h2>", "</h3>", "</li>", "</tr>"} {
		markup = strings.ReplaceAll(markup, tag, tag+"\n")
	}
	for entity, repl := range map[string]string{
		"<br>": "\n", "<br/>": "\n", "<br />": "\n",
		"&nbsp;": " ", "&lt;": "<", "&gt;": ">", "&amp;": "&",
		"&quot;": "\"", "&#39;": "'",
	} {
		markup = strings.ReplaceAll(markup, entity, repl)
	}

	var out strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}

	var lines []string
	for _, line := range strings.Split(out.String(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

// formatMailDate normalizes an RFC 1123 date header, returning the original
// value when it does not parse.
func formatMailDate(date string) string {
	if t, err := time.Parse(time.RFC1123Z, date); err == nil {
		return t.Format("Mon, 02 Jan 2006 15:04:05 -0700")
	}
	return date
}

// formatByteSize returns a human-readable byte string.
func formatByteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
