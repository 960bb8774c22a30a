package converter

import (
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Text layout constants, matching the historical output of the tool: A4
// pages, 72 pt margins, 14 pt leading, 95-column word wrap, tabs expanded
// to four spaces.
const (
	textWrapColumns = 95
	textMarginPt    = 72.0
	textLeadingPt   = 14.0
	textFontSizePt  = 12.0
	tabSpaces       = "    "
)

// TextConverter lays plain text out on fixed-size PDF pages. Decoding is
// lenient: bytes that are not valid UTF-8 are dropped rather than raising.
// Empty lines are preserved as a single blank wrapped line.
type TextConverter struct{}

// Convert reads the source as text and writes the paginated PDF to destDir.
func (c *TextConverter) Convert(src, destDir string) (string, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	text := strings.ToValidUTF8(string(raw), "")
	text = strings.ReplaceAll(text, "\t", tabSpaces)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(textMarginPt, textMarginPt, textMarginPt)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", textFontSizePt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	_, pageH := pdf.GetPageSize()
	y := textMarginPt

	for _, line := range strings.Split(text, "\n") {
		for _, seg := range wrapLine(line, textWrapColumns) {
			if y > pageH-textMarginPt {
				pdf.AddPage()
				y = textMarginPt
			}
			pdf.Text(textMarginPt, y, tr(seg))
			y += textLeadingPt
		}
	}

	dest := outputTarget(src, destDir)
	if err := pdf.OutputFileAndClose(dest); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write pdf file: %w", err)
	}
	return dest, nil
}

// wrapLine word-wraps a single line to at most width characters per segment,
// hard-splitting words longer than the width. A line with no printable
// content yields exactly one blank segment, so empty lines keep their
// vertical space.
func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{" "}
	}

	var segs []string
	var cur strings.Builder
	for _, word := range words {
		for len(word) > width {
			if cur.Len() > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}
			segs = append(segs, word[:width])
			word = word[width:]
		}
		switch {
		case cur.Len() == 0:
			cur.WriteString(word)
		case cur.Len()+1+len(word) <= width:
			cur.WriteByte(' ')
			cur.WriteString(word)
		default:
			segs = append(segs, cur.String())
			cur.Reset()
			cur.WriteString(word)
		}
	}
	if cur.Len() > 0 {
		segs = append(segs, cur.String())
	}
	return segs
}
