package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRenderer stands in for the headless browser. It writes a real
// one-page PDF so downstream steps (merge, page counts) see valid input.
type stubRenderer struct {
	unavailable error
	renderErr   error
	rendered    []string // source paths passed to RenderFile
}

func (s *stubRenderer) Available() error {
	return s.unavailable
}

func (s *stubRenderer) RenderFile(_ context.Context, src, dest string) error {
	if s.renderErr != nil {
		return s.renderErr
	}
	s.rendered = append(s.rendered, src)
	return writeOnePagePDF(dest, "rendered: "+filepath.Base(src))
}

// writeOnePagePDF writes a minimal valid single-page PDF.
func writeOnePagePDF(dest, text string) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(72, 72, text)
	return pdf.OutputFileAndClose(dest)
}

// fakeExec is a scriptable executor: it controls LookPath hits and runs a
// callback in place of the real command.
type fakeExec struct {
	missing map[string]bool
	runErr  error
	onRun   func(name string, args []string) error
	calls   [][]string
}

func (f *fakeExec) LookPath(file string) (string, error) {
	if f.missing[file] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExec) Run(name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.runErr != nil {
		return f.runErr
	}
	if f.onRun != nil {
		return f.onRun(name, args)
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"photo.png", FormatImage, true},
		{"photo.JPG", FormatImage, true},
		{"scan.TIFF", FormatImage, true},
		{"notes.txt", FormatText, true},
		{"data.csv", FormatText, true},
		{"server.log", FormatText, true},
		{"report.docx", FormatOffice, true},
		{"deck.PPTX", FormatOffice, true},
		{"sheet.xlsx", FormatOffice, true},
		{"memo.rtf", FormatOffice, true},
		{"letter.odt", FormatODF, true},
		{"slides.odp", FormatODF, true},
		{"calc.ods", FormatODF, true},
		{"page.html", FormatHTML, true},
		{"page.HTM", FormatHTML, true},
		{"saved.mht", FormatHTML, true},
		{"README.md", FormatMarkdown, true},
		{"message.eml", FormatEML, true},
		{"existing.pdf", FormatPDF, true},
		{"archive.zip", FormatUnsupported, false},
		{"binary.exe", FormatUnsupported, false},
		{"noextension", FormatUnsupported, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Detect(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRegistryFor_AllSupportedFormats(t *testing.T) {
	reg := NewRegistry(&stubRenderer{})

	for _, f := range []Format{
		FormatImage, FormatText, FormatOffice, FormatODF,
		FormatHTML, FormatMarkdown, FormatEML, FormatPDF,
	} {
		conv, err := reg.For(f)
		require.NoError(t, err, "format %s", f)
		assert.NotNil(t, conv, "format %s", f)
	}
}

func TestRegistryFor_Unsupported(t *testing.T) {
	reg := NewRegistry(&stubRenderer{})

	_, err := reg.For(FormatUnsupported)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPDFCopier_UniquifiesDestination(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := filepath.Join(srcDir, "doc.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 original"), 0o644))

	c := &PDFCopier{}

	first, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "doc.pdf"), first)

	second, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "doc (1).pdf"), second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 original", string(data))
}

func TestDependencyError_DistinguishableFromOtherFailures(t *testing.T) {
	err := fmt.Errorf("conversion failed: %w", &DependencyError{Name: "soffice"})

	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, "soffice", depErr.Name)
}

func TestCommandError_QuotesCommandAndExitCode(t *testing.T) {
	err := &CommandError{
		Command:  "soffice --headless --convert-to pdf x.docx",
		ExitCode: 77,
		Stderr:   "no disk space",
	}

	assert.Contains(t, err.Error(), `"soffice --headless --convert-to pdf x.docx"`)
	assert.Contains(t, err.Error(), "77")
	assert.Contains(t, err.Error(), "no disk space")
}
