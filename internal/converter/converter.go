// Package converter maps source files to PDF conversion routines and
// implements one routine per format family.
package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"codypdf/internal/fsutil"
)

// Format identifies a supported format family. The set is closed: each
// variant carries exactly one conversion capability.
type Format int

const (
	FormatUnsupported Format = iota
	FormatImage
	FormatText
	FormatOffice
	FormatODF
	FormatHTML
	FormatMarkdown
	FormatEML
	FormatPDF
)

// String returns a human-readable name for the format family.
func (f Format) String() string {
	switch f {
	case FormatImage:
		return "image"
	case FormatText:
		return "text"
	case FormatOffice:
		return "office"
	case FormatODF:
		return "open-document"
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	case FormatEML:
		return "email"
	case FormatPDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// extensions maps a lower-case file extension (with dot) to its format family.
var extensions = map[string]Format{
	".png": FormatImage, ".jpg": FormatImage, ".jpeg": FormatImage,
	".bmp": FormatImage, ".gif": FormatImage, ".tif": FormatImage, ".tiff": FormatImage,

	".txt": FormatText, ".log": FormatText, ".csv": FormatText,

	".docx": FormatOffice, ".pptx": FormatOffice, ".xlsx": FormatOffice, ".rtf": FormatOffice,

	".odt": FormatODF, ".odp": FormatODF, ".ods": FormatODF,

	".html": FormatHTML, ".htm": FormatHTML, ".mht": FormatHTML,

	".md": FormatMarkdown, ".markdown": FormatMarkdown,

	".eml": FormatEML,

	".pdf": FormatPDF,
}

// Detect returns the format family for a file path based on its extension,
// case-insensitively. The second result is false for unsupported extensions.
func Detect(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// SupportedExtensions returns the full extension-to-family table, keyed by
// extension without the leading dot.
func SupportedExtensions() map[string]string {
	out := make(map[string]string, len(extensions))
	for ext, f := range extensions {
		out[strings.TrimPrefix(ext, ".")] = f.String()
	}
	return out
}

// Converter transforms one source file into one PDF in destDir and returns
// the output path. Implementations must not overwrite existing files, must
// treat the source as read-only, and must not leave partial output behind
// on failure.
type Converter interface {
	Convert(src, destDir string) (string, error)
}

// DependencyError reports that a required external program or component is
// absent. It is distinguishable from a malformed-input failure so the caller
// can report a clearer message.
type DependencyError struct {
	Name string // the missing program, e.g. "soffice"
	Err  error
}

func (e *DependencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("required program %q is not available: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("required program %q is not available", e.Name)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// ErrUnsupportedFormat is returned by Registry.For for extensions outside
// the supported set.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Registry holds the concrete converter for each format family.
type Registry struct {
	Image    Converter
	Text     Converter
	Office   Converter
	ODF      Converter
	HTML     Converter
	Markdown Converter
	EML      Converter
	PDF      Converter
}

// NewRegistry wires the default converters: gofpdf for images and text, the
// headless document suite for Office/ODF, the given renderer for HTML,
// Markdown and EML, and a byte copy for PDF pass-through.
func NewRegistry(r Renderer) *Registry {
	run := &runner{exec: defaultExec}
	html := &HTMLConverter{renderer: r}
	return &Registry{
		Image:    &ImageConverter{},
		Text:     &TextConverter{},
		Office:   &OfficeConverter{run: run},
		ODF:      &ODFConverter{run: run},
		HTML:     html,
		Markdown: &MarkdownConverter{html: html},
		EML:      &EMLConverter{renderer: r},
		PDF:      &PDFCopier{},
	}
}

// For returns the converter responsible for the given format, or
// ErrUnsupportedFormat when no capability is assigned.
func (r *Registry) For(f Format) (Converter, error) {
	switch f {
	case FormatImage:
		return r.Image, nil
	case FormatText:
		return r.Text, nil
	case FormatOffice:
		return r.Office, nil
	case FormatODF:
		return r.ODF, nil
	case FormatHTML:
		return r.HTML, nil
	case FormatMarkdown:
		return r.Markdown, nil
	case FormatEML:
		return r.EML, nil
	case FormatPDF:
		return r.PDF, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// outputTarget computes the uniquified destination path for a source file:
// destDir/<stem>.pdf, disambiguated on collision.
func outputTarget(src, destDir string) string {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return fsutil.UniquePath(filepath.Join(destDir, stem+".pdf"))
}

// PDFCopier passes an already-PDF source through as a byte copy, uniquified.
type PDFCopier struct{}

// Convert copies the source PDF into destDir under a collision-free name.
func (c *PDFCopier) Convert(src, destDir string) (string, error) {
	dest := fsutil.UniquePath(filepath.Join(destDir, filepath.Base(src)))
	if err := fsutil.CopyFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}
