package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// suiteBinary is the headless document-suite executable used for Office and
// open-document conversion.
const suiteBinary = "soffice"

// NativeConverter is an optional in-process document conversion path tried
// before the external suite. None is wired by default.
type NativeConverter interface {
	Convert(src, destDir string) (string, error)
	Handles(ext string) bool
}

// OfficeConverter converts flow-document office formats (docx, pptx, xlsx,
// rtf). A native converter is preferred when one is configured and handles
// the extension; otherwise the document suite is invoked headlessly.
type OfficeConverter struct {
	run    *runner
	Native NativeConverter
}

// Convert produces a PDF for the office document in destDir.
func (c *OfficeConverter) Convert(src, destDir string) (string, error) {
	if c.Native != nil && c.Native.Handles(strings.ToLower(filepath.Ext(src))) {
		if dest, err := c.Native.Convert(src, destDir); err == nil {
			return dest, nil
		}
		// Native path failed; fall through to the suite.
	}
	return suiteConvert(c.run, src, destDir)
}

// ODFConverter converts open-document formats (odt, odp, ods) through the
// document suite. There is no native fallback.
type ODFConverter struct {
	run *runner
}

// Convert produces a PDF for the open document in destDir.
func (c *ODFConverter) Convert(src, destDir string) (string, error) {
	return suiteConvert(c.run, src, destDir)
}

// suiteConvert runs the document suite in headless conversion mode, directing
// output to destDir, then renames the suite's default output name to the
// uniquified target.
func suiteConvert(run *runner, src, destDir string) (string, error) {
	if _, err := run.exec.LookPath(suiteBinary); err != nil {
		return "", &DependencyError{Name: suiteBinary, Err: err}
	}

	dest := outputTarget(src, destDir)

	err := run.exec.Run(suiteBinary,
		"--headless", "--convert-to", "pdf", src, "--outdir", destDir)
	if err != nil {
		return "", fmt.Errorf("document suite conversion failed: %w", err)
	}

	// The suite always writes <stem>.pdf; move it onto the reserved name.
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	produced := filepath.Join(destDir, stem+".pdf")
	if produced != dest {
		if err := os.Rename(produced, dest); err != nil {
			return "", fmt.Errorf("failed to rename suite output: %w", err)
		}
	}
	return dest, nil
}
