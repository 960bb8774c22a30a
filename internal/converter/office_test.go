package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suiteWritesOutput simulates the document suite dropping <stem>.pdf into
// the --outdir argument.
func suiteWritesOutput(t *testing.T) func(name string, args []string) error {
	t.Helper()
	return func(name string, args []string) error {
		var src, outDir string
		for i, a := range args {
			if a == "--outdir" && i+1 < len(args) {
				outDir = args[i+1]
			}
			if a == "--convert-to" && i+2 < len(args) {
				src = args[i+2]
			}
		}
		require.NotEmpty(t, src)
		require.NotEmpty(t, outDir)
		stem := filepath.Base(src)
		stem = stem[:len(stem)-len(filepath.Ext(stem))]
		return os.WriteFile(filepath.Join(outDir, stem+".pdf"), []byte("%PDF-1.4 suite"), 0o644)
	}
}

func TestOfficeConverter_InvokesSuite(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "report.docx", []byte("docx bytes"))

	exec := &fakeExec{onRun: suiteWritesOutput(t)}
	c := &OfficeConverter{run: &runner{exec: exec}}

	out, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "report.pdf"), out)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{
		"soffice", "--headless", "--convert-to", "pdf", src, "--outdir", destDir,
	}, exec.calls[0])
}

func TestOfficeConverter_RenamesOnCollision(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "report.docx", []byte("docx bytes"))

	// A report.pdf already exists, so the reserved target is report (1).pdf.
	writeSource(t, destDir, "report.pdf", []byte("%PDF-1.4 existing"))

	exec := &fakeExec{onRun: suiteWritesOutput(t)}
	c := &OfficeConverter{run: &runner{exec: exec}}

	out, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "report (1).pdf"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 suite", string(data))
}

func TestOfficeConverter_MissingSuite(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "report.docx", []byte("docx bytes"))

	exec := &fakeExec{missing: map[string]bool{"soffice": true}}
	c := &OfficeConverter{run: &runner{exec: exec}}

	_, err := c.Convert(src, destDir)
	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, "soffice", depErr.Name)
	assert.Empty(t, exec.calls, "suite must not be invoked when absent")
}

func TestOfficeConverter_SuiteNonZeroExit(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "report.docx", []byte("docx bytes"))

	exec := &fakeExec{runErr: &CommandError{
		Command: "soffice --headless", ExitCode: 1, Stderr: "source file could not be loaded",
	}}
	c := &OfficeConverter{run: &runner{exec: exec}}

	_, err := c.Convert(src, destDir)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
}

// nativeStub is a NativeConverter used to verify the preference order.
type nativeStub struct {
	ext  string
	err  error
	used bool
}

func (n *nativeStub) Handles(ext string) bool { return ext == n.ext }

func (n *nativeStub) Convert(src, destDir string) (string, error) {
	n.used = true
	if n.err != nil {
		return "", n.err
	}
	dest := outputTarget(src, destDir)
	return dest, os.WriteFile(dest, []byte("%PDF-1.4 native"), 0o644)
}

func TestOfficeConverter_PrefersNativePath(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "report.docx", []byte("docx bytes"))

	exec := &fakeExec{onRun: suiteWritesOutput(t)}
	native := &nativeStub{ext: ".docx"}
	c := &OfficeConverter{run: &runner{exec: exec}, Native: native}

	out, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.True(t, native.used)
	assert.Empty(t, exec.calls, "suite must not run when the native path succeeds")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 native", string(data))
}

func TestOfficeConverter_NativeFailureFallsBackToSuite(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "report.docx", []byte("docx bytes"))

	exec := &fakeExec{onRun: suiteWritesOutput(t)}
	native := &nativeStub{ext: ".docx", err: errors.New("engine crashed")}
	c := &OfficeConverter{run: &runner{exec: exec}, Native: native}

	out, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.True(t, native.used)
	assert.Len(t, exec.calls, 1)
	assert.Equal(t, filepath.Join(destDir, "report.pdf"), out)
}

func TestODFConverter_RequiresSuite(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "letter.odt", []byte("odt bytes"))

	exec := &fakeExec{missing: map[string]bool{"soffice": true}}
	c := &ODFConverter{run: &runner{exec: exec}}

	_, err := c.Convert(src, destDir)
	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
}

func TestODFConverter_InvokesSuite(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "letter.odt", []byte("odt bytes"))

	exec := &fakeExec{onRun: suiteWritesOutput(t)}
	c := &ODFConverter{run: &runner{exec: exec}}

	out, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "letter.pdf"), out)
}
