package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"codypdf/internal/fsutil"
)

// mergeProduced concatenates the produced PDFs, in processing order, into a
// new timestamped file in the directory of the first produced PDF.
func mergeProduced(produced []string) (string, error) {
	dir := filepath.Dir(produced[0])
	name := fmt.Sprintf("merged_%s.pdf", time.Now().Format("20060102_150405"))
	dest := fsutil.UniquePath(filepath.Join(dir, name))

	// A single produced PDF merges to a plain copy.
	if len(produced) == 1 {
		if err := fsutil.CopyFile(produced[0], dest); err != nil {
			return "", err
		}
		return dest, nil
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.MergeCreateFile(produced, dest, false, conf); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to merge PDFs: %w", err)
	}
	return dest, nil
}
