package converter

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNGWithAlpha(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: uint8(x * 6)})
		}
	}
	path := filepath.Join(dir, "alpha.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func writePalettedGIF(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 20, 20),
		[]color.Color{color.White, color.Black, color.RGBA{R: 255, A: 255}})
	for i := 0; i < 20; i++ {
		img.SetColorIndex(i, i, 1)
	}
	path := filepath.Join(dir, "pal.gif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.Encode(f, img, nil))
	require.NoError(t, f.Close())
	return path
}

func TestImageConverter_AlphaPNG(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writePNGWithAlpha(t, srcDir)

	c := &ImageConverter{}
	out, err := c.Convert(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "alpha.pdf"), out)

	pages, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestImageConverter_PalettedGIF(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writePalettedGIF(t, srcDir)

	c := &ImageConverter{}
	out, err := c.Convert(src, destDir)
	require.NoError(t, err)

	pages, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestImageConverter_MalformedInput(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeSource(t, srcDir, "broken.png", []byte("not an image"))

	c := &ImageConverter{}
	_, err := c.Convert(src, destDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")

	// No partial output may be left behind.
	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFlatten_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{A: 0}) // fully transparent pixel

	flat := flatten(img)
	assert.True(t, flat.Opaque(), "flattened image must be fully opaque")

	// Transparent source pixel lands on the white background.
	r, g, b, _ := flat.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}
