package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"

	// Raster formats accepted by the image converter. PNG decoding is
	// registered by the image/png import above.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageConverter embeds a raster image as a single PDF page sized to the
// image. Alpha channels and palette color modes are flattened onto a white
// background before embedding, so the output carries no transparency.
type ImageConverter struct{}

// Convert decodes the source image and writes a one-page PDF to destDir.
func (c *ImageConverter) Convert(src, destDir string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", src, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(img)); err != nil {
		return "", fmt.Errorf("failed to re-encode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, &buf)
	pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")

	dest := outputTarget(src, destDir)
	if err := pdf.OutputFileAndClose(dest); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write pdf file: %w", err)
	}
	return dest, nil
}

// flatten draws the image over a white background into an opaque RGB buffer,
// discarding any alpha channel or palette.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Over)
	return flat
}
