package tblfill

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/disintegration/imaging"
)

// Outline colours of the preview.
var (
	previewTable     = color.NRGBA{R: 220, A: 255}
	previewHeader    = color.NRGBA{B: 220, A: 255}
	previewData      = color.NRGBA{G: 170, A: 255}
	previewGenerated = color.NRGBA{R: 255, G: 140, A: 255}
)

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// RenderPreview draws the outlines of the table, header, data and generated boxes of res onto a
// copy of img. Boxes are scaled from normalised coordinates to the image bounds.
func RenderPreview(img image.Image, res *Result) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	thickness := int(math.Max(1, math.Round(float64(bounds.Dx())/600)))

	for _, lb := range res.Labeled() {
		c := previewData
		switch {
		case lb.Generated:
			c = previewGenerated
		case lb.Role == RoleTable:
			c = previewTable
		case lb.Role == RoleHeader:
			c = previewHeader
		}
		drawOutline(out, pixelRect(lb.Box, bounds), thickness, c)
	}

	return out
}

// SavePreview renders the preview of res over the page image at imagePath and writes it to
// outPath, encoded according to its extension. If maxSide > 0 the preview is shrunk to fit a
// maxSide x maxSide square.
func SavePreview(outPath, imagePath string, res *Result, maxSide, jpegQuality int) error {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("cannot load image %q: %w", imagePath, err)
	}

	var preview image.Image = RenderPreview(img, res)
	if b := preview.Bounds(); maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		preview = imaging.Fit(preview, maxSide, maxSide, imaging.Box)
	}

	if err := imaging.Save(preview, outPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("cannot save preview %q: %w", outPath, err)
	}
	return nil
}

// pixelRect converts a normalised box to pixel coordinates within bounds.
func pixelRect(b Box, bounds image.Rectangle) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	r := image.Rect(
		bounds.Min.X+int(math.Round(b.Left()*w)), bounds.Min.Y+int(math.Round(b.Top()*h)),
		bounds.Min.X+int(math.Round(b.Right()*w)), bounds.Min.Y+int(math.Round(b.Bottom()*h)))
	return r.Intersect(bounds)
}

// drawOutline draws the border of r, thickness pixels wide, onto img.
func drawOutline(img *image.NRGBA, r image.Rectangle, thickness int, c color.NRGBA) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, band := range bands {
		draw.Draw(img, band.Intersect(r), src, image.Point{}, draw.Src)
	}
}
