package capture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/hazyhaar/revamp/internal/compose"
)

// Fixed geometry for the label banner and the placeholder canvas. Kept
// as data so tests can assert against it without rendering.
var (
	bannerHeight = 40
	bannerFill   = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	bannerText   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	bannerSize   = 24.0

	placeholderSize   = image.Point{X: 1280, Y: 800}
	placeholderFill   = color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	placeholderInk    = color.RGBA{R: 0x6b, G: 0x70, B: 0x80, A: 0xff}
	placeholderLabel  = 32.0
	placeholderDetail = 16.0

	maxDetailRunes = 120
)

// AddBanner returns img with a fixed-height banner composited above it,
// carrying the label centered in white.
func AddBanner(img image.Image, label string) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+bannerHeight))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), bannerHeight),
		image.NewUniform(bannerFill), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, bannerHeight, b.Dx(), bannerHeight+b.Dy()),
		img, b.Min, draw.Src)

	if f, err := compose.Face(bannerSize); err == nil {
		m := f.Metrics()
		textH := (m.Ascent + m.Descent).Ceil()
		compose.DrawCenteredText(out, label, b.Dx()/2, (bannerHeight-textH)/2, bannerText, f)
	}
	return out
}

// Placeholder builds the neutral substitute image used when a
// screenshot cannot be obtained: the label centered on the canvas with
// the error detail underneath, so a reviewer can tell a failed capture
// from a real one without reading logs.
func Placeholder(label, detail string) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, placeholderSize.X, placeholderSize.Y))
	draw.Draw(out, out.Bounds(), image.NewUniform(placeholderFill), image.Point{}, draw.Src)

	cx := placeholderSize.X / 2
	cy := placeholderSize.Y / 2

	if f, err := compose.Face(placeholderLabel); err == nil {
		compose.DrawCenteredText(out, label, cx, cy-40, placeholderInk, f)
	}
	if detail != "" {
		if f, err := compose.Face(placeholderDetail); err == nil {
			compose.DrawCenteredText(out, truncate(detail, maxDetailRunes), cx, cy+10, placeholderInk, f)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("capture: encode %s: %w", path, err)
	}
	return f.Close()
}
