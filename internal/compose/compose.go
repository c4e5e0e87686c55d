// CLAUDE:SUMMARY Pure image composition: size-normalized side-by-side composites and looping before/after GIF transitions.
// Package compose turns two captured screenshots into reviewable
// comparison artifacts: a side-by-side composite and an animated
// before/after transition.
//
// The package is pure geometry: it never talks to the network or the
// browser, and given the same inputs it produces byte-identical output.
// All layout offsets and colors are declared in layout.go.
package compose

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
)

// SideBySide composes before and after into one image: both resized to
// a shared height (the smaller of the two, capped at
// SideBySideLayout.MaxHeight) preserving each image's own aspect ratio,
// separated by a fixed gap, under a header band carrying the centered
// title and the BEFORE/AFTER labels.
func SideBySide(before, after image.Image, title string) (*image.RGBA, error) {
	if before == nil || after == nil {
		return nil, fmt.Errorf("compose: nil input image")
	}
	bb, ab := before.Bounds(), after.Bounds()
	if bb.Dx() < 1 || bb.Dy() < 1 || ab.Dx() < 1 || ab.Dy() < 1 {
		return nil, fmt.Errorf("compose: empty input image (%dx%d, %dx%d)",
			bb.Dx(), bb.Dy(), ab.Dx(), ab.Dy())
	}

	l := SideBySideLayout

	target := bb.Dy()
	if ab.Dy() < target {
		target = ab.Dy()
	}
	if target > l.MaxHeight {
		target = l.MaxHeight
	}

	left := ScaleToHeight(before, target)
	right := ScaleToHeight(after, target)

	totalW := left.Bounds().Dx() + l.Gap + right.Bounds().Dx()
	canvas := image.NewRGBA(image.Rect(0, 0, totalW, target+l.HeaderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(l.Background), image.Point{}, draw.Src)

	titleFace, err := Face(l.TitleSize)
	if err != nil {
		return nil, err
	}
	labelFace, err := Face(l.LabelSize)
	if err != nil {
		return nil, err
	}

	DrawCenteredText(canvas, title, totalW/2, l.TitleY, l.TitleColor, titleFace)
	DrawCenteredText(canvas, l.BeforeLabel, left.Bounds().Dx()/2, l.LabelY, l.BeforeColor, labelFace)
	DrawCenteredText(canvas, l.AfterLabel,
		left.Bounds().Dx()+l.Gap+right.Bounds().Dx()/2, l.LabelY, l.AfterColor, labelFace)

	draw.Draw(canvas, image.Rect(0, l.HeaderHeight, left.Bounds().Dx(), l.HeaderHeight+target),
		left, image.Point{}, draw.Src)
	rx := left.Bounds().Dx() + l.Gap
	draw.Draw(canvas, image.Rect(rx, l.HeaderHeight, rx+right.Bounds().Dx(), l.HeaderHeight+target),
		right, image.Point{}, draw.Src)

	return canvas, nil
}

// SavePNG writes img to path, creating or truncating the file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compose: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("compose: encode %s: %w", path, err)
	}
	return f.Close()
}

// SaveGIF writes g to path, creating or truncating the file.
func SaveGIF(path string, g *gif.GIF) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compose: create %s: %w", path, err)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return fmt.Errorf("compose: encode %s: %w", path, err)
	}
	return f.Close()
}
