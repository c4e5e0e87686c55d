package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// The embedded Go Regular face keeps rendering byte-identical across
// machines; loading a system font would break the determinism contract.

var (
	fontOnce sync.Once
	fontErr  error
	sfnt     *opentype.Font

	faceMu    sync.Mutex
	faceCache = map[float64]font.Face{}

	// drawMu serialises all rendering through the cached faces.
	// opentype.Face is not safe for concurrent use, and concurrent
	// captures draw banners and placeholders at the same point size.
	drawMu sync.Mutex
)

// Face returns a Go Regular face at the given point size. Faces are
// cached and shared; they are not safe for concurrent use, so every
// measure or draw in this package goes through one package-level lock.
func Face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		sfnt, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("compose: parse font: %w", fontErr)
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("compose: face %gpt: %w", size, err)
	}
	faceCache[size] = f
	return f, nil
}

// TextWidth measures the advance of s in pixels.
func TextWidth(f font.Face, s string) int {
	drawMu.Lock()
	defer drawMu.Unlock()
	return measure(f, s)
}

func measure(f font.Face, s string) int {
	return font.MeasureString(f, s).Ceil()
}

// DrawCenteredText draws s horizontally centered on cx, with the top of
// the text at topY. Safe for concurrent callers sharing a cached face.
func DrawCenteredText(dst draw.Image, s string, cx, topY int, col color.Color, f font.Face) {
	drawMu.Lock()
	defer drawMu.Unlock()

	m := f.Metrics()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: f,
		Dot: fixed.Point26_6{
			X: fixed.I(cx - measure(f, s)/2),
			Y: fixed.I(topY) + m.Ascent,
		},
	}
	d.DrawString(s)
}
