package compose

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"time"
)

// ErrTooFewFrames is returned when AnimatedTransition receives fewer
// than two images. A transition needs a start and an end state.
var ErrTooFewFrames = errors.New("compose: animated transition needs at least 2 images")

// AnimatedTransition builds an infinitely looping GIF that flips
// between the input images. Every frame shares one fixed canvas
// (AnimationLayout.Width wide, height = the smallest input height
// capped at AnimationLayout.MaxHeight). The first frame carries the
// BEFORE badge and the last the AFTER badge; when exactly two images
// are given, a 0.5 alpha blend is inserted between them as a
// transition midpoint.
//
// Each frame holds for frameDuration. Output is deterministic: the
// frames are quantized onto the fixed Plan 9 palette with
// Floyd-Steinberg dithering, which has no random component.
func AnimatedTransition(images []image.Image, frameDuration time.Duration) (*gif.GIF, error) {
	if len(images) < 2 {
		return nil, ErrTooFewFrames
	}

	l := AnimationLayout
	height := l.MaxHeight
	for _, img := range images {
		if img == nil || img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
			return nil, errors.New("compose: nil or empty animation input")
		}
		if h := img.Bounds().Dy(); h < height {
			height = h
		}
	}

	scaled := make([]*image.RGBA, len(images))
	for i, img := range images {
		scaled[i] = ScaleTo(img, l.Width, height)
	}

	var frames []*image.RGBA

	first := cloneRGBA(scaled[0])
	if err := stampBadge(first, FrameBadges["before"]); err != nil {
		return nil, err
	}
	frames = append(frames, first)

	if len(scaled) == 2 {
		frames = append(frames, Blend(scaled[0], scaled[1]))
	} else {
		frames = append(frames, scaled[1:len(scaled)-1]...)
	}

	last := cloneRGBA(scaled[len(scaled)-1])
	if err := stampBadge(last, FrameBadges["after"]); err != nil {
		return nil, err
	}
	frames = append(frames, last)

	delay := int(frameDuration / (10 * time.Millisecond)) // gif delays are in 1/100s
	out := &gif.GIF{LoopCount: 0}
	for _, fr := range frames {
		p := image.NewPaletted(fr.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, fr.Bounds(), fr, image.Point{})
		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, delay)
	}
	return out, nil
}

func stampBadge(dst *image.RGBA, b Badge) error {
	draw.Draw(dst, b.Rect, image.NewUniform(b.Fill), image.Point{}, draw.Src)
	f, err := Face(b.Size)
	if err != nil {
		return err
	}
	m := f.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()
	topY := b.Rect.Min.Y + (b.Rect.Dy()-textH)/2
	DrawCenteredText(dst, b.Text, (b.Rect.Min.X+b.Rect.Max.X)/2, topY, color.White, f)
	return nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
