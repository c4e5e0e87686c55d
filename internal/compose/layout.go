package compose

import (
	"image"
	"image/color"
)

// All pixel offsets and colors used by the composer live here as data,
// not as literals scattered through the drawing code. Tests assert
// against this table directly, independent of any rendered image.

// Badge is a colored box with centered text stamped onto an animation
// frame.
type Badge struct {
	Text string
	Fill color.RGBA
	Rect image.Rectangle
	Size float64 // text size in points
}

// FrameBadges maps a frame role to its overlay badge.
var FrameBadges = map[string]Badge{
	"before": {
		Text: "BEFORE",
		Fill: color.RGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff},
		Rect: image.Rect(20, 20, 300, 80),
		Size: 40,
	},
	"after": {
		Text: "AFTER",
		Fill: color.RGBA{R: 0x05, G: 0x96, B: 0x69, A: 0xff},
		Rect: image.Rect(20, 20, 250, 80),
		Size: 40,
	},
}

// SideBySideLayout holds the geometry of the composite image.
var SideBySideLayout = struct {
	Gap          int // horizontal gap between the two halves
	HeaderHeight int // band above the images for title and labels
	MaxHeight    int // cap on the shared image height
	TitleSize    float64
	LabelSize    float64
	TitleY       int // top of the title text
	LabelY       int // top of the BEFORE/AFTER labels
	Background   color.RGBA
	TitleColor   color.RGBA
	BeforeColor  color.RGBA
	AfterColor   color.RGBA
	BeforeLabel  string
	AfterLabel   string
}{
	Gap:          20,
	HeaderHeight: 100,
	MaxHeight:    1600,
	TitleSize:    36,
	LabelSize:    24,
	TitleY:       20,
	LabelY:       70,
	Background:   color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff},
	TitleColor:   color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff},
	BeforeColor:  color.RGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff},
	AfterColor:   color.RGBA{R: 0x05, G: 0x96, B: 0x69, A: 0xff},
	BeforeLabel:  "BEFORE (Current)",
	AfterLabel:   "AFTER (New Design)",
}

// AnimationLayout holds the fixed canvas of transition frames.
var AnimationLayout = struct {
	Width     int
	MaxHeight int
}{
	Width:     1280,
	MaxHeight: 1600,
}
