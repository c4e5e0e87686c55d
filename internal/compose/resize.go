package compose

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ScaleToHeight resizes src to height h preserving its aspect ratio.
// CatmullRom gives the best quality of the x/image kernels and, unlike
// a GPU path, is fully deterministic.
func ScaleToHeight(src image.Image, h int) *image.RGBA {
	b := src.Bounds()
	w := int(math.Round(float64(b.Dx()) * float64(h) / float64(b.Dy())))
	if w < 1 {
		w = 1
	}
	return scale(src, w, h)
}

// ScaleTo resizes src to exactly w×h, distorting if the ratios differ.
// Animation frames share one fixed canvas, so distortion is accepted
// there.
func ScaleTo(src image.Image, w, h int) *image.RGBA {
	return scale(src, w, h)
}

func scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Blend returns the 0.5 linear alpha blend of a and b, which must have
// identical bounds.
func Blend(a, b *image.RGBA) *image.RGBA {
	out := image.NewRGBA(a.Bounds())
	for i := range out.Pix {
		out.Pix[i] = uint8((uint16(a.Pix[i]) + uint16(b.Pix[i])) / 2)
	}
	return out
}
