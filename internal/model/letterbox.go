package model

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// padGray is the fill used around the resized image
var padGray = color.RGBA{114, 114, 114, 255}

// Letterbox records how a source image was fitted into a square input.
// Left and Top are the pixel offsets the resized image is drawn at; Unmap
// subtracts the same offsets so odd padding does not shift boxes.
type Letterbox struct {
	Scale      float64
	Left, Top  int
	NewW, NewH int
	SrcW, SrcH int
}

// NewLetterbox computes the aspect preserving fit of a w x h image into size x size.
func NewLetterbox(w, h, size int) Letterbox {
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	padX := float64(size-newW) / 2
	padY := float64(size-newH) / 2
	return Letterbox{
		Scale: scale,
		Left:  int(math.Round(padX - 0.1)),
		Top:   int(math.Round(padY - 0.1)),
		NewW:  newW,
		NewH:  newH,
		SrcW:  w,
		SrcH:  h,
	}
}

// Apply renders img into a new size x size RGBA canvas.
func (lb Letterbox) Apply(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: padGray}, image.Point{}, draw.Src)

	target := image.Rect(lb.Left, lb.Top, lb.Left+lb.NewW, lb.Top+lb.NewH)
	draw.ApproxBiLinear.Scale(dst, target, img, img.Bounds(), draw.Src, nil)
	return dst
}

// Unmap converts a corner box in input space back to source pixels,
// clipped to the source bounds.
func (lb Letterbox) Unmap(x1, y1, x2, y2 float64) [4]float64 {
	w, h := float64(lb.SrcW), float64(lb.SrcH)
	left, top := float64(lb.Left), float64(lb.Top)
	return [4]float64{
		clamp((x1-left)/lb.Scale, 0, w),
		clamp((y1-top)/lb.Scale, 0, h),
		clamp((x2-left)/lb.Scale, 0, w),
		clamp((y2-top)/lb.Scale, 0, h),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
