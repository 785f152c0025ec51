package zxing

import (
	"image"
	"image/draw"
)

// PixelBuffer holds a full-frame RGBA pixel extraction of an image, the
// input format the engine consumes. Pix is packed RGBA with a stride of
// 4*Width bytes per row.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer extracts the full pixel rectangle (0,0)-(width,height) of
// img into a fresh RGBA buffer.
func NewPixelBuffer(img image.Image) *PixelBuffer {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &PixelBuffer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    rgba.Pix,
	}
}

// Image reinterprets the buffer as an *image.RGBA without copying.
func (p *PixelBuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    p.Pix,
		Stride: 4 * p.Width,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// Empty reports whether the buffer holds no pixels.
func (p *PixelBuffer) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0 || len(p.Pix) == 0
}
