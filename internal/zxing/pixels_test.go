package zxing

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPixelBufferExtractsFullFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(2, 1, color.RGBA{B: 255, A: 255})

	pix := NewPixelBuffer(img)
	require.Equal(t, 3, pix.Width)
	require.Equal(t, 2, pix.Height)
	require.Len(t, pix.Pix, 3*2*4)

	// Top-left pixel is red, bottom-right is blue.
	assert.Equal(t, uint8(255), pix.Pix[0])
	last := (1*3 + 2) * 4
	assert.Equal(t, uint8(255), pix.Pix[last+2])
}

func TestNewPixelBufferNonZeroOrigin(t *testing.T) {
	// Sub-images with shifted bounds still extract from their own origin.
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	base.SetRGBA(5, 5, color.RGBA{G: 255, A: 255})
	sub, ok := base.SubImage(image.Rect(5, 5, 8, 8)).(*image.RGBA)
	require.True(t, ok)

	pix := NewPixelBuffer(sub)
	require.Equal(t, 3, pix.Width)
	require.Equal(t, 3, pix.Height)
	assert.Equal(t, uint8(255), pix.Pix[1])
}

func TestPixelBufferImageRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	pix := NewPixelBuffer(img)
	back := pix.Image()
	assert.Equal(t, img.RGBAAt(1, 2), back.RGBAAt(1, 2))
	assert.Equal(t, img.Bounds().Size(), back.Bounds().Size())
}

func TestPixelBufferEmpty(t *testing.T) {
	var nilBuf *PixelBuffer
	assert.True(t, nilBuf.Empty())
	assert.True(t, (&PixelBuffer{}).Empty())
	assert.False(t, NewPixelBuffer(image.NewRGBA(image.Rect(0, 0, 1, 1))).Empty())
}
