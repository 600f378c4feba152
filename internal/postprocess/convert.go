// Package postprocess converts the renderer's float framebuffer into
// displayable images: quantization with gamma, and supersample downscaling.
package postprocess

import (
	"image"
	"math"

	"volvis-renderer/internal/render"
)

// ToNRGBA quantizes a float framebuffer to 8-bit NRGBA. Colors are clamped
// to [0,1], gamma-encoded (gamma <= 0 or 1 means linear), and rounded. Alpha
// is clamped but never gamma-encoded.
func ToNRGBA(fb *render.FrameBuffer, gamma float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))

	invGamma := 1.0
	if gamma > 0 {
		invGamma = 1 / gamma
	}

	for i, px := range fb.Pix {
		c := px.Clamp01()
		o := i * 4
		if invGamma != 1 {
			img.Pix[o] = clamp8(math.Pow(c[0], invGamma) * 255)
			img.Pix[o+1] = clamp8(math.Pow(c[1], invGamma) * 255)
			img.Pix[o+2] = clamp8(math.Pow(c[2], invGamma) * 255)
		} else {
			img.Pix[o] = clamp8(c[0] * 255)
			img.Pix[o+1] = clamp8(c[1] * 255)
			img.Pix[o+2] = clamp8(c[2] * 255)
		}
		img.Pix[o+3] = clamp8(c[3] * 255)
	}
	return img
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
