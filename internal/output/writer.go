// Package output encodes rendered frames to disk. The format follows the
// file extension: webp, png and tga take quantized 8-bit images, exr stores
// the float framebuffer without quantization.
package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/mrjoshuak/go-openexr/exr"

	"volvis-renderer/internal/postprocess"
	"volvis-renderer/internal/render"
)

// SaveFrame writes a framebuffer to path. For .exr the float pixels go out
// as-is; other formats are quantized with the given gamma and, when the
// framebuffer is larger than targetW x targetH (supersampled render),
// downsampled first. targetW/targetH <= 0 keep the framebuffer resolution.
func SaveFrame(path string, fb *render.FrameBuffer, gamma float64, targetW, targetH int) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".exr" {
		return WriteEXR(path, fb)
	}

	img := postprocess.ToNRGBA(fb, gamma)
	if targetW > 0 && targetH > 0 {
		img = postprocess.Downsample(img, targetW, targetH)
	}
	return Write(path, img)
}

// Write encodes an 8-bit image to path as .webp, .png or .tga.
func Write(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".webp", ".png", ".tga":
	default:
		return fmt.Errorf("output: unsupported extension %q (want .webp, .png, .tga or .exr)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}

	switch ext {
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".png":
		err = png.Encode(f, img)
	case ".tga":
		err = tga.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return f.Close()
}

// WriteEXR stores the framebuffer as a scanline OpenEXR image, preserving
// the renderer's linear float colors.
func WriteEXR(path string, fb *render.FrameBuffer) error {
	img := exr.NewRGBAImage(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			px := fb.At(x, y)
			img.SetRGBA(x, y, float32(px[0]), float32(px[1]), float32(px[2]), float32(px[3]))
		}
	}
	if err := exr.EncodeFile(path, img); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}
