package render

import "volvis-renderer/internal/mathutil"

// FrameBuffer is a flat row-major RGBA float buffer. Pixels hold linear
// color, unclamped, with alpha in the last component.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []mathutil.Vec4
}

// NewFrameBuffer allocates a zero-filled buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]mathutil.Vec4, w*h),
	}
}

// Clear resets every pixel to transparent black.
func (fb *FrameBuffer) Clear() {
	for i := range fb.Pix {
		fb.Pix[i] = mathutil.Vec4{}
	}
}

// At returns the pixel at (x, y).
func (fb *FrameBuffer) At(x, y int) mathutil.Vec4 {
	return fb.Pix[y*fb.Width+x]
}

func (fb *FrameBuffer) set(x, y int, c mathutil.Vec4) {
	fb.Pix[y*fb.Width+x] = c
}
