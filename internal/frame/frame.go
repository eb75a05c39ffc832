// Package frame holds captured pixel buffers and the refcounted wrapper
// used to share them cheaply between a capturer and its wrappers.
package frame

import (
	"sync/atomic"
	"time"

	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

// BytesPerPixel is the pixel stride of the BGRA8 format every Frame uses.
const BytesPerPixel = 4

// Frame is a single captured image: BGRA8 pixels plus the metadata the
// capture pipeline threads through its wrappers. A negative Stride means
// the buffer is stored bottom-up (row 0 is the last row in Pix).
type Frame struct {
	Size             geom.Size
	Stride           int32
	Pix              []byte
	TopLeft          geom.Point
	CaptureTime      time.Time
	CapturerID       uint32
	MayContainCursor bool
	UpdatedRegion    region.Region
}

// New allocates a zeroed frame of the given size with a top-down stride of
// Width*BytesPerPixel.
func New(size geom.Size) *Frame {
	stride := size.W * BytesPerPixel
	return &Frame{
		Size:   size,
		Stride: stride,
		Pix:    make([]byte, int(stride)*int(size.H)),
	}
}

// Rect returns the frame's bounds at (0,0).
func (f *Frame) Rect() geom.Rect { return geom.RectFromSize(f.Size) }

func absStride(stride int32) int32 {
	if stride < 0 {
		return -stride
	}
	return stride
}

// RowData returns the byte slice backing row y, accounting for Stride's
// sign.
func (f *Frame) RowData(y int32) []byte {
	as := int(absStride(f.Stride))
	var offset int
	if f.Stride < 0 {
		offset = (int(f.Size.H) - 1 - int(y)) * as
	} else {
		offset = int(y) * as
	}
	return f.Pix[offset : offset+as]
}

// frameCore is the part of a SharedFrame family that is genuinely shared:
// the pixel buffer and all mutable metadata, guarded only by the refcount
// invariant below. Unlike the reference implementation's shared_desktop_frame
// (which copies metadata into every share() instance and only shares the
// pixel buffer), this keeps metadata in the shared core too, which is what
// makes "mutate only when exclusively held" an enforceable invariant rather
// than a convention: see DESIGN.md.
type frameCore struct {
	refcount int32
	frame    *Frame
}

// SharedFrame is a refcounted handle to a Frame. Share creates another handle
// over the same underlying Frame; Release gives one up. The frame may only
// be mutated through MutableUpdatedRegion while exactly one handle is live.
type SharedFrame struct {
	core *frameCore
}

// Wrap creates the first handle over f.
func Wrap(f *Frame) *SharedFrame {
	return &SharedFrame{core: &frameCore{refcount: 1, frame: f}}
}

// Share returns a new handle sharing the same underlying Frame, incrementing
// the refcount.
func (s *SharedFrame) Share() *SharedFrame {
	atomic.AddInt32(&s.core.refcount, 1)
	return &SharedFrame{core: s.core}
}

// Release gives up this handle, decrementing the refcount. Callers must not
// use s after calling Release.
func (s *SharedFrame) Release() {
	atomic.AddInt32(&s.core.refcount, -1)
}

// IsShared reports whether more than one handle currently references the
// underlying Frame.
func (s *SharedFrame) IsShared() bool {
	return atomic.LoadInt32(&s.core.refcount) > 1
}

// ShareFrameWith reports whether s and o reference the same underlying
// Frame.
func (s *SharedFrame) ShareFrameWith(o *SharedFrame) bool {
	return s.core == o.core
}

// Frame returns the underlying Frame for reading. Safe to call regardless of
// refcount.
func (s *SharedFrame) Frame() *Frame {
	return s.core.frame
}

// MutableUpdatedRegion returns a mutable pointer to the frame's updated
// region. Panics if the frame is currently shared (refcount > 1): the
// region is part of the shared core, so mutating it while another handle is
// live would be visible to that handle too.
func (s *SharedFrame) MutableUpdatedRegion() *region.Region {
	if s.IsShared() {
		panic("frame: MutableUpdatedRegion called on a shared frame")
	}
	return &s.core.frame.UpdatedRegion
}
