package captest

import (
	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

// Painter is a FrameGenerator backed by a persistent BGRA8 canvas: FillRect
// paints onto the canvas directly, and NextFrame snapshots it into a fresh
// frame.Frame each call, the same double-buffering guarantee the generator
// this is grounded on provides. It tracks exactly which rects were painted
// since the previous NextFrame call through a region.InvalidTracker, so the
// returned frame's UpdatedRegion hint is tight rather than always the full
// canvas.
type Painter struct {
	size    geom.Size
	pix     []byte
	invalid *region.InvalidTracker
	first   bool
}

// NewPainter returns a Painter with a black canvas of the given size.
func NewPainter(size geom.Size) *Painter {
	stride := size.W * frame.BytesPerPixel
	return &Painter{
		size:    size,
		pix:     make([]byte, int(stride)*int(size.H)),
		invalid: region.NewInvalidTracker(),
		first:   true,
	}
}

// FillRect paints rect with the given BGRA color, clipped to the canvas, and
// records it as invalidated so the next NextFrame call hints it.
func (p *Painter) FillRect(rect geom.Rect, b, g, r, a byte) {
	clipped := rect.IntersectWith(geom.RectFromSize(p.size))
	if clipped.IsEmpty() {
		return
	}
	stride := int(p.size.W) * frame.BytesPerPixel
	for y := clipped.Top; y < clipped.Bottom; y++ {
		row := p.pix[int(y)*stride : (int(y)+1)*stride]
		for x := clipped.Left; x < clipped.Right; x++ {
			off := int(x) * frame.BytesPerPixel
			row[off+0] = b
			row[off+1] = g
			row[off+2] = r
			row[off+3] = a
		}
	}
	p.invalid.InvalidateRegion(region.NewRegion(clipped))
}

// NextFrame implements FrameGenerator, handing back a copy of the canvas as
// it stands at the time of the call. The first call hints the full frame
// rect, since there is no prior snapshot to bound the hint against; every
// call after hints exactly the rects FillRect recorded since the previous
// call, draining the tracker in the process.
func (p *Painter) NextFrame(factory capture.SharedMemoryFactory) *frame.Frame {
	fr := frame.New(p.size)
	if factory != nil {
		if buf, err := factory.CreateSharedMemory(len(p.pix)); err == nil {
			fr.Pix = buf
		}
	}
	copy(fr.Pix, p.pix)

	if p.first {
		fr.UpdatedRegion.AddRect(fr.Rect())
		p.first = false
		p.invalid.TakeInvalidRegion()
	} else {
		fr.UpdatedRegion.AddRegion(p.invalid.TakeInvalidRegion())
	}
	return fr
}
