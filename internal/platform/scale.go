package platform

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
)

// bgraImage adapts a Frame's BGRA8 buffer to image.Image without copying it,
// so it can be handed directly to golang.org/x/image/draw's scalers.
type bgraImage struct {
	f *frame.Frame
}

func (b bgraImage) ColorModel() color.Model { return color.RGBAModel }

func (b bgraImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(b.f.Size.W), int(b.f.Size.H))
}

func (b bgraImage) At(x, y int) color.Color {
	row := b.f.RowData(int32(y))
	off := x * frame.BytesPerPixel
	bl, g, r, a := row[off], row[off+1], row[off+2], row[off+3]
	return color.RGBA{R: r, G: g, B: bl, A: a}
}

// ScaleFrame resamples src down by factor (0 < factor < 1; factor >= 1 is a
// no-op that returns src unchanged) using Catmull-Rom interpolation, the same
// kernel screenmirror.ScaleImage reaches for over a naive nearest-neighbor
// resample: a downscaled remote preview shows moire and staircasing that a
// smooth kernel avoids. The result is always a fresh, unshared frame with its
// UpdatedRegion set to its full bounds; factory, when non-nil, backs its
// pixel buffer the same way a capturer's own SharedMemoryFactory would.
func ScaleFrame(src *frame.Frame, factor float64, factory capture.SharedMemoryFactory) *frame.Frame {
	if factor >= 1 {
		return src
	}
	if factor <= 0 {
		factor = 1
	}

	dstW := int(float64(src.Size.W) * factor)
	dstH := int(float64(src.Size.H) * factor)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	size := geom.Size{W: int32(dstW), H: int32(dstH)}
	stride := size.W * frame.BytesPerPixel

	var pix []byte
	if factory != nil {
		if buf, err := factory.CreateSharedMemory(int(stride) * int(size.H)); err == nil {
			pix = buf
		}
	}
	if pix == nil {
		pix = make([]byte, int(stride)*int(size.H))
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	srcRect := image.Rect(0, 0, int(src.Size.W), int(src.Size.H))
	draw.CatmullRom.Scale(dst, dst.Bounds(), bgraImage{f: src}, srcRect, draw.Src, nil)

	out := &frame.Frame{
		Size:             size,
		Stride:           stride,
		Pix:              pix,
		TopLeft:          src.TopLeft,
		CaptureTime:      src.CaptureTime,
		CapturerID:       src.CapturerID,
		MayContainCursor: src.MayContainCursor,
	}
	for y := 0; y < dstH; y++ {
		srcOff := dst.PixOffset(0, y)
		srcRow := dst.Pix[srcOff : srcOff+dstW*4]
		dstRow := out.RowData(int32(y))
		for x := 0; x < dstW; x++ {
			r, g, b, a := srcRow[x*4], srcRow[x*4+1], srcRow[x*4+2], srcRow[x*4+3]
			dstRow[x*4+0] = b
			dstRow[x*4+1] = g
			dstRow[x*4+2] = r
			dstRow[x*4+3] = a
		}
	}
	out.UpdatedRegion.AddRect(out.Rect())
	return out
}
