package platform

import (
	"testing"

	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

func uniformBGRAFrame(w, h int32, b, g, r, a byte) *frame.Frame {
	f := frame.New(geom.Sz(w, h))
	for y := int32(0); y < h; y++ {
		row := f.RowData(y)
		for x := int32(0); x < w; x++ {
			off := x * frame.BytesPerPixel
			row[off+0] = b
			row[off+1] = g
			row[off+2] = r
			row[off+3] = a
		}
	}
	return f
}

func TestScaleFrameReturnsSameFrameWhenFactorIsOneOrAbove(t *testing.T) {
	src := uniformBGRAFrame(10, 10, 1, 2, 3, 255)

	if out := ScaleFrame(src, 1.0, nil); out != src {
		t.Fatal("expected factor 1.0 to return src unchanged")
	}
	if out := ScaleFrame(src, 2.0, nil); out != src {
		t.Fatal("expected factor above 1.0 to return src unchanged")
	}
}

func TestScaleFrameShrinksDimensionsByFactor(t *testing.T) {
	src := uniformBGRAFrame(100, 50, 10, 20, 30, 255)

	out := ScaleFrame(src, 0.5, nil)

	if out.Size.W != 50 || out.Size.H != 25 {
		t.Fatalf("Size = %+v, want 50x25", out.Size)
	}
}

func TestScaleFrameUsesSharedMemoryFactoryWhenSupplied(t *testing.T) {
	src := uniformBGRAFrame(40, 40, 1, 1, 1, 255)
	factory := &fakeFactory{}

	out := ScaleFrame(src, 0.5, factory)

	if !factory.called {
		t.Fatal("expected factory.CreateSharedMemory to be called")
	}
	want := int(out.Stride) * int(out.Size.H)
	if factory.size != want {
		t.Fatalf("factory got size %d, want %d", factory.size, want)
	}
}

func TestScaleFramePreservesApproximateColorOnUniformInput(t *testing.T) {
	src := uniformBGRAFrame(20, 20, 10, 20, 30, 255)

	out := ScaleFrame(src, 0.25, nil)

	row := out.RowData(out.Size.H / 2)
	mid := (out.Size.W / 2) * frame.BytesPerPixel
	b, g, r, a := row[mid], row[mid+1], row[mid+2], row[mid+3]
	if b != 10 || g != 20 || r != 30 || a != 255 {
		t.Fatalf("scaled uniform pixel = BGRA(%d,%d,%d,%d), want (10,20,30,255)", b, g, r, a)
	}
}

func TestScaleFrameSetsUpdatedRegionToFullBounds(t *testing.T) {
	src := uniformBGRAFrame(32, 32, 0, 0, 0, 255)

	out := ScaleFrame(src, 0.5, nil)

	if !out.UpdatedRegion.Equals(region.NewRegion(out.Rect())) {
		t.Fatalf("UpdatedRegion = %v, want full bounds %v", out.UpdatedRegion.Rects(), out.Rect())
	}
}
