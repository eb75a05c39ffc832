package captest

import (
	"testing"

	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

func TestPainterFirstFrameHintsFullRect(t *testing.T) {
	p := NewPainter(geom.Sz(16, 16))
	fr := p.NextFrame(nil)

	if !fr.UpdatedRegion.Equals(region.NewRegion(fr.Rect())) {
		t.Fatalf("first frame hint = %v, want full rect", fr.UpdatedRegion.Rects())
	}
}

func TestPainterSubsequentFrameHintsOnlyPaintedRects(t *testing.T) {
	p := NewPainter(geom.Sz(64, 64))
	p.NextFrame(nil) // drain the implicit first-frame hint

	rect := geom.RectFromLTRB(4, 4, 12, 12)
	p.FillRect(rect, 1, 2, 3, 255)
	fr := p.NextFrame(nil)

	if !fr.UpdatedRegion.Equals(region.NewRegion(rect)) {
		t.Fatalf("hint = %v, want exactly %v", fr.UpdatedRegion.Rects(), rect)
	}
}

func TestPainterFrameWithNoPaintsSinceLastCallHasEmptyHint(t *testing.T) {
	p := NewPainter(geom.Sz(16, 16))
	p.NextFrame(nil)

	fr := p.NextFrame(nil)
	if !fr.UpdatedRegion.IsEmpty() {
		t.Fatalf("expected an empty hint when nothing was painted, got %v", fr.UpdatedRegion.Rects())
	}
}

func TestPainterFillRectClipsToCanvasAndPersistsPixels(t *testing.T) {
	p := NewPainter(geom.Sz(4, 4))
	p.FillRect(geom.RectFromLTRB(-2, -2, 2, 2), 10, 20, 30, 255)

	fr := p.NextFrame(nil)
	row := fr.RowData(0)
	if row[0] != 10 || row[1] != 20 || row[2] != 30 || row[3] != 255 {
		t.Fatalf("pixel(0,0) = %v, want BGRA(10,20,30,255)", row[0:4])
	}
}

func TestPainterNextFrameUsesSharedMemoryFactoryWhenSupplied(t *testing.T) {
	p := NewPainter(geom.Sz(4, 4))
	factory := &fakeFactoryForPainter{}

	fr := p.NextFrame(factory)

	if !factory.called {
		t.Fatal("expected factory.CreateSharedMemory to be called")
	}
	if len(fr.Pix) != factory.size {
		t.Fatalf("frame pixel buffer length = %d, want %d", len(fr.Pix), factory.size)
	}
}

type fakeFactoryForPainter struct {
	called bool
	size   int
}

func (f *fakeFactoryForPainter) CreateSharedMemory(size int) ([]byte, error) {
	f.called = true
	f.size = size
	return make([]byte, size), nil
}
