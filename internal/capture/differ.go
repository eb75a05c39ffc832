package capture

import (
	"time"

	"github.com/opentraa/traa-sub001/internal/blockdiff"
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

// DifferWrapper synthesizes an accurate UpdatedRegion for capturers that
// cannot compute one themselves, by block-diffing against the last frame it
// saw on this source (§4.3).
type DifferWrapper struct {
	inner     Capturer
	callback  Callback
	lastFrame *frame.SharedFrame
}

// NewDifferWrapper wraps inner with block-diff-based damage detection.
func NewDifferWrapper(inner Capturer) *DifferWrapper {
	return &DifferWrapper{inner: inner}
}

func (d *DifferWrapper) Start(callback Callback) {
	d.callback = callback
	d.inner.Start(d.onCaptureResult)
}

func (d *DifferWrapper) CaptureFrame() { d.inner.CaptureFrame() }

func (d *DifferWrapper) GetSourceList() ([]Source, bool) { return d.inner.GetSourceList() }

func (d *DifferWrapper) SelectSource(id int64) bool { return d.inner.SelectSource(id) }

func (d *DifferWrapper) FocusOnSelectedSource() bool { return d.inner.FocusOnSelectedSource() }

func (d *DifferWrapper) SetExcludedWindow(id int64) { d.inner.SetExcludedWindow(id) }

func (d *DifferWrapper) SetSharedMemoryFactory(f SharedMemoryFactory) {
	d.inner.SetSharedMemoryFactory(f)
}

func (d *DifferWrapper) IsOccluded(p geom.Point) bool { return d.inner.IsOccluded(p) }

func (d *DifferWrapper) onCaptureResult(result CaptureResult, f *frame.SharedFrame) {
	start := time.Now()
	if f == nil {
		d.callback(result, nil)
		return
	}

	fr := f.Frame()
	if d.lastFrame != nil {
		lf := d.lastFrame.Frame()
		if lf.Size != fr.Size || lf.Stride != fr.Stride {
			d.lastFrame = nil
		}
	}

	if d.lastFrame == nil {
		f.MutableUpdatedRegion().SetRect(fr.Rect())
	} else {
		hints := fr.UpdatedRegion
		mr := f.MutableUpdatedRegion()
		mr.Clear()
		for it := region.NewIterator(&hints); !it.IsAtEnd(); it.Advance() {
			hintRect := it.Rect().IntersectWith(fr.Rect())
			blockdiff.CompareFrames(d.lastFrame.Frame(), fr, hintRect, mr)
		}
	}
	d.lastFrame = f.Share()

	fr.CaptureTime = fr.CaptureTime.Add(time.Since(start))
	d.callback(result, f)
}
