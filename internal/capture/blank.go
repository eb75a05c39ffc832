package capture

import (
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
)

// DefaultBlankSampleStride is the open question from spec §9: the source
// this was distilled from samples every 105th linearized pixel without
// explaining why. Kept as the default rather than guessed at further;
// config.Options.BlankDetectorSampleStride can override it.
const DefaultBlankSampleStride = 105

// BGRAPixel is a single BGRA8 sample, used to describe the "blank" color a
// BlankDetectorWrapper suppresses.
type BGRAPixel [frame.BytesPerPixel]byte

// BlankDetectorWrapper suppresses solid "blank" frames (often all-zero,
// emitted during transient display reconfiguration) until a non-blank frame
// has been observed on the current source (§4.2).
type BlankDetectorWrapper struct {
	inner           Capturer
	callback        Callback
	blankPixel      BGRAPixel
	checkPerCapture bool
	sampleStride    int

	isFirstFrame      bool
	nonBlankSeen      bool
	lastFrameWasBlank bool
}

// NewBlankDetectorWrapper wraps inner, suppressing frames that are entirely
// blankPixel. When checkPerCapture is true, SelectSource resets the
// first-frame/non-blank-seen state so a newly selected source is checked
// again from scratch. sampleStride is the linearized-pixel sampling stride
// isBlankFrame uses; a value <= 0 falls back to DefaultBlankSampleStride.
func NewBlankDetectorWrapper(inner Capturer, blankPixel BGRAPixel, checkPerCapture bool, sampleStride int) *BlankDetectorWrapper {
	if sampleStride <= 0 {
		sampleStride = DefaultBlankSampleStride
	}
	return &BlankDetectorWrapper{
		inner:           inner,
		blankPixel:      blankPixel,
		checkPerCapture: checkPerCapture,
		sampleStride:    sampleStride,
		isFirstFrame:    true,
	}
}

func (b *BlankDetectorWrapper) Start(callback Callback) {
	b.callback = callback
	b.inner.Start(b.onCaptureResult)
}

func (b *BlankDetectorWrapper) CaptureFrame() { b.inner.CaptureFrame() }

func (b *BlankDetectorWrapper) GetSourceList() ([]Source, bool) { return b.inner.GetSourceList() }

func (b *BlankDetectorWrapper) SelectSource(id int64) bool {
	if b.checkPerCapture {
		b.isFirstFrame = true
		b.nonBlankSeen = false
	}
	return b.inner.SelectSource(id)
}

func (b *BlankDetectorWrapper) FocusOnSelectedSource() bool { return b.inner.FocusOnSelectedSource() }

func (b *BlankDetectorWrapper) SetExcludedWindow(id int64) { b.inner.SetExcludedWindow(id) }

func (b *BlankDetectorWrapper) SetSharedMemoryFactory(f SharedMemoryFactory) {
	b.inner.SetSharedMemoryFactory(f)
}

func (b *BlankDetectorWrapper) IsOccluded(p geom.Point) bool { return b.inner.IsOccluded(p) }

func (b *BlankDetectorWrapper) onCaptureResult(result CaptureResult, f *frame.SharedFrame) {
	if result != ResultSuccess || b.nonBlankSeen {
		b.callback(result, f)
		return
	}

	if f == nil {
		b.callback(ResultErrorTemporary, nil)
		return
	}

	fr := f.Frame()
	if !fr.UpdatedRegion.IsEmpty() || b.isFirstFrame {
		b.lastFrameWasBlank = isBlankFrame(fr, b.blankPixel, b.sampleStride)
		b.isFirstFrame = false
	}

	if !b.lastFrameWasBlank {
		b.nonBlankSeen = true
		b.callback(ResultSuccess, f)
		return
	}

	b.callback(ResultErrorTemporary, nil)
}

func isBlankFrame(fr *frame.Frame, blank BGRAPixel, sampleStride int) bool {
	w, h := int(fr.Size.W), int(fr.Size.H)
	if w <= 0 || h <= 0 {
		return true
	}
	total := w * h
	for i := 0; i < total; i += sampleStride {
		x, y := int32(i%w), int32(i/w)
		if !isBlankPixel(fr, x, y, blank) {
			return false
		}
	}
	return isBlankPixel(fr, int32(w/2), int32(h/2), blank)
}

func isBlankPixel(fr *frame.Frame, x, y int32, blank BGRAPixel) bool {
	row := fr.RowData(y)
	off := int(x) * frame.BytesPerPixel
	for i := 0; i < frame.BytesPerPixel; i++ {
		if row[off+i] != blank[i] {
			return false
		}
	}
	return true
}
