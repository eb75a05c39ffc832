package capture

import (
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
)

// FallbackWrapper forwards to primary until it reports ErrorPermanent, then
// forwards to secondary for the rest of its lifetime (§4.5).
type FallbackWrapper struct {
	primary   Capturer
	secondary Capturer
	callback  Callback

	primaryPermanentError bool
	sharedMemoryFactory   SharedMemoryFactory
}

// NewFallbackWrapper composes primary and secondary into one Capturer.
func NewFallbackWrapper(primary, secondary Capturer) *FallbackWrapper {
	return &FallbackWrapper{primary: primary, secondary: secondary}
}

func (w *FallbackWrapper) Start(callback Callback) {
	w.callback = callback
	// The wrapper intercepts primary's callback to decide whether secondary
	// needs to run; secondary's result goes straight to the outer callback,
	// since there is no further fallback once secondary is in play.
	w.primary.Start(w.onPrimaryResult)
	w.secondary.Start(callback)
}

func (w *FallbackWrapper) SetSharedMemoryFactory(factory SharedMemoryFactory) {
	w.sharedMemoryFactory = factory
	if factory != nil {
		w.primary.SetSharedMemoryFactory(&sharedMemoryFactoryProxy{factory})
		w.secondary.SetSharedMemoryFactory(&sharedMemoryFactoryProxy{factory})
	} else {
		w.primary.SetSharedMemoryFactory(nil)
		w.secondary.SetSharedMemoryFactory(nil)
	}
}

func (w *FallbackWrapper) CaptureFrame() {
	if w.primaryPermanentError {
		w.secondary.CaptureFrame()
	} else {
		w.primary.CaptureFrame()
	}
}

func (w *FallbackWrapper) SetExcludedWindow(id int64) {
	w.primary.SetExcludedWindow(id)
	w.secondary.SetExcludedWindow(id)
}

func (w *FallbackWrapper) GetSourceList() ([]Source, bool) {
	if w.primaryPermanentError {
		return w.secondary.GetSourceList()
	}
	return w.primary.GetSourceList()
}

func (w *FallbackWrapper) SelectSource(id int64) bool {
	if w.primaryPermanentError {
		return w.secondary.SelectSource(id)
	}
	if !w.primary.SelectSource(id) {
		w.primaryPermanentError = true
	}
	// Always arm secondary too, so the fallback is ready the moment primary
	// latches.
	return w.secondary.SelectSource(id)
}

func (w *FallbackWrapper) FocusOnSelectedSource() bool {
	if w.primaryPermanentError {
		return w.secondary.FocusOnSelectedSource()
	}
	primaryOK := w.primary.FocusOnSelectedSource()
	secondaryOK := w.secondary.FocusOnSelectedSource()
	return primaryOK || secondaryOK
}

func (w *FallbackWrapper) IsOccluded(p geom.Point) bool {
	if w.primaryPermanentError {
		return w.secondary.IsOccluded(p)
	}
	return w.primary.IsOccluded(p) || w.secondary.IsOccluded(p)
}

func (w *FallbackWrapper) onPrimaryResult(result CaptureResult, f *frame.SharedFrame) {
	if result == ResultSuccess {
		w.callback(result, f)
		return
	}
	if result == ResultErrorPermanent {
		w.primaryPermanentError = true
	}
	// Temporary or permanent: fall through to secondary for this tick. Only
	// a permanent result latches, so a merely-temporary primary keeps being
	// tried on the next CaptureFrame.
	w.secondary.CaptureFrame()
}

// sharedMemoryFactoryProxy lets both the primary and secondary capturer
// share one user-supplied factory without either taking ownership of it.
type sharedMemoryFactoryProxy struct {
	factory SharedMemoryFactory
}

func (p *sharedMemoryFactoryProxy) CreateSharedMemory(size int) ([]byte, error) {
	return p.factory.CreateSharedMemory(size)
}
