package fullscreen

import "github.com/opentraa/traa-sub001/internal/capture"

// HandlerFactory builds the AppHandler for sourceID, or returns nil if no
// known application family applies. A platform factory typically inspects
// the owning process's executable name (and, for OpenOffice, its window
// title) to choose among GenericHandler, PowerPointHandler and
// OpenOfficeHandler.
type HandlerFactory func(sourceID int64) AppHandler

// Clock returns a monotonic millisecond timestamp. Exists so tests can
// drive Detector's twice-per-second throttling deterministically.
type Clock func() int64

// Detector tracks, for one selected source at a time, whether that
// application has switched to a full-screen companion window (§4.7).
// Re-enumeration is expensive, so UpdateWindowListIfNeeded throttles itself
// to MinUpdateIntervalMs.
type Detector struct {
	factory HandlerFactory
	clock   Clock

	handler AppHandler

	previousSourceID int64
	haveNoHandler    bool
	noHandlerSource  int64

	haveUpdated      bool
	lastUpdateTimeMs int64
	windowList       []capture.Source
}

// NewDetector builds a Detector that uses factory to create a handler the
// first time a given source is seen, and clock to throttle re-enumeration.
func NewDetector(factory HandlerFactory, clock Clock) *Detector {
	return &Detector{
		factory:          factory,
		clock:            clock,
		previousSourceID: capture.WindowIDNull,
		noHandlerSource:  capture.WindowIDNull,
	}
}

// FindFullScreenWindow returns the full-screen companion of
// originalSourceID in the most recently fetched window list, or 0 if none
// applies or no window list has been fetched yet.
func (d *Detector) FindFullScreenWindow(originalSourceID int64) int64 {
	if d.handler == nil || d.handler.SourceID() != originalSourceID {
		return 0
	}
	return d.handler.FindFullScreenWindow(d.windowList, d.lastUpdateTimeMs)
}

// UpdateWindowListIfNeeded re-enumerates sources via getSources and
// creates a handler for originalSourceID if one doesn't exist yet, but
// does neither more often than twice a second. getSources reports whether
// the enumeration succeeded; a failed enumeration leaves the previous
// window list in place.
func (d *Detector) UpdateWindowListIfNeeded(originalSourceID int64, getSources func() ([]capture.Source, bool)) {
	d.createHandlerIfNeeded(originalSourceID)
	if d.handler == nil {
		return
	}

	now := d.clock()
	if d.haveUpdated && now-d.lastUpdateTimeMs < MinUpdateIntervalMs {
		return
	}

	sources, ok := getSources()
	if !ok {
		return
	}
	d.windowList = sources
	d.lastUpdateTimeMs = now
	d.haveUpdated = true
}

func (d *Detector) createHandlerIfNeeded(sourceID int64) {
	if sourceID != d.previousSourceID {
		d.handler = nil
		d.haveNoHandler = false
		d.haveUpdated = false
		d.previousSourceID = sourceID
	}
	if d.handler != nil || (d.haveNoHandler && d.noHandlerSource == sourceID) {
		return
	}

	h := d.factory(sourceID)
	if h == nil {
		d.haveNoHandler = true
		d.noHandlerSource = sourceID
		return
	}
	d.handler = h
}
