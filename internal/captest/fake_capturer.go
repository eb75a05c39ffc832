// Package captest provides a scriptable Capturer and frame-painting helpers
// for exercising the wrapper chain (differ, blank detector, fallback,
// cropping) against deterministic input instead of a real screen.
package captest

import (
	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
)

// WindowSourceID and ScreenSourceID are the two sources FakeCapturer's
// GetSourceList always reports, carried over as fixed constants so a test
// can SelectSource without first calling GetSourceList.
const (
	WindowSourceID int64 = 1378277495
	ScreenSourceID int64 = 1378277496
)

// FrameGenerator produces the next frame for a FakeCapturer to deliver, or
// nil to signal a transient capture failure. Implementations own their own
// double buffering: each call should hand back a frame the caller may freely
// mutate or retain.
type FrameGenerator interface {
	NextFrame(factory capture.SharedMemoryFactory) *frame.Frame
}

// FakeCapturer is a scriptable capture.Capturer: SetResult controls the
// result code CaptureFrame reports, SetFrameGenerator controls the frame
// content. Neither is required; a generator-less FakeCapturer reports
// ResultErrorPermanent on every CaptureFrame call, matching the original's
// behavior with no frame source configured.
type FakeCapturer struct {
	callback   capture.Callback
	result     capture.CaptureResult
	generator  FrameGenerator
	shmFactory capture.SharedMemoryFactory
	selected   int64

	numFramesCaptured  int
	numCaptureAttempts int
}

// NewFakeCapturer returns a FakeCapturer that reports Success once a frame
// generator is attached via SetFrameGenerator.
func NewFakeCapturer() *FakeCapturer {
	return &FakeCapturer{result: capture.ResultSuccess, selected: ScreenSourceID}
}

// SetResult decides the result FakeCapturer reports on the next
// CaptureFrame call (and every call after, until changed again).
func (c *FakeCapturer) SetResult(result capture.CaptureResult) {
	c.result = result
}

// SetFrameGenerator installs generator as the source of frame content.
func (c *FakeCapturer) SetFrameGenerator(generator FrameGenerator) {
	c.generator = generator
}

// NumFramesCaptured counts how many frames this instance has delivered via
// a successful callback invocation.
func (c *FakeCapturer) NumFramesCaptured() int { return c.numFramesCaptured }

// NumCaptureAttempts counts how many times CaptureFrame has been called.
func (c *FakeCapturer) NumCaptureAttempts() int { return c.numCaptureAttempts }

func (c *FakeCapturer) Start(callback capture.Callback) {
	c.callback = callback
}

func (c *FakeCapturer) CaptureFrame() {
	c.numCaptureAttempts++

	if c.generator == nil {
		c.callback(capture.ResultErrorPermanent, nil)
		return
	}
	if c.result != capture.ResultSuccess {
		c.callback(c.result, nil)
		return
	}

	fr := c.generator.NextFrame(c.shmFactory)
	if fr == nil {
		c.callback(capture.ResultErrorTemporary, nil)
		return
	}
	c.numFramesCaptured++
	c.callback(capture.ResultSuccess, frame.Wrap(fr))
}

func (c *FakeCapturer) GetSourceList() ([]capture.Source, bool) {
	return []capture.Source{
		{ID: WindowSourceID, Kind: capture.SourceWindow, Title: "A-Fake-Capturer-Window"},
		{ID: ScreenSourceID, Kind: capture.SourceScreen, Title: "A-Fake-Capturer-Screen"},
	}, true
}

func (c *FakeCapturer) SelectSource(id int64) bool {
	ok := id == WindowSourceID || id == ScreenSourceID || id == capture.FullDesktopSourceID
	if ok {
		c.selected = id
	}
	return ok
}

func (c *FakeCapturer) FocusOnSelectedSource() bool { return false }

func (c *FakeCapturer) SetExcludedWindow(id int64) {}

func (c *FakeCapturer) SetSharedMemoryFactory(factory capture.SharedMemoryFactory) {
	c.shmFactory = factory
}

func (c *FakeCapturer) IsOccluded(p geom.Point) bool { return false }
