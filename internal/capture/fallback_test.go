package capture

import (
	"testing"

	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
)

type countingCapturer struct {
	stubCapturer
	captureCalls int
	selectResult bool
	selectCalls  int
	focusResult  bool
	occluded     bool
}

func newCountingCapturer(selectResult bool) *countingCapturer {
	return &countingCapturer{selectResult: selectResult}
}

func (c *countingCapturer) CaptureFrame()          { c.captureCalls++ }
func (c *countingCapturer) SelectSource(id int64) bool {
	c.selectCalls++
	return c.selectResult
}
func (c *countingCapturer) FocusOnSelectedSource() bool { return c.focusResult }
func (c *countingCapturer) IsOccluded(p geom.Point) bool { return c.occluded }

func TestFallbackWrapperUsesPrimaryUntilPermanentError(t *testing.T) {
	primary := newCountingCapturer(true)
	secondary := newCountingCapturer(true)
	w := NewFallbackWrapper(primary, secondary)

	var results []CaptureResult
	w.Start(func(result CaptureResult, f *frame.SharedFrame) { results = append(results, result) })

	f := frame.Wrap(solidFrame(4, 4, 0))
	primary.callback(ResultSuccess, f)

	if len(results) != 1 || results[0] != ResultSuccess {
		t.Fatalf("results = %v, want [Success] from primary", results)
	}
	if secondary.captureCalls != 0 {
		t.Fatalf("secondary should not be driven while primary succeeds")
	}
}

func TestFallbackWrapperTemporaryErrorDoesNotLatch(t *testing.T) {
	primary := newCountingCapturer(true)
	secondary := newCountingCapturer(true)
	w := NewFallbackWrapper(primary, secondary)
	w.Start(func(result CaptureResult, f *frame.SharedFrame) {})

	primary.callback(ResultErrorTemporary, nil)
	if secondary.captureCalls != 1 {
		t.Fatalf("secondary.CaptureFrame should run once after a temporary primary error")
	}

	w.CaptureFrame()
	if primary.captureCalls != 1 {
		t.Fatalf("a merely-temporary error must not latch: primary should still be tried")
	}
}

func TestFallbackWrapperPermanentErrorLatchesToSecondary(t *testing.T) {
	primary := newCountingCapturer(true)
	secondary := newCountingCapturer(true)
	w := NewFallbackWrapper(primary, secondary)
	w.Start(func(result CaptureResult, f *frame.SharedFrame) {})

	primary.callback(ResultErrorPermanent, nil)
	if secondary.captureCalls != 1 {
		t.Fatalf("secondary.CaptureFrame should run once after a permanent primary error")
	}

	w.CaptureFrame()
	if primary.captureCalls != 0 {
		t.Fatalf("primary must not be driven again once latched")
	}
	if secondary.captureCalls != 2 {
		t.Fatalf("secondary should be driven directly once latched")
	}
}

func TestFallbackWrapperSelectSourceArmsSecondaryRegardless(t *testing.T) {
	primary := newCountingCapturer(false)
	secondary := newCountingCapturer(true)
	w := NewFallbackWrapper(primary, secondary)
	w.Start(func(result CaptureResult, f *frame.SharedFrame) {})

	ok := w.SelectSource(5)
	if !ok {
		t.Fatalf("SelectSource should report secondary's result")
	}
	if secondary.selectCalls != 1 {
		t.Fatalf("secondary.SelectSource should always be called")
	}

	w.CaptureFrame()
	if primary.captureCalls != 0 || secondary.captureCalls != 1 {
		t.Fatalf("primary's SelectSource failure should latch to secondary")
	}
}

func TestFallbackWrapperIsOccludedORsBothUntilLatched(t *testing.T) {
	primary := newCountingCapturer(true)
	secondary := newCountingCapturer(true)
	primary.occluded = true
	w := NewFallbackWrapper(primary, secondary)
	w.Start(func(result CaptureResult, f *frame.SharedFrame) {})

	if !w.IsOccluded(geom.Pt(1, 1)) {
		t.Fatalf("IsOccluded should OR primary and secondary before latching")
	}

	primary.callback(ResultErrorPermanent, nil)
	primary.occluded = false
	secondary.occluded = true
	if !w.IsOccluded(geom.Pt(1, 1)) {
		t.Fatalf("IsOccluded should defer entirely to secondary once latched")
	}
}
