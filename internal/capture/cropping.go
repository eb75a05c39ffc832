package capture

import (
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

// WindowInfo is the platform-neutral snapshot of a window's state that
// CroppingWindowCapturer's decision procedure needs. A WindowInfoProvider
// supplies it without the procedure itself touching any window-manager API,
// which is what keeps ShouldUseScreenCapturer testable (§4.6).
type WindowInfo struct {
	Exists                  bool
	VisibleOnCurrentDesktop bool
	Minimized               bool

	// Translucent covers both per-pixel-alpha layered windows and
	// window-wide alpha below 255, and color-keyed layered windows: any of
	// these disqualify the window from screen-and-crop capture.
	Translucent bool

	// HasRegion, RegionComplex and RegionRect describe the window's region
	// (GetWindowRgn equivalent): no region at all means "use the window
	// rect as-is"; a COMPLEXREGION disqualifies cropping; a SIMPLEREGION
	// clips ContentRect to RegionRect.
	HasRegion     bool
	RegionComplex bool
	RegionRect    geom.Rect

	// ContentRect is the window's bounds in full virtual-screen coordinates
	// (the top-left monitor starts at (0, 0)).
	ContentRect geom.Rect
}

// WindowInfoProvider abstracts the window-manager queries
// CroppingWindowCapturer's decision procedure needs, so it can run against
// a fake in tests instead of real OS state.
type WindowInfoProvider interface {
	WindowInfo(id int64) WindowInfo
	VirtualScreenRect() geom.Rect

	// IsOccludedByOtherWindow reports whether any top-level window other
	// than excluded and windows owned by id overlaps contentRect above id
	// in z-order.
	IsOccludedByOtherWindow(id int64, excluded int64, contentRect geom.Rect) bool
}

// CroppingWindowCapturer captures the whole screen and crops to the
// selected window's rectangle when doing so is safe (§4.6), falling back to
// an ordinary window capturer otherwise.
type CroppingWindowCapturer struct {
	windowCapturer Capturer
	screenCapturer Capturer
	provider       WindowInfoProvider

	callback       Callback
	selectedWindow int64
	excludedWindow int64
	logGridSize    int
}

// SetLogGridSize expands each cropped frame's updated region onto a grid of
// size 2^logGridSize before delivery, for downstream encoders that need
// block-aligned damage. A value <= 0 disables expansion.
func (c *CroppingWindowCapturer) SetLogGridSize(logGridSize int) {
	c.logGridSize = logGridSize
}

// NewCroppingWindowCapturer composes a window capturer and a screen
// capturer behind the §4.6 should-use-screen-capturer decision procedure.
func NewCroppingWindowCapturer(windowCapturer, screenCapturer Capturer, provider WindowInfoProvider) *CroppingWindowCapturer {
	return &CroppingWindowCapturer{
		windowCapturer: windowCapturer,
		screenCapturer: screenCapturer,
		provider:       provider,
	}
}

func (c *CroppingWindowCapturer) Start(callback Callback) {
	c.callback = callback
	c.windowCapturer.Start(callback)
	c.screenCapturer.Start(c.onScreenCaptureResult)
}

func (c *CroppingWindowCapturer) CaptureFrame() {
	if c.shouldUseScreenCapturer() {
		c.screenCapturer.CaptureFrame()
		return
	}
	c.windowCapturer.CaptureFrame()
}

func (c *CroppingWindowCapturer) GetSourceList() ([]Source, bool) {
	return c.windowCapturer.GetSourceList()
}

func (c *CroppingWindowCapturer) SelectSource(id int64) bool {
	c.selectedWindow = id
	return c.windowCapturer.SelectSource(id)
}

func (c *CroppingWindowCapturer) FocusOnSelectedSource() bool {
	return c.windowCapturer.FocusOnSelectedSource()
}

func (c *CroppingWindowCapturer) SetExcludedWindow(id int64) {
	c.excludedWindow = id
	c.windowCapturer.SetExcludedWindow(id)
}

func (c *CroppingWindowCapturer) SetSharedMemoryFactory(f SharedMemoryFactory) {
	c.windowCapturer.SetSharedMemoryFactory(f)
	c.screenCapturer.SetSharedMemoryFactory(f)
}

func (c *CroppingWindowCapturer) IsOccluded(p geom.Point) bool {
	return c.windowCapturer.IsOccluded(p) || c.screenCapturer.IsOccluded(p)
}

// shouldUseScreenCapturer implements the five-point decision procedure of
// §4.6.
func (c *CroppingWindowCapturer) shouldUseScreenCapturer() bool {
	info := c.provider.WindowInfo(c.selectedWindow)
	if !info.Exists || !info.VisibleOnCurrentDesktop || info.Minimized {
		return false
	}
	if info.Translucent {
		return false
	}

	contentRect := c.effectiveContentRect(info)
	if info.HasRegion && info.RegionComplex {
		return false
	}

	if !c.provider.VirtualScreenRect().ContainsRect(contentRect) {
		return false
	}
	if c.provider.IsOccludedByOtherWindow(c.selectedWindow, c.excludedWindow, contentRect) {
		return false
	}
	return true
}

func (c *CroppingWindowCapturer) effectiveContentRect(info WindowInfo) geom.Rect {
	if info.HasRegion && !info.RegionComplex {
		return info.ContentRect.IntersectWith(info.RegionRect)
	}
	return info.ContentRect
}

func (c *CroppingWindowCapturer) onScreenCaptureResult(result CaptureResult, f *frame.SharedFrame) {
	if result != ResultSuccess || f == nil {
		c.callback(result, f)
		return
	}

	info := c.provider.WindowInfo(c.selectedWindow)
	contentRect := c.effectiveContentRect(info)

	fr := f.Frame()
	local := contentRect.Translate(-fr.TopLeft.X, -fr.TopLeft.Y).IntersectWith(fr.Rect())
	if local.IsEmpty() {
		c.callback(ResultErrorTemporary, nil)
		return
	}

	cropped := cropFrame(fr, local)
	if c.logGridSize > 0 {
		var expanded region.Region
		region.ExpandToGrid(&cropped.UpdatedRegion, c.logGridSize, &expanded)
		expanded.IntersectWithRect(cropped.Rect())
		cropped.UpdatedRegion = expanded
	}
	c.callback(ResultSuccess, frame.Wrap(cropped))
}

// cropFrame copies the pixels of rect (in fr's local coordinates) into a new
// top-down frame, and carries over the part of fr's updated region that
// falls inside rect, translated into the cropped frame's coordinates.
func cropFrame(fr *frame.Frame, rect geom.Rect) *frame.Frame {
	out := frame.New(rect.Size())
	leftBytes := int(rect.Left) * frame.BytesPerPixel
	rightBytes := int(rect.Right) * frame.BytesPerPixel
	for y := int32(0); y < rect.Height(); y++ {
		srcRow := fr.RowData(rect.Top + y)
		dstRow := out.RowData(y)
		copy(dstRow, srcRow[leftBytes:rightBytes])
	}

	updated := fr.UpdatedRegion
	updated.IntersectWithRect(rect)
	updated.Translate(-rect.Left, -rect.Top)
	if updated.IsEmpty() {
		out.UpdatedRegion.SetRect(out.Rect())
	} else {
		out.UpdatedRegion = updated
	}
	out.CaptureTime = fr.CaptureTime
	out.CapturerID = fr.CapturerID
	out.MayContainCursor = fr.MayContainCursor
	return out
}
