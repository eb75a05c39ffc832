// Package platform holds the one raw, non-wrapped Capturer implementation
// this module ships: a cross-platform screen grabber sitting behind the
// same Capturer contract the DirectX/WGC/X11/Wayland/SCK producers would
// occupy on a platform where those backends are available.
package platform

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/vova616/screenshot"

	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/logging"
)

var log = logging.L("platform")

// GenericCapturer captures whole displays via github.com/vova616/screenshot.
// It has no concept of windows: GetSourceList only ever returns screen
// sources, SetExcludedWindow is a no-op, and IsOccluded always reports
// false since nothing sits above a screen capture by definition.
type GenericCapturer struct {
	callback    capture.Callback
	selectedID  int64
	shmFactory  capture.SharedMemoryFactory
	scaleFactor float64
}

// NewGenericCapturer returns a GenericCapturer with FullDesktopSourceID
// selected.
func NewGenericCapturer() *GenericCapturer {
	return &GenericCapturer{selectedID: capture.FullDesktopSourceID, scaleFactor: 1.0}
}

// SetScaleFactor downscales every subsequently captured frame by factor
// (0 < factor <= 1.0, matching the same range the remote-desktop streamer
// config uses). Values outside that range are treated as 1.0: no scaling.
func (g *GenericCapturer) SetScaleFactor(factor float64) {
	g.scaleFactor = factor
}

func (g *GenericCapturer) Start(callback capture.Callback) {
	g.callback = callback
}

func (g *GenericCapturer) GetSourceList() ([]capture.Source, bool) {
	n := screenshot.NumActiveDisplays()
	sources := make([]capture.Source, 0, n+1)

	full := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		full = full.Union(screenshot.GetDisplayBounds(i))
	}
	sources = append(sources, capture.Source{
		ID:        capture.FullDesktopSourceID,
		DisplayID: capture.DisplayIDInvalid,
		Kind:      capture.SourceScreen,
		Title:     "Entire screen",
		Rect:      rectFromImageRect(full),
	})

	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		sources = append(sources, capture.Source{
			ID:        int64(i),
			DisplayID: int64(i),
			Kind:      capture.SourceScreen,
			Title:     fmt.Sprintf("Display %d", i+1),
			Rect:      rectFromImageRect(bounds),
		})
	}

	return sources, true
}

func (g *GenericCapturer) SelectSource(id int64) bool {
	if id == capture.FullDesktopSourceID {
		g.selectedID = id
		return true
	}
	n := screenshot.NumActiveDisplays()
	if id < 0 || id >= int64(n) {
		log.Warn("select source failed", logging.KeySourceID, id, logging.KeyError, capture.ErrSourceNotFound)
		return false
	}
	g.selectedID = id
	return true
}

func (g *GenericCapturer) FocusOnSelectedSource() bool { return false }

func (g *GenericCapturer) SetExcludedWindow(id int64) {}

func (g *GenericCapturer) SetSharedMemoryFactory(factory capture.SharedMemoryFactory) {
	g.shmFactory = factory
}

func (g *GenericCapturer) IsOccluded(p geom.Point) bool { return false }

func (g *GenericCapturer) CaptureFrame() {
	img, bounds, err := g.grab()
	if err != nil {
		var cerr *capture.CaptureError
		result := capture.ResultErrorTemporary
		if errors.As(err, &cerr) && (cerr.Kind == capture.KindPermanent || cerr.Kind == capture.KindUnsupported) {
			result = capture.ResultErrorPermanent
		}
		log.Warn("capture frame failed", logging.KeyResult, result.String(), logging.KeyError, err)
		g.callback(result, nil)
		return
	}

	f := rgbaToFrame(img, bounds, g.shmFactory)
	f.UpdatedRegion.AddRect(f.Rect())
	if g.scaleFactor > 0 && g.scaleFactor < 1.0 {
		f = ScaleFrame(f, g.scaleFactor, g.shmFactory)
	}
	g.callback(capture.ResultSuccess, frame.Wrap(f))
}

func (g *GenericCapturer) grab() (*image.RGBA, image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, image.Rectangle{}, capture.NewCaptureError("grab", capture.KindPermanent, capture.ErrDisplayNotFound)
	}

	if g.selectedID == capture.FullDesktopSourceID {
		img, err := screenshot.CaptureScreen()
		if err != nil {
			return nil, image.Rectangle{}, classifyGrabError(err)
		}
		return img, img.Bounds(), nil
	}

	bounds := screenshot.GetDisplayBounds(int(g.selectedID))
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, image.Rectangle{}, classifyGrabError(err)
	}
	return img, bounds, nil
}

// classifyGrabError wraps a raw screenshot-library failure into a
// CaptureError, sorting it into the §7 permanent/temporary/unsupported
// taxonomy by inspecting the underlying message: the library surfaces
// platform capture-API failures as plain errors with no sentinel type of
// its own to match on.
func classifyGrabError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission") || strings.Contains(msg, "denied") || strings.Contains(msg, "access is denied"):
		return capture.NewCaptureError("grab", capture.KindPermanent, capture.ErrPermissionDenied)
	case strings.Contains(msg, "not supported") || strings.Contains(msg, "unsupported") || strings.Contains(msg, "not implemented"):
		return capture.NewCaptureError("grab", capture.KindUnsupported, capture.ErrNotSupported)
	case strings.Contains(msg, "session 0") || strings.Contains(msg, "non-interactive"):
		return capture.NewCaptureError("grab", capture.KindPermanent, capture.ErrUnsupportedSession)
	default:
		return capture.NewCaptureError("grab", capture.KindTemporary, err)
	}
}

func rectFromImageRect(r image.Rectangle) geom.Rect {
	return geom.RectFromLTRB(int32(r.Min.X), int32(r.Min.Y), int32(r.Max.X), int32(r.Max.Y))
}

// rgbaToFrame copies img's RGBA pixels into a BGRA8 frame.Frame, allocating
// its buffer through factory when supplied.
func rgbaToFrame(img *image.RGBA, bounds image.Rectangle, factory capture.SharedMemoryFactory) *frame.Frame {
	size := geom.Size{W: int32(bounds.Dx()), H: int32(bounds.Dy())}
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

	f := &frame.Frame{
		Size:   size,
		Stride: stride,
		Pix:    pix,
		TopLeft: geom.Point{X: int32(bounds.Min.X), Y: int32(bounds.Min.Y)},
	}

	for y := 0; y < bounds.Dy(); y++ {
		srcOff := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		src := img.Pix[srcOff : srcOff+bounds.Dx()*4]
		dst := f.RowData(int32(y))
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, a := src[x*4], src[x*4+1], src[x*4+2], src[x*4+3]
			dst[x*4+0] = b
			dst[x*4+1] = g
			dst[x*4+2] = r
			dst[x*4+3] = a
		}
	}

	return f
}
