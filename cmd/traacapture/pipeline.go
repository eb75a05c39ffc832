package main

import (
	"strings"
	"time"

	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/config"
	"github.com/opentraa/traa-sub001/internal/fullscreen"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/platform"
	"github.com/opentraa/traa-sub001/internal/shmem"
)

// buildCapturer wires a GenericCapturer through the same wrapper stack
// config.Options describes (§6.1): blank detection always, block-diffing
// when DetectUpdatedRegion is set, and a heap shared-memory factory.
// Full-screen detection is not part of this stack; buildDetector builds it
// separately. Wrappers are stacked innermost first so the differ sees the
// blank detector's already-filtered stream.
func buildCapturer(opts *config.Options) capture.Capturer {
	gen := platform.NewGenericCapturer()
	if opts.ScaleFactor > 0 {
		gen.SetScaleFactor(opts.ScaleFactor)
	}

	var c capture.Capturer = gen
	c = capture.NewBlankDetectorWrapper(c, capture.BGRAPixel{}, false, opts.BlankDetectorSampleStride)
	if opts.DetectUpdatedRegion {
		c = capture.NewDifferWrapper(c)
	}

	c.SetSharedMemoryFactory(shmem.NewHeapFactory())
	return c
}

// buildDetector returns a fullscreen.Detector whose handler factory builds a
// handler for whichever source id it is asked about, or nil when
// config.Options disables full-screen redirection. c supplies the source
// list a handler is built from, matching each source's owning
// process name to the known presentation-app executables the way
// create_full_screen_app_handler does.
func buildDetector(opts *config.Options, c capture.Capturer) *fullscreen.Detector {
	if !opts.FullScreenWindowDetectorEnabled {
		return nil
	}
	factory := func(sourceID int64) fullscreen.AppHandler {
		sources, ok := c.GetSourceList()
		if !ok {
			return nil
		}
		for _, src := range sources {
			if src.ID != sourceID {
				continue
			}
			name, _ := fullscreen.DefaultProcessNameResolver.ProcessName(src.ProcessID)
			switch {
			case strings.EqualFold(name, "powerpnt.exe"):
				return fullscreen.NewPowerPointHandler(src).WithProcessResolver(fullscreen.DefaultProcessNameResolver)
			case strings.EqualFold(name, "soffice.bin") && strings.Contains(strings.ToLower(src.Title), "openoffice impress"):
				return fullscreen.NewOpenOfficeHandler(src, noMonitors{}).WithProcessResolver(fullscreen.DefaultProcessNameResolver)
			default:
				return fullscreen.NewGenericHandler(src, fullscreen.EqualTitlePredicate, noMonitors{}).WithProcessResolver(fullscreen.DefaultProcessNameResolver)
			}
		}
		return nil
	}
	return fullscreen.NewDetector(factory, func() int64 { return time.Now().UnixMilli() })
}

// noMonitors is a MonitorProvider with no known monitor layout; handlers
// that require a candidate to fill exactly one monitor rect simply never
// match, which is the safe degrade for a CLI that hasn't queried displays.
type noMonitors struct{}

func (noMonitors) MonitorRects() []geom.Rect { return nil }
