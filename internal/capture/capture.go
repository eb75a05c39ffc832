// Package capture defines the Capturer contract (§4.1 of the capture
// design) and the composable wrappers built over it: a block-diff-backed
// differ, a blank-frame detector, a primary/secondary fallback, and a
// screen-capture-and-crop window capturer.
package capture

import (
	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
)

// WindowIDNull is the sentinel "no window" id.
const WindowIDNull int64 = 0

// DisplayIDInvalid is the sentinel value for a source with no OS-stable
// display identifier.
const DisplayIDInvalid int64 = -1

// FullDesktopSourceID is the synthetic id of the "entire virtual screen"
// source.
const FullDesktopSourceID int64 = -1

// SourceKind distinguishes the two nameable capturable units.
type SourceKind int

const (
	SourceScreen SourceKind = iota
	SourceWindow
)

func (k SourceKind) String() string {
	switch k {
	case SourceScreen:
		return "screen"
	case SourceWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Source describes one capturable screen or window.
type Source struct {
	ID        int64
	DisplayID int64
	Kind      SourceKind
	Title     string
	ProcessID int64

	// OwnerName is a best-effort process/owner display name, used only to
	// label an untitled window's collapsed entry (§6.4).
	OwnerName string

	Rect                    geom.Rect
	Owned                   bool
	OwnerID                 int64
	VisibleOnCurrentDesktop bool
	Minimized               bool
	FullScreen              bool

	// SystemUI marks menus, docks, and OS session status indicators, which
	// §6.4 excludes from enumeration outright.
	SystemUI bool
}

// CaptureResult is the tri-state outcome of a single capture_frame call.
type CaptureResult int

const (
	ResultSuccess CaptureResult = iota
	ResultErrorTemporary
	ResultErrorPermanent
)

func (r CaptureResult) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultErrorTemporary:
		return "error_temporary"
	case ResultErrorPermanent:
		return "error_permanent"
	default:
		return "unknown"
	}
}

// Callback receives exactly one result per CaptureFrame call. f is non-nil
// iff result == ResultSuccess.
type Callback func(result CaptureResult, f *frame.SharedFrame)

// SharedMemoryFactory supplies buffers for frame pixel data. Implementations
// may degrade to heap allocation; see the shmem package.
type SharedMemoryFactory interface {
	CreateSharedMemory(size int) ([]byte, error)
}

// Capturer is the contract every raw producer and wrapper implements.
// All methods on a given Capturer, including the Callback it invokes, occur
// on one thread chosen by the embedder (§5).
type Capturer interface {
	// Start stores callback. Must be called before any CaptureFrame.
	Start(callback Callback)

	// CaptureFrame produces one result and invokes the stored callback
	// exactly once.
	CaptureFrame()

	// GetSourceList enumerates currently capturable sources. Order is
	// implementation-defined but stable within one call.
	GetSourceList() ([]Source, bool)

	// SelectSource switches subsequent CaptureFrame calls to this source.
	SelectSource(id int64) bool

	// FocusOnSelectedSource is best-effort; many implementations return
	// false.
	FocusOnSelectedSource() bool

	// SetExcludedWindow instructs the implementation to exclude a window
	// from captured pixels. Best-effort.
	SetExcludedWindow(id int64)

	// SetSharedMemoryFactory supplies an allocator for frame buffers.
	// Optional; nil disables it.
	SetSharedMemoryFactory(factory SharedMemoryFactory)

	// IsOccluded reports whether a desktop-coordinate point is hidden by
	// other windows.
	IsOccluded(p geom.Point) bool
}

// NormalizeSources applies the §6.4 source ordering and deduplication
// rules to a z-order-sorted enumeration: system UI and non-full-screen
// minimized windows are dropped; untitled windows are dropped unless their
// process also owns a titled window and an owner name is available, in
// which case all of that process's untitled windows collapse into one
// synthetic owner-named entry — which is itself dropped if a titled window
// for the same process is encountered later in the (z-ordered) list.
func NormalizeSources(sources []Source) []Source {
	hasTitled := make(map[int64]bool)
	for _, s := range sources {
		if s.Kind != SourceWindow || s.SystemUI {
			continue
		}
		if s.Minimized && !s.FullScreen {
			continue
		}
		if s.Title != "" {
			hasTitled[s.ProcessID] = true
		}
	}

	type entry struct {
		src       Source
		tombstone bool
	}
	var out []entry
	syntheticIdx := make(map[int64]int)

	for _, s := range sources {
		if s.Kind == SourceScreen {
			out = append(out, entry{src: s})
			continue
		}
		if s.SystemUI || (s.Minimized && !s.FullScreen) {
			continue
		}

		if s.Title != "" {
			if idx, ok := syntheticIdx[s.ProcessID]; ok {
				out[idx].tombstone = true
				delete(syntheticIdx, s.ProcessID)
			}
			out = append(out, entry{src: s})
			continue
		}

		if hasTitled[s.ProcessID] && s.OwnerName != "" {
			if _, exists := syntheticIdx[s.ProcessID]; exists {
				continue
			}
			synthetic := s
			synthetic.Title = s.OwnerName
			out = append(out, entry{src: synthetic})
			syntheticIdx[s.ProcessID] = len(out) - 1
		}
	}

	result := make([]Source, 0, len(out))
	for _, e := range out {
		if !e.tombstone {
			result = append(result, e.src)
		}
	}
	return result
}
