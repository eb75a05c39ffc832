// Package fullscreen substitutes a selected source for its full-screen
// companion window when an application family is known to spawn one: a
// presentation app opening a Slide Show window and minimizing its editor,
// or a browser opening a dedicated full-screen window for one tab (§4.7).
package fullscreen

import (
	"strings"

	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/geom"
)

// MinUpdateIntervalMs bounds how often Detector.UpdateWindowListIfNeeded
// actually re-enumerates: source enumeration is expensive, so callers may
// invoke it every tick and rely on the detector to throttle.
const MinUpdateIntervalMs int64 = 500

// AppHandler finds the full-screen companion of one specific source.
type AppHandler interface {
	// FindFullScreenWindow returns the companion's id, or 0 if none of the
	// family's criteria are met. sources is the latest enumeration;
	// timestamp identifies it for the handler's own candidate cache.
	FindFullScreenWindow(sources []capture.Source, timestamp int64) int64

	// SourceID is the original source this handler was built for.
	SourceID() int64
}

// MonitorProvider supplies the current monitor layout, used by handlers
// that require a candidate to occupy exactly one monitor's rectangle.
type MonitorProvider interface {
	MonitorRects() []geom.Rect
}

func isFullMonitorRect(rect geom.Rect, monitors []geom.Rect) bool {
	for _, m := range monitors {
		if rect == m {
			return true
		}
	}
	return false
}

// candidateCache holds the last filtered candidate list, invalidated when
// the caller-supplied timestamp changes. Mirrors the per-handler cache
// described by §4.7: enumeration is expensive, filtering against a stable
// snapshot is not.
type candidateCache struct {
	valid     bool
	timestamp int64
	sources   []capture.Source
}

func (c *candidateCache) filtered(sources []capture.Source, timestamp int64, keep func(capture.Source) bool) []capture.Source {
	if c.valid && c.timestamp == timestamp {
		return c.sources
	}
	c.sources = c.sources[:0]
	for _, s := range sources {
		if keep(s) {
			c.sources = append(c.sources, s)
		}
	}
	c.timestamp = timestamp
	c.valid = true
	return c.sources
}

// TitlePredicate reports whether candidateTitle is an acceptable
// full-screen companion title for originalTitle.
type TitlePredicate func(originalTitle, candidateTitle string) bool

// EqualTitlePredicate accepts only an exact title match, the rule used for
// Chrome/Chromium and Keynote full-screen windows.
func EqualTitlePredicate(originalTitle, candidateTitle string) bool {
	return originalTitle == candidateTitle
}

// GenericHandler implements the Chrome/Chromium/Keynote family: the
// companion is same-process, not the original, visible and unowned by the
// original, title-matched by predicate, and occupies exactly one monitor.
type GenericHandler struct {
	original    capture.Source
	predicate   TitlePredicate
	monitors    MonitorProvider
	cache       candidateCache
	resolver    ProcessNameResolver
	processName string
}

// NewGenericHandler builds a GenericHandler for original, using predicate
// to compare titles and monitors to confirm a candidate is full-screen.
func NewGenericHandler(original capture.Source, predicate TitlePredicate, monitors MonitorProvider) *GenericHandler {
	return &GenericHandler{original: original, predicate: predicate, monitors: monitors}
}

// WithProcessResolver snapshots original's current process name via
// resolver, so later candidate matches can be rejected if the owning pid
// was recycled by an unrelated process.
func (h *GenericHandler) WithProcessResolver(resolver ProcessNameResolver) *GenericHandler {
	h.resolver = resolver
	if resolver != nil {
		h.processName, _ = resolver.ProcessName(h.original.ProcessID)
	}
	return h
}

func (h *GenericHandler) SourceID() int64 { return h.original.ID }

func (h *GenericHandler) FindFullScreenWindow(sources []capture.Source, timestamp int64) int64 {
	if h.original.Title == "" {
		return 0
	}

	candidates := h.cache.filtered(sources, timestamp, func(s capture.Source) bool {
		return s.Kind == capture.SourceWindow &&
			s.ID != h.original.ID &&
			s.ProcessID == h.original.ProcessID &&
			s.VisibleOnCurrentDesktop &&
			!(s.Owned && s.OwnerID == h.original.ID) &&
			sameProcessName(h.resolver, h.processName, s.ProcessID)
	})

	for _, c := range candidates {
		if c.Title == "" {
			continue
		}
		if h.predicate != nil && !h.predicate(h.original.Title, c.Title) {
			continue
		}
		if isFullMonitorRect(c.Rect, h.monitors.MonitorRects()) {
			return c.ID
		}
	}
	return 0
}

// powerPointSlideShowTitles lists the localized "PowerPoint Slide Show"
// window title prefixes, carried verbatim from the application this was
// ported from rather than re-derived, since there is no algorithmic way to
// produce them.
var powerPointSlideShowTitles = []string{
	"PowerPoint-Bildschirmpräsentation",
	"Προβολή παρουσίασης PowerPoint",
	"PowerPoint スライド ショー",
	"PowerPoint Slide Show",
	"PowerPoint 幻灯片放映",
	"Presentación de PowerPoint",
	"PowerPoint-slideshow",
	"Presentazione di PowerPoint",
	"Prezentácia programu PowerPoint",
	"Apresentação do PowerPoint",
	"PowerPoint-bildspel",
	"Prezentace v aplikaci PowerPoint",
	"PowerPoint 슬라이드 쇼",
	"PowerPoint-lysbildefremvisning",
	"PowerPoint-vetítés",
	"PowerPoint Slayt Gösterisi",
	"Pokaz slajdów programu PowerPoint",
	"PowerPoint 投影片放映",
	"Демонстрация PowerPoint",
	"Diaporama PowerPoint",
	"PowerPoint-diaesitys",
	"Peragaan Slide PowerPoint",
	"PowerPoint-diavoorstelling",
	"การนำเสนอสไลด์ PowerPoint",
	"Apresentação de slides do PowerPoint",
	"הצגת שקופיות של PowerPoint",
	"عرض شرائح في PowerPoint",
}

// PowerPointHandler implements the slide-show family: the companion's title
// must begin with one of the closed set of localized slide-show titles and
// name the same document as the original (editor) window's title, where the
// document name is whatever falls on either side of the " - " separator
// PowerPoint's own title format uses. The original window is never excluded
// as a candidate disqualifier, since it is usually minimized once the show
// starts.
type PowerPointHandler struct {
	original    capture.Source
	cache       candidateCache
	resolver    ProcessNameResolver
	processName string
}

func NewPowerPointHandler(original capture.Source) *PowerPointHandler {
	return &PowerPointHandler{original: original}
}

// WithProcessResolver snapshots original's current process name; see
// GenericHandler.WithProcessResolver.
func (h *PowerPointHandler) WithProcessResolver(resolver ProcessNameResolver) *PowerPointHandler {
	h.resolver = resolver
	if resolver != nil {
		h.processName, _ = resolver.ProcessName(h.original.ProcessID)
	}
	return h
}

func (h *PowerPointHandler) SourceID() int64 { return h.original.ID }

func (h *PowerPointHandler) FindFullScreenWindow(sources []capture.Source, timestamp int64) int64 {
	if h.original.Title == "" {
		return 0
	}
	originalDocument := documentFromEditorTitle(h.original.Title)

	candidates := h.cache.filtered(sources, timestamp, func(s capture.Source) bool {
		return s.Kind == capture.SourceWindow && s.ProcessID == h.original.ProcessID &&
			sameProcessName(h.resolver, h.processName, s.ProcessID)
	})

	for _, c := range candidates {
		if c.Title == "" || !hasSlideShowPrefix(c.Title) {
			continue
		}
		if documentFromSlideShowTitle(c.Title) == originalDocument {
			return c.ID
		}
	}
	return 0
}

func hasSlideShowPrefix(title string) bool {
	for _, prefix := range powerPointSlideShowTitles {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// documentTitleSeparator splits a PowerPoint window title into its document
// name and window-role parts, e.g. "Deck - PowerPoint" or
// "PowerPoint Slide Show - Deck".
const documentTitleSeparator = " - "

// documentFromEditorTitle extracts the document name from an editor window's
// title: everything before the first separator.
func documentFromEditorTitle(title string) string {
	if idx := strings.Index(title, documentTitleSeparator); idx >= 0 {
		return strings.TrimSpace(title[:idx])
	}
	return strings.TrimSpace(title)
}

// documentFromSlideShowTitle extracts the document name from a slide-show
// window's title. With two or more separators the document is the text
// between the first and the last separator; with one, everything after it;
// with none, the whole title.
func documentFromSlideShowTitle(title string) string {
	left := strings.Index(title, documentTitleSeparator)
	right := strings.LastIndex(title, documentTitleSeparator)
	if left < 0 || right < 0 {
		return strings.TrimSpace(title)
	}
	sepLen := len(documentTitleSeparator)
	if right > left+sepLen {
		return strings.TrimSpace(title[left+sepLen : right])
	}
	return strings.TrimSpace(title[left+sepLen:])
}

// OpenOfficeHandler implements the Impress family: disambiguation depends
// on there being exactly one document window for the process (an empty
// title slide-show window can't otherwise be matched to its document), and
// the slide-show candidate itself is the one same-process window with an
// empty title occupying a full monitor.
type OpenOfficeHandler struct {
	original    capture.Source
	monitors    MonitorProvider
	cache       candidateCache
	resolver    ProcessNameResolver
	processName string
}

func NewOpenOfficeHandler(original capture.Source, monitors MonitorProvider) *OpenOfficeHandler {
	return &OpenOfficeHandler{original: original, monitors: monitors}
}

// WithProcessResolver snapshots original's current process name; see
// GenericHandler.WithProcessResolver.
func (h *OpenOfficeHandler) WithProcessResolver(resolver ProcessNameResolver) *OpenOfficeHandler {
	h.resolver = resolver
	if resolver != nil {
		h.processName, _ = resolver.ProcessName(h.original.ProcessID)
	}
	return h
}

func (h *OpenOfficeHandler) SourceID() int64 { return h.original.ID }

func (h *OpenOfficeHandler) FindFullScreenWindow(sources []capture.Source, timestamp int64) int64 {
	candidates := h.cache.filtered(sources, timestamp, func(s capture.Source) bool {
		return s.Kind == capture.SourceWindow && s.ProcessID == h.original.ProcessID &&
			sameProcessName(h.resolver, h.processName, s.ProcessID)
	})

	for _, c := range candidates {
		if c.Title != "" && c.Title != h.original.Title {
			return 0
		}
	}

	for _, c := range candidates {
		if c.Title == "" && isFullMonitorRect(c.Rect, h.monitors.MonitorRects()) {
			return c.ID
		}
	}
	return 0
}
