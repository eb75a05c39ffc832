package region

import (
	"sync"

	"github.com/opentraa/traa-sub001/internal/geom"
)

// InvalidTracker accumulates an externally-invalidated region between
// captures on behalf of a capturer, and optionally expands it so every
// vertex lands on a grid — lossy block-based encoders need the whole
// block re-sent whenever any pixel inside it changes.
type InvalidTracker struct {
	mu            sync.Mutex
	invalid       Region
	sizeMostRecent geom.Size
	logGridSize   int
}

// NewInvalidTracker returns an empty tracker with grid expansion disabled.
func NewInvalidTracker() *InvalidTracker {
	return &InvalidTracker{}
}

// ClearInvalidRegion discards any accumulated invalid region.
func (t *InvalidTracker) ClearInvalidRegion() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalid.Clear()
}

// InvalidateRegion adds r to the accumulated invalid region.
func (t *InvalidTracker) InvalidateRegion(r *Region) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalid.AddRegion(r)
}

// InvalidateScreen invalidates the entire screen of the given size, and
// records size as SizeMostRecent.
func (t *InvalidTracker) InvalidateScreen(size geom.Size) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalid.AddRect(geom.RectFromSize(size))
	t.sizeMostRecent = size
}

// TakeInvalidRegion returns the accumulated invalid region, then clears the
// tracker's internal state for the next capture. When a grid is configured
// (SetLogGridSize > 0) the region is expanded to it and clipped to
// SizeMostRecent; otherwise it is returned unchanged and unclipped.
func (t *InvalidTracker) TakeInvalidRegion() *Region {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := &Region{}
	if t.logGridSize > 0 {
		expandToGrid(&t.invalid, t.logGridSize, result)
		result.IntersectWithRect(geom.RectFromSize(t.sizeMostRecent))
	} else {
		result.AddRegion(&t.invalid)
	}
	t.invalid.Clear()
	return result
}

// SizeMostRecent returns the size of the most recently captured screen.
func (t *InvalidTracker) SizeMostRecent() geom.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sizeMostRecent
}

// SetSizeMostRecent records size as the size of the most recently captured
// screen, used to clip grid-expanded regions.
func (t *InvalidTracker) SetSizeMostRecent(size geom.Size) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sizeMostRecent = size
}

// SetLogGridSize configures grid expansion: TakeInvalidRegion will expand
// vertices onto a grid of size 2^logGridSize. A value <= 0 disables
// expansion.
func (t *InvalidTracker) SetLogGridSize(logGridSize int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logGridSize = logGridSize
}

// ExpandToGrid expands every rectangle in r so its vertices lie on a grid
// of size 2^logGridSize, writing the result into result. logGridSize must
// be >= 1.
func ExpandToGrid(r *Region, logGridSize int, result *Region) {
	expandToGrid(r, logGridSize, result)
}

func expandToGrid(r *Region, logGridSize int, result *Region) {
	result.Clear()
	gridSize := int32(1) << uint(logGridSize)
	mask := ^(gridSize - 1)

	for _, rect := range r.Rects() {
		left := rect.Left & mask
		top := rect.Top & mask
		right := (rect.Right + gridSize - 1) & mask
		bottom := (rect.Bottom + gridSize - 1) & mask
		result.AddRect(geom.RectFromLTRB(left, top, right, bottom))
	}
}
