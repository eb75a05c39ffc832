// Package region implements a dense 2D region algebra: a sparse set of
// pixels stored as ordered rows of horizontal spans, with add/subtract/
// intersect/translate operations and a canonicalizing rectangle iterator.
//
// The representation mirrors the row/span map the reference implementation
// builds on std::map<int, row*>, keyed by each row's bottom edge. Go has no
// ordered map in the standard library, so rows are kept as a slice sorted by
// bottom and located with binary search — acceptable, per the design notes,
// for the row counts a screen/window region ever holds.
package region

import (
	"sort"

	"github.com/opentraa/traa-sub001/internal/geom"
)

type span struct {
	left, right int32
}

type row struct {
	top, bottom int32
	spans       []span
}

// Region is a subset of the integer plane, represented as disjoint,
// horizontally-spanned rows sorted top to bottom.
type Region struct {
	rows []*row
}

// IsEmpty reports whether the region contains no pixels.
func (r *Region) IsEmpty() bool { return len(r.rows) == 0 }

// Clear resets the region to empty.
func (r *Region) Clear() { r.rows = nil }

// SetRect resets the region to contain exactly rect.
func (r *Region) SetRect(rect geom.Rect) {
	r.Clear()
	r.AddRect(rect)
}

// NewRegion builds a region covering the given rect (may be empty).
func NewRegion(rect geom.Rect) *Region {
	r := &Region{}
	r.AddRect(rect)
	return r
}

// Equals reports whether r and o contain exactly the same set of pixels, as
// represented (same row/span decomposition; since AddRect et al. always
// coalesce, two regions built differently but covering the same pixels
// compare equal).
func (r *Region) Equals(o *Region) bool {
	if len(r.rows) != len(o.rows) {
		return false
	}
	for i, rr := range r.rows {
		or := o.rows[i]
		if rr.top != or.top || rr.bottom != or.bottom || !spansEqual(rr.spans, or.spans) {
			return false
		}
	}
	return true
}

// upperBound returns the index of the first row whose bottom is > top.
func (r *Region) upperBound(top int32) int {
	return sort.Search(len(r.rows), func(i int) bool { return r.rows[i].bottom > top })
}

func insertRowAt(rows []*row, i int, nr *row) []*row {
	rows = append(rows, nil)
	copy(rows[i+1:], rows[i:])
	rows[i] = nr
	return rows
}

func cloneSpans(s []span) []span {
	out := make([]span, len(s))
	copy(out, s)
	return out
}

func spansEqual(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// mergeWithPreceding merges rows[idx] into rows[idx-1] when the two are
// vertically adjacent and carry identical spans, returning the index the
// row now lives at (idx-1 if merged, idx otherwise).
func (r *Region) mergeWithPreceding(idx int) int {
	if idx <= 0 || idx >= len(r.rows) {
		return idx
	}
	prev := r.rows[idx-1]
	cur := r.rows[idx]
	if prev.bottom == cur.top && spansEqual(prev.spans, cur.spans) {
		cur.top = prev.top
		r.rows = append(r.rows[:idx-1], r.rows[idx:]...)
		return idx - 1
	}
	return idx
}

// AddRect adds rect to the region.
func (r *Region) AddRect(rect geom.Rect) {
	if rect.IsEmpty() {
		return
	}

	top := rect.Top
	idx := r.upperBound(top)

	for top < rect.Bottom {
		switch {
		case idx >= len(r.rows) || top < r.rows[idx].top:
			bottom := rect.Bottom
			if idx < len(r.rows) && r.rows[idx].top < bottom {
				bottom = r.rows[idx].top
			}
			r.rows = insertRowAt(r.rows, idx, &row{top: top, bottom: bottom})
		case top > r.rows[idx].top:
			nr := &row{top: r.rows[idx].top, bottom: top, spans: cloneSpans(r.rows[idx].spans)}
			r.rows[idx].top = top
			r.rows = insertRowAt(r.rows, idx, nr)
			idx++
		}

		if rect.Bottom < r.rows[idx].bottom {
			nr := &row{top: top, bottom: rect.Bottom, spans: cloneSpans(r.rows[idx].spans)}
			r.rows[idx].top = rect.Bottom
			r.rows = insertRowAt(r.rows, idx, nr)
		}

		addSpanToRow(r.rows[idx], rect.Left, rect.Right)
		top = r.rows[idx].bottom

		idx = r.mergeWithPreceding(idx)
		idx++
	}

	if idx < len(r.rows) {
		r.mergeWithPreceding(idx)
	}
}

// AddRects adds every rect in rects to the region.
func (r *Region) AddRects(rects []geom.Rect) {
	for _, rect := range rects {
		r.AddRect(rect)
	}
}

// AddRegion adds every rectangle of o to r.
func (r *Region) AddRegion(o *Region) {
	for it := NewIterator(o); !it.IsAtEnd(); it.Advance() {
		r.AddRect(it.Rect())
	}
}

func addSpanToRow(r *row, left, right int32) {
	if len(r.spans) == 0 || left > r.spans[len(r.spans)-1].right {
		r.spans = append(r.spans, span{left, right})
		return
	}

	start := sort.Search(len(r.spans), func(i int) bool { return r.spans[i].right >= left })
	end := start + sort.Search(len(r.spans)-start, func(i int) bool { return r.spans[start+i].left > right })

	if end == 0 {
		r.spans = append(r.spans, span{})
		copy(r.spans[1:], r.spans[:len(r.spans)-1])
		r.spans[0] = span{left, right}
		return
	}
	end--

	if end < start {
		r.spans = append(r.spans, span{})
		copy(r.spans[start+1:], r.spans[start:len(r.spans)-1])
		r.spans[start] = span{left, right}
		return
	}

	left = min32(left, r.spans[start].left)
	right = max32(right, r.spans[end].right)
	r.spans[start] = span{left, right}
	r.spans = append(r.spans[:start+1], r.spans[end+1:]...)
}

func isSpanInRow(r *row, s span) bool {
	idx := sort.Search(len(r.spans), func(i int) bool { return r.spans[i].left >= s.left })
	return idx < len(r.spans) && r.spans[idx] == s
}

// Intersect returns the intersection of a and b as a new region.
func Intersect(a, b *Region) *Region {
	out := &Region{}
	i, j := 0, 0
	for i < len(a.rows) && j < len(b.rows) {
		ra, rb := a.rows[i], b.rows[j]

		var top, bottom int32
		if ra.top <= rb.top {
			if ra.bottom <= rb.top {
				i++
				continue
			}
			top = rb.top
			bottom = min32(ra.bottom, rb.bottom)
		} else {
			if rb.bottom <= ra.top {
				j++
				continue
			}
			top = ra.top
			bottom = min32(ra.bottom, rb.bottom)
		}

		spans := intersectSpans(ra.spans, rb.spans)
		if len(spans) > 0 {
			out.rows = append(out.rows, &row{top: top, bottom: bottom, spans: spans})
			out.mergeWithPreceding(len(out.rows) - 1)
		}

		if ra.bottom == bottom {
			i++
		}
		if rb.bottom == bottom {
			j++
		}
	}
	return out
}

func intersectSpans(a, b []span) []span {
	var out []span
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		sa, sb := a[i], b[j]

		var left, right int32
		if sa.left <= sb.left {
			if sa.right <= sb.left {
				i++
				continue
			}
			left = sb.left
			right = min32(sa.right, sb.right)
		} else {
			if sb.right <= sa.left {
				j++
				continue
			}
			left = sa.left
			right = min32(sa.right, sb.right)
		}

		out = append(out, span{left, right})
		if sa.right == right {
			i++
		}
		if sb.right == right {
			j++
		}
	}
	return out
}

// IntersectWith clips r to the pixels also present in o.
func (r *Region) IntersectWith(o *Region) {
	*r = *Intersect(r, o)
}

// IntersectWithRect clips r to rect.
func (r *Region) IntersectWithRect(rect geom.Rect) {
	r.IntersectWith(NewRegion(rect))
}

// Subtract removes every pixel of o from r.
func (r *Region) Subtract(o *Region) {
	if len(o.rows) == 0 {
		return
	}

	idxB := 0
	top := o.rows[idxB].top
	idxA := r.upperBound(top)

	for idxA < len(r.rows) && idxB < len(o.rows) {
		rowA := r.rows[idxA]
		rowB := o.rows[idxB]

		if rowA.bottom <= top {
			idxA = r.mergeWithPreceding(idxA)
			idxA++
			continue
		}

		if top > rowA.top {
			nr := &row{top: rowA.top, bottom: top, spans: cloneSpans(rowA.spans)}
			rowA.top = top
			r.rows = insertRowAt(r.rows, idxA, nr)
			idxA++
			rowA = r.rows[idxA]
		} else if top < rowA.top {
			top = rowA.top
			if top >= rowB.bottom {
				idxB++
				if idxB < len(o.rows) {
					top = o.rows[idxB].top
				}
				continue
			}
		}

		if rowB.bottom < rowA.bottom {
			bottom := rowB.bottom
			nr := &row{top: top, bottom: bottom, spans: cloneSpans(rowA.spans)}
			rowA.top = bottom
			r.rows = insertRowAt(r.rows, idxA, nr)
			rowA = nr
		}

		rowA.spans = subtractSpans(rowA.spans, rowB.spans)
		top = rowA.bottom

		if top >= rowB.bottom {
			idxB++
			if idxB < len(o.rows) {
				top = o.rows[idxB].top
			}
		}

		if len(rowA.spans) == 0 {
			r.rows = append(r.rows[:idxA], r.rows[idxA+1:]...)
		} else {
			idxA = r.mergeWithPreceding(idxA)
			idxA++
		}
	}

	if idxA < len(r.rows) {
		r.mergeWithPreceding(idxA)
	}
}

// SubtractRect removes rect's pixels from r.
func (r *Region) SubtractRect(rect geom.Rect) {
	r.Subtract(NewRegion(rect))
}

func subtractSpans(a, b []span) []span {
	var out []span
	j := 0
	for _, sa := range a {
		if j >= len(b) || sa.right < b[j].left {
			out = append(out, sa)
			continue
		}
		pos := sa.left
		for j < len(b) && b[j].left < sa.right {
			if b[j].left > pos {
				out = append(out, span{pos, b[j].left})
			}
			if b[j].right > pos {
				pos = b[j].right
				if pos >= sa.right {
					break
				}
			}
			j++
		}
		if pos < sa.right {
			out = append(out, span{pos, sa.right})
		}
	}
	return out
}

// Translate shifts every pixel of the region by (dx, dy).
func (r *Region) Translate(dx, dy int32) {
	for _, rr := range r.rows {
		rr.top += dy
		rr.bottom += dy
		if dx != 0 {
			for i := range rr.spans {
				rr.spans[i].left += dx
				rr.spans[i].right += dx
			}
		}
	}
}

// Rects returns every canonical rectangle of the region, top to bottom.
func (r *Region) Rects() []geom.Rect {
	var out []geom.Rect
	for it := NewIterator(r); !it.IsAtEnd(); it.Advance() {
		out = append(out, it.Rect())
	}
	return out
}

// Iterator walks the canonical rectangle decomposition of a Region: rows
// top to bottom, fusing vertically adjacent rows that share a span into one
// taller rectangle. The region must not be mutated while an iterator is
// live.
type Iterator struct {
	region     *Region
	rowIdx     int
	prevRowIdx int
	spanIdx    int
	rect       geom.Rect
}

// NewIterator creates an iterator over r.
func NewIterator(r *Region) *Iterator {
	it := &Iterator{region: r, rowIdx: 0, prevRowIdx: -1}
	if !it.IsAtEnd() {
		it.spanIdx = 0
		it.updateCurrentRect()
	}
	return it
}

// IsAtEnd reports whether the iterator has exhausted the region.
func (it *Iterator) IsAtEnd() bool { return it.rowIdx >= len(it.region.rows) }

// Rect returns the current rectangle.
func (it *Iterator) Rect() geom.Rect { return it.rect }

// Advance moves to the next rectangle.
func (it *Iterator) Advance() {
	for {
		it.spanIdx++
		if it.spanIdx >= len(it.region.rows[it.rowIdx].spans) {
			it.prevRowIdx = it.rowIdx
			it.rowIdx++
			if !it.IsAtEnd() {
				it.spanIdx = 0
			}
		}

		if it.IsAtEnd() {
			return
		}

		if it.prevRowIdx >= 0 {
			prevRow := it.region.rows[it.prevRowIdx]
			curRow := it.region.rows[it.rowIdx]
			if prevRow.bottom == curRow.top && isSpanInRow(prevRow, curRow.spans[it.spanIdx]) {
				continue
			}
		}
		break
	}
	it.updateCurrentRect()
}

func (it *Iterator) updateCurrentRect() {
	curRow := it.region.rows[it.rowIdx]
	sp := curRow.spans[it.spanIdx]

	bottomRowIdx := it.rowIdx
	var bottom int32
	for {
		bottom = it.region.rows[bottomRowIdx].bottom
		prevIdx := bottomRowIdx
		bottomRowIdx++
		if bottomRowIdx >= len(it.region.rows) {
			break
		}
		if it.region.rows[prevIdx].bottom != it.region.rows[bottomRowIdx].top {
			break
		}
		if !isSpanInRow(it.region.rows[bottomRowIdx], sp) {
			break
		}
	}

	it.rect = geom.RectFromLTRB(sp.left, curRow.top, sp.right, bottom)
}
