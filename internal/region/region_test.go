package region

import (
	"reflect"
	"testing"

	"github.com/opentraa/traa-sub001/internal/geom"
)

func rectsOf(r *Region) []geom.Rect {
	out := r.Rects()
	if out == nil {
		return []geom.Rect{}
	}
	return out
}

func TestAddRectSingle(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 10, 10))
	want := []geom.Rect{geom.RectFromLTRB(0, 0, 10, 10)}
	if !reflect.DeepEqual(rectsOf(r), want) {
		t.Errorf("got %+v, want %+v", rectsOf(r), want)
	}
}

func TestAddRectVerticalMergeCanonicalizes(t *testing.T) {
	// Two rects stacked with identical horizontal extent must canonicalize
	// into a single taller rectangle, regardless of insertion order.
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 10, 5))
	r.AddRect(geom.RectFromLTRB(0, 5, 10, 10))
	want := []geom.Rect{geom.RectFromLTRB(0, 0, 10, 10)}
	if !reflect.DeepEqual(rectsOf(r), want) {
		t.Errorf("got %+v, want %+v", rectsOf(r), want)
	}
}

func TestAddRectOverlappingSpansCoalesce(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 5, 10))
	r.AddRect(geom.RectFromLTRB(3, 0, 10, 10))
	want := []geom.Rect{geom.RectFromLTRB(0, 0, 10, 10)}
	if !reflect.DeepEqual(rectsOf(r), want) {
		t.Errorf("got %+v, want %+v", rectsOf(r), want)
	}
}

func TestAddRectDisjointSpansStaySeparate(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 5, 10))
	r.AddRect(geom.RectFromLTRB(8, 0, 10, 10))
	got := rectsOf(r)
	if len(got) != 2 {
		t.Fatalf("expected a single row with two spans fused into one iterated rect set of size 2, got %+v", got)
	}
}

func TestCanonicalizationIndependentOfInsertionOrder(t *testing.T) {
	// Property: two regions built from the same set of rects in different
	// orders produce the same canonical decomposition.
	rectsA := []geom.Rect{
		geom.RectFromLTRB(0, 0, 10, 10),
		geom.RectFromLTRB(10, 0, 20, 10),
		geom.RectFromLTRB(0, 10, 20, 20),
	}
	r1 := &Region{}
	r1.AddRects(rectsA)

	rectsB := []geom.Rect{rectsA[2], rectsA[0], rectsA[1]}
	r2 := &Region{}
	r2.AddRects(rectsB)

	if !r1.Equals(r2) {
		t.Errorf("canonical form depends on insertion order: %+v vs %+v", rectsOf(r1), rectsOf(r2))
	}
}

func TestAddRegionIdempotent(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 10, 10))
	r.AddRect(geom.RectFromLTRB(5, 5, 15, 15))
	before := rectsOf(r)

	r.AddRegion(r)
	after := rectsOf(r)

	if !reflect.DeepEqual(before, after) {
		t.Errorf("AddRegion(self) changed region: before %+v after %+v", before, after)
	}
}

func TestIntersectWithSelfIdempotent(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 10, 10))
	r.AddRect(geom.RectFromLTRB(20, 20, 30, 30))
	before := rectsOf(r)

	clone := &Region{}
	clone.AddRects(before)
	r.IntersectWith(clone)

	if !reflect.DeepEqual(before, rectsOf(r)) {
		t.Errorf("IntersectWith(copy of self) changed region: before %+v after %+v", before, rectsOf(r))
	}
}

func TestSubtractSelfEmpties(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 10, 10))
	r.AddRect(geom.RectFromLTRB(20, 20, 30, 30))

	clone := &Region{}
	clone.AddRects(rectsOf(r))
	r.Subtract(clone)

	if !r.IsEmpty() {
		t.Errorf("Subtract(copy of self) left pixels: %+v", rectsOf(r))
	}
}

func TestIntersectDisjointIsEmpty(t *testing.T) {
	a := NewRegion(geom.RectFromLTRB(0, 0, 10, 10))
	b := NewRegion(geom.RectFromLTRB(20, 20, 30, 30))
	got := Intersect(a, b)
	if !got.IsEmpty() {
		t.Errorf("expected empty intersection, got %+v", rectsOf(got))
	}
}

func TestIntersectOverlap(t *testing.T) {
	a := NewRegion(geom.RectFromLTRB(0, 0, 10, 10))
	b := NewRegion(geom.RectFromLTRB(5, 5, 15, 15))
	got := Intersect(a, b)
	want := []geom.Rect{geom.RectFromLTRB(5, 5, 10, 10)}
	if !reflect.DeepEqual(rectsOf(got), want) {
		t.Errorf("got %+v, want %+v", rectsOf(got), want)
	}
}

func TestSubtractCarvesHole(t *testing.T) {
	r := NewRegion(geom.RectFromLTRB(0, 0, 10, 10))
	hole := NewRegion(geom.RectFromLTRB(3, 3, 6, 6))
	r.Subtract(hole)

	check := Intersect(r, hole)
	if !check.IsEmpty() {
		t.Errorf("subtracted region still overlaps hole: %+v", rectsOf(check))
	}

	full := NewRegion(geom.RectFromLTRB(0, 0, 10, 10))
	recombined := &Region{}
	recombined.AddRegion(r)
	recombined.AddRegion(hole)
	if !recombined.Equals(full) {
		t.Errorf("r + hole should recombine into the original rect: got %+v", rectsOf(recombined))
	}
}

func TestTranslate(t *testing.T) {
	r := NewRegion(geom.RectFromLTRB(0, 0, 10, 10))
	r.Translate(5, -3)
	want := []geom.Rect{geom.RectFromLTRB(5, -3, 15, 7)}
	if !reflect.DeepEqual(rectsOf(r), want) {
		t.Errorf("got %+v, want %+v", rectsOf(r), want)
	}
}

func TestTranslateIsSelfInverse(t *testing.T) {
	r := NewRegion(geom.RectFromLTRB(0, 0, 10, 10))
	r.AddRect(geom.RectFromLTRB(20, 5, 30, 15))
	before := rectsOf(r)

	r.Translate(7, -11)
	r.Translate(-7, 11)

	if !reflect.DeepEqual(before, rectsOf(r)) {
		t.Errorf("translate round trip failed: before %+v after %+v", before, rectsOf(r))
	}
}

func TestIteratorCanonicalizesLShape(t *testing.T) {
	// An L-shape built from two overlapping rects must decompose into
	// non-overlapping, maximally-fused rectangles regardless of how it was
	// built.
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(0, 0, 10, 20))
	r.AddRect(geom.RectFromLTRB(0, 0, 20, 10))

	got := rectsOf(r)
	total := int32(0)
	for _, rect := range got {
		total += rect.Width() * rect.Height()
	}
	// Area of the union of the two source rects (inclusion-exclusion).
	wantArea := int32(10*20) + int32(20*10) - int32(10*10)
	if total != wantArea {
		t.Errorf("decomposition area mismatch: got %d want %d (%+v)", total, wantArea, got)
	}

	// No two rects in the canonical decomposition may overlap.
	for i := 0; i < len(got); i++ {
		for j := i + 1; j < len(got); j++ {
			if !got[i].IntersectWith(got[j]).IsEmpty() {
				t.Errorf("canonical rects overlap: %+v and %+v", got[i], got[j])
			}
		}
	}
}

func TestEmptyRegionHasNoRects(t *testing.T) {
	r := &Region{}
	if !r.IsEmpty() {
		t.Error("zero-value region should be empty")
	}
	if len(r.Rects()) != 0 {
		t.Error("empty region should yield no rects")
	}
}

func TestAddRectEmptyIsNoop(t *testing.T) {
	r := &Region{}
	r.AddRect(geom.RectFromLTRB(5, 5, 5, 10))
	if !r.IsEmpty() {
		t.Error("adding an empty rect should not change the region")
	}
}
