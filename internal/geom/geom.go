// Package geom provides the integer-coordinate value types used throughout
// the capture pipeline: points, sizes and rectangles, plus the handful of
// algebraic operations regions and frames are built out of.
package geom

import "math"

// Point is an integer coordinate pair.
type Point struct {
	X, Y int32
}

// Pt constructs a Point.
func Pt(x, y int32) Point { return Point{X: x, Y: y} }

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Neg returns -p.
func (p Point) Neg() Point { return Point{-p.X, -p.Y} }

// Size is a width/height pair.
type Size struct {
	W, H int32
}

// Sz constructs a Size.
func Sz(w, h int32) Size { return Size{W: w, H: h} }

// IsEmpty reports whether the size has non-positive width or height.
func (s Size) IsEmpty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is a half-open rectangle [Left, Right) x [Top, Bottom).
type Rect struct {
	Left, Top, Right, Bottom int32
}

// RectFromLTRB builds a rect from its four edges.
func RectFromLTRB(left, top, right, bottom int32) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectFromXYWH builds a rect from an origin and extent.
func RectFromXYWH(x, y, w, h int32) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// RectFromWH builds a rect at the origin with the given extent.
func RectFromWH(w, h int32) Rect {
	return RectFromXYWH(0, 0, w, h)
}

// RectFromOriginSize builds a rect from an origin point and a size.
func RectFromOriginSize(origin Point, size Size) Rect {
	return RectFromXYWH(origin.X, origin.Y, size.W, size.H)
}

// RectFromSize builds a rect at the origin from a Size.
func RectFromSize(size Size) Rect {
	return RectFromWH(size.W, size.H)
}

// Width returns right-left.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns bottom-top.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// TopLeft returns the rect's origin.
func (r Rect) TopLeft() Point { return Point{r.Left, r.Top} }

// Size returns the rect's extent.
func (r Rect) Size() Size { return Size{r.Width(), r.Height()} }

// IsEmpty reports whether the rect contains no pixels.
func (r Rect) IsEmpty() bool { return r.Left >= r.Right || r.Top >= r.Bottom }

// Equals reports exact equality of all four edges.
func (r Rect) Equals(o Rect) bool {
	return r.Left == o.Left && r.Top == o.Top && r.Right == o.Right && r.Bottom == o.Bottom
}

// ContainsPoint reports whether point lies within the rect, half-open on
// both axes: x in [Left, Right), y in [Top, Bottom).
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// IntersectWith returns the intersection of r and o. An empty result is
// normalized to the all-zero rect.
func (r Rect) IntersectWith(o Rect) Rect {
	left := max32(r.Left, o.Left)
	top := max32(r.Top, o.Top)
	right := min32(r.Right, o.Right)
	bottom := min32(r.Bottom, o.Bottom)
	out := Rect{Left: left, Top: top, Right: right, Bottom: bottom}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// UnionWith extends r to cover o. Identity when either side is empty.
func (r Rect) UnionWith(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		Left:   min32(r.Left, o.Left),
		Top:    min32(r.Top, o.Top),
		Right:  max32(r.Right, o.Right),
		Bottom: max32(r.Bottom, o.Bottom),
	}
}

// Translate shifts the rect by (dx, dy).
func (r Rect) Translate(dx, dy int32) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// TranslatePoint shifts the rect by vector d.
func (r Rect) TranslatePoint(d Point) Rect { return r.Translate(d.X, d.Y) }

// Extend grows each edge by the given offsets without normalizing the
// result — left/top may end up greater than right/bottom.
func (r Rect) Extend(left, top, right, bottom int32) Rect {
	return Rect{
		Left:   r.Left - left,
		Top:    r.Top - top,
		Right:  r.Right + right,
		Bottom: r.Bottom + bottom,
	}
}

// Scale multiplies the right/bottom deltas by (sx, sy), rounded to nearest.
// Does not move the top-left corner.
func (r Rect) Scale(sx, sy float64) Rect {
	w := int32(math.Round(float64(r.Width()) * sx))
	h := int32(math.Round(float64(r.Height()) * sy))
	return Rect{
		Left:   r.Left,
		Top:    r.Top,
		Right:  r.Left + w,
		Bottom: r.Top + h,
	}
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

// DesktopConfiguration is a value snapshot of a monitor's physical-vs-DIP
// scale, mirroring the original implementation's macOS desktop_configuration.
// Carried as pure data only — no platform calls here.
type DesktopConfiguration struct {
	// DIPRect is the monitor's bounds in density-independent pixels.
	DIPRect Rect
	// PixelScale is physical pixels per DIP unit (1.0 on non-Retina/non-HiDPI
	// displays).
	PixelScale float64
}

// PixelRect converts the DIP rect to physical pixels using PixelScale.
func (c DesktopConfiguration) PixelRect() Rect {
	scale := c.PixelScale
	if scale <= 0 {
		scale = 1
	}
	return RectFromXYWH(
		int32(math.Round(float64(c.DIPRect.Left)*scale)),
		int32(math.Round(float64(c.DIPRect.Top)*scale)),
		int32(math.Round(float64(c.DIPRect.Width())*scale)),
		int32(math.Round(float64(c.DIPRect.Height())*scale)),
	)
}
