package worldmap

import "github.com/collectgame/server/internal/geom"

// Orientation distinguishes horizontal from vertical roads. The data model
// only supports axis-aligned segments (spec.md §3).
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// roadHalfWidth is the corridor half-width: a road is a "street" 0.4 units
// wide on each side of its centerline (spec.md §4.2).
const roadHalfWidth = 0.4

// Road is an immutable axis-aligned segment with integer endpoints.
type Road struct {
	Orientation Orientation
	Start, End  geom.Point
}

// Corridor is the axis-aligned rectangle obtained by inflating a road's
// centerline by roadHalfWidth on every side.
type Corridor struct {
	XMin, XMax, YMin, YMax float64
}

// Contains reports whether p lies within the corridor, bounds inclusive.
func (c Corridor) Contains(p geom.Point) bool {
	return p.X >= c.XMin && p.X <= c.XMax && p.Y >= c.YMin && p.Y <= c.YMax
}

func (r Road) corridor() Corridor {
	x0, x1 := r.Start.X, r.End.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := r.Start.Y, r.End.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Corridor{
		XMin: x0 - roadHalfWidth,
		XMax: x1 + roadHalfWidth,
		YMin: y0 - roadHalfWidth,
		YMax: y1 + roadHalfWidth,
	}
}

// length returns the road's centerline length.
func (r Road) length() float64 {
	dx, dy := r.End.X-r.Start.X, r.End.Y-r.Start.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy // roads are axis-aligned, so one of dx/dy is always 0
}

// PointAt returns the point a fraction t (0..1) of the way from Start to End.
func (r Road) PointAt(t float64) geom.Point {
	return geom.Point{
		X: r.Start.X + t*(r.End.X-r.Start.X),
		Y: r.Start.Y + t*(r.End.Y-r.Start.Y),
	}
}
