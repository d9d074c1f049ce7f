// Package geom implements the swept-segment/point collision kernel used to
// detect pickup and deposit events between moving gatherers and static items.
package geom

// Point is a double-precision 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a directed line segment from Start to End.
type Segment struct {
	Start, End Point
}

// proximity is the result of projecting a point onto a segment.
type proximity struct {
	t        float64 // fractional projection along the segment, not clamped
	sqDist   float64 // squared perpendicular distance from the point to the projection
	moving   bool    // false when the segment is degenerate (Start == End)
}

// project computes the fractional projection of c onto segment a->b and the
// squared distance from c to that projection, per spec.md §4.1: u = b-a,
// t = dot(c-a, u) / |u|^2, perp^2 = |c - (a + t*u)|^2. Clamping to [0,1] is
// left to the caller. A degenerate segment (a == b) returns t = 0 and the
// plain point-to-point squared distance, with moving = false so that it never
// produces a collision event (a non-moving gatherer gathers nothing).
func project(a, b, c Point) proximity {
	ux, uy := b.X-a.X, b.Y-a.Y
	if ux == 0 && uy == 0 {
		dx, dy := c.X-a.X, c.Y-a.Y
		return proximity{t: 0, sqDist: dx*dx + dy*dy, moving: false}
	}
	cx, cy := c.X-a.X, c.Y-a.Y
	uSq := ux*ux + uy*uy
	t := (cx*ux + cy*uy) / uSq
	projX, projY := a.X+t*ux, a.Y+t*uy
	dx, dy := c.X-projX, c.Y-projY
	return proximity{t: t, sqDist: dx*dx + dy*dy, moving: true}
}
