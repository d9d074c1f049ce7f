package world

import "github.com/collectgame/server/internal/geom"

// Move sets the dog's velocity and facing for direction dir at the given
// speed (units/second). Facing is updated immediately; actual displacement
// happens on the next Tick.
func (d *Dog) Move(dir Direction, speed float64) {
	d.Facing = dir
	switch dir {
	case North:
		d.Velocity = geom.Point{X: 0, Y: -speed}
	case South:
		d.Velocity = geom.Point{X: 0, Y: speed}
	case West:
		d.Velocity = geom.Point{X: -speed, Y: 0}
	case East:
		d.Velocity = geom.Point{X: speed, Y: 0}
	}
}

// Stop zeroes velocity while preserving facing (spec.md §6: move="" stops).
func (d *Dog) Stop() {
	d.Velocity = geom.Point{}
}
