package snapshot

import (
	"time"

	"github.com/collectgame/server/internal/geom"
)

func pointXY(x, y float64) geom.Point {
	return geom.Point{X: x, Y: y}
}

func durationOf(nanos int64) time.Duration {
	return time.Duration(nanos)
}
