package worldmap

import "github.com/collectgame/server/internal/geom"

// Office is a fixed deposit point: touching it with a non-empty bag converts
// the bag to score (spec.md §4.4 step 4).
type Office struct {
	ID       string
	Position geom.Point
	OffsetX  int
	OffsetY  int
}

// officeRadius is the collision width used for offices as gather items
// (spec.md §4.4 step 4: "offices at (position, width=0.25)").
const officeRadius = 0.25

// LootType is a scored collectible category. Extra carries opaque front-end
// metadata (icon, display name, ...) the original source keeps alongside the
// parsed value in extra_data.h — the simulation never reads it, but GET
// /maps/{id} must echo it verbatim.
type LootType struct {
	Value int
	Extra []byte // raw JSON, round-tripped as-is
}
