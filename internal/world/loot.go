package world

import "github.com/collectgame/server/internal/geom"

// Loot is a pickupable item placed on a road. LootID is unique within its
// session for the session's lifetime (spec.md §3 invariant: monotonically
// increasing, never reused).
type Loot struct {
	ID       uint64
	Type     int
	Position geom.Point
}
