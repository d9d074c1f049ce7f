package world

import (
	"time"

	"github.com/collectgame/server/internal/geom"
)

// Direction is the facing of a dog. Velocity and direction are set together
// by a move action; a stop action zeroes velocity but preserves facing
// (spec.md §6: "move=\"\" means stop ... preserves facing").
type Direction int

const (
	North Direction = iota
	South
	West
	East
)

// BagEntry is one item carried in a dog's bag, keyed by the lootId it had
// before pickup (spec.md §3: "bag: ordered map lootId→lootType").
type BagEntry struct {
	LootID   uint64
	LootType int
}

// Dog is a live in-world avatar. Created on Join, destroyed on retirement
// (spec.md §3).
type Dog struct {
	ID       uint64
	Name     string
	Position geom.Point
	Velocity geom.Point
	Facing   Direction
	Bag      []BagEntry
	Score    int
	InGame   time.Duration
	Standby  time.Duration
}

// bagFull reports whether the dog's bag is at the map's capacity.
func (d *Dog) bagFull(capacity int) bool {
	return len(d.Bag) >= capacity
}
