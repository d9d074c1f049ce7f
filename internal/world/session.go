// Package world implements the tick-driven simulation: per-map Sessions
// owning live Dogs and Loot, advanced one Δt at a time (spec.md §4.4, the
// heart of the system).
package world

import (
	"math/rand"
	"sort"

	"github.com/collectgame/server/internal/lootgen"
	"github.com/collectgame/server/internal/worldmap"
)

// gathererWidth and officeRadius match spec.md §4.4 step 4: gatherers (dogs)
// have width 0.3; offices have width 0.25; loot has width 0.
const (
	gathererWidth = 0.3
	officeRadius  = 0.25
)

// Session is the live state of one map: its dogs, loot, and id sequences.
// A Session exclusively owns its Dogs and Loot (spec.md §3 Ownership).
type Session struct {
	MapID string
	Map   *worldmap.Map

	Dogs map[uint64]*Dog
	Loot map[uint64]*Loot

	nextDogID  uint64
	nextLootID uint64

	randomize bool
	rng       *rand.Rand
	lootGen   *lootgen.Generator
}

// NewSession creates an empty session for m. rng seeds both randomized-spawn
// placement and loot generation draws; lootGen must be constructed with the
// same rng for deterministic replay.
func NewSession(m *worldmap.Map, randomize bool, rng *rand.Rand, lootGen *lootgen.Generator) *Session {
	return &Session{
		MapID:     m.ID,
		Map:       m,
		Dogs:      make(map[uint64]*Dog),
		Loot:      make(map[uint64]*Loot),
		randomize: randomize,
		rng:       rng,
		lootGen:   lootGen,
	}
}

// SpawnDog creates a new dog at the map's spawn point (or a uniformly random
// road point, when the session randomizes spawns) and returns it.
func (s *Session) SpawnDog(name string) *Dog {
	id := s.nextDogID
	s.nextDogID++

	pos := s.Map.SpawnPoint()
	if s.randomize {
		pos = s.Map.RandomRoadPoint(s.rng)
	}

	d := &Dog{
		ID:       id,
		Name:     name,
		Position: pos,
		Facing:   North,
	}
	s.Dogs[id] = d
	return d
}

// RemoveDog deletes a dog from the session. Used by retirement.
func (s *Session) RemoveDog(id uint64) {
	delete(s.Dogs, id)
}

// sortedDogIDs returns live dog ids in ascending order, giving a
// deterministic gatherer index for FindGatherEvents.
func (s *Session) sortedDogIDs() []uint64 {
	ids := make([]uint64, 0, len(s.Dogs))
	for id := range s.Dogs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// sortedLootIDs returns live loot ids in ascending order, giving a
// deterministic item index for FindGatherEvents.
func (s *Session) sortedLootIDs() []uint64 {
	ids := make([]uint64, 0, len(s.Loot))
	for id := range s.Loot {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// itemKind distinguishes a collision item as loot or an office within the
// combined items list built for FindGatherEvents.
type itemKind int

const (
	kindLoot itemKind = iota
	kindOffice
)

type itemRef struct {
	kind      itemKind
	lootID    uint64 // valid when kind == kindLoot
	lootType  int    // valid when kind == kindLoot
	officeIdx int    // valid when kind == kindOffice
}

// RetiredDog describes a dog removed by a Tick due to idling past the
// retirement threshold.
type RetiredDog struct {
	DogID       uint64
	Name        string
	Score       int
	PlaySeconds float64
}

// TickResult reports the side effects of one Tick call that the caller
// (the player registry / façade) must react to.
type TickResult struct {
	Retired []RetiredDog
}
