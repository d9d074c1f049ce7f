package world

import (
	"time"

	"github.com/collectgame/server/internal/geom"
)

// State is the exported, serializable snapshot of a Session's live data
// (spec.md §4.8: Sessions are part of the persisted snapshot).
type State struct {
	MapID      string
	NextDogID  uint64
	NextLootID uint64
	Dogs       []DogState
	Loot       []LootState
}

type DogState struct {
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

type LootState struct {
	ID       uint64
	Type     int
	Position geom.Point
}

// Snapshot captures the session's current dogs, loot, and id counters.
func (s *Session) Snapshot() State {
	ids := s.sortedDogIDs()
	dogs := make([]DogState, 0, len(ids))
	for _, id := range ids {
		d := s.Dogs[id]
		dogs = append(dogs, DogState{
			ID:       d.ID,
			Name:     d.Name,
			Position: d.Position,
			Velocity: d.Velocity,
			Facing:   d.Facing,
			Bag:      append([]BagEntry(nil), d.Bag...),
			Score:    d.Score,
			InGame:   d.InGame,
			Standby:  d.Standby,
		})
	}

	lootIDs := s.sortedLootIDs()
	loot := make([]LootState, 0, len(lootIDs))
	for _, id := range lootIDs {
		l := s.Loot[id]
		loot = append(loot, LootState{ID: l.ID, Type: l.Type, Position: l.Position})
	}

	return State{
		MapID:      s.MapID,
		NextDogID:  s.nextDogID,
		NextLootID: s.nextLootID,
		Dogs:       dogs,
		Loot:       loot,
	}
}

// Restore replaces the session's dogs, loot, and id counters with st's
// contents. The session's Map/rng/lootGen are left untouched — those come
// from the live config, not the snapshot.
func (s *Session) Restore(st State) {
	s.Dogs = make(map[uint64]*Dog, len(st.Dogs))
	for _, ds := range st.Dogs {
		s.Dogs[ds.ID] = &Dog{
			ID:       ds.ID,
			Name:     ds.Name,
			Position: ds.Position,
			Velocity: ds.Velocity,
			Facing:   ds.Facing,
			Bag:      append([]BagEntry(nil), ds.Bag...),
			Score:    ds.Score,
			InGame:   ds.InGame,
			Standby:  ds.Standby,
		}
	}

	s.Loot = make(map[uint64]*Loot, len(st.Loot))
	for _, ls := range st.Loot {
		s.Loot[ls.ID] = &Loot{ID: ls.ID, Type: ls.Type, Position: ls.Position}
	}

	s.nextDogID = st.NextDogID
	s.nextLootID = st.NextLootID
}
