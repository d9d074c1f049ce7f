package world

import "time"

// regenerateLoot calls the session's loot generator and places any new
// items at uniformly-chosen road points with uniformly-chosen types
// (spec.md §4.3, step 6 of §4.4).
func (s *Session) regenerateLoot(dt time.Duration) {
	n := s.lootGen.Generate(dt, len(s.Loot), len(s.Dogs))
	for i := 0; i < n; i++ {
		id := s.nextLootID
		s.nextLootID++
		s.Loot[id] = &Loot{
			ID:       id,
			Type:     s.rng.Intn(s.Map.LootTypeCount()),
			Position: s.Map.RandomRoadPoint(s.rng),
		}
	}
}
