// Package worldmap models the immutable per-map topology: roads, offices,
// and the loot-type value table, plus the precomputed road corridors used
// for "which road am I on" queries during a tick (spec.md §4.2).
package worldmap

import (
	"math/rand"

	"github.com/collectgame/server/internal/geom"
)

// Map is created at load and never mutated afterward; Sessions hold a
// non-owning back-reference to their Map (spec.md §3 Ownership).
type Map struct {
	ID          string
	Name        string
	Roads       []Road
	Buildings   []Building
	Offices     []Office
	LootTypes   []LootType
	DogSpeed    float64
	BagCapacity int

	horCorridors  []Corridor
	vertCorridors []Corridor
}

// New builds a Map and precomputes its road corridors.
func New(id, name string, roads []Road, offices []Office, lootTypes []LootType, dogSpeed float64, bagCapacity int) *Map {
	m := &Map{
		ID:          id,
		Name:        name,
		Roads:       roads,
		Offices:     offices,
		LootTypes:   lootTypes,
		DogSpeed:    dogSpeed,
		BagCapacity: bagCapacity,
	}
	for _, r := range roads {
		c := r.corridor()
		if r.Orientation == Horizontal {
			m.horCorridors = append(m.horCorridors, c)
		} else {
			m.vertCorridors = append(m.vertCorridors, c)
		}
	}
	return m
}

// LootTypeCount returns the number of loot types defined for this map.
func (m *Map) LootTypeCount() int {
	return len(m.LootTypes)
}

// LootValue returns the score value of a loot type; callers must ensure
// 0 <= lootType < LootTypeCount().
func (m *Map) LootValue(lootType int) int {
	return m.LootTypes[lootType].Value
}

// FindHorRoad returns any horizontal corridor containing p. At
// intersections a point may simultaneously lie in one of each orientation;
// the caller decides which to prefer (spec.md §4.2).
func (m *Map) FindHorRoad(p geom.Point) (Corridor, bool) {
	for _, c := range m.horCorridors {
		if c.Contains(p) {
			return c, true
		}
	}
	return Corridor{}, false
}

// FindVertRoad returns any vertical corridor containing p.
func (m *Map) FindVertRoad(p geom.Point) (Corridor, bool) {
	for _, c := range m.vertCorridors {
		if c.Contains(p) {
			return c, true
		}
	}
	return Corridor{}, false
}

// Contains reports whether p lies inside the union of all road corridors
// (spec.md §8 invariant: every dog and loot position lies in this union).
func (m *Map) Contains(p geom.Point) bool {
	if _, ok := m.FindHorRoad(p); ok {
		return true
	}
	if _, ok := m.FindVertRoad(p); ok {
		return true
	}
	return false
}

// RandomRoadPoint picks a uniformly-chosen road and a uniformly-chosen point
// along it — the algorithm used for both loot placement (spec.md §4.3) and,
// when randomized spawning is enabled, new-dog spawn points (SPEC_FULL §12).
func (m *Map) RandomRoadPoint(rng *rand.Rand) geom.Point {
	r := m.Roads[rng.Intn(len(m.Roads))]
	return r.PointAt(rng.Float64())
}

// SpawnPoint returns the default (non-randomized) spawn point: road 0's
// start.
func (m *Map) SpawnPoint() geom.Point {
	return m.Roads[0].Start
}
