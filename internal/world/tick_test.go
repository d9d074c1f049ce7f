package world

import (
	"math/rand"
	"testing"
	"time"

	"github.com/collectgame/server/internal/geom"
	"github.com/collectgame/server/internal/lootgen"
	"github.com/collectgame/server/internal/worldmap"
)

func newTestSession(t *testing.T, m *worldmap.Map) *Session {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	gen := lootgen.New(time.Second, 0, rng) // p=0: no spontaneous loot during these tests
	return NewSession(m, false, rng, gen)
}

func straightRoadMap() *worldmap.Map {
	roads := []worldmap.Road{
		{Orientation: worldmap.Horizontal, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 30, Y: 0}},
	}
	return worldmap.New("map1", "Map 1", roads, nil, []worldmap.LootType{{Value: 10}}, 3, 3)
}

func TestWalkAndHitWall(t *testing.T) {
	m := straightRoadMap()
	s := newTestSession(t, m)
	d := s.SpawnDog("Alice")
	d.Move(East, m.DogSpeed)

	s.Tick(time.Second, 60*time.Second)
	if d.Position.X != 3 || d.Position.Y != 0 {
		t.Fatalf("expected pos [3,0], got %+v", d.Position)
	}
	if d.Velocity.X != 3 {
		t.Fatalf("expected still moving east at speed 3, got %+v", d.Velocity)
	}

	for i := 0; i < 10; i++ {
		s.Tick(time.Second, 60*time.Second)
	}
	if d.Position.X != 30.4 || d.Position.Y != 0 {
		t.Fatalf("expected clamped pos [30.4,0], got %+v", d.Position)
	}
	if d.Velocity.X != 0 || d.Velocity.Y != 0 {
		t.Fatalf("expected zero velocity after hitting the wall, got %+v", d.Velocity)
	}
}

func TestPickupAndDeposit(t *testing.T) {
	roads := []worldmap.Road{
		{Orientation: worldmap.Horizontal, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}},
	}
	offices := []worldmap.Office{{ID: "o1", Position: geom.Point{X: 0, Y: 0}}}
	m := worldmap.New("map1", "Map 1", roads, offices, []worldmap.LootType{{Value: 10}}, 2.5, 3)
	s := newTestSession(t, m)

	d := s.SpawnDog("Alice")
	d.Position = geom.Point{X: 5, Y: 0}
	s.Loot[0] = &Loot{ID: 0, Type: 0, Position: geom.Point{X: 5, Y: 0}}
	s.nextLootID = 1

	d.Move(West, m.DogSpeed)
	s.Tick(2*time.Second, 60*time.Second)

	if d.Position.X != 0 || d.Position.Y != 0 {
		t.Fatalf("expected dog at office [0,0], got %+v", d.Position)
	}
	if len(d.Bag) != 0 {
		t.Fatalf("expected bag emptied after deposit, got %+v", d.Bag)
	}
	if d.Score != 10 {
		t.Fatalf("expected score 10 after deposit, got %d", d.Score)
	}
	if _, ok := s.Loot[0]; ok {
		t.Fatalf("expected loot removed from session after pickup")
	}
}

func TestRetirementAfterIdleThreshold(t *testing.T) {
	m := straightRoadMap()
	s := newTestSession(t, m)
	d := s.SpawnDog("Alice")

	s.Tick(30*time.Second, 60*time.Second)
	result := s.Tick(31*time.Second, 60*time.Second)

	if len(result.Retired) != 1 {
		t.Fatalf("expected 1 retirement once idle time exceeds the threshold, got %d", len(result.Retired))
	}
	got := result.Retired[0]
	if got.PlaySeconds != 60.0 {
		t.Fatalf("expected playSeconds capped at the 60s threshold, got %v", got.PlaySeconds)
	}
	if _, ok := s.Dogs[d.ID]; ok {
		t.Fatalf("expected dog removed from session after retirement")
	}
}

func TestMovingDogNeverRetires(t *testing.T) {
	m := straightRoadMap()
	s := newTestSession(t, m)
	s.SpawnDog("Alice").Move(East, m.DogSpeed)

	// Short ticks that never reach the far wall, so the dog stays in motion
	// for the whole test and idle accounting never engages.
	for i := 0; i < 5; i++ {
		result := s.Tick(time.Second, 60*time.Second)
		if len(result.Retired) != 0 {
			t.Fatalf("expected no retirement while moving, got %+v", result.Retired)
		}
	}
}

func TestBagCapacityRespected(t *testing.T) {
	roads := []worldmap.Road{
		{Orientation: worldmap.Horizontal, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}},
	}
	m := worldmap.New("map1", "Map 1", roads, nil, []worldmap.LootType{{Value: 1}}, 3, 1)
	s := newTestSession(t, m)
	d := s.SpawnDog("Alice")
	d.Position = geom.Point{X: 0, Y: 0}
	s.Loot[0] = &Loot{ID: 0, Type: 0, Position: geom.Point{X: 3, Y: 0}}
	s.Loot[1] = &Loot{ID: 1, Type: 0, Position: geom.Point{X: 6, Y: 0}}
	s.nextLootID = 2

	d.Move(East, m.DogSpeed)
	s.Tick(3*time.Second, 60*time.Second)

	if len(d.Bag) != 1 {
		t.Fatalf("expected exactly 1 item in bag (capacity 1), got %d", len(d.Bag))
	}
	if _, ok := s.Loot[1]; !ok {
		t.Fatalf("expected second loot item to remain uncollected")
	}
}
