package app

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/collectgame/server/internal/event"
	"github.com/collectgame/server/internal/geom"
	"github.com/collectgame/server/internal/players"
	"github.com/collectgame/server/internal/retire"
	"github.com/collectgame/server/internal/worldmap"
)

// selectiveFailSink fails Insert for any record whose name is in failNames,
// so tests can exercise the partial-failure / retry path of Service.Tick.
type selectiveFailSink struct {
	mu        sync.Mutex
	failNames map[string]bool
	inner     *retire.MemorySink
}

func newSelectiveFailSink(failNames ...string) *selectiveFailSink {
	set := make(map[string]bool, len(failNames))
	for _, n := range failNames {
		set[n] = true
	}
	return &selectiveFailSink{failNames: set, inner: retire.NewMemorySink()}
}

func (s *selectiveFailSink) Insert(ctx context.Context, rec retire.Record) error {
	s.mu.Lock()
	fail := s.failNames[rec.Name]
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("simulated storage failure for %s", rec.Name)
	}
	return s.inner.Insert(ctx, rec)
}

func (s *selectiveFailSink) clearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNames = nil
}

func (s *selectiveFailSink) Query(ctx context.Context, offset, limit int) ([]retire.Record, error) {
	return s.inner.Query(ctx, offset, limit)
}

func testMap() *worldmap.Map {
	roads := []worldmap.Road{
		{Orientation: worldmap.Horizontal, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 30, Y: 0}},
	}
	offices := []worldmap.Office{{ID: "o1", Position: geom.Point{X: 0, Y: 0}}}
	return worldmap.New("map1", "Map 1", roads, offices, []worldmap.LootType{{Value: 10}}, 3, 3)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Config{
		Maps:                []*worldmap.Map{testMap()},
		Registry:            players.NewRegistry(crand.Reader),
		Sink:                retire.NewMemorySink(),
		Bus:                 event.NewBus(),
		LootPeriod:          time.Second,
		LootProbability:     0,
		RetirementThreshold: 60 * time.Second,
		RandomizeSpawns:     false,
		AutoMode:            false,
	})
}

func TestJoinThenGetGameState(t *testing.T) {
	s := newTestService(t)

	token, dogID, err := s.JoinGame("Alice", "map1")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if len(token) != 32 {
		t.Fatalf("expected a 32-char token, got %q", token)
	}

	view, err := s.GetGameState(token)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	p, ok := view.Players[formatID(dogID)]
	if !ok {
		t.Fatalf("expected player %d in state, got %+v", dogID, view.Players)
	}
	if p.Pos != [2]float64{0, 0} {
		t.Fatalf("expected spawn at [0,0], got %+v", p.Pos)
	}
}

func TestJoinRejectsEmptyName(t *testing.T) {
	s := newTestService(t)
	if _, _, err := s.JoinGame("", "map1"); err == nil {
		t.Fatalf("expected an error for an empty name")
	} else if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestJoinUnknownMap(t *testing.T) {
	s := newTestService(t)
	if _, _, err := s.JoinGame("Alice", "nowhere"); err == nil {
		t.Fatalf("expected an error for an unknown map")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
}

func TestAuthRejectsMissingMalformedAndUnknownTokens(t *testing.T) {
	s := newTestService(t)

	if _, err := s.GetGameState(""); err == nil {
		t.Fatalf("expected an error for a missing token")
	} else if ae, ok := err.(*AuthError); !ok || ae.Kind != AuthMissing {
		t.Fatalf("expected AuthMissing, got %#v", err)
	}

	if _, err := s.GetGameState("not-hex-and-too-short"); err == nil {
		t.Fatalf("expected an error for a malformed token")
	} else if ae, ok := err.(*AuthError); !ok || ae.Kind != AuthMalformed {
		t.Fatalf("expected AuthMalformed, got %#v", err)
	}

	if _, err := s.GetGameState("00000000000000000000000000000000"); err == nil {
		t.Fatalf("expected an error for an unknown token")
	} else if ae, ok := err.(*AuthError); !ok || ae.Kind != AuthUnknown {
		t.Fatalf("expected AuthUnknown, got %#v", err)
	}
}

func TestMovePlayerWalksAndStops(t *testing.T) {
	s := newTestService(t)
	token, dogID, err := s.JoinGame("Alice", "map1")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}

	if err := s.MovePlayer(token, "R"); err != nil {
		t.Fatalf("MovePlayer: %v", err)
	}
	if err := s.Tick(context.Background(), time.Second, true); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	view, err := s.GetGameState(token)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	p := view.Players[formatID(dogID)]
	if p.Pos[0] != 3 {
		t.Fatalf("expected dog to have moved east by 3 units, got %+v", p.Pos)
	}

	if err := s.MovePlayer(token, ""); err != nil {
		t.Fatalf("MovePlayer stop: %v", err)
	}
	if err := s.Tick(context.Background(), time.Second, true); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	view, _ = s.GetGameState(token)
	if view.Players[formatID(dogID)].Pos[0] != 3 {
		t.Fatalf("expected dog to have stopped at x=3, got %+v", view.Players[formatID(dogID)])
	}
}

func TestMovePlayerRejectsUnknownDirection(t *testing.T) {
	s := newTestService(t)
	token, _, err := s.JoinGame("Alice", "map1")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if err := s.MovePlayer(token, "Z"); err == nil {
		t.Fatalf("expected an error for an unknown move letter")
	} else if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestTickRejectsManualCallInAutoMode(t *testing.T) {
	s := newTestService(t)
	s.autoMode = true
	if err := s.Tick(context.Background(), time.Second, true); err == nil {
		t.Fatalf("expected an error for a manual tick while auto mode is on")
	} else if _, ok := err.(*ManualTickDisabledError); !ok {
		t.Fatalf("expected *ManualTickDisabledError, got %T", err)
	}
}

func TestRetirementRemovesTokenAndRecordsScore(t *testing.T) {
	s := newTestService(t)
	token, dogID, err := s.JoinGame("Alice", "map1")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}

	if err := s.Tick(context.Background(), 30*time.Second, true); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if err := s.Tick(context.Background(), 31*time.Second, true); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if _, err := s.GetGameState(token); err == nil {
		t.Fatalf("expected token to no longer resolve after retirement")
	}

	records, err := s.ListRetired(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ListRetired: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Alice" {
		t.Fatalf("expected one retirement record for Alice, got %+v", records)
	}
	_ = dogID
}

func TestListRetiredRejectsOversizedPage(t *testing.T) {
	s := newTestService(t)
	if _, err := s.ListRetired(context.Background(), 0, 101); err == nil {
		t.Fatalf("expected an error for maxItems > 100")
	} else if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestListPlayersOnSameMap(t *testing.T) {
	s := newTestService(t)
	tokenA, _, err := s.JoinGame("Alice", "map1")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	_, bobID, err := s.JoinGame("Bob", "map1")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}

	list, err := s.ListPlayers(tokenA)
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if list[formatID(bobID)].Name != "Bob" {
		t.Fatalf("expected Bob listed as a fellow player, got %+v", list)
	}
}

func TestTickPersistsAllRetirementsEvenWhenOneFails(t *testing.T) {
	sink := newSelectiveFailSink("Bob")
	s := NewService(Config{
		Maps:                []*worldmap.Map{testMap()},
		Registry:            players.NewRegistry(crand.Reader),
		Sink:                sink,
		Bus:                 event.NewBus(),
		LootPeriod:          time.Second,
		LootProbability:     0,
		RetirementThreshold: 60 * time.Second,
	})

	aliceToken, _, err := s.JoinGame("Alice", "map1")
	if err != nil {
		t.Fatalf("JoinGame Alice: %v", err)
	}
	bobToken, _, err := s.JoinGame("Bob", "map1")
	if err != nil {
		t.Fatalf("JoinGame Bob: %v", err)
	}

	// A single 61s idle tick pushes both dogs past the 60s threshold at once.
	err = s.Tick(context.Background(), 61*time.Second, true)
	if err == nil {
		t.Fatalf("expected a *StorageError because Bob's insert fails")
	}
	if _, ok := err.(*StorageError); !ok {
		t.Fatalf("expected *StorageError, got %T", err)
	}

	if _, err := s.GetGameState(aliceToken); err == nil {
		t.Fatalf("expected Alice's token to no longer resolve once her record persisted")
	}
	if _, err := s.GetGameState(bobToken); err != nil {
		t.Fatalf("expected Bob's token to still resolve since his insert failed: %v", err)
	}
	if len(s.pendingRetirements) != 1 || s.pendingRetirements[0].dog.Name != "Bob" {
		t.Fatalf("expected only Bob's retirement still pending, got %+v", s.pendingRetirements)
	}

	records, err := sink.Query(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Alice" {
		t.Fatalf("expected only Alice's record persisted so far, got %+v", records)
	}

	// Once the storage failure clears, the next Tick call retries and
	// finishes persisting Bob's retirement without anything new happening.
	sink.clearFailures()
	if err := s.Tick(context.Background(), time.Second, true); err != nil {
		t.Fatalf("Tick after recovery: %v", err)
	}
	if _, err := s.GetGameState(bobToken); err == nil {
		t.Fatalf("expected Bob's token to no longer resolve after the retry succeeds")
	}
	if len(s.pendingRetirements) != 0 {
		t.Fatalf("expected no retirements left pending, got %+v", s.pendingRetirements)
	}

	records, err = sink.Query(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected both records persisted, got %+v", records)
	}
}

func TestTickPublishesManualFlagOnTickCompleted(t *testing.T) {
	s := newTestService(t)
	var got event.TickCompleted
	calls := 0
	event.Subscribe(s.bus, func(e event.TickCompleted) {
		got = e
		calls++
	})

	if err := s.Tick(context.Background(), time.Second, true); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one TickCompleted event, got %d", calls)
	}
	if !got.Manual {
		t.Fatalf("expected Manual=true, got %+v", got)
	}
}
