// Package app is the façade: it owns the single serialization domain
// (spec.md §5) around all session state and exposes the use-cases the HTTP
// adapter calls into (Join, ListPlayers, GetGameState, MovePlayer, Tick,
// ListRetired).
package app

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/collectgame/server/internal/event"
	"github.com/collectgame/server/internal/lootgen"
	"github.com/collectgame/server/internal/players"
	"github.com/collectgame/server/internal/retire"
	"github.com/collectgame/server/internal/world"
	"github.com/collectgame/server/internal/worldmap"
	"go.uber.org/zap"
)

// Service is the single serialization domain: every mutation of session
// state (Join, MovePlayer, Tick) runs with mu held, so no mutation is ever
// observed mid-step (spec.md §5). Read-only use-cases over session and map
// state also take mu — at this scale a single mutex is simpler than a
// reader/writer split and the work inside it is pure in-memory map access,
// never I/O. ListRetired touches no session state and queries the sink
// without holding mu.
type Service struct {
	mu sync.Mutex

	maps     map[string]*worldmap.Map
	sessions map[string]*world.Session
	registry *players.Registry
	sink     retire.Sink
	bus      *event.Bus
	log      *zap.Logger

	lootPeriod          time.Duration
	lootProbability     float64
	retirementThreshold time.Duration
	randomizeSpawns     bool
	autoMode            bool

	// pendingRetirements holds dogs already removed from their session by
	// world.Session.Tick but not yet persisted to sink: a retirement only
	// leaves this list (and the token registry) once its sink.Insert call
	// has actually succeeded, so a transient storage failure never loses
	// the record (spec.md §4.7: "retry or crash rather than silently
	// drop").
	pendingRetirements []pendingRetirement
}

type pendingRetirement struct {
	mapID string
	dog   world.RetiredDog
}

// Config bundles the construction-time parameters that come from
// config.GameConfig and the CLI flags.
type Config struct {
	Maps                []*worldmap.Map
	Registry            *players.Registry
	Sink                retire.Sink
	Bus                 *event.Bus
	LootPeriod          time.Duration
	LootProbability     float64
	RetirementThreshold time.Duration
	RandomizeSpawns     bool
	AutoMode            bool
	Log                 *zap.Logger
}

func NewService(cfg Config) *Service {
	maps := make(map[string]*worldmap.Map, len(cfg.Maps))
	for _, m := range cfg.Maps {
		maps[m.ID] = m
	}
	return &Service{
		maps:                maps,
		sessions:            make(map[string]*world.Session),
		registry:            cfg.Registry,
		sink:                cfg.Sink,
		bus:                 cfg.Bus,
		log:                 cfg.Log,
		lootPeriod:          cfg.LootPeriod,
		lootProbability:     cfg.LootProbability,
		retirementThreshold: cfg.RetirementThreshold,
		randomizeSpawns:     cfg.RandomizeSpawns,
		autoMode:            cfg.AutoMode,
	}
}

// ListMaps returns every configured map's id and name.
func (s *Service) ListMaps() []MapSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MapSummary, 0, len(s.maps))
	for _, m := range s.maps {
		out = append(out, MapSummary{ID: m.ID, Name: m.Name})
	}
	return out
}

// GetMap returns the full map detail for id, or NotFoundError.
func (s *Service) GetMap(id string) (*worldmap.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.maps[id]
	if !ok {
		return nil, &NotFoundError{Message: "map not found: " + id}
	}
	return m, nil
}

// sessionFor returns the live session for mapID, creating it on first use
// (spec.md §4.5 Join: "create session if absent").
func (s *Service) sessionFor(mapID string) (*world.Session, error) {
	if sess, ok := s.sessions[mapID]; ok {
		return sess, nil
	}
	m, ok := s.maps[mapID]
	if !ok {
		return nil, &NotFoundError{Message: "map not found: " + mapID}
	}
	rng := newSessionRNG()
	gen := lootgen.New(s.lootPeriod, s.lootProbability, rng)
	sess := world.NewSession(m, s.randomizeSpawns, rng, gen)
	s.sessions[mapID] = sess
	return sess, nil
}

// newSessionRNG seeds a *rand.Rand from crypto/rand so each session's
// movement/loot draws are independent across process restarts, while still
// being a plain seeded source mid-process (spec.md §9 "Randomness").
func newSessionRNG() *rand.Rand {
	var seed [8]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}

