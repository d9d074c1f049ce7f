package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/collectgame/server/internal/event"
	"github.com/collectgame/server/internal/retire"
	"github.com/collectgame/server/internal/world"
	"go.uber.org/zap"
)

// tokenHexLen is the exact length a bearer token must have (spec.md §6:
// "Tokens shorter/longer than 32 chars → 401 invalidToken").
const tokenHexLen = 32

// JoinGame validates name and mapId, spawns a dog in mapId's session
// (creating the session on first use), registers a Player, and mints an
// authentication token (spec.md §4.5 Join).
func (s *Service) JoinGame(name, mapID string) (token string, dogID uint64, err error) {
	if name == "" {
		return "", 0, &ValidationError{Message: "userName must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, sessErr := s.sessionFor(mapID)
	if sessErr != nil {
		return "", 0, sessErr
	}

	d := sess.SpawnDog(name)
	token, err = s.registry.Add(name, d.ID, mapID)
	if err != nil {
		sess.RemoveDog(d.ID)
		return "", 0, fmt.Errorf("mint token: %w", err)
	}
	return token, d.ID, nil
}

// authenticate validates token's format and resolves it to a Player.
func (s *Service) authenticate(token string) (mapID string, dogID uint64, err error) {
	if token == "" {
		return "", 0, &AuthError{Kind: AuthMissing}
	}
	if len(token) != tokenHexLen {
		return "", 0, &AuthError{Kind: AuthMalformed}
	}
	if _, err := hex.DecodeString(token); err != nil {
		return "", 0, &AuthError{Kind: AuthMalformed}
	}
	p, ok := s.registry.FindByToken(token)
	if !ok {
		return "", 0, &AuthError{Kind: AuthUnknown}
	}
	return p.MapID, p.DogID, nil
}

// PlayerNameView is the per-player payload inside GET /game/players'
// response map (spec.md §6: `{id:{name}}`).
type PlayerNameView struct {
	Name string `json:"name"`
}

// ListPlayers returns every player on the caller's map, keyed by dogId
// (spec.md §4.5 ListPlayersOnSameMapAs, §6 GET /game/players).
func (s *Service) ListPlayers(token string) (map[string]PlayerNameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapID, _, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}

	out := make(map[string]PlayerNameView)
	for _, p := range s.registry.ListOnSameMap(mapID) {
		out[formatID(p.DogID)] = PlayerNameView{Name: p.Name}
	}
	return out, nil
}

// GetGameState returns the caller's full map state (spec.md §6 GET
// /game/state).
func (s *Service) GetGameState(token string) (GameStateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapID, _, err := s.authenticate(token)
	if err != nil {
		return GameStateView{}, err
	}
	sess, ok := s.sessions[mapID]
	if !ok {
		return GameStateView{Players: map[string]PlayerView{}, LostObjects: map[string]LostObjectView{}}, nil
	}
	return buildGameStateView(sess), nil
}

// MovePlayer applies a move action to the caller's dog. move must be one
// of "L","R","U","D" or "" (stop) (spec.md §6 POST /game/player/action).
func (s *Service) MovePlayer(token, move string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapID, dogID, err := s.authenticate(token)
	if err != nil {
		return err
	}
	sess, ok := s.sessions[mapID]
	if !ok {
		return &AuthError{Kind: AuthUnknown}
	}
	d, ok := sess.Dogs[dogID]
	if !ok {
		return &AuthError{Kind: AuthUnknown}
	}

	if move == "" {
		d.Stop()
		return nil
	}
	dir, ok := letterDirection(move)
	if !ok {
		return &ValidationError{Message: "unknown move direction: " + move}
	}
	d.Move(dir, sess.Map.DogSpeed)
	return nil
}

// Tick advances every live session by dt, persists any retirements, and
// publishes one TickCompleted event for the snapshot listener (spec.md
// §4.4, §4.7, §4.8). manual reports whether this call comes from the manual
// tick endpoint; manual calls are rejected when the server runs in auto-tick
// mode.
//
// A retirement is only removed from the token registry once its record has
// actually been written via sink.Insert: the dog is already gone from its
// session (world.Session.Tick removes it as part of the tick's retirement
// step), but its token stays live and its record stays in
// s.pendingRetirements — and so gets retried on the next Tick call — until
// the insert succeeds, so a storage failure never silently drops a score
// (spec.md §4.7). Every pending retirement is attempted on every call;
// a failure on one does not stop the others from being tried.
func (s *Service) Tick(ctx context.Context, dt time.Duration, manual bool) error {
	if manual && s.autoMode {
		return &ManualTickDisabledError{}
	}

	s.mu.Lock()
	for mapID, sess := range s.sessions {
		result := sess.Tick(dt, s.retirementThreshold)
		for _, rd := range result.Retired {
			s.pendingRetirements = append(s.pendingRetirements, pendingRetirement{mapID: mapID, dog: rd})
		}
	}
	pending := append([]pendingRetirement(nil), s.pendingRetirements...)
	s.mu.Unlock()

	var stillPending []pendingRetirement
	var insertErr error
	for _, p := range pending {
		if err := s.sink.Insert(ctx, toRetireRecord(p.dog)); err != nil {
			if s.log != nil {
				s.log.Error("persist retirement record failed",
					zap.String("map", p.mapID), zap.Uint64("dog", p.dog.DogID), zap.Error(err))
			}
			stillPending = append(stillPending, p)
			insertErr = errors.Join(insertErr, err)
			continue
		}
		s.mu.Lock()
		s.registry.Remove(p.dog.DogID, p.mapID)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.pendingRetirements = stillPending
	s.mu.Unlock()

	if s.bus != nil {
		event.Publish(s.bus, event.TickCompleted{Manual: manual, Now: time.Now().UnixNano()})
	}

	if insertErr != nil {
		return &StorageError{Err: insertErr}
	}
	return nil
}

// ListRetired returns a page of the leaderboard (spec.md §4.6, §6 GET
// /game/records).
func (s *Service) ListRetired(ctx context.Context, offset, maxItems int) ([]RetiredRecordView, error) {
	const defaultMaxItems = 100
	if maxItems == 0 {
		maxItems = defaultMaxItems
	}
	if maxItems > defaultMaxItems {
		return nil, &ValidationError{Message: "maxItems must not exceed 100"}
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.sink.Query(ctx, offset, maxItems)
	if err != nil {
		if s.log != nil {
			s.log.Error("query retirement records failed", zap.Error(err))
		}
		return []RetiredRecordView{}, nil
	}
	out := make([]RetiredRecordView, len(records))
	for i, r := range records {
		out[i] = RetiredRecordView{Name: r.Name, Score: r.Score, PlayTime: r.PlaySeconds}
	}
	return out, nil
}

// RetiredRecordView is one row of the GET /game/records response.
type RetiredRecordView struct {
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	PlayTime float64 `json:"playTime"`
}

func toRetireRecord(rd world.RetiredDog) retire.Record {
	return retire.Record{Name: rd.Name, Score: rd.Score, PlaySeconds: rd.PlaySeconds}
}
