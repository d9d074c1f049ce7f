package app

import (
	"github.com/collectgame/server/internal/snapshot"
	"github.com/collectgame/server/internal/world"
)

// Snapshot captures every live session and the player/token table, for the
// snapshot listener to serialize (spec.md §4.8).
func (s *Service) Snapshot() snapshot.Snapshot {
	s.mu.Lock()
	states := make([]world.State, 0, len(s.sessions))
	for _, sess := range s.sessions {
		states = append(states, sess.Snapshot())
	}
	s.mu.Unlock()

	return snapshot.Snapshot{
		Sessions: states,
		Players:  s.registry.Snapshot(),
	}
}

// Restore replaces every session's live state and the player/token table
// with snap's contents. Called once at startup before the server accepts
// requests (spec.md §4.8).
func (s *Service) Restore(snap snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range snap.Sessions {
		sess, err := s.sessionFor(st.MapID)
		if err != nil {
			return err
		}
		sess.Restore(st)
	}
	s.registry.Restore(snap.Players)
	return nil
}
