// Package httpapi adapts internal/app's use-cases to the JSON-over-HTTP
// surface in spec.md §6, using go-chi for path routing the way the rest of
// the domain stack leans on small, focused libraries rather than a bare
// net/http mux (no example in the retrieval pack ships an HTTP router of
// its own, so chi is an out-of-pack but standard ecosystem choice — see
// DESIGN.md).
package httpapi

import (
	"net/http"

	"github.com/collectgame/server/internal/app"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server wires a chi.Mux on top of an app.Service.
type Server struct {
	svc *app.Service
	log *zap.Logger
	mux *chi.Mux
}

// NewServer builds the routed handler for the game HTTP API.
func NewServer(svc *app.Service, log *zap.Logger) *Server {
	s := &Server{svc: svc, log: log, mux: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/maps", s.methodGuard([]string{http.MethodGet, http.MethodHead}, s.handleListMaps))
	s.mux.HandleFunc("/api/v1/maps/{id}", s.methodGuard([]string{http.MethodGet, http.MethodHead}, s.handleGetMap))
	s.mux.HandleFunc("/api/v1/game/join", s.methodGuard([]string{http.MethodPost}, s.handleJoin))
	s.mux.HandleFunc("/api/v1/game/players", s.methodGuard([]string{http.MethodGet, http.MethodHead}, s.handleListPlayers))
	s.mux.HandleFunc("/api/v1/game/state", s.methodGuard([]string{http.MethodGet, http.MethodHead}, s.handleGetState))
	s.mux.HandleFunc("/api/v1/game/player/action", s.methodGuard([]string{http.MethodPost}, s.handlePlayerAction))
	s.mux.HandleFunc("/api/v1/game/tick", s.methodGuard([]string{http.MethodPost}, s.handleTick))
	s.mux.HandleFunc("/api/v1/game/records", s.methodGuard([]string{http.MethodGet}, s.handleListRecords))
}

// methodGuard rejects any method other than allowed with a 405 that echoes
// the allowed set in the Allow header (spec.md §7 MethodNotAllowed).
func (s *Server) methodGuard(allowed []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, m := range allowed {
			if r.Method == m {
				next(w, r)
				return
			}
		}
		writeError(w, &app.MethodNotAllowedError{Allowed: allowed})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>",
// returning "" (treated as AuthMissing by the façade) for any other shape.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return ""
	}
	return h[len(prefix):]
}

// hasJSONContentType reports whether r carries a Content-Type header of
// exactly "application/json", matching the original request handler's
// content-type gate on the move endpoint.
func hasJSONContentType(r *http.Request) bool {
	return r.Header.Get("Content-Type") == "application/json"
}
