package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/collectgame/server/internal/app"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildMapSummaries(s.svc.ListMaps()))
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := s.svc.GetMap(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildMapDetail(m))
}

type joinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

type joinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  string `json:"playerId"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &app.ValidationError{Message: "malformed request body"})
		return
	}

	token, dogID, err := s.svc.JoinGame(req.UserName, req.MapID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{AuthToken: token, PlayerID: strconv.FormatUint(dogID, 10)})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.svc.ListPlayers(bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.GetGameState(bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type playerActionRequest struct {
	Move string `json:"move"`
}

func (s *Server) handlePlayerAction(w http.ResponseWriter, r *http.Request) {
	if !hasJSONContentType(r) {
		writeError(w, &app.ValidationError{Message: "Content-Type must be application/json"})
		return
	}

	var req playerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &app.ValidationError{Message: "malformed request body"})
		return
	}
	if err := s.svc.MovePlayer(bearerToken(r), req.Move); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

type tickRequest struct {
	TimeDelta int `json:"timeDelta"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &app.ValidationError{Message: "malformed request body"})
		return
	}
	if req.TimeDelta < 0 {
		writeError(w, &app.ValidationError{Message: "timeDelta must not be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.svc.Tick(ctx, time.Duration(req.TimeDelta)*time.Millisecond, true); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	start, err := parseIntParam(r, "start", 0)
	if err != nil {
		writeError(w, &app.ValidationError{Message: "start must be an integer"})
		return
	}
	maxItems, err := parseIntParam(r, "maxItems", 0)
	if err != nil {
		writeError(w, &app.ValidationError{Message: "maxItems must be an integer"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	records, err := s.svc.ListRetired(ctx, start, maxItems)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func parseIntParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
