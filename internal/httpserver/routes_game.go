// internal/httpserver/routes_game.go
//
// Handlers for the daily-puzzle endpoints. Every handler resolves the
// player identity (user or anonymous cookie), fetches that player's
// engine, and holds its mutex for the duration of the operation so the
// engine only ever sees one mutation at a time.

package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/connorpodea/EQLE/internal/engine"
)

// playerID returns the authenticated user ID if logged in, otherwise an
// anonymous cookie identity.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(userCtxKey).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// withEngine resolves the player's engine and runs fn under its lock.
func (s *Server) withEngine(w http.ResponseWriter, r *http.Request, fn func(*engine.Engine)) {
	pe, err := s.engineFor(r.Context(), s.playerID(w, r))
	if err != nil {
		log.Error().Err(err).Msg("engine init")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "engine_init_failed"})
		return
	}
	pe.mu.Lock()
	defer pe.mu.Unlock()
	fn(pe.eng)
}

// todayRes is returned by GET /game/today.
type todayRes struct {
	CanPlay bool            `json:"canPlay"`
	State   engine.Snapshot `json:"state"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) {
		writeJSON(w, http.StatusOK, todayRes{
			CanPlay: e.CanPlayToday(r.Context()),
			State:   e.CurrentState(r.Context()),
		})
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) {
		writeJSON(w, http.StatusOK, e.CurrentState(r.Context()))
	})
}

// keyReq is the payload for POST /game/key.
type keyReq struct {
	Char string `json:"char"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := decodeJSON(r, &req); err != nil || len(req.Char) != 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	s.withEngine(w, r, func(e *engine.Engine) {
		if err := e.InsertCharacter(r.Context(), req.Char[0]); err != nil {
			writeReason(w, engine.ReasonFor(err))
			return
		}
		writeJSON(w, http.StatusOK, e.CurrentState(r.Context()))
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) {
		if err := e.DeleteCharacter(r.Context()); err != nil {
			writeReason(w, engine.ReasonFor(err))
			return
		}
		writeJSON(w, http.StatusOK, e.CurrentState(r.Context()))
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) {
		out, err := e.SubmitGuess(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("submit guess")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save_failed"})
			return
		}
		if !out.Accepted {
			writeReason(w, out.Reason)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) {
		if err := e.Restart(r.Context()); err != nil {
			writeReason(w, engine.ReasonFor(err))
			return
		}
		writeJSON(w, http.StatusOK, e.CurrentState(r.Context()))
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) {
		writeJSON(w, http.StatusOK, e.Stats())
	})
}
