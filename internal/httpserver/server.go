// internal/httpserver/server.go
//
// HTTP wiring for the EQLE engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/*, /stats.
//   - Auth endpoints: /auth/*.
//   - One engine per player (authenticated user or anonymous cookie),
//     each behind its own mutex so mutations stay sequential.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid
//     token is present; guests play under an anonymous cookie identity.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/connorpodea/EQLE/internal/config"
	"github.com/connorpodea/EQLE/internal/engine"
	"github.com/connorpodea/EQLE/internal/kv"
)

// Server bundles the router, shared store, and per-player engines.
type Server struct {
	r     *chi.Mux
	store kv.Store
	cfg   config.Config

	mu      sync.Mutex // guards engines
	engines map[string]*playerEngine
}

// playerEngine serializes access to one player's engine.
type playerEngine struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// New constructs a Server, installs middleware, and registers routes.
func New(store kv.Store, cfg config.Config) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   store,
		cfg:     cfg,
		engines: make(map[string]*playerEngine),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"eqle","endpoints":["/health","GET /game/today","POST /game/key","POST /game/delete","POST /game/submit","GET /game/state","GET /stats","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints, OPTIONAL AUTH (guests play under an anon cookie)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Get("/game/today", s.handleToday)
		r.Get("/game/state", s.handleState)
		r.Post("/game/key", s.handleKey)
		r.Post("/game/delete", s.handleDelete)
		r.Post("/game/submit", s.handleSubmit)
		r.Post("/game/restart", s.handleRestart)
		r.Get("/stats", s.handleStats)
	})

	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// engineFor returns the engine for playerID, creating it on first use
// with a player-scoped persistence namespace.
func (s *Server) engineFor(ctx context.Context, playerID string) (*playerEngine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pe, ok := s.engines[playerID]; ok {
		return pe, nil
	}
	eng, err := engine.New(ctx, engine.Options{
		Store:  kv.Namespaced(s.store, "player/"+playerID),
		Logger: log.With().Str("player", playerID).Logger(),
	})
	if err != nil {
		return nil, err
	}
	pe := &playerEngine{eng: eng}
	s.engines[playerID] = pe
	return pe, nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errBody struct {
	Error   engine.Reason `json:"error"`
	Message string        `json:"message"`
}

// writeReason renders a rejection reason with an appropriate status:
// conflicts (terminal session, already played) get 409, the rest 400.
func writeReason(w http.ResponseWriter, reason engine.Reason) {
	status := http.StatusBadRequest
	switch reason {
	case engine.ReasonSessionTerminal, engine.ReasonAlreadyPlayedToday:
		status = http.StatusConflict
	case engine.ReasonUnknown:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errBody{Error: reason, Message: reason.Message()})
}
