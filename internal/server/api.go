// Package server exposes the game engine over HTTP and websockets: session
// management, the action submission endpoint the frontend drives the game
// with, and per-game state broadcasts.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/johnmiko/crib-back/internal/game"
	"github.com/johnmiko/crib-back/internal/opponent"
	"github.com/johnmiko/crib-back/internal/stats"
)

const sweepInterval = time.Minute

// Server is the HTTP front of the engine.
type Server struct {
	addr     string
	store    *Store
	hub      *Hub
	results  *stats.Store // nil disables result recording
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer wires the API around a session store. The stats store may be
// nil when result persistence is disabled.
func NewServer(addr string, store *Store, hub *Hub, results *stats.Store, logger *log.Logger) *Server {
	return &Server{
		addr:    addr,
		store:   store,
		hub:     hub,
		results: results,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("api"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthcheck", s.handleHealthcheck)
	mux.HandleFunc("GET /opponents", s.handleOpponents)
	mux.HandleFunc("POST /game/new", s.handleNewGame)
	mux.HandleFunc("GET /game/{id}", s.handleGetGame)
	mux.HandleFunc("POST /game/{id}/action", s.handleAction)
	mux.HandleFunc("DELETE /game/{id}", s.handleDeleteGame)
	mux.HandleFunc("GET /game/{id}/ws", s.handleWebSocket)
	return mux
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	s.store.StartSweeper(ctx, sweepInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOpponents(w http.ResponseWriter, _ *http.Request) {
	names := opponent.Names()
	infos := make([]OpponentInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, OpponentInfo{Name: name, Description: opponent.Description(name)})
	}
	writeJSON(w, http.StatusOK, map[string][]OpponentInfo{"opponents": infos})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	opponentName := r.URL.Query().Get("opponent")
	if opponentName == "" {
		opponentName = "random"
	}

	session, err := s.store.Create(opponentName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := session.Advance()
	if err != nil {
		s.logger.Error("advance failed", "game_id", session.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("game started", "game_id", session.ID(), "opponent", opponentName)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	state, err := session.State()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	var action PlayerAction
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := session.SubmitAction(action.CardIndices)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.recordIfOver(r.Context(), session, state)
	s.hub.Broadcast(session.ID(), state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	s.hub.CloseGame(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "game_id", id, "error", err)
		return
	}

	s.hub.Subscribe(id, conn)
	state, err := session.State()
	if err == nil {
		if err := s.hub.Send(id, conn, state); err != nil {
			return
		}
	}

	// Reads are discarded; the loop exists to notice the peer going away.
	go func() {
		defer func() {
			s.hub.Unsubscribe(id, conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// recordIfOver persists the finished game once, if a stats store is wired.
func (s *Server) recordIfOver(ctx context.Context, session *Session, state GameStateResponse) {
	if s.results == nil || !state.GameOver {
		return
	}
	result, ok := session.TakeResult()
	if !ok {
		return
	}
	if err := s.results.RecordResult(ctx, result); err != nil {
		s.logger.Error("failed to record result", "game_id", session.ID(), "error", err)
		return
	}
	s.logger.Info("result recorded", "game_id", session.ID(), "won", result.Won)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, game.ErrNoInputPending),
		errors.Is(err, game.ErrInvalidSelectionCount),
		errors.Is(err, game.ErrInvalidCardIndex),
		errors.Is(err, game.ErrIllegalPlay),
		errors.Is(err, ErrGameOver):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
