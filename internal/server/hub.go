package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Hub tracks websocket subscribers per game and pushes every state change
// to them. Writes are serialized through the hub's mutex; a subscriber that
// fails a write is dropped and closed on the spot.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*websocket.Conn]bool
	logger *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*websocket.Conn]bool),
		logger: logger.WithPrefix("hub"),
	}
}

// Subscribe registers a connection for a game's state broadcasts.
func (h *Hub) Subscribe(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*websocket.Conn]bool)
	}
	h.subs[gameID][conn] = true
	h.logger.Debug("subscriber added", "game_id", gameID, "total", len(h.subs[gameID]))
}

// Unsubscribe removes a connection without closing it.
func (h *Hub) Unsubscribe(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(gameID, conn)
}

// Send writes the state to a single subscriber.
func (h *Hub) Send(gameID string, conn *websocket.Conn, state GameStateResponse) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteJSON(state); err != nil {
		h.dropLocked(gameID, conn)
		_ = conn.Close()
		return err
	}
	return nil
}

// Broadcast pushes the state to every subscriber of the game, dropping any
// connection that fails to take it.
func (h *Hub) Broadcast(gameID string, state GameStateResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs[gameID] {
		if err := conn.WriteJSON(state); err != nil {
			h.logger.Debug("dropping failed subscriber", "game_id", gameID, "error", err)
			h.dropLocked(gameID, conn)
			_ = conn.Close()
		}
	}
}

// CloseGame closes and forgets every subscriber of a game.
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs[gameID] {
		_ = conn.Close()
	}
	delete(h.subs, gameID)
}

// Subscribers returns how many connections follow a game.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[gameID])
}

func (h *Hub) dropLocked(gameID string, conn *websocket.Conn) {
	if conns, ok := h.subs[gameID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, gameID)
		}
	}
}
