// Package opponent implements the decision provider variants the round
// engine is driven by: the human proxy that suspends the round, and the
// computer strategies (random, first-card, heuristic, linear model).
package opponent

import (
	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/game"
)

// Human is the provider for a player whose answers arrive over the API. It
// reports not-ready until a selection has been injected, which suspends the
// round; each injected selection is consumed exactly once.
type Human struct {
	pending bool
	cards   []deck.Card
	pass    bool
}

// NewHuman creates a human proxy provider with no pending answer.
func NewHuman() *Human {
	return &Human{}
}

// Inject stores the externally collected answer for the next Select call.
func (h *Human) Inject(cards []deck.Card, pass bool) {
	h.cards = cards
	h.pass = pass
	h.pending = true
}

// HasPending reports whether an injected answer is waiting to be consumed.
func (h *Human) HasPending() bool {
	return h.pending
}

// SelectDiscards returns the injected discard pair, or suspends.
func (h *Human) SelectDiscards(game.DiscardRequest) ([]deck.Card, bool) {
	if !h.pending {
		return nil, false
	}
	cards := h.cards
	h.consume()
	return cards, true
}

// SelectPlay returns the injected play (or pass), or suspends.
func (h *Human) SelectPlay(game.PlayRequest) (game.PlayDecision, bool) {
	if !h.pending {
		return game.PlayDecision{}, false
	}
	decision := game.PlayDecision{Pass: h.pass}
	if !h.pass && len(h.cards) > 0 {
		decision.Card = h.cards[0]
	}
	h.consume()
	return decision, true
}

func (h *Human) consume() {
	h.pending = false
	h.cards = nil
	h.pass = false
}
