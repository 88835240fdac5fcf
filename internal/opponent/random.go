package opponent

import (
	rand "math/rand/v2"

	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/game"
)

// Random plays uniformly random legal moves. Great for testing.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random opponent using the given RNG.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// SelectDiscards throws two cards chosen at random.
func (o *Random) SelectDiscards(req game.DiscardRequest) ([]deck.Card, bool) {
	perm := o.rng.Perm(len(req.Hand))
	return []deck.Card{req.Hand[perm[0]], req.Hand[perm[1]]}, true
}

// SelectPlay plays a random legal card, passing only when nothing fits.
func (o *Random) SelectPlay(req game.PlayRequest) (game.PlayDecision, bool) {
	legal := game.LegalPlays(req.Hand, req.SequenceValue)
	if len(legal) == 0 {
		return game.PlayDecision{Pass: true}, true
	}
	idx := legal[o.rng.IntN(len(legal))]
	return game.PlayDecision{Card: req.Hand[idx]}, true
}

// FirstCard always throws its first two cards and plays its first legal
// card. A predictable opponent for exercising the engine.
type FirstCard struct{}

// NewFirstCard creates a first-card opponent.
func NewFirstCard() *FirstCard {
	return &FirstCard{}
}

// SelectDiscards throws the first two cards of the hand.
func (o *FirstCard) SelectDiscards(req game.DiscardRequest) ([]deck.Card, bool) {
	return []deck.Card{req.Hand[0], req.Hand[1]}, true
}

// SelectPlay plays the first legal card in hand order.
func (o *FirstCard) SelectPlay(req game.PlayRequest) (game.PlayDecision, bool) {
	legal := game.LegalPlays(req.Hand, req.SequenceValue)
	if len(legal) == 0 {
		return game.PlayDecision{Pass: true}, true
	}
	return game.PlayDecision{Card: req.Hand[legal[0]]}, true
}
