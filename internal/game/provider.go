package game

import "github.com/johnmiko/crib-back/internal/deck"

// Seat identifies one of the two players in a game.
type Seat int

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	return 1 - s
}

// DiscardRequest is the read-only view a provider receives when asked to
// choose two cards for the crib.
type DiscardRequest struct {
	Hand   []deck.Card
	Dealer bool // true when the crib will belong to this player
}

// PlayRequest is the read-only view a provider receives when asked to choose
// a card (or pass) during the play phase.
type PlayRequest struct {
	Hand          []deck.Card
	Sequence      []deck.Card // cards of the current 31-count sequence only
	SequenceValue int
	Dealer        bool
}

// PlayDecision is a provider's answer to a PlayRequest: either a card from
// the hand or a pass ("go").
type PlayDecision struct {
	Card deck.Card
	Pass bool
}

// DecisionProvider supplies the choices the round engine cannot make itself.
// The second return value reports whether an answer is available; returning
// false suspends the round, which resumes once the pending answer has been
// injected (see Round.Resume). Providers never mutate game state.
type DecisionProvider interface {
	SelectDiscards(req DiscardRequest) ([]deck.Card, bool)
	SelectPlay(req PlayRequest) (PlayDecision, bool)
}

// Injector is implemented by providers that receive their answers externally
// (the human proxy). Round.Resume feeds the validated selection through this
// interface before re-advancing.
type Injector interface {
	Inject(cards []deck.Card, pass bool)
}

// PromptKind distinguishes the two kinds of input a suspended round can be
// waiting on.
type PromptKind int

const (
	PromptDiscard PromptKind = iota
	PromptPlay
)

func (k PromptKind) String() string {
	switch k {
	case PromptDiscard:
		return "select_crib_cards"
	case PromptPlay:
		return "select_card_to_play"
	default:
		return "unknown"
	}
}

// AwaitInput describes a suspension point: which seat must answer, what kind
// of choice is needed, the cards the selection indices refer to, and how many
// cards are required (2 for a discard, at most 1 for a play). ValidIndices
// lists the indices of EligibleCards that are currently legal to play; it is
// nil for discard prompts, where every index is legal.
type AwaitInput struct {
	Seat          Seat
	Kind          PromptKind
	EligibleCards []deck.Card
	CardsNeeded   int
	ValidIndices  []int
}

// LegalPlays returns the indices of hand cards whose value keeps the running
// total at or under 31.
func LegalPlays(hand []deck.Card, sequenceValue int) []int {
	var legal []int
	for i, c := range hand {
		if sequenceValue+c.Value() <= 31 {
			legal = append(legal, i)
		}
	}
	return legal
}
