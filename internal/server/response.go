package server

import (
	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/game"
)

// Action values tell the client what the game is waiting on.
const (
	ActionSelectCribCards  = "select_crib_cards"
	ActionSelectCardToPlay = "select_card_to_play"
	ActionWaitingForGame   = "waiting_for_computer"
)

// CardData is the wire form of a card.
type CardData struct {
	Rank   string `json:"rank"`
	Suit   string `json:"suit"`
	Value  int    `json:"value"`
	Symbol string `json:"symbol"`
}

func cardData(c deck.Card) CardData {
	return CardData{
		Rank:   rankName(c.Rank),
		Suit:   suitName(c.Suit),
		Value:  c.Value(),
		Symbol: c.String(),
	}
}

func cardDataList(cards []deck.Card) []CardData {
	out := make([]CardData, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardData(c))
	}
	return out
}

func rankName(r deck.Rank) string {
	switch r {
	case deck.Ace:
		return "ace"
	case deck.Two:
		return "two"
	case deck.Three:
		return "three"
	case deck.Four:
		return "four"
	case deck.Five:
		return "five"
	case deck.Six:
		return "six"
	case deck.Seven:
		return "seven"
	case deck.Eight:
		return "eight"
	case deck.Nine:
		return "nine"
	case deck.Ten:
		return "ten"
	case deck.Jack:
		return "jack"
	case deck.Queen:
		return "queen"
	case deck.King:
		return "king"
	default:
		return "unknown"
	}
}

func suitName(s deck.Suit) string {
	switch s {
	case deck.Spades:
		return "spades"
	case deck.Hearts:
		return "hearts"
	case deck.Diamonds:
		return "diamonds"
	case deck.Clubs:
		return "clubs"
	default:
		return "unknown"
	}
}

// GameStateResponse is the state document every endpoint returns and the
// websocket hub broadcasts.
type GameStateResponse struct {
	GameID           string         `json:"game_id"`
	ActionRequired   string         `json:"action_required"`
	Message          string         `json:"message"`
	YourHand         []CardData     `json:"your_hand"`
	TableCards       []CardData     `json:"table_cards"`
	Scores           map[string]int `json:"scores"`
	Dealer           string         `json:"dealer"`
	TableValue       int            `json:"table_value"`
	StarterCard      *CardData      `json:"starter_card"`
	ValidCardIndices []int          `json:"valid_card_indices"`
	GameOver         bool           `json:"game_over"`
	Winner           *string        `json:"winner"`
	Opponent         string         `json:"opponent"`
}

// OpponentInfo describes one selectable opponent type.
type OpponentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PlayerAction is the request body for submitting a decision. An empty
// index list during play means go.
type PlayerAction struct {
	CardIndices []int `json:"card_indices"`
}

func validIndicesFor(await *game.AwaitInput) []int {
	if await == nil {
		return []int{}
	}
	if await.Kind == game.PromptPlay {
		return append([]int{}, await.ValidIndices...)
	}
	indices := make([]int, len(await.EligibleCards))
	for i := range indices {
		indices[i] = i
	}
	return indices
}
