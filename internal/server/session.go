package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/johnmiko/crib-back/internal/game"
	"github.com/johnmiko/crib-back/internal/opponent"
	"github.com/johnmiko/crib-back/internal/stats"
)

// ErrGameOver is returned for actions submitted to a finished game.
var ErrGameOver = errors.New("game is over")

// Seat assignment within a session: the human always sits at 0 and deals
// the first round, the computer at 1.
const (
	humanSeat    = game.Seat(0)
	computerSeat = game.Seat(1)
)

var seatNames = [2]string{"human", "computer"}

// Session binds one human player to one game against a chosen computer
// opponent. Rounds roll automatically until someone wins; between requests
// the session sits suspended at the human's next decision point. All methods
// are safe for concurrent use, with at most one advance in flight.
type Session struct {
	mu sync.Mutex

	id           string
	opponentName string
	human        *opponent.Human
	game         *game.Game
	round        *game.Round
	roundOpts    []game.RoundOption

	message  string
	over     bool
	recorded bool

	rounds       int
	handPoints   int
	cribPoints   int
	peggedPoints int
}

// SessionOption configures session construction.
type SessionOption func(*Session)

// WithRoundOptions forwards round options (such as a fixed seed) to every
// round the session starts. Tests use this to make full games deterministic.
func WithRoundOptions(opts ...game.RoundOption) SessionOption {
	return func(s *Session) {
		s.roundOpts = opts
	}
}

// NewSession creates a session against the given computer provider. The
// session is idle until the first Advance.
func NewSession(id, opponentName string, computer game.DecisionProvider, opts ...SessionOption) *Session {
	s := &Session{
		id:           id,
		opponentName: opponentName,
		human:        opponent.NewHuman(),
	}
	s.game = game.NewGame(seatNames, [2]game.DecisionProvider{s.human, computer})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's game id.
func (s *Session) ID() string {
	return s.id
}

// OpponentName returns the registry name of the computer opponent.
func (s *Session) OpponentName() string {
	return s.opponentName
}

// Advance runs the game forward until the human must decide or the game
// ends, then reports the resulting state.
func (s *Session) Advance() (GameStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.runLocked(); err != nil {
		return GameStateResponse{}, err
	}
	return s.stateLocked(), nil
}

// SubmitAction validates the human's selection against the pending prompt
// and continues the game. Validation failures leave the prompt standing.
func (s *Session) SubmitAction(indices []int) (GameStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return GameStateResponse{}, ErrGameOver
	}
	if s.round == nil || s.round.Pending() == nil {
		return GameStateResponse{}, game.ErrNoInputPending
	}

	progress, err := s.round.Resume(indices)
	if err != nil {
		return GameStateResponse{}, err
	}
	if progress.Status == game.StatusRoundOver {
		s.finishRound(progress.Summary)
	}
	if err := s.runLocked(); err != nil {
		return GameStateResponse{}, err
	}
	return s.stateLocked(), nil
}

// State reports the current state without advancing anything.
func (s *Session) State() (GameStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(), nil
}

// TakeResult returns the finished game as a stats record, exactly once.
func (s *Session) TakeResult() (stats.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.over || s.recorded || s.rounds == 0 {
		return stats.Result{}, false
	}
	s.recorded = true
	winner, _ := s.game.Board().Winner()
	return stats.Result{
		Player:       seatNames[humanSeat],
		Opponent:     s.opponentName,
		Won:          winner == humanSeat,
		Rounds:       s.rounds,
		PointsPegged: s.peggedPoints,
		HandPoints:   s.handPoints,
		CribPoints:   s.cribPoints,
	}, true
}

func (s *Session) runLocked() error {
	for !s.over {
		if s.round == nil {
			s.round = s.game.NextRound(s.roundOpts...)
			s.rounds++
		}
		progress, err := s.round.Advance()
		if err != nil {
			return err
		}
		if progress.Status == game.StatusAwaitingInput {
			s.message = promptMessage(progress.Await)
			return nil
		}
		s.finishRound(progress.Summary)
	}
	return nil
}

// finishRound folds the round's summary into the session's running totals
// and either ends the game or queues up the next round.
func (s *Session) finishRound(summary *game.Summary) {
	s.peggedPoints += summary.Pegged[humanSeat]
	s.handPoints += summary.HandScores[humanSeat]
	if s.round.Dealer() == humanSeat {
		s.cribPoints += summary.CribScore
	}

	if summary.Won {
		s.over = true
		s.message = fmt.Sprintf("Game over! %s wins!", seatNames[summary.Winner])
		return
	}
	s.round = nil
}

func (s *Session) stateLocked() GameStateResponse {
	board := s.game.Board()
	resp := GameStateResponse{
		GameID:         s.id,
		ActionRequired: ActionWaitingForGame,
		Message:        s.message,
		YourHand:       []CardData{},
		TableCards:     []CardData{},
		Scores: map[string]int{
			seatNames[humanSeat]:    board.Score(humanSeat),
			seatNames[computerSeat]: board.Score(computerSeat),
		},
		Dealer:           "none",
		ValidCardIndices: []int{},
		Opponent:         s.opponentName,
	}

	if s.round != nil {
		resp.YourHand = cardDataList(s.round.Hand(humanSeat))
		for _, m := range s.round.Table() {
			resp.TableCards = append(resp.TableCards, cardData(m.Card))
		}
		resp.TableValue = s.round.SequenceValue()
		if starter, ok := s.round.Starter(); ok {
			data := cardData(starter)
			resp.StarterCard = &data
		}
		resp.Dealer = seatNames[s.round.Dealer()]

		if pending := s.round.Pending(); pending != nil {
			resp.ActionRequired = pending.Kind.String()
			resp.ValidCardIndices = validIndicesFor(pending)
		}
	}

	if winner, won := board.Winner(); won {
		resp.GameOver = true
		name := seatNames[winner]
		resp.Winner = &name
	}
	return resp
}

func promptMessage(await *game.AwaitInput) string {
	if await.Kind == game.PromptDiscard {
		return "Select 2 cards for the crib"
	}
	return "Select a card to play, or pass"
}
