package game

// WinningScore is the score a player must reach to win the game.
const WinningScore = 121

// NoWinner is the sentinel seat value for a board with no winner yet.
const NoWinner = -1

// Board tracks the cumulative score of both players and latches the winner
// the instant any peg reaches the winning score. After the latch every later
// Peg call is a no-op for both players: points computed after the winning
// instant must never be applied.
type Board struct {
	scores [2]int
	winner int
}

// NewBoard creates an empty board with no winner.
func NewBoard() *Board {
	return &Board{winner: NoWinner}
}

// Peg adds points to the seat's score and reports whether this update caused
// the seat to cross the winning threshold. Zero or negative points and pegs
// after a win are ignored.
func (b *Board) Peg(seat Seat, points int) bool {
	if b.winner != NoWinner || points <= 0 {
		return false
	}
	b.scores[seat] += points
	if b.scores[seat] >= WinningScore {
		b.scores[seat] = WinningScore
		b.winner = int(seat)
		return true
	}
	return false
}

// Score returns the seat's current score.
func (b *Board) Score(seat Seat) int {
	return b.scores[seat]
}

// Scores returns both scores indexed by seat.
func (b *Board) Scores() [2]int {
	return b.scores
}

// Winner returns the winning seat, if the game has been won.
func (b *Board) Winner() (Seat, bool) {
	if b.winner == NoWinner {
		return 0, false
	}
	return Seat(b.winner), true
}
