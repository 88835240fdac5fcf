package game

// Game holds what outlives a single round: both players' decision providers,
// the shared board and the dealer rotation. The game exclusively owns the
// board; each round exclusively owns its own hands, crib, table and starter.
type Game struct {
	names     [2]string
	providers [2]DecisionProvider
	board     *Board
	rounds    int
	dealer    Seat
}

// GameOption configures game construction.
type GameOption func(*Game)

// WithFirstDealer overrides which seat deals the first round.
func WithFirstDealer(seat Seat) GameOption {
	return func(g *Game) {
		g.dealer = seat
	}
}

// NewGame creates a game for two named players. Seat 0 deals first unless
// overridden; the deal alternates every round after that.
func NewGame(names [2]string, providers [2]DecisionProvider, opts ...GameOption) *Game {
	g := &Game{
		names:     names,
		providers: providers,
		board:     NewBoard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Board returns the game's score board.
func (g *Game) Board() *Board {
	return g.board
}

// Name returns the display name of a seat.
func (g *Game) Name(seat Seat) string {
	return g.names[seat]
}

// Rounds returns how many rounds have been started.
func (g *Game) Rounds() int {
	return g.rounds
}

// Dealer returns the seat that deals the next round.
func (g *Game) Dealer() Seat {
	return g.dealer
}

// Over reports whether a player has won.
func (g *Game) Over() bool {
	_, won := g.board.Winner()
	return won
}

// NextRound creates the next round with the current dealer, then rotates the
// deal for the round after.
func (g *Game) NextRound(opts ...RoundOption) *Round {
	dealer := g.dealer
	r := NewRound(g.board, dealer, g.providers[dealer.Other()], g.providers[dealer], opts...)
	g.rounds++
	g.dealer = g.dealer.Other()
	return r
}
