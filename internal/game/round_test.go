package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmiko/crib-back/internal/deck"
)

func card(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.NewCard(suit, rank)
}

// scripted answers every request immediately from fixed choices: a discard
// pair and a play order. Plays that no longer fit under 31 become passes.
type scripted struct {
	discards []deck.Card
	plays    []deck.Card
	next     int
}

func (s *scripted) SelectDiscards(DiscardRequest) ([]deck.Card, bool) {
	return s.discards, true
}

func (s *scripted) SelectPlay(req PlayRequest) (PlayDecision, bool) {
	if s.next >= len(s.plays) {
		return PlayDecision{Pass: true}, true
	}
	c := s.plays[s.next]
	if req.SequenceValue+c.Value() > 31 {
		return PlayDecision{Pass: true}, true
	}
	s.next++
	return PlayDecision{Card: c}, true
}

// firstLegal plays the first legal card in hand order and throws its last
// two dealt cards to the crib.
type firstLegal struct{}

func (firstLegal) SelectDiscards(req DiscardRequest) ([]deck.Card, bool) {
	return []deck.Card{req.Hand[len(req.Hand)-2], req.Hand[len(req.Hand)-1]}, true
}

func (firstLegal) SelectPlay(req PlayRequest) (PlayDecision, bool) {
	for _, c := range req.Hand {
		if req.SequenceValue+c.Value() <= 31 {
			return PlayDecision{Card: c}, true
		}
	}
	return PlayDecision{Pass: true}, true
}

// Stacked deal order: non-dealer draws cards 0,2,4,...,10, the dealer draws
// 1,3,...,11, card 12 is the starter.
func stackedDeck(nonDealer, dealer [6]deck.Card, starter deck.Card) *deck.Deck {
	cards := make([]deck.Card, 0, 13)
	for i := 0; i < 6; i++ {
		cards = append(cards, nonDealer[i], dealer[i])
	}
	cards = append(cards, starter)
	return deck.Stacked(cards...)
}

func TestRoundFullPlaythrough(t *testing.T) {
	// Dealer is seat 0; seat 1 leads. Both providers play first-legal and
	// throw their last two dealt cards.
	//
	// seat 1 keeps 7♠ 8♥ 9♦ 10♣ (throws K♠ Q♠), seat 0 keeps A♠ 2♥ 3♦ 4♣
	// (throws 6♥ 9♥), starter K♦.
	d := stackedDeck(
		[6]deck.Card{
			card(deck.Seven, deck.Spades),
			card(deck.Eight, deck.Hearts),
			card(deck.Nine, deck.Diamonds),
			card(deck.Ten, deck.Clubs),
			card(deck.King, deck.Spades),
			card(deck.Queen, deck.Spades),
		},
		[6]deck.Card{
			card(deck.Ace, deck.Spades),
			card(deck.Two, deck.Hearts),
			card(deck.Three, deck.Diamonds),
			card(deck.Four, deck.Clubs),
			card(deck.Six, deck.Hearts),
			card(deck.Nine, deck.Hearts),
		},
		card(deck.King, deck.Diamonds),
	)

	board := NewBoard()
	r := NewRound(board, 0, firstLegal{}, firstLegal{}, WithDeck(d))

	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusRoundOver, progress.Status)
	require.NotNil(t, progress.Summary)

	// Play: 7,A,8,2,9,3 → 30, double go, last card to seat 0. Then 10,4 →
	// both run out, last card to seat 0 again. No other pegging scores.
	summary := progress.Summary
	assert.Equal(t, [2]int{2, 0}, summary.Pegged)

	// Hands: seat 1 = run of 4 + fifteen 7+8 = 6. Seat 0 = run of 4 +
	// fifteens A+4+K and 2+3+K = 8. Crib K♠ Q♠ 6♥ 9♥ + K♦ = pair of kings
	// + fifteen 6+9 = 4, to the dealer.
	assert.Equal(t, 6, summary.HandScores[1])
	assert.Equal(t, 8, summary.HandScores[0])
	assert.Equal(t, 4, summary.CribScore)
	assert.False(t, summary.Won)

	assert.Equal(t, [2]int{14, 6}, board.Scores())

	// The table log holds all eight cards; after the double go the player
	// who did not play the final card (seat 1) led the next sequence.
	table := r.Table()
	require.Len(t, table, 8)
	assert.Equal(t, Seat(1), table[6].Seat)
	assert.Equal(t, card(deck.Ten, deck.Clubs), table[6].Card)
	assert.Equal(t, Seat(0), table[7].Seat)

	assert.Equal(t, PhaseComplete, r.Phase())
}

func TestRoundThirtyOneScoresTwoAndRotatesLeader(t *testing.T) {
	// seat 1 keeps K♥ 10♥ A♥ 2♠, seat 0 keeps Q♦ A♦ 5♣ 9♣. The first
	// sequence runs K,Q,10,A to exactly 31: one point for the 31 plus one
	// for last card, both to seat 0, and seat 1 leads the next sequence.
	d := stackedDeck(
		[6]deck.Card{
			card(deck.King, deck.Hearts),
			card(deck.Ten, deck.Hearts),
			card(deck.Ace, deck.Hearts),
			card(deck.Two, deck.Spades),
			card(deck.Eight, deck.Diamonds),
			card(deck.Seven, deck.Clubs),
		},
		[6]deck.Card{
			card(deck.Queen, deck.Diamonds),
			card(deck.Ace, deck.Diamonds),
			card(deck.Five, deck.Clubs),
			card(deck.Nine, deck.Clubs),
			card(deck.Six, deck.Spades),
			card(deck.King, deck.Diamonds),
		},
		card(deck.Four, deck.Spades),
	)

	seat1 := &scripted{
		discards: []deck.Card{card(deck.Eight, deck.Diamonds), card(deck.Seven, deck.Clubs)},
		plays: []deck.Card{
			card(deck.King, deck.Hearts),
			card(deck.Ten, deck.Hearts),
			card(deck.Ace, deck.Hearts),
			card(deck.Two, deck.Spades),
		},
	}
	seat0 := &scripted{
		discards: []deck.Card{card(deck.Six, deck.Spades), card(deck.King, deck.Diamonds)},
		plays: []deck.Card{
			card(deck.Queen, deck.Diamonds),
			card(deck.Ace, deck.Diamonds),
			card(deck.Five, deck.Clubs),
			card(deck.Nine, deck.Clubs),
		},
	}

	board := NewBoard()
	r := NewRound(board, 0, seat1, seat0, WithDeck(d))

	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusRoundOver, progress.Status)

	// Pegging: 31 (1) + last card (1) in the first sequence, last card (1)
	// in the second, all to seat 0.
	assert.Equal(t, [2]int{3, 0}, progress.Summary.Pegged)

	// Seat 1 led the second sequence (move index 4) after seat 0 closed
	// the first at 31.
	table := r.Table()
	require.Len(t, table, 8)
	assert.Equal(t, Seat(0), table[3].Seat) // the A♦ that made 31
	assert.Equal(t, Seat(1), table[4].Seat)
	assert.Equal(t, card(deck.Ace, deck.Hearts), table[4].Card)

	// Hands: seat 1 = 4 (fifteens 10+4+A, K+4+A), seat 0 = 6 (Q+5, Q+A+4,
	// A+5+9), crib 8♦ 7♣ 6♠ K♦ + 4♠ = fifteen 7+8 + run 6,7,8 = 5.
	assert.Equal(t, 4, progress.Summary.HandScores[1])
	assert.Equal(t, 6, progress.Summary.HandScores[0])
	assert.Equal(t, 5, progress.Summary.CribScore)

	assert.Equal(t, [2]int{14, 4}, board.Scores())
}

func TestRoundHisHeels(t *testing.T) {
	d := stackedDeck(
		[6]deck.Card{
			card(deck.Seven, deck.Spades),
			card(deck.Eight, deck.Hearts),
			card(deck.Nine, deck.Diamonds),
			card(deck.Ten, deck.Clubs),
			card(deck.King, deck.Spades),
			card(deck.Queen, deck.Spades),
		},
		[6]deck.Card{
			card(deck.Ace, deck.Spades),
			card(deck.Two, deck.Hearts),
			card(deck.Three, deck.Diamonds),
			card(deck.Four, deck.Clubs),
			card(deck.Six, deck.Hearts),
			card(deck.Nine, deck.Hearts),
		},
		card(deck.Jack, deck.Diamonds),
	)

	board := NewBoard()
	r := NewRound(board, 0, firstLegal{}, firstLegal{}, WithDeck(d))

	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusRoundOver, progress.Status)

	assert.Equal(t, 2, progress.Summary.HeelsScore)
	// Dealer got 2 for heels on top of everything else.
	assert.Equal(t, 2, board.Score(0)-progress.Summary.Pegged[0]-
		progress.Summary.HandScores[0]-progress.Summary.CribScore)
}

func TestRoundHeelsWinHaltsBeforePlay(t *testing.T) {
	d := stackedDeck(
		[6]deck.Card{
			card(deck.Seven, deck.Spades),
			card(deck.Eight, deck.Hearts),
			card(deck.Nine, deck.Diamonds),
			card(deck.Ten, deck.Clubs),
			card(deck.King, deck.Spades),
			card(deck.Queen, deck.Spades),
		},
		[6]deck.Card{
			card(deck.Ace, deck.Spades),
			card(deck.Two, deck.Hearts),
			card(deck.Three, deck.Diamonds),
			card(deck.Four, deck.Clubs),
			card(deck.Six, deck.Hearts),
			card(deck.Nine, deck.Hearts),
		},
		card(deck.Jack, deck.Diamonds),
	)

	board := NewBoard()
	board.Peg(0, 120)

	r := NewRound(board, 0, firstLegal{}, firstLegal{}, WithDeck(d))
	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusRoundOver, progress.Status)

	require.True(t, progress.Summary.Won)
	assert.Equal(t, Seat(0), progress.Summary.Winner)
	// The round halted at the cut: nothing was played or counted.
	assert.Empty(t, r.Table())
	assert.Zero(t, progress.Summary.HandScores[0])
	assert.Zero(t, progress.Summary.HandScores[1])
	assert.Zero(t, progress.Summary.CribScore)
	assert.Equal(t, WinningScore, board.Score(0))
}

func TestRoundWinDuringCountingHaltsRemainingCounts(t *testing.T) {
	// Seat 1 (non-dealer) counts first. Preload its score so its hand
	// count crosses 121; the dealer's hand and crib must never be counted.
	d := stackedDeck(
		[6]deck.Card{
			card(deck.Seven, deck.Spades),
			card(deck.Eight, deck.Hearts),
			card(deck.Nine, deck.Diamonds),
			card(deck.Ten, deck.Clubs),
			card(deck.King, deck.Spades),
			card(deck.Queen, deck.Spades),
		},
		[6]deck.Card{
			card(deck.Ace, deck.Spades),
			card(deck.Two, deck.Hearts),
			card(deck.Three, deck.Diamonds),
			card(deck.Four, deck.Clubs),
			card(deck.Six, deck.Hearts),
			card(deck.Nine, deck.Hearts),
		},
		card(deck.King, deck.Diamonds),
	)

	board := NewBoard()
	board.Peg(1, 118) // seat 1's hand scores 6 in this deal

	r := NewRound(board, 0, firstLegal{}, firstLegal{}, WithDeck(d))
	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusRoundOver, progress.Status)

	require.True(t, progress.Summary.Won)
	assert.Equal(t, Seat(1), progress.Summary.Winner)
	assert.Equal(t, 6, progress.Summary.HandScores[1])
	// Dealer hand and crib were never counted.
	assert.Zero(t, progress.Summary.HandScores[0])
	assert.Zero(t, progress.Summary.CribScore)

	assert.Equal(t, WinningScore, board.Score(1))
	// Seat 0 keeps only its pegging points from the play phase.
	assert.Equal(t, progress.Summary.Pegged[0], board.Score(0))
}

// human is a minimal in-test stand-in for the API-facing provider.
type human struct {
	pending bool
	cards   []deck.Card
	pass    bool
}

func (h *human) Inject(cards []deck.Card, pass bool) {
	h.cards, h.pass, h.pending = cards, pass, true
}

func (h *human) SelectDiscards(DiscardRequest) ([]deck.Card, bool) {
	if !h.pending {
		return nil, false
	}
	h.pending = false
	return h.cards, true
}

func (h *human) SelectPlay(PlayRequest) (PlayDecision, bool) {
	if !h.pending {
		return PlayDecision{}, false
	}
	h.pending = false
	if h.pass {
		return PlayDecision{Pass: true}, true
	}
	return PlayDecision{Card: h.cards[0]}, true
}

func TestRoundSuspendAndResumeMatchesUninterruptedRun(t *testing.T) {
	nonDealerCards := [6]deck.Card{
		card(deck.King, deck.Hearts),
		card(deck.Ten, deck.Hearts),
		card(deck.Ace, deck.Hearts),
		card(deck.Two, deck.Spades),
		card(deck.Eight, deck.Diamonds),
		card(deck.Seven, deck.Clubs),
	}
	dealerCards := [6]deck.Card{
		card(deck.Queen, deck.Diamonds),
		card(deck.Ace, deck.Diamonds),
		card(deck.Five, deck.Clubs),
		card(deck.Nine, deck.Clubs),
		card(deck.Six, deck.Spades),
		card(deck.King, deck.Diamonds),
	}
	starter := card(deck.Four, deck.Spades)

	opponentFor := func() *scripted {
		return &scripted{
			discards: []deck.Card{card(deck.Six, deck.Spades), card(deck.King, deck.Diamonds)},
			plays: []deck.Card{
				card(deck.Queen, deck.Diamonds),
				card(deck.Ace, deck.Diamonds),
				card(deck.Five, deck.Clubs),
				card(deck.Nine, deck.Clubs),
			},
		}
	}

	// Reference run: seat 1 scripted all the way through.
	refBoard := NewBoard()
	ref := NewRound(refBoard, 0, &scripted{
		discards: []deck.Card{card(deck.Eight, deck.Diamonds), card(deck.Seven, deck.Clubs)},
		plays:    []deck.Card{card(deck.King, deck.Hearts), card(deck.Ten, deck.Hearts), card(deck.Ace, deck.Hearts), card(deck.Two, deck.Spades)},
	}, opponentFor(), WithDeck(stackedDeck(nonDealerCards, dealerCards, starter)))
	refProgress, err := ref.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusRoundOver, refProgress.Status)

	// Interrupted run: seat 1 is a human proxy; every choice arrives as a
	// separate Resume call, as it would over the API.
	board := NewBoard()
	h := &human{}
	r := NewRound(board, 0, h, opponentFor(), WithDeck(stackedDeck(nonDealerCards, dealerCards, starter)))

	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusAwaitingInput, progress.Status)
	require.Equal(t, PromptDiscard, progress.Await.Kind)
	require.Equal(t, Seat(1), progress.Await.Seat)
	require.Equal(t, 2, progress.Await.CardsNeeded)
	require.Len(t, progress.Await.EligibleCards, 6)

	// Re-advancing while suspended must not re-deal or repeat anything.
	again, err := r.Advance()
	require.NoError(t, err)
	assert.Equal(t, progress.Await, again.Await)
	assert.Len(t, r.Hand(1), 6)

	// Discard 8♦ (index 4) and 7♣ (index 5).
	progress, err = r.Resume([]int{4, 5})
	require.NoError(t, err)

	// Then play K♥, 10♥, A♥, 2♠, each prompted separately.
	for _, want := range []deck.Card{
		card(deck.King, deck.Hearts),
		card(deck.Ten, deck.Hearts),
		card(deck.Ace, deck.Hearts),
		card(deck.Two, deck.Spades),
	} {
		require.Equal(t, StatusAwaitingInput, progress.Status)
		require.Equal(t, PromptPlay, progress.Await.Kind)
		idx := -1
		for i, c := range progress.Await.EligibleCards {
			if c == want {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, 0)
		progress, err = r.Resume([]int{idx})
		require.NoError(t, err)
	}

	require.Equal(t, StatusRoundOver, progress.Status)
	assert.Equal(t, refProgress.Summary, progress.Summary)
	assert.Equal(t, refBoard.Scores(), board.Scores())
}

func TestRoundResumeValidation(t *testing.T) {
	d := stackedDeck(
		[6]deck.Card{
			card(deck.King, deck.Hearts),
			card(deck.Ten, deck.Hearts),
			card(deck.Ace, deck.Hearts),
			card(deck.Two, deck.Spades),
			card(deck.Eight, deck.Diamonds),
			card(deck.Seven, deck.Clubs),
		},
		[6]deck.Card{
			card(deck.Queen, deck.Diamonds),
			card(deck.Ace, deck.Diamonds),
			card(deck.Five, deck.Clubs),
			card(deck.Nine, deck.Clubs),
			card(deck.Six, deck.Spades),
			card(deck.King, deck.Diamonds),
		},
		card(deck.Four, deck.Spades),
	)

	h := &human{}
	r := NewRound(NewBoard(), 0, h, firstLegal{}, WithDeck(d))

	_, err := r.Resume([]int{0, 1})
	assert.ErrorIs(t, err, ErrNoInputPending)

	progress, err := r.Advance()
	require.NoError(t, err)
	require.Equal(t, StatusAwaitingInput, progress.Status)

	_, err = r.Resume([]int{0})
	assert.ErrorIs(t, err, ErrInvalidSelectionCount)

	_, err = r.Resume([]int{0, 6})
	assert.ErrorIs(t, err, ErrInvalidCardIndex)

	_, err = r.Resume([]int{3, 3})
	assert.ErrorIs(t, err, ErrInvalidCardIndex)

	// The rejected attempts left the prompt standing; a valid selection
	// still works.
	progress, err = r.Resume([]int{4, 5})
	require.NoError(t, err)
	require.Equal(t, StatusAwaitingInput, progress.Status)
	require.Equal(t, PromptPlay, progress.Await.Kind)

	_, err = r.Resume([]int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidSelectionCount)
	_, err = r.Resume([]int{9})
	assert.ErrorIs(t, err, ErrInvalidCardIndex)
}

func TestRoundIllegalPlayRejectedAtBoundary(t *testing.T) {
	// Arrange a play prompt where one card would exceed 31: run the
	// sequence up to 30 so only the ace fits.
	d := stackedDeck(
		[6]deck.Card{
			card(deck.King, deck.Hearts),
			card(deck.Queen, deck.Hearts),
			card(deck.Ten, deck.Hearts),
			card(deck.Ace, deck.Spades),
			card(deck.Eight, deck.Diamonds),
			card(deck.Seven, deck.Clubs),
		},
		[6]deck.Card{
			card(deck.Nine, deck.Diamonds),
			card(deck.Nine, deck.Clubs),
			card(deck.Six, deck.Diamonds),
			card(deck.Six, deck.Clubs),
			card(deck.Two, deck.Spades),
			card(deck.Three, deck.Diamonds),
		},
		card(deck.Four, deck.Spades),
	)

	h := &human{}
	seat0 := &scripted{
		discards: []deck.Card{card(deck.Two, deck.Spades), card(deck.Three, deck.Diamonds)},
		plays: []deck.Card{
			card(deck.Nine, deck.Diamonds),
			card(deck.Nine, deck.Clubs),
			card(deck.Six, deck.Diamonds),
			card(deck.Six, deck.Clubs),
		},
	}
	r := NewRound(NewBoard(), 0, h, seat0, WithDeck(d))

	progress, err := r.Advance()
	require.NoError(t, err)
	progress, err = r.Resume([]int{4, 5}) // throw 8♦ 7♣
	require.NoError(t, err)

	// Human leads: play K♥ (10). Dealer answers 9♦ (19). Human plays 10♥
	// (29). Dealer cannot play (9♣=38, 6♦=35), go. Human is prompted at 29
	// holding Q♥ and A♠: the queen is illegal.
	require.Equal(t, PromptPlay, progress.Await.Kind)
	progress, err = r.Resume([]int{0}) // K♥
	require.NoError(t, err)
	progress, err = r.Resume([]int{1}) // 10♥ (hand is now K-gone: Q,10,A)
	require.NoError(t, err)

	require.Equal(t, StatusAwaitingInput, progress.Status)
	require.Equal(t, PromptPlay, progress.Await.Kind)
	require.Equal(t, []deck.Card{card(deck.Queen, deck.Hearts), card(deck.Ace, deck.Spades)}, progress.Await.EligibleCards)
	require.Equal(t, []int{1}, progress.Await.ValidIndices)

	_, err = r.Resume([]int{0})
	assert.ErrorIs(t, err, ErrIllegalPlay)

	// The ace is accepted.
	_, err = r.Resume([]int{1})
	require.NoError(t, err)
}

func TestRoundPassWithLegalCardsRecordsGo(t *testing.T) {
	// A human may decline to play (submitting an empty selection) even
	// when a legal card exists; it is recorded as a go.
	d := stackedDeck(
		[6]deck.Card{
			card(deck.King, deck.Hearts),
			card(deck.Ten, deck.Hearts),
			card(deck.Ace, deck.Hearts),
			card(deck.Two, deck.Spades),
			card(deck.Eight, deck.Diamonds),
			card(deck.Seven, deck.Clubs),
		},
		[6]deck.Card{
			card(deck.Queen, deck.Diamonds),
			card(deck.Ace, deck.Diamonds),
			card(deck.Five, deck.Clubs),
			card(deck.Nine, deck.Clubs),
			card(deck.Six, deck.Spades),
			card(deck.King, deck.Diamonds),
		},
		card(deck.Four, deck.Spades),
	)

	h := &human{}
	seat0 := &scripted{
		discards: []deck.Card{card(deck.Six, deck.Spades), card(deck.King, deck.Diamonds)},
		plays: []deck.Card{
			card(deck.Queen, deck.Diamonds),
			card(deck.Ace, deck.Diamonds),
			card(deck.Five, deck.Clubs),
			card(deck.Nine, deck.Clubs),
		},
	}
	r := NewRound(NewBoard(), 0, h, seat0, WithDeck(d))

	progress, err := r.Advance()
	require.NoError(t, err)
	progress, err = r.Resume([]int{4, 5})
	require.NoError(t, err)

	// Human leads K♥, then passes on its next turn despite holding legal
	// cards. The opponent keeps playing alone.
	progress, err = r.Resume([]int{0})
	require.NoError(t, err)
	require.Equal(t, PromptPlay, progress.Await.Kind)
	progress, err = r.Resume(nil)
	require.NoError(t, err)

	// Seat 0 continued the sequence solo: Q♦ then A♦... count K(10) Q(20)
	// A(21) 5(26) 9 would bust. Its go closes the sequence with a last
	// card point. Play continues until the round completes.
	for progress.Status == StatusAwaitingInput {
		// Play the first legal card whenever prompted.
		require.NotEmpty(t, progress.Await.ValidIndices)
		progress, err = r.Resume([]int{progress.Await.ValidIndices[0]})
		require.NoError(t, err)
	}
	require.Equal(t, StatusRoundOver, progress.Status)
	assert.Equal(t, PhaseComplete, r.Phase())
}

func TestGameDealerRotation(t *testing.T) {
	g := NewGame([2]string{"human", "computer"}, [2]DecisionProvider{firstLegal{}, firstLegal{}})
	require.Equal(t, Seat(0), g.Dealer())

	r := g.NextRound(WithSeed(1))
	assert.Equal(t, Seat(0), r.Dealer())
	assert.Equal(t, Seat(1), g.Dealer())

	r = g.NextRound(WithSeed(2))
	assert.Equal(t, Seat(1), r.Dealer())
	assert.Equal(t, 2, g.Rounds())
}

func TestGameFirstDealerOverride(t *testing.T) {
	g := NewGame(
		[2]string{"a", "b"},
		[2]DecisionProvider{firstLegal{}, firstLegal{}},
		WithFirstDealer(1),
	)
	r := g.NextRound(WithSeed(1))
	assert.Equal(t, Seat(1), r.Dealer())
}

func TestSeededRoundsAreReproducible(t *testing.T) {
	run := func() [2]int {
		board := NewBoard()
		r := NewRound(board, 0, firstLegal{}, firstLegal{}, WithSeed(42))
		progress, err := r.Advance()
		require.NoError(t, err)
		require.Equal(t, StatusRoundOver, progress.Status)
		return board.Scores()
	}
	assert.Equal(t, run(), run())
}

// rigged breaks the provider contract on demand. Hooks left nil fall back
// to throwing the last two dealt cards and passing every play.
type rigged struct {
	discards func(DiscardRequest) []deck.Card
	play     func(PlayRequest) PlayDecision
}

func (p rigged) SelectDiscards(req DiscardRequest) ([]deck.Card, bool) {
	if p.discards != nil {
		return p.discards(req), true
	}
	return []deck.Card{req.Hand[len(req.Hand)-2], req.Hand[len(req.Hand)-1]}, true
}

func (p rigged) SelectPlay(req PlayRequest) (PlayDecision, bool) {
	if p.play != nil {
		return p.play(req), true
	}
	return PlayDecision{Pass: true}, true
}

func TestRoundAbortsOnWrongDiscardCount(t *testing.T) {
	bad := rigged{discards: func(req DiscardRequest) []deck.Card {
		return req.Hand[:3]
	}}
	r := NewRound(NewBoard(), 0, bad, firstLegal{}, WithSeed(5))

	_, err := r.Advance()
	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Contains(t, invErr.Error(), "discarded 3 cards")
}

func TestRoundAbortsOnDiscardNotInHand(t *testing.T) {
	// Throwing the same card twice: the second removal finds nothing left.
	bad := rigged{discards: func(req DiscardRequest) []deck.Card {
		return []deck.Card{req.Hand[0], req.Hand[0]}
	}}
	r := NewRound(NewBoard(), 0, bad, firstLegal{}, WithSeed(5))

	_, err := r.Advance()
	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Contains(t, invErr.Error(), "not in its hand")
}

func TestRoundAbortsOnPlayNotInHand(t *testing.T) {
	d := stackedDeck(
		[6]deck.Card{
			card(deck.Ace, deck.Spades),
			card(deck.Two, deck.Spades),
			card(deck.Three, deck.Spades),
			card(deck.Four, deck.Spades),
			card(deck.Six, deck.Spades),
			card(deck.Seven, deck.Spades),
		},
		[6]deck.Card{
			card(deck.Ace, deck.Hearts),
			card(deck.Two, deck.Hearts),
			card(deck.Three, deck.Hearts),
			card(deck.Four, deck.Hearts),
			card(deck.Six, deck.Hearts),
			card(deck.Seven, deck.Hearts),
		},
		card(deck.Eight, deck.Diamonds),
	)
	// Seat 1 leads and claims a card nobody was dealt.
	bad := rigged{play: func(PlayRequest) PlayDecision {
		return PlayDecision{Card: card(deck.Five, deck.Clubs)}
	}}
	r := NewRound(NewBoard(), 0, bad, firstLegal{}, WithDeck(d))

	_, err := r.Advance()
	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Contains(t, invErr.Error(), "played 5♣")
}

func TestRoundAbortsWhenBothPassHoldingLegalCards(t *testing.T) {
	// Both providers discard legally, then refuse every lead.
	r := NewRound(NewBoard(), 0, rigged{}, rigged{}, WithSeed(11))

	_, err := r.Advance()
	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Contains(t, invErr.Error(), "passed with legal cards")
}
