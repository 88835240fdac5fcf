package game

import (
	"time"

	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/randutil"
	"github.com/johnmiko/crib-back/internal/score"
)

// Phase is a stage of the round state machine. Phases advance linearly and
// never cycle back; a fresh Round is created for every hand played.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseCribPopulate
	PhaseCutStarter
	PhasePlay
	PhaseScore
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseCribPopulate:
		return "crib_populate"
	case PhaseCutStarter:
		return "cut_starter"
	case PhasePlay:
		return "play"
	case PhaseScore:
		return "score"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Move is one entry of the table log: a card played by a seat.
type Move struct {
	Seat Seat
	Card deck.Card
}

// Status tags the outcome of an Advance call.
type Status int

const (
	// StatusAwaitingInput means the round suspended at a decision point and
	// must be resumed with an answer.
	StatusAwaitingInput Status = iota
	// StatusRoundOver means the round ran to completion (or a win halted it).
	StatusRoundOver
)

// Progress is the tagged result of Advance: either a suspension carrying the
// prompt, or a completed round carrying its summary. Suspension is a normal
// result, never an error or a panic.
type Progress struct {
	Status  Status
	Await   *AwaitInput
	Summary *Summary
}

// Summary reports the counted scores of a completed round. Points computed
// after a win are never applied, so later entries stay zero when the round
// was halted mid-count.
type Summary struct {
	HandScores [2]int
	HandEvents [2][]score.Event
	CribScore  int
	CribEvents []score.Event
	Pegged     [2]int
	HeelsScore int
	Winner     Seat
	Won        bool
}

// RoundOption configures round construction.
type RoundOption func(*Round)

// WithDeck injects a prepared deck, making the deal and cut deterministic.
// The deck is used as-is and never reshuffled.
func WithDeck(d *deck.Deck) RoundOption {
	return func(r *Round) {
		r.deck = d
		r.shuffle = false
	}
}

// WithSeed derives the round's shuffled deck from a fixed seed.
func WithSeed(seed int64) RoundOption {
	return func(r *Round) {
		r.deck = deck.New(randutil.New(seed))
		r.shuffle = true
	}
}

// Round owns the full state of a single cribbage hand: both hands, the crib,
// the table log, the starter and the sequencing bookkeeping of the play
// phase. It is single-threaded and cooperative; progress happens only inside
// Advance and Resume, and exactly one of those may run at a time.
type Round struct {
	providers [2]DecisionProvider
	board     *Board
	dealer    Seat

	deck    *deck.Deck
	shuffle bool

	hands [2][]deck.Card
	kept  [2][]deck.Card // four-card hands snapshotted after the discards, for counting
	crib  []deck.Card

	table      []Move
	starter    deck.Card
	starterSet bool

	phase     Phase
	discarded [2]bool

	// Play-phase sequencer state.
	seqStart   int // table index where the current 31-count sequence begins
	active     [2]bool
	saidGo     [2]bool
	turn       Seat
	lastPlayed int // seat of the most recent card in the current sequence, or -1

	scoreStep int // 0 = non-dealer hand, 1 = dealer hand, 2 = crib

	pending *AwaitInput
	summary *Summary
	pegged  [2]int
	heels   int
}

// NewRound creates a round for the given dealer. Without options the deck is
// shuffled from the current time, the normal play path.
func NewRound(board *Board, dealer Seat, nonDealerProvider, dealerProvider DecisionProvider, opts ...RoundOption) *Round {
	r := &Round{
		board:      board,
		dealer:     dealer,
		lastPlayed: -1,
	}
	r.providers[dealer.Other()] = nonDealerProvider
	r.providers[dealer] = dealerProvider
	for _, opt := range opts {
		opt(r)
	}
	if r.deck == nil {
		r.deck = deck.New(randutil.New(time.Now().UnixNano()))
		r.shuffle = true
	}
	return r
}

// Phase returns the round's current phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Dealer returns the dealing seat; the crib belongs to it.
func (r *Round) Dealer() Seat {
	return r.dealer
}

// Hand returns the seat's current (un-played) cards.
func (r *Round) Hand(seat Seat) []deck.Card {
	return r.hands[seat]
}

// Table returns the full table log for the round.
func (r *Round) Table() []Move {
	return r.table
}

// Starter returns the cut starter card once set.
func (r *Round) Starter() (deck.Card, bool) {
	return r.starter, r.starterSet
}

// Pending returns the prompt the round is suspended on, if any.
func (r *Round) Pending() *AwaitInput {
	return r.pending
}

// Pegged returns the points each seat scored during the play phase.
func (r *Round) Pegged(seat Seat) int {
	return r.pegged[seat]
}

// SequenceValue returns the summed pegging value of the current sequence.
func (r *Round) SequenceValue() int {
	total := 0
	for _, m := range r.table[r.seqStart:] {
		total += m.Card.Value()
	}
	return total
}

// Sequence returns the cards of the current 31-count sequence in play order.
func (r *Round) Sequence() []deck.Card {
	seq := make([]deck.Card, 0, len(r.table)-r.seqStart)
	for _, m := range r.table[r.seqStart:] {
		seq = append(seq, m.Card)
	}
	return seq
}

// Advance runs the round until it either completes or needs an answer no
// provider has ready. Re-entering is idempotent with respect to committed
// work: nothing is re-dealt, re-cut or re-scored. The returned error is
// reserved for invariant violations, which abort the round.
func (r *Round) Advance() (Progress, error) {
	for {
		switch r.phase {
		case PhaseStart:
			r.dealPhase()

		case PhaseCribPopulate:
			await, err := r.cribPhase()
			if err != nil {
				return Progress{}, err
			}
			if await != nil {
				return r.suspend(await), nil
			}

		case PhaseCutStarter:
			if err := r.cutPhase(); err != nil {
				return Progress{}, err
			}

		case PhasePlay:
			await, err := r.playPhase()
			if err != nil {
				return Progress{}, err
			}
			if await != nil {
				return r.suspend(await), nil
			}

		case PhaseScore:
			if err := r.scorePhase(); err != nil {
				return Progress{}, err
			}

		case PhaseComplete:
			return Progress{Status: StatusRoundOver, Summary: r.summary}, nil
		}
	}
}

// Resume validates a human selection against the pending prompt, injects it
// into the suspended provider and re-advances. Validation failures leave the
// round state untouched so the caller can immediately retry.
func (r *Round) Resume(indices []int) (Progress, error) {
	if r.pending == nil {
		return Progress{}, ErrNoInputPending
	}
	await := r.pending

	switch await.Kind {
	case PromptDiscard:
		if len(indices) != 2 {
			return Progress{}, ErrInvalidSelectionCount
		}
	case PromptPlay:
		if len(indices) > 1 {
			return Progress{}, ErrInvalidSelectionCount
		}
	}

	cards := make([]deck.Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(await.EligibleCards) {
			return Progress{}, ErrInvalidCardIndex
		}
		cards = append(cards, await.EligibleCards[idx])
	}
	if await.Kind == PromptDiscard && len(indices) == 2 && indices[0] == indices[1] {
		return Progress{}, ErrInvalidCardIndex
	}

	if await.Kind == PromptPlay && len(indices) == 1 {
		legal := false
		for _, v := range await.ValidIndices {
			if v == indices[0] {
				legal = true
				break
			}
		}
		if !legal {
			return Progress{}, ErrIllegalPlay
		}
	}

	inj, ok := r.providers[await.Seat].(Injector)
	if !ok {
		return Progress{}, invariantf("pending prompt for seat %d but its provider accepts no injection", await.Seat)
	}
	inj.Inject(cards, len(cards) == 0)

	r.pending = nil
	return r.Advance()
}

func (r *Round) suspend(await *AwaitInput) Progress {
	r.pending = await
	return Progress{Status: StatusAwaitingInput, Await: await}
}

// dealPhase shuffles and deals six cards to each player, non-dealer first,
// alternating as a live deal would.
func (r *Round) dealPhase() {
	if r.shuffle {
		r.deck.Shuffle()
		r.shuffle = false
	}
	nonDealer := r.dealer.Other()
	for i := 0; i < 6; i++ {
		if c, ok := r.deck.Draw(); ok {
			r.hands[nonDealer] = append(r.hands[nonDealer], c)
		}
		if c, ok := r.deck.Draw(); ok {
			r.hands[r.dealer] = append(r.hands[r.dealer], c)
		}
	}
	r.phase = PhaseCribPopulate
}

// cribPhase collects two discards from each player, non-dealer first. A seat
// whose discards are already committed is skipped on re-entry.
func (r *Round) cribPhase() (*AwaitInput, error) {
	for _, seat := range []Seat{r.dealer.Other(), r.dealer} {
		if r.discarded[seat] {
			continue
		}
		req := DiscardRequest{Hand: cloneCards(r.hands[seat]), Dealer: seat == r.dealer}
		cards, ready := r.providers[seat].SelectDiscards(req)
		if !ready {
			return &AwaitInput{
				Seat:          seat,
				Kind:          PromptDiscard,
				EligibleCards: req.Hand,
				CardsNeeded:   2,
			}, nil
		}
		if len(cards) != 2 {
			return nil, invariantf("seat %d discarded %d cards, want 2", seat, len(cards))
		}
		for _, c := range cards {
			if !r.removeFromHand(seat, c) {
				return nil, invariantf("seat %d discarded %s which is not in its hand", seat, c)
			}
			r.crib = append(r.crib, c)
		}
		r.discarded[seat] = true
	}

	if len(r.crib) != 4 {
		return nil, invariantf("crib holds %d cards after populate, want 4", len(r.crib))
	}
	for seat := Seat(0); seat < 2; seat++ {
		if len(r.hands[seat]) != 4 {
			return nil, invariantf("seat %d holds %d cards after discard, want 4", seat, len(r.hands[seat]))
		}
		r.kept[seat] = cloneCards(r.hands[seat])
	}
	if err := r.checkNoDuplicates(); err != nil {
		return nil, err
	}
	r.phase = PhaseCutStarter
	return nil, nil
}

// cutPhase cuts the starter. A Jack pegs two to the dealer immediately ("his
// heels"), with a win check before the play phase begins.
func (r *Round) cutPhase() error {
	starter, ok := r.deck.Draw()
	if !ok {
		return invariantf("deck empty at starter cut")
	}
	r.starter = starter
	r.starterSet = true

	if starter.Rank == deck.Jack {
		r.heels = 2
		if r.board.Peg(r.dealer, 2) {
			r.finish()
			return nil
		}
	}

	// Non-dealer leads the first sequence.
	r.seqStart = 0
	r.active = [2]bool{true, true}
	r.saidGo = [2]bool{}
	r.turn = r.dealer.Other()
	r.lastPlayed = -1
	r.phase = PhasePlay
	return nil
}

// playPhase runs the turn sequencer until both hands are empty, a win halts
// the round, or a human answer is needed.
func (r *Round) playPhase() (*AwaitInput, error) {
	for {
		if !r.active[0] && !r.active[1] {
			done, err := r.closeSequence()
			if err != nil {
				return nil, err
			}
			if done {
				return nil, nil
			}
			continue
		}

		seat := r.turn
		if !r.active[seat] {
			r.turn = seat.Other()
			continue
		}
		if len(r.hands[seat]) == 0 {
			// Out of cards: drops from the sequence without saying go.
			r.active[seat] = false
			r.turn = seat.Other()
			continue
		}

		seqValue := r.SequenceValue()
		legal := LegalPlays(r.hands[seat], seqValue)
		if len(legal) == 0 {
			// No card fits under 31; record the go without consulting the
			// provider.
			r.saidGo[seat] = true
			r.active[seat] = false
			r.turn = seat.Other()
			continue
		}

		req := PlayRequest{
			Hand:          cloneCards(r.hands[seat]),
			Sequence:      r.Sequence(),
			SequenceValue: seqValue,
			Dealer:        seat == r.dealer,
		}
		decision, ready := r.providers[seat].SelectPlay(req)
		if !ready {
			return &AwaitInput{
				Seat:          seat,
				Kind:          PromptPlay,
				EligibleCards: req.Hand,
				CardsNeeded:   1,
				ValidIndices:  legal,
			}, nil
		}

		if decision.Pass || seqValue+decision.Card.Value() > 31 {
			// An over-31 choice is treated the same as having no legal card.
			r.saidGo[seat] = true
			r.active[seat] = false
			r.turn = seat.Other()
			continue
		}
		if !r.removeFromHand(seat, decision.Card) {
			return nil, invariantf("seat %d played %s which is not in its hand", seat, decision.Card)
		}

		r.table = append(r.table, Move{Seat: seat, Card: decision.Card})
		r.lastPlayed = int(seat)

		if points, _ := score.Pegging(r.Sequence()); points > 0 {
			r.pegged[seat] += points
			if r.board.Peg(seat, points) {
				r.finish()
				return nil, nil
			}
		}

		if r.SequenceValue() == 31 {
			// Hitting 31 exactly closes the sequence without asking anyone
			// to go.
			r.active = [2]bool{false, false}
			continue
		}
		if len(r.hands[seat]) == 0 {
			r.active[seat] = false
		}
		r.turn = seat.Other()
	}
}

// closeSequence awards the last-card point, then either ends the play phase
// or resets the sequencer for the next 31-count. The opponent of whoever
// played the final card leads next.
func (r *Round) closeSequence() (bool, error) {
	if r.lastPlayed < 0 {
		return false, invariantf("sequence closed with no card played; both providers passed with legal cards in hand")
	}
	last := Seat(r.lastPlayed)
	r.pegged[last]++
	if r.board.Peg(last, 1) {
		r.finish()
		return true, nil
	}

	if len(r.hands[0]) == 0 && len(r.hands[1]) == 0 {
		r.scoreStep = 0
		r.phase = PhaseScore
		return true, nil
	}

	r.seqStart = len(r.table)
	r.active = [2]bool{len(r.hands[0]) > 0, len(r.hands[1]) > 0}
	r.saidGo = [2]bool{}
	leader := last.Other()
	if !r.active[leader] {
		leader = last
	}
	r.turn = leader
	r.lastPlayed = -1
	return false, nil
}

// scorePhase counts the non-dealer hand, the dealer hand, then the crib, in
// that fixed order. A win mid-order halts all further counting.
func (r *Round) scorePhase() error {
	if len(r.crib) != 4 {
		return invariantf("crib holds %d cards at scoring time, want 4", len(r.crib))
	}
	if r.summary == nil {
		r.summary = &Summary{Pegged: r.pegged, HeelsScore: r.heels, Winner: NoWinner}
	}

	for r.scoreStep < 3 {
		var seat Seat
		var cards []deck.Card
		crib := false
		switch r.scoreStep {
		case 0:
			seat, cards = r.dealer.Other(), r.kept[r.dealer.Other()]
		case 1:
			seat, cards = r.dealer, r.kept[r.dealer]
		case 2:
			seat, cards, crib = r.dealer, r.crib, true
		}

		points, events := score.Hand(cards, r.starter, crib)
		if crib {
			r.summary.CribScore = points
			r.summary.CribEvents = events
		} else {
			r.summary.HandScores[seat] = points
			r.summary.HandEvents[seat] = events
		}
		r.scoreStep++

		if r.board.Peg(seat, points) {
			r.finish()
			return nil
		}
	}

	r.finish()
	return nil
}

// finish latches the round's terminal state and summary.
func (r *Round) finish() {
	if r.summary == nil {
		r.summary = &Summary{Pegged: r.pegged, HeelsScore: r.heels, Winner: NoWinner}
	}
	r.summary.Pegged = r.pegged
	if winner, ok := r.board.Winner(); ok {
		r.summary.Winner = winner
		r.summary.Won = true
	}
	r.phase = PhaseComplete
}

func (r *Round) removeFromHand(seat Seat, c deck.Card) bool {
	for i, held := range r.hands[seat] {
		if held == c {
			r.hands[seat] = append(r.hands[seat][:i], r.hands[seat][i+1:]...)
			return true
		}
	}
	return false
}

// checkNoDuplicates verifies that no card appears twice across the hands,
// the crib, the table and the starter.
func (r *Round) checkNoDuplicates() error {
	seen := make(map[deck.Card]bool, 13)
	check := func(c deck.Card) error {
		if seen[c] {
			return invariantf("duplicate card %s across zones", c)
		}
		seen[c] = true
		return nil
	}
	for seat := Seat(0); seat < 2; seat++ {
		for _, c := range r.hands[seat] {
			if err := check(c); err != nil {
				return err
			}
		}
	}
	for _, c := range r.crib {
		if err := check(c); err != nil {
			return err
		}
	}
	for _, m := range r.table {
		if err := check(m.Card); err != nil {
			return err
		}
	}
	if r.starterSet {
		if err := check(r.starter); err != nil {
			return err
		}
	}
	return nil
}

func cloneCards(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
