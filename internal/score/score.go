// Package score implements the cribbage scoring rules as pure functions.
// Pegging scores are computed incrementally over the cards of the current
// 31-count sequence; hand and crib scores are computed once over a fixed
// five-card set (four held cards plus the starter).
package score

import (
	"fmt"

	"github.com/johnmiko/crib-back/internal/deck"
)

// Event records a single scoring rule firing and the points it awarded.
type Event struct {
	Rule   string
	Points int
}

// Total sums the points of a set of scoring events.
func Total(events []Event) int {
	total := 0
	for _, e := range events {
		total += e.Points
	}
	return total
}

// pairPoints maps the size of an N-of-a-kind to its score.
func pairPoints(n int) int {
	switch n {
	case 2:
		return 2
	case 3:
		return 6
	case 4:
		return 12
	default:
		return 0
	}
}

// Pegging computes the incremental score for the most recent card of a play
// sequence. The slice must contain only the cards of the current, unreset
// sequence; cards from sequences already closed by a 31 or a double go must
// not be included or their points would be awarded twice.
//
// The companion "last card" point for a sequence ending at exactly 31 is the
// turn sequencer's job, not ours.
func Pegging(seq []deck.Card) (int, []Event) {
	if len(seq) == 0 {
		return 0, nil
	}

	var events []Event

	value := 0
	for _, c := range seq {
		value += c.Value()
	}
	if value == 15 {
		events = append(events, Event{Rule: "fifteen", Points: 2})
	}
	if value == 31 {
		events = append(events, Event{Rule: "thirty-one", Points: 1})
	}

	// N-of-a-kind ending the sequence: longest run of identical ranks at the tail.
	tail := seq[len(seq)-1].Rank
	kind := 0
	for i := len(seq) - 1; i >= 0 && seq[i].Rank == tail; i-- {
		kind++
	}
	if pts := pairPoints(kind); pts > 0 {
		events = append(events, Event{Rule: kindName(kind), Points: pts})
	}

	// Longest run at the tail of the sequence, independent of play order.
	if k := tailRun(seq); k >= 3 {
		events = append(events, Event{Rule: fmt.Sprintf("run of %d", k), Points: k})
	}

	return Total(events), events
}

func kindName(n int) string {
	switch n {
	case 2:
		return "pair"
	case 3:
		return "pair royal"
	case 4:
		return "double pair royal"
	default:
		return "pair"
	}
}

// tailRun returns the length of the longest K >= 3 such that the most recent
// K cards of the sequence have all-distinct ranks forming a contiguous range.
func tailRun(seq []deck.Card) int {
	for k := len(seq); k >= 3; k-- {
		if isRun(seq[len(seq)-k:]) {
			return k
		}
	}
	return 0
}

func isRun(cards []deck.Card) bool {
	seen := make(map[int]bool, len(cards))
	lo, hi := cards[0].Order(), cards[0].Order()
	for _, c := range cards {
		o := c.Order()
		if seen[o] {
			return false
		}
		seen[o] = true
		if o < lo {
			lo = o
		}
		if o > hi {
			hi = o
		}
	}
	return hi-lo == len(cards)-1
}

// Hand computes the full count for four held cards plus the starter. The
// crib flag applies the stricter crib flush rule: four matching suits in the
// crib score nothing unless the starter matches too.
//
// His heels (a Jack starter) is a cut-phase event and is never counted here.
func Hand(cards []deck.Card, starter deck.Card, crib bool) (int, []Event) {
	all := make([]deck.Card, 0, len(cards)+1)
	all = append(all, cards...)
	all = append(all, starter)

	var events []Event
	events = append(events, fifteens(all)...)
	events = append(events, pairs(all)...)
	events = append(events, runs(all)...)
	if e, ok := flush(cards, starter, crib); ok {
		events = append(events, e)
	}

	return Total(events), events
}

// fifteens scores 2 for every distinct combination of two or more cards
// summing to exactly 15, enumerated by bitmask over the five cards.
func fifteens(all []deck.Card) []Event {
	var events []Event
	for mask := 1; mask < 1<<len(all); mask++ {
		sum, n := 0, 0
		for i, c := range all {
			if mask&(1<<i) != 0 {
				sum += c.Value()
				n++
			}
		}
		if n >= 2 && sum == 15 {
			events = append(events, Event{Rule: "fifteen", Points: 2})
		}
	}
	return events
}

// pairs scores 2 for every unordered pair of matching ranks, which yields
// the standard 2/6/12 for pairs, triples and quads.
func pairs(all []deck.Card) []Event {
	var events []Event
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].Rank == all[j].Rank {
				events = append(events, Event{Rule: "pair", Points: 2})
			}
		}
	}
	return events
}

// runs scores length-for-points for every maximal run of three or more
// consecutive ranks, multiplied out when duplicate ranks create several
// overlapping runs (e.g. 4,4,5,6 scores two runs of three).
func runs(all []deck.Card) []Event {
	counts := make(map[int]int)
	for _, c := range all {
		counts[c.Order()]++
	}

	var events []Event
	order := 1
	for order <= 13 {
		if counts[order] == 0 {
			order++
			continue
		}
		// Extend the stretch of consecutive present ranks.
		length := 0
		mult := 1
		for counts[order+length] > 0 {
			mult *= counts[order+length]
			length++
		}
		if length >= 3 {
			for i := 0; i < mult; i++ {
				events = append(events, Event{Rule: fmt.Sprintf("run of %d", length), Points: length})
			}
		}
		order += length
	}
	return events
}

// flush scores 4 when all four held cards share a suit, 5 when the starter
// matches as well. Crib flushes require the starter match.
func flush(cards []deck.Card, starter deck.Card, crib bool) (Event, bool) {
	if len(cards) == 0 {
		return Event{}, false
	}
	suit := cards[0].Suit
	for _, c := range cards[1:] {
		if c.Suit != suit {
			return Event{}, false
		}
	}
	if starter.Suit == suit {
		return Event{Rule: "flush", Points: len(cards) + 1}, true
	}
	if crib {
		return Event{}, false
	}
	return Event{Rule: "flush", Points: len(cards)}, true
}
