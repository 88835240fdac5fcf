package opponent

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/game"
)

const (
	throwFeatures = 9
	pegFeatures   = 7
)

// LinearWeights holds the trained weight vectors for the linear model
// opponent: 9 throwing features, 7 pegging features.
type LinearWeights struct {
	Throw []float64 `json:"throw"`
	Peg   []float64 `json:"peg"`
}

// LoadLinearWeights reads a JSON weights file exported from training.
func LoadLinearWeights(filename string) (LinearWeights, error) {
	var w LinearWeights
	data, err := os.ReadFile(filename)
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("parse weights file: %w", err)
	}
	if len(w.Throw) != throwFeatures {
		return w, fmt.Errorf("throw weights have %d features, want %d", len(w.Throw), throwFeatures)
	}
	if len(w.Peg) != pegFeatures {
		return w, fmt.Errorf("peg weights have %d features, want %d", len(w.Peg), pegFeatures)
	}
	return w, nil
}

// DefaultLinearWeights returns a hand-rounded weight set that favors keeping
// fives and low cards, usable when no trained weights file is supplied.
func DefaultLinearWeights() LinearWeights {
	return LinearWeights{
		Throw: []float64{0.4, 1.0, 0.1, 0.3, -0.2, -0.8, -0.1, -0.3, 0.1},
		Peg:   []float64{0.3, 0.6, 0.1, 0.2, 0.1, -0.1, -0.2},
	}
}

// Linear is the model-backed opponent: a linear feature model scores every
// candidate throw and play, highest dot product wins.
type Linear struct {
	weights LinearWeights
}

// NewLinear creates a linear-model opponent with the given weights.
func NewLinear(weights LinearWeights) *Linear {
	return &Linear{weights: weights}
}

// SelectDiscards evaluates all two-card throws and keeps the best-scoring
// retained hand.
func (o *Linear) SelectDiscards(req game.DiscardRequest) ([]deck.Card, bool) {
	hand := req.Hand
	best := []deck.Card{hand[0], hand[1]}
	bestScore := negInf()

	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			thrown := []deck.Card{hand[i], hand[j]}
			kept := make([]deck.Card, 0, len(hand)-2)
			for k, c := range hand {
				if k != i && k != j {
					kept = append(kept, c)
				}
			}
			s := dot(o.weights.Throw, throwVector(kept, thrown, req.Dealer))
			if s > bestScore {
				bestScore = s
				best = thrown
			}
		}
	}
	return best, true
}

// SelectPlay simulates each legal play and picks the one whose resulting
// position the pegging model likes best.
func (o *Linear) SelectPlay(req game.PlayRequest) (game.PlayDecision, bool) {
	legal := game.LegalPlays(req.Hand, req.SequenceValue)
	if len(legal) == 0 {
		return game.PlayDecision{Pass: true}, true
	}

	bestIdx := legal[0]
	bestScore := negInf()
	for _, idx := range legal {
		rest := make([]deck.Card, 0, len(req.Hand)-1)
		for k, c := range req.Hand {
			if k != idx {
				rest = append(rest, c)
			}
		}
		value := req.SequenceValue + req.Hand[idx].Value()
		s := dot(o.weights.Peg, pegVector(rest, value))
		if s > bestScore {
			bestScore = s
			bestIdx = idx
		}
	}
	return game.PlayDecision{Card: req.Hand[bestIdx]}, true
}

// throwVector extracts the 9 throwing features:
// [lowCards, fives, highCards, tens, lowThrown, fivesThrown, highThrown,
// tensThrown, dealer], each normalized to its zone size.
func throwVector(kept, thrown []deck.Card, dealer bool) []float64 {
	v := make([]float64, throwFeatures)
	for _, c := range kept {
		switch {
		case c.Value() < 5:
			v[0] += 0.25
		case c.Value() == 5:
			v[1] += 0.25
		case c.Value() < 10:
			v[2] += 0.25
		default:
			v[3] += 0.25
		}
	}
	for _, c := range thrown {
		switch {
		case c.Value() < 5:
			v[4] += 0.5
		case c.Value() == 5:
			v[5] += 0.5
		case c.Value() < 10:
			v[6] += 0.5
		default:
			v[7] += 0.5
		}
	}
	if dealer {
		v[8] = 1
	}
	return v
}

// pegVector extracts the 7 pegging features:
// [lowCards, fives, highCards, tens, countLow, countHigh, oppCards].
func pegVector(hand []deck.Card, tableValue int) []float64 {
	v := make([]float64, pegFeatures)
	for _, c := range hand {
		switch {
		case c.Value() < 5:
			v[0] += 0.25
		case c.Value() == 5:
			v[1] += 0.25
		case c.Value() < 10:
			v[2] += 0.25
		default:
			v[3] += 0.25
		}
	}
	if tableValue < 15 {
		v[4] = 1
	} else {
		v[5] = 1
	}
	// Opponent card count is not observable from the request; assume the
	// midgame average of two.
	v[6] = 0.5
	return v
}

func dot(w, v []float64) float64 {
	total := 0.0
	for i := range w {
		total += w[i] * v[i]
	}
	return total
}

func negInf() float64 {
	return -1e300
}
