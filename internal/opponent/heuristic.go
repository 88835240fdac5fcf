package opponent

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/game"
)

// HeuristicConfig tunes the heuristic opponent's discard weighting.
type HeuristicConfig struct {
	// PairBonus rewards keeping a pair in the four retained cards.
	PairBonus int `hcl:"pair_bonus,optional"`
	// FifteenBonus rewards keeping a two-card fifteen.
	FifteenBonus int `hcl:"fifteen_bonus,optional"`
}

// DefaultHeuristicConfig returns the stock weights.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{PairBonus: 10, FifteenBonus: 10}
}

type heuristicConfigFile struct {
	Heuristic *HeuristicConfig `hcl:"heuristic,block"`
}

// LoadHeuristicConfig loads heuristic weights from an HCL file, falling back
// to defaults for fields the file leaves out.
func LoadHeuristicConfig(filename string) (HeuristicConfig, error) {
	cfg := DefaultHeuristicConfig()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, fmt.Errorf("config file not found: %s", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	var parsed heuristicConfigFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return cfg, fmt.Errorf("failed to decode config file: %s", diags.Error())
	}
	if parsed.Heuristic != nil {
		if parsed.Heuristic.PairBonus != 0 {
			cfg.PairBonus = parsed.Heuristic.PairBonus
		}
		if parsed.Heuristic.FifteenBonus != 0 {
			cfg.FifteenBonus = parsed.Heuristic.FifteenBonus
		}
	}
	return cfg, nil
}

// Heuristic plays greedy cribbage: discards keep pairs and fifteens
// together, plays chase 15, 31 and pairs, and otherwise creep toward the
// next scoring count.
type Heuristic struct {
	cfg HeuristicConfig
}

// NewHeuristic creates a heuristic opponent with the given weights.
func NewHeuristic(cfg HeuristicConfig) *Heuristic {
	return &Heuristic{cfg: cfg}
}

// SelectDiscards throws the pair of cards whose removal leaves the best
// retained hand: low thrown value, retained pairs and two-card fifteens.
func (o *Heuristic) SelectDiscards(req game.DiscardRequest) ([]deck.Card, bool) {
	hand := req.Hand
	best := []deck.Card{hand[0], hand[1]}
	bestScore := 1 << 30

	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			thrown := []deck.Card{hand[i], hand[j]}
			kept := make([]deck.Card, 0, len(hand)-2)
			for k, c := range hand {
				if k != i && k != j {
					kept = append(kept, c)
				}
			}

			cost := hand[i].Value() + hand[j].Value()
			if hasPair(kept) {
				cost -= o.cfg.PairBonus
			}
			if hasTwoCardFifteen(kept) {
				cost -= o.cfg.FifteenBonus
			}
			if cost < bestScore {
				bestScore = cost
				best = thrown
			}
		}
	}
	return best, true
}

// SelectPlay prefers making 15, then 31, then pairing the last card, then
// the card landing closest to 15 or 31 without busting.
func (o *Heuristic) SelectPlay(req game.PlayRequest) (game.PlayDecision, bool) {
	legal := game.LegalPlays(req.Hand, req.SequenceValue)
	if len(legal) == 0 {
		return game.PlayDecision{Pass: true}, true
	}

	for _, idx := range legal {
		if req.SequenceValue+req.Hand[idx].Value() == 15 {
			return game.PlayDecision{Card: req.Hand[idx]}, true
		}
	}
	for _, idx := range legal {
		if req.SequenceValue+req.Hand[idx].Value() == 31 {
			return game.PlayDecision{Card: req.Hand[idx]}, true
		}
	}
	if len(req.Sequence) > 0 {
		last := req.Sequence[len(req.Sequence)-1]
		for _, idx := range legal {
			if req.Hand[idx].Rank == last.Rank {
				return game.PlayDecision{Card: req.Hand[idx]}, true
			}
		}
	}

	bestIdx := legal[0]
	bestDistance := 1 << 30
	for _, idx := range legal {
		value := req.SequenceValue + req.Hand[idx].Value()
		distance := 31 - value
		if value <= 15 {
			distance = 15 - value
		}
		if distance < bestDistance {
			bestDistance = distance
			bestIdx = idx
		}
	}
	return game.PlayDecision{Card: req.Hand[bestIdx]}, true
}

func hasPair(cards []deck.Card) bool {
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Rank == cards[j].Rank {
				return true
			}
		}
	}
	return false
}

func hasTwoCardFifteen(cards []deck.Card) bool {
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Value()+cards[j].Value() == 15 {
				return true
			}
		}
	}
	return false
}
