package opponent

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/johnmiko/crib-back/internal/game"
)

// Options carries the shared construction inputs for computer opponents.
type Options struct {
	RNG         *rand.Rand
	Heuristic   HeuristicConfig
	WeightsPath string // optional trained weights for the linear opponent
}

type entry struct {
	description string
	build       func(Options) (game.DecisionProvider, error)
}

var registry = map[string]entry{
	"random": {
		description: "Random legal plays. Great for testing.",
		build: func(opts Options) (game.DecisionProvider, error) {
			return NewRandom(opts.RNG), nil
		},
	},
	"first_card": {
		description: "Always plays the first available card in hand.",
		build: func(Options) (game.DecisionProvider, error) {
			return NewFirstCard(), nil
		},
	},
	"heuristic": {
		description: "Greedy discards and pegging plays with tunable weights.",
		build: func(opts Options) (game.DecisionProvider, error) {
			return NewHeuristic(opts.Heuristic), nil
		},
	},
	"linear": {
		description: "Model-backed: linear feature model over throw and peg decisions.",
		build: func(opts Options) (game.DecisionProvider, error) {
			weights := DefaultLinearWeights()
			if opts.WeightsPath != "" {
				loaded, err := LoadLinearWeights(opts.WeightsPath)
				if err != nil {
					return nil, err
				}
				weights = loaded
			}
			return NewLinear(weights), nil
		},
	},
}

// New builds an opponent by registry name.
func New(name string, opts Options) (game.DecisionProvider, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown opponent type: %s (available: %v)", name, Names())
	}
	if opts.Heuristic == (HeuristicConfig{}) {
		opts.Heuristic = DefaultHeuristicConfig()
	}
	return e.build(opts)
}

// Names lists the available opponent types, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the human-readable description for an opponent type.
func Description(name string) string {
	return registry[name].description
}
