package main

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/johnmiko/crib-back/cmd/cribbage/shared"
	"github.com/johnmiko/crib-back/internal/game"
	"github.com/johnmiko/crib-back/internal/opponent"
	"github.com/johnmiko/crib-back/internal/randutil"
	"github.com/johnmiko/crib-back/internal/stats"
)

// SimulateCmd plays computer opponents against each other and reports win
// rates, optionally recording every game to the stats database.
type SimulateCmd struct {
	Games     int    `kong:"default='1000',help='Number of games to simulate'"`
	Opponent1 string `kong:"default='heuristic',help='First opponent type'"`
	Opponent2 string `kong:"default='random',help='Second opponent type'"`
	Seed      int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	Weights   string `kong:"help='Trained weights file for the linear opponent'"`
	DB        string `kong:"help='Record results to this SQLite path'"`
	Verbose   bool   `kong:"short='V',help='Verbose logging'"`
	JSON      bool   `kong:"help='Structured JSON log output'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Verbose)
	if c.JSON {
		logger = shared.SetupStructuredLogger(c.Verbose)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	var results *stats.Store
	if c.DB != "" {
		var err error
		results, err = stats.Open(c.DB)
		if err != nil {
			return err
		}
		defer results.Close()
	}

	names := [2]string{c.Opponent1, c.Opponent2}
	logger.Info().
		Str("opponent1", c.Opponent1).
		Str("opponent2", c.Opponent2).
		Int("games", c.Games).
		Int64("seed", seed).
		Msg("Starting simulation")

	var wins [2]int
	var totalRounds int
	start := time.Now()

	for i := 0; i < c.Games; i++ {
		p1, err := opponent.New(c.Opponent1, opponent.Options{RNG: rng, WeightsPath: c.Weights})
		if err != nil {
			return err
		}
		p2, err := opponent.New(c.Opponent2, opponent.Options{RNG: rng, WeightsPath: c.Weights})
		if err != nil {
			return err
		}

		// Alternate who deals first so neither side keeps the opening
		// crib advantage.
		g := game.NewGame(names, [2]game.DecisionProvider{p1, p2},
			game.WithFirstDealer(game.Seat(i%2)))

		winner, rounds, tally, err := playOut(g, rng)
		if err != nil {
			return err
		}
		wins[winner]++
		totalRounds += rounds

		if results != nil {
			for seat := game.Seat(0); seat < 2; seat++ {
				if err := results.RecordResult(context.Background(), stats.Result{
					Player:       names[seat],
					Opponent:     names[seat.Other()],
					Won:          winner == seat,
					Rounds:       rounds,
					PointsPegged: tally[seat].pegged,
					HandPoints:   tally[seat].hand,
					CribPoints:   tally[seat].crib,
				}); err != nil {
					return err
				}
			}
		}

		if c.Verbose {
			logger.Debug().
				Int("game", i+1).
				Str("winner", names[winner]).
				Int("rounds", rounds).
				Msg("Game complete")
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("\nSimulated %d games in %s (%.0f games/sec)\n",
		c.Games, elapsed.Round(time.Millisecond), float64(c.Games)/elapsed.Seconds())
	for seat := 0; seat < 2; seat++ {
		fmt.Printf("  %-12s %5d wins  (%.1f%%)\n",
			names[seat], wins[seat], 100*float64(wins[seat])/float64(c.Games))
	}
	fmt.Printf("  avg rounds per game: %.1f\n", float64(totalRounds)/float64(c.Games))
	return nil
}

type seatTally struct {
	pegged int
	hand   int
	crib   int
}

// playOut runs one game to completion and reports the winner with each
// seat's point totals.
func playOut(g *game.Game, rng *rand.Rand) (game.Seat, int, [2]seatTally, error) {
	var tally [2]seatTally
	rounds := 0

	for !g.Over() {
		rounds++
		dealer := g.Dealer()
		r := g.NextRound(game.WithSeed(rng.Int64()))
		progress, err := r.Advance()
		if err != nil {
			return 0, rounds, tally, err
		}
		summary := progress.Summary
		for seat := game.Seat(0); seat < 2; seat++ {
			tally[seat].pegged += summary.Pegged[seat]
			tally[seat].hand += summary.HandScores[seat]
		}
		tally[dealer].crib += summary.CribScore
	}

	winner, _ := g.Board().Winner()
	return winner, rounds, tally, nil
}
