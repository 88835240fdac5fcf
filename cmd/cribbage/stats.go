package main

import (
	"context"
	"fmt"

	"github.com/johnmiko/crib-back/internal/stats"
)

// StatsCmd prints a player's recorded results grouped by opponent.
type StatsCmd struct {
	DB     string `kong:"default='cribbage.db',help='SQLite path for game results'"`
	Player string `kong:"default='human',help='Player name to summarize'"`
	Recent int    `kong:"default='0',help='Also list the N most recent games'"`
}

func (c *StatsCmd) Run() error {
	store, err := stats.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	summaries, err := store.PlayerSummary(ctx, c.Player)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Printf("No recorded games for %q\n", c.Player)
		return nil
	}

	fmt.Printf("Results for %s:\n", c.Player)
	fmt.Printf("  %-14s %6s %6s %8s %10s %8s %8s\n",
		"opponent", "games", "wins", "win%", "peg/rnd", "hand/rnd", "crib/rnd")
	for _, s := range summaries {
		fmt.Printf("  %-14s %6d %6d %7.1f%% %10.2f %8.2f %8.2f\n",
			s.Opponent, s.Games, s.Wins, 100*s.WinRate,
			s.AvgPointsPegged, s.AvgHandPoints, s.AvgCribPoints)
	}

	if c.Recent > 0 {
		recent, err := store.RecentResults(ctx, c.Player, c.Recent)
		if err != nil {
			return err
		}
		fmt.Printf("\nRecent games:\n")
		for _, r := range recent {
			outcome := "lost"
			if r.Won {
				outcome = "won"
			}
			fmt.Printf("  %s  vs %-12s %s in %d rounds\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Opponent, outcome, r.Rounds)
		}
	}
	return nil
}
