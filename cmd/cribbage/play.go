package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/display"
	"github.com/johnmiko/crib-back/internal/game"
	"github.com/johnmiko/crib-back/internal/opponent"
	"github.com/johnmiko/crib-back/internal/randutil"
)

// PlayCmd plays an interactive game in the terminal.
type PlayCmd struct {
	Opponent string `kong:"default='heuristic',help='Opponent type (see the opponents listing)'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Weights  string `kong:"help='Trained weights file for the linear opponent'"`
	Config   string `kong:"help='HCL config file for the heuristic opponent'"`
}

func (c *PlayCmd) Run() error {
	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	opts := opponent.Options{RNG: rng, WeightsPath: c.Weights}
	if c.Config != "" {
		cfg, err := opponent.LoadHeuristicConfig(c.Config)
		if err != nil {
			return err
		}
		opts.Heuristic = cfg
	}
	computer, err := opponent.New(c.Opponent, opts)
	if err != nil {
		return err
	}

	styles := display.NewStyles()
	human := &terminalPlayer{
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		styles: styles,
	}

	names := [2]string{"you", c.Opponent}
	g := game.NewGame(names, [2]game.DecisionProvider{human, computer},
		game.WithFirstDealer(game.Seat(rng.IntN(2))))

	fmt.Println(styles.Header.Render(fmt.Sprintf(" Cribbage: you vs %s ", c.Opponent)))

	round := 0
	for !g.Over() {
		round++
		dealer := g.Dealer()
		fmt.Printf("\n%s\n", styles.Header.Render(fmt.Sprintf(" Round %d, %s deal ", round, names[dealer])))

		r := g.NextRound(game.WithSeed(seed + int64(round)))
		progress, err := r.Advance()
		if err != nil {
			return err
		}
		printRoundSummary(styles, names, r, progress.Summary)
		fmt.Println(styles.FormatScores(names, g.Board().Scores()))
	}

	winner, _ := g.Board().Winner()
	if winner == 0 {
		fmt.Println(styles.Success.Render("\nYou win!"))
	} else {
		fmt.Println(styles.Error.Render(fmt.Sprintf("\n%s wins. Better luck next time.", names[winner])))
	}
	return nil
}

func printRoundSummary(styles *display.Styles, names [2]string, r *game.Round, summary *game.Summary) {
	if starter, ok := r.Starter(); ok {
		fmt.Printf("Starter: %s\n", styles.FormatCard(starter))
	}
	if summary == nil {
		return
	}
	if summary.HeelsScore > 0 {
		fmt.Printf("%s scores %d for his heels\n", names[r.Dealer()], summary.HeelsScore)
	}
	for seat := game.Seat(0); seat < 2; seat++ {
		fmt.Printf("%s pegged %d. Hand: %d (%s)\n",
			names[seat], summary.Pegged[seat], summary.HandScores[seat],
			styles.FormatEvents(summary.HandEvents[seat]))
	}
	fmt.Printf("Crib (%s): %d (%s)\n",
		names[r.Dealer()], summary.CribScore, styles.FormatEvents(summary.CribEvents))
}

// terminalPlayer reads the human's choices from stdin. It is always ready,
// so rounds run straight through without suspending.
type terminalPlayer struct {
	in     *bufio.Scanner
	out    io.Writer
	styles *display.Styles
}

func (p *terminalPlayer) SelectDiscards(req game.DiscardRequest) ([]deck.Card, bool) {
	whose := "their"
	if req.Dealer {
		whose = "your"
	}
	fmt.Fprintf(p.out, "Your hand: %s\n", p.styles.FormatIndexedHand(req.Hand))

	for {
		fmt.Fprint(p.out, p.styles.Prompt.Render(fmt.Sprintf("Throw 2 cards to %s crib (e.g. 1 2): ", whose)))
		indices, ok := p.readIndices(len(req.Hand))
		if !ok || len(indices) != 2 || indices[0] == indices[1] {
			fmt.Fprintln(p.out, p.styles.Error.Render("Pick two different cards."))
			continue
		}
		return []deck.Card{req.Hand[indices[0]], req.Hand[indices[1]]}, true
	}
}

func (p *terminalPlayer) SelectPlay(req game.PlayRequest) (game.PlayDecision, bool) {
	if len(req.Sequence) > 0 {
		fmt.Fprintf(p.out, "Table: %s %s\n",
			p.styles.FormatCards(req.Sequence),
			p.styles.Info.Render(fmt.Sprintf("(count %d)", req.SequenceValue)))
	}
	fmt.Fprintf(p.out, "Your hand: %s\n", p.styles.FormatIndexedHand(req.Hand))
	legal := game.LegalPlays(req.Hand, req.SequenceValue)

	for {
		fmt.Fprint(p.out, p.styles.Prompt.Render("Play a card (number), or press enter to pass: "))
		if !p.in.Scan() {
			return game.PlayDecision{Pass: true}, true
		}
		line := strings.TrimSpace(p.in.Text())
		if line == "" {
			return game.PlayDecision{Pass: true}, true
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(req.Hand) {
			fmt.Fprintln(p.out, p.styles.Error.Render("Pick a card by its number."))
			continue
		}
		if !containsIndex(legal, idx-1) {
			fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf("%s would go over 31.", req.Hand[idx-1])))
			continue
		}
		return game.PlayDecision{Card: req.Hand[idx-1]}, true
	}
}

// readIndices parses whitespace separated 1-based numbers into 0-based
// indices, rejecting anything out of range.
func (p *terminalPlayer) readIndices(n int) ([]int, bool) {
	if !p.in.Scan() {
		return nil, false
	}
	fields := strings.Fields(p.in.Text())
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil || idx < 1 || idx > n {
			return nil, false
		}
		indices = append(indices, idx-1)
	}
	return indices, true
}

func containsIndex(indices []int, idx int) bool {
	for _, v := range indices {
		if v == idx {
			return true
		}
	}
	return false
}
