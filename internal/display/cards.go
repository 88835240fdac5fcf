// Package display renders cards, hands and scores for the terminal client.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/johnmiko/crib-back/internal/deck"
	"github.com/johnmiko/crib-back/internal/game"
	"github.com/johnmiko/crib-back/internal/score"
)

// Styles contains all styling for terminal output.
type Styles struct {
	Header    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Score     lipgloss.Style
	Prompt    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Score: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// FormatCard renders one card with suit coloring.
func (s *Styles) FormatCard(c deck.Card) string {
	if c.IsRed() {
		return s.RedCard.Render(c.String())
	}
	return s.BlackCard.Render(c.String())
}

// FormatCards renders a card list separated by spaces.
func (s *Styles) FormatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, c := range cards {
		formatted = append(formatted, s.FormatCard(c))
	}
	return strings.Join(formatted, " ")
}

// FormatIndexedHand renders a hand with 1-based selection numbers under
// each card.
func (s *Styles) FormatIndexedHand(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for i, c := range cards {
		formatted = append(formatted, fmt.Sprintf("%s(%d)", s.FormatCard(c), i+1))
	}
	return strings.Join(formatted, " ")
}

// FormatScores renders both players' scores on one line.
func (s *Styles) FormatScores(names [2]string, scores [2]int) string {
	return s.Score.Render(fmt.Sprintf("%s: %d  %s: %d", names[0], scores[0], names[1], scores[1]))
}

// FormatEvents renders a scoring breakdown like "fifteen (2), pair (2)".
func (s *Styles) FormatEvents(events []score.Event) string {
	if len(events) == 0 {
		return s.Info.Render("no points")
	}
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Rule, e.Points))
	}
	return strings.Join(parts, ", ")
}

// FormatTable renders the play-phase table with the running count.
func (s *Styles) FormatTable(moves []game.Move, value int) string {
	cards := make([]deck.Card, 0, len(moves))
	for _, m := range moves {
		cards = append(cards, m.Card)
	}
	return fmt.Sprintf("%s  %s", s.FormatCards(cards), s.Info.Render(fmt.Sprintf("count %d", value)))
}
