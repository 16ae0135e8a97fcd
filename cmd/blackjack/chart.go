package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/muesli/termenv"
)

type ChartCmd struct {
	NoColor bool `help:"Disable colors"`
}

func (c *ChartCmd) Run() error {
	renderer := lipgloss.NewRenderer(os.Stdout)
	if c.NoColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	chart, err := renderChart(renderer)
	if err != nil {
		return err
	}
	fmt.Print(chart)
	return nil
}

// chartRow is one line of the chart: a player hand against every up-card
type chartRow struct {
	label     string
	total     int
	soft      bool
	available game.ActionSet
}

var dealerUpcards = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

// renderChart renders the basic strategy tables for hard totals, soft
// totals and pairs
func renderChart(r *lipgloss.Renderer) (string, error) {
	noSplit := game.NewActionSet(game.Stand, game.Hit, game.Double)
	withSplit := noSplit.With(game.Split)

	var hard, soft, pairs []chartRow
	for total := 5; total <= 20; total++ {
		hard = append(hard, chartRow{label: fmt.Sprintf("%d", total), total: total, available: noSplit})
	}
	for kicker := 2; kicker <= 9; kicker++ {
		soft = append(soft, chartRow{label: fmt.Sprintf("A,%d", kicker), total: 11 + kicker, soft: true, available: noSplit})
	}
	for rank := deck.Two; rank <= deck.Ace; rank++ {
		if rank > deck.Ten && rank < deck.Ace {
			continue
		}
		value := deck.NewCard(rank, deck.Spades).Value()
		row := chartRow{label: fmt.Sprintf("%s,%s", rank, rank), total: 2 * value, available: withSplit}
		if rank == deck.Ace {
			row.total, row.soft = 12, true
		}
		pairs = append(pairs, row)
	}

	var b strings.Builder
	for _, section := range []struct {
		title string
		rows  []chartRow
	}{
		{"Hard totals", hard},
		{"Soft totals", soft},
		{"Pairs", pairs},
	} {
		b.WriteString(r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Render(section.title))
		b.WriteString("\n")
		b.WriteString(chartHeader())
		for _, row := range section.rows {
			line, err := renderChartRow(r, row)
			if err != nil {
				return "", err
			}
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("S = Stand, H = Hit, D = Double Down (Hit when not allowed), P = Split\n")
	return b.String(), nil
}

func chartHeader() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-5s", ""))
	for _, up := range dealerUpcards {
		b.WriteString(" " + upcardLabel(up))
	}
	b.WriteString("\n")
	return b.String()
}

func renderChartRow(r *lipgloss.Renderer, row chartRow) (string, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-5s", row.label))
	for _, up := range dealerUpcards {
		action, err := game.BasicStrategy(row.total, row.soft, up, row.available)
		if err != nil {
			return "", fmt.Errorf("chart row %s against %s: %w", row.label, upcardLabel(up), err)
		}
		b.WriteString(" " + chartCell(r, action))
	}
	b.WriteString("\n")
	return b.String(), nil
}

func upcardLabel(up int) string {
	switch up {
	case 10:
		return "T"
	case 11:
		return "A"
	default:
		return fmt.Sprintf("%d", up)
	}
}

func chartCell(r *lipgloss.Renderer, action game.Action) string {
	var code, color string
	switch action {
	case game.Stand:
		code, color = "S", "#FFEAA7"
	case game.Hit:
		code, color = "H", "#FAFAFA"
	case game.Double:
		code, color = "D", "#96CEB4"
	case game.Split:
		code, color = "P", "#FF6B6B"
	}
	return r.NewStyle().Foreground(lipgloss.Color(color)).Render(code)
}
