package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"

	"github.com/k3s4/adk-poker-42/poker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable draws rows under a bold header. Column 0 is highlighted.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cellStyle.Inherit(headerStyle)
			case col == 0:
				return cellStyle.Inherit(handStyle)
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

// renderFields draws label/value pairs, one per line.
func renderFields(fields [][2]string) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f[0]))
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(labelStyle.Width(width + 2).Render(f[0]))
		b.WriteString(f[1])
		b.WriteByte('\n')
	}
	return b.String()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPercent(f float64) string {
	return winStyle.Render(fmt.Sprintf("%.1f%%", f*100))
}

func formatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return dimStyle.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Pretty()
	}
	return strings.Join(parts, " ")
}

// cardTokens splits a compact card string such as "AhKd" or "A♥ K♦" into
// one token per card for the tools package, which checks duplicates.
func cardTokens(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	cards, err := poker.ParseCards(s)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = c.String()
	}
	return tokens, nil
}
