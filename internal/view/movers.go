package view

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bobmcallan/quantdash/internal/models"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(mutedColor).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sectionStyle     = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// MoversTable renders gainers or losers as a table: symbol, name, price, change.
func MoversTable(title string, movers []models.Mover) string {
	changes := make([]float64, len(movers))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("Symbol", "Name", "Price", "Change")
	for i, m := range movers {
		changes[i] = m.ChangePercent
		t.Row(m.Symbol, m.Name, strconv.FormatFloat(m.Price, 'f', 2, 64), FormatChange(m.ChangePercent, ChangePercentage))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return tableHeaderStyle
		}
		if col == 3 && row >= 0 && row < len(changes) {
			if ToneOf(changes[row]) == ToneNegative {
				return tableCellStyle.Foreground(errorColor)
			}
			return tableCellStyle.Foreground(successColor)
		}
		return tableCellStyle
	})
	return sectionStyle.Render(title) + "\n" + t.Render()
}

// PositionsTable renders portfolio holdings.
func PositionsTable(positions []models.Position, currency string) string {
	changes := make([]float64, len(positions))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("Symbol", "Name", "Shares", "Price", "Value", "Day")
	for i, p := range positions {
		changes[i] = p.DayChange
		t.Row(
			p.Symbol,
			p.Name,
			strconv.FormatFloat(p.Shares, 'f', -1, 64),
			FormatCurrency(p.Price, currency),
			FormatCurrency(p.Value, currency),
			FormatChange(p.DayChange, ChangePercentage),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return tableHeaderStyle
		}
		if col == 5 && row >= 0 && row < len(changes) {
			if ToneOf(changes[row]) == ToneNegative {
				return tableCellStyle.Foreground(errorColor)
			}
			return tableCellStyle.Foreground(successColor)
		}
		return tableCellStyle
	})
	return t.Render()
}

// KeyValueTable renders two-column rows under a title.
func KeyValueTable(title string, headers [2]string, rows [][2]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(headers[0], headers[1])
	for _, r := range rows {
		t.Row(r[0], r[1])
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return tableHeaderStyle
		}
		return tableCellStyle
	})
	return sectionStyle.Render(title) + "\n" + t.Render()
}

// Section renders a bold heading.
func Section(title string) string {
	return sectionStyle.Render(title)
}
