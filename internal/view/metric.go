// Package view renders dashboard components: metric cards, charts, movers
// tables and recommendation lists.
package view

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// ChangeType selects how a metric delta is displayed.
type ChangeType string

const (
	ChangePercentage ChangeType = "percentage"
	ChangeAbsolute   ChangeType = "absolute"
)

// Tone is the visual treatment of a delta.
type Tone int

const (
	TonePositive Tone = iota
	ToneNegative
)

var (
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	borderColor  = lipgloss.Color("#374151")

	successColorHex = "#10B981"
	errorColorHex   = "#EF4444"

	cardTitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	cardValueStyle = lipgloss.NewStyle().Bold(true)
	positiveStyle  = lipgloss.NewStyle().Foreground(successColor)
	negativeStyle  = lipgloss.NewStyle().Foreground(errorColor)
)

// ToneOf marks non-negative deltas positive.
func ToneOf(change float64) Tone {
	if change >= 0 {
		return TonePositive
	}
	return ToneNegative
}

// FormatChange renders a signed delta: +1.23%, -0.45%, +0.
// Numbers use their shortest decimal form; NaN and infinities print as NaN, +Inf and -Inf.
func FormatChange(change float64, changeType ChangeType) string {
	s := shortest(change)
	if ToneOf(change) == TonePositive && !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	if changeType == ChangePercentage {
		s += "%"
	}
	return s
}

func shortest(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// FormatCurrency formats v in the given ISO currency, e.g. $487,291.42.
// Values are rounded half away from zero to the currency's minor unit.
func FormatCurrency(v float64, code string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	fraction := 2
	if c := money.GetCurrency(code); c != nil {
		fraction = c.Fraction
	}
	minor := decimal.NewFromFloat(v).Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// MetricCard is a headline number with a signed delta.
type MetricCard struct {
	Title      string
	Value      string
	Change     float64
	ChangeType ChangeType
	Color      string // optional accent, hex
	Width      int
}

// ChangeText returns the formatted delta without styling.
func (m MetricCard) ChangeText() string {
	return FormatChange(m.Change, m.ChangeType)
}

// Tone returns the card's delta treatment.
func (m MetricCard) Tone() Tone {
	return ToneOf(m.Change)
}

// Render draws the card as a bordered block.
func (m MetricCard) Render() string {
	changeStyle := positiveStyle
	if m.Tone() == ToneNegative {
		changeStyle = negativeStyle
	}

	border := borderColor
	if m.Color != "" {
		border = lipgloss.Color(m.Color)
	}
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if m.Width > 0 {
		box = box.Width(m.Width)
	}

	body := strings.Join([]string{
		cardTitleStyle.Render(m.Title),
		cardValueStyle.Render(m.Value),
		changeStyle.Render(m.ChangeText()),
	}, "\n")
	return box.Render(body)
}

// CardRow lays cards out side by side.
func CardRow(cards ...MetricCard) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = c.Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
