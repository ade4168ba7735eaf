package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// BarChart creates a horizontal bar chart line
func BarChart(label string, value, max float64, width int, color lipgloss.Color) string {
	if max == 0 {
		max = value
	}

	percentage := value / max
	if percentage > 1 {
		percentage = 1
	}
	if percentage < 0 {
		percentage = 0
	}

	filledWidth := int(float64(width) * percentage)
	if filledWidth < 0 {
		filledWidth = 0
	}
	if filledWidth > width {
		filledWidth = width
	}

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	barStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return fmt.Sprintf("%s %s%s %s",
		label,
		barStyle.Render(filled),
		emptyStyle.Render(empty),
		formatCell(value),
	)
}

// PercentageBar creates a percentage-based progress bar
func PercentageBar(label string, percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filledWidth := int(float64(width) * percentage / 100)
	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	// Color based on percentage
	var color lipgloss.Color
	switch {
	case percentage >= 75:
		color = lipgloss.Color("82") // Green
	case percentage >= 50:
		color = lipgloss.Color("226") // Yellow
	case percentage >= 25:
		color = lipgloss.Color("214") // Orange
	default:
		color = lipgloss.Color("196") // Red
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return fmt.Sprintf("%s %s%s %.1f%%",
		label,
		barStyle.Render(filled),
		emptyStyle.Render(empty),
		percentage,
	)
}

// Sparkline creates a simple sparkline from values
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Sparkline characters from bottom to top
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var result strings.Builder
	for _, v := range values {
		var idx int
		if max == min {
			idx = len(chars) / 2
		} else {
			normalized := (v - min) / (max - min)
			idx = int(normalized * float64(len(chars)-1))
		}
		result.WriteRune(chars[idx])
	}

	return result.String()
}

// InfoBox creates a styled info box with a value
func InfoBox(label string, value string, color lipgloss.Color) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("240")).
		Width(18).
		Align(lipgloss.Left)

	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Width(12).
		Align(lipgloss.Right)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(value),
	)

	return boxStyle.Render(content)
}

// MetricCard creates a card showing a headline number
func MetricCard(title, value, subtitle string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("226"))

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(30)

	content := titleStyle.Render(title) + "\n" +
		valueStyle.Render(value) + "\n" +
		subtitleStyle.Render(subtitle)

	return cardStyle.Render(content)
}

const terminalChartRows = 15

// padLabel truncates and right-pads a label to the given rune width.
func padLabel(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// TerminalChart renders a result table as a text chart for the TUI.
// Bar results become labelled bars, line results become a sparkline
// and single numbers become a metric card.
func TerminalChart(t *ResultTable, kind ChartType, width int) string {
	if t == nil || t.Empty() {
		return ""
	}
	if width < 20 {
		width = 20
	}

	switch kind {
	case ChartMetric:
		return MetricCard(t.Columns[0], t.StringAt(0, 0), "1 row")

	case ChartBar, ChartPie, ChartHistogram:
		x, y, err := xyColumns(t, "", "")
		if err != nil {
			return ""
		}

		rows := t.RowCount()
		if rows > terminalChartRows {
			rows = terminalChartRows
		}

		labelWidth := 0
		max := 0.0
		total := 0.0
		for i := 0; i < rows; i++ {
			if l := utf8.RuneCountInString(t.StringAt(i, x)); l > labelWidth {
				labelWidth = l
			}
			if v, ok := t.Float64At(i, y); ok {
				if v > max {
					max = v
				}
				total += v
			}
		}
		if labelWidth > 24 {
			labelWidth = 24
		}
		barWidth := width - labelWidth - 14
		if barWidth < 10 {
			barWidth = 10
		}

		var b strings.Builder
		for i := 0; i < rows; i++ {
			label := padLabel(t.StringAt(i, x), labelWidth)
			v, ok := t.Float64At(i, y)
			if !ok {
				continue
			}
			// Pie results read as share of total in the terminal.
			if kind == ChartPie && total > 0 {
				b.WriteString(PercentageBar(label, v/total*100, barWidth))
			} else {
				b.WriteString(BarChart(label, v, max, barWidth, lipgloss.Color("33")))
			}
			b.WriteString("\n")
		}
		if t.RowCount() > rows {
			b.WriteString(fmt.Sprintf("… %d more rows\n", t.RowCount()-rows))
		}
		return b.String()

	case ChartLine, ChartScatter:
		numeric := t.NumericColumns()
		if len(numeric) == 0 {
			return ""
		}
		var b strings.Builder
		for _, col := range numeric {
			values := make([]float64, 0, t.RowCount())
			for i := range t.Rows {
				if v, ok := t.Float64At(i, col); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}
			// Downsample long series to the display width.
			if len(values) > width-20 {
				step := float64(len(values)) / float64(width-20)
				sampled := make([]float64, 0, width-20)
				for f := 0.0; int(f) < len(values); f += step {
					sampled = append(sampled, values[int(f)])
				}
				values = sampled
			}
			b.WriteString(fmt.Sprintf("%s %s\n", Sparkline(values), t.Columns[col]))
		}
		return b.String()

	default:
		return ""
	}
}
