package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(math.Max(v, 0) / peak * float64(len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[min(idx, len(sparkBlocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders a vertical bar chart of values with a y-axis, bottom
// axis and sparse x labels. Narrow areas fall back to a sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}
	ceiling := niceCeiling(peak)

	axisW := max(len(FormatAxisLabel(ceiling)), 3)
	plotW := width - axisW - 1

	// Downsample to what fits with one-column gaps.
	n := len(values)
	if maxBars := (plotW + 1) / 2; n > maxBars {
		values, labels = downsample(values, labels, maxBars)
		n = len(values)
	}
	barW := max(1, min(5, (plotW-(n-1))/n))

	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	levels := float64(height * 8)
	for row := height; row >= 1; row-- {
		label := ""
		switch row {
		case height:
			label = FormatAxisLabel(ceiling)
		case (height + 1) / 2:
			label = FormatAxisLabel(ceiling / 2)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(bg.Render(" "))
			}
			filled := math.Max(v, 0) / ceiling * levels
			cell := filled - float64((row-1)*8)
			switch {
			case cell >= 8:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case cell > 0:
				b.WriteString(barStyle.Render(strings.Repeat(string(sparkBlocks[int(cell)]), barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n - 1)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		buf := []rune(strings.Repeat(" ", axisLen))
		next := 0
		for i, lbl := range labels {
			pos := i * (barW + 1)
			r := []rune(lbl)
			if pos < next || pos+len(r) > axisLen {
				continue
			}
			copy(buf[pos:], r)
			next = pos + len(r) + 2
		}
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(strings.Repeat(" ", axisW+1) + strings.TrimRight(string(buf), " ")))
	}

	return b.String()
}

// HBar renders one labeled horizontal bar: "label ████░░░ value".
func HBar(label string, labelW int, value, maxValue float64, barW int, color lipgloss.Color, suffix string) string {
	t := theme.Active
	if maxValue <= 0 {
		maxValue = 1
	}
	filled := int(math.Round(value / maxValue * float64(barW)))
	filled = max(0, min(filled, barW))

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	suffixStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s ", labelW, label)) +
		barStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barW-filled)) +
		suffixStyle.Render(" "+suffix)
}

func downsample(values []float64, labels []string, n int) ([]float64, []string) {
	if n < 2 {
		n = 2
	}
	outV := make([]float64, n)
	var outL []string
	if len(labels) == len(values) {
		outL = make([]string, n)
	}
	for i := range outV {
		src := i * (len(values) - 1) / (n - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*base {
			return m * base
		}
	}
	return 10 * base
}

// FormatAxisLabel renders an axis value compactly: 950, 12k, 1.5M.
func FormatAxisLabel(v float64) string {
	trim := func(f float64, unit string) string {
		if f == math.Trunc(f) {
			return fmt.Sprintf("%.0f%s", f, unit)
		}
		return fmt.Sprintf("%.1f%s", f, unit)
	}
	switch {
	case v >= 1e9:
		return trim(v/1e9, "B")
	case v >= 1e6:
		return trim(v/1e6, "M")
	case v >= 1e3:
		return trim(v/1e3, "k")
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
