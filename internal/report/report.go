// Package report prints the console summary of a comparison run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/dragsim/internal/compare"
	"github.com/san-kum/dragsim/internal/physics"
)

const (
	metricWidth = 42
	valueWidth  = 12
	ruleWidth   = 72
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	deltaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Comparison prints the rows as a fixed-width three column table.
func Comparison(w io.Writer, rows []compare.Row) error {
	rule := ruleStyle.Render(strings.Repeat("-", ruleWidth))

	var sb strings.Builder
	sb.WriteString("\n" + titleStyle.Render("Comparison") + "\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s | %s | %s",
		padRight("Metric", metricWidth), padRight("Galileo", valueWidth), padRight("Newton", valueWidth))) + "\n")
	sb.WriteString(rule + "\n")
	for _, r := range rows {
		newton := valueStyle.Render(fmt.Sprintf("%*.6f", valueWidth, r.Newton))
		if r.Key == compare.KeyDeltaX {
			newton = deltaStyle.Render(fmt.Sprintf("%*.6f", valueWidth, r.Newton))
		}
		fmt.Fprintf(&sb, "%s | %s | %s\n",
			labelStyle.Render(padRight(r.Metric, metricWidth)),
			valueStyle.Render(fmt.Sprintf("%*.6f", valueWidth, r.Galileo)),
			newton)
	}
	sb.WriteString(rule + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Params echoes the derived drag parameters and the written output files.
func Params(w io.Writer, p physics.Params, files ...string) error {
	var sb strings.Builder
	sb.WriteString("\n" + titleStyle.Render("Newton model parameters") + "\n")
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("beta ="), valueStyle.Render(fmt.Sprintf("%.6f kg/m", p.Beta())))
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("m    ="), valueStyle.Render(fmt.Sprintf("%.6f kg", p.Mass())))
	for _, f := range files {
		if f == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("file:"), f)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Metrics prints named scalar metrics sorted by name.
func Metrics(w io.Writer, values map[string]float64) error {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("\n" + titleStyle.Render("Newton run metrics") + "\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s %s\n", labelStyle.Render(padRight(name+":", 16)), valueStyle.Render(fmt.Sprintf("%.6f", values[name])))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func padRight(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}
