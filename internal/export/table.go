package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"critspeed/internal/service"
)

// Headers are the prediction table columns shared by every text format
var Headers = []string{"% CS", "Speed", "Time limit", "Pace /km", "Model"}

// Summary returns the critical speed lines shown above the table
func Summary(data *service.ResultsData) []string {
	lines := []string{
		fmt.Sprintf("Critical speed: %s (%s, %s /km)", data.CriticalSpeedKph, data.CriticalSpeed, data.Pace),
		fmt.Sprintf("D′: %s", data.DPrime),
	}
	if data.PowerLaw != "" {
		lines = append(lines, fmt.Sprintf("Log model: %s", data.PowerLaw))
	}
	return lines
}

// Rows returns the prediction rows as display strings
func Rows(data *service.ResultsData) [][]string {
	rows := make([][]string, len(data.Rows))
	for i, r := range data.Rows {
		rows[i] = []string{strconv.Itoa(r.Percent) + "%", r.Speed, r.TimeLimit, r.Pace, r.Model}
	}
	return rows
}

// Table renders the summary and a bordered prediction table
func Table(data *service.ResultsData) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(Rows(data)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	var b strings.Builder
	for _, line := range Summary(data) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
