package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"critspeed/internal/config"
	"critspeed/internal/service"
)

// CurveModel charts the modeled distance and average speed over time
type CurveModel struct {
	data    *service.ResultsData
	display config.DisplayConfig
	width   int
}

// NewCurveModel creates an empty curve screen
func NewCurveModel(display config.DisplayConfig) CurveModel {
	return CurveModel{display: display}
}

// SetResults replaces the charted computation
func (m *CurveModel) SetResults(data *service.ResultsData) {
	m.data = data
}

// Init initializes the curve screen
func (m CurveModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m CurveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
	}
	return m, nil
}

// View renders the curve screen
func (m CurveModel) View() string {
	if m.data == nil || len(m.data.Curve.Times) < 2 {
		return metricNoteStyle.Render("\n  Compute results first to see the curve.")
	}

	width := m.display.ChartWidth
	if m.width > 0 && width > m.width-12 {
		width = m.width - 12
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Distance-Time Curve"),
		RenderCurve(m.data, width, m.display.ChartHeight),
	)
}

// RenderCurve draws the distance and average speed charts for a computation.
// It is shared with the curve command.
func RenderCurve(data *service.ResultsData, width, height int) string {
	c := data.Curve
	if len(c.Times) < 2 {
		return ""
	}
	horizon := c.Times[len(c.Times)-1]

	distance := asciigraph.Plot(c.Distances,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("distance (m) over 0-%s", formatMinutes(horizon))),
	)

	cs := make([]float64, len(c.SpeedsKmh))
	for i := range cs {
		cs[i] = data.CriticalSpeedKmh
	}
	speed := asciigraph.PlotMany([][]float64{c.SpeedsKmh, cs},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Gray),
		asciigraph.Caption("average speed (km/h), CS in gray"),
	)

	legend := strings.Join([]string{
		fmt.Sprintf("CS %s", data.CriticalSpeedKph),
		fmt.Sprintf("D′ %s", data.DPrime),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left,
		cardStyle.Render(distance),
		cardStyle.Render(speed),
		statusStyle.Render("  "+legend),
	)
}

func formatMinutes(seconds float64) string {
	return fmt.Sprintf("%.0f min", seconds/60)
}
