package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"critspeed/internal/service"
)

// chromeHeight is the space reserved for header, nav and footer
const chromeHeight = 6

// ResultsModel shows critical speed, D′ and the prediction table
type ResultsModel struct {
	data     *service.ResultsData
	err      error
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewResultsModel creates an empty results screen
func NewResultsModel(width, height int) ResultsModel {
	m := ResultsModel{width: width, height: height}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-chromeHeight)
		m.ready = true
	}
	return m
}

// SetResults replaces the displayed computation
func (m *ResultsModel) SetResults(data *service.ResultsData, err error) {
	m.data = data
	m.err = err
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	}
}

// Init initializes the results screen
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.viewport.SetContent(m.renderContent())
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results screen
func (m ResultsModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  1: edit tests  3: curve")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ResultsModel) renderContent() string {
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			cardTitleStyle.Render("Results"),
			errorStyle.Render("  "+service.ErrorMessage(m.err)),
		)
	}
	if m.data == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			cardTitleStyle.Render("Results"),
			metricNoteStyle.Render("  Enter your tests on the Trials screen and press enter."),
		)
	}

	sections := []string{
		"",
		cardTitleStyle.Render("Results"),
		m.renderSummary(),
		"",
		m.renderTable(),
		m.renderAbout(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultsModel) renderSummary() string {
	d := m.data
	lines := []string{
		RenderMetric("Critical speed", d.CriticalSpeedKph, fmt.Sprintf("(%s)", d.CriticalSpeed)),
		RenderMetric("CS pace", d.Pace+" /km", ""),
		RenderMetric("D′", d.DPrime, ""),
		RenderMetric("Tests used", fmt.Sprintf("%d of %d", d.ValidTrialCount, d.TrialCount), string(d.Mode)+" mode"),
	}
	if d.PowerLaw != "" {
		lines = append(lines, RenderMetric("Log model", d.PowerLaw, ""))
	}
	if d.DPrimeMeters < 0 {
		lines = append(lines, warningStyle.Render("  D′ is negative: is the shorter test entered first?"))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m ResultsModel) renderTable() string {
	if len(m.data.Rows) == 0 {
		return metricNoteStyle.Render("  No predictions for these tests.")
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%6s  %12s  %10s  %9s  %5s", "% CS", "Speed", "Time limit", "Pace /km", "Model"))
	rows := []string{header}
	for _, r := range m.data.Rows {
		line := fmt.Sprintf("%5d%%  %12s  %10s  %9s  %5s", r.Percent, r.Speed, r.TimeLimit, r.Pace, r.Model)
		if r.Percent < 100 {
			rows = append(rows, tableBelowCSStyle.Render(line))
		} else {
			rows = append(rows, tableRowStyle.Render(line))
		}
	}
	return strings.Join(rows, "\n")
}

func (m ResultsModel) renderAbout() string {
	var lines []string
	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("About these predictions"))
	lines = append(lines, metricNoteStyle.Render("  Above CS the time limit is D′ / (speed − CS)."))
	if m.data.PowerLaw != "" {
		lines = append(lines, metricNoteStyle.Render("  Below CS it comes from the log-log fit of all valid tests."))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
