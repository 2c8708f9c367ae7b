package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"critspeed/internal/analysis"
	"critspeed/internal/config"
	"critspeed/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenForm Screen = iota
	ScreenResults
	ScreenCurve
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	form    FormModel
	results ResultsModel
	curve   CurveModel
	help    HelpModel

	analysis *service.AnalysisService

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates the app with the form prefilled from trials
func NewApp(svc *service.AnalysisService, trials []analysis.Trial, mode analysis.Mode, form config.FormConfig, display config.DisplayConfig) *App {
	if len(trials) == 0 {
		trials = form.AnalysisTrials()
	}
	return &App{
		screen:   ScreenForm,
		analysis: svc,
		form:     NewFormModel(trials, mode, form.Step),
		results:  NewResultsModel(0, 0),
		curve:    NewCurveModel(display),
		help:     NewHelpModel(),
	}
}

// resultsComputedMsg carries a finished computation
type resultsComputedMsg struct {
	data *service.ResultsData
	err  error
}

func (a *App) compute(req computeRequestMsg) tea.Cmd {
	return func() tea.Msg {
		data, err := a.analysis.ComputeMode(req.trials, req.mode)
		return resultsComputedMsg{data: data, err: err}
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.form.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// every screen tracks the size, not only the visible one
		m, _ := a.results.Update(msg)
		a.results = m.(ResultsModel)
		m, _ = a.curve.Update(msg)
		a.curve = m.(CurveModel)
		return a, nil

	case computeRequestMsg:
		a.status = "Computing..."
		return a, a.compute(msg)

	case resultsComputedMsg:
		a.results.SetResults(msg.data, msg.err)
		a.curve.SetResults(msg.data)
		a.status = ""
		if msg.err == nil {
			a.status = "Request " + msg.data.RequestID[:8]
		}
		a.screen = ScreenResults
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenForm:
		var m tea.Model
		m, cmd = a.form.Update(msg)
		a.form = m.(FormModel)
	case ScreenResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(ResultsModel)
	case ScreenCurve:
		var m tea.Model
		m, cmd = a.curve.Update(msg)
		a.curve = m.(CurveModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// handleGlobalKey processes navigation. Digits belong to the form's fields
// while it is shown, so the form uses letters instead.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return tea.Quit, true
	case "?":
		if a.screen != ScreenHelp {
			a.prevScreen = a.screen
			a.screen = ScreenHelp
		}
		return nil, true
	case "esc":
		if a.screen == ScreenHelp {
			a.screen = a.prevScreen
			return nil, true
		}
		if a.screen != ScreenForm {
			a.screen = ScreenForm
			return nil, true
		}
		return nil, false
	case "r":
		a.screen = ScreenResults
		return nil, true
	case "c":
		a.screen = ScreenCurve
		return nil, true
	}

	if a.screen == ScreenForm {
		return nil, false
	}

	switch key {
	case "1":
		a.screen = ScreenForm
		return nil, true
	case "2":
		a.screen = ScreenResults
		return nil, true
	case "3":
		a.screen = ScreenCurve
		return nil, true
	}
	return nil, false
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenForm:
		content = a.form.View()
	case ScreenResults:
		content = a.results.View()
	case ScreenCurve:
		content = a.curve.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Critical Speed & D′ Calculator")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Trials", ScreenForm},
		{"2", "Results", ScreenResults},
		{"3", "Curve", ScreenCurve},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}
