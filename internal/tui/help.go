package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{
		cardTitleStyle.Render("Keyboard Shortcuts"),
		m.renderSection("Navigation", []keyHelp{
			{"1", "Trials form (from results or curve)"},
			{"2 or r", "Results"},
			{"3 or c", "Distance-time curve"},
			{"?", "Help (this screen)"},
			{"q / ctrl+c", "Quit"},
			{"esc", "Back / close help"},
		}),
		m.renderSection("Trials Form", []keyHelp{
			{"tab / down", "Next field"},
			{"shift+tab / up", "Previous field"},
			{"pgup / pgdn", "Increase / decrease by the configured step"},
			{"+ / -", "Add / remove an optional test"},
			{"m", "Switch between full and simple mode"},
			{"enter", "Compute"},
		}),
		m.renderSection("Results", []keyHelp{
			{"j / k", "Scroll"},
		}),
		m.renderTermsHelp(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderTermsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Terms"))
	lines = append(lines, "")

	terms := []struct {
		name string
		desc string
	}{
		{"CS (critical speed)", "Slope of distance against time for the first two tests."},
		{"D′", "Distance you can cover above CS before exhaustion."},
		{"Time limit", "How long a given % of CS can be held."},
		{"Log model", "Power law T = A·v^-k fitted to all valid tests, used below CS."},
		{"Simple mode", "Two tests only, predictions above CS only."},
	}

	for _, term := range terms {
		lines = append(lines, "  "+helpKeyStyle.Render(term.name))
		lines = append(lines, "  "+helpDescStyle.Render(term.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
