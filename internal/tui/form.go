package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"critspeed/internal/analysis"
	"critspeed/internal/trialfile"
)

// MinFieldValue is the smallest value the step keys will go down to
const MinFieldValue = 1.0

const (
	colDistance = iota
	colTime
	numCols
)

type trialRow struct {
	distance textinput.Model
	time     textinput.Model
}

func newTrialRow(t analysis.Trial) trialRow {
	r := trialRow{
		distance: newField("meters"),
		time:     newField("sec or m:ss"),
	}
	if t.DistanceMeters > 0 {
		r.distance.SetValue(formatNumber(t.DistanceMeters))
	}
	if t.TimeSeconds > 0 {
		r.time.SetValue(formatNumber(t.TimeSeconds))
	}
	return r
}

func newField(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 12
	ti.Width = 12
	return ti
}

// computeRequestMsg asks the app to run the models on the form's trials
type computeRequestMsg struct {
	trials []analysis.Trial
	mode   analysis.Mode
}

// FormModel is the trial entry screen: two required tests plus optional extras
type FormModel struct {
	rows  []trialRow
	focus int // row*numCols + col
	mode  analysis.Mode
	step  float64
	err   string
}

// NewFormModel creates a form prefilled with trials
func NewFormModel(trials []analysis.Trial, mode analysis.Mode, step float64) FormModel {
	if step <= 0 {
		step = 10
	}
	m := FormModel{mode: mode, step: step}
	for i := 0; i < len(trials) && i < analysis.MaxTrials; i++ {
		m.rows = append(m.rows, newTrialRow(trials[i]))
	}
	for len(m.rows) < analysis.MinTrials {
		m.rows = append(m.rows, newTrialRow(analysis.Trial{}))
	}
	m.focusField(0)
	return m
}

// Init initializes the form
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateFocused(msg)
	}

	switch key.String() {
	case "tab", "down":
		m.focusField((m.focus + 1) % m.fieldCount())
		return m, nil
	case "shift+tab", "up":
		m.focusField((m.focus - 1 + m.fieldCount()) % m.fieldCount())
		return m, nil
	case "pgup", "ctrl+up":
		m.stepFocused(m.step)
		return m, nil
	case "pgdown", "ctrl+down":
		m.stepFocused(-m.step)
		return m, nil
	case "+":
		m.addRow()
		return m, nil
	case "-":
		m.removeRow()
		return m, nil
	case "m":
		m.toggleMode()
		return m, nil
	case "enter":
		trials, err := m.Trials()
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		req := computeRequestMsg{trials: trials, mode: m.mode}
		return m, func() tea.Msg { return req }
	}

	// Only numbers reach the fields
	if key.Type == tea.KeySpace || key.Type == tea.KeyRunes && !numericRunes(key.Runes) {
		return m, nil
	}
	return m, m.updateFocused(msg)
}

// View renders the form
func (m FormModel) View() string {
	var lines []string

	lines = append(lines, cardTitleStyle.Render("Field Tests"))
	lines = append(lines, RenderMetric("Mode", string(m.mode), modeNote(m.mode)))
	lines = append(lines, "")

	header := fieldLabelStyle.Render("") + tableHeaderStyle.Width(16).Render("Distance (m)") + tableHeaderStyle.Width(16).Render("Time")
	lines = append(lines, header)

	for i := 0; i < m.visibleRows(); i++ {
		r := m.rows[i]
		label := fmt.Sprintf("Test %d", i+1)
		if i < analysis.MinTrials {
			label += "*"
		}
		lines = append(lines, fieldLabelStyle.Render(label)+
			m.renderField(r.distance, i*numCols+colDistance)+
			m.renderField(r.time, i*numCols+colTime))
	}

	if m.mode == analysis.ModeSimple && len(m.rows) > analysis.MinTrials {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d extra tests hidden in simple mode", len(m.rows)-analysis.MinTrials)))
	}

	if m.err != "" {
		lines = append(lines, "", errorStyle.Render("  "+m.err))
	}

	lines = append(lines, "", statusStyle.Render("  tab: next field  pgup/pgdn: ±step  +/-: add/remove test  m: mode  enter: compute"))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m FormModel) renderField(ti textinput.Model, index int) string {
	cell := lipgloss.NewStyle().Width(16).Padding(0, 1)
	if index == m.focus {
		return cell.Inherit(fieldFocusedStyle).Render("> " + ti.View())
	}
	return cell.Render("  " + ti.View())
}

// Trials parses the visible rows. Blank optional rows become invalid trials,
// which the validator drops.
func (m FormModel) Trials() ([]analysis.Trial, error) {
	trials := make([]analysis.Trial, 0, m.visibleRows())
	for i := 0; i < m.visibleRows(); i++ {
		r := m.rows[i]
		var t analysis.Trial
		if v := strings.TrimSpace(r.distance.Value()); v != "" {
			d, err := trialfile.ParseDistance(v)
			if err != nil {
				return nil, fmt.Errorf("test %d: %w", i+1, err)
			}
			t.DistanceMeters = d
		}
		if v := strings.TrimSpace(r.time.Value()); v != "" {
			s, err := trialfile.ParseSeconds(v)
			if err != nil {
				return nil, fmt.Errorf("test %d: %w", i+1, err)
			}
			t.TimeSeconds = s
		}
		trials = append(trials, t)
	}
	return trials, nil
}

// Mode returns the selected mode
func (m FormModel) Mode() analysis.Mode {
	return m.mode
}

func (m FormModel) visibleRows() int {
	if m.mode == analysis.ModeSimple {
		return analysis.MinTrials
	}
	return len(m.rows)
}

func (m FormModel) fieldCount() int {
	return m.visibleRows() * numCols
}

func (m *FormModel) field(index int) *textinput.Model {
	r := &m.rows[index/numCols]
	if index%numCols == colDistance {
		return &r.distance
	}
	return &r.time
}

func (m *FormModel) focusField(index int) {
	if m.focus < len(m.rows)*numCols {
		m.field(m.focus).Blur()
	}
	m.focus = index
	m.field(index).Focus()
}

func (m *FormModel) updateFocused(msg tea.Msg) tea.Cmd {
	f := m.field(m.focus)
	var cmd tea.Cmd
	*f, cmd = f.Update(msg)
	return cmd
}

// stepFocused nudges the focused field by delta, never below MinFieldValue
func (m *FormModel) stepFocused(delta float64) {
	f := m.field(m.focus)
	var v float64
	var err error
	if m.focus%numCols == colTime {
		v, err = trialfile.ParseSeconds(f.Value())
	} else {
		v, err = trialfile.ParseDistance(f.Value())
	}
	if err != nil {
		v = 0
	}
	v += delta
	if v < MinFieldValue {
		v = MinFieldValue
	}
	f.SetValue(formatNumber(v))
	f.CursorEnd()
}

func (m *FormModel) addRow() {
	if m.mode == analysis.ModeSimple || len(m.rows) >= analysis.MaxTrials {
		return
	}
	m.rows = append(m.rows, newTrialRow(analysis.Trial{}))
	m.focusField((len(m.rows) - 1) * numCols)
}

func (m *FormModel) removeRow() {
	if m.mode == analysis.ModeSimple || len(m.rows) <= analysis.MinTrials {
		return
	}
	if m.focus >= (len(m.rows)-1)*numCols {
		m.focusField((len(m.rows) - 2) * numCols)
	}
	m.rows = m.rows[:len(m.rows)-1]
}

func (m *FormModel) toggleMode() {
	if m.mode == analysis.ModeSimple {
		m.mode = analysis.ModeFull
		return
	}
	m.mode = analysis.ModeSimple
	if m.focus >= m.fieldCount() {
		m.focusField(0)
	}
}

func modeNote(mode analysis.Mode) string {
	if mode == analysis.ModeSimple {
		return "(two tests, predictions above CS)"
	}
	return "(log model below CS, D′ above)"
}

func numericRunes(runes []rune) bool {
	for _, r := range runes {
		if !strings.ContainsRune("0123456789.:", r) {
			return false
		}
	}
	return true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
