package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"critspeed/internal/analysis"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m FormModel, msgs ...tea.Msg) (FormModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = m.Update(msg)
		m = model.(FormModel)
	}
	return m, cmd
}

var referenceTrials = []analysis.Trial{
	{DistanceMeters: 1460, TimeSeconds: 360},
	{DistanceMeters: 2690, TimeSeconds: 720},
}

func TestNewFormModelPrefill(t *testing.T) {
	m := NewFormModel(referenceTrials, analysis.ModeFull, 10)

	trials, err := m.Trials()
	require.NoError(t, err)
	assert.Equal(t, referenceTrials, trials)

	empty := NewFormModel(nil, analysis.ModeFull, 0)
	assert.Len(t, empty.rows, analysis.MinTrials)
	assert.Equal(t, 10.0, empty.step)
}

func TestFormEnterRequestsCompute(t *testing.T) {
	m := NewFormModel(referenceTrials, analysis.ModeSimple, 10)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	req, ok := cmd().(computeRequestMsg)
	require.True(t, ok)
	assert.Equal(t, analysis.ModeSimple, req.mode)
	assert.Equal(t, referenceTrials, req.trials)
	assert.Empty(t, m.err)
}

func TestFormAddRemoveRows(t *testing.T) {
	m := NewFormModel(referenceTrials, analysis.ModeFull, 10)

	// required rows cannot be removed
	m, _ = press(t, m, keyRunes("-"))
	assert.Len(t, m.rows, 2)

	for i := 0; i < 10; i++ {
		m, _ = press(t, m, keyRunes("+"))
	}
	assert.Len(t, m.rows, analysis.MaxTrials)
	assert.Equal(t, (analysis.MaxTrials-1)*numCols, m.focus)

	// type into the focused distance field of the new row
	m, _ = press(t, m, keyRunes("4300"), tea.KeyMsg{Type: tea.KeyTab}, keyRunes("20:00"))
	trials, err := m.Trials()
	require.NoError(t, err)
	require.Len(t, trials, analysis.MaxTrials)
	assert.Equal(t, analysis.Trial{DistanceMeters: 4300, TimeSeconds: 1200}, trials[analysis.MaxTrials-1])
	// blank optional rows come through as invalid trials for the validator to drop
	assert.False(t, trials[2].Valid())

	m, _ = press(t, m, keyRunes("-"))
	assert.Len(t, m.rows, analysis.MaxTrials-1)
	assert.Less(t, m.focus, m.fieldCount())
}

func TestFormIgnoresLetters(t *testing.T) {
	m := NewFormModel(nil, analysis.ModeFull, 10)

	m, _ = press(t, m, keyRunes("x"), keyRunes("1"), keyRunes("k"), keyRunes("5"))
	assert.Equal(t, "15", m.rows[0].distance.Value())
}

func TestFormToggleMode(t *testing.T) {
	m := NewFormModel(append(append([]analysis.Trial{}, referenceTrials...), analysis.Trial{DistanceMeters: 4300, TimeSeconds: 1200}), analysis.ModeFull, 10)

	// focus the third row, then switch to simple mode
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 4, m.focus)

	m, _ = press(t, m, keyRunes("m"))
	assert.Equal(t, analysis.ModeSimple, m.Mode())
	assert.Equal(t, 0, m.focus)

	trials, err := m.Trials()
	require.NoError(t, err)
	assert.Len(t, trials, 2)

	// adding rows is disabled in simple mode
	m, _ = press(t, m, keyRunes("+"))
	assert.Len(t, m.rows, 3)

	m, _ = press(t, m, keyRunes("m"))
	assert.Equal(t, analysis.ModeFull, m.Mode())
	trials, err = m.Trials()
	require.NoError(t, err)
	assert.Len(t, trials, 3)
}

func TestFormStep(t *testing.T) {
	m := NewFormModel(referenceTrials, analysis.ModeFull, 10)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, "1470", m.rows[0].distance.Value())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, "350", m.rows[0].time.Value())

	// never below the minimum
	m.rows[0].time.SetValue("5")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, "1", m.rows[0].time.Value())
}

func TestFormParseError(t *testing.T) {
	m := NewFormModel(referenceTrials, analysis.ModeFull, 10)
	m.rows[1].time.SetValue("6:75")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.err, "test 2")
	assert.Contains(t, m.View(), "test 2")
}
