package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/ui/command"
	"github.com/nhle/taskboard/internal/ui/config"
	"github.com/nhle/taskboard/internal/ui/taskform"
	"github.com/nhle/taskboard/tests/testutil"
)

func newTestApp(t *testing.T, titles ...string) (Model, store.Store) {
	t.Helper()

	st := testutil.NewTestStore(t)
	for _, title := range titles {
		_, err := st.CreateTask(context.Background(), model.Task{Title: title})
		require.NoError(t, err)
	}

	m := New(st, listing.NewService(st, 5, 5, nil), nil)
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return settle(t, m, m.Init()), st
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// settle runs cmd and feeds each resulting message back until no command
// remains.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func pressKey(m Model, k string) (Model, tea.Cmd) {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestToggleSelectedTask(t *testing.T) {
	m, st := newTestApp(t, "Write tests")

	m, cmd := pressKey(m, " ")
	m = settle(t, m, cmd)

	got, err := st.GetTask(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Contains(t, m.keyHints(), `"Write tests" toggled`)
}

func TestDeleteLastTaskOnPageClamps(t *testing.T) {
	titles := make([]string, 6)
	for i := range titles {
		titles[i] = "Task"
	}
	m, _ := newTestApp(t, titles...)

	m = settle(t, m, m.executeCommand(command.Command{Kind: command.KindPage, N: 2}))
	require.Equal(t, 2, m.taskList.Result().PageNumber)

	m, cmd := pressKey(m, "d")
	m = settle(t, m, cmd)

	res := m.taskList.Result()
	assert.Equal(t, 5, res.TotalItems)
	assert.Equal(t, 1, res.PageNumber)
}

func TestDetailViewActions(t *testing.T) {
	m, st := newTestApp(t, "Open me")

	m, cmd := pressKey(m, "enter")
	m = settle(t, m, cmd)
	require.Equal(t, ViewDetail, m.currentView)

	m, cmd = pressKey(m, "x")
	m = settle(t, m, cmd)
	shown, ok := m.detail.Task()
	require.True(t, ok)
	assert.True(t, shown.IsCompleted)

	m, cmd = pressKey(m, "d")
	m = settle(t, m, cmd)
	assert.Equal(t, ViewList, m.currentView)

	_, err := st.GetTask(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = pressKey(m, "?")
	assert.Equal(t, ViewHelp, m.currentView)

	m, _ = pressKey(m, "q")
	assert.Equal(t, ViewHelp, m.currentView, "q does not quit from help")

	m, _ = pressKey(m, "?")
	assert.Equal(t, ViewList, m.currentView)
}

func TestCommandPalette(t *testing.T) {
	m, _ := newTestApp(t, "Buy milk", "Walk dog")

	m, _ = pressKey(m, ":")
	require.Equal(t, ViewCommand, m.currentView)

	m = settle(t, m, func() tea.Msg {
		return command.CommandMsg{Kind: command.KindSearch, Arg: "MILK"}
	})

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, 1, m.taskList.Result().TotalItems)
	assert.Equal(t, "MILK", m.taskList.Request().SearchString)
}

func TestFormSubmissions(t *testing.T) {
	m, st := newTestApp(t, "Draft")

	m = settle(t, m, func() tea.Msg {
		return taskform.TaskCreatedMsg{Task: model.Task{Title: "Fresh", Priority: model.PriorityHigh}}
	})
	assert.Equal(t, 2, m.taskList.Result().TotalItems)

	m = settle(t, m, func() tea.Msg {
		return taskform.TaskUpdatedMsg{Task: model.Task{ID: 1, Title: "Final"}}
	})
	got, err := st.GetTask(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)

	m = settle(t, m, func() tea.Msg {
		return taskform.TaskUpdatedMsg{Task: model.Task{ID: 99, Title: "Ghost"}}
	})
	assert.Equal(t, "Task no longer exists", m.errMsg)
}

func TestQuitFromList(t *testing.T) {
	m, _ := newTestApp(t)

	_, cmd := pressKey(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSettingsView(t *testing.T) {
	m, _ := newTestApp(t, "a", "b", "c")

	// Without a config path the key does nothing.
	m, _ = pressKey(m, "s")
	assert.Equal(t, ViewList, m.currentView)

	m = m.WithSettings(t.TempDir()+"/config.yaml", model.DefaultAppConfig())
	m, _ = pressKey(m, "s")
	assert.Equal(t, ViewSettings, m.currentView)

	cfg := *model.DefaultAppConfig()
	cfg.Listing.PageSize = 2
	m = settle(t, m, func() tea.Msg { return config.SavedMsg{Config: cfg} })

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, 2, m.taskList.Request().PageSize)
	assert.Equal(t, 2, m.taskList.Result().TotalPages)
	assert.Equal(t, 2, m.settings.Config().Listing.PageSize)

	m = settle(t, m, func() tea.Msg { return config.SavedMsg{Err: errors.New("disk full")} })
	assert.Contains(t, m.errMsg, "disk full")
}
