package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/command"
	"github.com/nhle/taskboard/internal/ui/config"
	"github.com/nhle/taskboard/internal/ui/detail"
	helpview "github.com/nhle/taskboard/internal/ui/help"
	"github.com/nhle/taskboard/internal/ui/taskform"
	"github.com/nhle/taskboard/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewTaskCreate
	ViewTaskEdit
	ViewSettings
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	logger       *zap.Logger
	keys         *keys.KeyMap
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     taskform.Model
	settings     config.Model
	hasSettings  bool
	ready        bool
	notice       string
	errMsg       string
}

// New creates a new root application model.
func New(s store.Store, svc *listing.Service, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewList,
		store:       s,
		logger:      logger,
		keys:        k,
		taskList:    tasklist.New(svc, k, 80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		formView:    taskform.New(80, 24),
	}
}

// WithSettings enables the settings view, which saves to path.
func (m Model) WithSettings(path string, cfg *model.AppConfig) Model {
	m.settings = config.New(path, cfg, m.layout.ContentWidth(), m.layout.ContentHeight())
	m.hasSettings = true
	return m
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.taskList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.settings.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tasklist.PageLoadedMsg:
		if msg.Err != nil {
			m.fail("loading tasks", msg.Err)
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetTask(msg.Task)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		switch msg.Action {
		case detail.ActionEdit:
			return m, m.startEdit(msg.TaskID)
		case detail.ActionToggle:
			return m, m.toggleTask(msg.TaskID)
		case detail.ActionDelete:
			return m, m.deleteTask(msg.TaskID)
		}
		return m, nil

	case editReadyMsg:
		if msg.err != nil {
			m.fail("loading task", msg.err)
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.formView.StartEdit(msg.task)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg.Task)

	case taskform.TaskUpdatedMsg:
		m.currentView = m.previousView
		return m, m.updateTask(msg.Task)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			m.fail("saving task", msg.err)
			return m, nil
		}
		m.clearErr()
		m.notice = fmt.Sprintf("Task %q %s", msg.task.Title, msg.verb)
		if t, ok := m.detail.Task(); ok && t.ID == msg.task.ID {
			m.detail.SetTask(msg.task)
		}
		return m, m.taskList.LoadPage()

	case taskDeletedMsg:
		if msg.err != nil {
			m.fail("deleting task", msg.err)
			return m, nil
		}
		m.clearErr()
		m.notice = fmt.Sprintf("Task %d deleted", msg.id)
		if t, ok := m.detail.Task(); ok && t.ID == msg.id {
			m.detail.Clear()
			m.currentView = ViewList
		}
		// Reloading the same page lets the service clamp it if it emptied.
		return m, m.taskList.LoadPage()

	case config.SavedMsg:
		m.currentView = ViewList
		if msg.Err != nil {
			m.fail("saving settings", msg.Err)
			return m, nil
		}
		m.clearErr()
		m.notice = "Settings saved"
		m.settings, _ = m.settings.Update(msg)
		return m, m.taskList.SetPageSize(msg.Config.Listing.PageSize)

	case config.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		m.commandView.Blur()
		return m, m.executeCommand(command.Command(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleKey processes keys that switch views or act on the selected task.
// It reports false when the active view should receive the key instead.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewTaskCreate, ViewTaskEdit:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewSettings:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = ViewList
			return m, nil, true
		}
		return m, nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			m.commandView.Blur()
			return m, nil, true
		}
		return m, nil, false

	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
		}
		return m, nil, true

	case ViewList:
		if m.taskList.Searching() {
			return m, nil, false
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewList:
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.New):
		m.previousView = m.currentView
		m.currentView = ViewTaskCreate
		return m, m.formView.StartCreate(), true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	if key.Matches(msg, m.keys.Settings) && m.hasSettings {
		m.currentView = ViewSettings
		return m, m.settings.Start(), true
	}

	task, ok := m.taskList.SelectedTask()
	switch {
	case !ok:
		return m, nil, false
	case key.Matches(msg, m.keys.Edit):
		return m, m.startEdit(task.ID), true
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTask(task.ID), true
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteTask(task.ID), true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.formView, cmd = m.formView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// executeCommand applies a palette command to the task list.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	m.currentView = ViewList
	switch c.Kind {
	case command.KindFilter:
		return m.taskList.SetFilter(c.Arg)
	case command.KindSearch:
		return m.taskList.SetSearch(c.Arg)
	case command.KindPage:
		return m.taskList.SetPage(c.N)
	case command.KindPageSize:
		return m.taskList.SetPageSize(c.N)
	case command.KindClear:
		return m.taskList.Reset()
	case command.KindRefresh:
		return m.taskList.LoadPage()
	case command.KindQuit:
		return tea.Quit
	}
	return nil
}

// fail logs err and shows it in the status bar.
func (m *Model) fail(op string, err error) {
	m.logger.Error(op, zap.Error(err))
	m.notice = ""
	switch {
	case errors.Is(err, store.ErrNotFound):
		m.errMsg = "Task no longer exists"
	case errors.Is(err, model.ErrInvalidTask):
		m.errMsg = err.Error()
	default:
		m.errMsg = fmt.Sprintf("Error %s: %v", op, err)
	}
}

func (m *Model) clearErr() {
	m.errMsg = ""
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Taskboard", m.headerSummary())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.errMsg)
	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.formView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

// headerSummary describes the listing currently loaded.
func (m Model) headerSummary() string {
	res := m.taskList.Result()
	filter := listing.ParseStatus(m.taskList.Request().Filter)
	if res.TotalPages == 0 {
		return fmt.Sprintf("%s · no pages", filter)
	}
	return fmt.Sprintf("%s · page %d/%d", filter, res.PageNumber, res.TotalPages)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | e edit | space toggle | d delete | j/k scroll"
	case ViewTaskCreate, ViewTaskEdit, ViewSettings:
		return "enter submit | esc cancel"
	default:
		if m.taskList.Searching() {
			return "enter search | esc cancel"
		}
		if m.notice != "" {
			return m.notice + " | ? help"
		}
		return "q quit | ? help | ←/→ page | f filter | / search | n new | space toggle | d delete"
	}
}
