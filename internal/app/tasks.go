package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/model"
)

// taskSavedMsg is sent after a task is created, updated, or toggled.
type taskSavedMsg struct {
	task model.Task
	verb string
	err  error
}

// taskDeletedMsg is sent after a task is deleted.
type taskDeletedMsg struct {
	id  int64
	err error
}

// editReadyMsg carries a freshly loaded task for the edit form.
type editReadyMsg struct {
	task model.Task
	err  error
}

// createTask persists a new task.
func (m *Model) createTask(task model.Task) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		created, err := s.CreateTask(context.Background(), task)
		return taskSavedMsg{task: created, verb: "created", err: err}
	}
}

// updateTask persists an edited task.
func (m *Model) updateTask(task model.Task) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		updated, err := s.UpdateTask(context.Background(), task)
		return taskSavedMsg{task: updated, verb: "updated", err: err}
	}
}

// toggleTask flips a task between active and completed.
func (m *Model) toggleTask(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		toggled, err := s.ToggleComplete(context.Background(), id)
		return taskSavedMsg{task: toggled, verb: "toggled", err: err}
	}
}

// deleteTask removes a task from the store.
func (m *Model) deleteTask(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), id)
		return taskDeletedMsg{id: id, err: err}
	}
}

// startEdit reloads a task so the form edits the stored state.
func (m *Model) startEdit(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		task, err := s.GetTask(context.Background(), id)
		return editReadyMsg{task: task, err: err}
	}
}
