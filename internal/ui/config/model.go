package config

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// maxPageSize bounds the page size accepted from the settings form.
const maxPageSize = 100

// SavedMsg reports the outcome of writing the settings to disk.
type SavedMsg struct {
	Config model.AppConfig
	Err    error
}

// CancelMsg signals the settings view was closed without saving.
type CancelMsg struct{}

// formBindings keeps huh's Value pointers stable across model copies.
type formBindings struct {
	pageSize string
	maxPages string
	level    string
}

// Model edits the listing and logging sections of the config file.
type Model struct {
	path          string
	cfg           model.AppConfig
	form          *huh.Form
	fb            *formBindings
	width, height int
}

// New creates a settings view that writes to path. cfg is copied.
func New(path string, cfg *model.AppConfig, width, height int) Model {
	m := Model{
		path:   path,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
	if cfg != nil {
		m.cfg = *cfg
	} else {
		m.cfg = *model.DefaultAppConfig()
	}
	return m
}

// Start resets the form to the current settings.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{
		pageSize: strconv.Itoa(m.cfg.Listing.PageSize),
		maxPages: strconv.Itoa(m.cfg.Listing.MaxPagesShown),
		level:    strings.ToLower(m.cfg.Logging.Level),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Config returns the settings as last saved.
func (m Model) Config() model.AppConfig {
	return m.cfg
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if saved, ok := msg.(SavedMsg); ok {
		if saved.Err == nil {
			m.cfg = saved.Config
		}
		return m, nil
	}
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.save()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	pathStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Settings"),
		pathStyle.Render(m.path),
		"",
		m.form.View(),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Page size").
				Description("Tasks per page when none is requested").
				Value(&m.fb.pageSize).
				Validate(validateCount("page size", maxPageSize)),
			huh.NewInput().
				Title("Pages shown").
				Description("Width of the page-number window").
				Value(&m.fb.maxPages).
				Validate(validateCount("pages shown", 20)),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&m.fb.level),
		),
	).WithWidth(m.formWidth())
}

// save applies the form values and writes the file in the background.
func (m Model) save() tea.Cmd {
	cfg := m.cfg
	cfg.Listing.PageSize, _ = strconv.Atoi(strings.TrimSpace(m.fb.pageSize))
	cfg.Listing.MaxPagesShown, _ = strconv.Atoi(strings.TrimSpace(m.fb.maxPages))
	cfg.Logging.Level = m.fb.level
	path := m.path

	return func() tea.Msg {
		if err := model.SaveConfig(path, &cfg); err != nil {
			return SavedMsg{Err: err}
		}
		return SavedMsg{Config: cfg}
	}
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func validateCount(field string, upper int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if n < 1 || n > upper {
			return fmt.Errorf("%s must be between 1 and %d", field, upper)
		}
		return nil
	}
}
