package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/theme"
)

// Kind identifies a palette command.
type Kind int

const (
	KindFilter Kind = iota
	KindSearch
	KindPage
	KindPageSize
	KindClear
	KindRefresh
	KindQuit
)

// Command is a parsed palette entry. Arg holds the filter or search text,
// N the page number or size.
type Command struct {
	Kind Kind
	Arg  string
	N    int
}

// Usage lists the accepted commands for the help view.
var Usage = []string{
	"all | active | completed   set the status filter",
	"search <text>              search title and description",
	"page <n>                   jump to page n",
	"size <n>                   show n tasks per page",
	"clear                      reset filter, search, and page",
	"refresh                    reload the current page",
	"quit                       exit",
}

// Parse turns palette input into a Command.
func Parse(input string) (Command, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "all", "active", "completed":
		return Command{Kind: KindFilter, Arg: string(listing.ParseStatus(verb))}, nil
	case "filter":
		return Command{Kind: KindFilter, Arg: string(listing.ParseStatus(rest))}, nil
	case "search", "find":
		return Command{Kind: KindSearch, Arg: rest}, nil
	case "page", "p":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Command{}, fmt.Errorf("page needs a number, got %q", rest)
		}
		return Command{Kind: KindPage, N: n}, nil
	case "size":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("size needs a positive number, got %q", rest)
		}
		return Command{Kind: KindPageSize, N: n}, nil
	case "clear":
		return Command{Kind: KindClear}, nil
	case "refresh", "r":
		return Command{Kind: KindRefresh}, nil
	case "quit", "q":
		return Command{Kind: KindQuit}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", verb)
	}
}

// CommandMsg is emitted when the user executes a valid command.
type CommandMsg Command

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "active, search milk, page 3..."
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette. Invalid input stays in
// the palette with an error line.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			return m, nil
		}
		cmd, err := Parse(raw)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.input.Reset()
		return m, func() tea.Msg { return CommandMsg(cmd) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{titleStyle.Render("Command Palette"), m.input.View()}
	if m.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err.Error()))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input and clears any old error.
func (m *Model) Focus() tea.Cmd {
	m.err = nil
	m.input.Reset()
	return m.input.Focus()
}

// Blur releases keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}
