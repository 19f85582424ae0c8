package tasklist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// PageLoadedMsg carries the result of a listing request.
type PageLoadedMsg struct {
	Result listing.Result
	Err    error
}

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	Task model.Task
}

// footerHeight is the summary line plus the pager line.
const footerHeight = 2

// Model is the paged task list view. It owns the listing request and
// re-issues it whenever paging, filter, or search change.
type Model struct {
	list        list.Model
	service     *listing.Service
	keys        *keys.KeyMap
	req         listing.Request
	result      listing.Result
	loaded      bool
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model.
func New(svc *listing.Service, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-footerHeight)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search title and description..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:    l,
		service: svc,
		keys:    k,
		req: listing.Request{
			Filter:     string(listing.StatusAll),
			PageNumber: 1,
			PageSize:   svc.PageSize(),
		},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the first page.
func (m Model) Init() tea.Cmd {
	return m.LoadPage()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.result = msg.Result
		m.loaded = true
		m.req.PageNumber = msg.Result.PageNumber
		items := make([]list.Item, len(msg.Result.Tasks))
		for i, task := range msg.Result.Tasks {
			items[i] = TaskItem{Task: task}
		}
		m.list.Title = m.title()
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, m.SetSearch(m.searchInput.Value())

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.SetValue(m.req.SearchString)
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedTaskMsg{Task: task} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.req.SearchString)
		m.searchInput.CursorEnd()
		m.resize()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.PrevPage):
		if !m.result.HasPreviousPage() {
			return m, nil
		}
		return m, m.SetPage(m.result.PageNumber - 1)

	case key.Matches(msg, m.keys.NextPage):
		if !m.result.HasNextPage() {
			return m, nil
		}
		return m, m.SetPage(m.result.PageNumber + 1)

	case key.Matches(msg, m.keys.CycleFilter):
		return m, m.SetFilter(string(listing.ParseStatus(m.req.Filter).Next()))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadPage()
	}

	// Delegate to the list for navigation within the page.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SetFilter changes the status filter and returns to the first page.
func (m *Model) SetFilter(filter string) tea.Cmd {
	m.req.Filter = filter
	m.req.PageNumber = 1
	return m.LoadPage()
}

// SetSearch changes the search string and returns to the first page.
func (m *Model) SetSearch(search string) tea.Cmd {
	m.req.SearchString = search
	m.req.PageNumber = 1
	m.searchInput.SetValue(search)
	m.resize()
	return m.LoadPage()
}

// SetPage requests a page. Out-of-range pages are clamped by the service.
func (m *Model) SetPage(page int) tea.Cmd {
	m.req.PageNumber = page
	return m.LoadPage()
}

// SetPageSize changes the page size and returns to the first page.
func (m *Model) SetPageSize(size int) tea.Cmd {
	m.req.PageSize = size
	m.req.PageNumber = 1
	return m.LoadPage()
}

// Reset clears filter, search, and page.
func (m *Model) Reset() tea.Cmd {
	m.req = listing.Request{
		Filter:     string(listing.StatusAll),
		PageNumber: 1,
		PageSize:   m.service.PageSize(),
	}
	m.searchInput.Reset()
	m.resize()
	return m.LoadPage()
}

// Request returns the listing request the view currently shows.
func (m Model) Request() listing.Request {
	return m.req
}

// Result returns the last loaded listing.
func (m Model) Result() listing.Result {
	return m.result
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SelectedTask returns the highlighted task, if any.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// LoadPage returns a tea.Cmd that runs the current request.
func (m Model) LoadPage() tea.Cmd {
	req := m.req
	svc := m.service
	return func() tea.Msg {
		res, err := svc.List(context.Background(), req)
		return PageLoadedMsg{Result: res, Err: err}
	}
}

// View renders the search bar (while searching), the page, and the footer.
func (m Model) View() string {
	var parts []string
	if m.searchMode {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	}

	if m.loaded && len(m.result.Tasks) == 0 {
		parts = append(parts, m.renderEmptyState())
	} else {
		parts = append(parts, m.list.View())
	}

	parts = append(parts,
		theme.HelpStyle.PaddingLeft(2).Render(Summary(m.result)),
		m.renderPager(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderEmptyState shows guidance text when the listing is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.listHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.req.SearchString != "" || listing.ParseStatus(m.req.Filter) != listing.StatusAll {
		return style.Render("No matching tasks.\nPress f to change the filter or / to search again.")
	}
	return style.Render("No tasks yet.\n\nPress n to create one.")
}

func (m Model) renderPager() string {
	items := PagerItems(m.result)
	rendered := make([]string, len(items))
	for i, it := range items {
		switch {
		case it.Current:
			rendered[i] = theme.CurrentPageStyle.Render(it.Label)
		case it.Enabled:
			rendered[i] = theme.PageStyle.Foreground(theme.ColorWhite).Render(it.Label)
		default:
			rendered[i] = theme.PageStyle.Render(it.Label)
		}
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (m Model) title() string {
	parts := []string{"Tasks", string(listing.ParseStatus(m.req.Filter))}
	if m.req.SearchString != "" {
		parts = append(parts, strconv.Quote(m.req.SearchString))
	}
	return strings.Join(parts, " · ")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
	m.resize()
}

func (m *Model) resize() {
	m.list.SetSize(m.width, m.listHeight())
}

func (m Model) listHeight() int {
	h := m.height - footerHeight
	if m.searchMode {
		h--
	}
	return max(h, 0)
}

// Summary returns the "Showing X-Y of N tasks" line for a listing.
func Summary(res listing.Result) string {
	if res.TotalItems == 0 {
		return "No tasks to show"
	}
	return fmt.Sprintf("Showing %d-%d of %d tasks",
		res.FirstItemIndex(), res.LastItemIndex(), res.TotalItems)
}

// PagerItem is one cell of the pager line.
type PagerItem struct {
	Label   string
	Current bool
	Enabled bool
}

// PagerItems lays out the pager: a previous arrow, the page window with
// ellipses where pages are hidden, and a next arrow. It is empty when the
// listing has no pages.
func PagerItems(res listing.Result) []PagerItem {
	if res.TotalPages == 0 {
		return nil
	}

	items := []PagerItem{{Label: "‹", Enabled: res.HasPreviousPage()}}

	window := res.PageNumbers
	if len(window) > 0 && window[0] > 1 {
		items = append(items, PagerItem{Label: "…"})
	}
	for _, p := range window {
		items = append(items, PagerItem{
			Label:   strconv.Itoa(p),
			Current: p == res.PageNumber,
			Enabled: p != res.PageNumber,
		})
	}
	if len(window) > 0 && window[len(window)-1] < res.TotalPages {
		items = append(items, PagerItem{Label: "…"})
	}

	return append(items, PagerItem{Label: "›", Enabled: res.HasNextPage()})
}
