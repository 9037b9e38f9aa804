// Package tui implements the interactive catalog browser.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Catalog is the subset of the library service the browser drives.
type Catalog interface {
	Add(title, author string, year int, genre string, read bool) (domain.Book, error)
	Remove(title string) (int, error)
	ListAll() []domain.Book
	Statistics() domain.Statistics
}

// ApplicationState represents the current state of the browser
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateFiltering
	StateAdding
	StateConfirmDelete
)

// ChromeHeight is the number of lines used by header, filter and footer
const ChromeHeight = 4

const defaultListHeight = 20

// Model is the main Bubble Tea model for the browser
type Model struct {
	State ApplicationState

	catalog Catalog
	keys    KeyMap

	books   []domain.Book // full catalog snapshot
	visible []int         // indexes into books, filter applied
	cursor  int
	offset  int

	filter textinput.Model
	form   addForm

	pendingDelete string
	status        string
	statusErr     bool

	Width  int
	Height int
}

// NewModel creates the browser over catalog
func NewModel(catalog Catalog) Model {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.PromptStyle = styles.FilterPromptStyle
	fi.Placeholder = "filter by title or author"
	fi.PlaceholderStyle = styles.DimStyle

	m := Model{
		catalog: catalog,
		keys:    DefaultKeyMap(),
		filter:  fi,
		form:    newAddForm(),
	}
	m.reload()
	return m
}

// Run starts the browser on the alternate screen and blocks until it exits
func Run(catalog Catalog) error {
	p := tea.NewProgram(NewModel(catalog), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.State {
		case StateFiltering:
			return m.updateFilter(msg)
		case StateAdding:
			return m.updateForm(msg)
		case StateConfirmDelete:
			return m.updateConfirmDelete(msg), nil
		default:
			return m.updateBrowsing(msg)
		}
	}

	if m.State == StateAdding {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.visible))
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.visible))
	case key.Matches(msg, m.keys.Filter):
		m.State = StateFiltering
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case key.Matches(msg, m.keys.Add):
		m.State = StateAdding
		m.form.start()
		m.status = ""
	case key.Matches(msg, m.keys.Delete):
		if b, ok := m.Selected(); ok {
			m.pendingDelete = b.Title
			m.State = StateConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.State = StateBrowsing
		m.filter.Blur()
		return m, nil
	case "esc":
		m.State = StateBrowsing
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		done bool
	)
	m.form, cmd, done = m.form.update(msg)

	if !done {
		if !m.form.active() {
			// esc dismissed the form
			m.State = StateBrowsing
		}
		return m, cmd
	}

	book, err := m.catalog.Add(m.form.book())
	if err != nil && m.form.retry(err) {
		return m, cmd
	}

	m.State = StateBrowsing
	m.reload()
	if err != nil {
		m.setError(err)
		return m, cmd
	}
	m.setStatus(fmt.Sprintf("Added %s", book))
	m.selectTitle(book.Title)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		removed, err := m.catalog.Remove(m.pendingDelete)
		m.reload()
		if err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("Removed %d book(s) titled %q", removed, m.pendingDelete))
		}
		m.pendingDelete = ""
		m.State = StateBrowsing
	case key.Matches(msg, m.keys.Deny):
		m.pendingDelete = ""
		m.State = StateBrowsing
	}
	return m
}

// Selected returns the book under the cursor
func (m Model) Selected() (domain.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return domain.Book{}, false
	}
	return m.books[m.visible[m.cursor]], true
}

// Visible returns the books currently shown, filter applied
func (m Model) Visible() []domain.Book {
	books := make([]domain.Book, len(m.visible))
	for i, idx := range m.visible {
		books[i] = m.books[idx]
	}
	return books
}

// Status returns the status line text and whether it reports an error
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// reload refreshes the snapshot from the catalog and reapplies the filter
func (m *Model) reload() {
	m.books = m.catalog.ListAll()
	m.applyFilter()
}

// applyFilter fuzzy-matches the filter text against "title author"
func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		m.visible = make([]int, len(m.books))
		for i := range m.books {
			m.visible[i] = i
		}
		m.clampCursor()
		return
	}

	haystack := make([]string, len(m.books))
	for i, b := range m.books {
		haystack[i] = strings.ToLower(b.Title + " " + b.Author)
	}

	matches := fuzzy.Find(query, haystack)
	m.visible = make([]int, len(matches))
	for i, match := range matches {
		m.visible[i] = match.Index
	}

	// Reset cursor to first match
	m.cursor = 0
	m.offset = 0
}

func (m *Model) selectTitle(title string) {
	for i, idx := range m.visible {
		if m.books[idx].Title == title {
			m.cursor = i
		}
	}
	m.clampCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m Model) listHeight() int {
	if m.Height <= ChromeHeight {
		return defaultListHeight
	}
	return m.Height - ChromeHeight
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) View() string {
	header := m.renderHeader()
	list := m.renderList()
	filterLine := m.renderFilter()
	footer := m.renderFooter()

	view := lipgloss.JoinVertical(lipgloss.Left, header, list, filterLine, footer)

	switch m.State {
	case StateAdding:
		if m.Width > 0 && m.Height > 0 {
			view = lipgloss.Place(m.Width, m.Height,
				lipgloss.Center, lipgloss.Center,
				m.form.modal.View())
		} else {
			view = m.form.modal.View()
		}
	case StateConfirmDelete:
		prompt := styles.ModalStyle.Render(fmt.Sprintf("Remove every book titled %q? (y/n)", m.pendingDelete))
		if m.Width > 0 && m.Height > 0 {
			view = lipgloss.Place(m.Width, m.Height,
				lipgloss.Center, lipgloss.Center,
				prompt)
		} else {
			view = prompt
		}
	}

	return view
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("Library")
	count := styles.DimStyle.Render(fmt.Sprintf("%d of %d books", len(m.visible), len(m.books)))
	return title + "  " + count
}

func (m Model) renderList() string {
	h := m.listHeight()
	if len(m.visible) == 0 {
		msg := "No books added yet. Press a to add one."
		if len(m.books) > 0 {
			msg = "No books match the filter."
		}
		return styles.DimStyle.Render(msg) + strings.Repeat("\n", h-1)
	}

	width := m.Width
	if width <= 0 {
		width = 80
	}

	var rows []string
	end := m.offset + h
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		b := m.books[m.visible[i]]
		text := fmt.Sprintf("%s by %s (%d) · %s", b.Title, b.Author, b.Year, b.Genre)
		text = styles.Truncate(text, width-6)

		style := styles.NormalItemStyle
		if i == m.cursor {
			style = styles.SelectedItemStyle
		}
		rows = append(rows, styles.RenderReadStatus(b.Read)+style.Render(text))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderFilter() string {
	if m.State == StateFiltering || m.filter.Value() != "" {
		return m.filter.View()
	}
	return ""
}

func (m Model) renderFooter() string {
	stats := m.catalog.Statistics()
	summary := fmt.Sprintf("%d books · %d read", stats.Total, stats.Read)
	if stats.PercentRead != nil {
		summary += " · " + strconv.FormatFloat(*stats.PercentRead, 'f', 2, 64) + "% " +
			styles.RenderProgressBar(*stats.PercentRead, 10)
	}

	left := styles.SubtitleStyle.Render(summary)
	if m.status != "" {
		if m.statusErr {
			left = styles.ErrorStyle.Render(m.status)
		} else {
			left = styles.SuccessStyle.Render(m.status)
		}
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return left + "  " + strings.Join(help, "  ")
}
