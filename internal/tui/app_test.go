package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/store"
)

func newCatalog(t *testing.T) *library.Service {
	t.Helper()
	storage, err := store.NewBoltStore("")
	require.NoError(t, err)
	svc, err := library.New(storage, adapter.NullLogger())
	require.NoError(t, err)

	seed := []domain.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: 1965, Genre: "Sci-Fi", Read: true},
		{Title: "1984", Author: "George Orwell", Year: 1949, Genre: "Dystopian"},
		{Title: "Animal Farm", Author: "George Orwell", Year: 1945, Genre: "Satire"},
	}
	for _, b := range seed {
		_, err := svc.Add(b.Title, b.Author, b.Year, b.Genre, b.Read)
		require.NoError(t, err)
	}
	return svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func visibleTitles(m Model) []string {
	var titles []string
	for _, b := range m.Visible() {
		titles = append(titles, b.Title)
	}
	return titles
}

func TestNewModelListsCatalog(t *testing.T) {
	m := NewModel(newCatalog(t))
	assert.Equal(t, []string{"Dune", "1984", "Animal Farm"}, visibleTitles(m))

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Dune", sel.Title)

	view := m.View()
	assert.Contains(t, view, "Dune by Frank Herbert (1965)")
	assert.Contains(t, view, "3 books · 1 read · 33.33%")
}

func TestCursorMovement(t *testing.T) {
	m := NewModel(newCatalog(t))
	m = send(m, runes("j"), runes("j"), runes("j"))
	sel, _ := m.Selected()
	assert.Equal(t, "Animal Farm", sel.Title, "cursor stops at the last row")

	m = send(m, runes("g"))
	sel, _ = m.Selected()
	assert.Equal(t, "Dune", sel.Title)
}

func TestFilter(t *testing.T) {
	m := NewModel(newCatalog(t))

	m = send(m, runes("/"))
	assert.Equal(t, StateFiltering, m.State)

	m = send(m, runes("orw"))
	assert.ElementsMatch(t, []string{"1984", "Animal Farm"}, visibleTitles(m))

	m = send(m, enter)
	assert.Equal(t, StateBrowsing, m.State)
	assert.Len(t, m.Visible(), 2, "filter stays applied after enter")

	m = send(m, esc)
	assert.Len(t, m.Visible(), 3)
}

func TestRemoveSelected(t *testing.T) {
	catalog := newCatalog(t)
	m := NewModel(catalog)

	m = send(m, runes("d"))
	assert.Equal(t, StateConfirmDelete, m.State)
	assert.Contains(t, m.View(), `Remove every book titled "Dune"?`)

	m = send(m, runes("n"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Len(t, catalog.ListAll(), 3)

	m = send(m, runes("d"), runes("y"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Equal(t, []string{"1984", "Animal Farm"}, visibleTitles(m))

	status, isErr := m.Status()
	assert.False(t, isErr)
	assert.Contains(t, status, "Removed 1 book(s)")
	assert.Len(t, catalog.ListAll(), 2)
}

func TestAddForm(t *testing.T) {
	catalog := newCatalog(t)
	m := NewModel(catalog)

	m = send(m, runes("a"))
	require.Equal(t, StateAdding, m.State)

	m = send(m,
		runes("Neuromancer"), enter,
		runes("William Gibson"), enter,
		runes("1984"), enter,
		runes("Cyberpunk"), enter,
		runes("y"), enter,
	)

	assert.Equal(t, StateBrowsing, m.State)
	all := catalog.ListAll()
	require.Len(t, all, 4)
	assert.Equal(t, domain.Book{Title: "Neuromancer", Author: "William Gibson", Year: 1984, Genre: "Cyberpunk", Read: true}, all[3])

	sel, _ := m.Selected()
	assert.Equal(t, "Neuromancer", sel.Title)
}

func TestAddFormRetriesInvalidField(t *testing.T) {
	catalog := newCatalog(t)
	m := NewModel(catalog)

	m = send(m, runes("a"),
		runes("Neuromancer"), enter,
		runes("William Gibson"), enter,
		runes("soon"), enter,
		runes("Cyberpunk"), enter,
		enter,
	)

	assert.Equal(t, StateAdding, m.State)
	assert.Equal(t, 2, m.form.step, "form reopens at the year prompt")
	assert.Len(t, catalog.ListAll(), 3)

	m = send(m, esc)
	assert.Equal(t, StateBrowsing, m.State)
}

func TestEmptyCatalogView(t *testing.T) {
	storage, err := store.NewBoltStore("")
	require.NoError(t, err)
	svc, err := library.New(storage, adapter.NullLogger())
	require.NoError(t, err)

	m := NewModel(svc)
	_, ok := m.Selected()
	assert.False(t, ok)

	m = send(m, runes("d"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Contains(t, m.View(), "No books added yet")
}
