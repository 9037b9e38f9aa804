package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/components"
)

// formField is one prompt of the add-book form
type formField struct {
	name        string // validation field name
	label       string
	placeholder string
}

var addFormFields = []formField{
	{name: "title", label: "Title", placeholder: "Dune"},
	{name: "author", label: "Author", placeholder: "Frank Herbert"},
	{name: "year", label: "Publication year", placeholder: "1965"},
	{name: "genre", label: "Genre", placeholder: "Sci-Fi"},
	{name: "read", label: "Read? (y/n)", placeholder: "n"},
}

// addForm collects the fields of a new book one prompt at a time
type addForm struct {
	modal  components.InputModal
	step   int
	values []string
}

func newAddForm() addForm {
	return addForm{modal: components.NewInputModal()}
}

func (f *addForm) start() {
	f.values = make([]string, len(addFormFields))
	f.show(0, "")
}

func (f *addForm) show(step int, hint string) {
	f.step = step
	field := addFormFields[step]
	f.modal.SetPlaceholder(field.placeholder)
	f.modal.Show("Add book: "+field.label, f.values[step])
	f.modal.SetHint(hint)
}

func (f addForm) active() bool {
	return f.modal.IsVisible()
}

// update feeds msg to the current prompt. done is true once the last
// prompt was submitted.
func (f addForm) update(msg tea.Msg) (addForm, tea.Cmd, bool) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	f.modal, cmd, submitted = f.modal.Update(msg)
	if !submitted {
		return f, cmd, false
	}

	f.values[f.step] = strings.TrimSpace(f.modal.Value())
	if f.step == len(addFormFields)-1 {
		f.modal.Hide()
		return f, cmd, true
	}
	f.show(f.step+1, "")
	return f, cmd, false
}

// book converts the collected values into Add arguments. An unparsable
// year becomes 0 so validation reports it.
func (f addForm) book() (title, author string, year int, genre string, read bool) {
	year, err := strconv.Atoi(f.values[2])
	if err != nil {
		year = 0
	}
	switch strings.ToLower(f.values[4]) {
	case "y", "yes", "true":
		read = true
	}
	return f.values[0], f.values[1], year, f.values[3], read
}

// retry reopens the form at the first rejected field.
func (f *addForm) retry(err error) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for i, field := range addFormFields {
		if verr.HasField(field.name) {
			f.show(i, err.Error())
			return true
		}
	}
	return false
}
