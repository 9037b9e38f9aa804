package domain

import (
	"fmt"
	"strings"
)

// Publication years accepted by the catalog
const (
	MinYear = 1000
	MaxYear = 9999
)

// Book is a single catalog record.
// JSON keys match the persisted document layout.
type Book struct {
	Title  string `json:"Title" yaml:"title"`
	Author string `json:"Author" yaml:"author"`
	Year   int    `json:"Year" yaml:"year"`
	Genre  string `json:"Genre" yaml:"genre"`
	Read   bool   `json:"Read" yaml:"read"`
}

// NewBook validates the fields and returns the record they describe.
func NewBook(title, author string, year int, genre string, read bool) (Book, error) {
	b := Book{
		Title:  title,
		Author: author,
		Year:   year,
		Genre:  genre,
		Read:   read,
	}
	if err := b.Validate(); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Validate reports every field that breaks the record constraints.
// Blank strings count as missing.
func (b Book) Validate() error {
	var fields []FieldError

	if strings.TrimSpace(b.Title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(b.Author) == "" {
		fields = append(fields, FieldError{Field: "author", Message: "is required"})
	}
	if b.Year < MinYear || b.Year > MaxYear {
		fields = append(fields, FieldError{
			Field:   "year",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinYear, MaxYear, b.Year),
		})
	}
	if strings.TrimSpace(b.Genre) == "" {
		fields = append(fields, FieldError{Field: "genre", Message: "is required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// String returns a one-line description, e.g. `"Dune" by Frank Herbert (1965)`.
func (b Book) String() string {
	return fmt.Sprintf("%q by %s (%d)", b.Title, b.Author, b.Year)
}
