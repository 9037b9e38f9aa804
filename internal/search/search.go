package search

import (
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
	"golang.org/x/text/cases"
)

// Matcher tests books against one case-folded query.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	caser cases.Caser
	query string
}

// NewMatcher folds query once for repeated matching.
func NewMatcher(query string) *Matcher {
	caser := cases.Fold()
	return &Matcher{caser: caser, query: caser.String(query)}
}

// Match reports whether the query is a substring of the folded title or author.
// The empty query matches every book.
func (m *Matcher) Match(b domain.Book) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(m.caser.String(b.Title), m.query) ||
		strings.Contains(m.caser.String(b.Author), m.query)
}

// Matches is a one-shot form of Matcher.Match.
func Matches(query string, b domain.Book) bool {
	return NewMatcher(query).Match(b)
}

// Filter returns the books matching query in their original order.
func Filter(books []domain.Book, query string) []domain.Book {
	m := NewMatcher(query)
	results := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if m.Match(b) {
			results = append(results, b)
		}
	}
	return results
}
