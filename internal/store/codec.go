package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmcdole/shelf/internal/domain"
)

// rawBook mirrors domain.Book with pointer fields so absent or null keys
// can be told apart from zero values.
type rawBook struct {
	Title  *string `json:"Title"`
	Author *string `json:"Author"`
	Year   *int    `json:"Year"`
	Genre  *string `json:"Genre"`
	Read   *bool   `json:"Read"`
}

// encodeBooks renders the catalog document. A nil slice is written as [].
func encodeBooks(books []domain.Book) ([]byte, error) {
	if books == nil {
		books = []domain.Book{}
	}
	data, err := json.MarshalIndent(books, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// documentKeys are the record keys a catalog document must use, matched
// case-sensitively.
var documentKeys = []string{"Title", "Author", "Year", "Genre", "Read"}

// decodeBooks parses a catalog document. The document must be a JSON array
// and every record must carry all five keys with non-null values.
func decodeBooks(data []byte) ([]domain.Book, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}
	if trimmed[0] != '[' {
		return nil, errors.New("document is not a JSON array")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}

	books := make([]domain.Book, 0, len(records))
	for i, rec := range records {
		b, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		books = append(books, b)
	}
	return books, nil
}

// decodeRecord checks the exact key names before decoding, since
// encoding/json matches struct fields case-insensitively.
func decodeRecord(rec json.RawMessage) (domain.Book, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return domain.Book{}, err
	}

	var missing []string
	for _, key := range documentKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.Book{}, fmt.Errorf("missing fields %v", missing)
	}

	var r rawBook
	if err := json.Unmarshal(rec, &r); err != nil {
		return domain.Book{}, err
	}
	return r.toBook()
}

func (r rawBook) toBook() (domain.Book, error) {
	var missing []string
	if r.Title == nil {
		missing = append(missing, "Title")
	}
	if r.Author == nil {
		missing = append(missing, "Author")
	}
	if r.Year == nil {
		missing = append(missing, "Year")
	}
	if r.Genre == nil {
		missing = append(missing, "Genre")
	}
	if r.Read == nil {
		missing = append(missing, "Read")
	}
	if len(missing) > 0 {
		return domain.Book{}, fmt.Errorf("missing or null fields %v", missing)
	}

	return domain.Book{
		Title:  *r.Title,
		Author: *r.Author,
		Year:   *r.Year,
		Genre:  *r.Genre,
		Read:   *r.Read,
	}, nil
}
