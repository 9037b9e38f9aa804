package output

import (
	"fmt"
	"strconv"

	"github.com/mmcdole/shelf/internal/domain"
)

// NotApplicable is printed in place of a percentage for an empty catalog.
const NotApplicable = "n/a"

// BookList renders books one row each.
type BookList []domain.Book

func (l BookList) Table() Data {
	data := Data{Headers: []string{"Title", "Author", "Year", "Genre", "Status"}}
	for _, b := range l {
		data.Rows = append(data.Rows, []string{
			b.Title,
			b.Author,
			strconv.Itoa(b.Year),
			b.Genre,
			ReadStatus(b.Read),
		})
	}
	return data
}

// Stats renders catalog statistics as a two-column table.
type Stats domain.Statistics

func (s Stats) Table() Data {
	return Data{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Books", strconv.Itoa(s.Total)},
			{"Books Read", strconv.Itoa(s.Read)},
			{"Percentage Read", FormatPercent(s.PercentRead)},
		},
	}
}

// ReadStatus labels the read flag.
func ReadStatus(read bool) string {
	if read {
		return "Read"
	}
	return "Unread"
}

// FormatPercent prints p with two decimals, or NotApplicable when nil.
func FormatPercent(p *float64) string {
	if p == nil {
		return NotApplicable
	}
	return fmt.Sprintf("%.2f%%", *p)
}
