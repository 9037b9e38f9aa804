package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		year       int
		genre      string
		wantFields []string
	}{
		{name: "valid", title: "Dune", author: "Frank Herbert", year: 1965, genre: "Sci-Fi"},
		{name: "lower bound", title: "T", author: "A", year: MinYear, genre: "G"},
		{name: "upper bound", title: "T", author: "A", year: MaxYear, genre: "G"},
		{name: "empty title", title: "", author: "Author", year: 2000, genre: "Genre", wantFields: []string{"title"}},
		{name: "blank author", title: "T", author: "   ", year: 2000, genre: "G", wantFields: []string{"author"}},
		{name: "year too small", title: "T", author: "A", year: 999, genre: "G", wantFields: []string{"year"}},
		{name: "year too large", title: "T", author: "A", year: 10000, genre: "G", wantFields: []string{"year"}},
		{name: "everything missing", wantFields: []string{"title", "author", "year", "genre"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			book, err := NewBook(tc.title, tc.author, tc.year, tc.genre, false)
			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.title, book.Title)
				assert.Equal(t, tc.year, book.Year)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, len(tc.wantFields))
			for _, field := range tc.wantFields {
				assert.True(t, verr.HasField(field), "expected %s to be rejected", field)
			}
			assert.Equal(t, Book{}, book)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := NewBook("", "Author", 2000, "", false)
	require.Error(t, err)
	assert.Equal(t, "invalid book: title is required; genre is required", err.Error())
}

func TestStorageErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	werr := error(&StorageWriteError{Location: "/tmp/library.json", Err: cause})
	assert.True(t, errors.Is(werr, ErrStorageWrite))
	assert.True(t, errors.Is(werr, cause))
	assert.False(t, errors.Is(werr, ErrCorruptStorage))

	cerr := error(&CorruptStorageError{Location: "/tmp/library.json", Err: cause})
	assert.True(t, errors.Is(cerr, ErrCorruptStorage))
	assert.Contains(t, cerr.Error(), "/tmp/library.json")
}

func TestComputeStatistics(t *testing.T) {
	t.Run("empty catalog has no percentage", func(t *testing.T) {
		stats := ComputeStatistics(nil)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, 0, stats.Read)
		assert.Nil(t, stats.PercentRead)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		books := []Book{
			{Title: "A", Read: true},
			{Title: "B"},
			{Title: "C"},
		}
		stats := ComputeStatistics(books)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 1, stats.Read)
		require.NotNil(t, stats.PercentRead)
		assert.Equal(t, 33.33, *stats.PercentRead)
	})

	t.Run("exact halves round to even", func(t *testing.T) {
		tests := []struct {
			read, total int
			want        float64
		}{
			{read: 1, total: 32, want: 3.12},
			{read: 5, total: 32, want: 15.62},
			{read: 3, total: 32, want: 9.38},
			{read: 1, total: 8, want: 12.5},
		}
		for _, tc := range tests {
			books := make([]Book, tc.total)
			for i := range tc.read {
				books[i].Read = true
			}
			stats := ComputeStatistics(books)
			require.NotNil(t, stats.PercentRead)
			assert.Equal(t, tc.want, *stats.PercentRead, "%d of %d read", tc.read, tc.total)
		}
	})

	t.Run("all read", func(t *testing.T) {
		stats := ComputeStatistics([]Book{{Title: "Dune", Read: true}})
		require.NotNil(t, stats.PercentRead)
		assert.Equal(t, 100.0, *stats.PercentRead)
	})
}
