package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

// failingStorage loads an empty catalog and refuses every write.
type failingStorage struct {
	saves int
}

func (f *failingStorage) Load() ([]domain.Book, error) { return []domain.Book{}, nil }
func (f *failingStorage) Location() string             { return "failing" }
func (f *failingStorage) Close() error                 { return nil }
func (f *failingStorage) Save([]domain.Book) error {
	f.saves++
	return &domain.StorageWriteError{Location: "failing", Err: errors.New("disk full")}
}

func newService(t *testing.T, backend string) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library."+backend)
	storage, err := store.Open(backend, path)
	require.NoError(t, err)

	svc, err := New(storage, adapter.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, path
}

// reopen simulates a restart against the same storage location.
func reopen(t *testing.T, svc *Service, backend, path string) *Service {
	t.Helper()
	require.NoError(t, svc.Close())

	storage, err := store.Open(backend, path)
	require.NoError(t, err)
	fresh, err := New(storage, adapter.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = fresh.Close() })
	return fresh
}

func TestAddPersistsAcrossRestart(t *testing.T) {
	for _, backend := range store.Backends() {
		t.Run(backend, func(t *testing.T) {
			svc, path := newService(t, backend)

			book, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", true)
			require.NoError(t, err)
			assert.Equal(t, domain.Book{Title: "Dune", Author: "Frank Herbert", Year: 1965, Genre: "Sci-Fi", Read: true}, book)

			loaded, err := svc.Load()
			require.NoError(t, err)
			assert.Equal(t, []domain.Book{book}, loaded)

			restarted := reopen(t, svc, backend, path)
			assert.Equal(t, []domain.Book{book}, restarted.ListAll())

			stats := restarted.Statistics()
			assert.Equal(t, 1, stats.Total)
			assert.Equal(t, 1, stats.Read)
			require.NotNil(t, stats.PercentRead)
			assert.Equal(t, 100.0, *stats.PercentRead)
		})
	}
}

func TestAddThenRemoveScenario(t *testing.T) {
	for _, backend := range store.Backends() {
		t.Run(backend, func(t *testing.T) {
			svc, path := newService(t, backend)

			_, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", true)
			require.NoError(t, err)
			orwell, err := svc.Add("1984", "Orwell", 1949, "Dystopian", false)
			require.NoError(t, err)

			removed, err := svc.Remove("Dune")
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			assert.Equal(t, []domain.Book{orwell}, svc.ListAll())

			restarted := reopen(t, svc, backend, path)
			assert.Equal(t, []domain.Book{orwell}, restarted.ListAll())
		})
	}
}

func TestAddRejectsInvalidBook(t *testing.T) {
	svc, path := newService(t, store.BackendJSON)
	_, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", true)
	require.NoError(t, err)
	before := svc.ListAll()

	_, err = svc.Add("", "Author", 2000, "Genre", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField("title"))

	_, err = svc.Add("Title", "Author", 999, "Genre", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Equal(t, before, svc.ListAll())

	stored, err := store.NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, before, stored)
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, _ := newService(t, store.BackendJSON)
	for _, author := range []string{"Frank Herbert", "Brian Herbert"} {
		_, err := svc.Add("Dune", author, 1965, "Sci-Fi", false)
		require.NoError(t, err)
	}
	_, err := svc.Add("dune", "lowercase", 1999, "Sci-Fi", false)
	require.NoError(t, err)

	removed, err := svc.Remove("Dune")
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "every exact match goes")

	removed, err = svc.Remove("Dune")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	remaining := svc.ListAll()
	require.Len(t, remaining, 1)
	assert.Equal(t, "dune", remaining[0].Title, "removal is case-sensitive")
}

func TestRemoveWithoutMatchStillPersists(t *testing.T) {
	svc, path := newService(t, store.BackendJSON)

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	removed, err := svc.Remove("Nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t, store.BackendBolt)
	seed := []struct {
		title, author string
	}{
		{"Dune", "Frank Herbert"},
		{"1984", "George Orwell"},
		{"Animal Farm", "George Orwell"},
	}
	for _, b := range seed {
		_, err := svc.Add(b.title, b.author, 1950, "Fiction", false)
		require.NoError(t, err)
	}

	assert.Equal(t, svc.ListAll(), svc.Search(""))

	got := svc.Search("ORWELL")
	require.Len(t, got, 2)
	assert.Equal(t, "1984", got[0].Title)
	assert.Equal(t, "Animal Farm", got[1].Title)

	assert.Len(t, svc.Search("farm"), 1)
	assert.Empty(t, svc.Search("Fiction"))
}

func TestQueriesReturnCopies(t *testing.T) {
	svc, _ := newService(t, store.BackendJSON)
	_, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", false)
	require.NoError(t, err)

	listed := svc.ListAll()
	listed[0].Title = "mutated"
	found := svc.Search("")
	found[0].Read = true

	assert.Equal(t, "Dune", svc.ListAll()[0].Title)
	assert.False(t, svc.ListAll()[0].Read)
}

func TestStatisticsEmptyCatalog(t *testing.T) {
	svc, _ := newService(t, store.BackendSQLite)
	stats := svc.Statistics()
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Read)
	assert.Nil(t, stats.PercentRead)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	svc, path := newService(t, store.BackendJSON)
	_, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", true)
	require.NoError(t, err)
	_, err = svc.Add("1984", "Orwell", 1949, "Dystopian", false)
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := svc.Load()
	require.NoError(t, err)
	require.NoError(t, svc.Save(loaded))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSaveDoesNotTouchMemory(t *testing.T) {
	svc, _ := newService(t, store.BackendJSON)
	_, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", true)
	require.NoError(t, err)

	require.NoError(t, svc.Save(nil))
	assert.Len(t, svc.ListAll(), 1)

	stored, err := svc.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestNewFailsOnCorruptStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	svc, err := New(store.NewFileStore(path), adapter.NullLogger())
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.True(t, errors.Is(err, domain.ErrCorruptStorage))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "corrupt data is left untouched")
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	storage := &failingStorage{}
	svc, err := New(storage, adapter.NullLogger())
	require.NoError(t, err)

	book, err := svc.Add("Dune", "Frank Herbert", 1965, "Sci-Fi", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageWrite))
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, []domain.Book{book}, svc.ListAll())

	removed, err := svc.Remove("Dune")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageWrite))
	assert.Equal(t, 1, removed)
	assert.Empty(t, svc.ListAll())
	assert.Equal(t, 2, storage.saves)
}

func TestSuggest(t *testing.T) {
	svc, _ := newService(t, store.BackendJSON)
	for _, title := range []string{"Dune", "Dune Messiah", "1984"} {
		_, err := svc.Add(title, "Someone", 1965, "Sci-Fi", false)
		require.NoError(t, err)
	}

	got := svc.Suggest("dune", 5)
	if diff := cmp.Diff([]string{"Dune", "Dune Messiah"}, got); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}
