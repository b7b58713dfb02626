package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/shelf/internal/config"
	"github.com/dyluth/shelf/pkg/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T) *config.LibraryConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "json")
	return cfg
}

func TestOpen_FileBackendStartsEmpty(t *testing.T) {
	cfg := fileConfig(t)

	lib, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer lib.Close()

	assert.Empty(t, lib.Shelves.Shelves())
	assert.Empty(t, lib.Books.Books())
	assert.Empty(t, lib.Reservations.GetAllReservations())
	assert.Equal(t, cfg.ShelvesPath(), lib.Location("shelves"))
}

func TestOpen_FileBackendPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t)

	lib, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	book, err := lib.Books.AddBook(ctx, library.Book{Title: "Dune", Authors: []string{"Frank Herbert"}})
	require.NoError(t, err)
	_, err = lib.Shelves.AddShelf(ctx, library.Shelf{Number: 3, Letter: "A"})
	require.NoError(t, err)
	require.NoError(t, lib.Shelves.AddBookToShelf(ctx, 3, book))
	_, err = lib.Reservations.AddReservation(ctx, library.Reservation{
		UserID: 1, BookID: book.ID, StartDate: library.Date(2024, 1, 1), EndDate: library.Date(2024, 1, 7),
	})
	require.NoError(t, err)

	for _, path := range []string{cfg.ShelvesPath(), cfg.BooksPath(), cfg.ReservationsPath()} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected %s to exist", path)
	}

	reopened, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, lib.Shelves.Shelves(), reopened.Shelves.Shelves())
	assert.Equal(t, lib.Books.Books(), reopened.Books.Books())
	assert.Equal(t, lib.Reservations.GetAllReservations(), reopened.Reservations.GetAllReservations())
}

func TestOpen_CorruptFileFails(t *testing.T) {
	cfg := fileConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Storage.DataDir, 0755))
	require.NoError(t, os.WriteFile(cfg.ShelvesPath(), []byte(`[{"shelf_id": "one"}]`), 0644))

	_, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load shelves")
}

func TestOpen_NoOverlapPolicy(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t)
	cfg.Reservations.EnforceNoOverlap = true

	lib, err := Open(ctx, cfg, nil)
	require.NoError(t, err)

	r := library.Reservation{UserID: 1, BookID: 1, StartDate: library.Date(2024, 1, 1), EndDate: library.Date(2024, 1, 7)}
	_, err = lib.Reservations.AddReservation(ctx, r)
	require.NoError(t, err)

	r.UserID = 2
	_, err = lib.Reservations.AddReservation(ctx, r)
	assert.True(t, library.IsDuplicate(err))
}

func TestOpen_RedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Storage.Backend = config.BackendRedis
	cfg.Storage.Redis = &config.RedisConfig{Addr: mr.Addr(), Instance: "branch-1"}

	lib, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = lib.Shelves.AddShelf(ctx, library.Shelf{Number: 1, Letter: "A"})
	require.NoError(t, err)
	require.NoError(t, lib.Close())

	assert.True(t, mr.Exists("shelf:branch-1:shelves"))

	reopened, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer reopened.Close()
	require.Len(t, reopened.Shelves.Shelves(), 1)
	assert.Contains(t, reopened.Location("shelves"), "shelf:branch-1:shelves")
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Storage.Backend = config.BackendRedis
	cfg.Storage.Redis = &config.RedisConfig{Addr: addr, Instance: "default"}

	_, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestOpen_LegacyReservationIDsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Storage.DataDir, 0755))
	legacy := `[{"user_id": 7, "book_id": 10, "start_date": "2024-05-01", "end_date": "2024-05-14"}]`
	require.NoError(t, os.WriteFile(cfg.ReservationsPath(), []byte(legacy), 0644))

	first, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	listed := first.Reservations.GetAllReservations()
	require.Len(t, listed, 1)
	require.NoError(t, first.Close())

	second, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	removed, err := second.Reservations.RemoveReservationByID(ctx, listed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 10, removed.BookID)
	assert.Empty(t, second.Reservations.GetAllReservations())
}
