package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dyluth/shelf/pkg/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend is an in-memory Backend used to exercise Collection.
type memBackend struct {
	data     []byte
	readErr  error
	writeErr error
	writes   int
}

func (m *memBackend) Read(ctx context.Context) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.data == nil {
		return nil, ErrNotExist
	}
	return m.data, nil
}

func (m *memBackend) Write(ctx context.Context, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memBackend) Location() string { return "memory" }

func newShelfCollection(b Backend) *Collection[library.Shelf] {
	return NewCollection("shelves", b, library.EncodeShelves, library.DecodeShelves, nil)
}

func TestCollection_LoadMissingIsEmpty(t *testing.T) {
	c := newShelfCollection(&memBackend{})

	shelves, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, shelves)
	assert.Empty(t, shelves)
}

func TestCollection_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	c := newShelfCollection(backend)

	shelves := []library.Shelf{
		{ID: 1, Number: 3, Letter: "A", Books: []library.Book{{ID: 10, Title: "Dune", Authors: []string{"Frank Herbert"}}}},
		{ID: 2, Number: 4, Letter: "B", Books: []library.Book{}},
	}
	require.NoError(t, c.Save(ctx, shelves))
	assert.Equal(t, 1, backend.writes)

	loaded, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, shelves, loaded)
}

func TestCollection_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("read error is wrapped", func(t *testing.T) {
		c := newShelfCollection(&memBackend{readErr: errors.New("disk on fire")})
		_, err := c.Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read shelves from memory")
		assert.Contains(t, err.Error(), "disk on fire")
	})

	t.Run("malformed data fails decoding", func(t *testing.T) {
		c := newShelfCollection(&memBackend{data: []byte(`[{"shelf_id": 1}]`)})
		_, err := c.Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode shelves")
		assert.Contains(t, err.Error(), "index 0")
	})

	t.Run("write error is wrapped", func(t *testing.T) {
		c := newShelfCollection(&memBackend{writeErr: errors.New("read-only")})
		err := c.Save(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write shelves")
	})
}

func TestCollection_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "json", "reservations.json")
	c := NewCollection("reservations", NewFileBackend(path), library.EncodeReservations, library.DecodeReservations, nil)

	reservations := []library.Reservation{
		{ID: "a3e0c6f8-6c0e-4a4e-9a57-b0f1d9f0a001", UserID: 1, BookID: 10, StartDate: library.Date(2024, 5, 1), EndDate: library.Date(2024, 5, 3)},
		{ID: "a3e0c6f8-6c0e-4a4e-9a57-b0f1d9f0a002", UserID: 2, BookID: 11, StartDate: library.Date(2024, 6, 1), EndDate: library.Date(2024, 6, 9)},
	}
	require.NoError(t, c.Save(ctx, reservations))

	loaded, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, reservations, loaded)
	assert.Equal(t, path, c.Location())
}
