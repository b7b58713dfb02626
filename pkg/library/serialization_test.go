package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShelvesRoundTrip tests that encoding then decoding keeps every field and the order
func TestShelvesRoundTrip(t *testing.T) {
	original := []Shelf{
		{ID: 1, Number: 3, Letter: "A", Books: []Book{
			{ID: 10, Title: "Les Misérables", Authors: []string{"Victor Hugo"}},
			{ID: 11, Title: "Good Omens", Authors: []string{"Terry Pratchett", "Neil Gaiman"}},
		}},
		{ID: 2, Number: 1, Letter: "B", Books: []Book{}},
		{ID: 5, Number: 12, Letter: "Z", Books: []Book{{ID: 4, Title: "Dune", Authors: []string{}}}},
	}

	data, err := EncodeShelves(original)
	require.NoError(t, err)

	decoded, err := DecodeShelves(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeShelves_Format(t *testing.T) {
	data, err := EncodeShelves([]Shelf{{ID: 1, Number: 3, Letter: "A"}})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[\n    {"), "expected 4-space indented array, got:\n%s", out)
	assert.Contains(t, out, `"shelf_id": 1`)
	assert.Contains(t, out, `"number": 3`)
	assert.Contains(t, out, `"letter": "A"`)
	assert.Contains(t, out, `"books": []`)
}

func TestEncodeShelves_Empty(t *testing.T) {
	data, err := EncodeShelves(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	decoded, err := DecodeShelves(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeShelves_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not json", `{{`, "failed to parse shelves"},
		{"not an array", `{"shelf_id": 1}`, "failed to parse shelves"},
		{"missing number", `[{"shelf_id": 1, "letter": "A", "books": []}]`, "malformed shelf at index 0: missing field number"},
		{"missing letter", `[{"shelf_id": 1, "number": 2}]`, "missing field letter"},
		{"missing id", `[{"number": 2, "letter": "A"}]`, "missing field shelf_id"},
		{"bad letter", `[{"shelf_id": 1, "number": 2, "letter": "AB"}]`, "rayon"},
		{"second record bad", `[{"shelf_id": 1, "number": 2, "letter": "A"}, {"shelf_id": 2, "letter": "B"}]`, "malformed shelf at index 1"},
		{"book missing title", `[{"shelf_id": 1, "number": 2, "letter": "A", "books": [{"book_id": 3}]}]`, "book at index 0: missing field title"},
		{"duplicate book", `[{"shelf_id": 1, "number": 2, "letter": "A", "books": [{"book_id": 3, "title": "x"}, {"book_id": 3, "title": "x"}]}]`, "appears twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeShelves([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBooksRoundTrip(t *testing.T) {
	original := []Book{
		{ID: 1, Title: "Germinal", Authors: []string{"Émile Zola"}},
		{ID: 2, Title: "Anonymous", Authors: []string{}},
	}

	data, err := EncodeBooks(original)
	require.NoError(t, err)

	decoded, err := DecodeBooks(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeBooks_NullAuthors(t *testing.T) {
	books, err := DecodeBooks([]byte(`[{"book_id": 1, "title": "x", "authors": null}]`))
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, []string{}, books[0].Authors)
}

func TestReservationsRoundTrip(t *testing.T) {
	original := []Reservation{
		{ID: "0b6f2a4e-6f1d-4c55-9c1e-1f1f9c0e0a01", UserID: 1, BookID: 10, StartDate: Date(2024, 5, 1), EndDate: Date(2024, 5, 14)},
		{ID: "", UserID: 2, BookID: 10, StartDate: Date(2024, 6, 1), EndDate: Date(2024, 6, 2)},
	}

	data, err := EncodeReservations(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start_date": "2024-05-01"`)
	assert.NotContains(t, string(data), `"reservation_id": ""`)

	decoded, err := DecodeReservations(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeReservations_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing user", `[{"book_id": 1, "start_date": "2024-01-01", "end_date": "2024-01-02"}]`, "missing field user_id"},
		{"bad date", `[{"user_id": 1, "book_id": 1, "start_date": "01/01/2024", "end_date": "2024-01-02"}]`, "invalid start_date"},
		{"bad end date", `[{"user_id": 1, "book_id": 1, "start_date": "2024-01-01", "end_date": "soon"}]`, "invalid end_date"},
		{"zero user", `[{"user_id": 0, "book_id": 1, "start_date": "2024-01-01", "end_date": "2024-01-02"}]`, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReservations([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "malformed reservation at index 0")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeReservations_AcceptsRecordsWithoutID(t *testing.T) {
	legacy := `[
    {
        "user_id": 7,
        "book_id": 3,
        "start_date": "2024-03-01",
        "end_date": "2024-03-10"
    }
]`
	reservations, err := DecodeReservations([]byte(legacy))
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Empty(t, reservations[0].ID)
	assert.Equal(t, 7, reservations[0].UserID)
	assert.Equal(t, Date(2024, 3, 10), reservations[0].EndDate)
}

func TestEncodeLines(t *testing.T) {
	line, err := EncodeShelfLine(Shelf{ID: 1, Number: 3, Letter: "A"})
	require.NoError(t, err)
	assert.Equal(t, `{"shelf_id":1,"number":3,"letter":"A","books":[]}`, string(line))

	line, err = EncodeBookLine(Book{ID: 2, Title: "Emma"})
	require.NoError(t, err)
	assert.Equal(t, `{"book_id":2,"title":"Emma","authors":[]}`, string(line))

	line, err = EncodeReservationLine(Reservation{ID: "r1", UserID: 1, BookID: 2, StartDate: Date(2024, 1, 2), EndDate: Date(2024, 1, 3)})
	require.NoError(t, err)
	assert.Equal(t, `{"reservation_id":"r1","user_id":1,"book_id":2,"start_date":"2024-01-02","end_date":"2024-01-03"}`, string(line))
}
