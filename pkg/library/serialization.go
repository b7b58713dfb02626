package library

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Serialization helpers for converting between entities and their stored JSON
// records.
//
// Records use pointer fields so that a missing required field can be told
// apart from a zero value. Every decoded record is validated; the first
// malformed record aborts decoding with an error naming its index.

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// recordIndent matches the indentation of the historical data files.
const recordIndent = "    "

type bookRecord struct {
	BookID  *int     `json:"book_id"`
	Title   *string  `json:"title"`
	Authors []string `json:"authors"`
}

type shelfRecord struct {
	ShelfID *int         `json:"shelf_id"`
	Number  *int         `json:"number"`
	Letter  *string      `json:"letter"`
	Books   []bookRecord `json:"books"`
}

type reservationRecord struct {
	ReservationID string  `json:"reservation_id,omitempty"`
	UserID        *int    `json:"user_id"`
	BookID        *int    `json:"book_id"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
}

// bookToRecord converts a Book into its stored form.
func bookToRecord(b Book) bookRecord {
	id, title := b.ID, b.Title
	authors := b.Authors
	if authors == nil {
		authors = []string{}
	}
	return bookRecord{BookID: &id, Title: &title, Authors: authors}
}

func recordToBook(r bookRecord) (Book, error) {
	if r.BookID == nil {
		return Book{}, fmt.Errorf("missing field book_id")
	}
	if r.Title == nil {
		return Book{}, fmt.Errorf("missing field title")
	}
	b := Book{ID: *r.BookID, Title: *r.Title, Authors: r.Authors}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if err := b.Validate(); err != nil {
		return Book{}, err
	}
	return b, nil
}

func shelfToRecord(s Shelf) shelfRecord {
	id, number, letter := s.ID, s.Number, s.Letter
	books := make([]bookRecord, 0, len(s.Books))
	for _, b := range s.Books {
		books = append(books, bookToRecord(b))
	}
	return shelfRecord{ShelfID: &id, Number: &number, Letter: &letter, Books: books}
}

func recordToShelf(r shelfRecord) (Shelf, error) {
	if r.ShelfID == nil {
		return Shelf{}, fmt.Errorf("missing field shelf_id")
	}
	if r.Number == nil {
		return Shelf{}, fmt.Errorf("missing field number")
	}
	if r.Letter == nil {
		return Shelf{}, fmt.Errorf("missing field letter")
	}

	books := make([]Book, 0, len(r.Books))
	for i, br := range r.Books {
		b, err := recordToBook(br)
		if err != nil {
			return Shelf{}, fmt.Errorf("book at index %d: %w", i, err)
		}
		books = append(books, b)
	}

	s := Shelf{ID: *r.ShelfID, Number: *r.Number, Letter: *r.Letter, Books: books}
	if err := s.Validate(); err != nil {
		return Shelf{}, err
	}
	return s, nil
}

func reservationToRecord(r Reservation) reservationRecord {
	user, book := r.UserID, r.BookID
	start, end := FormatDate(r.StartDate), FormatDate(r.EndDate)
	return reservationRecord{
		ReservationID: r.ID,
		UserID:        &user,
		BookID:        &book,
		StartDate:     &start,
		EndDate:       &end,
	}
}

func recordToReservation(rec reservationRecord) (Reservation, error) {
	if rec.UserID == nil {
		return Reservation{}, fmt.Errorf("missing field user_id")
	}
	if rec.BookID == nil {
		return Reservation{}, fmt.Errorf("missing field book_id")
	}
	if rec.StartDate == nil {
		return Reservation{}, fmt.Errorf("missing field start_date")
	}
	if rec.EndDate == nil {
		return Reservation{}, fmt.Errorf("missing field end_date")
	}

	start, err := ParseDate(*rec.StartDate)
	if err != nil {
		return Reservation{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := ParseDate(*rec.EndDate)
	if err != nil {
		return Reservation{}, fmt.Errorf("invalid end_date: %w", err)
	}

	r := Reservation{
		ID:        rec.ReservationID,
		UserID:    *rec.UserID,
		BookID:    *rec.BookID,
		StartDate: start,
		EndDate:   end,
	}
	if err := r.Validate(); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

// EncodeShelves serializes shelves as a pretty-printed JSON array.
func EncodeShelves(shelves []Shelf) ([]byte, error) {
	records := make([]shelfRecord, 0, len(shelves))
	for _, s := range shelves {
		records = append(records, shelfToRecord(s))
	}
	return marshalRecords(records)
}

// DecodeShelves parses and validates a JSON array of shelves.
func DecodeShelves(data []byte) ([]Shelf, error) {
	var records []shelfRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse shelves: %w", err)
	}

	shelves := make([]Shelf, 0, len(records))
	for i, rec := range records {
		s, err := recordToShelf(rec)
		if err != nil {
			return nil, fmt.Errorf("malformed shelf at index %d: %w", i, err)
		}
		shelves = append(shelves, s)
	}
	return shelves, nil
}

// EncodeBooks serializes books as a pretty-printed JSON array.
func EncodeBooks(books []Book) ([]byte, error) {
	records := make([]bookRecord, 0, len(books))
	for _, b := range books {
		records = append(records, bookToRecord(b))
	}
	return marshalRecords(records)
}

// DecodeBooks parses and validates a JSON array of books.
func DecodeBooks(data []byte) ([]Book, error) {
	var records []bookRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse books: %w", err)
	}

	books := make([]Book, 0, len(records))
	for i, rec := range records {
		b, err := recordToBook(rec)
		if err != nil {
			return nil, fmt.Errorf("malformed book at index %d: %w", i, err)
		}
		books = append(books, b)
	}
	return books, nil
}

// EncodeReservations serializes reservations as a pretty-printed JSON array.
func EncodeReservations(reservations []Reservation) ([]byte, error) {
	records := make([]reservationRecord, 0, len(reservations))
	for _, r := range reservations {
		records = append(records, reservationToRecord(r))
	}
	return marshalRecords(records)
}

// DecodeReservations parses and validates a JSON array of reservations.
// Records written before reservation IDs existed decode with an empty ID.
func DecodeReservations(data []byte) ([]Reservation, error) {
	var records []reservationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse reservations: %w", err)
	}

	reservations := make([]Reservation, 0, len(records))
	for i, rec := range records {
		r, err := recordToReservation(rec)
		if err != nil {
			return nil, fmt.Errorf("malformed reservation at index %d: %w", i, err)
		}
		reservations = append(reservations, r)
	}
	return reservations, nil
}

func marshalRecords(records any) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", recordIndent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return data, nil
}

// EncodeShelfLine serializes one shelf as a compact single-line record.
func EncodeShelfLine(s Shelf) ([]byte, error) {
	return json.Marshal(shelfToRecord(s))
}

// EncodeBookLine serializes one book as a compact single-line record.
func EncodeBookLine(b Book) ([]byte, error) {
	return json.Marshal(bookToRecord(b))
}

// EncodeReservationLine serializes one reservation as a compact single-line record.
func EncodeReservationLine(r Reservation) ([]byte, error) {
	return json.Marshal(reservationToRecord(r))
}
