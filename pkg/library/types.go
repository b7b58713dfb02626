package library

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the serialized form of reservation dates.
const DateLayout = "2006-01-02"

// Shelf represents a physical shelf located by aisle number and rayon letter.
type Shelf struct {
	ID     int    `json:"shelf_id"` // Sequential identifier, immutable once assigned
	Number int    `json:"number"`   // Aisle number, unique across shelves
	Letter string `json:"letter"`   // Rayon letter, single uppercase character
	Books  []Book `json:"books"`    // Books on the shelf, no duplicate book IDs
}

// Book represents a catalogue entry. Shelves hold copies of books.
type Book struct {
	ID      int      `json:"book_id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
}

// Reservation represents a user's claim on a book between two dates (inclusive).
type Reservation struct {
	ID        string    `json:"reservation_id"` // UUID, assigned by the reservation manager when empty
	UserID    int       `json:"user_id"`
	BookID    int       `json:"book_id"`
	StartDate time.Time `json:"start_date"` // Date only, UTC midnight
	EndDate   time.Time `json:"end_date"`   // Date only, UTC midnight
}

// ReservationKey is the composite identity of a reservation.
type ReservationKey struct {
	UserID    int
	BookID    int
	StartDate time.Time
	EndDate   time.Time
}

// Key returns the composite key of the reservation.
func (r Reservation) Key() ReservationKey {
	return ReservationKey{
		UserID:    r.UserID,
		BookID:    r.BookID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// Matches reports whether both keys identify the same reservation.
// Dates are compared by calendar day.
func (k ReservationKey) Matches(other ReservationKey) bool {
	return k.UserID == other.UserID &&
		k.BookID == other.BookID &&
		sameDay(k.StartDate, other.StartDate) &&
		sameDay(k.EndDate, other.EndDate)
}

// Overlaps reports whether the two reservations share at least one day.
func (r Reservation) Overlaps(other Reservation) bool {
	return !r.EndDate.Before(other.StartDate) && !other.EndDate.Before(r.StartDate)
}

func (r Reservation) String() string {
	return fmt.Sprintf("user %d, book %d, %s to %s",
		r.UserID, r.BookID, FormatDate(r.StartDate), FormatDate(r.EndDate))
}

// Clone returns a copy of the shelf that shares no slices with the original.
func (s Shelf) Clone() Shelf {
	out := s
	if s.Books != nil {
		out.Books = make([]Book, len(s.Books))
		for i, b := range s.Books {
			out.Books[i] = b.Clone()
		}
	}
	return out
}

// HasBook reports whether a book with the given ID is on the shelf.
func (s Shelf) HasBook(bookID int) bool {
	return s.bookIndex(bookID) >= 0
}

func (s Shelf) bookIndex(bookID int) int {
	for i, b := range s.Books {
		if b.ID == bookID {
			return i
		}
	}
	return -1
}

// Location returns the human readable position of the shelf, e.g. "3-A".
func (s Shelf) Location() string {
	return fmt.Sprintf("%d-%s", s.Number, s.Letter)
}

// Clone returns a copy of the book with its own authors slice.
func (b Book) Clone() Book {
	out := b
	if b.Authors != nil {
		out.Authors = append([]string(nil), b.Authors...)
	}
	return out
}

func (b Book) String() string {
	if len(b.Authors) == 0 {
		return fmt.Sprintf("%d: %s", b.ID, b.Title)
	}
	return fmt.Sprintf("%d: %s by %s", b.ID, b.Title, strings.Join(b.Authors, ", "))
}

// Date returns the UTC midnight for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateToDate drops the clock part of t, keeping its calendar day.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// FormatDate renders a date using DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
