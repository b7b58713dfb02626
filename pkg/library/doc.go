// Package library provides the entity model for the shelf library manager:
// shelves, books and reservations, together with their typed errors and the
// explicit record encoding used to persist them.
//
// # Core Concepts
//
// A Shelf is a physical storage unit identified by an aisle number (unique
// across shelves) and a rayon letter. Shelves hold an ordered list of books,
// at most one entry per book ID.
//
// A Book is owned by the book catalogue. Shelves keep a copy of the book they
// hold so that a shelf listing can be rendered without the catalogue.
//
// A Reservation is a user's claim on a book for a date range. Historically a
// reservation is identified by the composite key (user, book, start, end); it
// also carries a generated UUID so callers can address a single reservation
// and change its key fields.
//
// # Persistence Format
//
// Each entity type is stored as a JSON array of objects. Field names are
// snake_case (shelf_id, book_id, user_id, start_date, ...). Dates use the
// YYYY-MM-DD layout. Decoding validates every record and fails on the first
// malformed one, naming its index.
//
// # Usage Example
//
//	shelf := library.Shelf{Number: 3, Letter: "A"}
//	data, err := library.EncodeShelves([]library.Shelf{shelf})
//	if err != nil {
//		return err
//	}
//	shelves, err := library.DecodeShelves(data)
package library
