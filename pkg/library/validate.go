package library

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseAisle parses a user-entered aisle number.
func ParseAisle(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, &ValidationError{Field: "aisle", Message: "is required"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: "aisle", Message: "must be a number"}
	}
	if n <= 0 {
		return 0, &ValidationError{Field: "aisle", Message: "must be a positive number"}
	}
	return n, nil
}

// NormalizeLetter trims and upper-cases a rayon letter, rejecting anything
// that is not exactly one letter.
func NormalizeLetter(input string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return "", &ValidationError{Field: "rayon", Message: "is required"}
	}
	if utf8.RuneCountInString(s) != 1 {
		return "", &ValidationError{Field: "rayon", Message: "must be a single letter"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) {
		return "", &ValidationError{Field: "rayon", Message: "must be a single letter"}
	}
	return s, nil
}

// Validate checks the shelf's own fields. Book membership is checked by
// the shelf manager.
func (s *Shelf) Validate() error {
	if s.ID < 0 {
		return &ValidationError{Field: "shelf_id", Message: "must not be negative"}
	}
	if s.Number <= 0 {
		return &ValidationError{Field: "aisle", Message: "must be a positive number"}
	}
	letter, err := NormalizeLetter(s.Letter)
	if err != nil {
		return err
	}
	if letter != s.Letter {
		return &ValidationError{Field: "rayon", Message: "must be an uppercase letter"}
	}
	seen := make(map[int]bool, len(s.Books))
	for _, b := range s.Books {
		if seen[b.ID] {
			return &DuplicateError{Entity: "book", Field: "id", Value: b.ID,
				Detail: "book " + strconv.Itoa(b.ID) + " appears twice on shelf " + s.Location()}
		}
		seen[b.ID] = true
	}
	return nil
}

// Validate checks that the book has an identifier and a title.
func (b *Book) Validate() error {
	if b.ID < 0 {
		return &ValidationError{Field: "book_id", Message: "must not be negative"}
	}
	if strings.TrimSpace(b.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	for i, a := range b.Authors {
		if strings.TrimSpace(a) == "" {
			return &ValidationError{Field: "authors", Message: "author " + strconv.Itoa(i+1) + " is empty"}
		}
	}
	return nil
}

// Validate checks required reservation fields. Date ordering is not checked
// here; see ValidateRange.
func (r *Reservation) Validate() error {
	if r.UserID <= 0 {
		return &ValidationError{Field: "user_id", Message: "must be a positive number"}
	}
	if r.BookID <= 0 {
		return &ValidationError{Field: "book_id", Message: "must be a positive number"}
	}
	if r.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Message: "is required"}
	}
	if r.EndDate.IsZero() {
		return &ValidationError{Field: "end_date", Message: "is required"}
	}
	return nil
}

// ValidateRange checks that the reservation does not end before it starts.
func (r *Reservation) ValidateRange() error {
	if r.EndDate.Before(r.StartDate) {
		return &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	return nil
}
