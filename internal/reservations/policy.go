package reservations

import (
	"fmt"

	"github.com/dyluth/shelf/pkg/library"
)

// Policy decides whether a reservation may join the existing ones.
type Policy interface {
	Check(existing []library.Reservation, candidate library.Reservation) error
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(existing []library.Reservation, candidate library.Reservation) error

// Check implements Policy.
func (f PolicyFunc) Check(existing []library.Reservation, candidate library.Reservation) error {
	return f(existing, candidate)
}

// NoOverlapPolicy rejects a reservation whose dates overlap another
// reservation of the same book, and a reservation ending before it starts.
type NoOverlapPolicy struct{}

// Check implements Policy.
func (NoOverlapPolicy) Check(existing []library.Reservation, candidate library.Reservation) error {
	if err := candidate.ValidateRange(); err != nil {
		return err
	}
	for _, r := range existing {
		if r.BookID != candidate.BookID || !r.Overlaps(candidate) {
			continue
		}
		return &library.DuplicateError{
			Entity: "reservation", Field: "dates", Value: library.FormatDate(candidate.StartDate),
			Detail: fmt.Sprintf("book %d is already reserved from %s to %s",
				r.BookID, library.FormatDate(r.StartDate), library.FormatDate(r.EndDate)),
		}
	}
	return nil
}
