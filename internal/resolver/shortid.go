package resolver

import (
	"fmt"
	"strings"

	"github.com/dyluth/shelf/pkg/library"
)

// MinShortIDLength is the minimum required length for short ID prefixes.
// Set to 6 characters to balance usability with collision avoidance.
const MinShortIDLength = 6

// IDSource lists the reservation IDs known to the caller.
type IDSource interface {
	IDs() []string
}

// ResolveReservationID resolves a short ID prefix to a full reservation ID.
// Returns the full ID if exactly one match found.
// Returns error if zero or multiple matches found.
//
// The function handles three cases:
// 1. Input exactly equals a known ID - returned as-is (covers full UUIDs and legacy IDs)
// 2. Input is too short (< 6 chars) - returns validation error
// 3. Input is a short prefix - scans for matches and returns unique result
func ResolveReservationID(source IDSource, shortID string) (string, error) {
	shortID = strings.ToLower(strings.TrimSpace(shortID))
	ids := source.IDs()

	for _, id := range ids {
		if strings.ToLower(id) == shortID {
			return id, nil
		}
	}

	// Validate minimum length
	if len(shortID) < MinShortIDLength {
		return "", &library.ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID)),
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), shortID) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// NotFoundError indicates no reservations matched the short ID.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no reservations found matching '%s'", e.ShortID)
}

// Unwrap lets library.IsNotFound match the error.
func (e *NotFoundError) Unwrap() error { return library.ErrNotFound }

// AmbiguousError indicates multiple reservations matched the short ID.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d reservations", e.ShortID, len(e.Matches))
}

// FormatAmbiguousError creates a user-friendly error message for ambiguous short IDs.
// Lists all matching IDs (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous short ID '%s' matches %d reservations:\n", err.ShortID, len(err.Matches))

	// List up to 10 matches
	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}

	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += "\nUse a longer prefix to uniquely identify the reservation."
	return msg
}
