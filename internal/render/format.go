// Package render writes shelves, books and reservations for the terminal:
// as a table, as a pretty-printed JSON array, or as line-delimited JSON.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dyluth/shelf/pkg/library"
	"github.com/olekukonko/tablewriter"
)

// OutputFormat specifies how to format list output.
type OutputFormat string

const (
	// OutputFormatTable uses a table with truncated book lists
	OutputFormatTable OutputFormat = "table"

	// OutputFormatJSON outputs a pretty-printed JSON array in the storage format
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatJSONL outputs one compact JSON record per line
	OutputFormatJSONL OutputFormat = "jsonl"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputFormatTable:
		return OutputFormatTable, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatJSONL:
		return OutputFormatJSONL, nil
	default:
		return "", &library.ValidationError{Field: "--format", Message: fmt.Sprintf("unknown format %q (must be 'table', 'json' or 'jsonl')", s)}
	}
}

// maxBooksWidth bounds the BOOKS column of the shelf table.
const maxBooksWidth = 60

// Shelves writes shelves in the requested format.
func Shelves(w io.Writer, shelves []library.Shelf, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		return writeDocument(w, shelves, library.EncodeShelves)
	case OutputFormatJSONL:
		return writeLines(w, shelves, library.EncodeShelfLine)
	}

	if len(shelves) == 0 {
		fmt.Fprintln(w, "No shelves found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Aisle", "Rayon", "Books")
	for _, s := range shelves {
		if err := table.Append([]string{strconv.Itoa(s.ID), strconv.Itoa(s.Number), s.Letter, formatBookTitles(s.Books)}); err != nil {
			return fmt.Errorf("failed to render shelf %d: %w", s.ID, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render shelves: %w", err)
	}

	fmt.Fprintf(w, "\n%s found\n", plural(len(shelves), "shelf", "shelves"))
	return nil
}

// Books writes books in the requested format.
func Books(w io.Writer, books []library.Book, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		return writeDocument(w, books, library.EncodeBooks)
	case OutputFormatJSONL:
		return writeLines(w, books, library.EncodeBookLine)
	}

	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "Authors")
	for _, b := range books {
		if err := table.Append([]string{strconv.Itoa(b.ID), b.Title, strings.Join(b.Authors, ", ")}); err != nil {
			return fmt.Errorf("failed to render book %d: %w", b.ID, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render books: %w", err)
	}

	fmt.Fprintf(w, "\n%s found\n", plural(len(books), "book", "books"))
	return nil
}

// Reservations writes reservations in the requested format. Table output
// shows the first 8 characters of each ID; any unique prefix of 6 or more
// characters is accepted by the CLI.
func Reservations(w io.Writer, reservations []library.Reservation, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		return writeDocument(w, reservations, library.EncodeReservations)
	case OutputFormatJSONL:
		return writeLines(w, reservations, library.EncodeReservationLine)
	}

	if len(reservations) == 0 {
		fmt.Fprintln(w, "No reservations found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "User", "Book", "Start", "End")
	for _, r := range reservations {
		row := []string{
			formatID(r.ID),
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.BookID),
			library.FormatDate(r.StartDate),
			library.FormatDate(r.EndDate),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render reservation %s: %w", r.ID, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render reservations: %w", err)
	}

	fmt.Fprintf(w, "\n%s found\n", plural(len(reservations), "reservation", "reservations"))
	return nil
}

func writeDocument[T any](w io.Writer, items []T, encode func([]T) ([]byte, error)) error {
	data, err := encode(items)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	// Add newline for clean output
	fmt.Fprintln(w)
	return nil
}

func writeLines[T any](w io.Writer, items []T, encode func(T) ([]byte, error)) error {
	for _, item := range items {
		data, err := encode(item)
		if err != nil {
			return fmt.Errorf("failed to marshal record to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// formatID truncates a reservation ID to its first 8 characters for compact display.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatBookTitles joins book titles, truncated to maxBooksWidth. An empty shelf shows "-".
func formatBookTitles(books []library.Book) string {
	if len(books) == 0 {
		return "-"
	}

	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.Title
	}
	joined := strings.Join(titles, ", ")

	runes := []rune(joined)
	if len(runes) > maxBooksWidth {
		return string(runes[:maxBooksWidth-3]) + "..."
	}
	return joined
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
