package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/shelf/internal/printer"
	"github.com/dyluth/shelf/internal/render"
	"github.com/dyluth/shelf/internal/resolver"
	"github.com/dyluth/shelf/internal/timespec"
	"github.com/dyluth/shelf/pkg/library"
	"github.com/spf13/cobra"
)

var (
	reservationID     string
	reservationUser   string
	reservationBook   string
	reservationStart  string
	reservationEnd    string
	reservationFormat string
)

var reservationsCmd = &cobra.Command{
	Use:     "reservations",
	Aliases: []string{"reservation", "res"},
	Short:   "Manage book reservations",
	Long: `Manage book reservations. A reservation ties a user to a book between a
start and an end date (inclusive).

Dates accept YYYY-MM-DD, RFC3339, 'today', 'tomorrow', 'yesterday' or an
offset from today such as '+7d' or '2w'.

Reservations can be addressed by their ID (short prefixes of at least 6
characters are accepted) or by the exact combination of user, book, start
and end date.

Examples:
  shelf reservations add --user 7 --book 10 --start 2024-05-01 --end 2024-05-14
  shelf reservations list --book 10
  shelf reservations update --id 3f2a9c --end +14d
  shelf reservations remove --user 7 --book 10 --start 2024-05-01 --end 2024-05-14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var reservationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reservations",
	Args:  cobra.NoArgs,
	RunE:  runReservationsList,
}

var reservationsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Reserve a book for a user",
	Long: `Reserve a book for a user. --start defaults to today and --end to the
start date.`,
	Args: cobra.NoArgs,
	RunE: runReservationsAdd,
}

var reservationsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change a reservation",
	Long: `Change a reservation.

With --id, the given fields replace those of the reservation and any field may
change. Without --id, the reservation with exactly the given user, book, start
and end is looked up and rewritten, which leaves its key unchanged.`,
	Args: cobra.NoArgs,
	RunE: runReservationsUpdate,
}

var reservationsRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Cancel reservations",
	Long: `Cancel the reservation with --id, or every reservation with exactly the
given user, book, start and end. Removing a reservation that does not exist
is not an error.`,
	Args: cobra.NoArgs,
	RunE: runReservationsRemove,
}

func init() {
	reservationsListCmd.Flags().StringVar(&reservationUser, "user", "", "Only reservations of this user")
	reservationsListCmd.Flags().StringVar(&reservationBook, "book", "", "Only reservations of this book")
	reservationsListCmd.Flags().StringVarP(&reservationFormat, "format", "o", "table", "Output format: table, json or jsonl")

	for _, c := range []*cobra.Command{reservationsAddCmd, reservationsUpdateCmd, reservationsRemoveCmd} {
		c.Flags().StringVar(&reservationUser, "user", "", "User ID")
		c.Flags().StringVar(&reservationBook, "book", "", "Book ID")
		c.Flags().StringVar(&reservationStart, "start", "", "Start date")
		c.Flags().StringVar(&reservationEnd, "end", "", "End date")
	}
	for _, c := range []*cobra.Command{reservationsUpdateCmd, reservationsRemoveCmd} {
		c.Flags().StringVar(&reservationID, "id", "", "Reservation ID (full or short prefix)")
	}

	reservationsCmd.AddCommand(reservationsListCmd, reservationsAddCmd, reservationsUpdateCmd, reservationsRemoveCmd)
	rootCmd.AddCommand(reservationsCmd)
}

func runReservationsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := parseFormat(reservationFormat)
	if err != nil {
		return printer.DomainError("list reservations", err, "Valid formats: table, json, jsonl")
	}
	userID, err := parseOptionalID("--user", reservationUser)
	if err != nil {
		return printer.DomainError("list reservations", err)
	}
	bookID, err := parseOptionalID("--book", reservationBook)
	if err != nil {
		return printer.DomainError("list reservations", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	var found []library.Reservation
	switch {
	case userID > 0:
		found = lib.Reservations.ForUser(userID)
	case bookID > 0:
		found = lib.Reservations.ForBook(bookID)
	default:
		found = lib.Reservations.GetAllReservations()
	}
	if userID > 0 && bookID > 0 {
		filtered := make([]library.Reservation, 0, len(found))
		for _, r := range found {
			if r.BookID == bookID {
				filtered = append(filtered, r)
			}
		}
		found = filtered
	}

	return render.Reservations(cmd.OutOrStdout(), found, format)
}

func runReservationsAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	r, err := reservationFromFlags(time.Now())
	if err != nil {
		return printer.DomainError("add reservation", err, "Pass --user and --book, optionally --start and --end")
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	if _, ok := lib.Books.Get(r.BookID); !ok {
		printer.Warning("Book %d is not in the catalogue\n", r.BookID)
	}

	r, err = lib.Reservations.AddReservation(ctx, r)
	if err != nil {
		return printer.DomainError("add reservation", err, "Run 'shelf reservations list --book "+reservationBook+"' to see existing reservations")
	}

	printer.Success("Added reservation %s: %s\n", r.ID, r)
	return nil
}

func runReservationsUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if reservationID == "" {
		r, err := reservationKeyFromFlags(cmd)
		if err != nil {
			return printer.DomainError("update reservation", err, "Pass --id to change user, book or dates")
		}

		lib, err := openLibrary(ctx, cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		updated, err := lib.Reservations.UpdateReservation(ctx, r)
		if err != nil {
			return printer.DomainError("update reservation", err)
		}
		if !updated {
			printer.Warning("No reservation matches %s\n", r)
			return nil
		}
		printer.Success("Updated reservation %s\n", r)
		return nil
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	id, err := resolver.ResolveReservationID(lib.Reservations, reservationID)
	if err != nil {
		return printer.DomainError("update reservation", err, "Run 'shelf reservations list' to see reservation IDs")
	}
	r, _ := lib.Reservations.Get(id)

	if err := applyReservationFlags(cmd, &r, time.Now()); err != nil {
		return printer.DomainError("update reservation", err)
	}

	r, err = lib.Reservations.UpdateReservationByID(ctx, id, r)
	if err != nil {
		return printer.DomainError("update reservation", err)
	}

	printer.Success("Updated reservation %s: %s\n", r.ID, r)
	return nil
}

func runReservationsRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if reservationID == "" {
		r, err := reservationKeyFromFlags(cmd)
		if err != nil {
			return printer.DomainError("remove reservation", err, "Pass --id to remove a reservation by ID")
		}

		lib, err := openLibrary(ctx, cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		removed, err := lib.Reservations.RemoveReservation(ctx, r)
		if err != nil {
			return printer.DomainError("remove reservation", err)
		}
		if removed == 0 {
			printer.Info("No reservation matches %s\n", r)
			return nil
		}
		printer.Success("Removed %d %s\n", removed, pluralize(removed, "reservation", "reservations"))
		return nil
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	id, err := resolver.ResolveReservationID(lib.Reservations, reservationID)
	if err != nil {
		return printer.DomainError("remove reservation", err, "Run 'shelf reservations list' to see reservation IDs")
	}

	r, err := lib.Reservations.RemoveReservationByID(ctx, id)
	if err != nil {
		return printer.DomainError("remove reservation", err)
	}

	printer.Success("Removed reservation %s: %s\n", r.ID, r)
	return nil
}

// reservationFromFlags builds a new reservation, defaulting the dates.
func reservationFromFlags(now time.Time) (library.Reservation, error) {
	userID, err := parseID("--user", reservationUser)
	if err != nil {
		return library.Reservation{}, err
	}
	bookID, err := parseID("--book", reservationBook)
	if err != nil {
		return library.Reservation{}, err
	}
	start, end, err := timespec.ParseRange(reservationStart, reservationEnd, now)
	if err != nil {
		return library.Reservation{}, err
	}

	r := library.Reservation{UserID: userID, BookID: bookID, StartDate: start, EndDate: end}
	return r, r.Validate()
}

// reservationKeyFromFlags builds the composite key of an existing
// reservation. All four key flags are required.
func reservationKeyFromFlags(cmd *cobra.Command) (library.Reservation, error) {
	for _, flag := range []string{"user", "book", "start", "end"} {
		if !cmd.Flags().Changed(flag) {
			return library.Reservation{}, &library.ValidationError{Field: "--" + flag, Message: "is required without --id"}
		}
	}
	return reservationFromFlags(time.Now())
}

// applyReservationFlags overwrites the fields of r given on the command line.
func applyReservationFlags(cmd *cobra.Command, r *library.Reservation, now time.Time) error {
	var err error
	if cmd.Flags().Changed("user") {
		if r.UserID, err = parseID("--user", reservationUser); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("book") {
		if r.BookID, err = parseID("--book", reservationBook); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("start") {
		if r.StartDate, err = timespec.Parse(reservationStart, now); err != nil {
			return &library.ValidationError{Field: "--start", Message: err.Error()}
		}
	}
	if cmd.Flags().Changed("end") {
		if r.EndDate, err = timespec.Parse(reservationEnd, now); err != nil {
			return &library.ValidationError{Field: "--end", Message: err.Error()}
		}
	}
	if r.EndDate.Before(r.StartDate) {
		return &library.ValidationError{Field: "--end", Message: fmt.Sprintf("must not be before start date %s", library.FormatDate(r.StartDate))}
	}
	return r.Validate()
}
