package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/shelf/internal/printer"
	"github.com/dyluth/shelf/internal/render"
	"github.com/dyluth/shelf/pkg/library"
	"github.com/spf13/cobra"
)

var (
	shelfNumber string
	shelfLetter string
	shelfFormat string
)

var shelvesCmd = &cobra.Command{
	Use:     "shelves",
	Aliases: []string{"shelf"},
	Short:   "Manage shelves and the books placed on them",
	Long: `Manage shelves. A shelf is identified by its aisle number (unique) and
carries a rayon letter and an ordered list of books.

Examples:
  shelf shelves add --number 3 --letter A
  shelf shelves add-book 3 10
  shelf shelves search --letter a
  shelf shelves update 3 --number 4
  shelf shelves remove 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var shelvesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all shelves",
	Args:  cobra.NoArgs,
	RunE:  runShelvesList,
}

var shelvesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty shelf",
	Args:  cobra.NoArgs,
	RunE:  runShelvesAdd,
}

var shelvesUpdateCmd = &cobra.Command{
	Use:   "update AISLE",
	Short: "Change the aisle number or rayon letter of a shelf",
	Long: `Change the aisle number or rayon letter of the shelf in AISLE.
Flags that are not given keep their current value. Books stay on the shelf.`,
	Args: cobra.ExactArgs(1),
	RunE: runShelvesUpdate,
}

var shelvesRemoveCmd = &cobra.Command{
	Use:   "remove AISLE",
	Short: "Remove the shelf in AISLE",
	Args:  cobra.ExactArgs(1),
	RunE:  runShelvesRemove,
}

var shelvesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search shelves by aisle number or rayon letter",
	Long: `Search shelves by aisle number (--number) or rayon letter (--letter).
Matching is a case-insensitive substring match: --number 1 finds aisles 1, 10 and 21.`,
	Args: cobra.NoArgs,
	RunE: runShelvesSearch,
}

var shelvesAddBookCmd = &cobra.Command{
	Use:   "add-book AISLE BOOK_ID",
	Short: "Place a catalogue book on a shelf",
	Args:  cobra.ExactArgs(2),
	RunE:  runShelvesAddBook,
}

var shelvesRemoveBookCmd = &cobra.Command{
	Use:   "remove-book AISLE BOOK_ID",
	Short: "Take a book off a shelf",
	Args:  cobra.ExactArgs(2),
	RunE:  runShelvesRemoveBook,
}

func init() {
	shelvesListCmd.Flags().StringVarP(&shelfFormat, "format", "o", "table", "Output format: table, json or jsonl")

	shelvesAddCmd.Flags().StringVar(&shelfNumber, "number", "", "Aisle number (required)")
	shelvesAddCmd.Flags().StringVar(&shelfLetter, "letter", "", "Rayon letter (required)")

	shelvesUpdateCmd.Flags().StringVar(&shelfNumber, "number", "", "New aisle number")
	shelvesUpdateCmd.Flags().StringVar(&shelfLetter, "letter", "", "New rayon letter")

	shelvesSearchCmd.Flags().StringVar(&shelfNumber, "number", "", "Aisle number to search for")
	shelvesSearchCmd.Flags().StringVar(&shelfLetter, "letter", "", "Rayon letter to search for")
	shelvesSearchCmd.Flags().StringVarP(&shelfFormat, "format", "o", "table", "Output format: table, json or jsonl")
	shelvesSearchCmd.MarkFlagsMutuallyExclusive("number", "letter")

	shelvesCmd.AddCommand(shelvesListCmd, shelvesAddCmd, shelvesUpdateCmd, shelvesRemoveCmd,
		shelvesSearchCmd, shelvesAddBookCmd, shelvesRemoveBookCmd)
	rootCmd.AddCommand(shelvesCmd)
}

func runShelvesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := parseFormat(shelfFormat)
	if err != nil {
		return printer.DomainError("list shelves", err, "Valid formats: table, json, jsonl")
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	return render.Shelves(cmd.OutOrStdout(), lib.Shelves.Shelves(), format)
}

func runShelvesAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	number, err := library.ParseAisle(shelfNumber)
	if err != nil {
		return printer.DomainError("add shelf", err, "Pass the aisle with --number, e.g. --number 3")
	}
	letter, err := library.NormalizeLetter(shelfLetter)
	if err != nil {
		return printer.DomainError("add shelf", err, "Pass a single letter with --letter, e.g. --letter A")
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	shelf, err := lib.Shelves.AddShelf(ctx, library.Shelf{Number: number, Letter: letter})
	if err != nil {
		return printer.DomainError("add shelf", err, "Run 'shelf shelves list' to see the aisles in use")
	}

	printer.Success("Added shelf %s (id %d)\n", shelf.Location(), shelf.ID)
	return nil
}

func runShelvesUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	oldNumber, err := library.ParseAisle(args[0])
	if err != nil {
		return printer.DomainError("update shelf", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	current, ok := lib.Shelves.FindByNumber(oldNumber)
	if !ok {
		return printer.DomainError("update shelf",
			&library.NotFoundError{Entity: "shelf", Field: "number", Value: oldNumber, Detail: fmt.Sprintf("no shelf in aisle %d", oldNumber)},
			"Run 'shelf shelves list' to see the existing aisles")
	}

	updated := library.Shelf{Number: current.Number, Letter: current.Letter}
	if cmd.Flags().Changed("number") {
		if updated.Number, err = library.ParseAisle(shelfNumber); err != nil {
			return printer.DomainError("update shelf", err)
		}
	}
	if cmd.Flags().Changed("letter") {
		if updated.Letter, err = library.NormalizeLetter(shelfLetter); err != nil {
			return printer.DomainError("update shelf", err)
		}
	}

	shelf, err := lib.Shelves.UpdateShelf(ctx, oldNumber, updated)
	if err != nil {
		return printer.DomainError("update shelf", err, "Run 'shelf shelves list' to see the aisles in use")
	}

	printer.Success("Updated shelf %d: now %s\n", shelf.ID, shelf.Location())
	return nil
}

func runShelvesRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	number, err := library.ParseAisle(args[0])
	if err != nil {
		return printer.DomainError("remove shelf", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	shelf, ok := lib.Shelves.FindByNumber(number)
	if !ok {
		return printer.DomainError("remove shelf",
			&library.NotFoundError{Entity: "shelf", Field: "number", Value: number, Detail: fmt.Sprintf("no shelf in aisle %d", number)})
	}

	if err := lib.Shelves.RemoveShelf(ctx, shelf.ID); err != nil {
		return printer.DomainError("remove shelf", err)
	}

	printer.Success("Removed shelf %s\n", shelf.Location())
	if n := len(shelf.Books); n > 0 {
		printer.Warning("%d %s no longer on any shelf in aisle %d\n", n, pluralize(n, "book is", "books are"), number)
	}
	return nil
}

func runShelvesSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if !cmd.Flags().Changed("number") && !cmd.Flags().Changed("letter") {
		return printer.Error("Cannot search shelves: invalid input",
			"Nothing to search for",
			[]string{"Pass --number to search aisles", "Pass --letter to search rayons"})
	}

	format, err := parseFormat(shelfFormat)
	if err != nil {
		return printer.DomainError("search shelves", err, "Valid formats: table, json, jsonl")
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	var found []library.Shelf
	if cmd.Flags().Changed("number") {
		found = lib.Shelves.SearchByNumber(shelfNumber)
	} else {
		found = lib.Shelves.SearchByLetter(shelfLetter)
	}

	return render.Shelves(cmd.OutOrStdout(), found, format)
}

func runShelvesAddBook(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	number, err := library.ParseAisle(args[0])
	if err != nil {
		return printer.DomainError("add book to shelf", err)
	}
	bookID, err := parseID("book_id", args[1])
	if err != nil {
		return printer.DomainError("add book to shelf", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	book, ok := lib.Books.Get(bookID)
	if !ok {
		return printer.DomainError("add book to shelf",
			&library.NotFoundError{Entity: "book", Field: "id", Value: bookID},
			"Add the book first with 'shelf books add'")
	}

	if err := lib.Shelves.AddBookToShelf(ctx, number, book); err != nil {
		return printer.DomainError("add book to shelf", err)
	}

	printer.Success("Placed %s on shelf in aisle %d\n", book, number)
	return nil
}

func runShelvesRemoveBook(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	number, err := library.ParseAisle(args[0])
	if err != nil {
		return printer.DomainError("remove book from shelf", err)
	}
	bookID, err := parseID("book_id", args[1])
	if err != nil {
		return printer.DomainError("remove book from shelf", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.Shelves.RemoveBookFromShelf(ctx, number, bookID); err != nil {
		return printer.DomainError("remove book from shelf", err)
	}

	printer.Success("Took book %d off the shelf in aisle %d\n", bookID, number)
	return nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
