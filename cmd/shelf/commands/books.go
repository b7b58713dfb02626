package commands

import (
	"context"
	"strings"

	"github.com/dyluth/shelf/internal/printer"
	"github.com/dyluth/shelf/internal/render"
	"github.com/dyluth/shelf/pkg/library"
	"github.com/spf13/cobra"
)

var (
	bookTitle   string
	bookAuthors []string
	bookFormat  string
)

var booksCmd = &cobra.Command{
	Use:     "books",
	Aliases: []string{"book"},
	Short:   "Manage the book catalogue",
	Long: `Manage the book catalogue. Books must exist in the catalogue before they
can be placed on a shelf or reserved.

Examples:
  shelf books add --title "Good Omens" --author "Terry Pratchett" --author "Neil Gaiman"
  shelf books search pratchett
  shelf books update 10 --title "Dune Messiah"
  shelf books remove 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books",
	Args:  cobra.NoArgs,
	RunE:  runBooksList,
}

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the catalogue",
	Args:  cobra.NoArgs,
	RunE:  runBooksAdd,
}

var booksUpdateCmd = &cobra.Command{
	Use:   "update BOOK_ID",
	Short: "Change the title or authors of a book",
	Long: `Change the title or authors of a book. Flags that are not given keep
their current value. Copies already placed on shelves are not changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBooksUpdate,
}

var booksRemoveCmd = &cobra.Command{
	Use:   "remove BOOK_ID",
	Short: "Remove a book from the catalogue",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksRemove,
}

var booksSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search books by title or author",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksSearch,
}

func init() {
	booksListCmd.Flags().StringVarP(&bookFormat, "format", "o", "table", "Output format: table, json or jsonl")

	booksAddCmd.Flags().StringVar(&bookTitle, "title", "", "Book title (required)")
	booksAddCmd.Flags().StringArrayVar(&bookAuthors, "author", nil, "Author (repeat for several authors)")

	booksUpdateCmd.Flags().StringVar(&bookTitle, "title", "", "New title")
	booksUpdateCmd.Flags().StringArrayVar(&bookAuthors, "author", nil, "New author list (repeat for several authors)")

	booksSearchCmd.Flags().StringVarP(&bookFormat, "format", "o", "table", "Output format: table, json or jsonl")

	booksCmd.AddCommand(booksListCmd, booksAddCmd, booksUpdateCmd, booksRemoveCmd, booksSearchCmd)
	rootCmd.AddCommand(booksCmd)
}

func runBooksList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := parseFormat(bookFormat)
	if err != nil {
		return printer.DomainError("list books", err, "Valid formats: table, json, jsonl")
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	return render.Books(cmd.OutOrStdout(), lib.Books.Books(), format)
}

func runBooksAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	book, err := lib.Books.AddBook(ctx, library.Book{Title: strings.TrimSpace(bookTitle), Authors: trimAll(bookAuthors)})
	if err != nil {
		return printer.DomainError("add book", err, "Pass the title with --title and each author with --author")
	}

	printer.Success("Added book %s\n", book)
	return nil
}

func runBooksUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := parseID("book_id", args[0])
	if err != nil {
		return printer.DomainError("update book", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	book, ok := lib.Books.Get(id)
	if !ok {
		return printer.DomainError("update book", &library.NotFoundError{Entity: "book", Field: "id", Value: id},
			"Run 'shelf books list' to see the catalogue")
	}
	if cmd.Flags().Changed("title") {
		book.Title = strings.TrimSpace(bookTitle)
	}
	if cmd.Flags().Changed("author") {
		book.Authors = trimAll(bookAuthors)
	}

	book, err = lib.Books.UpdateBook(ctx, book)
	if err != nil {
		return printer.DomainError("update book", err)
	}

	printer.Success("Updated book %s\n", book)
	return nil
}

func runBooksRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := parseID("book_id", args[0])
	if err != nil {
		return printer.DomainError("remove book", err)
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.Books.RemoveBook(ctx, id); err != nil {
		return printer.DomainError("remove book", err, "Run 'shelf books list' to see the catalogue")
	}

	printer.Success("Removed book %d from the catalogue\n", id)
	for _, s := range lib.Shelves.ShelvesHoldingBook(id) {
		printer.Warning("Book %d is still on shelf %s; use 'shelf shelves remove-book %d %d'\n", id, s.Location(), s.Number, id)
	}
	if n := len(lib.Reservations.ForBook(id)); n > 0 {
		printer.Warning("Book %d still has %d %s\n", id, n, pluralize(n, "reservation", "reservations"))
	}
	return nil
}

func runBooksSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := parseFormat(bookFormat)
	if err != nil {
		return printer.DomainError("search books", err, "Valid formats: table, json, jsonl")
	}

	lib, err := openLibrary(ctx, cmd)
	if err != nil {
		return err
	}
	defer lib.Close()

	return render.Books(cmd.OutOrStdout(), lib.Books.Search(args[0]), format)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
