// Package books manages the book catalogue. Shelves and reservations refer to
// books by ID; only this package creates, changes or deletes them.
package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyluth/shelf/pkg/library"
	"go.uber.org/zap"
)

// Store loads and saves the full book collection.
type Store interface {
	Load(ctx context.Context) ([]library.Book, error)
	Save(ctx context.Context, books []library.Book) error
}

// Manager owns the in-memory catalogue. Not safe for concurrent use.
type Manager struct {
	store  Store
	books  []library.Book
	logger *zap.Logger
}

// NewManager creates an empty manager. Call Load to read stored books.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, books: []library.Book{}, logger: logger.Named("books")}
}

// Load replaces the in-memory catalogue with the stored one.
func (m *Manager) Load(ctx context.Context) error {
	books, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	seen := make(map[int]bool, len(books))
	for _, b := range books {
		if seen[b.ID] {
			return fmt.Errorf("failed to load books: book id %d is used twice", b.ID)
		}
		seen[b.ID] = true
	}

	m.books = books
	return nil
}

// Books returns a copy of the catalogue in insertion order.
func (m *Manager) Books() []library.Book {
	return cloneAll(m.books)
}

// Get returns the book with the given ID.
func (m *Manager) Get(id int) (library.Book, bool) {
	if i := m.index(id); i >= 0 {
		return m.books[i].Clone(), true
	}
	return library.Book{}, false
}

// NextID returns the ID the next book added without one will receive.
func (m *Manager) NextID() int {
	highest := 0
	for _, b := range m.books {
		if b.ID > highest {
			highest = b.ID
		}
	}
	return highest + 1
}

// AddBook adds a book to the catalogue, assigning NextID when its ID is zero.
func (m *Manager) AddBook(ctx context.Context, book library.Book) (library.Book, error) {
	book = book.Clone()
	if book.ID == 0 {
		book.ID = m.NextID()
	} else if m.index(book.ID) >= 0 {
		return library.Book{}, &library.DuplicateError{Entity: "book", Field: "id", Value: book.ID}
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if err := book.Validate(); err != nil {
		return library.Book{}, err
	}

	next := append(cloneAll(m.books), book)
	if err := m.commit(ctx, next); err != nil {
		return library.Book{}, err
	}

	m.logger.Info("book added", zap.Int("book_id", book.ID), zap.String("title", book.Title))
	return book.Clone(), nil
}

// UpdateBook replaces the catalogue entry with the same ID.
func (m *Manager) UpdateBook(ctx context.Context, book library.Book) (library.Book, error) {
	i := m.index(book.ID)
	if i < 0 {
		return library.Book{}, &library.NotFoundError{Entity: "book", Field: "id", Value: book.ID}
	}
	book = book.Clone()
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if err := book.Validate(); err != nil {
		return library.Book{}, err
	}

	next := cloneAll(m.books)
	next[i] = book
	if err := m.commit(ctx, next); err != nil {
		return library.Book{}, err
	}

	m.logger.Info("book updated", zap.Int("book_id", book.ID), zap.String("title", book.Title))
	return book.Clone(), nil
}

// RemoveBook deletes the book from the catalogue. Copies already on shelves
// are left alone.
func (m *Manager) RemoveBook(ctx context.Context, id int) error {
	i := m.index(id)
	if i < 0 {
		return &library.NotFoundError{Entity: "book", Field: "id", Value: id}
	}

	next := make([]library.Book, 0, len(m.books)-1)
	next = append(next, cloneAll(m.books[:i])...)
	next = append(next, cloneAll(m.books[i+1:])...)
	if err := m.commit(ctx, next); err != nil {
		return err
	}

	m.logger.Info("book removed", zap.Int("book_id", id))
	return nil
}

// Search returns books whose title or one of whose authors contains query,
// ignoring case.
func (m *Manager) Search(query string) []library.Book {
	q := strings.ToLower(strings.TrimSpace(query))

	matches := []library.Book{}
	for _, b := range m.books {
		if matchesBook(b, q) {
			matches = append(matches, b.Clone())
		}
	}
	return matches
}

func matchesBook(b library.Book, q string) bool {
	if strings.Contains(strings.ToLower(b.Title), q) {
		return true
	}
	for _, a := range b.Authors {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

func (m *Manager) commit(ctx context.Context, next []library.Book) error {
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save books: %w", err)
	}
	m.books = next
	return nil
}

func (m *Manager) index(id int) int {
	for i, b := range m.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(books []library.Book) []library.Book {
	out := make([]library.Book, len(books))
	for i, b := range books {
		out[i] = b.Clone()
	}
	return out
}
