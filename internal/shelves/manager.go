// Package shelves manages the shelf collection: aisle uniqueness, shelf
// identifiers, and the placement of books on shelves.
package shelves

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dyluth/shelf/pkg/library"
	"go.uber.org/zap"
)

// Store loads and saves the full shelf collection.
type Store interface {
	Load(ctx context.Context) ([]library.Shelf, error)
	Save(ctx context.Context, shelves []library.Shelf) error
}

// Manager owns the in-memory shelf collection. Every mutation is validated
// first, then the complete collection is persisted. If persisting fails the
// in-memory collection is left as it was.
//
// Manager is not safe for concurrent use.
type Manager struct {
	store   Store
	shelves []library.Shelf
	logger  *zap.Logger
}

// NewManager creates an empty manager. Call Load to read the stored shelves.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		shelves: []library.Shelf{},
		logger:  logger.Named("shelves"),
	}
}

// Load replaces the in-memory collection with the stored one.
func (m *Manager) Load(ctx context.Context) error {
	shelves, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load shelves: %w", err)
	}

	seenNumbers := make(map[int]int, len(shelves))
	seenIDs := make(map[int]bool, len(shelves))
	for _, s := range shelves {
		if other, ok := seenNumbers[s.Number]; ok {
			return fmt.Errorf("failed to load shelves: shelves %d and %d share aisle %d", other, s.ID, s.Number)
		}
		if seenIDs[s.ID] {
			return fmt.Errorf("failed to load shelves: shelf id %d is used twice", s.ID)
		}
		seenNumbers[s.Number] = s.ID
		seenIDs[s.ID] = true
	}

	m.shelves = shelves
	m.logger.Debug("shelves loaded", zap.Int("count", len(shelves)))
	return nil
}

// Save persists the in-memory collection as is.
func (m *Manager) Save(ctx context.Context) error {
	return m.commit(ctx, m.shelves)
}

// Shelves returns a copy of all shelves in insertion order.
func (m *Manager) Shelves() []library.Shelf {
	return cloneAll(m.shelves)
}

// Get returns the shelf with the given identifier.
func (m *Manager) Get(id int) (library.Shelf, bool) {
	if i := m.indexByID(id); i >= 0 {
		return m.shelves[i].Clone(), true
	}
	return library.Shelf{}, false
}

// FindByNumber returns the shelf in the given aisle.
func (m *Manager) FindByNumber(number int) (library.Shelf, bool) {
	if i := m.indexByNumber(number); i >= 0 {
		return m.shelves[i].Clone(), true
	}
	return library.Shelf{}, false
}

// NextID returns the identifier the next added shelf will receive.
func (m *Manager) NextID() int {
	highest := 0
	for _, s := range m.shelves {
		if s.ID > highest {
			highest = s.ID
		}
	}
	return highest + 1
}

// AddShelf appends a shelf. It fails with a DuplicateError if another shelf
// already uses the aisle number or the identifier. A zero ID is replaced by
// NextID. The stored shelf is returned.
func (m *Manager) AddShelf(ctx context.Context, shelf library.Shelf) (library.Shelf, error) {
	if i := m.indexByNumber(shelf.Number); i >= 0 {
		return library.Shelf{}, &library.DuplicateError{
			Entity: "shelf", Field: "number", Value: shelf.Number,
			Detail: fmt.Sprintf("aisle %d is already used by shelf %d", shelf.Number, m.shelves[i].ID),
		}
	}

	shelf = shelf.Clone()
	if shelf.ID == 0 {
		shelf.ID = m.NextID()
	} else if m.indexByID(shelf.ID) >= 0 {
		return library.Shelf{}, &library.DuplicateError{Entity: "shelf", Field: "id", Value: shelf.ID}
	}
	if shelf.Books == nil {
		shelf.Books = []library.Book{}
	}
	if err := shelf.Validate(); err != nil {
		return library.Shelf{}, err
	}

	next := append(cloneAll(m.shelves), shelf)
	if err := m.commit(ctx, next); err != nil {
		return library.Shelf{}, err
	}

	m.logger.Info("shelf added",
		zap.Int("shelf_id", shelf.ID),
		zap.Int("number", shelf.Number),
		zap.String("letter", shelf.Letter))
	return shelf.Clone(), nil
}

// UpdateShelf replaces the aisle number and letter of the shelf currently in
// aisle oldNumber. The shelf keeps its identifier. Its books are kept unless
// shelf carries its own (non-nil) book list.
func (m *Manager) UpdateShelf(ctx context.Context, oldNumber int, shelf library.Shelf) (library.Shelf, error) {
	i := m.indexByNumber(oldNumber)
	if i < 0 {
		return library.Shelf{}, &library.NotFoundError{Entity: "shelf", Field: "number", Value: oldNumber,
			Detail: fmt.Sprintf("no shelf in aisle %d", oldNumber)}
	}

	if j := m.indexByNumber(shelf.Number); j >= 0 && j != i {
		return library.Shelf{}, &library.DuplicateError{
			Entity: "shelf", Field: "number", Value: shelf.Number,
			Detail: fmt.Sprintf("aisle %d is already used by shelf %d", shelf.Number, m.shelves[j].ID),
		}
	}

	updated := m.shelves[i].Clone()
	updated.Number = shelf.Number
	updated.Letter = shelf.Letter
	if shelf.Books != nil {
		updated.Books = shelf.Clone().Books
	}
	if err := updated.Validate(); err != nil {
		return library.Shelf{}, err
	}

	next := cloneAll(m.shelves)
	next[i] = updated
	if err := m.commit(ctx, next); err != nil {
		return library.Shelf{}, err
	}

	m.logger.Info("shelf updated",
		zap.Int("shelf_id", updated.ID),
		zap.Int("old_number", oldNumber),
		zap.Int("number", updated.Number),
		zap.String("letter", updated.Letter))
	return updated.Clone(), nil
}

// RemoveShelf deletes the shelf with the given identifier. Its aisle number
// becomes available again.
func (m *Manager) RemoveShelf(ctx context.Context, id int) error {
	i := m.indexByID(id)
	if i < 0 {
		return &library.NotFoundError{Entity: "shelf", Field: "id", Value: id}
	}

	removed := m.shelves[i]
	next := make([]library.Shelf, 0, len(m.shelves)-1)
	next = append(next, cloneAll(m.shelves[:i])...)
	next = append(next, cloneAll(m.shelves[i+1:])...)
	if err := m.commit(ctx, next); err != nil {
		return err
	}

	m.logger.Info("shelf removed", zap.Int("shelf_id", id), zap.Int("number", removed.Number))
	return nil
}

// AddBookToShelf places a copy of book on the shelf in aisle number.
func (m *Manager) AddBookToShelf(ctx context.Context, number int, book library.Book) error {
	i := m.indexByNumber(number)
	if i < 0 {
		return &library.NotFoundError{Entity: "shelf", Field: "number", Value: number,
			Detail: fmt.Sprintf("no shelf in aisle %d", number)}
	}
	if m.shelves[i].HasBook(book.ID) {
		return &library.DuplicateError{Entity: "book", Field: "id", Value: book.ID,
			Detail: fmt.Sprintf("book %d is already on shelf %s", book.ID, m.shelves[i].Location())}
	}
	if err := book.Validate(); err != nil {
		return err
	}

	next := cloneAll(m.shelves)
	next[i].Books = append(next[i].Books, book.Clone())
	if err := m.commit(ctx, next); err != nil {
		return err
	}

	m.logger.Info("book added to shelf",
		zap.Int("shelf_id", next[i].ID),
		zap.Int("number", number),
		zap.Int("book_id", book.ID))
	return nil
}

// RemoveBookFromShelf takes the book off the shelf in aisle number.
func (m *Manager) RemoveBookFromShelf(ctx context.Context, number int, bookID int) error {
	i := m.indexByNumber(number)
	if i < 0 {
		return &library.NotFoundError{Entity: "shelf", Field: "number", Value: number,
			Detail: fmt.Sprintf("no shelf in aisle %d", number)}
	}

	next := cloneAll(m.shelves)
	books := next[i].Books
	kept := books[:0]
	for _, b := range books {
		if b.ID != bookID {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(books) {
		return &library.NotFoundError{Entity: "book", Field: "id", Value: bookID,
			Detail: fmt.Sprintf("book %d is not on shelf %s", bookID, m.shelves[i].Location())}
	}
	next[i].Books = kept

	if err := m.commit(ctx, next); err != nil {
		return err
	}

	m.logger.Info("book removed from shelf",
		zap.Int("shelf_id", next[i].ID),
		zap.Int("number", number),
		zap.Int("book_id", bookID))
	return nil
}

// SearchByNumber returns the shelves whose aisle number contains query.
func (m *Manager) SearchByNumber(query string) []library.Shelf {
	return m.search(query, func(s library.Shelf) string { return strconv.Itoa(s.Number) })
}

// SearchByLetter returns the shelves whose letter contains query, ignoring case.
func (m *Manager) SearchByLetter(query string) []library.Shelf {
	return m.search(query, func(s library.Shelf) string { return s.Letter })
}

// ShelvesHoldingBook returns the shelves that hold the given book.
func (m *Manager) ShelvesHoldingBook(bookID int) []library.Shelf {
	var out []library.Shelf
	for _, s := range m.shelves {
		if s.HasBook(bookID) {
			out = append(out, s.Clone())
		}
	}
	return out
}

func (m *Manager) search(query string, field func(library.Shelf) string) []library.Shelf {
	q := strings.ToLower(strings.TrimSpace(query))

	matches := []library.Shelf{}
	for _, s := range m.shelves {
		if strings.Contains(strings.ToLower(field(s)), q) {
			matches = append(matches, s.Clone())
		}
	}
	return matches
}

// commit persists next and adopts it as the in-memory collection.
func (m *Manager) commit(ctx context.Context, next []library.Shelf) error {
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save shelves: %w", err)
	}
	m.shelves = next
	return nil
}

func (m *Manager) indexByNumber(number int) int {
	for i, s := range m.shelves {
		if s.Number == number {
			return i
		}
	}
	return -1
}

func (m *Manager) indexByID(id int) int {
	for i, s := range m.shelves {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(shelves []library.Shelf) []library.Shelf {
	out := make([]library.Shelf, len(shelves))
	for i, s := range shelves {
		out[i] = s.Clone()
	}
	return out
}
