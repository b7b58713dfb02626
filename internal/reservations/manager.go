// Package reservations manages the reservation collection.
//
// Reservations are historically identified by their composite key
// (user, book, start date, end date). AddReservation, RemoveReservation and
// UpdateReservation keep that behavior exactly, including its quirks: adding
// never checks for duplicates or overlaps, removing an unknown reservation is
// a silent no-op, and UpdateReservation can only replace an entry whose key is
// unchanged. The ID-keyed operations address a single reservation by its
// generated UUID and may change its key fields.
package reservations

import (
	"context"
	"fmt"

	"github.com/dyluth/shelf/pkg/library"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store loads and saves the full reservation collection.
type Store interface {
	Load(ctx context.Context) ([]library.Reservation, error)
	Save(ctx context.Context, reservations []library.Reservation) error
}

// Manager owns the in-memory reservation collection. Every mutation persists
// the complete collection. Manager is not safe for concurrent use.
type Manager struct {
	store        Store
	reservations []library.Reservation
	policy       Policy
	newID        func() string
	logger       *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy installs a policy consulted before a reservation is added or
// changed through UpdateReservationByID. Without a policy every reservation
// is accepted.
func WithPolicy(p Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithIDGenerator overrides the reservation ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager creates an empty manager. Call Load to read stored reservations.
func NewManager(store Store, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:        store,
		reservations: []library.Reservation{},
		newID:        func() string { return uuid.New().String() },
		logger:       logger.Named("reservations"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory collection with the stored one. Two records
// sharing an ID are rejected. Reservations stored without an ID are given one
// and the collection is saved right away, so the IDs stay stable across runs.
func (m *Manager) Load(ctx context.Context) error {
	reservations, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reservations: %w", err)
	}

	seen := make(map[string]int, len(reservations))
	for i, r := range reservations {
		if r.ID == "" {
			continue
		}
		if other, exists := seen[r.ID]; exists {
			return fmt.Errorf("failed to load reservations: records %d and %d share id %s", other, i, r.ID)
		}
		seen[r.ID] = i
	}

	assigned := 0
	for i := range reservations {
		if reservations[i].ID == "" {
			reservations[i].ID = m.newID()
			assigned++
		}
	}

	if assigned == 0 {
		m.reservations = reservations
		return nil
	}

	if err := m.commit(ctx, reservations); err != nil {
		return err
	}
	m.logger.Info("assigned ids to stored reservations", zap.Int("count", assigned))
	return nil
}

// Save persists the in-memory collection as is.
func (m *Manager) Save(ctx context.Context) error {
	return m.commit(ctx, m.reservations)
}

// GetAllReservations returns every reservation in insertion order.
func (m *Manager) GetAllReservations() []library.Reservation {
	return append([]library.Reservation{}, m.reservations...)
}

// Get returns the reservation with the given ID.
func (m *Manager) Get(id string) (library.Reservation, bool) {
	if i := m.indexByID(id); i >= 0 {
		return m.reservations[i], true
	}
	return library.Reservation{}, false
}

// IDs returns the IDs of all reservations in insertion order.
func (m *Manager) IDs() []string {
	ids := make([]string, len(m.reservations))
	for i, r := range m.reservations {
		ids[i] = r.ID
	}
	return ids
}

// ForBook returns the reservations of one book.
func (m *Manager) ForBook(bookID int) []library.Reservation {
	return m.filter(func(r library.Reservation) bool { return r.BookID == bookID })
}

// ForUser returns the reservations of one user.
func (m *Manager) ForUser(userID int) []library.Reservation {
	return m.filter(func(r library.Reservation) bool { return r.UserID == userID })
}

// AddReservation appends the reservation and persists. No duplicate, overlap
// or date-order check is made unless a Policy is installed. An empty ID is
// replaced by a generated one. The stored reservation is returned.
func (m *Manager) AddReservation(ctx context.Context, r library.Reservation) (library.Reservation, error) {
	if r.ID == "" {
		r.ID = m.newID()
	} else if m.indexByID(r.ID) >= 0 {
		return library.Reservation{}, &library.DuplicateError{Entity: "reservation", Field: "id", Value: r.ID}
	}

	if m.policy != nil {
		if err := m.policy.Check(m.reservations, r); err != nil {
			return library.Reservation{}, err
		}
	}

	next := append(append([]library.Reservation{}, m.reservations...), r)
	if err := m.commit(ctx, next); err != nil {
		return library.Reservation{}, err
	}

	m.logger.Info("reservation added", reservationFields(r)...)
	return r, nil
}

// RemoveReservation removes every reservation whose composite key matches r
// and persists. A reservation matching none is a no-op; it returns the number
// of removed entries.
func (m *Manager) RemoveReservation(ctx context.Context, r library.Reservation) (int, error) {
	key := r.Key()

	next := make([]library.Reservation, 0, len(m.reservations))
	for _, existing := range m.reservations {
		if !existing.Key().Matches(key) {
			next = append(next, existing)
		}
	}

	removed := len(m.reservations) - len(next)
	if err := m.commit(ctx, next); err != nil {
		return 0, err
	}

	m.logger.Info("reservation removed", append(reservationFields(r), zap.Int("removed", removed))...)
	return removed, nil
}

// UpdateReservation replaces the first reservation whose composite key equals
// r's. Because the key is both the lookup and part of the replacement, only
// non-key fields can change; use UpdateReservationByID to change dates. The
// stored ID is kept when r has none. It reports whether an entry was replaced;
// no match is a silent no-op.
func (m *Manager) UpdateReservation(ctx context.Context, r library.Reservation) (bool, error) {
	key := r.Key()
	for i, existing := range m.reservations {
		if !existing.Key().Matches(key) {
			continue
		}

		if r.ID == "" {
			r.ID = existing.ID
		}
		next := append([]library.Reservation{}, m.reservations...)
		next[i] = r
		if err := m.commit(ctx, next); err != nil {
			return false, err
		}

		m.logger.Info("reservation updated", reservationFields(r)...)
		return true, nil
	}
	return false, nil
}

// UpdateReservationByID replaces the reservation with the given ID, keeping
// the ID. Key fields may change.
func (m *Manager) UpdateReservationByID(ctx context.Context, id string, r library.Reservation) (library.Reservation, error) {
	i := m.indexByID(id)
	if i < 0 {
		return library.Reservation{}, &library.NotFoundError{Entity: "reservation", Field: "id", Value: id}
	}

	r.ID = id
	if m.policy != nil {
		others := make([]library.Reservation, 0, len(m.reservations)-1)
		others = append(others, m.reservations[:i]...)
		others = append(others, m.reservations[i+1:]...)
		if err := m.policy.Check(others, r); err != nil {
			return library.Reservation{}, err
		}
	}

	next := append([]library.Reservation{}, m.reservations...)
	next[i] = r
	if err := m.commit(ctx, next); err != nil {
		return library.Reservation{}, err
	}

	m.logger.Info("reservation updated", reservationFields(r)...)
	return r, nil
}

// RemoveReservationByID removes the reservation with the given ID.
func (m *Manager) RemoveReservationByID(ctx context.Context, id string) (library.Reservation, error) {
	i := m.indexByID(id)
	if i < 0 {
		return library.Reservation{}, &library.NotFoundError{Entity: "reservation", Field: "id", Value: id}
	}

	removed := m.reservations[i]
	next := make([]library.Reservation, 0, len(m.reservations)-1)
	next = append(next, m.reservations[:i]...)
	next = append(next, m.reservations[i+1:]...)
	if err := m.commit(ctx, next); err != nil {
		return library.Reservation{}, err
	}

	m.logger.Info("reservation removed", reservationFields(removed)...)
	return removed, nil
}

func (m *Manager) commit(ctx context.Context, next []library.Reservation) error {
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save reservations: %w", err)
	}
	m.reservations = next
	return nil
}

func (m *Manager) filter(keep func(library.Reservation) bool) []library.Reservation {
	out := []library.Reservation{}
	for _, r := range m.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Manager) indexByID(id string) int {
	for i, r := range m.reservations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func reservationFields(r library.Reservation) []zap.Field {
	return []zap.Field{
		zap.String("reservation_id", r.ID),
		zap.Int("user_id", r.UserID),
		zap.Int("book_id", r.BookID),
		zap.String("start_date", library.FormatDate(r.StartDate)),
		zap.String("end_date", library.FormatDate(r.EndDate)),
	}
}
