// Package store persists entity collections as whole JSON documents.
//
// A Collection pairs a Backend (where the bytes live) with the encode and
// decode functions of one entity type. Every Save rewrites the complete
// collection; there is no streaming and no diffing.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotExist is returned by Backend.Read when nothing has been stored yet.
var ErrNotExist = errors.New("collection does not exist")

// Backend reads and writes the raw bytes of one collection.
type Backend interface {
	// Read returns the stored bytes, or ErrNotExist if nothing is stored.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes in full.
	Write(ctx context.Context, data []byte) error

	// Location describes where the collection lives, for messages and logs.
	Location() string
}

// EncodeFunc serializes a full collection.
type EncodeFunc[T any] func([]T) ([]byte, error)

// DecodeFunc parses and validates a full collection.
type DecodeFunc[T any] func([]byte) ([]T, error)

// Collection loads and saves a list of T through a Backend.
type Collection[T any] struct {
	name    string
	backend Backend
	encode  EncodeFunc[T]
	decode  DecodeFunc[T]
	logger  *zap.Logger
}

// NewCollection creates a collection. A nil logger disables logging.
func NewCollection[T any](name string, backend Backend, encode EncodeFunc[T], decode DecodeFunc[T], logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{
		name:    name,
		backend: backend,
		encode:  encode,
		decode:  decode,
		logger:  logger.With(zap.String("collection", name)),
	}
}

// Name returns the collection name (e.g. "shelves").
func (c *Collection[T]) Name() string {
	return c.name
}

// Location returns where the collection is stored.
func (c *Collection[T]) Location() string {
	return c.backend.Location()
}

// Load reads the whole collection. A collection that was never written loads
// as an empty slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Read(ctx)
	if errors.Is(err, ErrNotExist) {
		c.logger.Debug("collection not found, starting empty", zap.String("location", c.backend.Location()))
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", c.name, c.backend.Location(), err)
	}

	items, err := c.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from %s: %w", c.name, c.backend.Location(), err)
	}

	c.logger.Debug("collection loaded", zap.Int("count", len(items)))
	return items, nil
}

// Save overwrites the stored collection with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	data, err := c.encode(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}

	if err := c.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write %s to %s: %w", c.name, c.backend.Location(), err)
	}

	c.logger.Debug("collection saved", zap.Int("count", len(items)), zap.Int("bytes", len(data)))
	return nil
}
