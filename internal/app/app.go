// Package app wires configuration, storage backends and managers together.
package app

import (
	"context"
	"fmt"

	"github.com/dyluth/shelf/internal/books"
	"github.com/dyluth/shelf/internal/config"
	"github.com/dyluth/shelf/internal/reservations"
	"github.com/dyluth/shelf/internal/shelves"
	"github.com/dyluth/shelf/internal/store"
	"github.com/dyluth/shelf/pkg/library"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Library holds the three managers of one library and the resources behind them.
type Library struct {
	Shelves      *shelves.Manager
	Books        *books.Manager
	Reservations *reservations.Manager

	locations map[string]string
	rdb       *redis.Client
}

// Backends holds one storage backend per collection.
type Backends struct {
	Shelves      store.Backend
	Books        store.Backend
	Reservations store.Backend
}

// Open builds the backends described by cfg and loads every collection.
func Open(ctx context.Context, cfg *config.LibraryConfig, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		backends Backends
		rdb      *redis.Client
	)
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Storage.Redis.Addr, err)
		}
		var err error
		backends, err = redisBackends(rdb, cfg.Storage.Redis.Instance)
		if err != nil {
			rdb.Close()
			return nil, err
		}
	default:
		backends = Backends{
			Shelves:      store.NewFileBackend(cfg.ShelvesPath()),
			Books:        store.NewFileBackend(cfg.BooksPath()),
			Reservations: store.NewFileBackend(cfg.ReservationsPath()),
		}
	}

	var opts []reservations.Option
	if cfg.Reservations.EnforceNoOverlap {
		opts = append(opts, reservations.WithPolicy(reservations.NoOverlapPolicy{}))
	}

	lib := New(backends, logger, opts...)
	lib.rdb = rdb
	if err := lib.Load(ctx); err != nil {
		lib.Close()
		return nil, err
	}

	logger.Debug("library opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("shelves", lib.locations["shelves"]))
	return lib, nil
}

// New creates managers over the given backends without loading them.
func New(backends Backends, logger *zap.Logger, opts ...reservations.Option) *Library {
	shelfStore := store.NewCollection("shelves", backends.Shelves, library.EncodeShelves, library.DecodeShelves, logger)
	bookStore := store.NewCollection("books", backends.Books, library.EncodeBooks, library.DecodeBooks, logger)
	reservationStore := store.NewCollection("reservations", backends.Reservations, library.EncodeReservations, library.DecodeReservations, logger)

	return &Library{
		Shelves:      shelves.NewManager(shelfStore, logger),
		Books:        books.NewManager(bookStore, logger),
		Reservations: reservations.NewManager(reservationStore, logger, opts...),
		locations: map[string]string{
			"shelves":      backends.Shelves.Location(),
			"books":        backends.Books.Location(),
			"reservations": backends.Reservations.Location(),
		},
	}
}

// Load reads every collection from storage.
func (l *Library) Load(ctx context.Context) error {
	if err := l.Shelves.Load(ctx); err != nil {
		return err
	}
	if err := l.Books.Load(ctx); err != nil {
		return err
	}
	return l.Reservations.Load(ctx)
}

// Location returns where the named collection ("shelves", "books",
// "reservations") is stored.
func (l *Library) Location(collection string) string {
	return l.locations[collection]
}

// Close releases the Redis connection, if any.
func (l *Library) Close() error {
	if l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

func redisBackends(rdb *redis.Client, instance string) (Backends, error) {
	var b Backends
	var err error
	if b.Shelves, err = store.NewRedisBackend(rdb, instance, "shelves"); err != nil {
		return Backends{}, err
	}
	if b.Books, err = store.NewRedisBackend(rdb, instance, "books"); err != nil {
		return Backends{}, err
	}
	if b.Reservations, err = store.NewRedisBackend(rdb, instance, "reservations"); err != nil {
		return Backends{}, err
	}
	return b, nil
}
