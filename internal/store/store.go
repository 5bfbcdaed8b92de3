// Package store persists located zeros in an embedded BadgerDB catalog so
// that repeated scans and API queries can reuse earlier results.
package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/agbru/hardyz/internal/scan"
)

// ErrClosed is returned by operations on a closed catalog.
var ErrClosed = errors.New("catalog is closed")

// Config holds configuration for a Catalog.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory keeps everything in RAM. Intended for tests.
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// Logger receives Badger's internal logs; nil disables them.
	Logger *zerolog.Logger
}

// DefaultConfig returns a durable on-disk configuration at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts zerolog to badger.Logger.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// Catalog is a zero catalog keyed by method and height.
// It is safe for concurrent use.
type Catalog struct {
	db *badger.DB
}

// Open opens or creates the catalog described by cfg.
func Open(cfg Config) (*Catalog, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent catalog")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithMemTableSize(8 << 20)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create catalog directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: cfg.Logger.With().Str("component", "badger").Logger()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open zero catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	if c.db.IsClosed() {
		return nil
	}
	return c.db.Close()
}

func methodPrefix(method string) []byte {
	return []byte("zero/" + method + "/")
}

// heightKey encodes t so that byte order matches numeric order: the sign
// bit is flipped for non-negative values and all bits for negative ones.
func heightKey(method string, t float64) []byte {
	bits := math.Float64bits(t)
	if bits>>63 == 0 {
		bits ^= 1 << 63
	} else {
		bits = ^bits
	}
	key := methodPrefix(method)
	return binary.BigEndian.AppendUint64(key, bits)
}

// Put stores zeros under method, replacing entries at identical heights.
func (c *Catalog) Put(ctx context.Context, method string, zeros []scan.Zero) error {
	if c.db.IsClosed() {
		return ErrClosed
	}
	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for _, z := range zeros {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, err := json.Marshal(z)
		if err != nil {
			return fmt.Errorf("encode zero at %v: %w", z.T, err)
		}
		if err := wb.Set(heightKey(method, z.T), value); err != nil {
			return fmt.Errorf("stage zero at %v: %w", z.T, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("write zeros: %w", err)
	}
	return nil
}

// Range returns the zeros stored under method with from <= T <= to, in
// ascending order.
func (c *Catalog) Range(ctx context.Context, method string, from, to float64) ([]scan.Zero, error) {
	if c.db.IsClosed() {
		return nil, ErrClosed
	}
	var zeros []scan.Zero
	upper := heightKey(method, to)
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = methodPrefix(method)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(heightKey(method, from)); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if string(item.Key()) > string(upper) {
				break
			}
			var z scan.Zero
			if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &z) }); err != nil {
				return fmt.Errorf("decode zero: %w", err)
			}
			zeros = append(zeros, z)
		}
		return nil
	})
	return zeros, err
}

// Count returns the number of zeros stored under method.
func (c *Catalog) Count(ctx context.Context, method string) (int, error) {
	if c.db.IsClosed() {
		return 0, ErrClosed
	}
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = methodPrefix(method)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
