// Package datasource opens the dataset backend named in configuration.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/store"
	"github.com/rmax-ai/haze/pkg/store/redis"
)

// Backend kinds.
const (
	Embedded = "embedded"
	File     = "file"
	SQLite   = "sqlite"
	Redis    = "redis"
)

// Kinds lists the supported backends.
var Kinds = []string{Embedded, File, SQLite, Redis}

// Options locates the backend.
type Options struct {
	Kind        string
	ContentPath string
	DBPath      string
	RedisAddr   string
}

// Normalize lowercases the kind and maps aliases.
func Normalize(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "", "embed", "builtin":
		return Embedded
	case "fs", "yaml":
		return File
	case "sqlite3", "db":
		return SQLite
	default:
		return k
	}
}

// Validate reports whether opts names a usable backend.
func (o Options) Validate() error {
	switch Normalize(o.Kind) {
	case Embedded:
		return nil
	case File:
		if o.ContentPath == "" {
			return errors.New("source=file requires a content path")
		}
	case SQLite:
		if o.DBPath == "" {
			return errors.New("source=sqlite requires a db path")
		}
	case Redis:
		if o.RedisAddr == "" {
			return errors.New("source=redis requires a redis address")
		}
	default:
		return fmt.Errorf("unsupported source: %s (want one of %s)", o.Kind, strings.Join(Kinds, ", "))
	}
	return nil
}

// Open returns the source and a closer releasing its connections. The
// Redis backend is not pinged here; an unreachable server surfaces as a
// fetch error the loader retries.
func Open(opts Options) (content.Source, io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	switch Normalize(opts.Kind) {
	case File:
		return content.FileSource(opts.ContentPath), nopCloser{}, nil
	case SQLite:
		st, err := store.NewStore(opts.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case Redis:
		ds := redis.NewDatasetStore(goredis.NewClient(&goredis.Options{Addr: opts.RedisAddr}))
		return ds, ds, nil
	default:
		return content.Embedded(), nopCloser{}, nil
	}
}

// Seeder writes datasets into a backend.
type Seeder interface {
	Seed(ctx context.Context, ds *content.Datasets) error
	io.Closer
}

// OpenSeeder returns a writable backend. Only SQLite and Redis accept
// datasets.
func OpenSeeder(ctx context.Context, opts Options) (Seeder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch Normalize(opts.Kind) {
	case SQLite:
		st, err := store.NewStore(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return st, nil
	case Redis:
		ds, err := redis.Dial(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return ds, nil
	default:
		return nil, fmt.Errorf("source %s cannot be seeded", Normalize(opts.Kind))
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
