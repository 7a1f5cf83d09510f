package store

import "errors"

// ErrEmpty is returned when no datasets have been seeded yet.
var ErrEmpty = errors.New("store: no datasets seeded")
