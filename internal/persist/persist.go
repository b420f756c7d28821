// Package persist provides the opaque key/value primitive the document store
// is built on. Each driver stores whole values under string keys and knows
// nothing about their contents.
//
// Drivers:
//   - memory: process-local map (tests)
//   - file:   one file per key under a directory (default)
//   - sqlite: single table in a SQLite database
//   - postgres: single table in a Postgres database
//   - s3:     one object per key in an S3-compatible bucket
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a concrete adapter implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
)

// Drivers lists every supported driver.
var Drivers = []Driver{DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverS3}

// ParseDriver converts a configuration string into a Driver.
func ParseDriver(s string) (Driver, error) {
	for _, d := range Drivers {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown storage driver %q: must be one of %v", s, Drivers)
}

// Adapter gets and sets opaque values by key.
//
// Get reports ok == false for a key that was never set; that is not an
// error. Any other failure is returned as err.
type Adapter interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Driver() Driver
	Close() error
}

// ErrInvalidKey is returned for keys a driver cannot address safely.
var ErrInvalidKey = errors.New("persist: invalid key")

// validateKey rejects keys that could escape a driver's namespace.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
