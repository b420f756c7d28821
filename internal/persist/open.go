package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Options selects and configures a driver.
type Options struct {
	Driver Driver
	// Dir is the data directory for the file driver and the parent of the
	// sqlite database file.
	Dir string
	// DSN is the postgres connection string, or an explicit sqlite path.
	DSN string
	S3  S3Config
}

// Open constructs the adapter named by opts.Driver.
func Open(ctx context.Context, opts Options) (Adapter, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return nilOnError(NewFile(opts.Dir))
	case DriverSQLite:
		path := opts.DSN
		if path == "" {
			if opts.Dir == "" {
				return nil, fmt.Errorf("sqlite driver: dir or dsn required")
			}
			if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite driver: create %s: %w", opts.Dir, err)
			}
			path = filepath.Join(opts.Dir, "batchop.db")
		}
		return nilOnError(OpenSQLite(path))
	case DriverPostgres:
		return nilOnError(OpenPostgres(ctx, opts.DSN))
	case DriverS3:
		return nilOnError(OpenS3(ctx, opts.S3))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// nilOnError keeps a failed constructor from returning a typed-nil Adapter.
func nilOnError[A Adapter](a A, err error) (Adapter, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
