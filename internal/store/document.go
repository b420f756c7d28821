package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/roach88/batchop/internal/model"
	"github.com/roach88/batchop/internal/persist"
)

// DefaultKey is the storage key the document lives under.
const DefaultKey = "batch-file-operation"

// Repository loads and saves the whole document. See the package
// documentation for the lost-update race this implies.
type Repository struct {
	adapter persist.Adapter
	key     string
	logger  *slog.Logger
}

// NewRepository returns a repository over adapter. An empty key selects
// DefaultKey; a nil logger selects slog.Default().
func NewRepository(adapter persist.Adapter, key string, logger *slog.Logger) *Repository {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{adapter: adapter, key: key, logger: logger}
}

// Key returns the storage key.
func (r *Repository) Key() string { return r.key }

// Load returns the current document. A missing key yields an empty document.
func (r *Repository) Load(ctx context.Context) (*model.Document, error) {
	data, ok, err := r.adapter.Get(ctx, r.key)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: r.key, Err: err}
	}
	if !ok || len(data) == 0 {
		r.logger.Debug("document not found, using empty document", "key", r.key, "driver", r.adapter.Driver())
		return model.EmptyDocument(), nil
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StorageError{Op: "decode", Key: r.key, Err: err}
	}
	doc.Normalize()
	return &doc, nil
}

// Save replaces the stored document with doc.
func (r *Repository) Save(ctx context.Context, doc *model.Document) error {
	doc.Normalize()
	data, err := json.Marshal(doc)
	if err != nil {
		return &StorageError{Op: "encode", Key: r.key, Err: err}
	}
	if err := r.adapter.Set(ctx, r.key, data); err != nil {
		return &StorageError{Op: "set", Key: r.key, Err: err}
	}
	r.logger.Debug("document saved",
		"key", r.key,
		"variables", len(doc.Variables),
		"param_sets", len(doc.ParamSets),
		"bytes", len(data),
	)
	return nil
}

// update runs one read-modify-write cycle. The document is not saved when fn
// returns an error.
func (r *Repository) update(ctx context.Context, fn func(doc *model.Document) error) error {
	doc, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return r.Save(ctx, doc)
}
