package store

import (
	"context"
	"fmt"

	"github.com/roach88/batchop/internal/model"
)

// ParamSetStore is CRUD over the document's parameter sets, keyed by id.
//
// The store does not validate presets. Callers validate at the boundary
// (see model.ParamSetInput) before calling Upsert.
type ParamSetStore struct {
	repo *Repository
}

// NewParamSetStore returns a parameter-set store backed by repo.
func NewParamSetStore(repo *Repository) *ParamSetStore {
	return &ParamSetStore{repo: repo}
}

// List returns the presets whose command is cmd, in document order.
func (s *ParamSetStore) List(ctx context.Context, cmd model.Command) ([]model.ParamSet, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ParamSet, 0, len(doc.ParamSets))
	for _, ps := range doc.ParamSets {
		if ps.Command() == cmd {
			out = append(out, ps)
		}
	}
	return out, nil
}

// All returns every preset regardless of command, in document order.
func (s *ParamSetStore) All(ctx context.Context) ([]model.ParamSet, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.ParamSets, nil
}

// Upsert replaces the preset with the same id in place, or appends it.
func (s *ParamSetStore) Upsert(ctx context.Context, ps model.ParamSet) error {
	return s.repo.update(ctx, func(doc *model.Document) error {
		for i := range doc.ParamSets {
			if doc.ParamSets[i].ID == ps.ID {
				doc.ParamSets[i] = ps
				return nil
			}
		}
		doc.ParamSets = append(doc.ParamSets, ps)
		return nil
	})
}

// Replace rewrites the preset with the given id using fn, within one
// read-modify-write cycle. An id that is not present is ErrParamSetNotFound
// and nothing is written.
func (s *ParamSetStore) Replace(ctx context.Context, id string, fn func(existing model.ParamSet) model.ParamSet) (model.ParamSet, error) {
	var out model.ParamSet
	err := s.repo.update(ctx, func(doc *model.Document) error {
		for i := range doc.ParamSets {
			if doc.ParamSets[i].ID == id {
				out = fn(doc.ParamSets[i])
				doc.ParamSets[i] = out
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrParamSetNotFound, id)
	})
	if err != nil {
		return model.ParamSet{}, err
	}
	return out, nil
}

// Remove deletes the preset with the given id. Absent ids are a no-op.
func (s *ParamSetStore) Remove(ctx context.Context, id string) error {
	return s.repo.update(ctx, func(doc *model.Document) error {
		kept := doc.ParamSets[:0]
		for _, ps := range doc.ParamSets {
			if ps.ID != id {
				kept = append(kept, ps)
			}
		}
		doc.ParamSets = kept
		return nil
	})
}
