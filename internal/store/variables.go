package store

import (
	"context"

	"github.com/roach88/batchop/internal/model"
)

// VariableStore is CRUD over the document's variables, keyed by name.
type VariableStore struct {
	repo *Repository
}

// NewVariableStore returns a variable store backed by repo.
func NewVariableStore(repo *Repository) *VariableStore {
	return &VariableStore{repo: repo}
}

// List returns variables in insertion order.
func (s *VariableStore) List(ctx context.Context) ([]model.Variable, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Variables, nil
}

// Upsert replaces the variable with the same name in place, or appends it.
func (s *VariableStore) Upsert(ctx context.Context, v model.Variable) error {
	return s.repo.update(ctx, func(doc *model.Document) error {
		for i := range doc.Variables {
			if doc.Variables[i].Name == v.Name {
				doc.Variables[i] = v
				return nil
			}
		}
		doc.Variables = append(doc.Variables, v)
		return nil
	})
}

// Remove deletes the variable named name. Removing an absent name is not an
// error; the document is written either way.
func (s *VariableStore) Remove(ctx context.Context, name string) error {
	return s.repo.update(ctx, func(doc *model.Document) error {
		kept := doc.Variables[:0]
		for _, v := range doc.Variables {
			if v.Name != name {
				kept = append(kept, v)
			}
		}
		doc.Variables = kept
		return nil
	})
}
