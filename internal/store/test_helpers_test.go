package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roach88/batchop/internal/model"
	"github.com/roach88/batchop/internal/persist"
)

// createTestRepo creates a repository over a fresh in-memory adapter.
func createTestRepo(t *testing.T) (*Repository, *persist.Memory) {
	t.Helper()
	mem := persist.NewMemory()
	return NewRepository(mem, "", nil), mem
}

// createTestParamSet creates a copy preset with fixed timestamps.
func createTestParamSet(id, name string) model.ParamSet {
	ts := time.UnixMilli(1700000000000)
	return model.ParamSet{
		ID:        id,
		Name:      name,
		Op:        model.CopyOp{From: "{{Desktop}}/a", To: "{{Desktop}}/b"},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// failingAdapter fails every call with err.
type failingAdapter struct {
	err error
}

func (f failingAdapter) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingAdapter) Set(context.Context, string, []byte) error         { return f.err }
func (f failingAdapter) Driver() persist.Driver                            { return "failing" }
func (f failingAdapter) Close() error                                      { return nil }

var errDiskGone = errors.New("disk gone")
