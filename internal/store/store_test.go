package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/batchop/internal/model"
)

func TestRepositoryMissingKeyIsEmptyDocument(t *testing.T) {
	repo, _ := createTestRepo(t)

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Variables)
	assert.Empty(t, doc.ParamSets)
	assert.NotNil(t, doc.Variables)
	assert.NotNil(t, doc.ParamSets)
	assert.Equal(t, DefaultKey, repo.Key())
}

func TestRepositoryEmptyValueIsEmptyDocument(t *testing.T) {
	repo, mem := createTestRepo(t)
	require.NoError(t, mem.Set(context.Background(), DefaultKey, []byte{}))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Variables)
}

func TestRepositoryMalformedDocument(t *testing.T) {
	repo, mem := createTestRepo(t)
	require.NoError(t, mem.Set(context.Background(), DefaultKey, []byte("{not json")))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "decode", se.Op)
	assert.Equal(t, DefaultKey, se.Key)
}

func TestRepositoryUnknownCommandIsMalformed(t *testing.T) {
	repo, mem := createTestRepo(t)
	raw := `{"variables":[],"paramSets":[{"id":"1","name":"x","command":"move","params":{"from":"a","to":"b"}}]}`
	require.NoError(t, mem.Set(context.Background(), DefaultKey, []byte(raw)))

	_, err := repo.Load(context.Background())
	assert.True(t, IsStorageError(err))
}

func TestRepositoryAdapterFailures(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(failingAdapter{err: errDiskGone}, "k", nil)

	_, err := repo.Load(ctx)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get", se.Op)
	assert.ErrorIs(t, err, errDiskGone)

	err = repo.Save(ctx, model.EmptyDocument())
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "set", se.Op)

	// Store operations surface the same error instead of substituting an empty document.
	_, err = NewVariableStore(repo).List(ctx)
	assert.ErrorIs(t, err, errDiskGone)
	err = NewParamSetStore(repo).Upsert(ctx, createTestParamSet("1", "x"))
	assert.ErrorIs(t, err, errDiskGone)
}

func TestRepositoryWritesOriginalShape(t *testing.T) {
	ctx := context.Background()
	repo, mem := createTestRepo(t)
	vars := NewVariableStore(repo)
	require.NoError(t, vars.Upsert(ctx, model.Variable{Name: "Desktop", Value: "/Users/x/Desktop"}))

	raw, ok, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"variables":[{"name":"Desktop","value":"/Users/x/Desktop"}],"paramSets":[]}`, string(raw))
}

func TestVariableStoreUpsertThenList(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewVariableStore(repo)

	inputs := []model.Variable{
		{Name: "Desktop", Value: "/Users/x/Desktop"},
		{Name: "Home", Value: "/Users/x"},
		{Name: "desktop", Value: "lowercase is a different name"},
		{Name: "Desktop", Value: "/Volumes/Desktop"},
	}
	for _, v := range inputs {
		require.NoError(t, s.Upsert(ctx, v))

		list, err := s.List(ctx)
		require.NoError(t, err)
		matches := 0
		for _, got := range list {
			if got.Name == v.Name {
				matches++
				assert.Equal(t, v.Value, got.Value)
			}
		}
		assert.Equal(t, 1, matches, "exactly one entry named %q", v.Name)
	}
}

func TestVariableStoreUpsertPreservesPosition(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewVariableStore(repo)

	require.NoError(t, s.Upsert(ctx, model.Variable{Name: "A", Value: "1"}))
	require.NoError(t, s.Upsert(ctx, model.Variable{Name: "B", Value: "2"}))
	require.NoError(t, s.Upsert(ctx, model.Variable{Name: "C", Value: "3"}))
	require.NoError(t, s.Upsert(ctx, model.Variable{Name: "A", Value: "10"}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Variable{{Name: "A", Value: "10"}, {Name: "B", Value: "2"}, {Name: "C", Value: "3"}}, list)
}

func TestVariableStoreRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, mem := createTestRepo(t)
	s := NewVariableStore(repo)

	require.NoError(t, s.Upsert(ctx, model.Variable{Name: "A", Value: "1"}))
	require.NoError(t, s.Upsert(ctx, model.Variable{Name: "B", Value: "2"}))

	require.NoError(t, s.Remove(ctx, "A"))
	once, _, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "A"))
	twice, _, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Variable{{Name: "B", Value: "2"}}, list)
}

func TestVariableStoreRemoveAbsentPersists(t *testing.T) {
	ctx := context.Background()
	repo, mem := createTestRepo(t)

	require.NoError(t, NewVariableStore(repo).Remove(ctx, "missing"))
	_, ok, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok, "remove persists even when nothing matched")
}

func TestParamSetStorePartition(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewParamSetStore(repo)

	copyA := createTestParamSet("1", "copy a")
	jsonB := createTestParamSet("2", "json b")
	jsonB.Op = model.ModifyJSONOp{From: "a", To: "b", JSONPath: "$.meta"}
	copyC := createTestParamSet("3", "copy c")

	for _, ps := range []model.ParamSet{copyA, jsonB, copyC} {
		require.NoError(t, s.Upsert(ctx, ps))
	}

	copies, err := s.List(ctx, model.CommandCopy)
	require.NoError(t, err)
	require.Len(t, copies, 2)
	assert.Equal(t, "1", copies[0].ID)
	assert.Equal(t, "3", copies[1].ID)
	for _, ps := range copies {
		assert.Equal(t, model.CommandCopy, ps.Command())
	}

	jsons, err := s.List(ctx, model.CommandModifyJSON)
	require.NoError(t, err)
	require.Len(t, jsons, 1)
	assert.Equal(t, model.CommandModifyJSON, jsons[0].Command())

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestParamSetStoreUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewParamSetStore(repo)

	require.NoError(t, s.Upsert(ctx, createTestParamSet("1", "first")))
	require.NoError(t, s.Upsert(ctx, createTestParamSet("2", "second")))

	renamed := createTestParamSet("1", "renamed")
	require.NoError(t, s.Upsert(ctx, renamed))

	list, err := s.List(ctx, model.CommandCopy)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "renamed", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
}

func TestParamSetStoreUpsertDoesNotValidate(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewParamSetStore(repo)

	ps := createTestParamSet("1", "")
	ps.Op = model.ModifyJSONOp{}
	require.NoError(t, s.Upsert(ctx, ps))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.ModifyJSONOp{}, all[0].Op)
}

func TestParamSetStoreRemove(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewParamSetStore(repo)

	require.NoError(t, s.Upsert(ctx, createTestParamSet("1", "first")))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "first", all[0].Name)
	assert.True(t, all[0].CreatedAt.Equal(createTestParamSet("1", "first").CreatedAt))

	require.NoError(t, s.Remove(ctx, "1"))
	require.NoError(t, s.Remove(ctx, "1"))

	all, err = s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParamSetStoreReplace(t *testing.T) {
	ctx := context.Background()
	repo, _ := createTestRepo(t)
	s := NewParamSetStore(repo)

	require.NoError(t, s.Upsert(ctx, createTestParamSet("1", "first")))
	require.NoError(t, s.Upsert(ctx, createTestParamSet("2", "second")))

	got, err := s.Replace(ctx, "1", func(existing model.ParamSet) model.ParamSet {
		existing.Name = "renamed"
		return existing
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	list, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "renamed", list[0].Name, "replaced in place")
}

func TestParamSetStoreReplaceMissingWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo, mem := createTestRepo(t)
	s := NewParamSetStore(repo)

	require.NoError(t, s.Upsert(ctx, createTestParamSet("1", "first")))
	require.NoError(t, s.Remove(ctx, "1"))
	before, _, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)

	called := false
	_, err = s.Replace(ctx, "1", func(existing model.ParamSet) model.ParamSet {
		called = true
		return existing
	})
	assert.ErrorIs(t, err, ErrParamSetNotFound)
	assert.False(t, called)

	after, _, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a removed preset is not brought back")
}

func TestStoresShareOneDocument(t *testing.T) {
	ctx := context.Background()
	repo, mem := createTestRepo(t)

	require.NoError(t, NewVariableStore(repo).Upsert(ctx, model.Variable{Name: "A", Value: "1"}))
	require.NoError(t, NewParamSetStore(repo).Upsert(ctx, createTestParamSet("1", "p")))

	raw, _, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	var doc map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc["variables"], 1)
	assert.Len(t, doc["paramSets"], 1)
}
