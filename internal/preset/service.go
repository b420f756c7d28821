// Package preset is the boundary between user input and the stores. It
// validates submissions, assigns ids and timestamps, and runs a preset by
// resolving its placeholders against the current variables and handing the
// result to the invoker.
package preset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/batchop/internal/invoke"
	"github.com/roach88/batchop/internal/model"
	"github.com/roach88/batchop/internal/resolve"
	"github.com/roach88/batchop/internal/store"
)

// ErrAmbiguousRef is returned when a name matches more than one preset.
var ErrAmbiguousRef = errors.New("preset name is ambiguous")

// Invoker runs a resolved operation.
type Invoker interface {
	Invoke(ctx context.Context, op model.Operation) invoke.Outcome
}

// Service wires the stores, resolver and invoker together.
type Service struct {
	vars    *store.VariableStore
	sets    *store.ParamSetStore
	invoker Invoker
	ids     model.IDGenerator
	clock   model.Clock
	logger  *slog.Logger
}

// Options configures a Service. Zero values select UUIDv7 ids, the system
// clock and slog.Default().
type Options struct {
	IDs    model.IDGenerator
	Clock  model.Clock
	Logger *slog.Logger
}

// NewService returns a service over repo that runs presets with invoker.
func NewService(repo *store.Repository, invoker Invoker, opts Options) *Service {
	if opts.IDs == nil {
		opts.IDs = model.UUIDv7Generator{}
	}
	if opts.Clock == nil {
		opts.Clock = model.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		vars:    store.NewVariableStore(repo),
		sets:    store.NewParamSetStore(repo),
		invoker: invoker,
		ids:     opts.IDs,
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
}

// Variables returns all variables in insertion order.
func (s *Service) Variables(ctx context.Context) ([]model.Variable, error) {
	return s.vars.List(ctx)
}

// SaveVariable validates in and upserts it by name.
func (s *Service) SaveVariable(ctx context.Context, in model.VariableInput) (model.Variable, error) {
	v, err := in.Variable()
	if err != nil {
		return model.Variable{}, err
	}
	if err := s.vars.Upsert(ctx, v); err != nil {
		return model.Variable{}, fmt.Errorf("save variable %q: %w", v.Name, err)
	}
	s.logger.Debug("variable saved", "name", v.Name)
	return v, nil
}

// DeleteVariable removes the variable named name; absent names are a no-op.
func (s *Service) DeleteVariable(ctx context.Context, name string) error {
	if err := s.vars.Remove(ctx, name); err != nil {
		return fmt.Errorf("delete variable %q: %w", name, err)
	}
	return nil
}

// ParamSets lists presets for cmd, or every preset when cmd is "".
func (s *Service) ParamSets(ctx context.Context, cmd model.Command) ([]model.ParamSet, error) {
	if cmd == "" {
		return s.sets.All(ctx)
	}
	return s.sets.List(ctx, cmd)
}

// CreateParamSet validates in and stores it under a new id.
func (s *Service) CreateParamSet(ctx context.Context, in model.ParamSetInput) (model.ParamSet, error) {
	op, err := in.Operation()
	if err != nil {
		return model.ParamSet{}, err
	}
	now := s.clock.Now()
	ps := model.ParamSet{
		ID:        s.ids.Generate(),
		Name:      in.Name,
		Op:        op,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sets.Upsert(ctx, ps); err != nil {
		return model.ParamSet{}, fmt.Errorf("create param set %q: %w", ps.Name, err)
	}
	s.logger.Debug("param set created", "id", ps.ID, "command", ps.Command())
	return ps, nil
}

// UpdateParamSet validates in and replaces the preset with the given id,
// keeping its id and creation time.
func (s *Service) UpdateParamSet(ctx context.Context, id string, in model.ParamSetInput) (model.ParamSet, error) {
	op, err := in.Operation()
	if err != nil {
		return model.ParamSet{}, err
	}
	now := s.clock.Now()
	ps, err := s.sets.Replace(ctx, id, func(existing model.ParamSet) model.ParamSet {
		return model.ParamSet{
			ID:        existing.ID,
			Name:      in.Name,
			Op:        op,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: now,
		}
	})
	if err != nil {
		return model.ParamSet{}, fmt.Errorf("update param set %q: %w", id, err)
	}
	s.logger.Debug("param set updated", "id", ps.ID, "command", ps.Command())
	return ps, nil
}

// DeleteParamSet removes the preset with the given id; absent ids are a no-op.
func (s *Service) DeleteParamSet(ctx context.Context, id string) error {
	if err := s.sets.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete param set %q: %w", id, err)
	}
	return nil
}

// Lookup finds a preset by id, else by name. When cmd is set only presets of
// that command match. A name shared by several presets is ErrAmbiguousRef.
func (s *Service) Lookup(ctx context.Context, ref string, cmd model.Command) (model.ParamSet, error) {
	all, err := s.ParamSets(ctx, cmd)
	if err != nil {
		return model.ParamSet{}, err
	}
	var byName []model.ParamSet
	for _, ps := range all {
		if ps.ID == ref {
			return ps, nil
		}
		if ps.Name == ref {
			byName = append(byName, ps)
		}
	}
	switch len(byName) {
	case 0:
		return model.ParamSet{}, fmt.Errorf("%w: %s", store.ErrParamSetNotFound, ref)
	case 1:
		return byName[0], nil
	default:
		return model.ParamSet{}, fmt.Errorf("%w: %q matches %d presets, use an id", ErrAmbiguousRef, ref, len(byName))
	}
}

// Plan is a preset resolved against a variable snapshot, ready to invoke.
type Plan struct {
	ParamSet   model.ParamSet
	Resolved   model.Operation
	Args       []string
	Unresolved []string
}

// Plan looks up ref and resolves it against the current variables without
// running anything. A stored preset missing a required field is a
// *model.ValidationError.
func (s *Service) Plan(ctx context.Context, ref string, cmd model.Command) (Plan, error) {
	ps, err := s.Lookup(ctx, ref, cmd)
	if err != nil {
		return Plan{}, err
	}
	if err := model.CheckOperation(ps.Op); err != nil {
		return Plan{}, fmt.Errorf("preset %s: %w", ps.ID, err)
	}
	vars, err := s.vars.List(ctx)
	if err != nil {
		return Plan{}, err
	}
	resolved := resolve.Operation(ps.Op, vars)
	return Plan{
		ParamSet:   ps,
		Resolved:   resolved,
		Args:       invoke.BuildArgs(resolved),
		Unresolved: resolve.Unresolved(resolved),
	}, nil
}

// Run plans ref and invokes it. The error is non-nil only when the preset
// cannot be found, loaded or run as stored; every invocation failure is in
// the Outcome.
func (s *Service) Run(ctx context.Context, ref string, cmd model.Command) (Plan, invoke.Outcome, error) {
	plan, err := s.Plan(ctx, ref, cmd)
	if err != nil {
		return Plan{}, invoke.Outcome{}, err
	}
	if len(plan.Unresolved) > 0 {
		s.logger.Warn("unresolved placeholders", "param_set", plan.ParamSet.ID, "names", plan.Unresolved)
	}
	out := s.invoker.Invoke(ctx, plan.Resolved)
	return plan, out, nil
}
