package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/roach88/batchop/internal/config"
	"github.com/roach88/batchop/internal/invoke"
	"github.com/roach88/batchop/internal/model"
	"github.com/roach88/batchop/internal/persist"
	"github.com/roach88/batchop/internal/preset"
	"github.com/roach88/batchop/internal/store"
	"github.com/roach88/batchop/internal/testutil"
)

const testHelperPath = "/opt/helper"

// fakeRunner returns a canned result and records every call.
type fakeRunner struct {
	res   invoke.Result
	err   error
	calls [][]string
}

func (r *fakeRunner) Run(path string, args []string) (invoke.Result, error) {
	r.calls = append(r.calls, args)
	return r.res, r.err
}

// testEnv runs commands against an in-memory document shared across
// invocations, with fixed ids and timestamps.
type testEnv struct {
	t      *testing.T
	mem    *persist.Memory
	runner *fakeRunner
	opts   *RootOptions
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestEnv(t *testing.T, ids ...string) *testEnv {
	t.Helper()
	env := &testEnv{
		t:      t,
		mem:    persist.NewMemory(),
		runner: &fakeRunner{},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	gen := model.NewFixedGenerator(ids...)
	clock := testutil.NewFixedClock(time.Time{})

	env.opts = &RootOptions{
		NewApp: func(ctx context.Context, opts *RootOptions, stderr io.Writer) (*App, error) {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			cfg := config.Default("/home/test")
			cfg.HelperPath = testHelperPath
			repo := store.NewRepository(env.mem, "", logger)
			inv := invoke.New(cfg.HelperPath, env.runner, logger)
			svc := preset.NewService(repo, inv, preset.Options{IDs: gen, Clock: clock, Logger: logger})
			return &App{Config: cfg, Service: svc, Repo: repo, Logger: logger}, nil
		},
	}
	return env
}

// exec runs the root command with args and returns its error. Output
// buffers are reset first.
func (e *testEnv) exec(args ...string) error {
	e.t.Helper()
	e.out.Reset()
	e.errOut.Reset()

	cmd := newRootCommand(e.opts)
	cmd.SetOut(e.out)
	cmd.SetErr(e.errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// mustExec runs args and fails the test on error.
func (e *testEnv) mustExec(args ...string) string {
	e.t.Helper()
	if err := e.exec(args...); err != nil {
		e.t.Fatalf("batchop %v: %v\nstdout:\n%s", args, err, e.out.String())
	}
	return e.out.String()
}
