// Package invoke turns a resolved operation into an argument vector, runs
// the helper executable and classifies the result.
//
// Every invocation ends in an Outcome; failures are data, never errors.
// An invocation is Idle, then Running, then Success or Failure. There is no
// retry and no state carried between invocations.
package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/batchop/internal/model"
)

// Outcome messages.
const (
	MessageSuccess     = "Command executed successfully"
	MessageFailed      = "Command failed"
	MessageSpawnFailed = "Command execution failed"
	MessageDetached    = "Command detached"
)

// Outcome is the structured result of one invocation.
type Outcome struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// BuildArgs returns the argument vector for op:
//
//	<command> --from <from> --to <to> [--skip-exist] [--json-path <path>]
func BuildArgs(op model.Operation) []string {
	args := []string{
		string(op.Kind()),
		"--from", op.Source(),
		"--to", op.Target(),
	}
	if op.SkipsExisting() {
		args = append(args, "--skip-exist")
	}
	if o, ok := op.(model.ModifyJSONOp); ok {
		args = append(args, "--json-path", o.JSONPath)
	}
	return args
}

// Classify maps a run result (or spawn error) to an Outcome.
func Classify(res Result, spawnErr error) Outcome {
	if spawnErr != nil {
		return Outcome{Success: false, Message: MessageSpawnFailed, Error: spawnErr.Error()}
	}
	if res.ExitCode != 0 || res.Signal != "" || len(res.Stderr) > 0 {
		msg := string(res.Stderr)
		switch {
		case msg != "":
		case res.Signal != "":
			msg = "Process terminated by signal: " + res.Signal
		default:
			msg = fmt.Sprintf("Process exited with code %d", res.ExitCode)
		}
		return Outcome{Success: false, Message: MessageFailed, Error: msg, Truncated: res.Truncated}
	}
	return Outcome{Success: true, Message: MessageSuccess, Output: string(res.Stdout), Truncated: res.Truncated}
}

// Invoker runs the helper executable at a fixed path.
type Invoker struct {
	path   string
	runner Runner
	logger *slog.Logger
}

// New returns an invoker for the executable at path. A nil runner selects
// ExecRunner{}; a nil logger selects slog.Default().
func New(path string, runner Runner, logger *slog.Logger) *Invoker {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{path: path, runner: runner, logger: logger}
}

// Path returns the executable path.
func (i *Invoker) Path() string { return i.path }

// Invoke runs op, which must already be resolved, and blocks until the
// process exits.
//
// Cancelling ctx does not kill the process. Invoke stops waiting, returns a
// MessageDetached outcome and lets the process run to completion on its own.
// A ctx that is already done prevents the spawn.
func (i *Invoker) Invoke(ctx context.Context, op model.Operation) Outcome {
	args := BuildArgs(op)
	log := i.logger.With("command", op.Kind(), "path", i.path)

	if err := ctx.Err(); err != nil {
		log.Debug("invocation not started", "error", err)
		return Outcome{Success: false, Message: MessageDetached, Error: err.Error()}
	}

	type runResult struct {
		res Result
		err error
	}
	done := make(chan runResult, 1)
	start := time.Now()
	log.Debug("invoking helper", "args", args)

	go func() {
		res, err := i.runner.Run(i.path, args)
		done <- runResult{res: res, err: err}
	}()

	select {
	case r := <-done:
		out := Classify(r.res, r.err)
		log.Info("invocation finished",
			"success", out.Success,
			"exit_code", r.res.ExitCode,
			"duration", time.Since(start),
		)
		if out.Truncated {
			log.Warn("helper output truncated")
		}
		return out
	case <-ctx.Done():
		log.Warn("detached from running helper", "error", ctx.Err())
		return Outcome{Success: false, Message: MessageDetached, Error: ctx.Err().Error()}
	}
}
