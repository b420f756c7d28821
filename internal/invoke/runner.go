package invoke

import (
	"errors"
	"os/exec"
	"sync"
	"syscall"
)

// DefaultMaxOutput caps each of stdout and stderr at 8 MiB.
const DefaultMaxOutput int64 = 8 << 20

// Result is the captured outcome of one process run.
type Result struct {
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	// Signal names the signal that terminated the process, if any.
	Signal    string
	Truncated bool
}

// Runner starts an executable with an argument vector and waits for it.
//
// A non-nil error means the process could not be started (or its output
// could not be collected). A process that ran and exited non-zero is not an
// error: its code is in Result.ExitCode.
type Runner interface {
	Run(path string, args []string) (Result, error)
}

// ExecRunner runs processes on the local host via os/exec. Arguments are
// passed straight to process creation; no shell is involved. Stdin is the
// null device.
type ExecRunner struct {
	// Env replaces the process environment when non-nil.
	Env []string
	// MaxOutput caps each captured stream. Zero selects DefaultMaxOutput.
	MaxOutput int64
}

func (r ExecRunner) Run(path string, args []string) (Result, error) {
	limit := r.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}
	stdout := &cappedBuffer{max: limit}
	stderr := &cappedBuffer{max: limit}

	cmd := exec.Command(path, args...)
	cmd.Env = r.Env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return Result{}, err
	}
	err := cmd.Wait()

	res := Result{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.Signal = ws.Signal().String()
		}
		return res, nil
	}
	return res, err
}

// cappedBuffer keeps the first max bytes written and discards the rest while
// still reporting full writes, so the child never blocks on a full pipe.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	max       int64
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room := b.max - int64(len(b.buf))
	switch {
	case room <= 0:
		if len(p) > 0 {
			b.truncated = true
		}
	case int64(len(p)) > room:
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
	default:
		b.buf = append(b.buf, p...)
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}

func (b *cappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
