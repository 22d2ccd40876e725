// Package executor runs accepted commands on the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// LocalExecutor runs commands on the host shell. Output is streamed to the
// configured writers and captured in the result.
type LocalExecutor struct {
	shell  string
	goos   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option customizes a LocalExecutor.
type Option func(*LocalExecutor)

// WithStreams attaches the process streams; nil writers discard output.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *LocalExecutor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// NewLocalExecutor builds a new executor. "auto" or an empty shell picks
// $SHELL, then /bin/sh; on Windows it picks cmd.
func NewLocalExecutor(shell string, opts ...Option) *LocalExecutor {
	e := &LocalExecutor{goos: runtime.GOOS}
	for _, opt := range opts {
		opt(e)
	}
	e.shell = resolveShell(shell, e.goos)
	return e
}

func resolveShell(shell, goos string) string {
	if shell != "" && shell != "auto" {
		return shell
	}
	if goos == "windows" {
		return "cmd"
	}
	if env := os.Getenv("SHELL"); env != "" {
		return env
	}
	return "/bin/sh"
}

// Shell returns the resolved shell binary.
func (e *LocalExecutor) Shell() string {
	return e.shell
}

// Execute implements ports.CommandExecutor. A non-zero exit status is
// reported both in the result and as the returned error.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	if strings.TrimSpace(command) == "" {
		return domain.ExecutionResult{}, errors.New("execute: empty command")
	}

	c := exec.CommandContext(ctx, e.shell, shellArgs(e.shell, command)...)
	var stdout, stderr bytes.Buffer
	c.Stdin = e.stdin
	c.Stdout = tee(&stdout, e.stdout)
	c.Stderr = tee(&stderr, e.stderr)

	start := time.Now()
	err := c.Run()

	result := domain.ExecutionResult{
		Ran:        true,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		return result, fmt.Errorf("command exited with status %d: %w", result.ExitCode, err)
	}
	if err != nil {
		result.Ran = false
		result.Err = err
		return result, fmt.Errorf("run %s: %w", e.shell, err)
	}
	return result, nil
}

func shellArgs(shell, command string) []string {
	name := shell
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	switch strings.ToLower(strings.TrimSuffix(name, ".exe")) {
	case "cmd":
		return []string{"/C", command}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command", command}
	default:
		return []string{"-c", command}
	}
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
