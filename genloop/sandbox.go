package genloop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// RunResult holds the result of one sandboxed execution.
type RunResult struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	TimedOut bool          `json:"timed_out"`
	Duration time.Duration `json:"duration"`
}

// Output returns combined stdout and stderr.
func (r RunResult) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// sensitiveEnvPatterns are case-insensitive suffixes for environment
// variables that are excluded from sandboxed runs.
var sensitiveEnvPatterns = []string{
	"_API_KEY",
	"_SECRET",
	"_TOKEN",
	"_PASSWORD",
	"_CREDENTIAL",
}

// safeEnvVars are always included regardless of filtering.
var safeEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"LANG": true, "TERM": true, "TMPDIR": true,
	"PYTHONPATH": true, "VIRTUAL_ENV": true,
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range sensitiveEnvPatterns {
		if strings.HasSuffix(upper, pattern) {
			return true
		}
	}
	return false
}

// filterEnvironment returns the host environment minus sensitive variables.
// Generated code runs with this environment so provider credentials never
// leak into the sandbox.
func filterEnvironment() []string {
	var filtered []string
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := parts[0]
		if safeEnvVars[name] || !isSensitiveEnvVar(name) {
			filtered = append(filtered, env)
		}
	}
	return filtered
}

// Sandbox is a temp-dir scoped execution context for candidate artifacts.
// It is created per validation call and torn down on Close regardless of
// outcome.
type Sandbox struct {
	dir string
}

// NewSandbox creates a sandbox rooted in a fresh temporary directory.
func NewSandbox() (*Sandbox, error) {
	dir, err := os.MkdirTemp("", "gameweaver-sandbox-")
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	return &Sandbox{dir: dir}, nil
}

// Dir returns the sandbox root directory.
func (s *Sandbox) Dir() string { return s.dir }

// WriteArtifact writes source under the sandbox root and returns its path.
func (s *Sandbox) WriteArtifact(name, source string) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return "", fmt.Errorf("sandbox: write artifact: %w", err)
	}
	return path, nil
}

// Run executes argv inside the sandbox with the given stdin and an enforced
// wall-clock timeout. A run that exceeds the timeout is killed (the whole
// process group) and reported with TimedOut set; it is never allowed to hang
// the caller.
func (s *Sandbox) Run(ctx context.Context, argv []string, stdin string, timeout time.Duration) (*RunResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("sandbox: empty command")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = s.dir
	cmd.Env = filterEnvironment()

	// Process group so a timeout kills the artifact and anything it spawned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// The default cancel kills only the direct child. Background processes
	// the artifact spawned inherit the output pipes and would keep Wait
	// blocked past the deadline, so cancellation must take out the whole
	// group, with WaitDelay as the bound on pipe teardown.
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		return os.ErrProcessDone
	}
	cmd.WaitDelay = 2 * time.Second

	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		switch {
		case ctx.Err() != nil:
			result.TimedOut = ctx.Err() == context.DeadlineExceeded
			result.ExitCode = -1
		case errors.Is(err, exec.ErrWaitDelay):
			// The child exited cleanly but something it spawned still
			// holds the output pipes.
			result.ExitCode = cmd.ProcessState.ExitCode()
		default:
			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				return nil, fmt.Errorf("sandbox: %w", err)
			}
			result.ExitCode = exitErr.ExitCode()
		}
	}

	// Reap anything still running in the artifact's process group.
	if cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	return result, nil
}

// Close removes the sandbox directory and everything in it.
func (s *Sandbox) Close() error {
	return os.RemoveAll(s.dir)
}
