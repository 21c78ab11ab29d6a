package genloop

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Validator determines whether a generated artifact is usable. All faults,
// including those raised by the artifact itself, are converted into a
// ValidationOutcome; nothing escapes the call.
type Validator interface {
	Validate(ctx context.Context, source string) ValidationOutcome
}

// ValidatorConfig configures the PythonValidator.
type ValidatorConfig struct {
	// Interpreter is the Python executable. Default "python3".
	Interpreter string

	// CompileTimeout bounds the static parse stage. Default 10s.
	CompileTimeout time.Duration

	// SmokeTimeout bounds the dynamic smoke run. Default 8s.
	SmokeTimeout time.Duration

	// SmokeInput is written to the artifact's stdin to simulate minimal
	// interaction. Default is a handful of newlines followed by "q".
	SmokeInput string

	// TimeoutIsSuccess treats a fault-free smoke run that hits the timeout
	// as Success. Long-running interactive games never exit on their own,
	// so surviving the whole window without a fault is a pass for them.
	// Default false: a timeout classifies as RuntimeError.
	TimeoutIsSuccess bool
}

// ApplyDefaults sets default values for unset fields.
func (c *ValidatorConfig) ApplyDefaults() {
	if c.Interpreter == "" {
		c.Interpreter = "python3"
	}
	if c.CompileTimeout <= 0 {
		c.CompileTimeout = 10 * time.Second
	}
	if c.SmokeTimeout <= 0 {
		c.SmokeTimeout = 8 * time.Second
	}
	if c.SmokeInput == "" {
		c.SmokeInput = "\n\n\n\n\nq\n"
	}
}

// PythonValidator validates generated Python artifacts in two stages: a
// static parse via py_compile, then a sandboxed smoke run with simulated
// input. Running unparseable text is meaningless, so a syntax failure skips
// the smoke stage.
type PythonValidator struct {
	cfg    ValidatorConfig
	logger *zap.Logger
}

// NewPythonValidator creates a PythonValidator.
func NewPythonValidator(cfg ValidatorConfig, logger *zap.Logger) *PythonValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	return &PythonValidator{cfg: cfg, logger: logger}
}

// artifactName is the filename the candidate source is written under.
const artifactName = "artifact.py"

// Validate classifies the artifact. The sandbox is torn down before
// returning regardless of outcome.
func (v *PythonValidator) Validate(ctx context.Context, source string) ValidationOutcome {
	sandbox, err := NewSandbox()
	if err != nil {
		return RuntimeErrorOutcome("sandbox setup failed: "+err.Error(), "")
	}
	defer sandbox.Close()

	path, err := sandbox.WriteArtifact(artifactName, source)
	if err != nil {
		return RuntimeErrorOutcome("sandbox setup failed: "+err.Error(), "")
	}

	// Stage 1: static parse.
	res, err := sandbox.Run(ctx, []string{v.cfg.Interpreter, "-m", "py_compile", path}, "", v.cfg.CompileTimeout)
	if err != nil {
		return RuntimeErrorOutcome("static check failed to run: "+err.Error(), "")
	}
	if res.TimedOut {
		return RuntimeErrorOutcome("static check timed out after "+v.cfg.CompileTimeout.String(), "")
	}
	if res.ExitCode != 0 {
		msg, line := parseSyntaxError(res.Stderr)
		v.logger.Debug("artifact failed static check",
			zap.String("message", msg),
			zap.Int("line", line),
		)
		return SyntaxErrorOutcome(msg, line)
	}

	// Stage 2: dynamic smoke run.
	res, err = sandbox.Run(ctx, []string{v.cfg.Interpreter, path}, v.cfg.SmokeInput, v.cfg.SmokeTimeout)
	if err != nil {
		return RuntimeErrorOutcome("smoke run failed to start: "+err.Error(), "")
	}
	if res.TimedOut {
		if v.cfg.TimeoutIsSuccess {
			v.logger.Debug("smoke run hit timeout without fault, treating as success")
			return SuccessOutcome()
		}
		return RuntimeErrorOutcome("smoke run exceeded "+v.cfg.SmokeTimeout.String(), "")
	}
	if res.ExitCode != 0 {
		msg := lastStderrLine(res.Stderr)
		if msg == "" {
			msg = "artifact exited with code " + strconv.Itoa(res.ExitCode)
		}
		v.logger.Debug("artifact failed smoke run",
			zap.Int("exit_code", res.ExitCode),
			zap.String("message", msg),
		)
		return RuntimeErrorOutcome(msg, strings.TrimSpace(res.Stderr))
	}

	return SuccessOutcome()
}

// syntaxLineRe matches the position line of a CPython syntax report:
//
//	File "/tmp/.../artifact.py", line 3
var syntaxLineRe = regexp.MustCompile(`File "[^"]+", line (\d+)`)

// parseSyntaxError extracts the message and line number from py_compile
// stderr. The last non-empty line carries the classification, e.g.
// "SyntaxError: invalid syntax".
func parseSyntaxError(stderr string) (string, int) {
	msg := lastStderrLine(stderr)
	if msg == "" {
		msg = "syntax error"
	}

	line := 0
	if m := syntaxLineRe.FindStringSubmatch(stderr); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			line = n
		}
	}
	return msg, line
}

// lastStderrLine returns the last non-empty line of stderr, which for a
// Python traceback is the exception type and message.
func lastStderrLine(stderr string) string {
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
