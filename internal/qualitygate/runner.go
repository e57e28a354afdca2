package qualitygate

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Runner executes gate steps as external commands.
type Runner struct {
	workDir string
	goBin   string
	logger  *zap.Logger
}

// NewRunner creates a Runner executing commands in workDir. goBin is the Go
// binary used for steps declaring the "go" tool.
func NewRunner(workDir, goBin string, logger *zap.Logger) *Runner {
	return &Runner{
		workDir: workDir,
		goBin:   goBin,
		logger:  logger,
	}
}

// Run executes one step and reports its result. A non-zero exit code, or any
// output from a FailOnOutput step, marks the step failed.
func (r *Runner) Run(ctx context.Context, step Step) StepResult {
	start := time.Now()

	output, exitCode, err := r.execute(ctx, r.resolveTool(step.Tool), step.Args)
	duration := time.Since(start)

	result := StepResult{
		Name:     step.Name,
		Duration: duration,
		ExitCode: exitCode,
		Output:   output,
	}

	switch {
	case err != nil && exitCode == 0:
		// The command could not be started at all
		result.Status = StatusFailed
		result.ExitCode = 1
		result.Output = err.Error()
	case exitCode != 0:
		result.Status = StatusFailed
	case step.FailOnOutput && strings.TrimSpace(output) != "":
		result.Status = StatusFailed
		result.ExitCode = 1
	default:
		result.Status = StatusPassed
	}

	r.logger.Info("gate step finished",
		zap.String("step", step.Name),
		zap.String("status", string(result.Status)),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", duration))

	return result
}

// execute runs the command and returns its combined output and exit code.
func (r *Runner) execute(ctx context.Context, tool string, args []string) (string, int, error) {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = r.workDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return buf.String(), exitErr.ExitCode(), err
		}
		return buf.String(), 0, err
	}

	return buf.String(), 0, nil
}

// resolveTool maps the literal "go" tool to the configured Go binary.
func (r *Runner) resolveTool(tool string) string {
	if tool == "go" {
		return r.goBin
	}
	return tool
}
