package qualitygate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	return NewRunner(t.TempDir(), "go", zap.NewNop())
}

func TestRun_SuccessfulStep(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t)
	result := runner.Run(context.Background(), Step{
		Name: "echo",
		Tool: "sh",
		Args: []string{"-c", "echo ok"},
	})

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "ok")
}

func TestRun_FailingStepKeepsExitCode(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t)
	result := runner.Run(context.Background(), Step{
		Name: "fail",
		Tool: "sh",
		Args: []string{"-c", "echo broken >&2; exit 3"},
	})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Output, "broken")
}

func TestRun_FailOnOutput(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t)

	// Zero exit code but diagnostic output fails a list-mode step.
	result := runner.Run(context.Background(), Step{
		Name:         "imports",
		Tool:         "sh",
		Args:         []string{"-c", "echo main.go"},
		FailOnOutput: true,
	})
	assert.Equal(t, StatusFailed, result.Status)

	// No output passes.
	result = runner.Run(context.Background(), Step{
		Name:         "imports",
		Tool:         "sh",
		Args:         []string{"-c", "true"},
		FailOnOutput: true,
	})
	assert.Equal(t, StatusPassed, result.Status)
}

func TestRun_MissingToolFails(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t)
	result := runner.Run(context.Background(), Step{
		Name: "absent",
		Tool: "definitely-not-a-real-tool-xyz",
	})

	assert.Equal(t, StatusFailed, result.Status)
	assert.NotEmpty(t, result.Output)
}

func TestRun_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runner := newTestRunner(t)
	result := runner.Run(ctx, Step{
		Name: "sleep",
		Tool: "sh",
		Args: []string{"-c", "sleep 5"},
	})

	assert.Equal(t, StatusFailed, result.Status)
}
