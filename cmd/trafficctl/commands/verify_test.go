package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/utkuyucel/ibbtraffic/internal/qualitygate"
)

func TestRenderReport_StepLines(t *testing.T) {
	t.Parallel()

	report := &qualitygate.Report{
		Profile: qualitygate.ProfileFull,
		Steps: []qualitygate.StepResult{
			{Name: "format", Status: qualitygate.StatusPassed, Duration: 120 * time.Millisecond},
			{Name: "lint", Status: qualitygate.StatusFailed, ExitCode: 1, Output: "pkg/foo.go:1: unused"},
			{Name: "test", Status: qualitygate.StatusSkipped},
		},
		Coverage: 84.2,
	}

	var out bytes.Buffer
	renderReport(&out, report, false)

	assert.Contains(t, out.String(), "ok    format")
	assert.Contains(t, out.String(), "FAIL  lint (exit 1)")
	assert.Contains(t, out.String(), "skip  test")
	assert.Contains(t, out.String(), "coverage: 84.2%")
	assert.NotContains(t, out.String(), "unused")
}

func TestRenderReport_VerbosePrintsFailureOutput(t *testing.T) {
	t.Parallel()

	report := &qualitygate.Report{
		Profile: qualitygate.ProfileFast,
		Steps: []qualitygate.StepResult{
			{Name: "lint", Status: qualitygate.StatusFailed, ExitCode: 1, Output: "pkg/foo.go:1: unused"},
		},
	}

	var out bytes.Buffer
	renderReport(&out, report, true)

	assert.Contains(t, out.String(), "pkg/foo.go:1: unused")
}

func TestNewVerifyCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := NewVerifyCommand()

	assert.NotNil(t, cmd.Flags().Lookup("full"))
	assert.NotNil(t, cmd.Flags().Lookup("threshold"))
	assert.NotNil(t, cmd.Flags().Lookup("cover-dir"))
	assert.Equal(t, "80", cmd.Flags().Lookup("threshold").DefValue)
}
