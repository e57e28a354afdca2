package qualitygate

import (
	"fmt"
	"time"
)

// Profile selects the verification depth.
type Profile string

const (
	// ProfileFast runs format, lint and tests.
	ProfileFast Profile = "fast"
	// ProfileFull adds tool recovery, import and static checks, vet and an
	// HTML coverage report.
	ProfileFull Profile = "full"
)

// Step is one external command in the gate sequence.
type Step struct {
	// Name identifies the step in reports.
	Name string

	// Tool is the binary to invoke. The literal "go" resolves to the
	// configured Go binary.
	Tool string

	// Args are the command arguments.
	Args []string

	// InstallPkg is the `go install` target used by the full profile when
	// Tool is missing from PATH. Empty for tools that ship with the
	// toolchain.
	InstallPkg string

	// FailOnOutput marks list-mode checks: the step fails when it prints
	// anything, even with a zero exit code.
	FailOnOutput bool
}

// Status is the outcome of one step.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	ExitCode int           `json:"exit_code"`
	Output   string        `json:"output,omitempty"`
}

// Report is the outcome of a full gate run.
type Report struct {
	Profile  Profile      `json:"profile"`
	Steps    []StepResult `json:"steps"`
	Coverage float64      `json:"coverage"`
	Passed   bool         `json:"passed"`
}

// StepError is returned when a step fails. It carries the failing step's
// exit code so callers can propagate it.
type StepError struct {
	Step     string
	ExitCode int
	Output   string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed with exit code %d", e.Step, e.ExitCode)
}

// fastSteps is the check sequence before the test step in the fast profile.
func fastSteps() []Step {
	return []Step{
		{
			Name:       "format",
			Tool:       "gofumpt",
			Args:       []string{"-w", "."},
			InstallPkg: "mvdan.cc/gofumpt@latest",
		},
		{
			Name:       "lint",
			Tool:       "golangci-lint",
			Args:       []string{"run", "--fix"},
			InstallPkg: "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
		},
	}
}

// fullSteps extends fastSteps with the check-only steps of the full profile.
func fullSteps() []Step {
	steps := fastSteps()
	return append(steps,
		Step{
			Name:         "imports",
			Tool:         "goimports",
			Args:         []string{"-l", "."},
			InstallPkg:   "golang.org/x/tools/cmd/goimports@latest",
			FailOnOutput: true,
		},
		Step{
			Name:       "staticcheck",
			Tool:       "staticcheck",
			Args:       []string{"./..."},
			InstallPkg: "honnef.co/go/tools/cmd/staticcheck@latest",
		},
		Step{
			Name: "vet",
			Tool: "go",
			Args: []string{"vet", "./..."},
		},
	)
}
