package qualitygate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultCoverageThreshold is the minimum total statement coverage.
const DefaultCoverageThreshold = 80.0

// Config configures a gate run.
type Config struct {
	// Profile selects fast or full verification depth.
	Profile Profile

	// WorkDir is the repository root the checks run in. Defaults to the
	// current directory.
	WorkDir string

	// CoverageThreshold is the minimum total statement coverage in percent.
	// Zero means DefaultCoverageThreshold.
	CoverageThreshold float64

	// CoverDir receives the coverage profile and, in the full profile, the
	// HTML report. Defaults to <WorkDir>/cover.
	CoverDir string

	// GoBin is the Go binary used for vet, tests and tool installation.
	// Defaults to "go".
	GoBin string
}

// Gate runs the verification workflow.
type Gate struct {
	cfg    Config
	runner *Runner
	logger *zap.Logger
}

// New creates a Gate, applying config defaults.
func New(cfg Config, logger *zap.Logger) *Gate {
	if cfg.Profile == "" {
		cfg.Profile = ProfileFast
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.CoverageThreshold == 0 {
		cfg.CoverageThreshold = DefaultCoverageThreshold
	}
	if cfg.CoverDir == "" {
		cfg.CoverDir = filepath.Join(cfg.WorkDir, "cover")
	}
	if cfg.GoBin == "" {
		cfg.GoBin = "go"
	}

	return &Gate{
		cfg:    cfg,
		runner: NewRunner(cfg.WorkDir, cfg.GoBin, logger),
		logger: logger,
	}
}

// Run executes the configured sequence with fail-fast semantics. The report
// always lists every step; steps after the first failure are skipped. A
// failed run returns a *StepError alongside the report.
func (g *Gate) Run(ctx context.Context) (*Report, error) {
	report := &Report{Profile: g.cfg.Profile, Passed: true}

	steps := fastSteps()
	if g.cfg.Profile == ProfileFull {
		steps = fullSteps()

		if err := g.ensureTools(ctx, steps); err != nil {
			report.Passed = false
			return report, err
		}
	}

	for i, step := range steps {
		result := g.runner.Run(ctx, step)
		report.Steps = append(report.Steps, result)

		if result.Status == StatusFailed {
			g.skipRemaining(report, steps[i+1:])
			report.Steps = append(report.Steps, StepResult{Name: "test", Status: StatusSkipped})
			report.Passed = false
			return report, &StepError{Step: step.Name, ExitCode: result.ExitCode, Output: result.Output}
		}
	}

	result, coverage := g.runCoverage(ctx)
	report.Steps = append(report.Steps, result)
	report.Coverage = coverage

	if result.Status == StatusFailed {
		report.Passed = false
		return report, &StepError{Step: result.Name, ExitCode: result.ExitCode, Output: result.Output}
	}

	return report, nil
}

// skipRemaining marks all steps after a failure as skipped.
func (g *Gate) skipRemaining(report *Report, remaining []Step) {
	for _, step := range remaining {
		report.Steps = append(report.Steps, StepResult{Name: step.Name, Status: StatusSkipped})
	}
}

// ensureTools verifies every step's tool is on PATH and attempts a single
// install pass for missing ones. An install failure aborts the run.
func (g *Gate) ensureTools(ctx context.Context, steps []Step) error {
	var missing []Step
	for _, step := range steps {
		if step.Tool == "go" {
			continue
		}
		if _, err := exec.LookPath(step.Tool); err != nil {
			missing = append(missing, step)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	names := make([]string, len(missing))
	for i, step := range missing {
		names[i] = step.Tool
	}
	g.logger.Warn("missing tools, installing once", zap.Strings("tools", names))

	for _, step := range missing {
		if step.InstallPkg == "" {
			return fmt.Errorf("tool %s is missing and has no install package", step.Tool)
		}

		cmd := exec.CommandContext(ctx, g.cfg.GoBin, "install", step.InstallPkg)
		cmd.Dir = g.cfg.WorkDir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("installing %s: %w: %s", step.Tool, err, strings.TrimSpace(string(out)))
		}
	}

	// Re-check once; a tool still missing after install is fatal.
	for _, step := range missing {
		if _, err := exec.LookPath(step.Tool); err != nil {
			return fmt.Errorf("tool %s still missing after install", step.Tool)
		}
	}

	return nil
}

// runCoverage runs the test suite with a coverage profile and enforces the
// threshold. In the full profile it also renders an HTML report.
func (g *Gate) runCoverage(ctx context.Context) (StepResult, float64) {
	start := time.Now()

	result := StepResult{Name: "test", Status: StatusFailed, ExitCode: 1}

	if err := os.MkdirAll(g.cfg.CoverDir, 0o755); err != nil {
		result.Output = fmt.Sprintf("creating coverage directory: %v", err)
		result.Duration = time.Since(start)
		return result, 0
	}
	profile := filepath.Join(g.cfg.CoverDir, "coverage.out")

	testResult := g.runner.Run(ctx, Step{
		Name: "test",
		Tool: "go",
		Args: []string{"test", "./...", "-coverprofile=" + profile, "-covermode=atomic"},
	})
	if testResult.Status == StatusFailed {
		testResult.Duration = time.Since(start)
		return testResult, 0
	}

	funcResult := g.runner.Run(ctx, Step{
		Name: "test",
		Tool: "go",
		Args: []string{"tool", "cover", "-func=" + profile},
	})
	if funcResult.Status == StatusFailed {
		funcResult.Duration = time.Since(start)
		return funcResult, 0
	}

	coverage, err := ParseTotalCoverage(funcResult.Output)
	if err != nil {
		result.Output = fmt.Sprintf("reading coverage report: %v", err)
		result.Duration = time.Since(start)
		return result, 0
	}

	if !MeetsThreshold(coverage, g.cfg.CoverageThreshold) {
		result.Output = fmt.Sprintf("coverage %.1f%% is below the required %.1f%%",
			coverage, g.cfg.CoverageThreshold)
		result.Duration = time.Since(start)
		return result, coverage
	}

	if g.cfg.Profile == ProfileFull {
		htmlResult := g.runner.Run(ctx, Step{
			Name: "test",
			Tool: "go",
			Args: []string{"tool", "cover", "-html=" + profile, "-o", filepath.Join(g.cfg.CoverDir, "coverage.html")},
		})
		if htmlResult.Status == StatusFailed {
			htmlResult.Duration = time.Since(start)
			return htmlResult, coverage
		}
	}

	return StepResult{
		Name:     "test",
		Status:   StatusPassed,
		Duration: time.Since(start),
		Output:   fmt.Sprintf("coverage %.1f%%", coverage),
	}, coverage
}
