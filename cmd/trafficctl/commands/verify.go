package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utkuyucel/ibbtraffic/internal/qualitygate"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	Full      bool
	Dir       string
	Threshold float64
	CoverDir  string
	Verbose   bool
}

// NewVerifyCommand creates the verify command: it runs the repository quality
// checks and reports each step.
func NewVerifyCommand() *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the repository quality checks",
		Long: `Verify formats the code, runs the linters and the tests, and enforces
the coverage threshold. The full profile additionally checks import order,
runs staticcheck and vet, installs missing tools once, and writes an HTML
coverage report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Full, "full", false, "run the full profile")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", ".", "repository root to check")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", qualitygate.DefaultCoverageThreshold, "minimum total statement coverage in percent")
	cmd.Flags().StringVar(&opts.CoverDir, "cover-dir", "", "directory for coverage artifacts (default <dir>/cover)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print failing step output")

	return cmd
}

func runVerify(out io.Writer, opts *VerifyOptions) error {
	profile := qualitygate.ProfileFast
	if opts.Full {
		profile = qualitygate.ProfileFull
	}

	gate := qualitygate.New(qualitygate.Config{
		Profile:           profile,
		WorkDir:           opts.Dir,
		CoverageThreshold: opts.Threshold,
		CoverDir:          opts.CoverDir,
	}, zap.NewNop())

	report, err := gate.Run(context.Background())
	renderReport(out, report, opts.Verbose)

	var stepErr *qualitygate.StepError
	if errors.As(err, &stepErr) {
		return fmt.Errorf("checks failed at step %q", stepErr.Step)
	}
	if err != nil {
		return err
	}
	if !report.Passed {
		return errors.New("checks failed")
	}

	color.New(color.FgGreen).Fprintf(out, "All checks passed (%s profile)\n", report.Profile)

	return nil
}

// renderReport prints one line per step plus the coverage summary.
func renderReport(out io.Writer, report *qualitygate.Report, verbose bool) {
	if report == nil {
		return
	}

	for _, step := range report.Steps {
		switch step.Status {
		case qualitygate.StatusPassed:
			color.New(color.FgGreen).Fprintf(out, "  ok    %s (%s)\n", step.Name, step.Duration.Round(time.Millisecond))
		case qualitygate.StatusSkipped:
			color.New(color.FgYellow).Fprintf(out, "  skip  %s\n", step.Name)
		default:
			color.New(color.FgRed).Fprintf(out, "  FAIL  %s (exit %d)\n", step.Name, step.ExitCode)
			if verbose && step.Output != "" {
				fmt.Fprintln(out, step.Output)
			}
		}
	}

	if report.Coverage > 0 {
		fmt.Fprintf(out, "  coverage: %.1f%%\n", report.Coverage)
	}
}
