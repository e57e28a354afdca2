// Package qualitygate implements the repository verification workflow.
//
// A gate runs a fixed sequence of checks with fail-fast semantics: the first
// failing step aborts all subsequent steps and its exit code becomes the
// outcome of the run. Two depths exist:
//
//   - fast: format, lint with auto-fix, tests with a coverage threshold
//   - full: tool-presence check with a one-shot install recovery, format,
//     lint with auto-fix, import check (no fix), static check (no fix),
//     vet, tests with a coverage threshold and an HTML report
//
// The coverage threshold is inclusive: total statement coverage equal to the
// threshold passes, anything below fails.
package qualitygate
