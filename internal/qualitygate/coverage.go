package qualitygate

import (
	"fmt"
	"regexp"
	"strconv"
)

// totalPattern matches the summary line of `go tool cover -func` output,
// e.g. "total:  (statements)  81.4%".
var totalPattern = regexp.MustCompile(`total:\s+\(statements\)\s+([0-9.]+)%`)

// ParseTotalCoverage extracts the total statement coverage percentage from
// `go tool cover -func` output.
func ParseTotalCoverage(output string) (float64, error) {
	match := totalPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("no total coverage line in output")
	}

	total, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing coverage value %q: %w", match[1], err)
	}

	return total, nil
}

// MeetsThreshold reports whether total coverage satisfies the threshold.
// The comparison is inclusive: a total equal to the threshold passes.
func MeetsThreshold(total, threshold float64) bool {
	return total >= threshold
}
