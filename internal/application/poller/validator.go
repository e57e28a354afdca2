package poller

import (
	"fmt"
	"regexp"
)

// endpointPattern matches API endpoint names such as TrafficIndex_Sc1_Cont.
var endpointPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Validator validates traffic endpoint configuration
type Validator struct{}

// NewValidator creates a new endpoint validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a list of endpoint names
func (v *Validator) Validate(endpoints []string) error {
	if len(endpoints) == 0 {
		return fmt.Errorf("at least one endpoint is required")
	}

	seen := make(map[string]bool)
	for _, endpoint := range endpoints {
		if err := v.ValidateEndpoint(endpoint); err != nil {
			return err
		}

		if seen[endpoint] {
			return fmt.Errorf("duplicate endpoint: %s", endpoint)
		}
		seen[endpoint] = true
	}

	return nil
}

// ValidateEndpoint validates a single endpoint name
func (v *Validator) ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint name is required")
	}

	if !endpointPattern.MatchString(endpoint) {
		return fmt.Errorf("invalid endpoint name: %s", endpoint)
	}

	return nil
}
