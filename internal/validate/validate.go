// Package validate implements the independent checks run over the registry
// and the inventory snapshot. Each check is a pure function of its inputs
// and returns a Result; composition and blocking policy belong to callers.
package validate

import (
	"fmt"
	"sort"
)

// Check names.
const (
	CheckFormat      = "format"
	CheckUniqueness  = "uniqueness"
	CheckConsistency = "consistency"
	CheckCoverage    = "coverage"
	CheckReference   = "reference"
)

// AllChecks lists every check in execution order.
var AllChecks = []string{
	CheckFormat,
	CheckUniqueness,
	CheckConsistency,
	CheckCoverage,
	CheckReference,
}

// Result is one check's outcome.
type Result struct {
	CheckName string   `json:"check_name"`
	Passed    bool     `json:"passed"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Passed = false
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func newResult(name string) *Result {
	return &Result{CheckName: name, Passed: true}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
