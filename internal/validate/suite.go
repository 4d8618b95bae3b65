package validate

import (
	"fmt"

	"go.uber.org/zap"

	"docid/internal/registry"
	"docid/internal/scan"
)

// Suite runs a selected set of checks with shared parameters.
type Suite struct {
	CoverageBaseline float64
	// PreviousCoverage is the last recorded coverage value; negative means
	// none is recorded.
	PreviousCoverage float64

	// Blocking names the checks whose failure should fail the gate.
	Blocking map[string]bool

	Log *zap.Logger
}

func (s *Suite) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Run executes the named checks (nil means all) in order.
func (s *Suite) Run(reg *registry.Registry, snap *scan.Snapshot, checks []string) ([]Result, error) {
	if len(checks) == 0 {
		checks = AllChecks
	}

	var results []Result
	for _, name := range checks {
		var r Result
		switch name {
		case CheckFormat:
			r = Format(reg, snap)
		case CheckUniqueness:
			r = Uniqueness(reg, snap)
		case CheckConsistency:
			r = Consistency(reg, snap)
		case CheckCoverage:
			r = Coverage(snap, s.CoverageBaseline, s.PreviousCoverage)
		case CheckReference:
			r = Reference(reg, snap)
		default:
			return nil, fmt.Errorf("unknown check %q (valid: %v)", name, AllChecks)
		}
		s.logger().Debug("check complete",
			zap.String("check", r.CheckName),
			zap.Bool("passed", r.Passed),
			zap.Int("errors", len(r.Errors)),
			zap.Int("warnings", len(r.Warnings)))
		results = append(results, r)
	}
	return results, nil
}

// BlockingFailed reports whether any failed result is a blocking check.
func (s *Suite) BlockingFailed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && s.Blocking[r.CheckName] {
			return true
		}
	}
	return false
}

// AnyFailed reports whether any invoked check failed.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
