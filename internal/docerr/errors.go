// Package docerr defines the error taxonomy shared across the engine.
//
// Local errors (FormatError, MalformedContainerError) are recorded per file
// and never abort a batch. Conflict and consistency errors are surfaced for
// explicit human resolution. SystemError is fatal for the current operation;
// because all persistence is atomic, previously written state is untouched.
package docerr

import (
	"errors"
	"fmt"
)

// FormatError reports a malformed identifier or an identifier whose category
// is not registered.
type FormatError struct {
	Path       string
	Identifier string
	Reason     string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("format: %s: %q: %s", e.Path, e.Identifier, e.Reason)
	}
	return fmt.Sprintf("format: %q: %s", e.Identifier, e.Reason)
}

// MalformedContainerError reports content that cannot be parsed in its
// expected structural form (e.g. an unterminated frontmatter block).
// Injection fails with this error rather than guessing.
type MalformedContainerError struct {
	Path   string
	Kind   string
	Reason string
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("malformed %s container: %s: %s", e.Kind, e.Path, e.Reason)
}

// UniquenessConflict reports one identifier claimed by more than one file, or
// by a file and a conflicting registry entry. Never auto-resolved.
type UniquenessConflict struct {
	Identifier string
	Paths      []string
}

func (e *UniquenessConflict) Error() string {
	return fmt.Sprintf("uniqueness conflict: %s claimed by %v", e.Identifier, e.Paths)
}

// CategoryError reports a mint request against an unknown category. Fatal for
// that request only; categories must be registered before use.
type CategoryError struct {
	Category string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown category %q (categories must be pre-registered)", e.Category)
}

// ConsistencyError reports a registry/inventory mismatch found by the
// synchronizer or the consistency check. Reported, never auto-fixed.
type ConsistencyError struct {
	Identifier string
	Registry   string // path the registry believes
	Inventory  string // path the scan found, empty if the file is missing
}

func (e *ConsistencyError) Error() string {
	if e.Inventory == "" {
		return fmt.Sprintf("consistency: %s: registry stale, file missing (%s)", e.Identifier, e.Registry)
	}
	return fmt.Sprintf("consistency: %s: file moved, registry stale (%s -> %s)", e.Identifier, e.Registry, e.Inventory)
}

// CoverageRegression reports coverage below the baseline or below the last
// recorded value. Advisory unless configured as blocking.
type CoverageRegression struct {
	Coverage float64
	Baseline float64
	Previous float64
}

func (e *CoverageRegression) Error() string {
	if e.Coverage < e.Baseline {
		return fmt.Sprintf("coverage %.3f below baseline %.3f", e.Coverage, e.Baseline)
	}
	return fmt.Sprintf("coverage regressed: %.3f (was %.3f)", e.Coverage, e.Previous)
}

// ReferenceError reports a cross-file reference to an identifier that does
// not resolve to an existing, non-deprecated entry.
type ReferenceError struct {
	Identifier string
	Path       string
	Reason     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference: %s in %s: %s", e.Identifier, e.Path, e.Reason)
}

// SystemError wraps lock timeouts, permission failures, and disk errors.
// Fatal for the current operation; maps to CLI exit code 2.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system: %s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsSystem reports whether err is (or wraps) a SystemError.
func IsSystem(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// System wraps err as a SystemError unless it already is one.
func System(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *SystemError
	if errors.As(err, &se) {
		return err
	}
	return &SystemError{Op: op, Err: err}
}
