// Package engine implements profile-aware resolution of appliance
// descriptions into effective build plans.
package engine

import (
	"fmt"
	"strings"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// UnknownProfileError reports a request or requires edge naming an
// undeclared profile. Resolution aborts before any merge stage runs.
type UnknownProfileError struct {
	Name         string
	ReferencedBy string // "request" or the requiring profile name
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown profile %q (referenced by %s)", e.Name, e.ReferencedBy)
}

// CyclicRequiresError reports a cycle in the profile requires graph.
// Chain holds the profile names along the cycle, ending where it closes.
type CyclicRequiresError struct {
	Chain []string
}

func (e *CyclicRequiresError) Error() string {
	return fmt.Sprintf("cyclic profile requires: %s", strings.Join(e.Chain, " -> "))
}

// UnknownTypeError reports that no active type declaration matches the
// requested build type.
type UnknownTypeError struct {
	BuildType config.BuildType
	Declared  []string // active type identity keys, for context
}

func (e *UnknownTypeError) Error() string {
	if len(e.Declared) == 0 {
		return fmt.Sprintf("no type declaration matches build type %q (no types active)", e.BuildType)
	}
	return fmt.Sprintf("no type declaration matches build type %q (active: %s)", e.BuildType, strings.Join(e.Declared, ", "))
}

// AmbiguousTypeError reports that more than one equally-qualified type
// declaration matches the requested build type.
type AmbiguousTypeError struct {
	BuildType  config.BuildType
	Candidates []string // conflicting type identity keys
}

func (e *AmbiguousTypeError) Error() string {
	return fmt.Sprintf("ambiguous type selection for build type %q: candidates %s", e.BuildType, strings.Join(e.Candidates, ", "))
}

// ArchFilterError reports a malformed architecture filter string.
type ArchFilterError struct {
	Filter string
	Reason string
}

func (e *ArchFilterError) Error() string {
	return fmt.Sprintf("invalid architecture filter %q: %s", e.Filter, e.Reason)
}

// Severity classifies a validation finding.
type Severity string

// Finding severities. Error findings fail the resolution; warnings are
// reported alongside the plan.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one violation discovered during merging or plan validation.
// Section, Profile, and Index locate the offending fragment in the source
// document; Index is -1 when no single declaration is responsible.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Section  string   `json:"section" yaml:"section"`
	Profile  string   `json:"profile,omitempty" yaml:"profile,omitempty"`
	Index    int      `json:"index" yaml:"index"`
	Message  string   `json:"message" yaml:"message"`

	// Err carries the underlying typed error when one exists, so callers
	// can match with errors.As through the aggregate.
	Err error `json:"-" yaml:"-"`
}

func (f Finding) String() string {
	loc := f.Section
	if f.Profile != "" {
		loc += "/" + f.Profile
	}
	if f.Index >= 0 {
		loc += fmt.Sprintf("[%d]", f.Index)
	}
	return fmt.Sprintf("%s: %s: %s", f.Severity, loc, f.Message)
}

// errorFinding builds an error-severity finding from a typed error.
func errorFinding(section, profile string, index int, err error) Finding {
	return Finding{
		Severity: SeverityError,
		Section:  section,
		Profile:  profile,
		Index:    index,
		Message:  err.Error(),
		Err:      err,
	}
}

// warningFinding builds a warning-severity finding.
func warningFinding(section, profile string, index int, format string, args ...interface{}) Finding {
	return Finding{
		Severity: SeverityWarning,
		Section:  section,
		Profile:  profile,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	}
}

// ValidationError aggregates every finding of a failed resolution.
// It is returned instead of a plan whenever at least one error-severity
// finding exists; success and failure are mutually exclusive.
type ValidationError struct {
	Findings []Finding
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		msgs = append(msgs, f.String())
	}
	return fmt.Sprintf("resolution failed with %d finding(s):\n  - %s", len(e.Findings), strings.Join(msgs, "\n  - "))
}

// Unwrap exposes the underlying typed errors for errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, f := range e.Findings {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Errors returns only the error-severity findings.
func (e *ValidationError) Errors() []Finding {
	var out []Finding
	for _, f := range e.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the warning-severity findings.
func (e *ValidationError) Warnings() []Finding {
	var out []Finding
	for _, f := range e.Findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}
