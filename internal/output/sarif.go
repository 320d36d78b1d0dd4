package output

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/forgeplan-dev/forgeplan/internal/engine"
	"github.com/forgeplan-dev/forgeplan/internal/version"
)

// SARIFFormatter formats validation findings as SARIF 2.1.0 JSON, one
// result per finding across all dry-resolved combinations.
type SARIFFormatter struct {
	writer   io.Writer
	docPath  string
	reportID string
}

// NewSARIFFormatter creates a new SARIF formatter. docPath locates the
// description document for result locations; reportID tags the run.
func NewSARIFFormatter(w io.Writer, docPath, reportID string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:   w,
		docPath:  docPath,
		reportID: reportID,
	}
}

// Format writes the combination results as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(results []engine.CombinationResult) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("forgeplan", "https://forgeplan.dev")
	toolVersion := version.Get().Version
	run.Tool.Driver.Version = &toolVersion

	f.addRules(run)
	f.addResults(run, results)
	f.addProperties(run, results)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

// Finding rule identifiers.
const (
	ruleUnknownProfile = "unknown-profile"
	ruleCyclicRequires = "cyclic-requires"
	ruleUnknownType    = "unknown-type"
	ruleAmbiguousType  = "ambiguous-type"
	ruleArchFilter     = "arch-filter-syntax"
	rulePlanConsistent = "plan-consistency"
)

var ruleDescriptions = []struct {
	id, name, text string
}{
	{ruleUnknownProfile, "UnknownProfile", "A request or requires edge names an undeclared profile."},
	{ruleCyclicRequires, "CyclicRequires", "The profile requires graph contains a cycle."},
	{ruleUnknownType, "UnknownType", "No active type declaration matches the requested build type."},
	{ruleAmbiguousType, "AmbiguousType", "More than one equally-qualified type declaration matches the requested build type."},
	{ruleArchFilter, "ArchFilterSyntax", "An architecture filter string is malformed."},
	{rulePlanConsistent, "PlanConsistency", "The merged plan violates a structural consistency constraint."},
}

func (f *SARIFFormatter) addRules(run *sarif.Run) {
	for _, rd := range ruleDescriptions {
		text := rd.text
		rule := sarif.NewReportingDescriptor().WithID(rd.id)
		rule.WithName(rd.name)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: &text})
		run.Tool.Driver.AddRule(rule)
	}
}

func (f *SARIFFormatter) addResults(run *sarif.Run, results []engine.CombinationResult) {
	for _, cr := range results {
		if cr.Err == nil {
			for _, w := range planWarnings(cr.Plan) {
				run.AddResult(f.mapFinding(w, cr, "warning"))
			}
			continue
		}

		var vErr *engine.ValidationError
		if errors.As(cr.Err, &vErr) {
			for _, finding := range vErr.Findings {
				level := "error"
				if finding.Severity == engine.SeverityWarning {
					level = "warning"
				}
				run.AddResult(f.mapFinding(finding, cr, level))
			}
			continue
		}

		// Graph-builder failures carry no finding list of their own.
		finding := engine.Finding{
			Severity: engine.SeverityError,
			Section:  "profiles",
			Index:    -1,
			Message:  cr.Err.Error(),
			Err:      cr.Err,
		}
		run.AddResult(f.mapFinding(finding, cr, "error"))
	}
}

func planWarnings(plan *engine.Plan) []engine.Finding {
	if plan == nil {
		return nil
	}
	return plan.Warnings
}

func (f *SARIFFormatter) mapFinding(finding engine.Finding, cr engine.CombinationResult, level string) *sarif.Result {
	result := sarif.NewRuleResult(ruleID(finding))
	result.Level = level
	result.Message = sarif.NewTextMessage(finding.Message)

	if f.docPath != "" {
		uri := filepath.ToSlash(f.docPath)
		result.Locations = []*sarif.Location{
			sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithURI(uri))),
		}
	}

	props := sarif.NewPropertyBag()
	props.Add("section", finding.Section)
	if finding.Profile != "" {
		props.Add("profile", finding.Profile)
	}
	props.Add("declarationIndex", finding.Index)
	props.Add("requestedProfiles", strings.Join(cr.Combination.Profiles, ","))
	props.Add("buildType", string(cr.Combination.BuildType))
	result.WithProperties(props)

	return result
}

// ruleID maps a finding to its rule by the underlying typed error.
func ruleID(finding engine.Finding) string {
	var (
		unknownProfile *engine.UnknownProfileError
		cyclic         *engine.CyclicRequiresError
		unknownType    *engine.UnknownTypeError
		ambiguousType  *engine.AmbiguousTypeError
		archFilter     *engine.ArchFilterError
	)
	switch {
	case errors.As(finding.Err, &unknownProfile):
		return ruleUnknownProfile
	case errors.As(finding.Err, &cyclic):
		return ruleCyclicRequires
	case errors.As(finding.Err, &unknownType):
		return ruleUnknownType
	case errors.As(finding.Err, &ambiguousType):
		return ruleAmbiguousType
	case errors.As(finding.Err, &archFilter):
		return ruleArchFilter
	default:
		return rulePlanConsistent
	}
}

func (f *SARIFFormatter) addProperties(run *sarif.Run, results []engine.CombinationResult) {
	passed, failed := 0, 0
	for _, cr := range results {
		if cr.Err == nil {
			passed++
		} else {
			failed++
		}
	}

	props := sarif.NewPropertyBag()
	props.Add("reportId", f.reportID)
	props.Add("combinations", len(results))
	props.Add("passed", passed)
	props.Add("failed", failed)
	run.WithProperties(props)
}
