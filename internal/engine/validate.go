package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// validatePlan cross-checks the merged result and accumulates all findings
// rather than stopping at the first. mergeFindings carries what the merge
// stages already reported, so redundant checks stay silent when the earlier
// stage has spoken.
func validatePlan(doc *config.Description, activeNames []string, req Request, plan *Plan, mergeFindings []Finding) []Finding {
	var findings []Finding

	// Exactly one type selected. The preferences merger reports selection
	// failures itself; only flag silence.
	if plan.Type.Image == "" && !hasSectionError(mergeFindings, "preferences") {
		findings = append(findings, errorFinding("preferences", "", -1,
			&UnknownTypeError{BuildType: req.BuildType}))
	}

	// Target architecture must be syntactically well-formed.
	if req.Arch == "" || !archNamePattern.MatchString(req.Arch) {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Section:  "request",
			Index:    -1,
			Message:  "target architecture " + quoteArch(req.Arch) + " is not a well-formed architecture name",
		})
	}

	// Every requires reference of an active profile must itself be active.
	// The graph builder guarantees this; the check is a final consistency
	// safeguard on the merged result.
	active := make(map[string]bool, len(activeNames))
	for _, name := range activeNames {
		active[name] = true
	}
	for _, name := range activeNames {
		profile := doc.GetProfile(name)
		if profile == nil {
			continue
		}
		for _, req := range profile.Requires {
			if !active[req] {
				findings = append(findings, warningFinding("profiles", name, -1,
					"required profile %s missing from active set", req))
			}
		}
	}

	// A package must not be scheduled for deletion while marked bootinclude
	// in the image bucket. Warning-class: the downstream builder may still
	// resolve it, but the declaration is contradictory.
	deleted := make(map[string]bool, len(plan.Packages.Delete))
	for _, ref := range plan.Packages.Delete {
		deleted[ref.Name] = true
	}
	for _, ref := range plan.Packages.Image {
		if ref.BootInclude && deleted[ref.Name] {
			findings = append(findings, warningFinding("packages", "", -1,
				"package %s is marked bootinclude but also scheduled for deletion", ref.Name))
		}
	}

	return findings
}

func hasSectionError(findings []Finding, section string) bool {
	for _, f := range findings {
		if f.Section == section && f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func quoteArch(arch string) string {
	return "\"" + arch + "\""
}
