package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// Request selects one resolution of a description.
type Request struct {
	// Profiles to activate. Empty selects the description's import-flagged
	// default profiles.
	Profiles []string
	// BuildType to resolve. Empty selects the primary type declaration.
	BuildType config.BuildType
	// Arch is the target architecture, e.g. x86_64.
	Arch string
}

// Resolve produces the effective build plan for one (profiles, build type,
// architecture) triple. It is a pure function of the immutable description:
// no I/O, no shared state, safe to call concurrently against the same
// document.
//
// Profile graph failures (unknown profile, cyclic requires) abort before any
// merge stage runs. All later stages run to completion and aggregate every
// finding; on any error-severity finding the plan is withheld and a
// ValidationError carrying the full list is returned instead. Success and
// failure are mutually exclusive.
func Resolve(ctx context.Context, doc *config.Description, req Request) (*Plan, error) {
	activeNames, err := resolveActiveProfiles(doc, req.Profiles)
	if err != nil {
		return nil, err
	}

	sections := collectSections(doc, activeNames)

	// The four merge stages operate on disjoint slices of the collected
	// sections, so they run as concurrent tasks joined before validation.
	var (
		prefs        Preferences
		typeSpec     config.TypeSpec
		prefFindings []Finding

		packages    PackageSet
		pkgFindings []Finding

		repositories []Repository

		drivers []string
		strip   StripSet
		users   []UserRef
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		prefs, typeSpec, prefFindings = mergePreferences(sections.preferences, req.BuildType)
		return nil
	})
	g.Go(func() error {
		packages, pkgFindings = assemblePackages(sections.packages, req.Arch)
		return nil
	})
	g.Go(func() error {
		repositories = assembleRepositories(sections.repositories)
		return nil
	})
	g.Go(func() error {
		drivers = collectDrivers(sections.drivers)
		strip = collectStrip(sections.strip)
		users = mergeUsers(sections.users)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &Plan{
		Image:        doc.Image.Name,
		BuildType:    typeSpec.Image,
		Arch:         req.Arch,
		Profiles:     activeNames,
		Preferences:  prefs,
		Type:         typeSpec,
		Packages:     packages,
		Repositories: repositories,
		Drivers:      drivers,
		Strip:        strip,
		Users:        users,
	}

	findings := append(append([]Finding{}, prefFindings...), pkgFindings...)
	findings = append(findings, validatePlan(doc, activeNames, req, plan, findings)...)

	var warnings []Finding
	for _, f := range findings {
		if f.Severity == SeverityError {
			return nil, &ValidationError{Findings: findings}
		}
		warnings = append(warnings, f)
	}
	plan.Warnings = warnings

	return plan, nil
}
