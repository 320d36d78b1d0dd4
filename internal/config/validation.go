package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Profile names must be alphanumeric with dashes and underscores
var profileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validate performs structural validation of a description.
// Returns an error describing all validation failures found.
// Grammar-level checks live in the JSON Schema; this covers cross-references
// the schema cannot express.
func Validate(doc *Description) error {
	var errors []string

	if err := validateImage(doc.Image); err != nil {
		errors = append(errors, err.Error())
	}

	if err := validateProfiles(doc.Profiles); err != nil {
		errors = append(errors, err.Error())
	}

	if err := validateScopeReferences(doc); err != nil {
		errors = append(errors, err.Error())
	}

	if err := validateRepositories(doc.Repositories); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("description validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// validateImage validates document-level metadata.
func validateImage(meta ImageMeta) error {
	var errors []string

	if meta.Name == "" {
		errors = append(errors, "image name is required")
	}

	if meta.SchemaVersion == "" {
		errors = append(errors, "image schemaversion is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("image metadata: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateProfiles checks profile declarations for duplicates, naming, and
// dangling requires references. Cycle detection belongs to the engine, which
// reports it with full chain context.
func validateProfiles(profiles []Profile) error {
	declared := make(map[string]bool)

	var errors []string

	for i, p := range profiles {
		if p.Name == "" {
			errors = append(errors, fmt.Sprintf("profile %d: name is required", i))
			continue
		}
		if !profileNamePattern.MatchString(p.Name) {
			errors = append(errors, fmt.Sprintf("profile name %q is invalid (must be alphanumeric with dashes/underscores)", p.Name))
		}
		if declared[p.Name] {
			errors = append(errors, fmt.Sprintf("duplicate profile name: %s", p.Name))
		}
		declared[p.Name] = true
	}

	for _, p := range profiles {
		for _, req := range p.Requires {
			if !declared[req] {
				errors = append(errors, fmt.Sprintf("profile %s requires undeclared profile %s", p.Name, req))
			}
			if req == p.Name {
				errors = append(errors, fmt.Sprintf("profile %s requires itself", p.Name))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("profiles validation:\n    - %s", strings.Join(errors, "\n    - "))
	}

	return nil
}

// validateScopeReferences checks that every scoped section names declared profiles.
func validateScopeReferences(doc *Description) error {
	declared := make(map[string]bool)
	for _, p := range doc.Profiles {
		declared[p.Name] = true
	}

	var errors []string

	check := func(kind string, index int, scope Scope) {
		for _, name := range scope.Profiles {
			if !declared[name] {
				errors = append(errors, fmt.Sprintf("%s section %d references undeclared profile %s", kind, index, name))
			}
		}
	}

	for i, s := range doc.Preferences {
		check("preferences", i, s.Scope)
	}
	for i, s := range doc.Packages {
		check("packages", i, s.Scope)
	}
	for i, s := range doc.Repositories {
		check("repository", i, s.Scope)
	}
	for i, s := range doc.Users {
		check("users", i, s.Scope)
	}
	for i, s := range doc.Drivers {
		check("drivers", i, s.Scope)
	}
	for i, s := range doc.Strip {
		check("strip", i, s.Scope)
	}

	if len(errors) > 0 {
		return fmt.Errorf("scope validation:\n    - %s", strings.Join(errors, "\n    - "))
	}

	return nil
}

// validateRepositories checks repository declarations for duplicate aliases.
func validateRepositories(repos []RepositoryEntry) error {
	aliases := make(map[string]bool)

	var errors []string

	for i, r := range repos {
		if r.Path == "" {
			errors = append(errors, fmt.Sprintf("repository %d: path is required", i))
		}
		if r.Alias != "" {
			if aliases[r.Alias] {
				errors = append(errors, fmt.Sprintf("duplicate repository alias: %s", r.Alias))
			}
			aliases[r.Alias] = true
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("repositories validation:\n    - %s", strings.Join(errors, "\n    - "))
	}

	return nil
}
