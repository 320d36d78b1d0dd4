package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// collected partitions the document's scoped sections into the subset active
// for one resolution. Declaration order is preserved in every list: later
// merge stages rely on it for override precedence and tie-breaking.
type collected struct {
	preferences  []indexed[config.Preferences]
	packages     []indexed[config.PackagesSection]
	repositories []indexed[config.RepositoryEntry]
	users        []indexed[config.UserSection]
	drivers      []indexed[config.DriverSection]
	strip        []indexed[config.StripSection]
}

// indexed pairs a section with its declaration index in the source document,
// so findings can point back at the offending fragment.
type indexed[T any] struct {
	Index   int
	Section T
}

// collectSections includes every section whose profile-membership set is
// empty or intersects the active-profile set.
func collectSections(doc *config.Description, activeNames []string) *collected {
	active := make(map[string]bool, len(activeNames))
	for _, name := range activeNames {
		active[name] = true
	}

	c := &collected{}
	for i, s := range doc.Preferences {
		if s.AppliesTo(active) {
			c.preferences = append(c.preferences, indexed[config.Preferences]{Index: i, Section: s})
		}
	}
	for i, s := range doc.Packages {
		if s.AppliesTo(active) {
			c.packages = append(c.packages, indexed[config.PackagesSection]{Index: i, Section: s})
		}
	}
	for i, s := range doc.Repositories {
		if s.AppliesTo(active) {
			c.repositories = append(c.repositories, indexed[config.RepositoryEntry]{Index: i, Section: s})
		}
	}
	for i, s := range doc.Users {
		if s.AppliesTo(active) {
			c.users = append(c.users, indexed[config.UserSection]{Index: i, Section: s})
		}
	}
	for i, s := range doc.Drivers {
		if s.AppliesTo(active) {
			c.drivers = append(c.drivers, indexed[config.DriverSection]{Index: i, Section: s})
		}
	}
	for i, s := range doc.Strip {
		if s.AppliesTo(active) {
			c.strip = append(c.strip, indexed[config.StripSection]{Index: i, Section: s})
		}
	}
	return c
}

// scopeLabel names the first profile of a scope for finding context, or
// empty for unscoped sections.
func scopeLabel(s config.Scope) string {
	if len(s.Profiles) == 0 {
		return ""
	}
	return s.Profiles[0]
}
