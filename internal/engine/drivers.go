package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// StripSet groups resolved file-strip lists by category.
type StripSet struct {
	Delete []string `json:"delete,omitempty" yaml:"delete,omitempty"`
	Tools  []string `json:"tools,omitempty" yaml:"tools,omitempty"`
	Libs   []string `json:"libs,omitempty" yaml:"libs,omitempty"`
}

// collectDrivers concatenates all active driver glob patterns in declaration
// order. No de-duplication: callers apply the patterns as an inclusion
// filter over a separate file universe.
func collectDrivers(active []indexed[config.DriverSection]) []string {
	var patterns []string
	for _, item := range active {
		patterns = append(patterns, item.Section.Patterns...)
	}
	return patterns
}

// collectStrip merges active strip entries grouped by category, preserving
// order. Duplicate filenames within a category collapse.
func collectStrip(active []indexed[config.StripSection]) StripSet {
	seen := map[config.StripCategory]map[string]bool{
		config.StripDelete: {},
		config.StripTools:  {},
		config.StripLibs:   {},
	}

	var set StripSet
	for _, item := range active {
		section := item.Section
		files := seen[section.Category]
		if files == nil {
			continue
		}
		for _, name := range section.Files {
			if files[name] {
				continue
			}
			files[name] = true
			switch section.Category {
			case config.StripDelete:
				set.Delete = append(set.Delete, name)
			case config.StripTools:
				set.Tools = append(set.Tools, name)
			case config.StripLibs:
				set.Libs = append(set.Libs, name)
			}
		}
	}
	return set
}
