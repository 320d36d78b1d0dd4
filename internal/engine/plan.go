package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// Plan is the sole output of a resolution: one internally consistent,
// fully merged build plan for a (profiles, build type, architecture)
// triple. A plan is created fresh per resolution and never partially
// populated on error.
type Plan struct {
	Image     string           `json:"image" yaml:"image"`
	BuildType config.BuildType `json:"buildtype" yaml:"buildtype"`
	Arch      string           `json:"arch" yaml:"arch"`
	Profiles  []string         `json:"profiles,omitempty" yaml:"profiles,omitempty"`

	Preferences  Preferences     `json:"preferences" yaml:"preferences"`
	Type         config.TypeSpec `json:"type" yaml:"type"`
	Packages     PackageSet      `json:"packages" yaml:"packages"`
	Repositories []Repository    `json:"repositories,omitempty" yaml:"repositories,omitempty"`
	Drivers      []string        `json:"drivers,omitempty" yaml:"drivers,omitempty"`
	Strip        StripSet        `json:"strip" yaml:"strip"`
	Users        []UserRef       `json:"users,omitempty" yaml:"users,omitempty"`

	// Warnings are advisory findings that did not fail the resolution.
	Warnings []Finding `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// PackageNames returns the names in one bucket, in plan order.
func (p *Plan) PackageNames(bucket config.PackageBucket) []string {
	refs := p.Packages.Bucket(bucket)
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}
