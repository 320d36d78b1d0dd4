package engine

import (
	"sort"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// Repository is one resolved package source. Sourcetype and the image
// scope flags pass through verbatim; the engine only orders and filters
// by activity.
type Repository struct {
	Path         string `json:"path" yaml:"path"`
	Alias        string `json:"alias,omitempty" yaml:"alias,omitempty"`
	SourceType   string `json:"type,omitempty" yaml:"type,omitempty"`
	Priority     int    `json:"priority" yaml:"priority"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	ImageInclude bool   `json:"imageinclude,omitempty" yaml:"imageinclude,omitempty"`
	ImageOnly    bool   `json:"imageonly,omitempty" yaml:"imageonly,omitempty"`
}

// assembleRepositories collects active repository declarations in order and
// sorts them by priority descending. The sort is stable: equal priorities
// retain their relative declaration order.
func assembleRepositories(active []indexed[config.RepositoryEntry]) []Repository {
	repos := make([]Repository, 0, len(active))
	for _, item := range active {
		r := item.Section
		repos = append(repos, Repository{
			Path:         r.Path,
			Alias:        r.Alias,
			SourceType:   r.SourceType,
			Priority:     r.Priority,
			Username:     r.Username,
			Password:     r.Password,
			ImageInclude: r.ImageInclude,
			ImageOnly:    r.ImageOnly,
		})
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Priority > repos[j].Priority
	})
	return repos
}
