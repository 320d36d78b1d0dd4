package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

func repoList(entries ...config.RepositoryEntry) []indexed[config.RepositoryEntry] {
	out := make([]indexed[config.RepositoryEntry], len(entries))
	for i, e := range entries {
		out[i] = indexed[config.RepositoryEntry]{Index: i, Section: e}
	}
	return out
}

func TestAssembleRepositories_PriorityDescending(t *testing.T) {
	repos := assembleRepositories(repoList(
		config.RepositoryEntry{Path: "obs://low", Priority: 2},
		config.RepositoryEntry{Path: "obs://high", Priority: 99},
		config.RepositoryEntry{Path: "obs://mid", Priority: 10},
	))

	require.Len(t, repos, 3)
	assert.Equal(t, "obs://high", repos[0].Path)
	assert.Equal(t, "obs://mid", repos[1].Path)
	assert.Equal(t, "obs://low", repos[2].Path)
}

func TestAssembleRepositories_EqualPriorityKeepsDeclarationOrder(t *testing.T) {
	repos := assembleRepositories(repoList(
		config.RepositoryEntry{Path: "obs://oss", Priority: 2},
		config.RepositoryEntry{Path: "obs://non-oss", Priority: 2},
		config.RepositoryEntry{Path: "obs://update", Priority: 2},
	))

	require.Len(t, repos, 3)
	assert.Equal(t, "obs://oss", repos[0].Path)
	assert.Equal(t, "obs://non-oss", repos[1].Path)
	assert.Equal(t, "obs://update", repos[2].Path)
}

func TestAssembleRepositories_PassesAttributesThrough(t *testing.T) {
	repos := assembleRepositories(repoList(config.RepositoryEntry{
		Path:         "obs://13.1/repo/oss",
		Alias:        "oss",
		SourceType:   "rpm-md",
		Priority:     2,
		Username:     "user",
		Password:     "secret",
		ImageInclude: true,
	}))

	require.Len(t, repos, 1)
	assert.Equal(t, "oss", repos[0].Alias)
	assert.Equal(t, "rpm-md", repos[0].SourceType)
	assert.Equal(t, "user", repos[0].Username)
	assert.True(t, repos[0].ImageInclude)
}
