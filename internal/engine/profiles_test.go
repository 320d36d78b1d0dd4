package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

func TestResolveActiveProfiles_RequiresClosure(t *testing.T) {
	doc := testDescription()

	active, err := resolveActiveProfiles(doc, []string{"xenFlavour"})
	require.NoError(t, err)

	// xenFlavour pulls in base through its requires edge.
	assert.Equal(t, []string{"base", "xenFlavour"}, active)
}

func TestResolveActiveProfiles_OrderInsensitive(t *testing.T) {
	doc := &config.Description{
		Profiles: []config.Profile{
			{Name: "a"},
			{Name: "b"},
			{Name: "composed", Requires: []string{"a", "b"}},
		},
	}

	first, err := resolveActiveProfiles(doc, []string{"composed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "composed"}, first)

	// The active set contains a, b, and the composed profile regardless of
	// request order.
	second, err := resolveActiveProfiles(doc, []string{"b", "composed", "a"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveActiveProfiles_UnknownProfile(t *testing.T) {
	doc := testDescription()

	_, err := resolveActiveProfiles(doc, []string{"noSuchFlavour"})
	require.Error(t, err)

	var unknownErr *UnknownProfileError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "noSuchFlavour", unknownErr.Name)
	assert.Equal(t, "request", unknownErr.ReferencedBy)
}

func TestResolveActiveProfiles_UnknownRequires(t *testing.T) {
	doc := &config.Description{
		Profiles: []config.Profile{
			{Name: "a", Requires: []string{"ghost"}},
		},
	}

	_, err := resolveActiveProfiles(doc, []string{"a"})
	require.Error(t, err)

	var unknownErr *UnknownProfileError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "ghost", unknownErr.Name)
	assert.Equal(t, "a", unknownErr.ReferencedBy)
}

func TestResolveActiveProfiles_CyclicRequires(t *testing.T) {
	doc := &config.Description{
		Profiles: []config.Profile{
			{Name: "a", Requires: []string{"b"}},
			{Name: "b", Requires: []string{"a"}},
		},
	}

	_, err := resolveActiveProfiles(doc, []string{"a"})
	require.Error(t, err)

	var cycleErr *CyclicRequiresError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Chain, "a")
	assert.Contains(t, cycleErr.Chain, "b")
}

func TestResolveActiveProfiles_CycleDetectedEvenWhenInactive(t *testing.T) {
	// The requires graph is a document invariant: a cycle between profiles
	// nobody requested still fails the resolution.
	doc := &config.Description{
		Profiles: []config.Profile{
			{Name: "wanted"},
			{Name: "x", Requires: []string{"y"}},
			{Name: "y", Requires: []string{"x"}},
		},
	}

	_, err := resolveActiveProfiles(doc, []string{"wanted"})
	var cycleErr *CyclicRequiresError
	require.ErrorAs(t, err, &cycleErr)
}

func TestResolveActiveProfiles_ImportDefaultsOnEmptyRequest(t *testing.T) {
	doc := testDescription()

	active, err := resolveActiveProfiles(doc, nil)
	require.NoError(t, err)

	// vmxFlavour is import-flagged and pulls in base.
	assert.Equal(t, []string{"base", "vmxFlavour"}, active)
}

func TestResolveActiveProfiles_ExplicitRequestReplacesDefaults(t *testing.T) {
	doc := testDescription()

	active, err := resolveActiveProfiles(doc, []string{"xenFlavour"})
	require.NoError(t, err)

	// An explicit selection opts out of the import-flagged defaults.
	assert.NotContains(t, active, "vmxFlavour")
	assert.Equal(t, []string{"base", "xenFlavour"}, active)
}

func TestResolveActiveProfiles_EmptyDocument(t *testing.T) {
	doc := &config.Description{}

	active, err := resolveActiveProfiles(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, active)
}
