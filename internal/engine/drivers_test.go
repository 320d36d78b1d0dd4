package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

func TestCollectDrivers_ConcatenatesInOrder(t *testing.T) {
	patterns := collectDrivers([]indexed[config.DriverSection]{
		{Index: 0, Section: config.DriverSection{Patterns: []string{"crypto/*", "fs/ext4/*"}}},
		{Index: 1, Section: config.DriverSection{Patterns: []string{"drivers/xen/*"}}},
	})

	assert.Equal(t, []string{"crypto/*", "fs/ext4/*", "drivers/xen/*"}, patterns)
}

func TestCollectDrivers_KeepsDuplicates(t *testing.T) {
	// Patterns are an inclusion filter over a separate file universe;
	// duplicates are harmless and kept.
	patterns := collectDrivers([]indexed[config.DriverSection]{
		{Index: 0, Section: config.DriverSection{Patterns: []string{"crypto/*"}}},
		{Index: 1, Section: config.DriverSection{Patterns: []string{"crypto/*"}}},
	})

	assert.Equal(t, []string{"crypto/*", "crypto/*"}, patterns)
}

func TestCollectStrip_GroupsByCategoryAndDeduplicates(t *testing.T) {
	set := collectStrip([]indexed[config.StripSection]{
		{Index: 0, Section: config.StripSection{Category: config.StripDelete, Files: []string{"/usr/share/doc"}}},
		{Index: 1, Section: config.StripSection{Category: config.StripTools, Files: []string{"cp", "mv"}}},
		{Index: 2, Section: config.StripSection{Category: config.StripTools, Files: []string{"cp", "xenstore"}}},
		{Index: 3, Section: config.StripSection{Category: config.StripLibs, Files: []string{"libssl"}}},
	})

	assert.Equal(t, []string{"/usr/share/doc"}, set.Delete)
	assert.Equal(t, []string{"cp", "mv", "xenstore"}, set.Tools)
	assert.Equal(t, []string{"libssl"}, set.Libs)
}

func TestMergeUsers_ScopedOverridesUnscoped(t *testing.T) {
	users := mergeUsers([]indexed[config.UserSection]{
		{Index: 0, Section: config.UserSection{
			Group: "root",
			Users: []config.User{{Name: "root", Home: "/root", Shell: "/bin/bash"}},
		}},
		{Index: 1, Section: config.UserSection{
			Scope: config.Scope{Profiles: []string{"flavour"}},
			Group: "wheel",
			Users: []config.User{{Name: "root", Home: "/root", Shell: "/bin/zsh"}},
		}},
		{Index: 2, Section: config.UserSection{
			Group: "users",
			Users: []config.User{{Name: "root", Shell: "/bin/sh"}},
		}},
	})

	require.Len(t, users, 1)
	assert.Equal(t, "wheel", users[0].Group)
	assert.Equal(t, "/bin/zsh", users[0].Shell)
}

func TestMergeUsers_KeepsDeclarationOrder(t *testing.T) {
	gid := 100
	uid := 1000
	users := mergeUsers([]indexed[config.UserSection]{
		{Index: 0, Section: config.UserSection{
			Group: "root",
			Users: []config.User{{Name: "root"}},
		}},
		{Index: 1, Section: config.UserSection{
			Group:   "users",
			GroupID: &gid,
			Users:   []config.User{{Name: "tux", ID: &uid, Home: "/home/tux"}},
		}},
	})

	require.Len(t, users, 2)
	assert.Equal(t, "root", users[0].Name)
	assert.Equal(t, "tux", users[1].Name)
	require.NotNil(t, users[1].GroupID)
	assert.Equal(t, 100, *users[1].GroupID)
	require.NotNil(t, users[1].ID)
	assert.Equal(t, 1000, *users[1].ID)
}
