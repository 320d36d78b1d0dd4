package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeplan-dev/forgeplan/internal/config"
	"github.com/forgeplan-dev/forgeplan/internal/engine"
)

func TestApplyRequestDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty request falls back to x86_64", func(t *testing.T) {
		t.Parallel()
		req := engine.Request{}
		applyRequestDefaults(&req, &config.SystemConfig{})

		assert.Equal(t, "x86_64", req.Arch)
		assert.Empty(t, req.Profiles)
	})

	t.Run("system config fills unset fields", func(t *testing.T) {
		t.Parallel()
		req := engine.Request{}
		applyRequestDefaults(&req, &config.SystemConfig{
			Defaults: config.DefaultsConfig{
				Arch:     "aarch64",
				Profiles: []string{"vmxFlavour"},
			},
		})

		assert.Equal(t, "aarch64", req.Arch)
		assert.Equal(t, []string{"vmxFlavour"}, req.Profiles)
	})

	t.Run("explicit flags win over system config", func(t *testing.T) {
		t.Parallel()
		req := engine.Request{Profiles: []string{"xenFlavour"}, Arch: "s390x"}
		applyRequestDefaults(&req, &config.SystemConfig{
			Defaults: config.DefaultsConfig{
				Arch:     "aarch64",
				Profiles: []string{"vmxFlavour"},
			},
		})

		assert.Equal(t, "s390x", req.Arch)
		assert.Equal(t, []string{"xenFlavour"}, req.Profiles)
	})
}

func TestDescribeCombination(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default profiles, type primary",
		describeCombination(engine.Combination{}))
	assert.Equal(t, "profiles vmxFlavour, type docker",
		describeCombination(engine.Combination{Profiles: []string{"vmxFlavour"}, BuildType: config.BuildDocker}))
	assert.Equal(t, "profiles base+xenFlavour, type oem",
		describeCombination(engine.Combination{Profiles: []string{"base", "xenFlavour"}, BuildType: config.BuildOEM}))
}
