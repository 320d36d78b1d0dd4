package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestInfo_Full(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abc1234",
		BuildDate: "2026-08-23",
		GoVersion: "go1.25.5",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "1.2.3", info.String())
	assert.Equal(t, "1.2.3 (commit abc1234, built 2026-08-23, go1.25.5, linux/amd64)", info.Full())
}
