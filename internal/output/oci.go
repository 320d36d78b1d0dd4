package output

import (
	"fmt"
	"sort"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/forgeplan-dev/forgeplan/internal/config"
	"github.com/forgeplan-dev/forgeplan/internal/engine"
)

// archToOCI maps appliance architecture names onto GOARCH-style OCI
// platform architectures.
var archToOCI = map[string]string{
	"x86_64":  "amd64",
	"aarch64": "arm64",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"ix86":    "386",
}

// OCIImageConfig projects a resolved docker-type plan onto an OCI image
// configuration for the downstream container assembler. The projection is
// deterministic: no timestamps or generated identifiers.
func OCIImageConfig(plan *engine.Plan) (ocispec.Image, error) {
	if plan.BuildType != config.BuildDocker {
		return ocispec.Image{}, fmt.Errorf("plan build type is %q, expected %q", plan.BuildType, config.BuildDocker)
	}
	container := plan.Type.Container
	if container == nil {
		return ocispec.Image{}, fmt.Errorf("docker plan has no container configuration")
	}

	img := ocispec.Image{
		Author: container.Maintainer,
		Platform: ocispec.Platform{
			Architecture: ociArch(plan.Arch),
			OS:           "linux",
		},
		Config: ocispec.ImageConfig{
			User:       container.User,
			WorkingDir: container.WorkingDir,
			Entrypoint: append([]string{}, container.Entrypoint...),
			Cmd:        append([]string{}, container.Subcommand...),
		},
	}

	if len(container.ExposedPorts) > 0 {
		img.Config.ExposedPorts = make(map[string]struct{}, len(container.ExposedPorts))
		for _, port := range container.ExposedPorts {
			img.Config.ExposedPorts[port] = struct{}{}
		}
	}
	if len(container.Volumes) > 0 {
		img.Config.Volumes = make(map[string]struct{}, len(container.Volumes))
		for _, vol := range container.Volumes {
			img.Config.Volumes[vol] = struct{}{}
		}
	}
	// Sorted for deterministic output; map iteration order is random.
	envKeys := make([]string, 0, len(container.Environment))
	for key := range container.Environment {
		envKeys = append(envKeys, key)
	}
	sort.Strings(envKeys)
	for _, key := range envKeys {
		img.Config.Env = append(img.Config.Env, key+"="+container.Environment[key])
	}
	if len(container.Labels) > 0 {
		img.Config.Labels = make(map[string]string, len(container.Labels))
		for key, value := range container.Labels {
			img.Config.Labels[key] = value
		}
	}

	return img, nil
}

func ociArch(arch string) string {
	if mapped, ok := archToOCI[arch]; ok {
		return mapped
	}
	return arch
}
