package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// testDescription builds the shared fixture: a multi-profile appliance with
// a vmx default type, a docker variant on vmxFlavour, and an oem/xen variant
// on xenFlavour.
func testDescription() *config.Description {
	return &config.Description{
		Image: config.ImageMeta{
			Name:          "testAppliance",
			DisplayName:   "Test Appliance",
			SchemaVersion: "1.4",
		},
		Profiles: []config.Profile{
			{Name: "base", Description: "shared flavour groundwork"},
			{Name: "vmxFlavour", Description: "virtual machine flavour", Import: true, Requires: []string{"base"}},
			{Name: "xenFlavour", Description: "xen paravirtual flavour", Requires: []string{"base"}},
		},
		Preferences: []config.Preferences{
			{
				Version:        "1.13.2",
				PackageManager: "zypper",
				Locale:         []string{"en_US"},
				Keytable:       "us.map.gz",
				Timezone:       "Europe/Berlin",
				Types: []config.TypeSpec{
					{
						Image:      config.BuildVMX,
						Primary:    true,
						Filesystem: "ext4",
						BootLoader: "grub2",
						Size:       &config.Size{Value: 1024, Unit: "M"},
					},
				},
			},
			{
				Scope: config.Scope{Profiles: []string{"vmxFlavour"}},
				Types: []config.TypeSpec{
					{
						Image: config.BuildDocker,
						Container: &config.ContainerConfig{
							Name:         "container_name",
							Tag:          "container_tag",
							Entrypoint:   []string{"/bin/bash", "-x"},
							ExposedPorts: []string{"80", "8080"},
							Volumes:      []string{"/tmp", "/var/log"},
						},
					},
				},
			},
			{
				Scope: config.Scope{Profiles: []string{"xenFlavour"}},
				Types: []config.TypeSpec{
					{
						Image:       config.BuildOEM,
						BootProfile: "xen",
						BootKernel:  "xenk",
						OEMConfig: &config.OEMConfig{
							SystemSize: 2048,
							Swap:       boolPtr(true),
						},
					},
				},
			},
		},
		Users: []config.UserSection{
			{
				Group: "root",
				Users: []config.User{{Name: "root", Home: "/root", Shell: "/bin/bash"}},
			},
		},
		Packages: []config.PackagesSection{
			{
				Type: config.BucketImage,
				Entries: []config.PackageEntry{
					{Name: "filesystem"},
					{Name: "glibc"},
					{Name: "vim"},
				},
			},
			{
				Type: config.BucketBootstrap,
				Entries: []config.PackageEntry{
					{Name: "filesystem"},
					{Name: "rpm"},
				},
			},
			{
				Scope: config.Scope{Profiles: []string{"vmxFlavour"}},
				Type:  config.BucketImage,
				Entries: []config.PackageEntry{
					{Name: "open-vm-tools", Arch: "x86_64"},
				},
			},
			{
				Scope: config.Scope{Profiles: []string{"xenFlavour"}},
				Type:  config.BucketImage,
				Entries: []config.PackageEntry{
					{Name: "kernel-xen"},
					{Name: "xen-tools", Arch: "x86_64"},
					{Name: "xen", Arch: "x86_64"},
				},
			},
		},
		Repositories: []config.RepositoryEntry{
			{Path: "obs://13.1/repo/oss", SourceType: "rpm-md", Priority: 2},
			{Path: "obs://13.1/repo/non-oss", SourceType: "rpm-md", Priority: 2},
			{
				Scope:      config.Scope{Profiles: []string{"vmxFlavour"}},
				Path:       "obs://Virtualization/repo",
				SourceType: "rpm-md",
				Priority:   10,
			},
		},
		Drivers: []config.DriverSection{
			{Patterns: []string{"crypto/*"}},
			{
				Scope:    config.Scope{Profiles: []string{"xenFlavour"}},
				Patterns: []string{"drivers/xen/*"},
			},
		},
		Strip: []config.StripSection{
			{Category: config.StripDelete, Files: []string{"/usr/share/doc"}},
			{Category: config.StripTools, Files: []string{"cp", "mv"}},
			{
				Scope:    config.Scope{Profiles: []string{"xenFlavour"}},
				Category: config.StripTools,
				Files:    []string{"cp", "xenstore"},
			},
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
