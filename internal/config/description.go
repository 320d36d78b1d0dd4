// Package config provides appliance description loading and validation for Forgeplan.
// It handles YAML parsing, schema validation, and the immutable in-memory document
// tree consumed by the resolution engine.
package config

import "strings"

// BuildType identifies one target image format.
type BuildType string

// Known build types.
const (
	BuildVMX    BuildType = "vmx"
	BuildOEM    BuildType = "oem"
	BuildISO    BuildType = "iso"
	BuildDocker BuildType = "docker"
	BuildPXE    BuildType = "pxe"
	BuildTbz    BuildType = "tbz"
)

// KnownBuildTypes lists every build type the engine understands, in a fixed order.
var KnownBuildTypes = []BuildType{BuildVMX, BuildOEM, BuildISO, BuildDocker, BuildPXE, BuildTbz}

// IsKnownBuildType reports whether t names a supported image format.
func IsKnownBuildType(t BuildType) bool {
	for _, k := range KnownBuildTypes {
		if t == k {
			return true
		}
	}
	return false
}

// PackageBucket names one purpose-keyed package list of the resolved plan.
type PackageBucket string

// Package buckets.
const (
	BucketImage     PackageBucket = "image"
	BucketISO       PackageBucket = "iso"
	BucketOEM       PackageBucket = "oem"
	BucketBootstrap PackageBucket = "bootstrap"
	BucketDelete    PackageBucket = "delete"
	BucketUninstall PackageBucket = "uninstall"
)

// KnownBuckets lists every package bucket, in plan output order.
var KnownBuckets = []PackageBucket{BucketImage, BucketISO, BucketOEM, BucketBootstrap, BucketDelete, BucketUninstall}

// IsKnownBucket reports whether b names a supported package bucket.
func IsKnownBucket(b PackageBucket) bool {
	for _, k := range KnownBuckets {
		if b == k {
			return true
		}
	}
	return false
}

// PackageKind discriminates the entry variants of a packages section.
type PackageKind string

// Package entry kinds. An empty kind means KindPackage.
const (
	KindPackage    PackageKind = "package"
	KindArchive    PackageKind = "archive"
	KindProduct    PackageKind = "product"
	KindCollection PackageKind = "collection"
	KindIgnore     PackageKind = "ignore"
)

// StripCategory groups file-strip entries.
type StripCategory string

// Strip categories.
const (
	StripDelete StripCategory = "delete"
	StripTools  StripCategory = "tools"
	StripLibs   StripCategory = "libs"
)

// Description is the fully loaded appliance description. It is immutable for
// the lifetime of any number of resolutions; the engine never mutates it.
type Description struct {
	Image        ImageMeta         `yaml:"image" json:"image"`
	Profiles     []Profile         `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Preferences  []Preferences     `yaml:"preferences" json:"preferences"`
	Users        []UserSection     `yaml:"users,omitempty" json:"users,omitempty"`
	Packages     []PackagesSection `yaml:"packages" json:"packages"`
	Repositories []RepositoryEntry `yaml:"repositories,omitempty" json:"repositories,omitempty"`
	Drivers      []DriverSection   `yaml:"drivers,omitempty" json:"drivers,omitempty"`
	Strip        []StripSection    `yaml:"strip,omitempty" json:"strip,omitempty"`
}

// ImageMeta contains document-level metadata.
type ImageMeta struct {
	Name          string `yaml:"name" json:"name"`
	DisplayName   string `yaml:"displayname,omitempty" json:"displayname,omitempty"`
	SchemaVersion string `yaml:"schemaversion" json:"schemaversion"`
}

// Profile declares one named variant axis.
type Profile struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Import      bool     `yaml:"import,omitempty" json:"import,omitempty"`
	Requires    []string `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// Scope is the profile-membership set shared by every scoped section.
// An empty set means the section is always active.
type Scope struct {
	Profiles []string `yaml:"profiles,omitempty" json:"profiles,omitempty"`
}

// Scoped reports whether the section is restricted to specific profiles.
func (s Scope) Scoped() bool {
	return len(s.Profiles) > 0
}

// AppliesTo reports whether the section is active for the given active-profile set.
func (s Scope) AppliesTo(active map[string]bool) bool {
	if len(s.Profiles) == 0 {
		return true
	}
	for _, p := range s.Profiles {
		if active[p] {
			return true
		}
	}
	return false
}

// Preferences is one scoped preferences fragment.
type Preferences struct {
	Scope             `yaml:",inline" json:",inline"`
	Version           string     `yaml:"version,omitempty" json:"version,omitempty"`
	PackageManager    string     `yaml:"packagemanager,omitempty" json:"packagemanager,omitempty"`
	Locale            []string   `yaml:"locale,omitempty" json:"locale,omitempty"`
	Keytable          string     `yaml:"keytable,omitempty" json:"keytable,omitempty"`
	Timezone          string     `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	RPMCheckSignature *bool      `yaml:"rpm_check_signatures,omitempty" json:"rpm_check_signatures,omitempty"`
	RPMForce          *bool      `yaml:"rpm_force,omitempty" json:"rpm_force,omitempty"`
	RPMExcludeDocs    *bool      `yaml:"rpm_excludedocs,omitempty" json:"rpm_excludedocs,omitempty"`
	BootSplashTheme   string     `yaml:"bootsplash_theme,omitempty" json:"bootsplash_theme,omitempty"`
	BootLoaderTheme   string     `yaml:"bootloader_theme,omitempty" json:"bootloader_theme,omitempty"`
	Types             []TypeSpec `yaml:"types,omitempty" json:"types,omitempty"`
}

// TypeSpec declares one target image format and its build attributes.
// It is a plain value; the merger combines several of these sparsely.
type TypeSpec struct {
	Image         BuildType        `yaml:"image" json:"image"`
	Primary       bool             `yaml:"primary,omitempty" json:"primary,omitempty"`
	Boot          string           `yaml:"boot,omitempty" json:"boot,omitempty"`
	BootProfile   string           `yaml:"bootprofile,omitempty" json:"bootprofile,omitempty"`
	BootKernel    string           `yaml:"bootkernel,omitempty" json:"bootkernel,omitempty"`
	BootLoader    string           `yaml:"bootloader,omitempty" json:"bootloader,omitempty"`
	Filesystem    string           `yaml:"filesystem,omitempty" json:"filesystem,omitempty"`
	Firmware      string           `yaml:"firmware,omitempty" json:"firmware,omitempty"`
	KernelCmdline string           `yaml:"kernelcmdline,omitempty" json:"kernelcmdline,omitempty"`
	Hybrid        *bool            `yaml:"hybrid,omitempty" json:"hybrid,omitempty"`
	InstallISO    *bool            `yaml:"installiso,omitempty" json:"installiso,omitempty"`
	InstallStick  *bool            `yaml:"installstick,omitempty" json:"installstick,omitempty"`
	Size          *Size            `yaml:"size,omitempty" json:"size,omitempty"`
	Machine       *MachineConfig   `yaml:"machine,omitempty" json:"machine,omitempty"`
	OEMConfig     *OEMConfig       `yaml:"oemconfig,omitempty" json:"oemconfig,omitempty"`
	Container     *ContainerConfig `yaml:"containerconfig,omitempty" json:"containerconfig,omitempty"`
	Vagrant       *VagrantConfig   `yaml:"vagrantconfig,omitempty" json:"vagrantconfig,omitempty"`
}

// Key returns the identity key used to group type declarations during merging.
// The image kind is refined by the bootprofile discriminator when present, since
// one profile may declare multiple variants of the same kind.
func (t TypeSpec) Key() string {
	if t.BootProfile == "" {
		return string(t.Image)
	}
	return string(t.Image) + "/" + t.BootProfile
}

// Size is an image size declaration in the given unit (M or G, default M).
// When Additive is set the value is summed onto the running total instead of
// replacing it.
type Size struct {
	Value    int64  `yaml:"value" json:"value"`
	Unit     string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Additive bool   `yaml:"additive,omitempty" json:"additive,omitempty"`
}

// MachineConfig carries virtual-machine build attributes.
type MachineConfig struct {
	Memory    int    `yaml:"memory,omitempty" json:"memory,omitempty"`
	NCPUs     int    `yaml:"ncpus,omitempty" json:"ncpus,omitempty"`
	GuestOS   string `yaml:"guestOS,omitempty" json:"guestOS,omitempty"`
	HWVersion int    `yaml:"HWversion,omitempty" json:"HWversion,omitempty"`
	Arch      string `yaml:"arch,omitempty" json:"arch,omitempty"`
	Domain    string `yaml:"domain,omitempty" json:"domain,omitempty"`
}

// OEMConfig carries OEM installer build attributes.
type OEMConfig struct {
	SystemSize int64  `yaml:"oem-systemsize,omitempty" json:"oem-systemsize,omitempty"`
	Swap       *bool  `yaml:"oem-swap,omitempty" json:"oem-swap,omitempty"`
	SwapSize   int64  `yaml:"oem-swapsize,omitempty" json:"oem-swapsize,omitempty"`
	Recovery   *bool  `yaml:"oem-recovery,omitempty" json:"oem-recovery,omitempty"`
	BootTitle  string `yaml:"oem-boot-title,omitempty" json:"oem-boot-title,omitempty"`
	Reboot     *bool  `yaml:"oem-reboot,omitempty" json:"oem-reboot,omitempty"`
}

// ContainerConfig carries container image build attributes.
type ContainerConfig struct {
	Name         string            `yaml:"name,omitempty" json:"name,omitempty"`
	Tag          string            `yaml:"tag,omitempty" json:"tag,omitempty"`
	Maintainer   string            `yaml:"maintainer,omitempty" json:"maintainer,omitempty"`
	User         string            `yaml:"user,omitempty" json:"user,omitempty"`
	WorkingDir   string            `yaml:"workingdir,omitempty" json:"workingdir,omitempty"`
	Entrypoint   []string          `yaml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	Subcommand   []string          `yaml:"subcommand,omitempty" json:"subcommand,omitempty"`
	ExposedPorts []string          `yaml:"exposedports,omitempty" json:"exposedports,omitempty"`
	Volumes      []string          `yaml:"volumes,omitempty" json:"volumes,omitempty"`
	Environment  map[string]string `yaml:"environment,omitempty" json:"environment,omitempty"`
	Labels       map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// VagrantConfig carries vagrant box build attributes.
type VagrantConfig struct {
	Provider    string `yaml:"provider,omitempty" json:"provider,omitempty"`
	VirtualSize int64  `yaml:"virtualsize,omitempty" json:"virtualsize,omitempty"`
}

// PackagesSection is one scoped package list tagged for a bucket.
type PackagesSection struct {
	Scope       `yaml:",inline" json:",inline"`
	Type        PackageBucket  `yaml:"type" json:"type"`
	PatternType string         `yaml:"patternType,omitempty" json:"patternType,omitempty"`
	Entries     []PackageEntry `yaml:"entries" json:"entries"`
}

// PackageEntry is one package, archive, product, collection, or ignore rule.
// Arch is a comma-separated architecture filter in the original document
// format; empty means the entry applies to every architecture.
type PackageEntry struct {
	Name        string      `yaml:"name" json:"name"`
	Kind        PackageKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	Arch        string      `yaml:"arch,omitempty" json:"arch,omitempty"`
	BootInclude bool        `yaml:"bootinclude,omitempty" json:"bootinclude,omitempty"`
	BootDelete  bool        `yaml:"bootdelete,omitempty" json:"bootdelete,omitempty"`
}

// EffectiveKind returns the entry kind, defaulting to KindPackage.
func (e PackageEntry) EffectiveKind() PackageKind {
	if e.Kind == "" {
		return KindPackage
	}
	return e.Kind
}

// RepositoryEntry is one scoped package source declaration.
type RepositoryEntry struct {
	Scope        `yaml:",inline" json:",inline"`
	Path         string `yaml:"path" json:"path"`
	Alias        string `yaml:"alias,omitempty" json:"alias,omitempty"`
	SourceType   string `yaml:"type,omitempty" json:"type,omitempty"`
	Priority     int    `yaml:"priority,omitempty" json:"priority,omitempty"`
	Username     string `yaml:"username,omitempty" json:"username,omitempty"`
	Password     string `yaml:"password,omitempty" json:"password,omitempty"`
	ImageInclude bool   `yaml:"imageinclude,omitempty" json:"imageinclude,omitempty"`
	ImageOnly    bool   `yaml:"imageonly,omitempty" json:"imageonly,omitempty"`
}

// DriverSection is one scoped set of glob-style driver inclusion patterns.
type DriverSection struct {
	Scope    `yaml:",inline" json:",inline"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// StripSection is one scoped file-strip list for a category.
type StripSection struct {
	Scope    `yaml:",inline" json:",inline"`
	Category StripCategory `yaml:"category" json:"category"`
	Files    []string      `yaml:"files" json:"files"`
}

// UserSection declares users belonging to one group, optionally profile-scoped.
type UserSection struct {
	Scope   `yaml:",inline" json:",inline"`
	Group   string `yaml:"group" json:"group"`
	GroupID *int   `yaml:"gid,omitempty" json:"gid,omitempty"`
	Users   []User `yaml:"users" json:"users"`
}

// User is one system user declaration.
type User struct {
	Name     string `yaml:"name" json:"name"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Home     string `yaml:"home,omitempty" json:"home,omitempty"`
	Shell    string `yaml:"shell,omitempty" json:"shell,omitempty"`
	ID       *int   `yaml:"id,omitempty" json:"id,omitempty"`
}

// GetProfile returns the profile with the given name, or nil if not declared.
func (d *Description) GetProfile(name string) *Profile {
	for i := range d.Profiles {
		if d.Profiles[i].Name == name {
			return &d.Profiles[i]
		}
	}
	return nil
}

// HasProfile checks if a profile with the given name is declared.
func (d *Description) HasProfile(name string) bool {
	return d.GetProfile(name) != nil
}

// ProfileNames returns the declared profile names in declaration order.
func (d *Description) ProfileNames() []string {
	names := make([]string, 0, len(d.Profiles))
	for _, p := range d.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// ImportProfiles returns the names of profiles marked import, in declaration order.
func (d *Description) ImportProfiles() []string {
	var names []string
	for _, p := range d.Profiles {
		if p.Import {
			names = append(names, p.Name)
		}
	}
	return names
}

// DeclaredBuildTypes returns every image kind declared anywhere in the
// document, deduplicated, in declaration order.
func (d *Description) DeclaredBuildTypes() []BuildType {
	seen := make(map[BuildType]bool)
	var types []BuildType
	for _, prefs := range d.Preferences {
		for _, t := range prefs.Types {
			if !seen[t.Image] {
				seen[t.Image] = true
				types = append(types, t.Image)
			}
		}
	}
	return types
}

// String implements fmt.Stringer for quick log output.
func (d *Description) String() string {
	return d.Image.Name + " (" + strings.Join(d.ProfileNames(), ", ") + ")"
}
