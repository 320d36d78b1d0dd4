package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// Preferences is the effective non-type preferences record of a plan.
type Preferences struct {
	Version           string   `json:"version,omitempty" yaml:"version,omitempty"`
	PackageManager    string   `json:"packagemanager,omitempty" yaml:"packagemanager,omitempty"`
	Locale            []string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Keytable          string   `json:"keytable,omitempty" yaml:"keytable,omitempty"`
	Timezone          string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	RPMCheckSignature *bool    `json:"rpm_check_signatures,omitempty" yaml:"rpm_check_signatures,omitempty"`
	RPMForce          *bool    `json:"rpm_force,omitempty" yaml:"rpm_force,omitempty"`
	RPMExcludeDocs    *bool    `json:"rpm_excludedocs,omitempty" yaml:"rpm_excludedocs,omitempty"`
	BootSplashTheme   string   `json:"bootsplash_theme,omitempty" yaml:"bootsplash_theme,omitempty"`
	BootLoaderTheme   string   `json:"bootloader_theme,omitempty" yaml:"bootloader_theme,omitempty"`
}

// mergePreferences combines all active preference fragments into one
// effective record and selects the type declaration matching the requested
// build type. An empty build type selects the primary declaration.
//
// Scalar fields use last-active-declaration-wins; list-like fields
// concatenate with de-duplication. Type declarations sharing an identity
// key merge attribute-by-attribute (sparse override): an attribute absent
// on a later declaration does not erase one set earlier. Size fields obey
// the additive flag.
func mergePreferences(active []indexed[config.Preferences], buildType config.BuildType) (Preferences, config.TypeSpec, []Finding) {
	var prefs Preferences
	var findings []Finding

	// Identity key -> merged declaration, insertion-ordered.
	groups := make(map[string]*config.TypeSpec)
	var keys []string

	seenLocale := make(map[string]bool)

	for _, item := range active {
		s := item.Section

		if s.Version != "" {
			prefs.Version = s.Version
		}
		if s.PackageManager != "" {
			prefs.PackageManager = s.PackageManager
		}
		if s.Keytable != "" {
			prefs.Keytable = s.Keytable
		}
		if s.Timezone != "" {
			prefs.Timezone = s.Timezone
		}
		if s.BootSplashTheme != "" {
			prefs.BootSplashTheme = s.BootSplashTheme
		}
		if s.BootLoaderTheme != "" {
			prefs.BootLoaderTheme = s.BootLoaderTheme
		}
		if s.RPMCheckSignature != nil {
			prefs.RPMCheckSignature = cloneBool(s.RPMCheckSignature)
		}
		if s.RPMForce != nil {
			prefs.RPMForce = cloneBool(s.RPMForce)
		}
		if s.RPMExcludeDocs != nil {
			prefs.RPMExcludeDocs = cloneBool(s.RPMExcludeDocs)
		}
		for _, loc := range s.Locale {
			if !seenLocale[loc] {
				seenLocale[loc] = true
				prefs.Locale = append(prefs.Locale, loc)
			}
		}

		for _, t := range s.Types {
			key := t.Key()
			if existing, ok := groups[key]; ok {
				overlayTypeSpec(existing, t)
			} else {
				clone := cloneTypeSpec(t)
				groups[key] = &clone
				keys = append(keys, key)
			}
		}
	}

	selected, err := selectTypeSpec(groups, keys, buildType)
	if err != nil {
		findings = append(findings, errorFinding("preferences", "", -1, err))
		return prefs, config.TypeSpec{}, findings
	}

	return prefs, selected, findings
}

// selectTypeSpec picks the merged type group matching the requested build
// type. With no requested type, the primary declaration wins; a lone group
// is accepted as an implicit primary.
func selectTypeSpec(groups map[string]*config.TypeSpec, keys []string, buildType config.BuildType) (config.TypeSpec, error) {
	if buildType == "" {
		var primaries []string
		for _, key := range keys {
			if groups[key].Primary {
				primaries = append(primaries, key)
			}
		}
		switch {
		case len(primaries) == 1:
			return *groups[primaries[0]], nil
		case len(primaries) > 1:
			return config.TypeSpec{}, &AmbiguousTypeError{BuildType: buildType, Candidates: primaries}
		case len(keys) == 1:
			return *groups[keys[0]], nil
		case len(keys) == 0:
			return config.TypeSpec{}, &UnknownTypeError{BuildType: buildType}
		default:
			return config.TypeSpec{}, &AmbiguousTypeError{BuildType: buildType, Candidates: keys}
		}
	}

	var candidates []string
	for _, key := range keys {
		if groups[key].Image == buildType {
			candidates = append(candidates, key)
		}
	}
	switch len(candidates) {
	case 0:
		return config.TypeSpec{}, &UnknownTypeError{BuildType: buildType, Declared: keys}
	case 1:
		return *groups[candidates[0]], nil
	}

	// Several variants of the requested kind: a unique primary disambiguates.
	var primaries []string
	for _, key := range candidates {
		if groups[key].Primary {
			primaries = append(primaries, key)
		}
	}
	if len(primaries) == 1 {
		return *groups[primaries[0]], nil
	}
	return config.TypeSpec{}, &AmbiguousTypeError{BuildType: buildType, Candidates: candidates}
}

// overlayTypeSpec merges src onto dst attribute-by-attribute. Attributes
// absent on src leave dst untouched; the size additive flag sums instead
// of replacing.
func overlayTypeSpec(dst *config.TypeSpec, src config.TypeSpec) {
	if src.Primary {
		dst.Primary = true
	}
	if src.Boot != "" {
		dst.Boot = src.Boot
	}
	if src.BootProfile != "" {
		dst.BootProfile = src.BootProfile
	}
	if src.BootKernel != "" {
		dst.BootKernel = src.BootKernel
	}
	if src.BootLoader != "" {
		dst.BootLoader = src.BootLoader
	}
	if src.Filesystem != "" {
		dst.Filesystem = src.Filesystem
	}
	if src.Firmware != "" {
		dst.Firmware = src.Firmware
	}
	if src.KernelCmdline != "" {
		dst.KernelCmdline = src.KernelCmdline
	}
	if src.Hybrid != nil {
		dst.Hybrid = cloneBool(src.Hybrid)
	}
	if src.InstallISO != nil {
		dst.InstallISO = cloneBool(src.InstallISO)
	}
	if src.InstallStick != nil {
		dst.InstallStick = cloneBool(src.InstallStick)
	}
	if src.Size != nil {
		dst.Size = overlaySize(dst.Size, src.Size)
	}
	if src.Machine != nil {
		dst.Machine = overlayMachine(dst.Machine, src.Machine)
	}
	if src.OEMConfig != nil {
		dst.OEMConfig = overlayOEM(dst.OEMConfig, src.OEMConfig)
	}
	if src.Container != nil {
		dst.Container = overlayContainer(dst.Container, src.Container)
	}
	if src.Vagrant != nil {
		dst.Vagrant = overlayVagrant(dst.Vagrant, src.Vagrant)
	}
}

// overlaySize applies one size declaration onto the running value. Additive
// sizes sum onto the total; mixed units are summed in megabytes so a
// sub-unit increment never truncates away. Units default to megabytes.
func overlaySize(dst, src *config.Size) *config.Size {
	if dst == nil || !src.Additive {
		clone := *src
		return &clone
	}

	if sizeUnit(src.Unit) == sizeUnit(dst.Unit) {
		return &config.Size{Value: dst.Value + src.Value, Unit: dst.Unit, Additive: dst.Additive}
	}
	return &config.Size{Value: toMegabytes(dst) + toMegabytes(src), Unit: "M", Additive: dst.Additive}
}

func sizeUnit(u string) string {
	if u == "" {
		return "M"
	}
	return u
}

func toMegabytes(s *config.Size) int64 {
	if sizeUnit(s.Unit) == "G" {
		return s.Value * 1024
	}
	return s.Value
}

func overlayMachine(dst, src *config.MachineConfig) *config.MachineConfig {
	if dst == nil {
		clone := *src
		return &clone
	}
	out := *dst
	if src.Memory != 0 {
		out.Memory = src.Memory
	}
	if src.NCPUs != 0 {
		out.NCPUs = src.NCPUs
	}
	if src.GuestOS != "" {
		out.GuestOS = src.GuestOS
	}
	if src.HWVersion != 0 {
		out.HWVersion = src.HWVersion
	}
	if src.Arch != "" {
		out.Arch = src.Arch
	}
	if src.Domain != "" {
		out.Domain = src.Domain
	}
	return &out
}

func overlayOEM(dst, src *config.OEMConfig) *config.OEMConfig {
	if dst == nil {
		clone := *src
		clone.Swap = cloneBool(src.Swap)
		clone.Recovery = cloneBool(src.Recovery)
		clone.Reboot = cloneBool(src.Reboot)
		return &clone
	}
	out := *dst
	if src.SystemSize != 0 {
		out.SystemSize = src.SystemSize
	}
	if src.Swap != nil {
		out.Swap = cloneBool(src.Swap)
	}
	if src.SwapSize != 0 {
		out.SwapSize = src.SwapSize
	}
	if src.Recovery != nil {
		out.Recovery = cloneBool(src.Recovery)
	}
	if src.BootTitle != "" {
		out.BootTitle = src.BootTitle
	}
	if src.Reboot != nil {
		out.Reboot = cloneBool(src.Reboot)
	}
	return &out
}

func overlayContainer(dst, src *config.ContainerConfig) *config.ContainerConfig {
	if dst == nil {
		clone := cloneContainer(src)
		return &clone
	}
	out := cloneContainer(dst)
	if src.Name != "" {
		out.Name = src.Name
	}
	if src.Tag != "" {
		out.Tag = src.Tag
	}
	if src.Maintainer != "" {
		out.Maintainer = src.Maintainer
	}
	if src.User != "" {
		out.User = src.User
	}
	if src.WorkingDir != "" {
		out.WorkingDir = src.WorkingDir
	}
	if len(src.Entrypoint) > 0 {
		out.Entrypoint = append([]string{}, src.Entrypoint...)
	}
	if len(src.Subcommand) > 0 {
		out.Subcommand = append([]string{}, src.Subcommand...)
	}
	if len(src.ExposedPorts) > 0 {
		out.ExposedPorts = append([]string{}, src.ExposedPorts...)
	}
	if len(src.Volumes) > 0 {
		out.Volumes = append([]string{}, src.Volumes...)
	}
	for k, v := range src.Environment {
		if out.Environment == nil {
			out.Environment = make(map[string]string)
		}
		out.Environment[k] = v
	}
	for k, v := range src.Labels {
		if out.Labels == nil {
			out.Labels = make(map[string]string)
		}
		out.Labels[k] = v
	}
	return &out
}

func overlayVagrant(dst, src *config.VagrantConfig) *config.VagrantConfig {
	if dst == nil {
		clone := *src
		return &clone
	}
	out := *dst
	if src.Provider != "" {
		out.Provider = src.Provider
	}
	if src.VirtualSize != 0 {
		out.VirtualSize = src.VirtualSize
	}
	return &out
}

// cloneTypeSpec deep-copies a type declaration so merged state never
// aliases the immutable document.
func cloneTypeSpec(t config.TypeSpec) config.TypeSpec {
	out := t
	out.Hybrid = cloneBool(t.Hybrid)
	out.InstallISO = cloneBool(t.InstallISO)
	out.InstallStick = cloneBool(t.InstallStick)
	if t.Size != nil {
		size := *t.Size
		out.Size = &size
	}
	if t.Machine != nil {
		machine := *t.Machine
		out.Machine = &machine
	}
	if t.OEMConfig != nil {
		oem := *t.OEMConfig
		oem.Swap = cloneBool(t.OEMConfig.Swap)
		oem.Recovery = cloneBool(t.OEMConfig.Recovery)
		oem.Reboot = cloneBool(t.OEMConfig.Reboot)
		out.OEMConfig = &oem
	}
	if t.Container != nil {
		container := cloneContainer(t.Container)
		out.Container = &container
	}
	if t.Vagrant != nil {
		vagrant := *t.Vagrant
		out.Vagrant = &vagrant
	}
	return out
}

func cloneContainer(c *config.ContainerConfig) config.ContainerConfig {
	out := *c
	out.Entrypoint = append([]string{}, c.Entrypoint...)
	out.Subcommand = append([]string{}, c.Subcommand...)
	out.ExposedPorts = append([]string{}, c.ExposedPorts...)
	out.Volumes = append([]string{}, c.Volumes...)
	if c.Environment != nil {
		out.Environment = make(map[string]string, len(c.Environment))
		for k, v := range c.Environment {
			out.Environment[k] = v
		}
	}
	if c.Labels != nil {
		out.Labels = make(map[string]string, len(c.Labels))
		for k, v := range c.Labels {
			out.Labels[k] = v
		}
	}
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
