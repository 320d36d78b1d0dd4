package engine

import (
	"regexp"
	"strings"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// PackageRef is one resolved package-list entry. Arch keeps the parsed
// architecture filter and the boot flags pass through unopened for the
// downstream builder.
type PackageRef struct {
	Name        string             `json:"name" yaml:"name"`
	Kind        config.PackageKind `json:"kind" yaml:"kind"`
	Arch        []string           `json:"arch,omitempty" yaml:"arch,omitempty"`
	BootInclude bool               `json:"bootinclude,omitempty" yaml:"bootinclude,omitempty"`
	BootDelete  bool               `json:"bootdelete,omitempty" yaml:"bootdelete,omitempty"`
}

// PackageSet holds the purpose-keyed package buckets of a plan.
type PackageSet struct {
	Image     []PackageRef `json:"image,omitempty" yaml:"image,omitempty"`
	ISO       []PackageRef `json:"iso,omitempty" yaml:"iso,omitempty"`
	OEM       []PackageRef `json:"oem,omitempty" yaml:"oem,omitempty"`
	Bootstrap []PackageRef `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
	Delete    []PackageRef `json:"delete,omitempty" yaml:"delete,omitempty"`
	Uninstall []PackageRef `json:"uninstall,omitempty" yaml:"uninstall,omitempty"`
}

// Bucket returns the list for the given bucket name.
func (s *PackageSet) Bucket(b config.PackageBucket) []PackageRef {
	switch b {
	case config.BucketImage:
		return s.Image
	case config.BucketISO:
		return s.ISO
	case config.BucketOEM:
		return s.OEM
	case config.BucketBootstrap:
		return s.Bootstrap
	case config.BucketDelete:
		return s.Delete
	case config.BucketUninstall:
		return s.Uninstall
	}
	return nil
}

// Architecture names: alphanumeric with underscores, e.g. x86_64, aarch64.
var archNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// parseArchFilter splits a comma-separated architecture filter into a name
// set. An empty filter returns nil, meaning the entry applies everywhere.
func parseArchFilter(filter string) ([]string, error) {
	if filter == "" {
		return nil, nil
	}
	parts := strings.Split(filter, ",")
	archs := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, &ArchFilterError{Filter: filter, Reason: "empty architecture name"}
		}
		if !archNamePattern.MatchString(name) {
			return nil, &ArchFilterError{Filter: filter, Reason: "malformed architecture name " + name}
		}
		archs = append(archs, name)
	}
	return archs, nil
}

// archMatches reports whether an entry with the given filter applies to the
// target architecture. An absent filter always passes.
func archMatches(filter []string, target string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, a := range filter {
		if a == target {
			return true
		}
	}
	return false
}

// bucketState accumulates one bucket with duplicate collapsing. Collision
// policy: the most specific scope wins - a profile-scoped entry's flags
// override an unscoped one's; equally specific entries resolve to the later
// declaration. The first occurrence keeps its position, so declaration
// order survives collisions.
type bucketState struct {
	refs     []PackageRef
	position map[string]int
	scoped   map[string]bool
}

func newBucketState() *bucketState {
	return &bucketState{position: make(map[string]int), scoped: make(map[string]bool)}
}

func (b *bucketState) add(ref PackageRef, fromScoped bool) {
	pos, exists := b.position[ref.Name]
	if !exists {
		b.position[ref.Name] = len(b.refs)
		b.scoped[ref.Name] = fromScoped
		b.refs = append(b.refs, ref)
		return
	}
	if b.scoped[ref.Name] && !fromScoped {
		// Existing profile-scoped entry beats an unscoped duplicate.
		return
	}
	b.refs[pos] = ref
	b.scoped[ref.Name] = fromScoped
}

func (b *bucketState) remove(name string) {
	pos, exists := b.position[name]
	if !exists {
		return
	}
	b.refs = append(b.refs[:pos], b.refs[pos+1:]...)
	delete(b.position, name)
	delete(b.scoped, name)
	for n, p := range b.position {
		if p > pos {
			b.position[n] = p - 1
		}
	}
}

// assemblePackages merges package, archive, product, and collection entries
// from active scopes into typed buckets, applies architecture filters, and
// subtracts ignore entries from the image bucket. Ignore rules never touch
// the other buckets regardless of where they were declared.
func assemblePackages(active []indexed[config.PackagesSection], targetArch string) (PackageSet, []Finding) {
	var findings []Finding

	buckets := make(map[config.PackageBucket]*bucketState, len(config.KnownBuckets))
	for _, b := range config.KnownBuckets {
		buckets[b] = newBucketState()
	}

	type ignoreRule struct {
		name string
		arch []string
	}
	var ignores []ignoreRule

	for _, item := range active {
		section := item.Section
		label := scopeLabel(section.Scope)

		for _, entry := range section.Entries {
			archs, err := parseArchFilter(entry.Arch)
			if err != nil {
				findings = append(findings, errorFinding("packages", label, item.Index, err))
				continue
			}

			if entry.EffectiveKind() == config.KindIgnore {
				ignores = append(ignores, ignoreRule{name: entry.Name, arch: archs})
				continue
			}

			if !archMatches(archs, targetArch) {
				continue
			}

			bucket, ok := buckets[section.Type]
			if !ok {
				findings = append(findings, warningFinding("packages", label, item.Index, "unknown package bucket %q", section.Type))
				continue
			}
			bucket.add(PackageRef{
				Name:        entry.Name,
				Kind:        entry.EffectiveKind(),
				Arch:        archs,
				BootInclude: entry.BootInclude,
				BootDelete:  entry.BootDelete,
			}, section.Scoped())
		}
	}

	// Subtractive pass: ignore entries only ever remove from the image
	// bucket, with the same architecture awareness as inclusion.
	for _, rule := range ignores {
		if archMatches(rule.arch, targetArch) {
			buckets[config.BucketImage].remove(rule.name)
		}
	}

	return PackageSet{
		Image:     buckets[config.BucketImage].refs,
		ISO:       buckets[config.BucketISO].refs,
		OEM:       buckets[config.BucketOEM].refs,
		Bootstrap: buckets[config.BucketBootstrap].refs,
		Delete:    buckets[config.BucketDelete].refs,
		Uninstall: buckets[config.BucketUninstall].refs,
	}, findings
}
