package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/forgeplan-dev/forgeplan/internal/config"
	"github.com/forgeplan-dev/forgeplan/internal/engine"
)

// TableFormatter formats a build plan as a human-readable table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the plan as a table.
func (f *TableFormatter) Format(plan *engine.Plan) error {
	// Print header
	fmt.Fprintf(f.writer, "Image: %s\n", plan.Image)
	fmt.Fprintf(f.writer, "Build type: %s", plan.BuildType)
	if plan.Type.BootProfile != "" {
		fmt.Fprintf(f.writer, " (bootprofile %s)", plan.Type.BootProfile)
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintf(f.writer, "Architecture: %s\n", plan.Arch)
	if len(plan.Profiles) > 0 {
		fmt.Fprintf(f.writer, "Profiles: %s\n", strings.Join(plan.Profiles, ", "))
	}
	fmt.Fprintln(f.writer)

	f.formatType(plan)
	f.formatPackages(plan)
	f.formatRepositories(plan)
	f.formatDriversAndStrip(plan)
	f.formatUsers(plan)
	f.formatWarnings(plan)

	return nil
}

func (f *TableFormatter) formatType(plan *engine.Plan) {
	fmt.Fprintln(f.writer, "Type:")
	t := plan.Type
	if t.Filesystem != "" {
		fmt.Fprintf(f.writer, "  Filesystem: %s\n", t.Filesystem)
	}
	if t.BootLoader != "" {
		fmt.Fprintf(f.writer, "  Bootloader: %s\n", t.BootLoader)
	}
	if t.Firmware != "" {
		fmt.Fprintf(f.writer, "  Firmware: %s\n", t.Firmware)
	}
	if t.Boot != "" {
		fmt.Fprintf(f.writer, "  Boot image: %s\n", t.Boot)
	}
	if t.BootKernel != "" {
		fmt.Fprintf(f.writer, "  Boot kernel: %s\n", t.BootKernel)
	}
	if t.KernelCmdline != "" {
		fmt.Fprintf(f.writer, "  Kernel cmdline: %s\n", t.KernelCmdline)
	}
	if t.Size != nil {
		unit := t.Size.Unit
		if unit == "" {
			unit = "M"
		}
		fmt.Fprintf(f.writer, "  Size: %d%s\n", t.Size.Value, unit)
	}
	if t.Container != nil && t.Container.Name != "" {
		fmt.Fprintf(f.writer, "  Container: %s:%s\n", t.Container.Name, t.Container.Tag)
	}
	fmt.Fprintln(f.writer)
}

func (f *TableFormatter) formatPackages(plan *engine.Plan) {
	fmt.Fprintln(f.writer, "Packages:")
	for _, bucket := range config.KnownBuckets {
		refs := plan.Packages.Bucket(bucket)
		if len(refs) == 0 {
			continue
		}
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			name := ref.Name
			if ref.Kind != config.KindPackage {
				name += " (" + string(ref.Kind) + ")"
			}
			names = append(names, name)
		}
		fmt.Fprintf(f.writer, "  %-10s %s\n", string(bucket)+":", strings.Join(names, ", "))
	}
	fmt.Fprintln(f.writer)
}

func (f *TableFormatter) formatRepositories(plan *engine.Plan) {
	if len(plan.Repositories) == 0 {
		return
	}
	fmt.Fprintln(f.writer, "Repositories (by priority):")
	for _, repo := range plan.Repositories {
		fmt.Fprintf(f.writer, "  [%d] %s", repo.Priority, repo.Path)
		if repo.SourceType != "" {
			fmt.Fprintf(f.writer, " (%s)", repo.SourceType)
		}
		fmt.Fprintln(f.writer)
	}
	fmt.Fprintln(f.writer)
}

func (f *TableFormatter) formatDriversAndStrip(plan *engine.Plan) {
	if len(plan.Drivers) > 0 {
		fmt.Fprintf(f.writer, "Drivers: %s\n", strings.Join(plan.Drivers, ", "))
	}
	if len(plan.Strip.Delete) > 0 {
		fmt.Fprintf(f.writer, "Strip delete: %s\n", strings.Join(plan.Strip.Delete, ", "))
	}
	if len(plan.Strip.Tools) > 0 {
		fmt.Fprintf(f.writer, "Strip tools: %s\n", strings.Join(plan.Strip.Tools, ", "))
	}
	if len(plan.Strip.Libs) > 0 {
		fmt.Fprintf(f.writer, "Strip libs: %s\n", strings.Join(plan.Strip.Libs, ", "))
	}
	if len(plan.Drivers) > 0 || len(plan.Strip.Delete) > 0 || len(plan.Strip.Tools) > 0 || len(plan.Strip.Libs) > 0 {
		fmt.Fprintln(f.writer)
	}
}

func (f *TableFormatter) formatUsers(plan *engine.Plan) {
	if len(plan.Users) == 0 {
		return
	}
	fmt.Fprintln(f.writer, "Users:")
	for _, u := range plan.Users {
		fmt.Fprintf(f.writer, "  %s (group %s)\n", u.Name, u.Group)
	}
	fmt.Fprintln(f.writer)
}

func (f *TableFormatter) formatWarnings(plan *engine.Plan) {
	if len(plan.Warnings) == 0 {
		return
	}
	fmt.Fprintln(f.writer, strings.Repeat("─", 80))
	fmt.Fprintf(f.writer, "Warnings (%d):\n", len(plan.Warnings))
	for _, w := range plan.Warnings {
		fmt.Fprintf(f.writer, "  ⚠ %s\n", w.String())
	}
}
