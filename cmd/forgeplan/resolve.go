package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forgeplan-dev/forgeplan/internal/config"
	"github.com/forgeplan-dev/forgeplan/internal/engine"
	"github.com/forgeplan-dev/forgeplan/internal/output"
)

var (
	resolveProfiles    []string
	resolveType        string
	resolveArch        string
	resolveFormat      string
	resolveOutFile     string
	resolveInteractive bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <description.yaml>",
	Short: "Resolve a description into an effective build plan",
	Long: `Load an appliance description and resolve it for a combination of active
profiles, build type, and target architecture.

Selection:
  --profile vmxFlavour        Activate a profile (repeatable); omit to use
                              the description's import-flagged defaults
  --type oem                  Build type to resolve; omit to use the
                              primary type declaration
  --arch x86_64               Target architecture
  --interactive               Pick profiles interactively
  --format oci                Emit an OCI image config (docker plans only)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolveAction(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringSliceVarP(&resolveProfiles, "profile", "p", nil, "Profiles to activate (repeatable)")
	resolveCmd.Flags().StringVarP(&resolveType, "type", "t", "", "Build type: vmx, oem, iso, docker, pxe, tbz")
	resolveCmd.Flags().StringVar(&resolveArch, "arch", "", "Target architecture (default x86_64)")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "table", "Output format: table, json, yaml, oci")
	resolveCmd.Flags().StringVarP(&resolveOutFile, "output", "o", "", "Output file path (default: stdout)")
	resolveCmd.Flags().BoolVar(&resolveInteractive, "interactive", false, "Select profiles interactively")
}

// runResolveAction implements the core logic for the resolve command
func runResolveAction(cmd *cobra.Command, descPath string) error {
	// Tags one invocation in logs; never part of the plan, which must be
	// byte-for-byte identical across identical requests.
	resolutionID := uuid.NewString()
	slog.Info("loading description", "path", descPath, "resolution_id", resolutionID)

	doc, err := config.LoadDescription(descPath)
	if err != nil {
		return fmt.Errorf("failed to load description: %w", err)
	}

	slog.Info("description loaded", "image", doc.Image.Name, "schemaversion", doc.Image.SchemaVersion, "profiles", len(doc.Profiles))

	sysConfig, err := loadSystemConfig()
	if err != nil {
		slog.Debug("failed to load system config, using defaults", "error", err)
		sysConfig = &config.SystemConfig{}
	}

	req := engine.Request{
		Profiles:  resolveProfiles,
		BuildType: config.BuildType(resolveType),
		Arch:      resolveArch,
	}
	applyRequestDefaults(&req, sysConfig)

	if resolveType != "" && !config.IsKnownBuildType(req.BuildType) {
		return fmt.Errorf("unknown build type %q (known: vmx, oem, iso, docker, pxe, tbz)", resolveType)
	}

	if resolveInteractive && len(req.Profiles) == 0 && len(doc.Profiles) > 0 {
		selected, err := selectProfilesInteractively(doc)
		if err != nil {
			return err
		}
		req.Profiles = selected
	}

	slog.Info("resolving", "profiles", req.Profiles, "type", req.BuildType, "arch", req.Arch)

	plan, err := engine.Resolve(cmd.Context(), doc, req)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	slog.Info("resolution complete",
		"resolution_id", resolutionID,
		"type", plan.BuildType,
		"image_packages", len(plan.Packages.Image),
		"repositories", len(plan.Repositories),
		"warnings", len(plan.Warnings))

	writer := os.Stdout
	if resolveOutFile != "" {
		//nolint:gosec // G304: User-controlled output file path is intentional
		file, err := os.Create(resolveOutFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
		slog.Info("writing output", "file", resolveOutFile, "format", resolveFormat)
	}

	return formatPlan(writer, plan, resolveFormat)
}

// applyRequestDefaults fills unset request fields from the system config,
// falling back to x86_64 for the architecture.
func applyRequestDefaults(req *engine.Request, sysConfig *config.SystemConfig) {
	if len(req.Profiles) == 0 && len(sysConfig.Defaults.Profiles) > 0 {
		req.Profiles = sysConfig.Defaults.Profiles
	}
	if req.Arch == "" {
		req.Arch = sysConfig.Defaults.Arch
	}
	if req.Arch == "" {
		req.Arch = "x86_64"
	}
}

// selectProfilesInteractively prompts for a profile subset.
func selectProfilesInteractively(doc *config.Description) ([]string, error) {
	options := make([]huh.Option[string], 0, len(doc.Profiles))
	for _, p := range doc.Profiles {
		label := p.Name
		if p.Description != "" {
			label = fmt.Sprintf("%s (%s)", p.Name, p.Description)
		}
		options = append(options, huh.NewOption(label, p.Name).Selected(p.Import))
	}

	var selected []string
	err := huh.NewMultiSelect[string]().
		Title("Select profiles to activate").
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return nil, err
	}
	return selected, nil
}

// loadSystemConfig loads the global configuration.
func loadSystemConfig() (*config.SystemConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(homeDir, ".forgeplan", "config.yaml")

	return config.LoadSystemConfig(configPath)
}

// formatPlan formats the plan using the specified formatter
func formatPlan(writer *os.File, plan *engine.Plan, format string) error {
	if format == "" {
		format = viper.GetString("defaults.format")
	}
	switch format {
	case "table", "":
		formatter := output.NewTableFormatter(writer)
		return formatter.Format(plan)
	case "json":
		formatter := output.NewJSONFormatter(writer, true) // Pretty-print JSON
		return formatter.Format(plan)
	case "yaml":
		formatter := output.NewYAMLFormatter(writer)
		return formatter.Format(plan)
	case "oci":
		img, err := output.OCIImageConfig(plan)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(img, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(writer, string(data))
		return err
	default:
		return fmt.Errorf("unknown format: %s (supported: table, json, yaml, oci)", format)
	}
}
