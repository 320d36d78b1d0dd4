package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/forgeplan-dev/forgeplan/internal/config"
	"github.com/forgeplan-dev/forgeplan/internal/engine"
	"github.com/forgeplan-dev/forgeplan/internal/output"
)

var (
	validateArch    string
	validateFormat  string
	validateOutFile string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <description.yaml>",
	Short: "Validate a description across its declared variants",
	Long: `Load an appliance description, validate its structure, and dry-resolve
every plausible (profiles, build type) combination: the default selection
plus each declared profile, crossed with every declared build type. All
findings are reported together so a single run surfaces every problem.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateAction(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateArch, "arch", "x86_64", "Target architecture for dry resolution")
	validateCmd.Flags().StringVar(&validateFormat, "format", "table", "Output format: table, sarif")
	validateCmd.Flags().StringVarP(&validateOutFile, "output", "o", "", "Output file path (default: stdout)")
}

// runValidateAction implements the core logic for the validate command
func runValidateAction(cmd *cobra.Command, descPath string) error {
	slog.Info("loading description", "path", descPath)

	// Structural and schema validation happen at load time.
	doc, err := config.LoadDescription(descPath)
	if err != nil {
		return fmt.Errorf("description is invalid: %w", err)
	}

	combos := engine.Combinations(doc)
	slog.Info("dry-resolving combinations", "count", len(combos), "arch", validateArch)

	results := engine.ResolveAll(cmd.Context(), doc, validateArch, combos)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	writer := os.Stdout
	if validateOutFile != "" {
		//nolint:gosec // G304: User-controlled output file path is intentional
		file, err := os.Create(validateOutFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
	}

	switch validateFormat {
	case "table":
		printResultsTable(writer, results)
	case "sarif":
		formatter := output.NewSARIFFormatter(writer, descPath, uuid.NewString())
		if err := formatter.Format(results); err != nil {
			return fmt.Errorf("failed to format SARIF output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s (supported: table, sarif)", validateFormat)
	}

	if failed > 0 {
		return fmt.Errorf("validation failed: %d of %d combinations did not resolve", failed, len(results))
	}
	return nil
}

// printResultsTable prints one line per combination plus its findings.
func printResultsTable(writer *os.File, results []engine.CombinationResult) {
	for _, r := range results {
		label := describeCombination(r.Combination)
		if r.Err == nil {
			fmt.Fprintf(writer, "✓ %s", label)
			if len(r.Plan.Warnings) > 0 {
				fmt.Fprintf(writer, " (%d warning(s))", len(r.Plan.Warnings))
			}
			fmt.Fprintln(writer)
			for _, w := range r.Plan.Warnings {
				fmt.Fprintf(writer, "    ⚠ %s\n", w.String())
			}
			continue
		}

		fmt.Fprintf(writer, "✗ %s\n", label)
		for _, line := range strings.Split(r.Err.Error(), "\n") {
			fmt.Fprintf(writer, "    %s\n", line)
		}
	}
}

func describeCombination(c engine.Combination) string {
	profiles := "default profiles"
	if len(c.Profiles) > 0 {
		profiles = "profiles " + strings.Join(c.Profiles, "+")
	}
	buildType := string(c.BuildType)
	if buildType == "" {
		buildType = "primary"
	}
	return fmt.Sprintf("%s, type %s", profiles, buildType)
}
