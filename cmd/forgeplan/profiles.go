package main

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

var profilesFilterExpr string

// ProfileEnv is the evaluation environment for profile filter expressions.
type ProfileEnv struct {
	Name        string   `expr:"name"`
	Description string   `expr:"description"`
	Imported    bool     `expr:"imported"`
	Requires    []string `expr:"requires"`
}

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles <description.yaml>",
	Short: "List the profiles declared in a description",
	Long: `List every profile a description declares, with its requires edges and
import flag.

Filtering:
  --filter "imported"                      Only default-imported profiles
  --filter "'base' in requires"            Profiles composed on base`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runProfilesAction(args[0])
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)

	profilesCmd.Flags().StringVar(&profilesFilterExpr, "filter", "", "Filter expression (e.g. \"imported\")")
}

// runProfilesAction implements the core logic for the profiles command
func runProfilesAction(descPath string) error {
	doc, err := config.LoadDescription(descPath)
	if err != nil {
		return fmt.Errorf("failed to load description: %w", err)
	}

	// Compile --filter expression ONCE at startup
	filter := func(ProfileEnv) (bool, error) { return true, nil }
	if profilesFilterExpr != "" {
		compiled, err := expr.Compile(profilesFilterExpr,
			expr.Env(ProfileEnv{}),
			expr.AsBool())
		if err != nil {
			return fmt.Errorf("invalid --filter expression: %w\nExample: imported || 'base' in requires", err)
		}
		filter = func(env ProfileEnv) (bool, error) {
			out, err := expr.Run(compiled, env)
			if err != nil {
				return false, fmt.Errorf("filter expression error: %w", err)
			}
			matched, ok := out.(bool)
			if !ok {
				return false, fmt.Errorf("filter expression did not return boolean: %v", out)
			}
			return matched, nil
		}
	}

	for _, p := range doc.Profiles {
		matched, err := filter(ProfileEnv{
			Name:        p.Name,
			Description: p.Description,
			Imported:    p.Import,
			Requires:    p.Requires,
		})
		if err != nil {
			return err
		}
		if !matched {
			continue
		}

		line := p.Name
		if p.Import {
			line += " [import]"
		}
		if len(p.Requires) > 0 {
			line += " requires " + strings.Join(p.Requires, ", ")
		}
		if p.Description != "" {
			line += " - " + p.Description
		}
		fmt.Println(line)
	}

	return nil
}
