package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// Combination pairs one profile selection with one build type for dry
// resolution across a whole document.
type Combination struct {
	Profiles  []string
	BuildType config.BuildType
}

// CombinationResult is the outcome of resolving one combination.
type CombinationResult struct {
	Combination Combination
	Plan        *Plan
	Err         error
}

// Combinations enumerates the default selection plus each declared profile
// alone, crossed with every declared build type. It covers the variants a
// description author plausibly intends to build.
func Combinations(doc *config.Description) []Combination {
	selections := [][]string{nil}
	for _, p := range doc.Profiles {
		selections = append(selections, []string{p.Name})
	}

	types := doc.DeclaredBuildTypes()
	if len(types) == 0 {
		types = []config.BuildType{""}
	}

	var combos []Combination
	for _, sel := range selections {
		for _, t := range types {
			combos = append(combos, Combination{Profiles: sel, BuildType: t})
		}
	}
	return combos
}

// ResolveAll resolves every combination in parallel against the same
// read-only document. Resolutions are independent; no locking is needed
// because nothing is mutated. Results are returned in combination order.
func ResolveAll(ctx context.Context, doc *config.Description, arch string, combos []Combination) []CombinationResult {
	results := make([]CombinationResult, len(combos))

	g, ctx := errgroup.WithContext(ctx)
	for i, combo := range combos {
		g.Go(func() error {
			plan, err := Resolve(ctx, doc, Request{
				Profiles:  combo.Profiles,
				BuildType: combo.BuildType,
				Arch:      arch,
			})
			results[i] = CombinationResult{Combination: combo, Plan: plan, Err: err}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in results

	return results
}
