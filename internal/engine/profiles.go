package engine

import (
	"github.com/forgeplan-dev/forgeplan/internal/config"
)

// DFS colors for cycle detection.
const (
	colorWhite = iota // unvisited
	colorGray         // visiting, on the current path
	colorBlack        // fully visited
)

// resolveActiveProfiles computes the active-profile set for one resolution:
// the requested profiles plus the transitive closure over requires edges.
// When the request is empty, the description's import-flagged profiles act
// as the default request; an explicit request replaces them entirely.
//
// The whole requires graph is checked for cycles and dangling references
// before the closure is taken, since those are document invariants, not
// properties of one request. Both checks are fail-fast: no merge stage
// runs on failure because the active set would be undefined.
//
// The returned names follow profile declaration order so that resolution
// output is deterministic regardless of request order.
func resolveActiveProfiles(doc *config.Description, requested []string) ([]string, error) {
	declared := make(map[string]*config.Profile, len(doc.Profiles))
	for i := range doc.Profiles {
		declared[doc.Profiles[i].Name] = &doc.Profiles[i]
	}

	if err := checkRequiresGraph(doc, declared); err != nil {
		return nil, err
	}

	roots := requested
	if len(roots) == 0 {
		roots = doc.ImportProfiles()
	}

	for _, name := range requested {
		if _, ok := declared[name]; !ok {
			return nil, &UnknownProfileError{Name: name, ReferencedBy: "request"}
		}
	}

	// Transitive closure over requires edges.
	active := make(map[string]bool)
	var include func(name string)
	include = func(name string) {
		if active[name] {
			return
		}
		active[name] = true
		for _, req := range declared[name].Requires {
			include(req)
		}
	}
	for _, name := range roots {
		include(name)
	}

	// Declaration order keeps the result stable across request permutations.
	names := make([]string, 0, len(active))
	for _, p := range doc.Profiles {
		if active[p.Name] {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// checkRequiresGraph validates every requires edge and detects cycles via
// depth-first traversal with a visiting/visited marker. A back-edge to a
// node still being visited yields CyclicRequiresError with the offending
// chain.
func checkRequiresGraph(doc *config.Description, declared map[string]*config.Profile) error {
	colors := make(map[string]int, len(declared))

	var path []string
	var visit func(name string) error
	visit = func(name string) error {
		colors[name] = colorGray
		path = append(path, name)

		for _, req := range declared[name].Requires {
			target, ok := declared[req]
			if !ok {
				return &UnknownProfileError{Name: req, ReferencedBy: name}
			}
			switch colors[target.Name] {
			case colorGray:
				// Back-edge: close the chain at the repeated node.
				chain := append(append([]string{}, path...), target.Name)
				return &CyclicRequiresError{Chain: chain}
			case colorWhite:
				if err := visit(target.Name); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		colors[name] = colorBlack
		return nil
	}

	for _, p := range doc.Profiles {
		if colors[p.Name] == colorWhite {
			if err := visit(p.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
