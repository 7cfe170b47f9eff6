// Package generator assembles the final clue list for a puzzle and
// enforces that it pins down exactly one solution.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/ports"
)

// maxIterations bounds the disambiguation loop; past it the puzzle is
// reported ambiguous and the caller retries with a fresh solution.
const maxIterations = 50

// exoticKinds are forced into the core one instance each when the
// catalog has them, so every puzzle shows structural variety.
var exoticKinds = []domain.ClueType{
	domain.KindIfNotThenNot,
	domain.KindThreeInARow,
	domain.KindOrderedChain,
	domain.KindAtEdge,
	domain.KindSumEquals,
	domain.KindEitherOr,
	domain.KindIfAndOnlyIf,
	domain.KindNeitherNorPos,
}

// complexKinds pad the core beyond the exotic picks.
var complexKinds = []domain.ClueType{
	domain.KindIfThen,
	domain.KindRelativePos,
	domain.KindNegativeDirectLink,
	domain.KindIsEven,
	domain.KindDistanceGreaterThan,
}

// CoreAssembler builds a diverse clue core and grows it, guided by
// solver feedback, until the model has exactly one solution.
type CoreAssembler struct {
	Solver ports.Solver
	// Trim enables the redundancy-removal pass after uniqueness is
	// reached. Off by default: padding clues are intentionally kept
	// to diversify what the puzzle shows.
	Trim bool
}

func NewCoreAssembler(s ports.Solver) *CoreAssembler {
	return &CoreAssembler{Solver: s}
}

// Anchors returns the symmetry-breaking starter clues: the first
// category's item at position 1, plus one adjacency anchor between the
// first two categories on circular grids.
func Anchors(sol *domain.Solution) []domain.Clue {
	grid := sol.Grid
	first, _ := sol.ItemAt(grid.Categories[0].Name, 1)
	anchors := []domain.Clue{domain.Positional{Pos: 1, It: first}}
	if grid.Circular && len(grid.Categories) > 1 {
		second, _ := sol.ItemAt(grid.Categories[1].Name, 2)
		anchors = append(anchors, domain.NewRelativePos(first, second))
	}
	return anchors
}

// Assemble runs the full selection: anchors, exotic mix, complex
// padding, then the uniqueness loop. The returned remaining pool holds
// every catalog clue the core did not use.
func (a *CoreAssembler) Assemble(ctx context.Context, sol *domain.Solution, pool map[domain.ClueType][]domain.Clue, rng *rand.Rand) ([]domain.Clue, []domain.Clue, ports.Stats, error) {
	grid := sol.Grid
	core := Anchors(sol)
	inCore := make(map[string]bool, len(core))
	for _, c := range core {
		inCore[c.Key()] = true
	}
	push := func(c domain.Clue) bool {
		if c == nil || inCore[c.Key()] {
			return false
		}
		inCore[c.Key()] = true
		core = append(core, c)
		return true
	}

	for _, kind := range exoticKinds {
		if candidates := pool[kind]; len(candidates) > 0 {
			push(candidates[rng.Intn(len(candidates))])
		}
	}

	var complex []domain.Clue
	for _, kind := range complexKinds {
		complex = append(complex, pool[kind]...)
	}
	rng.Shuffle(len(complex), func(i, j int) { complex[i], complex[j] = complex[j], complex[i] })
	quota := int(math.Ceil(1.5 * float64(grid.N)))
	for _, c := range complex {
		if quota == 0 {
			break
		}
		if push(c) {
			quota--
		}
	}

	var stats ports.Stats
	canonical := sol.Assignment()
	unique := false
	for iter := 0; iter < maxIterations; iter++ {
		res, st, err := a.Solver.Enumerate(ctx, grid, core, 2)
		stats.Solves += st.Solves
		stats.Clauses += st.Clauses
		stats.Duration += st.Duration
		if err != nil {
			return nil, nil, stats, err
		}
		switch {
		case res.Complete && len(res.Assignments) == 1:
			if !res.Assignments[0].Equal(canonical) {
				return nil, nil, stats, fmt.Errorf("unique solution diverges from canonical assignment")
			}
			unique = true
		case res.Complete && len(res.Assignments) == 0:
			return nil, nil, stats, fmt.Errorf("clue core became unsatisfiable")
		case len(res.Assignments) >= 2:
			diff := FindDifferenceAndCreateClue(res.Assignments[0], res.Assignments[1], sol, rng)
			if diff == nil || !push(diff) {
				return nil, nil, stats, fmt.Errorf("no differentiating clue between candidate solutions")
			}
		default:
			// Solve budget ran out before the space was settled.
			// Strengthen with an unused complex clue and retry.
			strengthened := false
			for _, c := range complex {
				if push(c) {
					strengthened = true
					break
				}
			}
			if !strengthened {
				return nil, nil, stats, &domain.AmbiguousPuzzleError{Iterations: iter + 1, Clues: len(core)}
			}
		}
		if unique {
			break
		}
	}
	if !unique {
		return nil, nil, stats, &domain.AmbiguousPuzzleError{Iterations: maxIterations, Clues: len(core)}
	}

	if a.Trim {
		trimmed, st, err := a.minimize(ctx, sol, core)
		stats.Solves += st.Solves
		stats.Duration += st.Duration
		if err != nil {
			return nil, nil, stats, err
		}
		core = trimmed
		inCore = make(map[string]bool, len(core))
		for _, c := range core {
			inCore[c.Key()] = true
		}
	}

	var remaining []domain.Clue
	for _, kind := range domain.ClueTypes() {
		for _, c := range pool[kind] {
			if !inCore[c.Key()] {
				remaining = append(remaining, c)
			}
		}
	}
	return core, remaining, stats, nil
}

// FindDifferenceAndCreateClue scans items in random order for the
// first one placed differently by the two candidate solutions and
// pins it at its canonical position. The result invalidates at least
// one spurious solution while staying sound.
func FindDifferenceAndCreateClue(s1, s2 domain.Assignment, sol *domain.Solution, rng *rand.Rand) domain.Clue {
	items := sol.Grid.Items()
	for _, idx := range rng.Perm(len(items)) {
		it := items[idx]
		if s1[it] != s2[it] {
			p, ok := sol.PositionOf(it)
			if !ok {
				return nil
			}
			return domain.Positional{Pos: p, It: it}
		}
	}
	return nil
}
