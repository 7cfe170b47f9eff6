package generator

import (
	"context"
	"sort"

	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/ports"
)

// minimize removes redundant non-anchor clues: a clue is dropped when
// the puzzle stays uniquely solvable without it. Weak kinds are tried
// first so the strong clues that give the puzzle its character stay.
func (a *CoreAssembler) minimize(ctx context.Context, sol *domain.Solution, clues []domain.Clue) ([]domain.Clue, ports.Stats, error) {
	anchorKeys := make(map[string]bool)
	for _, c := range Anchors(sol) {
		anchorKeys[c.Key()] = true
	}

	order := make([]domain.Clue, 0, len(clues))
	for _, c := range clues {
		if !anchorKeys[c.Key()] {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return domain.ClueStrength[order[i].Kind()] < domain.ClueStrength[order[j].Kind()]
	})

	current := append([]domain.Clue(nil), clues...)
	var stats ports.Stats
	for _, candidate := range order {
		trial := make([]domain.Clue, 0, len(current)-1)
		for _, c := range current {
			if c.Key() != candidate.Key() {
				trial = append(trial, c)
			}
		}
		res, st, err := a.Solver.Enumerate(ctx, sol.Grid, trial, 2)
		stats.Solves += st.Solves
		stats.Duration += st.Duration
		if err != nil {
			return nil, stats, err
		}
		if res.Complete && len(res.Assignments) == 1 {
			current = trial
		}
	}
	return current, stats, nil
}
