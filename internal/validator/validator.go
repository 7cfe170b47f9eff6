package validator

import (
	"context"

	"svw.info/logicgrid/internal/domain"
)

// FastValidator performs cheap pre- and post-generation checks that
// need no solver: grid configuration and clue soundness.
type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

// ValidateGrid runs the configuration checks; any failure is a fatal
// ConfigurationError.
func (v *FastValidator) ValidateGrid(ctx context.Context, g *domain.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.Validate()
}

// Check evaluates every clue against the canonical solution and
// collects the unsound ones. A non-empty result means a generator bug:
// the catalog must only ever emit true clues.
func (v *FastValidator) Check(ctx context.Context, clues []domain.Clue, sol *domain.Solution) (bool, []domain.Clue, error) {
	var unsound []domain.Clue
	for _, c := range clues {
		if err := ctx.Err(); err != nil {
			return false, unsound, err
		}
		if !c.Holds(sol) {
			unsound = append(unsound, c)
		}
	}
	return len(unsound) == 0, unsound, nil
}
