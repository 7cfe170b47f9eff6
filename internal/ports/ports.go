package ports

import (
	"context"
	"math/rand"
	"time"

	"svw.info/logicgrid/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Solves   int
	Clauses  int
	Duration time.Duration
}

// EnumResult is the outcome of a bounded solution enumeration.
// Complete is false when the search gave up on a wall-clock budget
// before either exhausting the space or hitting the limit; callers
// must then treat the model as not-proven-unique.
type EnumResult struct {
	Assignments []domain.Assignment
	Complete    bool
}

// Solver enumerates satisfying assignments of a clue set over a grid,
// up to a limit. Implementations must stop searching as soon as the
// limit is reached; exhaustive enumeration is never required.
type Solver interface {
	Enumerate(ctx context.Context, grid *domain.Grid, clues []domain.Clue, limit int) (EnumResult, Stats, error)
}

// Catalog builds the deduplicated pool of true clues for a solution.
type Catalog interface {
	Build(sol *domain.Solution, rng *rand.Rand) (map[domain.ClueType][]domain.Clue, error)
}

// Assembler selects a clue core and enforces solution uniqueness.
// It returns the final clue list and the unused remaining pool.
type Assembler interface {
	Assemble(ctx context.Context, sol *domain.Solution, pool map[domain.ClueType][]domain.Clue, rng *rand.Rand) (core, remaining []domain.Clue, stats Stats, err error)
}

// Auditor picks the hardest answerable question for a clue set.
// ok is false when no candidate reaches the configured minimum
// reasoning depth; that is a soft condition, not an error.
type Auditor interface {
	SelectQuestion(clues []domain.Clue, sol *domain.Solution, minPathLen int, rng *rand.Rand) (q domain.Question, ok bool)
}

// Validator performs fast, solver-free checks.
type Validator interface {
	ValidateGrid(ctx context.Context, g *domain.Grid) error
	Check(ctx context.Context, clues []domain.Clue, sol *domain.Solution) (ok bool, unsound []domain.Clue, err error)
}

// Renderer turns clues and puzzles into their textual form.
type Renderer interface {
	FormatClue(c domain.Clue) (string, error)
	RenderPuzzle(p *domain.Puzzle) (string, error)
	RenderSolution(p *domain.Puzzle) (string, error)
}

// Storage persists rendered puzzles and their solution files under the
// size-based naming convention the downstream judge tooling relies on.
type Storage interface {
	Save(ctx context.Context, p *domain.Puzzle, puzzleText, solutionText string) (puzzlePath, solutionPath string, err error)
	LoadPuzzleText(ctx context.Context, n int) (string, error)
}
