package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"svw.info/logicgrid/internal/domain"
)

// FS persists rendered puzzles under the size-based naming convention
// downstream judge tooling relies on: puzzles/{N}x{N}.txt with the
// companion solutions/{N}x{N}_solution.txt.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func (s *FS) puzzlePath(n int) string {
	return filepath.Join(s.dir, "puzzles", fmt.Sprintf("%dx%d.txt", n, n))
}

func (s *FS) solutionPath(n int) string {
	return filepath.Join(s.dir, "solutions", fmt.Sprintf("%dx%d_solution.txt", n, n))
}

func (s *FS) metaPath(n int) string {
	return filepath.Join(s.dir, "solutions", fmt.Sprintf("%dx%d_meta.json", n, n))
}

// Save writes the puzzle text, the solution self-check file, and a
// JSON metadata sidecar for debugging.
func (s *FS) Save(ctx context.Context, p *domain.Puzzle, puzzleText, solutionText string) (string, string, error) {
	if p == nil || p.Grid == nil {
		return "", "", errors.New("invalid puzzle: missing grid")
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	pp := s.puzzlePath(p.Grid.N)
	sp := s.solutionPath(p.Grid.N)
	for _, path := range []string{pp, sp} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", "", err
		}
	}
	if err := os.WriteFile(pp, []byte(puzzleText), 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(sp, []byte(solutionText), 0o644); err != nil {
		return "", "", err
	}

	meta, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(s.metaPath(p.Grid.N), append(meta, '\n'), 0o644); err != nil {
		return "", "", err
	}
	return pp, sp, nil
}

// LoadPuzzleText reads back a stored puzzle of the given size.
func (s *FS) LoadPuzzleText(ctx context.Context, n int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.puzzlePath(n))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
