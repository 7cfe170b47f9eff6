package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"svw.info/logicgrid/internal/audit"
	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/ports"
	"svw.info/logicgrid/internal/theme"
)

// Service wires the generation pipeline: catalog, assembler, auditor,
// validator, renderer, and storage behind their ports.
type Service struct {
	Catalog   ports.Catalog
	Assembler ports.Assembler
	Auditor   ports.Auditor
	Validator ports.Validator
	Renderer  ports.Renderer
	Storage   ports.Storage
}

func NewService(c ports.Catalog, a ports.Assembler, q ports.Auditor, v ports.Validator, r ports.Renderer, st ports.Storage) *Service {
	return &Service{Catalog: c, Assembler: a, Auditor: q, Validator: v, Renderer: r, Storage: st}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// GenerateConfig describes one generation run. The seed alone
// reproduces the run: every random decision flows from it.
type GenerateConfig struct {
	Theme      theme.Theme
	N          int
	Categories int
	Circular   bool
	Seed       int64
	MinPathLen int
	MaxRetries int
}

func (c *GenerateConfig) defaults() {
	if c.MinPathLen == 0 {
		c.MinPathLen = audit.DefaultMinPathLen
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 5
	}
}

// GenerateResult carries the finished puzzle plus the soft audit flag
// and the unused catalog pool.
type GenerateResult struct {
	Puzzle    *domain.Puzzle
	AuditOK   bool
	Remaining []domain.Clue
	Stats     ports.Stats
}

// Generate runs the full pipeline with bounded retries: a fresh
// solution is drawn whenever assembly stays ambiguous or the audit
// finds no question of sufficient depth.
func (u *Service) Generate(ctx context.Context, cfg GenerateConfig) (*GenerateResult, error) {
	if u.Catalog == nil || u.Assembler == nil || u.Auditor == nil || u.Validator == nil {
		return nil, errNotConfigured
	}
	cfg.defaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	var stats ports.Stats
	var lastErr error
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		grid, err := cfg.Theme.Grid(cfg.N, cfg.Categories, cfg.Circular, rng)
		if err != nil {
			return nil, err
		}
		if err := u.Validator.ValidateGrid(ctx, grid); err != nil {
			return nil, err
		}
		sol, err := domain.GenerateSolution(grid, rng)
		if err != nil {
			return nil, err
		}
		pool, err := u.Catalog.Build(sol, rng)
		if err != nil {
			return nil, err
		}

		core, remaining, st, err := u.Assembler.Assemble(ctx, sol, pool, rng)
		stats.Solves += st.Solves
		stats.Clauses += st.Clauses
		stats.Duration += st.Duration
		if err != nil {
			var ambiguous *domain.AmbiguousPuzzleError
			if errors.As(err, &ambiguous) {
				lastErr = err
				continue // recoverable: retry with a fresh solution
			}
			return nil, err
		}

		ok, unsound, err := u.Validator.Check(ctx, core, sol)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("generator emitted %d unsound clues", len(unsound))
		}

		question, auditOK := u.Auditor.SelectQuestion(core, sol, cfg.MinPathLen, rng)
		if question.SubjectCategory == "" {
			// no candidate at all; rendering a zero question would
			// produce garbage text
			lastErr = errors.New("auditor produced no question candidates")
			continue
		}
		if !auditOK && attempt < cfg.MaxRetries-1 {
			lastErr = fmt.Errorf("no question reaches path length %d", cfg.MinPathLen)
			continue // soft condition: try a fresh puzzle first
		}

		return &GenerateResult{
			Puzzle: &domain.Puzzle{
				ID:        uuid.NewString(),
				Seed:      cfg.Seed,
				Theme:     cfg.Theme.Name,
				Grid:      grid,
				Clues:     core,
				Question:  question,
				Solution:  sol,
				CreatedAt: time.Now().UnixNano(),
			},
			AuditOK:   auditOK,
			Remaining: remaining,
			Stats:     stats,
		}, nil
	}
	if lastErr == nil {
		lastErr = errors.New("generation retries exhausted")
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", cfg.MaxRetries, lastErr)
}

// Render produces the puzzle and solution texts.
func (u *Service) Render(p *domain.Puzzle) (puzzleText, solutionText string, err error) {
	if u.Renderer == nil {
		return "", "", errNotConfigured
	}
	puzzleText, err = u.Renderer.RenderPuzzle(p)
	if err != nil {
		return "", "", err
	}
	solutionText, err = u.Renderer.RenderSolution(p)
	if err != nil {
		return "", "", err
	}
	return puzzleText, solutionText, nil
}

// Save persists the rendered texts under the size-based naming scheme.
func (u *Service) Save(ctx context.Context, p *domain.Puzzle, puzzleText, solutionText string) (string, string, error) {
	if u.Storage == nil {
		return "", "", errNotConfigured
	}
	return u.Storage.Save(ctx, p, puzzleText, solutionText)
}
