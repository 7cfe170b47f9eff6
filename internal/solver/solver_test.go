package solver

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"svw.info/logicgrid/internal/catalog"
	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/ports"
)

func smallGrid() *domain.Grid {
	return &domain.Grid{
		N: 3,
		Categories: []domain.Category{
			{Name: "color", Items: []string{"red", "green", "blue"}},
			{Name: "pet", Items: []string{"cat", "dog", "fox"}},
		},
	}
}

func item(cat, name string) domain.Item { return domain.Item{Category: cat, Name: name} }

// both solver implementations must behave identically, so every test
// runs against both.
func solvers() map[string]ports.Solver {
	return map[string]ports.Solver{
		"sat":       NewSATSolver(),
		"backtrack": NewBacktrackingSolver(),
	}
}

func TestEnumerateAnchorAloneIsAmbiguous(t *testing.T) {
	grid := smallGrid()
	clues := []domain.Clue{domain.Positional{Pos: 1, It: item("color", "red")}}
	for name, s := range solvers() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			res, st, err := s.Enumerate(ctx, grid, clues, 2)
			if err != nil {
				t.Fatalf("Enumerate failed: %v", err)
			}
			if len(res.Assignments) != 2 {
				t.Fatalf("got %d assignments, want 2 (model is underconstrained)", len(res.Assignments))
			}
			if !res.Complete {
				t.Fatalf("search gave up early: stats=%+v", st)
			}
			for _, a := range res.Assignments {
				if a[item("color", "red")] != 1 {
					t.Fatal("anchor violated in reported assignment")
				}
			}
		})
	}
}

func TestEnumerateFullyPinnedIsUnique(t *testing.T) {
	grid := smallGrid()
	clues := []domain.Clue{
		domain.Positional{Pos: 1, It: item("color", "red")},
		domain.Positional{Pos: 2, It: item("color", "green")},
		domain.Positional{Pos: 1, It: item("pet", "cat")},
		domain.Positional{Pos: 2, It: item("pet", "dog")},
	}
	want := domain.Assignment{
		item("color", "red"):   1,
		item("color", "green"): 2,
		item("color", "blue"):  3,
		item("pet", "cat"):     1,
		item("pet", "dog"):     2,
		item("pet", "fox"):     3,
	}
	for name, s := range solvers() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			res, _, err := s.Enumerate(ctx, grid, clues, 2)
			if err != nil {
				t.Fatalf("Enumerate failed: %v", err)
			}
			if !res.Complete || len(res.Assignments) != 1 {
				t.Fatalf("want exactly one solution, got %d (complete=%t)", len(res.Assignments), res.Complete)
			}
			if !res.Assignments[0].Equal(want) {
				t.Fatalf("wrong solution: %v", res.Assignments[0])
			}
		})
	}
}

func TestEnumerateContradictionIsUnsat(t *testing.T) {
	grid := smallGrid()
	red := item("color", "red")
	clues := []domain.Clue{
		domain.Positional{Pos: 1, It: red},
		domain.Positional{Pos: 2, It: red},
	}
	for name, s := range solvers() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			res, _, err := s.Enumerate(ctx, grid, clues, 2)
			if err != nil {
				t.Fatalf("Enumerate failed: %v", err)
			}
			if len(res.Assignments) != 0 || !res.Complete {
				t.Fatalf("contradiction not detected: %d assignments, complete=%t",
					len(res.Assignments), res.Complete)
			}
		})
	}
}

func TestEnumerateUnknownItem(t *testing.T) {
	grid := smallGrid()
	clues := []domain.Clue{domain.Positional{Pos: 1, It: item("color", "purple")}}
	for name, s := range solvers() {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Enumerate(context.Background(), grid, clues, 2)
			if err == nil {
				t.Fatal("clue over an unknown item accepted")
			}
		})
	}
}

// fingerprint flattens an assignment into a canonical string so sets
// of assignments can be compared across solvers.
func fingerprint(a domain.Assignment) string {
	parts := make([]string, 0, len(a))
	for it, p := range a {
		parts = append(parts, it.String()+"="+strconv.Itoa(p))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func fingerprints(assignments []domain.Assignment) []string {
	out := make([]string, len(assignments))
	for i, a := range assignments {
		out[i] = fingerprint(a)
	}
	sort.Strings(out)
	return out
}

// TestSolversAgree cross-checks the SAT encoding against the
// backtracking enumerator on clue sets drawn from a real catalog, one
// kind at a time so an encoding bug points straight at its clause.
func TestSolversAgree(t *testing.T) {
	grid := &domain.Grid{
		N: 4,
		Categories: []domain.Category{
			{Name: "color", Items: []string{"red", "green", "blue", "yellow"}},
			{Name: "pet", Items: []string{"cat", "dog", "fox", "owl"}},
			{Name: "drink", Items: []string{"tea", "milk", "juice", "soda"}},
		},
	}
	rng := rand.New(rand.NewSource(99))
	sol, err := domain.GenerateSolution(grid, rng)
	if err != nil {
		t.Fatalf("GenerateSolution failed: %v", err)
	}
	pool, err := catalog.NewBuilder().Build(sol, rng)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	sat := NewSATSolver()
	bt := NewBacktrackingSolver()
	anchor := domain.Clue(domain.Positional{Pos: 1, It: grid.Items()[0]})

	for kind, clues := range pool {
		take := clues
		if len(take) > 2 {
			take = take[:2]
		}
		t.Run(kind.String(), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			set := append([]domain.Clue{anchor}, take...)

			// the anchor caps the space at 3!*4!*4! = 3456 models, so
			// this limit forces a full enumeration on both sides
			const limit = 4000
			r1, _, err := sat.Enumerate(ctx, grid, set, limit)
			if err != nil {
				t.Fatalf("sat: %v", err)
			}
			r2, _, err := bt.Enumerate(ctx, grid, set, limit)
			if err != nil {
				t.Fatalf("backtrack: %v", err)
			}
			if !r1.Complete || !r2.Complete {
				t.Fatalf("incomplete search: sat=%t bt=%t", r1.Complete, r2.Complete)
			}
			f1, f2 := fingerprints(r1.Assignments), fingerprints(r2.Assignments)
			if len(f1) != len(f2) {
				t.Fatalf("solution counts differ: sat=%d bt=%d", len(f1), len(f2))
			}
			for i := range f1 {
				if f1[i] != f2[i] {
					t.Fatalf("solution sets diverge at %d:\nsat %s\nbt  %s", i, f1[i], f2[i])
				}
			}
		})
	}
}

func TestEnumerateHonorsCanceledContext(t *testing.T) {
	grid := smallGrid()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range solvers() {
		t.Run(name, func(t *testing.T) {
			res, _, err := s.Enumerate(ctx, grid, nil, 2)
			if err != nil {
				t.Fatalf("Enumerate failed: %v", err)
			}
			if res.Complete {
				t.Fatal("canceled search must not claim completeness")
			}
		})
	}
}
