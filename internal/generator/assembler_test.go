package generator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"svw.info/logicgrid/internal/catalog"
	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/solver"
)

func fixtureGrid(circular bool) *domain.Grid {
	return &domain.Grid{
		N:        4,
		Circular: circular,
		Categories: []domain.Category{
			{Name: "color", Items: []string{"red", "green", "blue", "yellow"}},
			{Name: "pet", Items: []string{"cat", "dog", "fox", "owl"}},
			{Name: "drink", Items: []string{"tea", "milk", "juice", "soda"}},
		},
	}
}

func assembleOnce(t *testing.T, seed int64, circular, trim bool) (*domain.Solution, []domain.Clue, []domain.Clue) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	sol, err := domain.GenerateSolution(fixtureGrid(circular), rng)
	if err != nil {
		t.Fatalf("GenerateSolution failed: %v", err)
	}
	pool, err := catalog.NewBuilder().Build(sol, rng)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	a := NewCoreAssembler(solver.NewBacktrackingSolver())
	a.Trim = trim
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	core, remaining, st, err := a.Assemble(ctx, sol, pool, rng)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	t.Logf("core=%d remaining=%d solves=%d dur=%v", len(core), len(remaining), st.Solves, st.Duration)
	return sol, core, remaining
}

func assertUnique(t *testing.T, sol *domain.Solution, core []domain.Clue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res, _, err := solver.NewSATSolver().Enumerate(ctx, sol.Grid, core, 2)
	if err != nil {
		t.Fatalf("verification solve failed: %v", err)
	}
	if !res.Complete || len(res.Assignments) != 1 {
		t.Fatalf("core admits %d solutions (complete=%t)", len(res.Assignments), res.Complete)
	}
	if !res.Assignments[0].Equal(sol.Assignment()) {
		t.Fatal("unique solution is not the canonical one")
	}
}

func TestAssembleProducesUniquePuzzle(t *testing.T) {
	sol, core, remaining := assembleOnce(t, 11, false, false)
	if len(core) == 0 {
		t.Fatal("empty core")
	}
	for _, c := range core {
		if !c.Holds(sol) {
			t.Fatalf("core contains unsound clue %s", c.Key())
		}
	}
	// cross-verify with the other solver implementation
	assertUnique(t, sol, core)

	inCore := make(map[string]bool, len(core))
	for _, c := range core {
		inCore[c.Key()] = true
	}
	for _, c := range remaining {
		if inCore[c.Key()] {
			t.Fatalf("clue %s is both in the core and in the remaining pool", c.Key())
		}
	}
}

func TestAssembleCircular(t *testing.T) {
	sol, core, _ := assembleOnce(t, 23, true, false)
	assertUnique(t, sol, core)

	// circular grids get the second adjacency anchor
	anchors := Anchors(sol)
	if len(anchors) != 2 {
		t.Fatalf("got %d anchors on a circular grid, want 2", len(anchors))
	}
	inCore := make(map[string]bool, len(core))
	for _, c := range core {
		inCore[c.Key()] = true
	}
	for _, a := range anchors {
		if !inCore[a.Key()] {
			t.Fatalf("anchor %s missing from core", a.Key())
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	// repeat across seeds: map-iteration order varies per run, so a
	// single pair of runs can agree by luck
	for _, seed := range []int64{31, 37, 43, 53, 61} {
		_, c1, r1 := assembleOnce(t, seed, false, false)
		_, c2, r2 := assembleOnce(t, seed, false, false)
		if len(c1) != len(c2) {
			t.Fatalf("seed %d: core sizes differ: %d vs %d", seed, len(c1), len(c2))
		}
		for i := range c1 {
			if c1[i].Key() != c2[i].Key() {
				t.Fatalf("seed %d: cores diverge at %d: %s vs %s", seed, i, c1[i].Key(), c2[i].Key())
			}
		}
		if len(r1) != len(r2) {
			t.Fatalf("seed %d: remaining pools differ in size: %d vs %d", seed, len(r1), len(r2))
		}
		for i := range r1 {
			if r1[i].Key() != r2[i].Key() {
				t.Fatalf("seed %d: remaining pools diverge at %d: %s vs %s",
					seed, i, r1[i].Key(), r2[i].Key())
			}
		}
	}
}

func TestAssembleWithTrimStaysUnique(t *testing.T) {
	sol, core, _ := assembleOnce(t, 41, false, true)
	assertUnique(t, sol, core)

	// anchors survive trimming
	inCore := make(map[string]bool, len(core))
	for _, c := range core {
		inCore[c.Key()] = true
	}
	for _, a := range Anchors(sol) {
		if !inCore[a.Key()] {
			t.Fatalf("trim removed anchor %s", a.Key())
		}
	}
}

func TestAnchorsAreSound(t *testing.T) {
	for _, circular := range []bool{false, true} {
		rng := rand.New(rand.NewSource(5))
		sol, err := domain.GenerateSolution(fixtureGrid(circular), rng)
		if err != nil {
			t.Fatalf("GenerateSolution failed: %v", err)
		}
		for _, a := range Anchors(sol) {
			if !a.Holds(sol) {
				t.Fatalf("unsound anchor %s (circular=%t)", a.Key(), circular)
			}
		}
	}
}

func TestFindDifferenceAndCreateClue(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	sol, err := domain.GenerateSolution(fixtureGrid(false), rng)
	if err != nil {
		t.Fatalf("GenerateSolution failed: %v", err)
	}
	s1 := sol.Assignment()
	s2 := sol.Assignment()
	// swap two color positions in the second candidate
	red := domain.Item{Category: "color", Name: "red"}
	green := domain.Item{Category: "color", Name: "green"}
	s2[red], s2[green] = s2[green], s2[red]

	c := FindDifferenceAndCreateClue(s1, s2, sol, rng)
	if c == nil {
		t.Fatal("no differentiating clue for differing assignments")
	}
	pin, ok := c.(domain.Positional)
	if !ok {
		t.Fatalf("want a positional pin, got %T", c)
	}
	if pin.It != red && pin.It != green {
		t.Fatalf("pinned %s, want one of the swapped items", pin.It)
	}
	if !c.Holds(sol) {
		t.Fatalf("differentiating clue %s is unsound", c.Key())
	}

	if c := FindDifferenceAndCreateClue(s1, s1, sol, rng); c != nil {
		t.Fatalf("identical assignments produced clue %s", c.Key())
	}
}
