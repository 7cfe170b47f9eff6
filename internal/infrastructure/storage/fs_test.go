package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"svw.info/logicgrid/internal/domain"
)

func fixturePuzzle() *domain.Puzzle {
	return &domain.Puzzle{
		ID:   "test-id",
		Seed: 42,
		Grid: &domain.Grid{
			N: 4,
			Categories: []domain.Category{
				{Name: "a", Items: []string{"1", "2", "3", "4"}},
				{Name: "b", Items: []string{"5", "6", "7", "8"}},
			},
		},
	}
}

func TestSaveNamingConvention(t *testing.T) {
	dir := t.TempDir()
	s := NewFS(dir)
	ctx := context.Background()

	pp, sp, err := s.Save(ctx, fixturePuzzle(), "puzzle text\n", "solution text\n")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(dir, "puzzles", "4x4.txt"); pp != want {
		t.Fatalf("puzzle path %q, want %q", pp, want)
	}
	if want := filepath.Join(dir, "solutions", "4x4_solution.txt"); sp != want {
		t.Fatalf("solution path %q, want %q", sp, want)
	}

	data, err := os.ReadFile(pp)
	if err != nil || string(data) != "puzzle text\n" {
		t.Fatalf("puzzle file contents wrong: %q err=%v", data, err)
	}
	data, err = os.ReadFile(sp)
	if err != nil || string(data) != "solution text\n" {
		t.Fatalf("solution file contents wrong: %q err=%v", data, err)
	}

	meta, err := os.ReadFile(filepath.Join(dir, "solutions", "4x4_meta.json"))
	if err != nil {
		t.Fatalf("metadata sidecar missing: %v", err)
	}
	if !strings.Contains(string(meta), `"test-id"`) {
		t.Fatalf("metadata lacks the puzzle id: %s", meta)
	}
}

func TestLoadPuzzleText(t *testing.T) {
	dir := t.TempDir()
	s := NewFS(dir)
	ctx := context.Background()

	if _, _, err := s.Save(ctx, fixturePuzzle(), "round trip\n", "sol\n"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	text, err := s.LoadPuzzleText(ctx, 4)
	if err != nil {
		t.Fatalf("LoadPuzzleText failed: %v", err)
	}
	if text != "round trip\n" {
		t.Fatalf("got %q", text)
	}
	if _, err := s.LoadPuzzleText(ctx, 9); err == nil {
		t.Fatal("missing size accepted")
	}
}

func TestSaveRejectsNilPuzzle(t *testing.T) {
	s := NewFS(t.TempDir())
	if _, _, err := s.Save(context.Background(), nil, "", ""); err == nil {
		t.Fatal("nil puzzle accepted")
	}
}

func TestSaveHonorsCanceledContext(t *testing.T) {
	s := NewFS(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := s.Save(ctx, fixturePuzzle(), "x", "y"); err == nil {
		t.Fatal("canceled context accepted")
	}
}
