package solver

import (
	"context"
	"time"

	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/ports"
)

// BacktrackingSolver is a straightforward recursive enumerator. It is
// slower than the SAT solver on large grids but has no dependencies,
// which makes it a useful cross-check in tests and a fallback via the
// -solver flag.
type BacktrackingSolver struct{}

func NewBacktrackingSolver() *BacktrackingSolver { return &BacktrackingSolver{} }

type btState struct {
	grid  *domain.Grid
	items []domain.Item
	index map[domain.Item]int
	pos   []int // 0 = unassigned
	used  [][]bool
	// cluesAt[i] holds the clues whose last-mentioned item (in
	// assignment order) is item i, so each clue is checked exactly
	// once, as soon as it becomes decidable.
	cluesAt [][]domain.Clue
}

func newBTState(grid *domain.Grid, clues []domain.Clue) *btState {
	items := grid.Items()
	index := make(map[domain.Item]int, len(items))
	for i, it := range items {
		index[it] = i
	}
	st := &btState{
		grid:    grid,
		items:   items,
		index:   index,
		pos:     make([]int, len(items)),
		used:    make([][]bool, len(grid.Categories)),
		cluesAt: make([][]domain.Clue, len(items)),
	}
	for i := range st.used {
		st.used[i] = make([]bool, grid.N+1)
	}
	for _, c := range clues {
		last := 0
		for _, it := range c.Items() {
			if i := index[it]; i > last {
				last = i
			}
		}
		st.cluesAt[last] = append(st.cluesAt[last], c)
	}
	return st
}

func (st *btState) positionOf(it domain.Item) int { return st.pos[st.index[it]] }

func (st *btState) factHolds(f domain.Fact) bool {
	switch f.FactKind {
	case domain.FactPositional:
		return st.positionOf(f.A) == f.Pos
	default: // FactSamePos
		return st.positionOf(f.A) == st.positionOf(f.B)
	}
}

// clueHolds evaluates a fully-decided clue against the partial search
// state. Semantics mirror domain.Clue.Holds.
func (st *btState) clueHolds(c domain.Clue) (bool, error) {
	g := st.grid
	switch cl := c.(type) {
	case domain.Positional:
		return st.positionOf(cl.It) == cl.Pos, nil
	case domain.DirectLink:
		return st.positionOf(cl.A) == st.positionOf(cl.B), nil
	case domain.NegativeDirectLink:
		return st.positionOf(cl.A) != st.positionOf(cl.B), nil
	case domain.RelativePos:
		return g.Adjacent(st.positionOf(cl.A), st.positionOf(cl.B)), nil
	case domain.DistanceGreaterThan:
		return g.Dist(st.positionOf(cl.A), st.positionOf(cl.B)) > cl.Min, nil
	case domain.AtEdge:
		p := st.positionOf(cl.It)
		return p == 1 || p == g.N, nil
	case domain.IsEven:
		return (st.positionOf(cl.It)%2 == 0) == cl.Even, nil
	case domain.SumEquals:
		return st.positionOf(cl.A)+st.positionOf(cl.B) == cl.Total, nil
	case domain.ThreeInARow:
		return domain.InWindow(g, st.positionOf(cl.A), st.positionOf(cl.B), st.positionOf(cl.C)), nil
	case domain.OrderedChain:
		pa, pb, pc := st.positionOf(cl.A), st.positionOf(cl.B), st.positionOf(cl.C)
		return pa < pb && pb < pc, nil
	case domain.NeitherNorPos:
		for _, it := range cl.Excluded {
			if st.positionOf(it) == cl.Pos {
				return false, nil
			}
		}
		return true, nil
	case domain.IfThen:
		return !st.factHolds(cl.P) || st.factHolds(cl.Q), nil
	case domain.IfNotThenNot:
		return st.factHolds(cl.P) || !st.factHolds(cl.Q), nil
	case domain.EitherOr:
		return st.factHolds(cl.P) != st.factHolds(cl.Q), nil
	case domain.IfAndOnlyIf:
		return st.factHolds(cl.P) == st.factHolds(cl.Q), nil
	default:
		return false, &domain.UnsupportedClueError{Kind: c.Kind()}
	}
}

// Enumerate walks assignments item by item in category order and
// reports up to limit full placements satisfying every clue.
func (s *BacktrackingSolver) Enumerate(ctx context.Context, grid *domain.Grid, clues []domain.Clue, limit int) (ports.EnumResult, ports.Stats, error) {
	start := time.Now()
	if err := grid.Validate(); err != nil {
		return ports.EnumResult{}, ports.Stats{}, err
	}
	for _, c := range clues {
		for _, it := range c.Items() {
			if _, ok := domainIndex(grid, it); !ok {
				return ports.EnumResult{}, ports.Stats{}, &domain.ConfigurationError{Reason: "clue references unknown item " + it.String()}
			}
		}
	}
	st := newBTState(grid, clues)
	res := ports.EnumResult{Complete: true}
	stats := ports.Stats{}
	n := grid.N

	var clueErr error
	var dfs func(i int) bool // returns true to stop the search
	dfs = func(i int) bool {
		if ctx.Err() != nil {
			res.Complete = false
			return true
		}
		if i == len(st.items) {
			a := make(domain.Assignment, len(st.items))
			for j, it := range st.items {
				a[it] = st.pos[j]
			}
			res.Assignments = append(res.Assignments, a)
			return len(res.Assignments) >= limit
		}
		cat := i / n
		for p := 1; p <= n; p++ {
			if st.used[cat][p] {
				continue
			}
			stats.Solves++
			st.pos[i] = p
			st.used[cat][p] = true
			ok := true
			for _, c := range st.cluesAt[i] {
				holds, err := st.clueHolds(c)
				if err != nil {
					clueErr = err
					return true
				}
				if !holds {
					ok = false
					break
				}
			}
			if ok && dfs(i+1) {
				return true
			}
			st.pos[i] = 0
			st.used[cat][p] = false
		}
		return false
	}
	dfs(0)
	stats.Duration = time.Since(start)
	if clueErr != nil {
		return ports.EnumResult{}, stats, clueErr
	}
	return res, stats, nil
}

func domainIndex(grid *domain.Grid, it domain.Item) (int, bool) {
	for i, candidate := range grid.Items() {
		if candidate == it {
			return i, true
		}
	}
	return 0, false
}
