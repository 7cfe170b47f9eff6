package solver

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"svw.info/logicgrid/internal/domain"
	"svw.info/logicgrid/internal/ports"
)

// defaultSolveBudget bounds a single SAT call when the context carries
// no deadline of its own.
const defaultSolveBudget = 10 * time.Second

// SATSolver enumerates solutions with the gini SAT solver. Positions
// are one-hot encoded: one boolean literal per (item, position) pair,
// with exactly-one constraints per item and per (category, position).
type SATSolver struct{}

func NewSATSolver() *SATSolver { return &SATSolver{} }

// encoder owns the literal numbering for one model build. Base
// variables are dense over items x positions; auxiliary variables for
// reified facts are allocated past them.
type encoder struct {
	g       *gini.Gini
	grid    *domain.Grid
	items   []domain.Item
	index   map[domain.Item]int
	nextVar int
	clauses int
}

func newEncoder(grid *domain.Grid) *encoder {
	items := grid.Items()
	index := make(map[domain.Item]int, len(items))
	for i, it := range items {
		index[it] = i
	}
	return &encoder{
		g:       gini.New(),
		grid:    grid,
		items:   items,
		index:   index,
		nextVar: len(items)*grid.N + 1,
	}
}

// lit returns the literal for "item i sits at position p".
func (e *encoder) lit(i, p int) z.Lit {
	return z.Var(i*e.grid.N + p).Pos()
}

func (e *encoder) fresh() z.Lit {
	m := z.Var(e.nextVar).Pos()
	e.nextVar++
	return m
}

func (e *encoder) clause(lits ...z.Lit) {
	for _, m := range lits {
		e.g.Add(m)
	}
	e.g.Add(0)
	e.clauses++
}

// base posts the universal constraints: every item takes exactly one
// position, and no two items of a category share a position.
func (e *encoder) base() {
	n := e.grid.N
	for i := range e.items {
		atLeast := make([]z.Lit, n)
		for p := 1; p <= n; p++ {
			atLeast[p-1] = e.lit(i, p)
		}
		e.clause(atLeast...)
		for p := 1; p <= n; p++ {
			for q := p + 1; q <= n; q++ {
				e.clause(e.lit(i, p).Not(), e.lit(i, q).Not())
			}
		}
	}
	// all-different per category
	start := 0
	for range e.grid.Categories {
		for p := 1; p <= n; p++ {
			for a := 0; a < n; a++ {
				for b := a + 1; b < n; b++ {
					e.clause(e.lit(start+a, p).Not(), e.lit(start+b, p).Not())
				}
			}
		}
		start += n
	}
}

func (e *encoder) itemIndex(it domain.Item) (int, error) {
	i, ok := e.index[it]
	if !ok {
		return 0, &domain.ConfigurationError{Reason: "clue references unknown item " + it.String()}
	}
	return i, nil
}

// factLit returns a literal equivalent to the simple fact. Positional
// facts map straight onto a base literal; same-position facts get a
// reified auxiliary variable.
func (e *encoder) factLit(f domain.Fact) (z.Lit, error) {
	switch f.FactKind {
	case domain.FactPositional:
		i, err := e.itemIndex(f.A)
		if err != nil {
			return 0, err
		}
		return e.lit(i, f.Pos), nil
	case domain.FactSamePos:
		a, err := e.itemIndex(f.A)
		if err != nil {
			return 0, err
		}
		b, err := e.itemIndex(f.B)
		if err != nil {
			return 0, err
		}
		t := e.fresh()
		same := make([]z.Lit, 0, e.grid.N+1)
		for p := 1; p <= e.grid.N; p++ {
			ep := e.fresh() // ep <-> (a@p AND b@p)
			e.clause(ep.Not(), e.lit(a, p))
			e.clause(ep.Not(), e.lit(b, p))
			e.clause(e.lit(a, p).Not(), e.lit(b, p).Not(), ep)
			e.clause(ep.Not(), t)
			same = append(same, ep)
		}
		e.clause(append(same, t.Not())...)
		return t, nil
	}
	return 0, &domain.ConfigurationError{Reason: "unknown fact kind"}
}

// addClue translates one clue into CNF clauses.
func (e *encoder) addClue(c domain.Clue) error {
	n := e.grid.N
	pair := func(a, b domain.Item) (int, int, error) {
		i, err := e.itemIndex(a)
		if err != nil {
			return 0, 0, err
		}
		j, err := e.itemIndex(b)
		if err != nil {
			return 0, 0, err
		}
		return i, j, nil
	}

	switch cl := c.(type) {
	case domain.Positional:
		i, err := e.itemIndex(cl.It)
		if err != nil {
			return err
		}
		e.clause(e.lit(i, cl.Pos))

	case domain.DirectLink:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		for p := 1; p <= n; p++ {
			e.clause(e.lit(i, p).Not(), e.lit(j, p))
			e.clause(e.lit(j, p).Not(), e.lit(i, p))
		}

	case domain.NegativeDirectLink:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		for p := 1; p <= n; p++ {
			e.clause(e.lit(i, p).Not(), e.lit(j, p).Not())
		}

	case domain.RelativePos:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		for p := 1; p <= n; p++ {
			adj := []z.Lit{e.lit(i, p).Not()}
			for q := 1; q <= n; q++ {
				if e.grid.Adjacent(p, q) {
					adj = append(adj, e.lit(j, q))
				}
			}
			e.clause(adj...)
		}

	case domain.DistanceGreaterThan:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		for p := 1; p <= n; p++ {
			for q := 1; q <= n; q++ {
				if e.grid.Dist(p, q) <= cl.Min {
					e.clause(e.lit(i, p).Not(), e.lit(j, q).Not())
				}
			}
		}

	case domain.AtEdge:
		i, err := e.itemIndex(cl.It)
		if err != nil {
			return err
		}
		e.clause(e.lit(i, 1), e.lit(i, n))

	case domain.IsEven:
		i, err := e.itemIndex(cl.It)
		if err != nil {
			return err
		}
		allowed := make([]z.Lit, 0, (n+1)/2)
		for p := 1; p <= n; p++ {
			if (p%2 == 0) == cl.Even {
				allowed = append(allowed, e.lit(i, p))
			}
		}
		e.clause(allowed...)

	case domain.SumEquals:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		for p := 1; p <= n; p++ {
			for q := 1; q <= n; q++ {
				if p+q != cl.Total {
					e.clause(e.lit(i, p).Not(), e.lit(j, q).Not())
				}
			}
		}

	case domain.ThreeInARow:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		k, err := e.itemIndex(cl.C)
		if err != nil {
			return err
		}
		e.forbidTriples(i, j, k, func(p1, p2, p3 int) bool {
			return domain.InWindow(e.grid, p1, p2, p3)
		})

	case domain.OrderedChain:
		i, j, err := pair(cl.A, cl.B)
		if err != nil {
			return err
		}
		k, err := e.itemIndex(cl.C)
		if err != nil {
			return err
		}
		e.forbidTriples(i, j, k, func(p1, p2, p3 int) bool {
			return p1 < p2 && p2 < p3
		})

	case domain.NeitherNorPos:
		for _, it := range cl.Excluded {
			i, err := e.itemIndex(it)
			if err != nil {
				return err
			}
			e.clause(e.lit(i, cl.Pos).Not())
		}

	case domain.IfThen:
		p, q, err := e.factPair(cl.P, cl.Q)
		if err != nil {
			return err
		}
		e.clause(p.Not(), q)

	case domain.IfNotThenNot:
		// not-P implies not-Q is the contrapositive of Q implies P.
		p, q, err := e.factPair(cl.P, cl.Q)
		if err != nil {
			return err
		}
		e.clause(q.Not(), p)

	case domain.EitherOr:
		p, q, err := e.factPair(cl.P, cl.Q)
		if err != nil {
			return err
		}
		e.clause(p, q)
		e.clause(p.Not(), q.Not())

	case domain.IfAndOnlyIf:
		p, q, err := e.factPair(cl.P, cl.Q)
		if err != nil {
			return err
		}
		e.clause(p.Not(), q)
		e.clause(q.Not(), p)

	default:
		return &domain.UnsupportedClueError{Kind: c.Kind()}
	}
	return nil
}

func (e *encoder) factPair(p, q domain.Fact) (z.Lit, z.Lit, error) {
	lp, err := e.factLit(p)
	if err != nil {
		return 0, 0, err
	}
	lq, err := e.factLit(q)
	if err != nil {
		return 0, 0, err
	}
	return lp, lq, nil
}

// forbidTriples posts one blocking clause per position triple the
// predicate rejects. Cubic in N, which stays tiny for puzzle sizes.
func (e *encoder) forbidTriples(i, j, k int, allowed func(p1, p2, p3 int) bool) {
	n := e.grid.N
	for p1 := 1; p1 <= n; p1++ {
		for p2 := 1; p2 <= n; p2++ {
			for p3 := 1; p3 <= n; p3++ {
				if !allowed(p1, p2, p3) {
					e.clause(e.lit(i, p1).Not(), e.lit(j, p2).Not(), e.lit(k, p3).Not())
				}
			}
		}
	}
}

// Enumerate finds up to limit satisfying assignments, blocking each
// model found before re-solving. Complete is false when a solve call
// exhausted its wall-clock budget.
func (s *SATSolver) Enumerate(ctx context.Context, grid *domain.Grid, clues []domain.Clue, limit int) (ports.EnumResult, ports.Stats, error) {
	start := time.Now()
	if err := grid.Validate(); err != nil {
		return ports.EnumResult{}, ports.Stats{}, err
	}
	e := newEncoder(grid)
	e.base()
	for _, c := range clues {
		if err := e.addClue(c); err != nil {
			return ports.EnumResult{}, ports.Stats{Clauses: e.clauses, Duration: time.Since(start)}, err
		}
	}

	res := ports.EnumResult{Complete: true}
	stats := ports.Stats{}
	for len(res.Assignments) < limit {
		if err := ctx.Err(); err != nil {
			res.Complete = false
			break
		}
		budget := defaultSolveBudget
		if dl, ok := ctx.Deadline(); ok {
			if rem := time.Until(dl); rem < budget {
				budget = rem
			}
		}
		stats.Solves++
		outcome := e.g.Try(budget)
		if outcome == 0 {
			res.Complete = false
			break
		}
		if outcome < 0 {
			break // unsat: space exhausted
		}
		a := make(domain.Assignment, len(e.items))
		for i, it := range e.items {
			for p := 1; p <= grid.N; p++ {
				if e.g.Value(e.lit(i, p)) {
					a[it] = p
					break
				}
			}
		}
		res.Assignments = append(res.Assignments, a)
		// block this model
		for i, it := range e.items {
			e.g.Add(e.lit(i, a[it]).Not())
		}
		e.g.Add(0)
		e.clauses++
	}
	stats.Clauses = e.clauses
	stats.Duration = time.Since(start)
	return res, stats, nil
}
