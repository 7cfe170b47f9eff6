// Package catalog derives the pool of true candidate clues from a
// frozen solution. Building is a pure function of the solution and the
// injected rng; the solution is never mutated.
package catalog

import (
	"math/rand"

	"svw.info/logicgrid/internal/domain"
)

// maxPerKind is the hard cap on catalog volume for any single kind,
// keeping memory bounded on large grids.
const maxPerKind = 2048

// Builder enumerates deduplicated true clues across every kind.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// pool accumulates clues with structural dedup on canonical keys.
type pool struct {
	byKind map[domain.ClueType][]domain.Clue
	seen   map[string]bool
}

func (p *pool) add(sol *domain.Solution, c domain.Clue) {
	if !c.Holds(sol) {
		return // only sound clues enter the catalog
	}
	k := c.Key()
	if p.seen[k] || len(p.byKind[c.Kind()]) >= maxPerKind {
		return
	}
	p.seen[k] = true
	p.byKind[c.Kind()] = append(p.byKind[c.Kind()], c)
}

// Build scans the solution for every clue kind. Pairwise and unary
// kinds are closed-form over all item combinations; structural and
// connective kinds are sampled with volume scaling by puzzle size.
func (b *Builder) Build(sol *domain.Solution, rng *rand.Rand) (map[domain.ClueType][]domain.Clue, error) {
	grid := sol.Grid
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	p := &pool{
		byKind: make(map[domain.ClueType][]domain.Clue),
		seen:   make(map[string]bool),
	}

	items := grid.Items()
	position := func(it domain.Item) int {
		q, _ := sol.PositionOf(it)
		return q
	}

	for i, a := range items {
		pa := position(a)
		p.add(sol, domain.Positional{Pos: pa, It: a})
		if pa == 1 || pa == grid.N {
			p.add(sol, domain.AtEdge{It: a})
		}
		p.add(sol, domain.IsEven{It: a, Even: pa%2 == 0})

		for _, bIt := range items[i+1:] {
			if bIt.Category == a.Category {
				continue
			}
			pb := position(bIt)
			if pa == pb {
				p.add(sol, domain.NewDirectLink(a, bIt))
			} else {
				p.add(sol, domain.NewNegativeDirectLink(a, bIt))
			}
			if grid.Adjacent(pa, pb) {
				p.add(sol, domain.NewRelativePos(a, bIt))
			}
			if d := grid.Dist(pa, pb); d >= 3 {
				p.add(sol, domain.NewDistanceGreaterThan(a, bIt, d-1))
			}
			p.add(sol, domain.NewSumEquals(a, bIt, pa+pb))
		}
	}

	b.buildWindows(sol, rng, p)
	b.buildChains(sol, rng, p)
	b.buildConnectives(sol, rng, p)
	b.buildExclusions(sol, rng, p)

	// shuffle in declaration order of the kinds, not map order, so the
	// rng stream is consumed identically on every run with the same seed
	for _, kind := range domain.ClueTypes() {
		clues := p.byKind[kind]
		rng.Shuffle(len(clues), func(i, j int) { clues[i], clues[j] = clues[j], clues[i] })
	}
	return p.byKind, nil
}

// buildWindows emits three-in-a-row clues over consecutive position
// windows with randomly paired categories.
func (b *Builder) buildWindows(sol *domain.Solution, rng *rand.Rand, p *pool) {
	grid := sol.Grid
	cats := categoryNames(grid)
	if grid.N < 3 || len(cats) < 3 {
		return
	}
	lastStart := grid.N - 2
	if grid.Circular {
		lastStart = grid.N
	}
	for round := 0; round < grid.N*5; round++ {
		picked := sampleStrings(rng, cats, 3)
		for start := 1; start <= lastStart; start++ {
			p1 := start
			p2 := p1%grid.N + 1
			p3 := p2%grid.N + 1
			a, _ := sol.ItemAt(picked[0], p1)
			bb, _ := sol.ItemAt(picked[1], p2)
			c, _ := sol.ItemAt(picked[2], p3)
			p.add(sol, domain.NewThreeInARow(a, bb, c))
		}
	}
}

// buildChains emits strictly ordered position chains over sampled
// position triples.
func (b *Builder) buildChains(sol *domain.Solution, rng *rand.Rand, p *pool) {
	grid := sol.Grid
	cats := categoryNames(grid)
	if grid.N < 3 || len(cats) < 3 {
		return
	}
	for round := 0; round < grid.N*len(cats)*2; round++ {
		perm := rng.Perm(grid.N)[:3]
		p1, p2, p3 := perm[0]+1, perm[1]+1, perm[2]+1
		if p1 > p2 {
			p1, p2 = p2, p1
		}
		if p2 > p3 {
			p2, p3 = p3, p2
		}
		if p1 > p2 {
			p1, p2 = p2, p1
		}
		picked := sampleStrings(rng, cats, 3)
		a, _ := sol.ItemAt(picked[0], p1)
		bb, _ := sol.ItemAt(picked[1], p2)
		c, _ := sol.ItemAt(picked[2], p3)
		p.add(sol, domain.OrderedChain{A: a, B: bb, C: c})
	}
}

// buildConnectives samples pairs of simple facts and wraps them in the
// four logical connectives. True facts come from the solution; false
// facts are drawn from the complement of the positional assignment.
// Every candidate is still validated against the solution on insert.
func (b *Builder) buildConnectives(sol *domain.Solution, rng *rand.Rand, p *pool) {
	grid := sol.Grid
	trueFacts, falseFacts := factUniverse(sol)
	if len(trueFacts) < 2 {
		return
	}
	rounds := grid.N * len(grid.Categories) * 3
	for round := 0; round < rounds; round++ {
		pf := trueFacts[rng.Intn(len(trueFacts))]
		qf := trueFacts[rng.Intn(len(trueFacts))]
		if pf != qf {
			p.add(sol, domain.IfThen{P: pf, Q: qf})
			p.add(sol, domain.NewIfAndOnlyIf(pf, qf))
		}
		if len(falseFacts) > 0 {
			ff := falseFacts[rng.Intn(len(falseFacts))]
			p.add(sol, domain.NewEitherOr(pf, ff))
		}
		if len(falseFacts) >= 2 {
			f1 := falseFacts[rng.Intn(len(falseFacts))]
			f2 := falseFacts[rng.Intn(len(falseFacts))]
			if f1 != f2 {
				p.add(sol, domain.IfNotThenNot{P: f1, Q: f2})
			}
		}
	}
}

// buildExclusions emits neither-nor clues: small item sets all absent
// from one position.
func (b *Builder) buildExclusions(sol *domain.Solution, rng *rand.Rand, p *pool) {
	grid := sol.Grid
	items := grid.Items()
	for pos := 1; pos <= grid.N; pos++ {
		absent := make([]domain.Item, 0, len(items))
		for _, it := range items {
			if q, _ := sol.PositionOf(it); q != pos {
				absent = append(absent, it)
			}
		}
		if len(absent) < 2 {
			continue
		}
		for round := 0; round < grid.N; round++ {
			size := 2 + rng.Intn(2)
			if size > len(absent) {
				size = len(absent)
			}
			picked := make([]domain.Item, size)
			for i, idx := range rng.Perm(len(absent))[:size] {
				picked[i] = absent[idx]
			}
			p.add(sol, domain.NewNeitherNorPos(picked, pos))
		}
	}
}

// factUniverse collects the simple facts the connective kinds draw
// from: every true positional and same-position fact, plus the false
// positional complement.
func factUniverse(sol *domain.Solution) (trueFacts, falseFacts []domain.Fact) {
	grid := sol.Grid
	items := grid.Items()
	for i, a := range items {
		pa, _ := sol.PositionOf(a)
		trueFacts = append(trueFacts, domain.PositionalFact(pa, a))
		for _, b := range items[i+1:] {
			if b.Category == a.Category {
				continue
			}
			if pb, _ := sol.PositionOf(b); pb == pa {
				trueFacts = append(trueFacts, domain.SamePosFact(a, b))
			}
		}
		for p := 1; p <= grid.N; p++ {
			if p != pa {
				falseFacts = append(falseFacts, domain.PositionalFact(p, a))
			}
		}
	}
	return trueFacts, falseFacts
}

func categoryNames(g *domain.Grid) []string {
	out := make([]string, len(g.Categories))
	for i, c := range g.Categories {
		out[i] = c.Name
	}
	return out
}

func sampleStrings(rng *rand.Rand, src []string, k int) []string {
	idx := rng.Perm(len(src))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = src[j]
	}
	return out
}
