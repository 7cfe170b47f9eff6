package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Clue is one true statement about the canonical solution. The set of
// implementations is closed; consumers switch on the concrete type and
// treat anything else as a broken invariant.
type Clue interface {
	Kind() ClueType
	// Key is the canonical dedup key: symmetric payloads are ordered
	// before printing so structurally equal clues collide.
	Key() string
	// Items lists every item the clue mentions, recursing into
	// sub-facts of connective kinds.
	Items() []Item
	// Holds evaluates the clue against a solution.
	Holds(s *Solution) bool
}

// FactKind discriminates the two simple-fact shapes usable inside
// connective clues.
type FactKind uint8

const (
	FactPositional FactKind = iota // item A is at position Pos
	FactSamePos                    // items A and B share a position
)

// Fact is a simple sub-fact of a connective clue.
type Fact struct {
	FactKind FactKind
	Pos      int
	A        Item
	B        Item
}

// PositionalFact states that it sits at position p.
func PositionalFact(p int, it Item) Fact {
	return Fact{FactKind: FactPositional, Pos: p, A: it}
}

// SamePosFact states that a and b share a position. The pair is stored
// in canonical order.
func SamePosFact(a, b Item) Fact {
	a, b = orderPair(a, b)
	return Fact{FactKind: FactSamePos, A: a, B: b}
}

func (f Fact) Holds(s *Solution) bool {
	switch f.FactKind {
	case FactPositional:
		p, ok := s.PositionOf(f.A)
		return ok && p == f.Pos
	case FactSamePos:
		pa, oka := s.PositionOf(f.A)
		pb, okb := s.PositionOf(f.B)
		return oka && okb && pa == pb
	}
	return false
}

func (f Fact) key() string {
	if f.FactKind == FactPositional {
		return fmt.Sprintf("pos(%d,%s)", f.Pos, f.A)
	}
	return fmt.Sprintf("same(%s,%s)", f.A, f.B)
}

func (f Fact) items() []Item {
	if f.FactKind == FactPositional {
		return []Item{f.A}
	}
	return []Item{f.A, f.B}
}

func orderPair(a, b Item) (Item, Item) {
	if b.String() < a.String() {
		return b, a
	}
	return a, b
}

// --- simple and positional kinds ---

// Positional fixes one item at one position.
type Positional struct {
	Pos int
	It  Item
}

func (c Positional) Kind() ClueType { return KindPositional }
func (c Positional) Key() string    { return fmt.Sprintf("positional(%d,%s)", c.Pos, c.It) }
func (c Positional) Items() []Item  { return []Item{c.It} }
func (c Positional) Holds(s *Solution) bool {
	p, ok := s.PositionOf(c.It)
	return ok && p == c.Pos
}

// DirectLink states that two items of different categories share a
// position.
type DirectLink struct{ A, B Item }

// NewDirectLink canonicalizes the pair order.
func NewDirectLink(a, b Item) DirectLink {
	a, b = orderPair(a, b)
	return DirectLink{A: a, B: b}
}

func (c DirectLink) Kind() ClueType { return KindDirectLink }
func (c DirectLink) Key() string    { return fmt.Sprintf("direct_link(%s,%s)", c.A, c.B) }
func (c DirectLink) Items() []Item  { return []Item{c.A, c.B} }
func (c DirectLink) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	return oka && okb && pa == pb
}

// NegativeDirectLink states that two items never share a position.
type NegativeDirectLink struct{ A, B Item }

func NewNegativeDirectLink(a, b Item) NegativeDirectLink {
	a, b = orderPair(a, b)
	return NegativeDirectLink{A: a, B: b}
}

func (c NegativeDirectLink) Kind() ClueType { return KindNegativeDirectLink }
func (c NegativeDirectLink) Key() string {
	return fmt.Sprintf("negative_direct_link(%s,%s)", c.A, c.B)
}
func (c NegativeDirectLink) Items() []Item { return []Item{c.A, c.B} }
func (c NegativeDirectLink) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	return oka && okb && pa != pb
}

// RelativePos states that two items sit at adjacent positions.
type RelativePos struct{ A, B Item }

func NewRelativePos(a, b Item) RelativePos {
	a, b = orderPair(a, b)
	return RelativePos{A: a, B: b}
}

func (c RelativePos) Kind() ClueType { return KindRelativePos }
func (c RelativePos) Key() string    { return fmt.Sprintf("relative_pos(%s,%s)", c.A, c.B) }
func (c RelativePos) Items() []Item  { return []Item{c.A, c.B} }
func (c RelativePos) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	return oka && okb && s.Grid.Adjacent(pa, pb)
}

// DistanceGreaterThan states that two items sit strictly further apart
// than Min positions.
type DistanceGreaterThan struct {
	A, B Item
	Min  int
}

func NewDistanceGreaterThan(a, b Item, min int) DistanceGreaterThan {
	a, b = orderPair(a, b)
	return DistanceGreaterThan{A: a, B: b, Min: min}
}

func (c DistanceGreaterThan) Kind() ClueType { return KindDistanceGreaterThan }
func (c DistanceGreaterThan) Key() string {
	return fmt.Sprintf("distance_greater_than(%s,%s,%d)", c.A, c.B, c.Min)
}
func (c DistanceGreaterThan) Items() []Item { return []Item{c.A, c.B} }
func (c DistanceGreaterThan) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	return oka && okb && s.Grid.Dist(pa, pb) > c.Min
}

// AtEdge states that an item sits at position 1 or N.
type AtEdge struct{ It Item }

func (c AtEdge) Kind() ClueType { return KindAtEdge }
func (c AtEdge) Key() string    { return fmt.Sprintf("at_edge(%s)", c.It) }
func (c AtEdge) Items() []Item  { return []Item{c.It} }
func (c AtEdge) Holds(s *Solution) bool {
	p, ok := s.PositionOf(c.It)
	return ok && (p == 1 || p == s.Grid.N)
}

// IsEven states the parity of an item's position.
type IsEven struct {
	It   Item
	Even bool
}

func (c IsEven) Kind() ClueType { return KindIsEven }
func (c IsEven) Key() string    { return fmt.Sprintf("is_even(%s,%t)", c.It, c.Even) }
func (c IsEven) Items() []Item  { return []Item{c.It} }
func (c IsEven) Holds(s *Solution) bool {
	p, ok := s.PositionOf(c.It)
	return ok && (p%2 == 0) == c.Even
}

// SumEquals states that the two items' positions add up to Total.
type SumEquals struct {
	A, B  Item
	Total int
}

func NewSumEquals(a, b Item, total int) SumEquals {
	a, b = orderPair(a, b)
	return SumEquals{A: a, B: b, Total: total}
}

func (c SumEquals) Kind() ClueType { return KindSumEquals }
func (c SumEquals) Key() string    { return fmt.Sprintf("sum_equals(%s,%s,%d)", c.A, c.B, c.Total) }
func (c SumEquals) Items() []Item  { return []Item{c.A, c.B} }
func (c SumEquals) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	return oka && okb && pa+pb == c.Total
}

// --- structural kinds over three items ---

// ThreeInARow states that three items occupy three consecutive
// positions in some order.
type ThreeInARow struct{ A, B, C Item }

// NewThreeInARow canonicalizes the unordered triple.
func NewThreeInARow(a, b, c Item) ThreeInARow {
	tr := []Item{a, b, c}
	sort.Slice(tr, func(i, j int) bool { return tr[i].String() < tr[j].String() })
	return ThreeInARow{A: tr[0], B: tr[1], C: tr[2]}
}

func (c ThreeInARow) Kind() ClueType { return KindThreeInARow }
func (c ThreeInARow) Key() string {
	return fmt.Sprintf("three_in_a_row(%s,%s,%s)", c.A, c.B, c.C)
}
func (c ThreeInARow) Items() []Item { return []Item{c.A, c.B, c.C} }
func (c ThreeInARow) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	pc, okc := s.PositionOf(c.C)
	if !oka || !okb || !okc {
		return false
	}
	return InWindow(s.Grid, pa, pb, pc)
}

// InWindow reports whether three distinct positions fill a window of
// three consecutive slots, wrapping on circular grids. Collapsed
// triples (two positions equal) never qualify.
func InWindow(g *Grid, p1, p2, p3 int) bool {
	if p1 == p2 || p1 == p3 || p2 == p3 {
		return false
	}
	for start := 1; start <= g.N; start++ {
		if !g.Circular && start > g.N-2 {
			break
		}
		a := start
		b := start%g.N + 1
		c := b%g.N + 1
		w := map[int]bool{a: true, b: true, c: true}
		if len(w) == 3 && w[p1] && w[p2] && w[p3] {
			return true
		}
	}
	return false
}

// OrderedChain states pos(A) < pos(B) < pos(C). The order is the
// payload, so no canonicalization applies.
type OrderedChain struct{ A, B, C Item }

func (c OrderedChain) Kind() ClueType { return KindOrderedChain }
func (c OrderedChain) Key() string {
	return fmt.Sprintf("ordered_chain(%s,%s,%s)", c.A, c.B, c.C)
}
func (c OrderedChain) Items() []Item { return []Item{c.A, c.B, c.C} }
func (c OrderedChain) Holds(s *Solution) bool {
	pa, oka := s.PositionOf(c.A)
	pb, okb := s.PositionOf(c.B)
	pc, okc := s.PositionOf(c.C)
	return oka && okb && okc && pa < pb && pb < pc
}

// --- connective kinds over two simple facts ---

// IfThen states P implies Q.
type IfThen struct{ P, Q Fact }

func (c IfThen) Kind() ClueType { return KindIfThen }
func (c IfThen) Key() string    { return fmt.Sprintf("if_then(%s,%s)", c.P.key(), c.Q.key()) }
func (c IfThen) Items() []Item  { return append(c.P.items(), c.Q.items()...) }
func (c IfThen) Holds(s *Solution) bool {
	return !c.P.Holds(s) || c.Q.Holds(s)
}

// IfNotThenNot states not-P implies not-Q, i.e. Q implies P.
type IfNotThenNot struct{ P, Q Fact }

func (c IfNotThenNot) Kind() ClueType { return KindIfNotThenNot }
func (c IfNotThenNot) Key() string {
	return fmt.Sprintf("if_not_then_not(%s,%s)", c.P.key(), c.Q.key())
}
func (c IfNotThenNot) Items() []Item { return append(c.P.items(), c.Q.items()...) }
func (c IfNotThenNot) Holds(s *Solution) bool {
	return c.P.Holds(s) || !c.Q.Holds(s)
}

// EitherOr states exactly one of P, Q holds.
type EitherOr struct{ P, Q Fact }

// NewEitherOr canonicalizes the symmetric pair.
func NewEitherOr(p, q Fact) EitherOr {
	if q.key() < p.key() {
		p, q = q, p
	}
	return EitherOr{P: p, Q: q}
}

func (c EitherOr) Kind() ClueType { return KindEitherOr }
func (c EitherOr) Key() string    { return fmt.Sprintf("either_or(%s,%s)", c.P.key(), c.Q.key()) }
func (c EitherOr) Items() []Item  { return append(c.P.items(), c.Q.items()...) }
func (c EitherOr) Holds(s *Solution) bool {
	return c.P.Holds(s) != c.Q.Holds(s)
}

// IfAndOnlyIf states P and Q hold together or not at all.
type IfAndOnlyIf struct{ P, Q Fact }

func NewIfAndOnlyIf(p, q Fact) IfAndOnlyIf {
	if q.key() < p.key() {
		p, q = q, p
	}
	return IfAndOnlyIf{P: p, Q: q}
}

func (c IfAndOnlyIf) Kind() ClueType { return KindIfAndOnlyIf }
func (c IfAndOnlyIf) Key() string {
	return fmt.Sprintf("if_and_only_if(%s,%s)", c.P.key(), c.Q.key())
}
func (c IfAndOnlyIf) Items() []Item { return append(c.P.items(), c.Q.items()...) }
func (c IfAndOnlyIf) Holds(s *Solution) bool {
	return c.P.Holds(s) == c.Q.Holds(s)
}

// NeitherNorPos states that none of a small item set sits at Pos.
type NeitherNorPos struct {
	Excluded []Item
	Pos      int
}

// NewNeitherNorPos canonicalizes the item set order.
func NewNeitherNorPos(items []Item, pos int) NeitherNorPos {
	ex := make([]Item, len(items))
	copy(ex, items)
	sort.Slice(ex, func(i, j int) bool { return ex[i].String() < ex[j].String() })
	return NeitherNorPos{Excluded: ex, Pos: pos}
}

func (c NeitherNorPos) Kind() ClueType { return KindNeitherNorPos }
func (c NeitherNorPos) Key() string {
	parts := make([]string, len(c.Excluded))
	for i, it := range c.Excluded {
		parts[i] = it.String()
	}
	return fmt.Sprintf("neither_nor_pos([%s],%d)", strings.Join(parts, ","), c.Pos)
}
func (c NeitherNorPos) Items() []Item { return append([]Item(nil), c.Excluded...) }
func (c NeitherNorPos) Holds(s *Solution) bool {
	for _, it := range c.Excluded {
		p, ok := s.PositionOf(it)
		if !ok || p == c.Pos {
			return false
		}
	}
	return true
}
