package domain

import "math/rand"

// Item is a single value of one category, e.g. profession "engineer".
type Item struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

func (it Item) String() string { return it.Category + ":" + it.Name }

// Category is one axis of the puzzle grid with exactly N items.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Grid describes the puzzle geometry: N positions per category, and
// whether position arithmetic wraps around (circular table layouts).
type Grid struct {
	N          int        `json:"n"`
	Circular   bool       `json:"circular,omitempty"`
	Categories []Category `json:"categories"`
}

// Validate checks the grid invariants before any generation work starts.
func (g *Grid) Validate() error {
	if g.N < 2 {
		return &ConfigurationError{Reason: "grid needs at least 2 positions"}
	}
	if len(g.Categories) < 2 {
		return &ConfigurationError{Reason: "grid needs at least 2 categories"}
	}
	seenCat := make(map[string]bool, len(g.Categories))
	for _, c := range g.Categories {
		if c.Name == "" {
			return &ConfigurationError{Reason: "category with empty name"}
		}
		if seenCat[c.Name] {
			return &ConfigurationError{Reason: "duplicate category " + c.Name}
		}
		seenCat[c.Name] = true
		if len(c.Items) != g.N {
			return &ConfigurationError{Reason: "category " + c.Name + " does not have exactly N items"}
		}
		seen := make(map[string]bool, len(c.Items))
		for _, it := range c.Items {
			if it == "" || seen[it] {
				return &ConfigurationError{Reason: "category " + c.Name + " has empty or duplicate item"}
			}
			seen[it] = true
		}
	}
	return nil
}

// Items returns every item of the grid in category order.
func (g *Grid) Items() []Item {
	out := make([]Item, 0, len(g.Categories)*g.N)
	for _, c := range g.Categories {
		for _, name := range c.Items {
			out = append(out, Item{Category: c.Name, Name: name})
		}
	}
	return out
}

// Dist is the positional distance between p and q; it wraps for
// circular grids so that positions 1 and N are distance 1 apart.
func (g *Grid) Dist(p, q int) int {
	d := p - q
	if d < 0 {
		d = -d
	}
	if g.Circular && g.N-d < d {
		d = g.N - d
	}
	return d
}

// Adjacent reports whether two positions are next to each other.
func (g *Grid) Adjacent(p, q int) bool { return g.Dist(p, q) == 1 }

// Assignment maps every item to a position. It is the shape of a
// single satisfying assignment reported by the solver.
type Assignment map[Item]int

// Equal reports whether two assignments place every item identically.
func (a Assignment) Equal(b Assignment) bool {
	if len(a) != len(b) {
		return false
	}
	for it, p := range a {
		if b[it] != p {
			return false
		}
	}
	return true
}

// Solution is the canonical hidden assignment. It is generated once per
// puzzle and frozen; every clue is derived from it.
type Solution struct {
	Grid *Grid
	pos  map[Item]int
}

// GenerateSolution assigns, for each category, a uniformly random
// permutation of its items onto positions 1..N using the injected rng.
func GenerateSolution(g *Grid, rng *rand.Rand) (*Solution, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	pos := make(map[Item]int, len(g.Categories)*g.N)
	for _, c := range g.Categories {
		perm := rng.Perm(g.N)
		for i, name := range c.Items {
			pos[Item{Category: c.Name, Name: name}] = perm[i] + 1
		}
	}
	return &Solution{Grid: g, pos: pos}, nil
}

// SolutionFromAssignment builds a Solution from an explicit placement.
// Used by tests and by callers replaying a stored puzzle.
func SolutionFromAssignment(g *Grid, a Assignment) (*Solution, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	pos := make(map[Item]int, len(a))
	for _, c := range g.Categories {
		used := make(map[int]bool, g.N)
		for _, name := range c.Items {
			it := Item{Category: c.Name, Name: name}
			p, ok := a[it]
			if !ok || p < 1 || p > g.N || used[p] {
				return nil, &ConfigurationError{Reason: "assignment is not a bijection for category " + c.Name}
			}
			used[p] = true
			pos[it] = p
		}
	}
	return &Solution{Grid: g, pos: pos}, nil
}

// PositionOf returns the canonical position of an item.
func (s *Solution) PositionOf(it Item) (int, bool) {
	p, ok := s.pos[it]
	return p, ok
}

// ItemAt returns the item of the given category at a position.
func (s *Solution) ItemAt(category string, p int) (Item, bool) {
	for it, q := range s.pos {
		if it.Category == category && q == p {
			return it, true
		}
	}
	return Item{}, false
}

// Assignment returns a copy of the full placement.
func (s *Solution) Assignment() Assignment {
	out := make(Assignment, len(s.pos))
	for it, p := range s.pos {
		out[it] = p
	}
	return out
}

// Question is the single question asked about the finished puzzle.
type Question struct {
	SubjectCategory   string `json:"subjectCategory"`
	SubjectItem       Item   `json:"subjectItem"`
	AttributeCategory string `json:"attributeCategory"`
	Answer            Item   `json:"answer"`
	PathLen           int    `json:"pathLen"`
}

// Puzzle is the finished artifact: the presented clues, the chosen
// question, and the hidden canonical solution for self-checking.
type Puzzle struct {
	ID        string    `json:"id,omitempty"`
	Seed      int64     `json:"seed,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	Grid      *Grid     `json:"grid"`
	Clues     []Clue    `json:"-"`
	Question  Question  `json:"question"`
	Solution  *Solution `json:"-"`
	CreatedAt int64     `json:"createdAt,omitempty"`
}
