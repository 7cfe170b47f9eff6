// Package audit scores a puzzle's reasoning depth and picks the most
// demanding question the clue set can support.
package audit

import (
	"math/rand"

	"svw.info/logicgrid/internal/domain"
)

// DefaultMinPathLen is the reasoning-depth threshold a question must
// clear before a puzzle is considered interesting.
const DefaultMinPathLen = 3

// Graph is the undirected co-occurrence graph over items: two items
// are connected when some clue mentions both.
type Graph map[domain.Item]map[domain.Item]bool

// BuildGraph links every pair of items co-mentioned by a clue,
// including items nested in the sub-facts of connective kinds.
func BuildGraph(clues []domain.Clue) Graph {
	g := make(Graph)
	link := func(a, b domain.Item) {
		if g[a] == nil {
			g[a] = make(map[domain.Item]bool)
		}
		if g[b] == nil {
			g[b] = make(map[domain.Item]bool)
		}
		g[a][b] = true
		g[b][a] = true
	}
	for _, c := range clues {
		items := dedupItems(c.Items())
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				link(items[i], items[j])
			}
		}
	}
	return g
}

func dedupItems(items []domain.Item) []domain.Item {
	seen := make(map[domain.Item]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}

// PathLen returns the BFS shortest-path length between two items, or
// -1 when no path exists.
func (g Graph) PathLen(from, to domain.Item) int {
	if from == to {
		return 0
	}
	visited := map[domain.Item]bool{from: true}
	frontier := []domain.Item{from}
	depth := 0
	for len(frontier) > 0 {
		depth++
		var next []domain.Item
		for _, node := range frontier {
			for nb := range g[node] {
				if visited[nb] {
					continue
				}
				if nb == to {
					return depth
				}
				visited[nb] = true
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return -1
}

// Auditor selects the question with the longest shortest reasoning
// path from subject to answer.
type Auditor struct{}

func NewAuditor() *Auditor { return &Auditor{} }

type candidate struct {
	subjectCat   string
	subject      domain.Item
	attributeCat string
	answer       domain.Item
}

// SelectQuestion enumerates every (subject, attribute) pair, shuffles
// the candidates so ties break randomly, and keeps the one with the
// maximum BFS path length. ok is false when nothing reaches
// minPathLen; the caller decides whether to accept a shallower puzzle.
func (a *Auditor) SelectQuestion(clues []domain.Clue, sol *domain.Solution, minPathLen int, rng *rand.Rand) (domain.Question, bool) {
	grid := sol.Grid
	graph := BuildGraph(clues)

	var candidates []candidate
	for _, subjCat := range grid.Categories {
		for _, attrCat := range grid.Categories {
			if subjCat.Name == attrCat.Name {
				continue
			}
			for _, name := range subjCat.Items {
				subject := domain.Item{Category: subjCat.Name, Name: name}
				pos, ok := sol.PositionOf(subject)
				if !ok {
					continue
				}
				answer, ok := sol.ItemAt(attrCat.Name, pos)
				if !ok {
					continue
				}
				candidates = append(candidates, candidate{
					subjectCat:   subjCat.Name,
					subject:      subject,
					attributeCat: attrCat.Name,
					answer:       answer,
				})
			}
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	// keep the first candidate even when every answer is unreachable
	// (PathLen -1), so callers always get a concrete, renderable
	// question rather than a zero value
	var best domain.Question
	found := false
	for _, c := range candidates {
		d := graph.PathLen(c.subject, c.answer)
		if !found || d > best.PathLen {
			best = domain.Question{
				SubjectCategory:   c.subjectCat,
				SubjectItem:       c.subject,
				AttributeCategory: c.attributeCat,
				Answer:            c.answer,
				PathLen:           d,
			}
			found = true
		}
	}
	return best, found && best.PathLen >= minPathLen
}
