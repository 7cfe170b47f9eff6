// Package render turns clues, questions, and solutions into the fixed
// textual layout the downstream judge tooling reads.
package render

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"svw.info/logicgrid/internal/domain"
)

// sectionSeparator splits the clue block from the question; readers
// look for a line of at least ten '=' characters.
const sectionSeparator = "=========="

// answerMarker prefixes the self-check line in solution files.
const answerMarker = "Answer: "

// TextRenderer phrases clues with a theme's labels. Rendering is pure
// and total over the closed clue kind set; an unknown kind is a fatal
// internal error, never a placeholder string.
type TextRenderer struct {
	labels map[string]string
}

// New builds a renderer from category-to-label mappings; the noun for
// a position sits under the "position" key.
func New(labels map[string]string) *TextRenderer {
	return &TextRenderer{labels: labels}
}

func (r *TextRenderer) label(category string) string {
	if l, ok := r.labels[category]; ok {
		return l
	}
	return category
}

func (r *TextRenderer) position() string {
	if l, ok := r.labels["position"]; ok {
		return l
	}
	return "position"
}

// item phrases one item, e.g. "the employee 'Ivanov'".
func (r *TextRenderer) item(it domain.Item) string {
	return fmt.Sprintf("the %s '%s'", r.label(it.Category), it.Name)
}

// fact phrases a simple sub-fact as a clause.
func (r *TextRenderer) fact(f domain.Fact) string {
	if f.FactKind == domain.FactPositional {
		return fmt.Sprintf("%s is at %s #%d", r.item(f.A), r.position(), f.Pos)
	}
	return fmt.Sprintf("%s shares a %s with %s", r.item(f.A), r.position(), r.item(f.B))
}

func capitalize(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r)) + s[len(string(r)):]
	}
	return s
}

// FormatClue renders one clue as a full sentence.
func (r *TextRenderer) FormatClue(c domain.Clue) (string, error) {
	pos := r.position()
	switch cl := c.(type) {
	case domain.Positional:
		return fmt.Sprintf("%s #%d holds %s.", capitalize(pos), cl.Pos, r.item(cl.It)), nil
	case domain.DirectLink:
		return fmt.Sprintf("%s is at the same %s as %s.", capitalize(r.item(cl.A)), pos, r.item(cl.B)), nil
	case domain.NegativeDirectLink:
		return fmt.Sprintf("%s is never at the same %s as %s.", capitalize(r.item(cl.A)), pos, r.item(cl.B)), nil
	case domain.RelativePos:
		return fmt.Sprintf("%s and %s are at adjacent %ss.", capitalize(r.item(cl.A)), r.item(cl.B), pos), nil
	case domain.DistanceGreaterThan:
		return fmt.Sprintf("%s and %s are more than %d %ss apart.", capitalize(r.item(cl.A)), r.item(cl.B), cl.Min, pos), nil
	case domain.AtEdge:
		return fmt.Sprintf("%s is at one of the two outer %ss.", capitalize(r.item(cl.It)), pos), nil
	case domain.IsEven:
		parity := "odd"
		if cl.Even {
			parity = "even"
		}
		return fmt.Sprintf("The %s number of %s is %s.", pos, r.item(cl.It), parity), nil
	case domain.SumEquals:
		return fmt.Sprintf("The %s numbers of %s and %s add up to %d.", pos, r.item(cl.A), r.item(cl.B), cl.Total), nil
	case domain.ThreeInARow:
		return fmt.Sprintf("%s, %s and %s occupy three consecutive %ss, in some order.",
			capitalize(r.item(cl.A)), r.item(cl.B), r.item(cl.C), pos), nil
	case domain.OrderedChain:
		return fmt.Sprintf("%s comes before %s, which comes before %s.",
			capitalize(r.item(cl.A)), r.item(cl.B), r.item(cl.C)), nil
	case domain.IfThen:
		return fmt.Sprintf("If %s, then %s.", r.fact(cl.P), r.fact(cl.Q)), nil
	case domain.IfNotThenNot:
		return fmt.Sprintf("If it is not true that %s, then it is not true that %s.", r.fact(cl.P), r.fact(cl.Q)), nil
	case domain.EitherOr:
		return fmt.Sprintf("Either %s, or %s, but not both.", r.fact(cl.P), r.fact(cl.Q)), nil
	case domain.IfAndOnlyIf:
		return fmt.Sprintf("It holds that %s if and only if %s.", r.fact(cl.P), r.fact(cl.Q)), nil
	case domain.NeitherNorPos:
		parts := make([]string, len(cl.Excluded))
		for i, it := range cl.Excluded {
			parts[i] = r.item(it)
		}
		return fmt.Sprintf("None of %s is at %s #%d.", strings.Join(parts, ", "), pos, cl.Pos), nil
	default:
		return "", &domain.UnsupportedClueError{Kind: c.Kind()}
	}
}

// FormatQuestion phrases the chosen question.
func (r *TextRenderer) FormatQuestion(q domain.Question) string {
	return fmt.Sprintf("Which %s belongs to the %s '%s'?",
		r.label(q.AttributeCategory), r.label(q.SubjectCategory), q.SubjectItem.Name)
}

// RenderPuzzle assembles the puzzle text: numbered, alphabetically
// sorted clue sentences, the section separator, then the question.
func (r *TextRenderer) RenderPuzzle(p *domain.Puzzle) (string, error) {
	sentences := make([]string, 0, len(p.Clues))
	for _, c := range p.Clues {
		s, err := r.FormatClue(c)
		if err != nil {
			return "", err
		}
		sentences = append(sentences, s)
	}
	sort.Strings(sentences)

	var b strings.Builder
	for i, s := range sentences {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	b.WriteString(sectionSeparator + "\n")
	b.WriteString(r.FormatQuestion(p.Question) + "\n")
	return b.String(), nil
}

// RenderSolution writes the self-check file: the expected answer
// marker line followed by the full category/position table.
func (r *TextRenderer) RenderSolution(p *domain.Puzzle) (string, error) {
	var b strings.Builder
	b.WriteString(answerMarker + p.Question.Answer.Name + "\n\n")

	grid := p.Grid
	header := make([]string, 0, len(grid.Categories)+1)
	header = append(header, r.position())
	for _, c := range grid.Categories {
		header = append(header, c.Name)
	}
	width := make([]int, len(header))
	rows := make([][]string, 0, grid.N)
	for pos := 1; pos <= grid.N; pos++ {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprintf("%d", pos))
		for _, c := range grid.Categories {
			it, ok := p.Solution.ItemAt(c.Name, pos)
			if !ok {
				return "", fmt.Errorf("solution table missing %s at position %d", c.Name, pos)
			}
			row = append(row, it.Name)
		}
		rows = append(rows, row)
	}
	for col := range header {
		width[col] = len(header[col])
		for _, row := range rows {
			if len(row[col]) > width[col] {
				width[col] = len(row[col])
			}
		}
	}
	writeRow := func(row []string) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", width[i], cell)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " | "), " ") + "\n")
	}
	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String(), nil
}
