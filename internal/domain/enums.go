package domain

// ClueType tags the closed set of clue kinds the system understands.
type ClueType int

const (
	KindPositional ClueType = iota
	KindDirectLink
	KindNegativeDirectLink
	KindRelativePos
	KindDistanceGreaterThan
	KindAtEdge
	KindIsEven
	KindSumEquals
	KindThreeInARow
	KindOrderedChain
	KindIfThen
	KindIfNotThenNot
	KindEitherOr
	KindIfAndOnlyIf
	KindNeitherNorPos
)

var clueTypeNames = [...]string{
	"positional",
	"direct_link",
	"negative_direct_link",
	"relative_pos",
	"distance_greater_than",
	"at_edge",
	"is_even",
	"sum_equals",
	"three_in_a_row",
	"ordered_chain",
	"if_then",
	"if_not_then_not",
	"either_or",
	"if_and_only_if",
	"neither_nor_pos",
}

func (t ClueType) String() string {
	if t < 0 || int(t) >= len(clueTypeNames) {
		return "unknown"
	}
	return clueTypeNames[t]
}

// ClueTypes lists every kind in declaration order. Callers that walk
// per-kind collections iterate this instead of a map, so random draws
// and output ordering stay reproducible from the seed.
func ClueTypes() []ClueType {
	out := make([]ClueType, len(clueTypeNames))
	for i := range out {
		out[i] = ClueType(i)
	}
	return out
}

// ClueStrength ranks how aggressively a kind prunes the search space.
// Weak clues are tried first when trimming redundancy, so the strong
// ones that carry the puzzle's character tend to survive.
var ClueStrength = map[ClueType]int{
	KindIfThen:              3,
	KindIfNotThenNot:        3,
	KindIfAndOnlyIf:         3,
	KindRelativePos:         3,
	KindOrderedChain:        3,
	KindEitherOr:            2,
	KindSumEquals:           2,
	KindThreeInARow:         2,
	KindDirectLink:          2,
	KindNegativeDirectLink:  1,
	KindNeitherNorPos:       1,
	KindAtEdge:              1,
	KindIsEven:              1,
	KindDistanceGreaterThan: 1,
	KindPositional:          1,
}

// Difficulty labels target puzzle generation presets.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// Preset returns the grid shape a difficulty maps to: number of
// positions, number of categories, and table geometry.
func (d Difficulty) Preset() (n, categories int, circular bool) {
	switch d {
	case Easy:
		return 4, 3, false
	case Medium:
		return 5, 3, false
	case Hard:
		return 6, 4, true
	default:
		return 7, 4, true // Expert
	}
}
