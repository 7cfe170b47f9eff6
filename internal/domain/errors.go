package domain

import "fmt"

// ConfigurationError reports malformed categories/items/size input.
// It is fatal: the caller fixed nothing by retrying with the same input.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Reason }

// UnsupportedClueError means a clue kind reached a consumer that cannot
// translate it. The catalog only emits supported kinds, so seeing this
// is a programming bug, never a retryable condition.
type UnsupportedClueError struct {
	Kind ClueType
}

func (e *UnsupportedClueError) Error() string {
	return fmt.Sprintf("unsupported clue kind %q", e.Kind)
}

// AmbiguousPuzzleError means uniqueness was not reached within the
// assembler's iteration bound. The caller may regenerate with a fresh
// seed or a richer starter core.
type AmbiguousPuzzleError struct {
	Iterations int
	Clues      int
}

func (e *AmbiguousPuzzleError) Error() string {
	return fmt.Sprintf("puzzle still ambiguous after %d iterations (%d clues)", e.Iterations, e.Clues)
}
