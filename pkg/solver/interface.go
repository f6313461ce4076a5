// Package solver is the core, unscrambling single jumbles and partitioning
// final jumbles into phrases using the signature index.
package solver

import "context"

// ISolver defines the interface for jumble solving engines
type ISolver interface {
	// SolveOne returns every dictionary word that is an anagram of letters
	SolveOne(letters string) ([]string, error)

	// SolveFinal returns every phrase whose words have the given lengths
	// and together use exactly the given letters
	SolveFinal(letters string, lengths []int) ([]Phrase, error)

	// SolveFinalContext is SolveFinal with cancellation
	SolveFinalContext(ctx context.Context, letters string, lengths []int) ([]Phrase, error)

	// Stats returns statistics about the loaded dictionary and cache
	Stats() map[string]int
}
