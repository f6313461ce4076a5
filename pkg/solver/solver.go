package solver

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/bastiangx/wordjumble/pkg/dictionary"
)

// IndexProvider hands out the Index to solve against.
// *dictionary.Reloader satisfies it.
type IndexProvider interface {
	Index() *dictionary.Index
}

type staticProvider struct {
	idx *dictionary.Index
}

func (p staticProvider) Index() *dictionary.Index {
	return p.idx
}

// Phrase is one solution of a final jumble, one word per required length.
type Phrase []string

func (p Phrase) String() string {
	return strings.Join(p, " ")
}

// Solver answers jumble queries. Each call reads the provider once, so a
// concurrent reload never mixes two indexes within a single solve.
type Solver struct {
	provider IndexProvider
	cache    *ResultCache
}

// New returns a Solver over a fixed Index.
func New(idx *dictionary.Index) *Solver {
	return &Solver{provider: staticProvider{idx: idx}}
}

// NewCached returns a Solver that remembers up to cacheSize final-jumble
// results. A cacheSize of 0 disables the cache.
func NewCached(provider IndexProvider, cacheSize int) *Solver {
	s := &Solver{provider: provider}
	if cacheSize > 0 {
		s.cache = NewResultCache(cacheSize)
	}
	return s
}

// SolveOne returns the dictionary words that are anagrams of letters,
// in index order. An empty result means no solution and is not an error.
func (s *Solver) SolveOne(letters string) ([]string, error) {
	pool, err := normalizeLetters(letters, nil)
	if err != nil {
		return nil, err
	}
	return s.provider.Index().Lookup(dictionary.Signature(string(pool))), nil
}

// SolveFinal partitions letters into phrases with the given word lengths.
func (s *Solver) SolveFinal(letters string, lengths []int) ([]Phrase, error) {
	return s.SolveFinalContext(context.Background(), letters, lengths)
}

// Stats returns statistics about the active index and the result cache.
func (s *Solver) Stats() map[string]int {
	idxStats := s.provider.Index().Stats()
	stats := map[string]int{
		"totalWords":  idxStats.Words,
		"signatures":  idxStats.Signatures,
		"skipped":     idxStats.Skipped,
		"longestWord": idxStats.LongestWord,
	}

	if s.cache != nil {
		for k, v := range s.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

// normalizeLetters uppercases letters and rejects anything that is not a letter.
func normalizeLetters(letters string, lengths []int) ([]rune, error) {
	if letters == "" {
		return nil, invalid(letters, lengths, "no letters given")
	}
	pool := []rune(strings.ToUpper(letters))
	for _, r := range pool {
		if !unicode.IsLetter(r) {
			return nil, invalid(letters, lengths, "disallowed character %q", r)
		}
	}
	return pool, nil
}

// validateLengths checks the required word lengths against the letter count.
func validateLengths(letters string, lengths []int, letterCount int) error {
	if len(lengths) == 0 {
		return invalid(letters, lengths, "at least one word length is required")
	}
	sum := 0
	for i, n := range lengths {
		if n <= 0 {
			return invalid(letters, lengths, "word %d has non-positive length %d", i+1, n)
		}
		sum += n
	}
	if sum != letterCount {
		return invalid(letters, lengths, "word lengths add up to %d but %d letters were given", sum, letterCount)
	}
	return nil
}

func lengthsKey(lengths []int) string {
	var sb strings.Builder
	for i, n := range lengths {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
