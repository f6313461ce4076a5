// Package dictionary builds the anagram index that the solvers query:
// every accepted word is stored under its letter signature.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index maps letter signatures to the distinct words sharing them.
// It is immutable once built and safe for concurrent readers.
type Index struct {
	entries map[string][]string
	order   []string       // signatures in first-seen order
	lengths map[int]int    // letter count -> number of signatures
	trie    *patricia.Trie // signature keys, used for partial-signature probes
	stats   Stats
}

// Stats describes the contents of an Index and how it was built.
type Stats struct {
	Words       int
	Signatures  int
	Skipped     int
	Duplicates  int
	LongestWord int
}

// Builder accumulates words into a new Index.
type Builder struct {
	idx  *Index
	seen map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		idx:  newIndex(),
		seen: make(map[string]struct{}),
	}
}

func newIndex() *Index {
	return &Index{
		entries: make(map[string][]string),
		lengths: make(map[int]int),
		trie:    patricia.NewTrie(),
	}
}

// Add normalizes raw and inserts it under its signature.
// It reports whether the word was stored; malformed and repeated words are not.
func (b *Builder) Add(raw string) bool {
	word, ok := Normalize(raw)
	if !ok {
		b.idx.stats.Skipped++
		return false
	}
	if _, dup := b.seen[word]; dup {
		b.idx.stats.Duplicates++
		return false
	}
	b.seen[word] = struct{}{}
	b.idx.insert(Signature(word), word)
	return true
}

// Index returns the built Index. The Builder starts over afterwards.
func (b *Builder) Index() *Index {
	idx := b.idx
	b.idx = newIndex()
	b.seen = make(map[string]struct{})
	log.Debugf("Index built: %d words under %d signatures (%d skipped, %d duplicates)",
		idx.stats.Words, idx.stats.Signatures, idx.stats.Skipped, idx.stats.Duplicates)
	return idx
}

func (idx *Index) insert(sig, word string) {
	words, exists := idx.entries[sig]
	if !exists {
		n := utf8.RuneCountInString(sig)
		idx.order = append(idx.order, sig)
		idx.lengths[n]++
		idx.trie.Insert(patricia.Prefix(sig), n)
		idx.stats.Signatures++
		if n > idx.stats.LongestWord {
			idx.stats.LongestWord = n
		}
	}
	idx.entries[sig] = append(words, word)
	idx.stats.Words++
}

// Build creates an Index from a sequence of candidate words.
// Lines that are not a single alphabetic token are skipped silently.
func Build(words []string) *Index {
	b := NewBuilder()
	for _, w := range words {
		b.Add(w)
	}
	return b.Index()
}

// maxLineBytes bounds a word-list line. Longer lines are skipped like any
// other malformed line.
const maxLineBytes = 64 * 1024

// BuildFromReader creates an Index from a newline separated word list.
// Only read errors fail the build; malformed lines are skipped.
func BuildFromReader(r io.Reader) (*Index, error) {
	b := NewBuilder()
	br := bufio.NewReaderSize(r, maxLineBytes)
	for {
		line, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read word list: %w", err)
		}
		if !isPrefix {
			b.Add(string(line))
			continue
		}
		for isPrefix && err == nil {
			_, isPrefix, err = br.ReadLine()
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read word list: %w", err)
		}
		b.idx.stats.Skipped++
		log.Debugf("Skipped word-list line longer than %d bytes", maxLineBytes)
		if err == io.EOF {
			break
		}
	}
	return b.Index(), nil
}

// Lookup returns the words stored under signature, in insertion order.
// The result is a copy and is nil when nothing matches.
func (idx *Index) Lookup(signature string) []string {
	return slices.Clone(idx.entries[signature])
}

// ContainsLength reports whether any signature has exactly n letters.
func (idx *Index) ContainsLength(n int) bool {
	return idx.lengths[n] > 0
}

// HasPrefix reports whether some signature starts with partial.
// partial must itself be sorted for the answer to be meaningful.
func (idx *Index) HasPrefix(partial string) bool {
	if partial == "" {
		return len(idx.entries) > 0
	}
	return idx.trie.MatchSubtree(patricia.Prefix(partial))
}

// Stats returns build statistics.
func (idx *Index) Stats() Stats {
	return idx.stats
}

// Len returns the number of stored words.
func (idx *Index) Len() int {
	return idx.stats.Words
}

// each visits signatures in first-seen order.
func (idx *Index) each(fn func(sig string, words []string)) {
	for _, sig := range idx.order {
		fn(sig, idx.entries[sig])
	}
}
