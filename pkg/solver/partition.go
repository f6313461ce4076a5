package solver

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/wordjumble/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// ctxCheckInterval is how many enumeration steps pass between context checks.
const ctxCheckInterval = 1024

// SolveFinalContext partitions letters into phrases whose words have the
// given lengths, in order. Every letter is used exactly once.
//
// The letters are uppercased and sorted into a pool. For the first length,
// groups of pool positions are chosen in lexicographic position order; the
// unchosen positions form the pool for the remaining lengths. Positions
// holding the same letter as their predecessor at the same choice depth are
// skipped, so each distinct letter group is tried once. Branches stop early
// when no word of a required length exists or when the letters chosen so far
// start no signature in the index.
//
// Phrases are returned deduplicated in the order they are found. Because
// combinations are walked over the sorted pool rather than the letters as
// typed, this order is fixed for a given multiset of letters but differs
// from walking the query string: TUMUTHT with lengths [4 3] yields
// TUTH TUM before MUTT HUT. The set of phrases is the same either way.
//
// If ctx is cancelled the search stops and ctx.Err() is returned.
func (s *Solver) SolveFinalContext(ctx context.Context, letters string, lengths []int) ([]Phrase, error) {
	pool, err := normalizeLetters(letters, lengths)
	if err != nil {
		return nil, err
	}
	if err := validateLengths(letters, lengths, len(pool)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.Sort(pool)

	idx := s.provider.Index()
	key := string(pool) + "/" + lengthsKey(lengths)
	if s.cache != nil {
		if phrases, ok := s.cache.Get(idx, key); ok {
			log.Debugf("Result cache hit for %s", key)
			return phrases, nil
		}
	}

	for _, n := range lengths {
		if !idx.ContainsLength(n) {
			log.Debugf("No %d-letter words in dictionary, %s has no solution", n, key)
			return []Phrase{}, nil
		}
	}

	start := time.Now()
	srch := &search{
		ctx:  ctx,
		idx:  idx,
		memo: make(map[string][]Phrase),
	}
	phrases, err := srch.solve(pool, lengths)
	if err != nil {
		log.Debugf("Search for %s stopped after %d steps: %v", key, srch.steps, err)
		return nil, err
	}
	if phrases == nil {
		phrases = []Phrase{}
	}
	log.Debugf("Solved %s: %d phrases, %d steps in %v", key, len(phrases), srch.steps, time.Since(start))

	if s.cache != nil {
		s.cache.Put(idx, key, phrases)
	}
	return phrases, nil
}

// search holds the state of one SolveFinalContext call.
type search struct {
	ctx   context.Context
	idx   *dictionary.Index
	memo  map[string][]Phrase // sorted pool + lengths -> phrases
	steps int
}

func (s *search) tick() error {
	s.steps++
	if s.steps%ctxCheckInterval == 0 {
		return s.ctx.Err()
	}
	return nil
}

// solve returns every phrase for a sorted pool and the lengths still to fill.
func (s *search) solve(pool []rune, lengths []int) ([]Phrase, error) {
	key := string(pool) + "/" + lengthsKey(lengths)
	if phrases, ok := s.memo[key]; ok {
		return phrases, nil
	}

	if len(lengths) == 1 {
		words := s.idx.Lookup(string(pool))
		phrases := make([]Phrase, 0, len(words))
		for _, w := range words {
			phrases = append(phrases, Phrase{w})
		}
		s.memo[key] = phrases
		return phrases, nil
	}

	if !s.idx.ContainsLength(lengths[0]) {
		s.memo[key] = nil
		return nil, nil
	}

	var phrases []Phrase
	seen := make(map[string]struct{})
	err := s.eachGroup(pool, lengths[0], func(group, rest []rune) error {
		words := s.idx.Lookup(string(group))
		if len(words) == 0 {
			return nil
		}
		tails, err := s.solve(rest, lengths[1:])
		if err != nil {
			return err
		}
		for _, w := range words {
			for _, tail := range tails {
				phrase := make(Phrase, 0, len(lengths))
				phrase = append(phrase, w)
				phrase = append(phrase, tail...)

				id := strings.Join(phrase, "\x00")
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				phrases = append(phrases, phrase)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.memo[key] = phrases
	return phrases, nil
}

// eachGroup calls fn for every distinct group of k letters drawn from the
// sorted pool, visiting position combinations in lexicographic order.
// rest holds the unchosen letters, still sorted.
func (s *search) eachGroup(pool []rune, k int, fn func(group, rest []rune) error) error {
	picked := make([]int, 0, k)
	group := make([]rune, 0, k)

	var walk func(start int) error
	walk = func(start int) error {
		if len(group) == k {
			return fn(slices.Clone(group), complement(pool, picked))
		}
		need := k - len(group)
		for i := start; i <= len(pool)-need; i++ {
			if i > start && pool[i] == pool[i-1] {
				continue
			}
			if err := s.tick(); err != nil {
				return err
			}
			group = append(group, pool[i])
			picked = append(picked, i)
			if s.idx.HasPrefix(string(group)) {
				if err := walk(i + 1); err != nil {
					return err
				}
			}
			group = group[:len(group)-1]
			picked = picked[:len(picked)-1]
		}
		return nil
	}
	return walk(0)
}

// complement returns the pool letters at positions not in picked.
// picked must be increasing.
func complement(pool []rune, picked []int) []rune {
	rest := make([]rune, 0, len(pool)-len(picked))
	j := 0
	for i, r := range pool {
		if j < len(picked) && picked[j] == i {
			j++
			continue
		}
		rest = append(rest, r)
	}
	return rest
}
