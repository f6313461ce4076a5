/*
Package puzzle solves whole newspaper jumbles: a handful of scrambled words,
a circle pattern per word marking the letters that feed the final jumble,
and the circle groups that give the final phrase its word lengths.

Circle notation uses 'O' for a circled position and any other character,
conventionally '_', for a blank one.
*/
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/log"
)

// Circle marks a circled position in a pattern.
const Circle = 'O'

// ErrInvalidPuzzle is returned when a puzzle's patterns do not fit its jumbles.
var ErrInvalidPuzzle = errors.New("invalid puzzle")

// Puzzle is one complete jumble as printed in the paper.
type Puzzle struct {
	Name    string   `toml:"name" json:"name" msgpack:"name"`
	Prompt  string   `toml:"prompt" json:"prompt,omitempty" msgpack:"prompt,omitempty"`
	Jumbles []string `toml:"jumbles" json:"jumbles" msgpack:"jumbles" validate:"required,min=1,dive,required"`
	Circles []string `toml:"circles" json:"circles" msgpack:"circles" validate:"required,min=1,dive,required"`
	Final   []string `toml:"final" json:"final" msgpack:"final" validate:"required,min=1,dive,required"`
}

// JumbleResult is the outcome of one scrambled word.
type JumbleResult struct {
	Letters string   `json:"letters" msgpack:"letters"`
	Words   []string `json:"words" msgpack:"words"`
	Circled string   `json:"circled,omitempty" msgpack:"circled,omitempty"`
}

// Solved reports whether any word unscrambles the jumble.
func (j JumbleResult) Solved() bool {
	return len(j.Words) > 0
}

// Result is the outcome of a whole puzzle.
type Result struct {
	Name    string         `json:"name" msgpack:"name"`
	Jumbles []JumbleResult `json:"jumbles" msgpack:"jumbles"`
	// Letters holds the circled letters collected from the solved jumbles.
	// It is empty when no jumble was solved, in which case the final
	// jumble is not attempted and Phrases is nil.
	Letters string `json:"letters" msgpack:"letters"`
	Lengths []int  `json:"lengths" msgpack:"lengths"`
	// Mismatch is set when the circled letters do not add up to the final
	// circle groups, which happens when a jumble went unsolved. The final
	// jumble then has no solution.
	Mismatch bool            `json:"mismatch,omitempty" msgpack:"mismatch,omitempty"`
	Phrases  []solver.Phrase `json:"phrases" msgpack:"phrases"`
	// Count is the number of phrases found, before any truncation.
	Count     int  `json:"count" msgpack:"count"`
	Truncated bool `json:"truncated,omitempty" msgpack:"truncated,omitempty"`
}

// FinalAttempted reports whether the final jumble was searched.
func (r *Result) FinalAttempted() bool {
	return r.Letters != ""
}

// Truncate keeps at most limit phrases. A limit of zero keeps all.
func (r *Result) Truncate(limit int) {
	if limit > 0 && len(r.Phrases) > limit {
		r.Phrases = r.Phrases[:limit]
		r.Truncated = true
	}
}

// FinalLetterCount is the number of letters the final jumble takes.
func (p Puzzle) FinalLetterCount() int {
	n := 0
	for _, g := range p.Final {
		n += len([]rune(g))
	}
	return n
}

// CheckFinalSize rejects, as solver.ErrInvalidQuery, a puzzle whose final
// jumble has more than limit letters. A limit of zero allows any size.
func (p Puzzle) CheckFinalSize(limit int) error {
	if n := p.FinalLetterCount(); limit > 0 && n > limit {
		return fmt.Errorf("%w: final jumble of %q has %d letters, more than %d",
			solver.ErrInvalidQuery, p.Name, n, limit)
	}
	return nil
}

// Validate checks that every jumble has a circle pattern of its own length
// and that the final groups are usable.
func (p Puzzle) Validate() error {
	if len(p.Jumbles) == 0 {
		return fmt.Errorf("%w %q: no jumbles", ErrInvalidPuzzle, p.Name)
	}
	if len(p.Circles) != len(p.Jumbles) {
		return fmt.Errorf("%w %q: %d jumbles but %d circle patterns",
			ErrInvalidPuzzle, p.Name, len(p.Jumbles), len(p.Circles))
	}
	for i, letters := range p.Jumbles {
		if n, m := len([]rune(letters)), len([]rune(p.Circles[i])); n != m {
			return fmt.Errorf("%w %q: jumble %d %s has %d letters but pattern %s has %d positions",
				ErrInvalidPuzzle, p.Name, i+1, letters, n, p.Circles[i], m)
		}
	}
	if _, err := FinalLengths(p.Final); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidPuzzle, p.Name, err)
	}
	return nil
}

// FinalLengths turns final circle groups such as ["OOOO", "OOO"] into word
// lengths. Every group must be non-empty.
func FinalLengths(groups []string) ([]int, error) {
	if len(groups) == 0 {
		return nil, errors.New("no final circle groups")
	}
	lengths := make([]int, len(groups))
	for i, g := range groups {
		n := len([]rune(g))
		if n == 0 {
			return nil, fmt.Errorf("final circle group %d is empty", i+1)
		}
		lengths[i] = n
	}
	return lengths, nil
}

// CircledLetters returns the letters of word at the circled positions of pattern.
// Positions beyond the shorter of the two are ignored.
func CircledLetters(word, pattern string) string {
	letters := []rune(word)
	var sb strings.Builder
	for i, c := range []rune(pattern) {
		if i >= len(letters) {
			break
		}
		if c == Circle {
			sb.WriteRune(letters[i])
		}
	}
	return sb.String()
}

// Solve unscrambles each jumble, collects the circled letters of the first
// solution of every solved jumble and solves the final jumble with them.
// Unsolved jumbles are recorded and contribute no letters.
//
// When the collected letters do not fill the final circle groups the final
// jumble is not searched: the Result is marked Mismatch and has no phrases.
func Solve(ctx context.Context, s solver.ISolver, p Puzzle) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	lengths, _ := FinalLengths(p.Final)

	start := time.Now()
	result := &Result{
		Name:    p.Name,
		Jumbles: make([]JumbleResult, 0, len(p.Jumbles)),
		Lengths: lengths,
	}

	var circled strings.Builder
	for i, letters := range p.Jumbles {
		words, err := s.SolveOne(letters)
		if err != nil {
			return nil, fmt.Errorf("jumble %d of %q: %w", i+1, p.Name, err)
		}
		jr := JumbleResult{Letters: letters, Words: words}
		if jr.Solved() {
			jr.Circled = CircledLetters(words[0], p.Circles[i])
			circled.WriteString(jr.Circled)
		} else {
			log.Debugf("Jumble %d of %q (%s) has no solution", i+1, p.Name, letters)
		}
		result.Jumbles = append(result.Jumbles, jr)
	}

	result.Letters = circled.String()
	if !result.FinalAttempted() {
		log.Debugf("No jumble of %q solved, skipping final jumble", p.Name)
		return result, nil
	}

	if total := sum(lengths); len([]rune(result.Letters)) != total {
		log.Debugf("Puzzle %q collected %d circled letters for %d final circles",
			p.Name, len([]rune(result.Letters)), total)
		result.Mismatch = true
		result.Phrases = []solver.Phrase{}
		return result, nil
	}

	phrases, err := s.SolveFinalContext(ctx, result.Letters, lengths)
	if err != nil {
		return nil, fmt.Errorf("final jumble of %q: %w", p.Name, err)
	}
	result.Phrases = phrases
	result.Count = len(phrases)

	log.Debugf("Solved puzzle %q in %v: %d phrases", p.Name, time.Since(start), len(phrases))
	return result, nil
}

func sum(ns []int) int {
	total := 0
	for _, n := range ns {
		total += n
	}
	return total
}
