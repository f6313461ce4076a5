package puzzle

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport prints a result the way the puzzle is worked by hand: each
// jumble with its words, then the final jumble and its numbered options.
func WriteReport(w io.Writer, r *Result) error {
	var sb strings.Builder
	for i, j := range r.Jumbles {
		fmt.Fprintf(&sb, "Jumble %d: %s => ", i+1, j.Letters)
		if !j.Solved() {
			sb.WriteString("(no solution)\n")
			continue
		}
		fmt.Fprintf(&sb, "unscrambled into %d words: %s\n", len(j.Words), strings.Join(j.Words, " or "))
	}

	switch {
	case !r.FinalAttempted():
		sb.WriteString("Did not solve any jumbles, so could not solve final jumble.\n")
	case r.Mismatch:
		sb.WriteString("Number of circles does not match number of letters.\n")
		fmt.Fprintf(&sb, "Final Jumble: %s => (no solution)\n", r.Letters)
	case len(r.Phrases) == 0:
		fmt.Fprintf(&sb, "Final Jumble: %s => (no solution)\n", r.Letters)
	default:
		fmt.Fprintf(&sb, "Final Jumble: %s => unscrambled into %d possible phrases:\n", r.Letters, len(r.Phrases))
		for i, p := range r.Phrases {
			fmt.Fprintf(&sb, "    Option %d: %s\n", i+1, p)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
