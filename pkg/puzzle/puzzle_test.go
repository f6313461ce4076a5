package puzzle

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bastiangx/wordjumble/pkg/dictionary"
	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var words = []string{
	"CAMEO", "FORCE", "DREDGE", "GEDDER", "PURIFY", "PIERCED",
	"DRAFT", "JUMBO", "JUNKET", "HELMET", "MUTT", "HUT", "TUTH", "TUM",
}

func newSolver(w []string) *solver.Solver {
	return solver.New(dictionary.Build(w))
}

var rockConcert = Puzzle{
	Name:    "rock concert",
	Jumbles: []string{"ACOME", "FEROC", "REDDEG", "YURFIP"},
	Circles: []string{"___O_", "__OO_", "O_O___", "O__O__"},
	Final:   []string{"OOOOOOO"},
}

var dogHouse = Puzzle{
	Name:    "dog house",
	Jumbles: []string{"TARFD", "JOBUM", "TENJUK", "LETHEM"},
	Circles: []string{"____O", "_OO__", "_O___O", "O____O"},
	Final:   []string{"OOOO", "OOO"},
}

func TestFinalLengths(t *testing.T) {
	lengths, err := FinalLengths([]string{"OOOO", "OOO"})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3}, lengths)

	lengths, err = FinalLengths([]string{"OO", "OOOOOO"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6}, lengths)

	_, err = FinalLengths(nil)
	assert.Error(t, err)
	_, err = FinalLengths([]string{"OOO", ""})
	assert.Error(t, err)
}

func TestCircledLetters(t *testing.T) {
	testCases := []struct {
		word        string
		pattern     string
		expected    string
		description string
	}{
		{"CAMEO", "___O_", "E", "Single circle"},
		{"DREDGE", "O_O___", "DE", "Two circles"},
		{"HELMET", "O____O", "HT", "First and last"},
		{"JUMBO", "_____", "", "No circles"},
		{"HUT", "OOOOO", "HUT", "Pattern longer than word"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, CircledLetters(tc.word, tc.pattern))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, rockConcert.Validate())

	bad := []struct {
		puzzle      Puzzle
		description string
	}{
		{Puzzle{Name: "empty", Final: []string{"O"}}, "No jumbles"},
		{Puzzle{Name: "short", Jumbles: []string{"ACOME", "FEROC"}, Circles: []string{"___O_"}, Final: []string{"O"}}, "Missing pattern"},
		{Puzzle{Name: "mismatch", Jumbles: []string{"ACOME"}, Circles: []string{"__O_"}, Final: []string{"O"}}, "Pattern length"},
		{Puzzle{Name: "nofinal", Jumbles: []string{"ACOME"}, Circles: []string{"___O_"}}, "No final groups"},
		{Puzzle{Name: "blank", Jumbles: []string{"ACOME"}, Circles: []string{"___O_"}, Final: []string{""}}, "Empty final group"},
	}
	for _, tc := range bad {
		t.Run(tc.description, func(t *testing.T) {
			assert.ErrorIs(t, tc.puzzle.Validate(), ErrInvalidPuzzle)
		})
	}
}

func TestSolveSingleWordFinal(t *testing.T) {
	result, err := Solve(context.Background(), newSolver(words), rockConcert)
	require.NoError(t, err)

	require.Len(t, result.Jumbles, 4)
	assert.Equal(t, []string{"CAMEO"}, result.Jumbles[0].Words)
	assert.Equal(t, []string{"DREDGE", "GEDDER"}, result.Jumbles[2].Words)
	assert.Equal(t, "DE", result.Jumbles[2].Circled, "circles come from the first solution")
	assert.Equal(t, "ERCDEPI", result.Letters)
	assert.Equal(t, []int{7}, result.Lengths)
	assert.Equal(t, []solver.Phrase{{"PIERCED"}}, result.Phrases)
}

func TestSolveTwoWordFinal(t *testing.T) {
	result, err := Solve(context.Background(), newSolver(words), dogHouse)
	require.NoError(t, err)

	assert.Equal(t, "TUMUTHT", result.Letters)
	assert.Equal(t, []solver.Phrase{{"TUTH", "TUM"}, {"MUTT", "HUT"}}, result.Phrases)
}

func TestSolveNothingSolved(t *testing.T) {
	p := Puzzle{
		Name:    "barn floor",
		Jumbles: []string{"TEFON", "SOKIK", "NIUMEM", "SICONU"},
		Circles: []string{"__O_O", "OO_O_", "____O_", "___OO_"},
		Final:   []string{"OO", "OOOOOO"},
	}
	result, err := Solve(context.Background(), newSolver(words), p)
	require.NoError(t, err)

	assert.False(t, result.FinalAttempted())
	assert.Nil(t, result.Phrases)
	for _, j := range result.Jumbles {
		assert.False(t, j.Solved())
	}
}

func TestSolveUnsolvedJumbleKeepsResults(t *testing.T) {
	without := make([]string, 0, len(words))
	for _, w := range words {
		if w != "DRAFT" {
			without = append(without, w)
		}
	}

	result, err := Solve(context.Background(), newSolver(without), dogHouse)
	require.NoError(t, err)
	require.Len(t, result.Jumbles, 4)
	assert.False(t, result.Jumbles[0].Solved())
	assert.Equal(t, []string{"JUMBO"}, result.Jumbles[1].Words)
	assert.Equal(t, "UMUTHT", result.Letters)
	assert.True(t, result.Mismatch)
	assert.Empty(t, result.Phrases)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, result))
	assert.Contains(t, buf.String(), "Jumble 1: TARFD => (no solution)\n")
	assert.Contains(t, buf.String(), "Jumble 2: JOBUM => unscrambled into 1 words: JUMBO\n")
	assert.True(t, strings.HasSuffix(buf.String(),
		"Number of circles does not match number of letters.\nFinal Jumble: UMUTHT => (no solution)\n"))
}

func TestFinalSizeAndTruncate(t *testing.T) {
	assert.Equal(t, 7, dogHouse.FinalLetterCount())
	assert.NoError(t, dogHouse.CheckFinalSize(0))
	assert.NoError(t, dogHouse.CheckFinalSize(7))
	assert.ErrorIs(t, dogHouse.CheckFinalSize(6), solver.ErrInvalidQuery)

	result, err := Solve(context.Background(), newSolver(words), dogHouse)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	result.Truncate(0)
	assert.Len(t, result.Phrases, 2)
	assert.False(t, result.Truncated)

	result.Truncate(1)
	assert.Equal(t, []solver.Phrase{{"TUTH", "TUM"}}, result.Phrases)
	assert.Equal(t, 2, result.Count)
	assert.True(t, result.Truncated)
}

func TestSolveInvalidPuzzle(t *testing.T) {
	p := dogHouse
	p.Circles = p.Circles[:3]
	_, err := Solve(context.Background(), newSolver(words), p)
	assert.ErrorIs(t, err, ErrInvalidPuzzle)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Solve(ctx, newSolver(words), dogHouse)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	puzzles, err := LoadFile("testdata/puzzles.toml")
	require.NoError(t, err)
	require.Len(t, puzzles, 4)

	assert.Equal(t, rockConcert.Jumbles, puzzles[0].Jumbles)
	assert.Equal(t, dogHouse.Circles, puzzles[1].Circles)
	assert.Equal(t, []string{"OOOOO", "OOOOO"}, puzzles[2].Final)
	assert.Equal(t, "barn floor", puzzles[3].Name)
	assert.Contains(t, puzzles[1].Prompt, "dog house")
}

func TestLoad(t *testing.T) {
	src := `
[[puzzle]]
jumbles = ["ACOME"]
circles = ["___O_"]
final = ["O"]
`
	puzzles, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, puzzles, 1)
	assert.Equal(t, "puzzle 1", puzzles[0].Name)

	_, err = Load(strings.NewReader(`[[puzzle]]
jumbles = ["ACOME"]
circles = ["_O_"]
final = ["O"]
`))
	assert.ErrorIs(t, err, ErrInvalidPuzzle)

	_, err = Load(strings.NewReader("[[puzzle]\n"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/missing.toml")
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	s := newSolver(words)

	result, err := Solve(context.Background(), s, dogHouse)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, result))
	out := buf.String()
	assert.Contains(t, out, "Jumble 1: TARFD => unscrambled into 1 words: DRAFT\n")
	assert.Contains(t, out, "Final Jumble: TUMUTHT => unscrambled into 2 possible phrases:\n")
	assert.Contains(t, out, "    Option 1: TUTH TUM\n")
	assert.Contains(t, out, "    Option 2: MUTT HUT\n")

	result, err = Solve(context.Background(), s, Puzzle{
		Name:    "none",
		Jumbles: []string{"ZZZ"},
		Circles: []string{"OOO"},
		Final:   []string{"OOO"},
	})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WriteReport(&buf, result))
	assert.Contains(t, buf.String(), "Jumble 1: ZZZ => (no solution)\n")
	assert.Contains(t, buf.String(), "Did not solve any jumbles")

	result = &Result{Letters: "ZZZ", Lengths: []int{3}, Phrases: []solver.Phrase{}}
	buf.Reset()
	require.NoError(t, WriteReport(&buf, result))
	assert.Equal(t, "Final Jumble: ZZZ => (no solution)\n", buf.String())
}
