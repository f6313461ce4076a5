package puzzle

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

type puzzleFile struct {
	Puzzles []Puzzle `toml:"puzzle"`
}

// LoadFile reads puzzles from a TOML file of [[puzzle]] tables.
// Every puzzle is validated; the first invalid one fails the load.
func LoadFile(path string) ([]Puzzle, error) {
	var f puzzleFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse puzzle file %s: %w", path, err)
	}
	return checkDecoded(path, md, f.Puzzles)
}

// Load reads puzzles in the LoadFile format from r.
func Load(r io.Reader) ([]Puzzle, error) {
	var f puzzleFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse puzzles: %w", err)
	}
	return checkDecoded("<reader>", md, f.Puzzles)
}

func checkDecoded(source string, md toml.MetaData, puzzles []Puzzle) ([]Puzzle, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warnf("Ignoring unknown keys in %s: %s", source, strings.Join(keys, ", "))
	}
	for i := range puzzles {
		if puzzles[i].Name == "" {
			puzzles[i].Name = fmt.Sprintf("puzzle %d", i+1)
		}
		if err := puzzles[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
	}
	log.Debugf("Loaded %d puzzles from %s", len(puzzles), source)
	return puzzles, nil
}
