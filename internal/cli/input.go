// Package cli handles cmd line input for solving jumbles interactively, mainly for DBG and testing
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordjumble/internal/logger"
	"github.com/bastiangx/wordjumble/internal/utils"
	"github.com/bastiangx/wordjumble/pkg/config"
	"github.com/bastiangx/wordjumble/pkg/puzzle"
	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// InputHandler reads jumbles from stdin and prints their solutions.
//
// A line with one token is a single jumble:
//
//	ACOME
//
// More tokens make a final jumble, followed by the word lengths either as
// numbers or in circle notation:
//
//	TUMUTHT 4 3
//	TUMUTHT OOOO OOO
//
// The line ":stats" prints dictionary statistics.
type InputHandler struct {
	solver       solver.ISolver
	maxPhrases   int
	timeout      time.Duration
	requestCount int
	in           io.Reader
	out          *log.Logger
	wordStyle    lipgloss.Style
}

// NewInputHandler handles initialization of the InputHandler, reading stdin and writing stdout
func NewInputHandler(s solver.ISolver, cfg config.CliConfig, timeout time.Duration) *InputHandler {
	return NewInputHandlerIO(s, cfg, timeout, os.Stdin, os.Stdout)
}

// NewInputHandlerIO is NewInputHandler over arbitrary streams.
func NewInputHandlerIO(s solver.ISolver, cfg config.CliConfig, timeout time.Duration, in io.Reader, out io.Writer) *InputHandler {
	style := lipgloss.NewRenderer(out).NewStyle()
	if !cfg.NoColor {
		style = style.Foreground(lipgloss.Color("75"))
	}
	return &InputHandler{
		solver:     s,
		maxPhrases: cfg.MaxPhrases,
		timeout:    timeout,
		in:         in,
		out:        logger.NewWithConfig(out, "", log.InfoLevel, false, false, log.TextFormatter),
		wordStyle:  style,
	}
}

// Start begins the interface loop.
// It reads lines until the input ends and hands each non-empty one to handleInput.
func (h *InputHandler) Start() error {
	h.out.Print("WordJumble CLI [BETA]")
	h.out.Print("type a jumble, or a final jumble and its word lengths, then press Enter (Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
	return scanner.Err()
}

// RequestCount returns how many lines have been handled.
func (h *InputHandler) RequestCount() int {
	return h.requestCount
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if line == ":stats" {
		h.printStats()
		return
	}

	fields := strings.Fields(line)
	letters := fields[0]
	if len(fields) == 1 {
		h.solveOne(letters)
		return
	}

	lengths, err := ParseLengths(fields[1:])
	if err != nil {
		log.Errorf("Bad word lengths %q: %v", strings.Join(fields[1:], " "), err)
		return
	}
	h.solveFinal(letters, lengths)
}

func (h *InputHandler) solveOne(letters string) {
	start := time.Now()
	words, err := h.solver.SolveOne(letters)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), letters)

	if len(words) == 0 {
		log.Warnf("No words found for: '%s'", letters)
		return
	}

	h.out.Printf("%s unscrambles into %d words:", letters, len(words))
	for i, w := range words {
		h.out.Printf("%2d. %s", i+1, h.wordStyle.Render(w))
	}
}

func (h *InputHandler) solveFinal(letters string, lengths []int) {
	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	phrases, err := h.solver.SolveFinalContext(ctx, letters, lengths)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Errorf("Gave up on '%s' after %v", letters, h.timeout)
			return
		}
		log.Errorf("%v", err)
		return
	}
	log.Debugf("Took [ %v ] for '%s' %v", time.Since(start), letters, lengths)

	if len(phrases) == 0 {
		log.Warnf("No phrases found for: '%s' %v", letters, lengths)
		return
	}

	h.out.Printf("%s unscrambles into %d possible phrases:", letters, len(phrases))
	for i, p := range phrases {
		if h.maxPhrases > 0 && i == h.maxPhrases {
			h.out.Printf("... and %d more", len(phrases)-i)
			break
		}
		h.out.Printf("    Option %d: %s", i+1, h.wordStyle.Render(p.String()))
	}
}

func (h *InputHandler) printStats() {
	stats := h.solver.Stats()
	h.out.Printf("words: %s", utils.FormatWithCommas(stats["totalWords"]))
	h.out.Printf("signatures: %s", utils.FormatWithCommas(stats["signatures"]))
	h.out.Printf("skipped lines: %s", utils.FormatWithCommas(stats["skipped"]))
	h.out.Printf("longest word: %d", stats["longestWord"])
	if entries, ok := stats["cacheEntries"]; ok {
		h.out.Printf("cache: %d entries, %d hits, %d misses", entries, stats["cacheHits"], stats["cacheMisses"])
	}
}

// ParseLengths reads word lengths given as numbers ("4 3") or in circle
// notation ("OOOO OOO"). The two forms may be mixed.
func ParseLengths(fields []string) ([]int, error) {
	lengths := make([]int, 0, len(fields))
	for _, f := range fields {
		switch {
		case utils.IsOnlyNumbers(f):
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, err
			}
			lengths = append(lengths, n)
		case utils.IsCirclePattern(f):
			n, err := puzzle.FinalLengths([]string{f})
			if err != nil {
				return nil, err
			}
			lengths = append(lengths, n[0])
		default:
			return nil, fmt.Errorf("%q is neither a number nor a circle group", f)
		}
	}
	return lengths, nil
}
