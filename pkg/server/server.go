package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordjumble/pkg/config"
	"github.com/bastiangx/wordjumble/pkg/dictionary"
	"github.com/bastiangx/wordjumble/pkg/puzzle"
	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for jumble solving
type Server struct {
	solver       solver.ISolver
	reloader     *dictionary.Reloader
	config       *config.Config
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC.
// reloader may be nil, in which case reload requests are refused.
func NewServer(s solver.ISolver, reloader *dictionary.Reloader, cfg *config.Config) *Server {
	return New(s, reloader, cfg, os.Stdin, os.Stdout)
}

// New creates a server reading requests from r and writing responses to w.
func New(s solver.ISolver, reloader *dictionary.Reloader, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		solver:   s,
		reloader: reloader,
		config:   cfg,
		decoder:  msgpack.NewDecoder(bufio.NewReader(r)),
		writer:   bw,
		encoder:  msgpack.NewEncoder(bw),
	}
}

// Start processes requests until the input ends. It returns nil on a clean
// end of input and an error when the stream breaks mid-message.
func (s *Server) Start() error {
	log.Debug("Starting IPC server")

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Reading request stream: %v", err)
			return err
		}
		s.requestCount++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Debugf("Undecodable request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			continue
		}
		s.handleRequest(req)
	}
}

// RequestCount returns how many requests have been read.
func (s *Server) RequestCount() int {
	return s.requestCount
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case ActionSolve:
		s.handleSolve(req)
	case ActionFinal:
		s.handleFinal(req)
	case ActionPuzzle:
		s.handlePuzzle(req)
	case ActionInfo:
		s.handleInfo(req)
	case ActionReload:
		s.handleReload(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), 400)
	}
}

func (s *Server) handleSolve(req Request) {
	start := time.Now()
	words, err := s.solver.SolveOne(req.Letters)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	if words == nil {
		words = []string{}
	}
	s.sendResponse(SolveResponse{
		ID:        req.ID,
		Words:     words,
		Count:     len(words),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleFinal(req Request) {
	if limit := s.config.Solver.MaxLetters; limit > 0 && len([]rune(req.Letters)) > limit {
		s.sendFailure(req.ID, &solver.QueryError{
			Letters: req.Letters,
			Lengths: req.Lengths,
			Reason:  fmt.Sprintf("more than %d letters", limit),
		})
		return
	}

	ctx, cancel := s.queryContext()
	defer cancel()

	start := time.Now()
	phrases, err := s.solver.SolveFinalContext(ctx, req.Letters, req.Lengths)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}

	count := len(phrases)
	truncated := false
	if limit := s.config.Server.MaxResults; limit > 0 && count > limit {
		phrases = phrases[:limit]
		truncated = true
	}
	s.sendResponse(FinalResponse{
		ID:        req.ID,
		Phrases:   phrases,
		Count:     count,
		Truncated: truncated,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handlePuzzle(req Request) {
	if req.Puzzle == nil {
		s.sendError(req.ID, "missing puzzle", 400)
		return
	}
	if err := req.Puzzle.CheckFinalSize(s.config.Solver.MaxLetters); err != nil {
		s.sendFailure(req.ID, err)
		return
	}

	ctx, cancel := s.queryContext()
	defer cancel()

	start := time.Now()
	result, err := puzzle.Solve(ctx, s.solver, *req.Puzzle)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	result.Truncate(s.config.Server.MaxResults)
	s.sendResponse(PuzzleResponse{
		ID:        req.ID,
		Result:    result,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleInfo(req Request) {
	resp := InfoResponse{
		ID:     req.ID,
		Status: "ok",
		Stats:  s.solver.Stats(),
	}
	if s.reloader != nil {
		resp.Path = s.reloader.Path()
	}
	s.sendResponse(resp)
}

func (s *Server) handleReload(req Request) {
	if s.reloader == nil {
		s.sendError(req.ID, "dictionary reload is not available", 400)
		return
	}
	start := time.Now()
	if err := s.reloader.Reload(); err != nil {
		log.Errorf("Dictionary reload failed: %v", err)
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.sendResponse(ReloadResponse{
		ID:        req.ID,
		Status:    "ok",
		Words:     s.reloader.Index().Len(),
		Loads:     s.reloader.Loads(),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) queryContext() (context.Context, context.CancelFunc) {
	if timeout := s.config.Solver.Timeout(); timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// sendResponse encodes a response and flushes it so the client sees it at once.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// sendFailure maps a solve error to its response code.
func (s *Server) sendFailure(id string, err error) {
	code := errorCode(err)
	if code == 500 {
		log.Errorf("Request %s failed: %v", id, err)
	} else {
		log.Debugf("Request %s rejected (%d): %v", id, code, err)
	}
	s.sendError(id, err.Error(), code)
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, solver.ErrInvalidQuery), errors.Is(err, puzzle.ErrInvalidPuzzle):
		return 400
	case errors.Is(err, context.DeadlineExceeded):
		return 408
	default:
		return 500
	}
}
