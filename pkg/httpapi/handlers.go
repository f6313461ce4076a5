package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bastiangx/wordjumble/pkg/config"
	"github.com/bastiangx/wordjumble/pkg/puzzle"
	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FinalRequest is the body of POST /v1/final.
type FinalRequest struct {
	Letters string `json:"letters" validate:"required"`
	Lengths []int  `json:"lengths" validate:"required,min=1,dive,gt=0"`
}

// SolveResponse answers GET /v1/solve/{letters}.
type SolveResponse struct {
	Letters string   `json:"letters"`
	Words   []string `json:"words"`
	Count   int      `json:"count"`
}

// FinalResponse answers POST /v1/final.
type FinalResponse struct {
	Letters   string          `json:"letters"`
	Lengths   []int           `json:"lengths"`
	Phrases   []solver.Phrase `json:"phrases"`
	Count     int             `json:"count"`
	Truncated bool            `json:"truncated,omitempty"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Handler serves the jumble API.
type Handler struct {
	solver solver.ISolver
	config *config.Config
}

func NewHandler(s solver.ISolver, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Handler{solver: s, config: cfg}
}

// Healthz reports liveness together with dictionary statistics.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"stats":  h.solver.Stats(),
	})
}

// SolveOne unscrambles a single jumble from the path.
func (h *Handler) SolveOne(w http.ResponseWriter, r *http.Request) {
	letters := chi.URLParam(r, "letters")

	start := time.Now()
	words, err := h.solver.SolveOne(letters)
	if err != nil {
		writeFailure(w, err)
		return
	}
	observeSolve("solve", start, len(words))

	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, SolveResponse{
		Letters: letters,
		Words:   words,
		Count:   len(words),
	})
}

// SolveFinal partitions the letters of a final jumble.
func (h *Handler) SolveFinal(w http.ResponseWriter, r *http.Request) {
	var req FinalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if limit := h.config.Solver.MaxLetters; limit > 0 && len([]rune(req.Letters)) > limit {
		writeFailure(w, &solver.QueryError{
			Letters: req.Letters,
			Lengths: req.Lengths,
			Reason:  fmt.Sprintf("more than %d letters", limit),
		})
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	phrases, err := h.solver.SolveFinalContext(ctx, req.Letters, req.Lengths)
	if err != nil {
		writeFailure(w, err)
		return
	}
	observeSolve("final", start, len(phrases))

	resp := FinalResponse{
		Letters: req.Letters,
		Lengths: req.Lengths,
		Phrases: phrases,
		Count:   len(phrases),
	}
	if limit := h.config.Server.MaxResults; limit > 0 && len(phrases) > limit {
		resp.Phrases = phrases[:limit]
		resp.Truncated = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// SolvePuzzle solves a whole puzzle, posted as a puzzle.Puzzle.
func (h *Handler) SolvePuzzle(w http.ResponseWriter, r *http.Request) {
	var p puzzle.Puzzle
	if !decodeBody(w, r, &p) {
		return
	}
	if err := p.CheckFinalSize(h.config.Solver.MaxLetters); err != nil {
		writeFailure(w, err)
		return
	}

	ctx, cancel := h.queryContext(r.Context())
	defer cancel()

	start := time.Now()
	result, err := puzzle.Solve(ctx, h.solver, p)
	if err != nil {
		writeFailure(w, err)
		return
	}
	observeSolve("puzzle", start, result.Count)
	result.Truncate(h.config.Server.MaxResults)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if timeout := h.config.Solver.Timeout(); timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}

// decodeBody reads and validates a JSON body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := validateRequest(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				messages = append(messages, fmt.Sprintf("field %s: %s", fieldError.Namespace(), fieldError.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
		}
	}
	return err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, solver.ErrInvalidQuery), errors.Is(err, puzzle.ErrInvalidPuzzle):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	} else {
		log.Debugf("Request rejected (%d): %v", status, err)
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Status: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}
