/*
Package server implements msgpack IPC for jumble solving services.

The server reads a stream of msgpack encoded requests from stdin and writes
one msgpack encoded response per request to stdout. Requests are processed
synchronously in arrival order, and every response echoes the request ID.

# IPC

Every request carries an ID and an action:

	{"id": "r1", "action": "solve", "letters": "ACOME"}

The server answers with the matching words and the time taken in microseconds:

	{"id": "r1", "w": ["CAMEO"], "c": 1, "t": 12}

A final jumble names the word lengths of the phrase:

	{"id": "r2", "action": "final", "letters": "TUMUTHT", "lengths": [4, 3]}
	{"id": "r2", "p": [["TUTH", "TUM"], ["MUTT", "HUT"]], "c": 2, "t": 95}

A whole puzzle is solved in one request:

	{"id": "r3", "action": "puzzle", "puzzle": {"name": "dog house", "jumbles": [...], "circles": [...], "final": ["OOOO", "OOO"]}}

The info action reports dictionary and cache statistics, and reload rebuilds
the dictionary from its file without restarting the process.

# Errors

Failed requests get an error response instead:

	{"id": "r4", "e": "invalid query \"TUM1\": disallowed character '1'", "c": 400}

Code 400 marks a rejected query or puzzle, 408 a search that ran past the
configured timeout and 500 anything else.
*/
package server

import (
	"github.com/bastiangx/wordjumble/pkg/puzzle"
	"github.com/bastiangx/wordjumble/pkg/solver"
)

// Request actions.
const (
	ActionSolve  = "solve"
	ActionFinal  = "final"
	ActionPuzzle = "puzzle"
	ActionInfo   = "info"
	ActionReload = "reload"
)

// Request - any client request
type Request struct {
	ID      string         `msgpack:"id"`
	Action  string         `msgpack:"action"`
	Letters string         `msgpack:"letters,omitempty"`
	Lengths []int          `msgpack:"lengths,omitempty"`
	Puzzle  *puzzle.Puzzle `msgpack:"puzzle,omitempty"`
}

// SolveResponse - single jumble response
type SolveResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// FinalResponse - final jumble response. Truncated is set when more phrases
// exist than the server is configured to return.
type FinalResponse struct {
	ID        string          `msgpack:"id"`
	Phrases   []solver.Phrase `msgpack:"p"`
	Count     int             `msgpack:"c"`
	Truncated bool            `msgpack:"tr,omitempty"`
	TimeTaken int64           `msgpack:"t"`
}

// PuzzleResponse - whole puzzle response
type PuzzleResponse struct {
	ID        string         `msgpack:"id"`
	Result    *puzzle.Result `msgpack:"r"`
	TimeTaken int64          `msgpack:"t"`
}

// InfoResponse - dictionary and cache statistics
type InfoResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Path   string         `msgpack:"path,omitempty"`
	Stats  map[string]int `msgpack:"stats"`
}

// ReloadResponse - dictionary reload response
type ReloadResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Words     int    `msgpack:"words"`
	Loads     int    `msgpack:"loads"`
	TimeTaken int64  `msgpack:"t"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
