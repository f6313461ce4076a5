package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordjumble/pkg/config"
	"github.com/bastiangx/wordjumble/pkg/dictionary"
	"github.com/bastiangx/wordjumble/pkg/puzzle"
	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

var words = []string{
	"CAMEO", "FORCE", "DREDGE", "GEDDER", "PURIFY", "PIERCED",
	"DRAFT", "JUMBO", "JUNKET", "HELMET", "MUTT", "HUT", "TUTH", "TUM",
}

// exchange feeds the requests to a server and returns a decoder over its responses.
func exchange(t *testing.T, s solver.ISolver, reloader *dictionary.Reloader, cfg *config.Config, requests ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	srv := New(s, reloader, cfg, &in, &out)
	require.NoError(t, srv.Start())
	assert.Equal(t, len(requests), srv.RequestCount())
	return msgpack.NewDecoder(&out)
}

func TestSolveAction(t *testing.T) {
	s := solver.New(dictionary.Build(words))
	dec := exchange(t, s, nil, nil,
		Request{ID: "r1", Action: ActionSolve, Letters: "REDDEG"},
		Request{ID: "r2", Action: ActionSolve, Letters: "ZZZ"},
	)

	var resp SolveResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, []string{"DREDGE", "GEDDER"}, resp.Words)
	assert.Equal(t, 2, resp.Count)

	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "r2", resp.ID)
	assert.Empty(t, resp.Words)
	assert.Equal(t, 0, resp.Count)
}

func TestFinalAction(t *testing.T) {
	s := solver.New(dictionary.Build(words))
	dec := exchange(t, s, nil, nil,
		Request{ID: "f1", Action: ActionFinal, Letters: "TUMUTHT", Lengths: []int{4, 3}},
	)

	var resp FinalResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "f1", resp.ID)
	assert.Equal(t, []solver.Phrase{{"TUTH", "TUM"}, {"MUTT", "HUT"}}, resp.Phrases)
	assert.Equal(t, 2, resp.Count)
	assert.False(t, resp.Truncated)
}

func TestFinalActionTruncated(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxResults = 1

	dec := exchange(t, solver.New(dictionary.Build(words)), nil, cfg,
		Request{ID: "f1", Action: ActionFinal, Letters: "TUMUTHT", Lengths: []int{4, 3}},
	)

	var resp FinalResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Len(t, resp.Phrases, 1)
	assert.Equal(t, 2, resp.Count)
	assert.True(t, resp.Truncated)
}

func TestInvalidRequests(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Solver.MaxLetters = 10

	dec := exchange(t, solver.New(dictionary.Build(words)), nil, cfg,
		Request{ID: "e1", Action: ActionFinal, Letters: "TUMUTHT", Lengths: []int{4, 4}},
		Request{ID: "e2", Action: ActionSolve, Letters: "TUM1"},
		Request{ID: "e3", Action: "dance"},
		Request{ID: "e4", Action: ActionPuzzle},
		Request{ID: "e5", Action: ActionFinal, Letters: "ABCDEFGHIJKL", Lengths: []int{6, 6}},
		Request{ID: "e6", Action: ActionReload},
		42,
		Request{ID: "e7", Action: ActionPuzzle, Puzzle: &puzzle.Puzzle{
			Name: "broken", Jumbles: []string{"ACOME"}, Circles: []string{"_O"}, Final: []string{"O"},
		}},
	)

	for _, want := range []ErrorResponse{
		{ID: "e1", Code: 400},
		{ID: "e2", Code: 400},
		{ID: "e3", Code: 400},
		{ID: "e4", Code: 400},
		{ID: "e5", Code: 400},
		{ID: "e6", Code: 400},
		{ID: "", Code: 400},
		{ID: "e7", Code: 400},
	} {
		var resp ErrorResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, want.ID, resp.ID)
		assert.Equal(t, want.Code, resp.Code, "request %s: %s", resp.ID, resp.Error)
		assert.NotEmpty(t, resp.Error)
	}
}

func TestPuzzleAction(t *testing.T) {
	s := solver.New(dictionary.Build(words))
	p := puzzle.Puzzle{
		Name:    "dog house",
		Jumbles: []string{"TARFD", "JOBUM", "TENJUK", "LETHEM"},
		Circles: []string{"____O", "_OO__", "_O___O", "O____O"},
		Final:   []string{"OOOO", "OOO"},
	}
	dec := exchange(t, s, nil, nil, Request{ID: "p1", Action: ActionPuzzle, Puzzle: &p})

	var resp PuzzleResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "p1", resp.ID)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "TUMUTHT", resp.Result.Letters)
	assert.Equal(t, []int{4, 3}, resp.Result.Lengths)
	assert.Equal(t, []solver.Phrase{{"TUTH", "TUM"}, {"MUTT", "HUT"}}, resp.Result.Phrases)
	assert.Equal(t, []string{"DRAFT"}, resp.Result.Jumbles[0].Words)
}

func TestPuzzleActionLimits(t *testing.T) {
	p := puzzle.Puzzle{
		Name:    "dog house",
		Jumbles: []string{"TARFD", "JOBUM", "TENJUK", "LETHEM"},
		Circles: []string{"____O", "_OO__", "_O___O", "O____O"},
		Final:   []string{"OOOO", "OOO"},
	}
	s := solver.New(dictionary.Build(words))

	capped := config.DefaultConfig()
	capped.Solver.MaxLetters = 6
	dec := exchange(t, s, nil, capped, Request{ID: "p1", Action: ActionPuzzle, Puzzle: &p})
	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "p1", errResp.ID)
	assert.Equal(t, 400, errResp.Code)
	assert.Contains(t, errResp.Error, "more than 6")

	limited := config.DefaultConfig()
	limited.Server.MaxResults = 1
	dec = exchange(t, s, nil, limited, Request{ID: "p2", Action: ActionPuzzle, Puzzle: &p})
	var resp PuzzleResponse
	require.NoError(t, dec.Decode(&resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, []solver.Phrase{{"TUTH", "TUM"}}, resp.Result.Phrases)
	assert.Equal(t, 2, resp.Result.Count)
	assert.True(t, resp.Result.Truncated)
}

func TestInfoAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("mutt\nhut\n"), 0644))

	reloader, err := dictionary.NewReloader(path)
	require.NoError(t, err)
	s := solver.NewCached(reloader, 8)

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{ID: "a", Action: ActionFinal, Letters: "TUMUTHT", Lengths: []int{4, 3}}))
	require.NoError(t, enc.Encode(Request{ID: "b", Action: ActionInfo}))

	var out bytes.Buffer
	require.NoError(t, New(s, reloader, nil, &in, &out).Start())
	dec := msgpack.NewDecoder(&out)

	var final FinalResponse
	require.NoError(t, dec.Decode(&final))
	assert.Equal(t, []solver.Phrase{{"MUTT", "HUT"}}, final.Phrases)

	var info InfoResponse
	require.NoError(t, dec.Decode(&info))
	assert.Equal(t, "ok", info.Status)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, 2, info.Stats["totalWords"])
	assert.Equal(t, 1, info.Stats["cacheEntries"])

	require.NoError(t, os.WriteFile(path, []byte("mutt\nhut\ntuth\ntum\n"), 0644))

	in.Reset()
	out.Reset()
	require.NoError(t, enc.Encode(Request{ID: "c", Action: ActionReload}))
	require.NoError(t, enc.Encode(Request{ID: "d", Action: ActionFinal, Letters: "TUMUTHT", Lengths: []int{4, 3}}))
	require.NoError(t, New(s, reloader, nil, &in, &out).Start())
	dec = msgpack.NewDecoder(&out)

	var reload ReloadResponse
	require.NoError(t, dec.Decode(&reload))
	assert.Equal(t, "ok", reload.Status)
	assert.Equal(t, 4, reload.Words)
	assert.Equal(t, 2, reload.Loads)

	require.NoError(t, dec.Decode(&final))
	assert.Equal(t, []solver.Phrase{{"TUTH", "TUM"}, {"MUTT", "HUT"}}, final.Phrases, "reloaded words are used")
}

func TestReloadFailureKeepsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("cameo\n"), 0644))
	reloader, err := dictionary.NewReloader(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	dec := exchange(t, solver.NewCached(reloader, 0), reloader, nil,
		Request{ID: "r", Action: ActionReload},
		Request{ID: "s", Action: ActionSolve, Letters: "ACOME"},
	)

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, 500, errResp.Code)

	var resp SolveResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, []string{"CAMEO"}, resp.Words)
}

// blockingSolver waits for the query context to end.
type blockingSolver struct {
	*solver.Solver
}

func (b blockingSolver) SolveFinalContext(ctx context.Context, letters string, lengths []int) ([]solver.Phrase, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFinalTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Solver.TimeoutMs = 5

	dec := exchange(t, blockingSolver{solver.New(dictionary.Build(words))}, nil, cfg,
		Request{ID: "slow", Action: ActionFinal, Letters: "TUMUTHT", Lengths: []int{4, 3}},
	)

	var resp ErrorResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "slow", resp.ID)
	assert.Equal(t, 408, resp.Code)
}

func TestTruncatedStream(t *testing.T) {
	data, err := msgpack.Marshal(Request{ID: "x", Action: ActionSolve, Letters: "ACOME"})
	require.NoError(t, err)

	var out bytes.Buffer
	srv := New(solver.New(dictionary.Build(words)), nil, nil, bytes.NewReader(data[:len(data)-2]), &out)
	assert.Error(t, srv.Start())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, 400, errorCode(&solver.QueryError{Reason: "x"}))
	assert.Equal(t, 400, errorCode(puzzle.ErrInvalidPuzzle))
	assert.Equal(t, 408, errorCode(context.DeadlineExceeded))
	assert.Equal(t, 500, errorCode(os.ErrNotExist))
}
