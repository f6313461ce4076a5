package dictionary

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Reloader holds the active Index and swaps in a freshly loaded one on demand.
// Readers always get a complete Index; a reload never mutates the one they hold.
type Reloader struct {
	path    string
	current atomic.Pointer[Index]
	mu      sync.Mutex // serializes reloads
	loads   int
}

// NewReloader loads path once and returns a Reloader serving it.
func NewReloader(path string) (*Reloader, error) {
	rl := &Reloader{path: path}
	if err := rl.Reload(); err != nil {
		return nil, err
	}
	return rl, nil
}

// NewStaticReloader wraps an already built Index. Reload re-reads path
// when it is set and fails otherwise.
func NewStaticReloader(idx *Index, path string) *Reloader {
	rl := &Reloader{path: path}
	rl.current.Store(idx)
	return rl
}

// Index returns the active Index.
func (rl *Reloader) Index() *Index {
	return rl.current.Load()
}

// Reload rebuilds the Index from the configured path and makes it active.
// On failure the previous Index stays in place.
func (rl *Reloader) Reload() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.path == "" {
		return fmt.Errorf("no dictionary path configured for reload")
	}

	idx, err := LoadFile(rl.path)
	if err != nil {
		return err
	}
	old := rl.current.Swap(idx)
	rl.loads++

	if old != nil {
		log.Debugf("Dictionary reloaded from %s: %d -> %d words", rl.path, old.Len(), idx.Len())
	}
	return nil
}

// Path returns the dictionary path used by Reload.
func (rl *Reloader) Path() string {
	return rl.path
}

// Loads returns how many times the dictionary has been loaded from disk.
func (rl *Reloader) Loads() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.loads
}
