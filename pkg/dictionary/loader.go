package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordjumble/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// snapshot is the msgpack body of a FormatSnapshot file.
type snapshot struct {
	Version int             `msgpack:"v"`
	Entries []snapshotEntry `msgpack:"e"`
}

type snapshotEntry struct {
	Signature string   `msgpack:"s"`
	Words     []string `msgpack:"w"`
}

// LoadFile builds an Index from a word list or a snapshot, picking the
// loader from the file header.
func LoadFile(filename string) (*Index, error) {
	start := time.Now()
	format, err := DetectFileFormat(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", filename, err)
	}
	defer file.Close()

	var idx *Index
	switch format {
	case FormatSnapshot:
		idx, err = ReadSnapshot(bufio.NewReader(file))
	default:
		idx, err = BuildFromReader(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	if info, ok := GetFormatInfo(format); ok {
		log.Debugf("Loaded %s (%s) in %v: %d words", filename, info.Description, time.Since(start), idx.Len())
	}
	return idx, nil
}

// WriteSnapshot encodes idx so that ReadSnapshot restores identical lookups.
func WriteSnapshot(w io.Writer, idx *Index) error {
	snap := snapshot{
		Version: snapshotVersion,
		Entries: make([]snapshotEntry, 0, len(idx.order)),
	}
	idx.each(func(sig string, words []string) {
		snap.Entries = append(snap.Entries, snapshotEntry{Signature: sig, Words: words})
	})

	if _, err := w.Write(snapshotMagic); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
// Words that do not belong under their recorded signature are dropped.
func ReadSnapshot(r io.Reader) (*Index, error) {
	head := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if !bytes.Equal(head, snapshotMagic) {
		return nil, fmt.Errorf("not a snapshot: bad header %q", head)
	}

	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	b := NewBuilder()
	for _, entry := range snap.Entries {
		for _, word := range entry.Words {
			if Signature(word) != entry.Signature {
				log.Warnf("Snapshot word %q does not match signature %q, skipping", word, entry.Signature)
				b.idx.stats.Skipped++
				continue
			}
			b.Add(word)
		}
	}
	return b.Index(), nil
}

// SaveSnapshot writes idx to filename, replacing it atomically.
func SaveSnapshot(filename string, idx *Index) error {
	if err := utils.WriteFileAtomic(filename, func(w io.Writer) error {
		return WriteSnapshot(w, idx)
	}); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", filename, err)
	}
	return nil
}
