package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// FileFormat represents the supported dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // One word per line
	FormatSnapshot            // Magic header followed by a msgpack encoded index
)

// snapshotMagic prefixes every snapshot file.
var snapshotMagic = []byte("WJDX")

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		MinSize:     1,
	},
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "Signature Index Snapshot",
		MinSize:     int64(len(snapshotMagic)) + 1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFileFormat sniffs the head of a file to decide how to load it.
// Anything without the snapshot magic is treated as a text word list.
func DetectFileFormat(filename string) (FileFormat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	head := make([]byte, len(snapshotMagic))
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	format := sniffFormat(head[:n])
	if err := ValidateFileFormat(filename, format); err != nil {
		return FormatUnknown, err
	}
	log.Debugf("Detected %s for %s", format, filename)
	return format, nil
}

func sniffFormat(head []byte) FileFormat {
	if bytes.Equal(head, snapshotMagic) {
		return FormatSnapshot
	}
	return FormatText
}

// ValidateFileFormat checks if a file is large enough for the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory, expected %s", filename, formatInfo.Description)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}
	return nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
