package utils

import (
	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes path into v and warns about keys v has no field for.
// A syntax or type error is returned so callers can fall back to
// ParseTOMLWithRecovery.
func LoadTOMLFile(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	for _, key := range md.Undecoded() {
		log.Warnf("Ignoring unknown key %q in %s", key.String(), path)
	}
	return nil
}

// ParseTOMLWithRecovery decodes path into a generic table, so that fields
// with the wrong type can be skipped one by one.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	table := make(map[string]any)
	if _, err := toml.DecodeFile(path, &table); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", path, err)
		return nil, err
	}
	return table, nil
}

// Extract returns data[key] if it holds a T.
func Extract[T any](data map[string]any, key string) (T, bool) {
	v, ok := data[key].(T)
	return v, ok
}

// ExtractSection returns the [name] table of parsed TOML data.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	return Extract[map[string]any](data, name)
}

// ExtractInt returns an integer field. TOML integers decode as int64.
func ExtractInt(data map[string]any, key string) (int, bool) {
	v, ok := Extract[int64](data, key)
	return int(v), ok
}
