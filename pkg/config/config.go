/*
Package config manages TOML config for WordJumble services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordjumble/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Dict   DictConfig   `toml:"dict"`
	Solver SolverConfig `toml:"solver"`
	Server ServerConfig `toml:"server"`
	HTTP   HTTPConfig   `toml:"http"`
	CLI    CliConfig    `toml:"cli"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path string `toml:"path"`
	// Snapshot, when set and present on disk, is loaded instead of Path.
	Snapshot string `toml:"snapshot"`
}

// SolverConfig holds search options shared by every front end.
type SolverConfig struct {
	CacheSize  int `toml:"cache_size"`
	MaxLetters int `toml:"max_letters"`
	TimeoutMs  int `toml:"timeout_ms"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxResults int `toml:"max_results"`
}

// HTTPConfig has HTTP API options.
type HTTPConfig struct {
	Addr              string `toml:"addr"`
	ReadTimeoutMs     int    `toml:"read_timeout_ms"`
	WriteTimeoutMs    int    `toml:"write_timeout_ms"`
	ShutdownTimeoutMs int    `toml:"shutdown_timeout_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	MaxPhrases int  `toml:"max_phrases"`
	NoColor    bool `toml:"no_color"`
}

// Timeout returns the per-query search timeout. Zero means no timeout.
func (c SolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// configDirCandidates lists where config.toml may live, most preferred first.
// $XDG_CONFIG_HOME and %APPDATA% come first when set.
func configDirCandidates(homeDir string) []string {
	var dirs []string
	for _, env := range []string{"XDG_CONFIG_HOME", "APPDATA"} {
		if base := os.Getenv(env); base != "" {
			dirs = append(dirs, filepath.Join(base, "wordjumble"))
		}
	}
	return append(dirs,
		filepath.Join(homeDir, ".config", "wordjumble"),
		filepath.Join(homeDir, "Library", "Application Support", "wordjumble"),
	)
}

// GetConfigDir returns the first writable candidate directory, falling back
// to the directory of the executable. It is the one place the config
// directory is decided; the word list resolver searches it too.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	for _, dir := range configDirCandidates(homeDir) {
		if utils.CheckDirStatus(dir).Writable {
			return dir, nil
		}
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority tries the -config path, then the default path
// (created with defaults if missing), then builtin defaults. It returns the
// path the config came from, empty for builtin defaults.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		config, err := loadExisting(customConfigPath)
		if err == nil {
			log.Debugf("Loaded config from custom path: %s", customConfigPath)
			return config, customConfigPath, nil
		}
		log.Warnf("Cannot use config %s: %v. Trying default path...", customConfigPath, err)
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

func loadExisting(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			Path: "/usr/share/dict/words",
		},
		Solver: SolverConfig{
			CacheSize:  256,
			MaxLetters: 24,
			TimeoutMs:  2000,
		},
		Server: ServerConfig{
			MaxResults: 0,
		},
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadTimeoutMs:     5000,
			WriteTimeoutMs:    10000,
			ShutdownTimeoutMs: 5000,
		},
		CLI: CliConfig{
			MaxPhrases: 50,
			NoColor:    false,
		},
	}
}

// InitConfig loads configPath, writing the defaults there first if the
// file does not exist. Any failure falls back to builtin defaults.
func InitConfig(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		log.Warnf("Failed to create config directory for %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}

	if utils.FileExists(configPath) {
		config, err := LoadConfig(configPath)
		if err != nil {
			log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
	} else {
		log.Debugf("Created default config file at: %s", configPath)
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; a file that does not parse as a whole is recovered section by section.
// Out of range values are reset to their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	config.normalize()
	return config, nil
}

// normalize resets negative limits and an empty listen address.
func (c *Config) normalize() {
	def := DefaultConfig()
	fix := func(name string, v *int, fallback int) {
		if *v < 0 {
			log.Warnf("Config %s = %d is negative, using %d", name, *v, fallback)
			*v = fallback
		}
	}
	fix("solver.cache_size", &c.Solver.CacheSize, def.Solver.CacheSize)
	fix("solver.max_letters", &c.Solver.MaxLetters, def.Solver.MaxLetters)
	fix("solver.timeout_ms", &c.Solver.TimeoutMs, def.Solver.TimeoutMs)
	fix("server.max_results", &c.Server.MaxResults, def.Server.MaxResults)
	fix("http.read_timeout_ms", &c.HTTP.ReadTimeoutMs, def.HTTP.ReadTimeoutMs)
	fix("http.write_timeout_ms", &c.HTTP.WriteTimeoutMs, def.HTTP.WriteTimeoutMs)
	fix("http.shutdown_timeout_ms", &c.HTTP.ShutdownTimeoutMs, def.HTTP.ShutdownTimeoutMs)
	fix("cli.max_phrases", &c.CLI.MaxPhrases, def.CLI.MaxPhrases)
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = def.HTTP.Addr
	}
}

// tryPartialParse keeps every well-typed value of a file that failed to
// decode into Config and falls back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "solver"); ok {
		extractSolverConfig(section, &config.Solver)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "http"); ok {
		extractHTTPConfig(section, &config.HTTP)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.Extract[string](data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.Extract[string](data, "snapshot"); ok {
		dict.Snapshot = val
	}
}

func extractSolverConfig(data map[string]any, s *SolverConfig) {
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		s.CacheSize = val
	}
	if val, ok := utils.ExtractInt(data, "max_letters"); ok {
		s.MaxLetters = val
	}
	if val, ok := utils.ExtractInt(data, "timeout_ms"); ok {
		s.TimeoutMs = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		server.MaxResults = val
	}
}

func extractHTTPConfig(data map[string]any, h *HTTPConfig) {
	if val, ok := utils.Extract[string](data, "addr"); ok {
		h.Addr = val
	}
	if val, ok := utils.ExtractInt(data, "read_timeout_ms"); ok {
		h.ReadTimeoutMs = val
	}
	if val, ok := utils.ExtractInt(data, "write_timeout_ms"); ok {
		h.WriteTimeoutMs = val
	}
	if val, ok := utils.ExtractInt(data, "shutdown_timeout_ms"); ok {
		h.ShutdownTimeoutMs = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "max_phrases"); ok {
		cli.MaxPhrases = val
	}
	if val, ok := utils.Extract[bool](data, "no_color"); ok {
		cli.NoColor = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the solver values and saves to file
func (c *Config) Update(configPath string, cacheSize, maxLetters, timeoutMs *int) error {
	s := &c.Solver
	if cacheSize != nil {
		s.CacheSize = *cacheSize
	}
	if maxLetters != nil {
		s.MaxLetters = *maxLetters
	}
	if timeoutMs != nil {
		s.TimeoutMs = *timeoutMs
	}
	return SaveConfig(c, configPath)
}
