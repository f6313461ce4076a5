package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// SystemWordLists are the usual locations of a system word list.
var SystemWordLists = []string{
	"/usr/share/dict/words",
	"/usr/dict/words",
}

// PathResolver finds the word list for the wordjumble binary
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a resolver for the running binary. configDir is
// searched for words.txt and is normally config.GetConfigDir().
func NewPathResolver(configDir string) (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := newPathResolver(execPath, homeDir, configDir)
	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		pr.executablePath, pr.executableDir, pr.configDir)
	return pr, nil
}

func newPathResolver(execPath, homeDir, configDir string) *PathResolver {
	return &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      configDir,
	}
}

// GetDictPath resolves the word list file. It tries, in order:
// 1. The user-specified path (absolute, or relative to the working directory)
// 2. The same path relative to the executable directory
// 3. words.txt next to the executable, in its data/ dir, or in the config dir
// 4. The system word lists
func (pr *PathResolver) GetDictPath(userSpecifiedPath string) (string, error) {
	for _, path := range pr.dictCandidates(userSpecifiedPath) {
		if isWordListFile(path) {
			log.Debugf("Found word list: %s", path)
			return path, nil
		}
		log.Debugf("Word list candidate not usable: %s", path)
	}
	if userSpecifiedPath != "" {
		return "", &os.PathError{Op: "resolve", Path: userSpecifiedPath, Err: os.ErrNotExist}
	}
	return "", errors.New("no word list found, pass one with -dict")
}

func (pr *PathResolver) dictCandidates(userSpecifiedPath string) []string {
	var candidates []string

	if userSpecifiedPath != "" {
		if filepath.IsAbs(userSpecifiedPath) {
			return []string{userSpecifiedPath}
		}
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
		}
		candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
		return candidates
	}

	candidates = append(candidates,
		filepath.Join(pr.executableDir, "words.txt"),
		filepath.Join(pr.executableDir, "data", "words.txt"),
	)
	if pr.configDir != "" {
		candidates = append(candidates, filepath.Join(pr.configDir, "words.txt"))
	}
	return append(candidates, SystemWordLists...)
}

// isWordListFile reports whether path is a non-empty regular file
func isWordListFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular() && stat.Size() > 0
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}

	envVars := []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"}
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
