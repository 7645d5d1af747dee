// Package paths resolves the on-disk locations used by webcompat: the home
// directory, the dataset cache, logs and the metrics database.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// HomeEnvVar overrides the home directory.
	HomeEnvVar = "WEBCOMPAT_HOME"

	// DefaultHome is the directory name created under the user's home.
	DefaultHome = ".webcompat"

	// ProjectDir is the per-project configuration directory.
	ProjectDir = ".webcompat"
)

// GetHome returns the webcompat home directory, honouring WEBCOMPAT_HOME.
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return ExpandHome(home)
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, DefaultHome), nil
}

// GetCacheDir returns the dataset cache directory (home/cache).
func GetCacheDir() (string, error) {
	return subdir("cache")
}

// GetLogDir returns the log directory (home/logs).
func GetLogDir() (string, error) {
	return subdir("logs")
}

// GetMetricsDBPath returns the path of the SQLite metrics database.
func GetMetricsDBPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "metrics.db"), nil
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~")), nil
}

func subdir(name string) (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name), nil
}
