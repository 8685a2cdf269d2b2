package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the application directory.
const EnvHome = "MASTOPOLL_HOME"

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir is where config and history live by default (~/.mastopoll).
func AppDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return ExpandPath(dir)
	}
	return filepath.Join(UserHomeDir(), ".mastopoll")
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
