package levels

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default is the level loaded when no other is named.
const Default = "platform.yaml"

//go:embed *.yaml
var LevelsFS embed.FS

// Load returns the named level. A copy under levels/ on disk wins over the
// embedded one so edits show up without a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(DiskPath(clean)); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(DiskPath(cleanLevelPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// DiskPath is where the on-disk override of a level lives.
func DiskPath(name string) string {
	return filepath.Join("levels", filepath.FromSlash(cleanLevelPath(name)))
}

// Matches reports whether a watched path refers to the named level.
func Matches(path, name string) bool {
	return filepath.Base(path) == filepath.Base(cleanLevelPath(name))
}

func cleanLevelPath(path string) string {
	if path == "" {
		return Default
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		return after
	}
	return s
}
