// Package paths locates the server's files when no path was given.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// HomeEnv names a directory searched before any other.
const HomeEnv = "GLOWSTONE_HOME"

// Dirs lists the directories Find searches, in order: $GLOWSTONE_HOME, the
// working directory, the user's config directory and the executable's
// directory. Directories that cannot be determined are left out.
func Dirs() []string {
	var dirs []string
	if home := os.Getenv(HomeEnv); home != "" {
		dirs = append(dirs, home)
	}
	dirs = append(dirs, ".")
	if cfg, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(cfg, "glowstone"))
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Find returns the first existing regular file called fileName in Dirs, or
// an empty string.
func Find(fileName string) string {
	for _, dir := range Dirs() {
		path := filepath.Join(dir, fileName)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}
