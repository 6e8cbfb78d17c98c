package structmap

import (
	"log"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading ~ to the current user's home directory. Paths
// on Google Storage and paths without ~ are returned unchanged, as is the
// path itself when the home directory cannot be determined.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		log.Printf("Could not expand %s: %v\n", path, err)
		return path
	}

	return filepath.Join(usr.HomeDir, strings.TrimPrefix(path[1:], "/"))
}
