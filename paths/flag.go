package paths

import (
	"flag"
	"strings"
)

// SetupFilePathFlag registers a string flag whose default is whatever Find
// returns for fileName, so an empty value means nothing was found.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	usage := "path to " + fileName + " (default search: " + strings.Join(Dirs(), ", ") + ")"
	flag.StringVar(flagPtr, flagName, Find(fileName), usage)
}
