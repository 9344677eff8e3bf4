// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"

	"github.com/alnah/go-docmark/internal/fileutil"
)

// configDirName is the directory searched under the user config directory.
const configDirName = "go-docmark"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), configDirName+"/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForPolicyNotFound returns hints for a sanitization policy that could not be
// loaded. A name that looks like a path gets a path hint; a bare name lists
// the available policies.
func ForPolicyNotFound(name string, available []string) string {
	if fileutil.IsFilePath(name) {
		if !fileutil.FileExists(name) {
			return format("policy file " + name + " does not exist")
		}
		return format("policy files use the keys tags, attributes, protocols, strip, prefixes")
	}
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownConstruct returns hints listing the names --disable accepts.
func ForUnknownConstruct(known []string) string {
	if len(known) == 0 {
		return ""
	}
	return format("known constructs: " + strings.Join(known, ", "))
}

// ForNoInput returns a hint for invocations without input files.
func ForNoInput() string {
	return format("pass one or more .md files, a directory, or - for stdin")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
