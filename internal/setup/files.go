package setup

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// findFiles returns files under root whose base name matches the glob
// pattern, skipping the given directory names anywhere in the tree.
func findFiles(pattern, root string, ignoreDirs []string) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isIgnoredDir(d.Name(), ignoreDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

func isIgnoredDir(name string, ignoreDirs []string) bool {
	for _, ignored := range ignoreDirs {
		if name == ignored {
			return true
		}
	}
	return false
}

// matchLegacyPattern matches a relative slash-separated path against a glob
// pattern where "**" spans any number of path segments. filepath.Match covers
// single segments; this adds the recursive case the cleanup patterns need.
func matchLegacyPattern(pattern, relPath string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(relPath, "/"))
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	if pattern[0] == "**" {
		// "**" may consume zero or more leading segments
		for skip := 0; skip <= len(path); skip++ {
			if matchSegments(pattern[1:], path[skip:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}
	ok, err := filepath.Match(pattern[0], path[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

// relativeToRoot returns path relative to root, falling back to the path
// itself when it is not inside root.
func relativeToRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
