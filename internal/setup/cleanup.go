package setup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// errOutsideRoot guards the backup step against paths escaping the project.
var errOutsideRoot = errors.New("legacy file is outside the project root")

// legacyPatterns match orchestration files left behind by the Python-based
// template versions that renova replaces. Relative to the project root,
// slash-separated; "**" spans directories.
var legacyPatterns = []string{
	".renova/**/*.py",
	".renova/orchestration/**",
	".renova/phase-manager*",
	".renova/agent-mesh*",
	".renova/**/*orchestrat*",
	".renova/playbooks/*.yaml",
	".renova/contracts/**",
	".renova/agents/*.yaml",
	".renova/agents/*.yml",
}

// keepPatterns are never removed, whatever the legacy patterns say.
var keepPatterns = []string{
	".renova/settings.json",
	".renova/.gitignore",
	".renova/state/**",
	".renova/reports/**",
	".renova/backups/**",
}

// LegacyCleaner finds and removes leftover files from earlier template
// versions, with an optional backup before deletion.
type LegacyCleaner struct {
	root          string
	extraPatterns []string
}

// NewLegacyCleaner creates a cleaner rooted at the project directory.
// Extra patterns extend the built-in legacy pattern list.
func NewLegacyCleaner(root string, extraPatterns []string) *LegacyCleaner {
	return &LegacyCleaner{root: root, extraPatterns: extraPatterns}
}

// FindLegacyFiles walks the project and returns legacy files in sorted
// order, honoring the keep patterns.
func (c *LegacyCleaner) FindLegacyFiles() []string {
	patterns := append(append([]string{}, legacyPatterns...), c.extraPatterns...)

	var found []string
	_ = filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil // unreadable subtrees are skipped, not fatal
		}

		rel := relativeToRoot(c.root, path)
		if c.shouldKeep(rel) {
			return nil
		}
		for _, pattern := range patterns {
			if matchLegacyPattern(pattern, rel) {
				found = append(found, path)
				return nil
			}
		}
		return nil
	})

	sort.Strings(found)
	return found
}

func (c *LegacyCleaner) shouldKeep(rel string) bool {
	for _, pattern := range keepPatterns {
		if matchLegacyPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// BackupFiles copies files into a fresh backup directory under
// .renova/backups, preserving their relative layout, and returns its path.
func (c *LegacyCleaner) BackupFiles(files []string) (string, error) {
	if len(files) == 0 {
		return "", nil
	}

	stamp := time.Now().Format("20060102_150405")
	backupDir := filepath.Join(c.root, ".renova", "backups",
		fmt.Sprintf("legacy_backup_%s_%s", stamp, uuid.NewString()[:8]))
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, path := range files {
		rel, err := filepath.Rel(c.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", errors.Wrapf(errOutsideRoot, "%s", path)
		}

		target := filepath.Join(backupDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return "", fmt.Errorf("failed to create backup subdirectory: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", path, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write backup of %s: %w", path, err)
		}
	}

	return backupDir, nil
}

// DeleteFiles removes the given files and returns how many were deleted.
// Individual failures are logged and skipped.
func (c *LegacyCleaner) DeleteFiles(files []string) int {
	deleted := 0
	for _, path := range files {
		if err := os.Remove(path); err != nil {
			logger.WarnWithIcon("⚠️", "Failed to delete legacy file", "path", path, "error", err)
			continue
		}
		deleted++
	}
	return deleted
}

// CleanupEmptyDirs removes directories left empty after deletion, deepest
// first, and returns how many were removed. The project root itself and the
// backups tree are left alone.
func (c *LegacyCleaner) CleanupEmptyDirs() int {
	var dirs []string
	backupRoot := filepath.Join(c.root, ".renova", "backups")

	_ = filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != c.root && !strings.HasPrefix(path, backupRoot) {
			dirs = append(dirs, path)
		}
		return nil
	})

	// Deepest directories first so parents empty out as children go
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err == nil {
			removed++
		}
	}
	return removed
}

// RenderLegacyFiles renders the found files with their sizes as a table.
func (c *LegacyCleaner) RenderLegacyFiles(files []string) string {
	var rows [][]string
	var totalSize int64

	shown := files
	if len(shown) > 20 {
		shown = shown[:20]
	}
	for _, path := range shown {
		size := int64(0)
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		totalSize += size
		rows = append(rows, []string{relativeToRoot(c.root, path), fmt.Sprintf("%d bytes", size)})
	}
	if len(files) > 20 {
		rows = append(rows, []string{fmt.Sprintf("... and %d more", len(files)-20), ""})
	}

	title := fmt.Sprintf("Found %d Legacy Files", len(files))
	return renderTable(title, []string{"File", "Size"}, rows) +
		fmt.Sprintf("\nTotal size: %d bytes\n", totalSize)
}
