package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func legacyProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, ".renova", "hooks", "chunk_orchestrator.py"))
	mustWrite(t, filepath.Join(root, ".renova", "playbooks", "deploy.yaml"))
	mustWrite(t, filepath.Join(root, ".renova", "agents", "old-agent.yaml"))
	// Must survive every cleanup
	mustWrite(t, filepath.Join(root, ".renova", "settings.json"))
	mustWrite(t, filepath.Join(root, ".renova", "state", "orchestration-state.json"))
	mustWrite(t, filepath.Join(root, "src", "main.py"))
	return root
}

func TestFindLegacyFiles(t *testing.T) {
	root := legacyProject(t)

	found := NewLegacyCleaner(root, nil).FindLegacyFiles()
	if len(found) != 3 {
		t.Fatalf("expected 3 legacy files, got %v", found)
	}
	for _, path := range found {
		rel := relativeToRoot(root, path)
		if rel == ".renova/settings.json" || strings.HasPrefix(rel, ".renova/state/") {
			t.Errorf("keep pattern violated: %s", rel)
		}
		if strings.HasPrefix(rel, "src/") {
			t.Errorf("file outside .renova flagged as legacy: %s", rel)
		}
	}
}

func TestFindLegacyFilesExtraPatterns(t *testing.T) {
	root := legacyProject(t)
	mustWrite(t, filepath.Join(root, "tools", "migrate.sh"))

	found := NewLegacyCleaner(root, []string{"tools/*.sh"}).FindLegacyFiles()
	if len(found) != 4 {
		t.Errorf("extra pattern not honored: %v", found)
	}
}

func TestBackupFilesPreservesLayout(t *testing.T) {
	root := legacyProject(t)
	cleaner := NewLegacyCleaner(root, nil)

	files := cleaner.FindLegacyFiles()
	backupDir, err := cleaner.BackupFiles(files)
	if err != nil {
		t.Fatalf("BackupFiles failed: %v", err)
	}
	if !strings.Contains(backupDir, "legacy_backup_") {
		t.Errorf("unexpected backup dir name: %s", backupDir)
	}

	backedUp := filepath.Join(backupDir, ".renova", "hooks", "chunk_orchestrator.py")
	if !fileExists(backedUp) {
		t.Errorf("relative layout not preserved in backup: %s missing", backedUp)
	}
}

func TestBackupFilesEmptyList(t *testing.T) {
	dir, err := NewLegacyCleaner(t.TempDir(), nil).BackupFiles(nil)
	if err != nil {
		t.Fatalf("BackupFiles failed: %v", err)
	}
	if dir != "" {
		t.Errorf("no backup dir expected for empty list, got %s", dir)
	}
}

func TestDeleteFilesAndCleanupEmptyDirs(t *testing.T) {
	root := legacyProject(t)
	cleaner := NewLegacyCleaner(root, nil)

	files := cleaner.FindLegacyFiles()
	if deleted := cleaner.DeleteFiles(files); deleted != len(files) {
		t.Errorf("deleted %d of %d files", deleted, len(files))
	}
	for _, path := range files {
		if fileExists(path) {
			t.Errorf("file still present after delete: %s", path)
		}
	}

	if removed := cleaner.CleanupEmptyDirs(); removed == 0 {
		t.Error("expected emptied directories to be removed")
	}
	if dirExists(filepath.Join(root, ".renova", "hooks")) {
		t.Error("emptied hooks directory not removed")
	}
	if !fileExists(filepath.Join(root, ".renova", "settings.json")) {
		t.Error("kept file disappeared")
	}

	// A second pass finds nothing: cleanup is idempotent
	if again := cleaner.FindLegacyFiles(); len(again) != 0 {
		t.Errorf("expected clean project, found %v", again)
	}
}

func TestCleanupEmptyDirsSparesBackups(t *testing.T) {
	root := t.TempDir()
	emptyBackup := filepath.Join(root, ".renova", "backups", "legacy_backup_x")
	if err := os.MkdirAll(emptyBackup, 0755); err != nil {
		t.Fatal(err)
	}

	NewLegacyCleaner(root, nil).CleanupEmptyDirs()
	if !dirExists(emptyBackup) {
		t.Error("backup directory must not be swept")
	}
}
