package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"workspace": {"log_level": "debug"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if settings.Workspace.LogLevel != "debug" {
		t.Errorf("explicit log level lost: %q", settings.Workspace.LogLevel)
	}
	if settings.Orchestrator.CodeBranch != DefaultCodeBranch {
		t.Errorf("code branch default not applied: %d", settings.Orchestrator.CodeBranch)
	}
	if settings.Setup.DetectConfidence != DefaultDetectConfidence {
		t.Errorf("confidence default not applied: %g", settings.Setup.DetectConfidence)
	}
	if len(settings.Setup.IgnoreDirs) == 0 {
		t.Error("ignore dirs default not applied")
	}
}

func TestLoadSettingsCreatesFileWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".renova", "settings.json")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Orchestrator.CodeBranch != DefaultCodeBranch {
		t.Errorf("expected defaults, got %+v", settings)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default settings file not created: %v", err)
	}
}

func TestLoadSettingsRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Error("expected parse error for malformed settings")
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".renova", "settings.json")

	settings := GetDefaultSettings()
	settings.Workspace.LogLevel = "warn"
	if err := SaveSettings(path, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.Workspace.LogLevel != "warn" {
		t.Errorf("round-trip lost log level: %q", loaded.Workspace.LogLevel)
	}
}

func TestValidateSettings(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults are valid", func(s *Settings) {}, false},
		{"branch out of range", func(s *Settings) { s.Orchestrator.CodeBranch = 4 }, true},
		{"negative branch", func(s *Settings) { s.Orchestrator.CodeBranch = -1 }, true},
		{"confidence out of range", func(s *Settings) { s.Setup.DetectConfidence = 1.5 }, true},
		{"bad log level", func(s *Settings) { s.Workspace.LogLevel = "loud" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			settings := GetDefaultSettings()
			tc.mutate(settings)

			err := ValidateSettings(settings)
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
