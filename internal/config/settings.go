package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	pkgLogger "github.com/fpt/go-renova-cli/pkg/logger"
)

// Default branch for the level orchestrator: Branch 3 (Code) is the only
// branch driven level by level.
const DefaultCodeBranch = 3

// Default minimum confidence for language detection results
const DefaultDetectConfidence = 0.5

// Settings represents the main application settings
type Settings struct {
	Workspace    WorkspaceSettings    `json:"workspace"`
	Orchestrator OrchestratorSettings `json:"orchestrator"`
	Setup        SetupSettings        `json:"setup"`
}

// WorkspaceSettings contains project-wide configuration
type WorkspaceSettings struct {
	Root     string `json:"root,omitempty"` // project root (default: current directory)
	LogLevel string `json:"log_level"`
}

// OrchestratorSettings contains decision-flow configuration
type OrchestratorSettings struct {
	CodeBranch int `json:"code_branch"` // branch the level orchestrator targets by default
}

// SetupSettings contains configuration for the setup tools
type SetupSettings struct {
	IgnoreDirs        []string `json:"ignore_dirs,omitempty"`       // skipped during language detection and cleanup
	DetectConfidence  float64  `json:"detect_confidence,omitempty"` // minimum confidence threshold (0-1)
	CleanupKeepBackup bool     `json:"cleanup_keep_backup"`         // back up legacy files before deleting
}

// LoadSettings loads application settings from a JSON file
func LoadSettings(configPath string) (*Settings, error) {
	// If config path is empty, search in order of preference
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			// No settings file found, create default one and return defaults
			return createDefaultSettingsFile()
		}
	}

	// Check if specified file exists, create defaults if not
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		settings, _ := createSettingsFileAtPath(configPath)
		return settings, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Apply defaults for missing fields
	applyDefaults(&settings)

	return &settings, nil
}

// SaveSettings saves application settings to a JSON file
func SaveSettings(configPath string, settings *Settings) error {
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			configPath = filepath.Join(".renova", "settings.json")
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// GetDefaultSettings returns default application settings
func GetDefaultSettings() *Settings {
	return &Settings{
		Workspace: WorkspaceSettings{
			LogLevel: "info",
		},
		Orchestrator: OrchestratorSettings{
			CodeBranch: DefaultCodeBranch,
		},
		Setup: SetupSettings{
			IgnoreDirs: []string{
				".git", "node_modules", "__pycache__", "venv", ".venv",
				"target", "build", "dist", "coverage", ".idea", ".vscode",
			},
			DetectConfidence:  DefaultDetectConfidence,
			CleanupKeepBackup: true,
		},
	}
}

// applyDefaults fills in missing fields with default values
func applyDefaults(settings *Settings) {
	defaults := GetDefaultSettings()

	if settings.Workspace.LogLevel == "" {
		settings.Workspace.LogLevel = defaults.Workspace.LogLevel
	}
	if settings.Orchestrator.CodeBranch == 0 {
		settings.Orchestrator.CodeBranch = defaults.Orchestrator.CodeBranch
	}
	if len(settings.Setup.IgnoreDirs) == 0 {
		settings.Setup.IgnoreDirs = defaults.Setup.IgnoreDirs
	}
	if settings.Setup.DetectConfidence == 0 {
		settings.Setup.DetectConfidence = defaults.Setup.DetectConfidence
	}
}

// ValidateSettings validates the settings configuration
func ValidateSettings(settings *Settings) error {
	if settings.Orchestrator.CodeBranch < 0 || settings.Orchestrator.CodeBranch > 3 {
		return fmt.Errorf("code_branch must be between 0 and 3, got %d", settings.Orchestrator.CodeBranch)
	}

	if settings.Setup.DetectConfidence < 0 || settings.Setup.DetectConfidence > 1 {
		return fmt.Errorf("detect_confidence must be between 0 and 1, got %g", settings.Setup.DetectConfidence)
	}

	switch settings.Workspace.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s (must be 'debug', 'info', 'warn', or 'error')", settings.Workspace.LogLevel)
	}

	return nil
}

// findSettingsFile searches for settings.json in order of preference:
// 1. .renova/settings.json in current directory
// 2. $HOME/.renova/settings.json
// Returns empty string if none found
func findSettingsFile() string {
	currentDirPath := filepath.Join(".renova", "settings.json")
	if _, err := os.Stat(currentDirPath); err == nil {
		return currentDirPath
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		homeDirPath := filepath.Join(homeDir, ".renova", "settings.json")
		if _, err := os.Stat(homeDirPath); err == nil {
			return homeDirPath
		}
	}

	return ""
}

// createDefaultSettingsFile creates a default settings.json file in ~/.renova/
func createDefaultSettingsFile() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return GetDefaultSettings(), nil // Fall back to defaults without file creation
	}

	settingsPath := filepath.Join(homeDir, ".renova", "settings.json")
	return createSettingsFileAtPath(settingsPath)
}

// createSettingsFileAtPath creates a default settings file at the specified path
func createSettingsFileAtPath(settingsPath string) (*Settings, error) {
	settings := GetDefaultSettings()

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return settings, nil // Return defaults if directory creation fails
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return settings, nil
	}

	if err := os.WriteFile(settingsPath, data, 0644); err != nil {
		return settings, nil
	}

	pkgLogger.NewComponentLogger("settings").InfoWithIcon("📝", "Created default settings file", "path", settingsPath)

	return settings, nil
}
