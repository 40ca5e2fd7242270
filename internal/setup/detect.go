package setup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	pkgLogger "github.com/fpt/go-renova-cli/pkg/logger"
)

var logger = pkgLogger.NewComponentLogger("setup")

// languagePattern describes how one language is recognized in a directory.
type languagePattern struct {
	Files      []string // marker files; entries may contain a glob
	Extensions []string
	Confidence float64
}

// Marker files give full pattern confidence; extension-only evidence is
// discounted because stray files are common in mixed repositories.
const extensionWeight = 0.8

var languagePatterns = map[string]languagePattern{
	"rust":       {Files: []string{"Cargo.toml"}, Extensions: []string{".rs"}, Confidence: 1.0},
	"go":         {Files: []string{"go.mod", "go.sum"}, Extensions: []string{".go"}, Confidence: 1.0},
	"typescript": {Files: []string{"tsconfig.json"}, Extensions: []string{".ts", ".tsx"}, Confidence: 0.95},
	"javascript": {Files: []string{"package.json"}, Extensions: []string{".js", ".jsx", ".mjs"}, Confidence: 0.9},
	"python":     {Files: []string{"requirements.txt", "setup.py", "pyproject.toml", "Pipfile"}, Extensions: []string{".py"}, Confidence: 1.0},
	"cpp":        {Files: []string{"CMakeLists.txt"}, Extensions: []string{".cpp", ".cc", ".cxx", ".hpp"}, Confidence: 0.95},
	"c":          {Files: []string{"Makefile", "makefile"}, Extensions: []string{".c", ".h"}, Confidence: 0.9},
	"java":       {Files: []string{"pom.xml", "build.gradle", "build.gradle.kts"}, Extensions: []string{".java"}, Confidence: 1.0},
	"kotlin":     {Files: []string{"build.gradle.kts"}, Extensions: []string{".kt", ".kts"}, Confidence: 0.95},
	"csharp":     {Files: []string{"*.csproj", "*.sln"}, Extensions: []string{".cs"}, Confidence: 1.0},
	"swift":      {Files: []string{"Package.swift"}, Extensions: []string{".swift"}, Confidence: 1.0},
	"ruby":       {Files: []string{"Gemfile", "Rakefile"}, Extensions: []string{".rb"}, Confidence: 1.0},
	"php":        {Files: []string{"composer.json"}, Extensions: []string{".php"}, Confidence: 1.0},
	"elixir":     {Files: []string{"mix.exs"}, Extensions: []string{".ex", ".exs"}, Confidence: 1.0},
	"haskell":    {Files: []string{"*.cabal", "stack.yaml"}, Extensions: []string{".hs", ".lhs"}, Confidence: 1.0},
	"scala":      {Files: []string{"build.sbt"}, Extensions: []string{".scala"}, Confidence: 1.0},
	"zig":        {Files: []string{"build.zig"}, Extensions: []string{".zig"}, Confidence: 1.0},
	"dart":       {Files: []string{"pubspec.yaml"}, Extensions: []string{".dart"}, Confidence: 1.0},
}

// projectMarkers flag a subdirectory as a project of its own during
// recursive detection.
var projectMarkers = []string{
	"Cargo.toml", "go.mod", "package.json", "pom.xml",
	"CMakeLists.txt", "setup.py", "pubspec.yaml",
}

// LanguageDetector detects programming languages in project directories.
type LanguageDetector struct {
	ignoreDirs []string
}

// NewLanguageDetector creates a detector skipping the given directory names.
func NewLanguageDetector(ignoreDirs []string) *LanguageDetector {
	return &LanguageDetector{ignoreDirs: ignoreDirs}
}

// DetectDirectory returns language -> confidence for a single directory.
func (d *LanguageDetector) DetectDirectory(dir string) (map[string]float64, error) {
	languages := make(map[string]float64)

	for lang, pattern := range languagePatterns {
		confidence := 0.0

		for _, filePattern := range pattern.Files {
			if strings.Contains(filePattern, "*") {
				matches, err := findFiles(filePattern, dir, d.ignoreDirs)
				if err != nil {
					return nil, err
				}
				if len(matches) > 0 {
					confidence = max(confidence, pattern.Confidence)
				}
			} else if fileExists(filepath.Join(dir, filePattern)) {
				confidence = max(confidence, pattern.Confidence)
			}
		}

		for _, ext := range pattern.Extensions {
			matches, err := findFiles("*"+ext, dir, d.ignoreDirs)
			if err != nil {
				return nil, err
			}
			if len(matches) > 0 {
				confidence = max(confidence, pattern.Confidence*extensionWeight)
			}
		}

		if confidence > 0 {
			languages[lang] = confidence
		}
	}

	// TypeScript projects carry .js build output; report only TypeScript
	if _, hasTS := languages["typescript"]; hasTS {
		delete(languages, "javascript")
	}

	return languages, nil
}

// DetectRecursive detects languages in root and in each immediate
// subdirectory that looks like a project of its own.
func (d *LanguageDetector) DetectRecursive(root string) (map[string]map[string]float64, error) {
	results := make(map[string]map[string]float64)

	rootLangs, err := d.DetectDirectory(root)
	if err != nil {
		return nil, err
	}
	if len(rootLangs) > 0 {
		results[root] = rootLangs
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() || isIgnoredDir(entry.Name(), d.ignoreDirs) {
			continue
		}

		subdir := filepath.Join(root, entry.Name())
		if !hasProjectMarker(subdir) {
			continue
		}

		languages, err := d.DetectDirectory(subdir)
		if err != nil {
			return nil, err
		}
		if len(languages) > 0 {
			results[subdir] = languages
		}
	}

	return results, nil
}

// FilterByConfidence drops detections below the threshold.
func FilterByConfidence(results map[string]map[string]float64, threshold float64) map[string]map[string]float64 {
	filtered := make(map[string]map[string]float64)
	for path, languages := range results {
		kept := make(map[string]float64)
		for lang, confidence := range languages {
			if confidence >= threshold {
				kept[lang] = confidence
			}
		}
		if len(kept) > 0 {
			filtered[path] = kept
		}
	}
	return filtered
}

// sortedLanguages returns the languages of one detection ordered by
// confidence descending, then by name for stable output.
func sortedLanguages(languages map[string]float64) []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func hasProjectMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if fileExists(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}
