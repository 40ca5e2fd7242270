package setup

import (
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		mustWrite(t, filepath.Join(root, name))
	}
}

func TestDetectDirectoryByMarkerFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "go.mod", "main.go")

	detector := NewLanguageDetector([]string{".git"})
	languages, err := detector.DetectDirectory(root)
	if err != nil {
		t.Fatalf("DetectDirectory failed: %v", err)
	}

	if languages["go"] != 1.0 {
		t.Errorf("go.mod should give full confidence, got %v", languages["go"])
	}
}

func TestDetectDirectoryByExtensionOnly(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "lib.rs")

	languages, err := NewLanguageDetector(nil).DetectDirectory(root)
	if err != nil {
		t.Fatalf("DetectDirectory failed: %v", err)
	}

	// Extension evidence is discounted relative to a Cargo.toml marker
	if got := languages["rust"]; got != 0.8 {
		t.Errorf("extension-only rust confidence = %v, want 0.8", got)
	}
}

func TestDetectTypeScriptSuppressesJavaScript(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "tsconfig.json", "package.json", "app.ts", "bundle.js")

	languages, err := NewLanguageDetector(nil).DetectDirectory(root)
	if err != nil {
		t.Fatalf("DetectDirectory failed: %v", err)
	}

	if _, ok := languages["typescript"]; !ok {
		t.Error("typescript not detected")
	}
	if _, ok := languages["javascript"]; ok {
		t.Error("javascript should be suppressed when typescript is present")
	}
}

func TestDetectIgnoresVendoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, filepath.Join("node_modules", "dep", "index.py"))

	detector := NewLanguageDetector([]string{"node_modules"})
	languages, err := detector.DetectDirectory(root)
	if err != nil {
		t.Fatalf("DetectDirectory failed: %v", err)
	}
	if _, ok := languages["python"]; ok {
		t.Error("python detected from ignored directory")
	}
}

func TestDetectRecursiveFindsSubprojects(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		filepath.Join("payment-service", "Cargo.toml"),
		filepath.Join("payment-service", "src", "main.rs"),
		filepath.Join("order-service", "go.mod"),
		filepath.Join("order-service", "main.go"),
		filepath.Join("docs", "notes.txt"), // no project marker
	)

	results, err := NewLanguageDetector(nil).DetectRecursive(root)
	if err != nil {
		t.Fatalf("DetectRecursive failed: %v", err)
	}

	if _, ok := results[filepath.Join(root, "payment-service")]; !ok {
		t.Error("rust subproject not discovered")
	}
	if _, ok := results[filepath.Join(root, "order-service")]; !ok {
		t.Error("go subproject not discovered")
	}
	if _, ok := results[filepath.Join(root, "docs")]; ok {
		t.Error("directory without project marker should not be scanned")
	}
}

func TestFilterByConfidence(t *testing.T) {
	results := map[string]map[string]float64{
		"/p": {"go": 1.0, "c": 0.3},
		"/q": {"ruby": 0.2},
	}

	filtered := FilterByConfidence(results, 0.5)
	if len(filtered) != 1 {
		t.Fatalf("expected one directory to survive, got %v", filtered)
	}
	if _, ok := filtered["/p"]["c"]; ok {
		t.Error("low-confidence language not filtered")
	}
	if filtered["/p"]["go"] != 1.0 {
		t.Error("high-confidence language lost")
	}
}

func TestSortedLanguagesOrder(t *testing.T) {
	langs := map[string]float64{"go": 0.8, "rust": 1.0, "c": 0.8}

	got := sortedLanguages(langs)
	want := []string{"rust", "c", "go"} // by confidence desc, then name
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedLanguages = %v, want %v", got, want)
		}
	}
}

func TestDetectRecursiveMissingRoot(t *testing.T) {
	if _, err := NewLanguageDetector(nil).DetectRecursive(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}
