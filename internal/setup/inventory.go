package setup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fpt/go-renova-cli/internal/agents"
)

// CheckItem is one inventory entry: a path, whether it exists, and what it is.
type CheckItem struct {
	Path        string `json:"path"`
	Exists      bool   `json:"exists"`
	Description string `json:"description"`
}

// InventoryReport is the JSON form of an inventory check.
type InventoryReport struct {
	ProjectRoot string                 `json:"project_root"`
	Categories  map[string][]CheckItem `json:"categories"`
	LegacyFiles []string               `json:"legacy_files"`
	Summary     InventorySummary       `json:"summary"`
}

// InventorySummary aggregates the check results.
type InventorySummary struct {
	TotalItems   int     `json:"total_items"`
	MissingItems int     `json:"missing_items"`
	HealthScore  float64 `json:"health_score"`
}

// InventoryChecker validates a renova project installation: which expected
// directories and files are present, and whether legacy orchestration files
// linger from earlier template versions.
type InventoryChecker struct {
	root       string
	categories []string
	results    map[string][]CheckItem
}

// NewInventoryChecker creates a checker rooted at the project directory.
func NewInventoryChecker(root string) *InventoryChecker {
	return &InventoryChecker{
		root:    root,
		results: make(map[string][]CheckItem),
	}
}

// RunFullCheck runs all inventory checks.
func (c *InventoryChecker) RunFullCheck() error {
	c.checkCoreStructure()
	if err := c.checkAgents(); err != nil {
		return err
	}
	c.checkConfiguration()
	c.checkDocumentation()
	return nil
}

func (c *InventoryChecker) checkCoreStructure() {
	c.checkDir(".renova", "Core", "renova root directory")
	c.checkDir(filepath.Join(".renova", "agents"), "Core", "Agent definitions")
	c.checkDir(filepath.Join(".renova", "state"), "Core", "Runtime state")
	c.checkDir(filepath.Join(".renova", "reports"), "Core", "Branch summary reports")
	c.checkDir("worktrees", "Core", "Git worktrees")
	c.checkDir("specs", "Core", "Project specifications")
}

func (c *InventoryChecker) checkAgents() error {
	catalog, err := agents.LoadBuiltinAgents()
	if err != nil {
		return fmt.Errorf("failed to load agent catalog: %w", err)
	}

	for _, name := range catalog.Names() {
		agentPath := filepath.Join(".renova", "agents", name+".md")
		c.checkFile(agentPath, "Agents", catalog[name].Description)
	}
	return nil
}

func (c *InventoryChecker) checkConfiguration() {
	c.checkFile(filepath.Join(".renova", "settings.json"), "Configuration", "Main configuration")
	c.checkFile(filepath.Join(".renova", ".gitignore"), "Configuration", "Git ignore rules")
}

func (c *InventoryChecker) checkDocumentation() {
	c.checkFile("README.md", "Documentation", "Project README")
	c.checkFile("CHANGELOG.md", "Documentation", "Change log")
	c.checkFile(filepath.Join("specs", "ROADMAP.md"), "Documentation", "Project roadmap")
}

func (c *InventoryChecker) checkFile(relPath, category, description string) {
	c.record(category, CheckItem{
		Path:        filepath.ToSlash(relPath),
		Exists:      fileExists(filepath.Join(c.root, relPath)),
		Description: description,
	})
}

func (c *InventoryChecker) checkDir(relPath, category, description string) {
	c.record(category, CheckItem{
		Path:        filepath.ToSlash(relPath) + "/",
		Exists:      dirExists(filepath.Join(c.root, relPath)),
		Description: description,
	})
}

func (c *InventoryChecker) record(category string, item CheckItem) {
	if _, seen := c.results[category]; !seen {
		c.categories = append(c.categories, category)
	}
	c.results[category] = append(c.results[category], item)
}

// Categories returns the check categories in insertion order.
func (c *InventoryChecker) Categories() []string {
	return c.categories
}

// Items returns the recorded items of one category.
func (c *InventoryChecker) Items(category string) []CheckItem {
	return c.results[category]
}

// Summary aggregates totals and the health score across all categories.
func (c *InventoryChecker) Summary() InventorySummary {
	summary := InventorySummary{}
	for _, items := range c.results {
		for _, item := range items {
			summary.TotalItems++
			if !item.Exists {
				summary.MissingItems++
			}
		}
	}
	if summary.TotalItems > 0 {
		summary.HealthScore = float64(summary.TotalItems-summary.MissingItems) / float64(summary.TotalItems) * 100
	}
	return summary
}

// Report assembles the JSON report, including the legacy file scan.
func (c *InventoryChecker) Report() InventoryReport {
	legacy := NewLegacyCleaner(c.root, nil).FindLegacyFiles()
	legacyRel := make([]string, 0, len(legacy))
	for _, path := range legacy {
		legacyRel = append(legacyRel, relativeToRoot(c.root, path))
	}

	return InventoryReport{
		ProjectRoot: c.root,
		Categories:  c.results,
		LegacyFiles: legacyRel,
		Summary:     c.Summary(),
	}
}

// TextReport renders the human-readable inventory report.
func (c *InventoryChecker) TextReport() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("🔍 renova Project Inventory Check"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n")

	for _, category := range c.categories {
		fmt.Fprintf(&sb, "\n%s:\n", category)
		for _, item := range c.results[category] {
			status := successStyle.Render("✓")
			if !item.Exists {
				status = missingStyle.Render("✗")
			}
			if item.Description != "" {
				fmt.Fprintf(&sb, "%s %s - %s\n", status, item.Path, item.Description)
			} else {
				fmt.Fprintf(&sb, "%s %s\n", status, item.Path)
			}
		}
	}

	legacy := NewLegacyCleaner(c.root, nil).FindLegacyFiles()
	if len(legacy) > 0 {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render("⚠ Legacy Files Found:"))
		sb.WriteString("\n")
		shown := legacy
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, path := range shown {
			fmt.Fprintf(&sb, "  - %s\n", relativeToRoot(c.root, path))
		}
		if len(legacy) > 10 {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(legacy)-10)
		}
	}

	summary := c.Summary()
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 50))
	fmt.Fprintf(&sb, "\nTotal items checked: %d\n", summary.TotalItems)
	fmt.Fprintf(&sb, "Missing items: %d\n", summary.MissingItems)
	fmt.Fprintf(&sb, "Health score: %.0f%%\n", summary.HealthScore)

	if summary.MissingItems > 0 {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render("Run 'renova cleanup' and create missing files to complete setup."))
		sb.WriteString("\n")
	}

	return sb.String()
}
