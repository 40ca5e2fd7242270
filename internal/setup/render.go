package setup

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// renderTable renders rows under headers with a plain border, the common
// shape for all setup tool listings.
func renderTable(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return titleStyle.Render(title) + "\n" + t.Render()
}

// RenderDetections renders language detection results as a table.
func RenderDetections(results map[string]map[string]float64, root string) string {
	var rows [][]string
	for _, path := range sortedKeys(results) {
		for _, lang := range sortedLanguages(results[path]) {
			rows = append(rows, []string{
				relativeToRoot(root, path),
				lang,
				fmt.Sprintf("%.0f%%", results[path][lang]*100),
			})
		}
	}

	return renderTable("Detected Languages", []string{"Directory", "Language", "Confidence"}, rows)
}

func sortedKeys(results map[string]map[string]float64) []string {
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
