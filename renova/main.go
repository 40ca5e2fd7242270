package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/fpt/go-renova-cli/internal/agents"
	"github.com/fpt/go-renova-cli/internal/app"
	"github.com/fpt/go-renova-cli/internal/config"
	"github.com/fpt/go-renova-cli/internal/infra"
	"github.com/fpt/go-renova-cli/internal/setup"
	pkgLogger "github.com/fpt/go-renova-cli/pkg/logger"
)

// patternsFlag implements flag.Value for handling repeated -p pattern flags
type patternsFlag []string

func (p *patternsFlag) String() string {
	return strings.Join(*p, ",")
}

func (p *patternsFlag) Set(value string) error {
	*p = append(*p, value)
	return nil
}

func printUsage() {
	fmt.Println("renova - staged renovation orchestrator for agent-driven codebase rework")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  next                    Decide the next branch-level agent to invoke")
	fmt.Println("  level                   Decide the next level within the Code branch")
	fmt.Println("  agents                  List the built-in renovation agent catalog")
	fmt.Println("  detect [dir...]         Detect programming languages in project directories")
	fmt.Println("  inventory               Check which renova files are present")
	fmt.Println("  cleanup                 Remove legacy orchestration files")
	fmt.Println("  schema                  Print JSON Schemas of the workflow artifacts")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  renova next                              # What should the runtime dispatch next?")
	fmt.Println("  renova level -b 3                        # Next level decision for Branch 3 (Code)")
	fmt.Println("  renova detect -r --json services/        # Recursive detection, JSON output")
	fmt.Println("  renova cleanup --dry-run                 # Show legacy files without deleting")
	fmt.Println("  renova schema worktree-plan              # Schema for analyzer output")
	fmt.Println()
	fmt.Println("Run 'renova <command> -h' for command flags.")
}

// commonFlags are shared by every subcommand
type commonFlags struct {
	workdir      *string
	settingsPath *string
	verbose      *bool
	verboseLong  *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		workdir:      fs.String("workdir", ".", "Project root directory"),
		settingsPath: fs.String("settings", "", "Path to settings file"),
		verbose:      fs.Bool("v", false, "Enable verbose logging (debug level)"),
		verboseLong:  fs.Bool("verbose", false, "Enable verbose logging (debug level)"),
	}
}

// loadEnvironment parses the common flags' results into settings and a
// project root, and configures the global logger
func loadEnvironment(cf *commonFlags) (*config.Settings, string, error) {
	settings, err := config.LoadSettings(*cf.settingsPath)
	if err != nil {
		pkgLogger.Default.WarnWithIcon("⚠️", "Failed to load settings, using defaults", "error", err)
		settings = config.GetDefaultSettings()
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, "", err
	}

	logLevel := settings.Workspace.LogLevel
	if *cf.verbose || *cf.verboseLong {
		logLevel = "debug"
	}
	pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevel(logLevel))

	workdir := *cf.workdir
	if workdir == "." && settings.Workspace.Root != "" {
		workdir = settings.Workspace.Root
	}

	return settings, workdir, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	command, args := os.Args[1], os.Args[2:]

	var err error
	switch command {
	case "next":
		err = runNext(args)
	case "level":
		err = runLevel(args)
	case "agents":
		err = runAgents(args)
	case "detect":
		err = runDetect(args)
	case "inventory":
		err = runInventory(args)
	case "cleanup":
		err = runCleanup(args)
	case "schema":
		err = runSchema(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		pkgLogger.Default.ErrorWithIcon("❌", "Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func runNext(args []string) error {
	fs := flag.NewFlagSet("next", flag.ExitOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, workdir, err := loadEnvironment(cf)
	if err != nil {
		return err
	}

	store := infra.NewFileStateStore(workdir)
	action := app.NewChunkOrchestrator(store).DetermineNextAction()

	if err := checkAgentKnown(action.Agent); err != nil {
		return err
	}

	app.WriteDecision(os.Stdout, "Orchestrator Decision", action)
	return nil
}

func runLevel(args []string) error {
	fs := flag.NewFlagSet("level", flag.ExitOnError)
	cf := addCommonFlags(fs)
	branch := fs.Int("b", -1, "Branch number (0-3)")
	branchLong := fs.Int("branch", -1, "Branch number (0-3)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, workdir, err := loadEnvironment(cf)
	if err != nil {
		return err
	}

	resolvedBranch := *branch
	if resolvedBranch < 0 {
		resolvedBranch = *branchLong
	}
	if resolvedBranch < 0 {
		resolvedBranch = settings.Orchestrator.CodeBranch
	}
	if resolvedBranch < 0 || resolvedBranch > 3 {
		return fmt.Errorf("branch must be between 0 and 3, got %d", resolvedBranch)
	}

	store := infra.NewFileStateStore(workdir)
	action, err := app.NewLevelOrchestrator(store, resolvedBranch).DetermineNextAction()
	if err != nil {
		return err
	}

	if err := checkAgentKnown(action.Agent); err != nil {
		return err
	}

	title := fmt.Sprintf("Dynamic Orchestrator (Branch %d) Decision", resolvedBranch)
	app.WriteDecision(os.Stdout, title, action)
	return nil
}

// checkAgentKnown guards against decisions naming agents the dispatch
// runtime has no definition for
func checkAgentKnown(name string) error {
	catalog, err := agents.LoadBuiltinAgents()
	if err != nil {
		return err
	}
	if _, ok := catalog[name]; !ok {
		return fmt.Errorf("decision names unknown agent %q", name)
	}
	return nil
}

func runAgents(args []string) error {
	fs := flag.NewFlagSet("agents", flag.ExitOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, _, err := loadEnvironment(cf); err != nil {
		return err
	}

	catalog, err := agents.LoadBuiltinAgents()
	if err != nil {
		return err
	}

	fmt.Println("Built-in renovation agents:")
	fmt.Println()
	for _, name := range catalog.Names() {
		fmt.Printf("  %-36s %s\n", name, catalog[name].Description)
	}
	return nil
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	cf := addCommonFlags(fs)
	outputJSON := fs.Bool("json", false, "Output results as JSON")
	recursive := fs.Bool("r", false, "Recursively scan subdirectories")
	recursiveLong := fs.Bool("recursive", false, "Recursively scan subdirectories")
	confidence := fs.Float64("c", -1, "Minimum confidence threshold (0-1)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, workdir, err := loadEnvironment(cf)
	if err != nil {
		return err
	}

	threshold := *confidence
	if threshold < 0 {
		threshold = settings.Setup.DetectConfidence
	}

	directories := fs.Args()
	if len(directories) == 0 {
		directories = []string{workdir}
	}

	detector := setup.NewLanguageDetector(settings.Setup.IgnoreDirs)
	allResults := make(map[string]map[string]float64)

	for _, dir := range directories {
		if *recursive || *recursiveLong {
			results, err := detector.DetectRecursive(dir)
			if err != nil {
				return err
			}
			for path, languages := range results {
				allResults[path] = languages
			}
		} else {
			languages, err := detector.DetectDirectory(dir)
			if err != nil {
				return err
			}
			if len(languages) > 0 {
				allResults[dir] = languages
			}
		}
	}

	allResults = setup.FilterByConfidence(allResults, threshold)

	if *outputJSON {
		data, err := json.MarshalIndent(allResults, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(allResults) == 0 {
		fmt.Printf("No languages detected with confidence >= %g\n", threshold)
		return nil
	}
	fmt.Println(setup.RenderDetections(allResults, workdir))
	return nil
}

func runInventory(args []string) error {
	fs := flag.NewFlagSet("inventory", flag.ExitOnError)
	cf := addCommonFlags(fs)
	format := fs.String("f", "text", "Output format (text or json)")
	formatLong := fs.String("format", "text", "Output format (text or json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, workdir, err := loadEnvironment(cf)
	if err != nil {
		return err
	}

	resolvedFormat := *format
	if resolvedFormat == "text" && *formatLong != "text" {
		resolvedFormat = *formatLong
	}

	checker := setup.NewInventoryChecker(workdir)
	if err := checker.RunFullCheck(); err != nil {
		return err
	}

	switch resolvedFormat {
	case "json":
		data, err := json.MarshalIndent(checker.Report(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		fmt.Println(checker.TextReport())
	default:
		return fmt.Errorf("unsupported format: %s (must be 'text' or 'json')", resolvedFormat)
	}
	return nil
}

func runCleanup(args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	cf := addCommonFlags(fs)
	force := fs.Bool("force", false, "Skip confirmation prompt")
	dryRun := fs.Bool("dry-run", false, "Show what would be deleted without deleting")
	noBackup := fs.Bool("no-backup", false, "Skip backup before deletion")
	var patterns patternsFlag
	fs.Var(&patterns, "p", "Additional legacy pattern to clean (can be used multiple times)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, workdir, err := loadEnvironment(cf)
	if err != nil {
		return err
	}

	log := pkgLogger.NewComponentLogger("cleanup")
	cleaner := setup.NewLegacyCleaner(workdir, patterns)

	files := cleaner.FindLegacyFiles()
	if len(files) == 0 {
		fmt.Println("No legacy files found. Project is clean.")
		return nil
	}

	fmt.Println(cleaner.RenderLegacyFiles(files))

	if *dryRun {
		fmt.Println("Dry run: no files were deleted. Re-run without --dry-run to clean up.")
		return nil
	}

	if !*force {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete %d files", len(files)),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Cleanup cancelled.")
			return nil
		}
	}

	if settings.Setup.CleanupKeepBackup && !*noBackup {
		backupDir, err := cleaner.BackupFiles(files)
		if err != nil {
			return err
		}
		log.InfoWithIcon("📦", "Backup created", "path", backupDir)
	}

	deleted := cleaner.DeleteFiles(files)
	log.InfoWithIcon("🗑️", "Deleted legacy files", "count", deleted)

	if removed := cleaner.CleanupEmptyDirs(); removed > 0 {
		log.InfoWithIcon("🧹", "Removed empty directories", "count", removed)
	}

	fmt.Println("Cleanup complete. Run 'renova inventory' to review the project state.")
	return nil
}
