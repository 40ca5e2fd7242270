package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/fpt/go-renova-cli/internal/repository"
)

// Workflow artifacts whose shape external agents must produce. The worktree
// plan and markers are written by analyzer/architect agents out of process;
// publishing their schemas keeps that contract checkable.
var schemaArtifacts = map[string]any{
	"worktree-plan":       &repository.WorktreePlan{},
	"level-marker":        &repository.LevelMarker{},
	"orchestration-state": &repository.OrchestrationState{},
}

func runSchema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, _, err := loadEnvironment(cf); err != nil {
		return err
	}

	names := fs.Args()
	if len(names) == 0 {
		for name := range schemaArtifacts {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	reflector := new(jsonschema.Reflector)

	for _, name := range names {
		artifact, ok := schemaArtifacts[name]
		if !ok {
			return fmt.Errorf("unknown artifact %q (known: %s)", name, strings.Join(knownArtifacts(), ", "))
		}

		schema := reflector.Reflect(artifact)
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema for %s: %w", name, err)
		}

		if len(names) > 1 {
			fmt.Printf("--- %s ---\n", name)
		}
		fmt.Println(string(data))
	}

	return nil
}

func knownArtifacts() []string {
	names := make([]string, 0, len(schemaArtifacts))
	for name := range schemaArtifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
