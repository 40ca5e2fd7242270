package agents

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var embeddedFiles embed.FS

// AgentConfig describes one renovation agent known to the dispatch runtime.
type AgentConfig struct {
	Name        string `yaml:"-"` // Set during loading
	Tools       string `yaml:"tools"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

// AgentConfigMap represents all agents loaded from YAML files, keyed by name.
type AgentConfigMap map[string]AgentConfig

// Names returns the agent names in stable sorted order, for listings.
func (m AgentConfigMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadBuiltinAgents loads the built-in agent catalog from embedded files
func LoadBuiltinAgents() (AgentConfigMap, error) {
	catalog := make(AgentConfigMap)

	entries, err := embeddedFiles.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded agent catalog: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !isYAMLFile(name) {
			continue
		}

		data, err := embeddedFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded agent file %s: %w", name, err)
		}

		var fileAgents map[string]AgentConfig
		if err := yaml.Unmarshal(data, &fileAgents); err != nil {
			return nil, fmt.Errorf("failed to parse embedded agent file %s: %w", name, err)
		}

		// Add agents to the map, setting the name
		for agentName, agentConfig := range fileAgents {
			agentConfig.Name = agentName
			catalog[agentName] = agentConfig
		}
	}

	return catalog, nil
}

func isYAMLFile(name string) bool {
	return len(name) > 5 && (name[len(name)-5:] == ".yaml" || (len(name) > 4 && name[len(name)-4:] == ".yml"))
}
