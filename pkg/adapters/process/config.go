package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HostConfig describes how to launch a host controller process.
type HostConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Dir         string            `yaml:"dir" json:"dir"`
}

// ConfigFile represents the structure of hosts.yaml
type ConfigFile struct {
	Hosts []HostConfig `yaml:"hosts" json:"hosts"`
}

// LoadConfig reads a configuration file (YAML or JSON) and returns a map of host names to configs.
// A missing file yields an empty map.
func LoadConfig(path string) (map[string]HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]HostConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read hosts config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	hosts := make(map[string]HostConfig)
	for _, h := range cfg.Hosts {
		if h.Name == "" || h.Command == "" {
			continue
		}
		hosts[h.Name] = h
	}
	return hosts, nil
}
