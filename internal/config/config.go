package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/codetrail/aiscan/internal/catalog"
)

type Config struct {
	Global   GlobalConfig   `yaml:"global"`
	Scan     ScanConfig     `yaml:"scan"`
	Patterns PatternsConfig `yaml:"patterns"`
}

type GlobalConfig struct {
	Concurrency int    `yaml:"concurrency"`
	GitHubToken string `yaml:"github_token,omitempty"`
}

type ScanConfig struct {
	// CloneTimeout bounds a single remote clone; zero means no limit.
	CloneTimeout Duration `yaml:"clone_timeout,omitempty"`
	Branch       string   `yaml:"branch,omitempty"`
}

// Duration accepts "5m" style strings in YAML, which time.Duration alone
// does not.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value at line %d", value.Line)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

type PatternsConfig struct {
	// ExtraTools extends the built-in tool catalog. Entries with an empty
	// name, no patterns, or a weight outside (0, 1] are rejected at load.
	ExtraTools []catalog.ToolSpec `yaml:"extra_tools,omitempty"`
}

func GetConfigPath() (string, error) {
	// Respect XDG_CONFIG_HOME if set (useful for testing and Linux users)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "aiscan", "config.yaml"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "aiscan", "config.yaml"), nil
}

func Load() (*Config, error) {
	cfg := &Config{
		Global: GlobalConfig{
			Concurrency: 4,
		},
	}

	// Priorities: ./config.yaml, user config dir, $HOME/.aiscan.yaml
	paths := []string{"config.yaml"} // Local override

	if p, err := GetConfigPath(); err == nil {
		paths = append(paths, p)
	}

	// Legacy fallback
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".aiscan.yaml"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing %s: %w", p, err)
			}
			return cfg, nil
		}
	}

	return cfg, nil
}

// Save writes the configuration to the user's config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("error getting config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
