package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".ruleforge.yml"

// Config is the top-level RuleForge configuration.
type Config struct {
	Linter   LinterConfig `yaml:"linter"`
	Catalog  string       `yaml:"catalog"`
	Baseline string       `yaml:"baseline"`
	Corpus   CorpusConfig `yaml:"corpus"`
	Infer    InferConfig  `yaml:"infer"`
}

// LinterConfig describes the external lint engine.
type LinterConfig struct {
	Command    []string `yaml:"command"`
	MinVersion string   `yaml:"min_version"` // semver constraint, e.g. ">= 8.0.0"
	TimeoutSec int      `yaml:"timeout"`     // per-invocation timeout in seconds
}

// CorpusConfig describes where sample files come from.
type CorpusConfig struct {
	Root        string   `yaml:"root"`
	Exclude     []string `yaml:"exclude"`
	MaxFileSize int64    `yaml:"max_file_size"`
	TrackedOnly bool     `yaml:"tracked_only"` // restrict to git-tracked files
}

// Load reads configuration from a YAML file. If path is empty, it
// tries the default file. Returns defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Corpus: DefaultCorpusConfig(),
		Infer:  DefaultInferConfig(),
		Linter: LinterConfig{TimeoutSec: 30},
	}
}

// DefaultCorpusConfig returns production defaults.
func DefaultCorpusConfig() CorpusConfig {
	return CorpusConfig{
		Root:        ".",
		Exclude:     []string{},
		MaxFileSize: 500 * 1024, // 500 KB
		TrackedOnly: true,
	}
}
