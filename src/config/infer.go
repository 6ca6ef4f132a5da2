package config

// InferConfig controls candidate generation and evaluation.
type InferConfig struct {
	// Severity prefixed to every generated candidate.
	Severity string `yaml:"severity"`
	// Deny lists rule ids excluded from candidate generation, e.g.
	// rules whose schemas are known to explode combinatorially.
	Deny []string `yaml:"deny"`
	// MaxCandidates caps how many candidates a rule may have and
	// still be batched.
	MaxCandidates int `yaml:"max_candidates"`
	// CacheDir holds evaluation results between runs.
	CacheDir string `yaml:"cache_dir"`
}

// DefaultInferConfig returns production defaults.
func DefaultInferConfig() InferConfig {
	return InferConfig{
		Severity:      "error",
		Deny:          []string{},
		MaxCandidates: 16,
		CacheDir:      ".ruleforge/cache",
	}
}

// DenySet returns the deny-list as a set, merged with extra ids (CLI
// flags, baseline extraction).
func (c InferConfig) DenySet(extra ...[]string) map[string]bool {
	deny := make(map[string]bool, len(c.Deny))
	for _, id := range c.Deny {
		deny[id] = true
	}
	for _, list := range extra {
		for _, id := range list {
			deny[id] = true
		}
	}
	return deny
}
