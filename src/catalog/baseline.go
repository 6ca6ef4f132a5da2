package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// BaselineRules extracts the rule ids already configured in an
// existing linter config file so they can be appended to the
// deny-list — inference should not second-guess rules the user pinned.
// YAML, TOML, and JSON configs are supported, keyed by extension.
func BaselineRules(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("baseline: reading %s: %w", path, err)
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("baseline: unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("baseline: parsing %s: %w", path, err)
	}

	rules := configuredRules(doc)
	sort.Strings(rules)
	return rules, nil
}

// configuredRules pulls the keys of the "rules" table. YAML decodes
// nested maps as map[string]any at the top level but some decoders
// produce map[any]any below; both shapes are handled.
func configuredRules(doc map[string]any) []string {
	raw, ok := doc["rules"]
	if !ok {
		return nil
	}

	switch m := raw.(type) {
	case map[string]any:
		out := make([]string, 0, len(m))
		for id := range m {
			out = append(out, id)
		}
		return out
	case map[any]any:
		out := make([]string, 0, len(m))
		for id := range m {
			if s, ok := id.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
