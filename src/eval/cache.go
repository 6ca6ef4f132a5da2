package eval

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sofmeright/ruleforge/src/rule"
)

const cacheVersion = "1"

// Cache provides content-addressed storage of linter diagnostics so
// repeated inference runs skip unchanged (file, batch) pairs. Salt
// should identify the linter (command plus version); a linter upgrade
// invalidates every entry.
type Cache struct {
	Dir     string
	Salt    string
	Enabled bool
}

type cacheEntry struct {
	Diagnostics []rule.Diagnostic `json:"diagnostics"`
}

// Key computes a cache key from source content and the encoded batch.
func (c *Cache) Key(source, batchJSON []byte) string {
	h := sha256.New()
	h.Write(source)
	h.Write(batchJSON)
	h.Write([]byte(c.Salt))
	h.Write([]byte(cacheVersion))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves cached diagnostics. Returns nil, false on miss or any
// decode problem — a corrupt entry is just a miss.
func (c *Cache) Get(key string) ([]rule.Diagnostic, bool) {
	if !c.Enabled {
		return nil, false
	}

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return entry.Diagnostics, true
}

// Put stores diagnostics for a key.
func (c *Cache) Put(key string, diags []rule.Diagnostic) error {
	if !c.Enabled {
		return nil
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.Marshal(cacheEntry{Diagnostics: diags})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Clear removes the entire cache directory.
func (c *Cache) Clear() error {
	if c.Dir == "" {
		return nil
	}
	return os.RemoveAll(c.Dir)
}

// path returns the filesystem path for a cache key. A 2-char prefix
// subdirectory keeps directories from growing huge and flat.
func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key[:2], key+".json")
}
