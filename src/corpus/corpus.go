// Package corpus supplies the sample files whose diagnostics drive
// candidate selection. Content is read lazily, per request, so a long
// evaluation never holds the whole corpus in memory.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir serves files from a directory tree.
type Dir struct {
	Root    string
	Exclude []string // glob patterns, ** supported
	MaxSize int64    // skip files larger than this; 0 = no limit

	files []string
}

// Scan walks the root once and records eligible files: regular,
// non-hidden, not excluded, within the size limit. Call it before
// Files or Read; rescanning replaces the previous file list.
func (d *Dir) Scan() error {
	var files []string

	err := filepath.WalkDir(d.Root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(d.Root, path)
		if err != nil {
			return err
		}

		if entry.IsDir() {
			base := filepath.Base(rel)
			if strings.HasPrefix(base, ".") && base != "." {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}
		if d.isExcluded(rel) {
			return nil
		}

		if d.MaxSize > 0 {
			info, err := entry.Info()
			if err != nil {
				return err
			}
			if info.Size() > d.MaxSize {
				return nil
			}
		}

		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return fmt.Errorf("corpus: scanning %s: %w", d.Root, err)
	}

	sort.Strings(files)
	d.files = files
	return nil
}

// Files returns the scanned file names in stable order.
func (d *Dir) Files() []string {
	out := make([]string, len(d.files))
	copy(out, d.files)
	return out
}

// Read returns one file's content.
func (d *Dir) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(name)))
}

// Filter keeps only the scanned files present in the given set. A nil
// set is a no-op (keep everything).
func (d *Dir) Filter(keep map[string]bool) {
	if keep == nil {
		return
	}
	filtered := d.files[:0]
	for _, f := range d.files {
		if keep[f] {
			filtered = append(filtered, f)
		}
	}
	d.files = filtered
}

func (d *Dir) isExcluded(path string) bool {
	if len(d.Exclude) == 0 {
		return false
	}
	norm := strings.TrimPrefix(filepath.ToSlash(path), "./")
	base := filepath.Base(norm)
	for _, pattern := range d.Exclude {
		pattern = filepath.ToSlash(pattern)
		if strings.Contains(pattern, "/") || strings.Contains(pattern, "**") {
			if MatchGlob(pattern, norm) {
				return true
			}
		} else if MatchGlob(pattern, base) {
			return true
		}
	}
	return false
}
