package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TrackedFiles returns the set of files tracked at HEAD of the git
// repository at root, as slash paths relative to root. It returns nil
// (meaning: keep everything) when root is not a repository or has no
// commits yet, so callers can filter unconditionally. Restricting the
// corpus to tracked files keeps vendored trees and build output from
// skewing candidate scores.
func TrackedFiles(root string, verbose bool) (map[string]bool, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "corpus: %s is not a git repo, using full scan\n", root)
		}
		return nil, nil
	}

	head, err := repo.Head()
	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "corpus: no HEAD (%v), using full scan\n", err)
		}
		return nil, nil
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("corpus: resolving HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("corpus: reading HEAD tree: %w", err)
	}

	tracked := make(map[string]bool)
	if err := tree.Files().ForEach(func(f *object.File) error {
		tracked[filepath.ToSlash(f.Name)] = true
		return nil
	}); err != nil {
		return nil, fmt.Errorf("corpus: walking HEAD tree: %w", err)
	}

	return tracked, nil
}
