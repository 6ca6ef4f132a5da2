package linter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
)

var versionRe = regexp.MustCompile(`v?\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?`)

// Probe runs the engine's version flag and checks the reported version
// against an optional semver constraint (e.g. ">= 8.0.0"). It returns
// the raw version string for cache salting. An empty constraint only
// checks that the command runs and reports something version-shaped.
func (e *Exec) Probe(ctx context.Context, constraint string) (string, error) {
	if len(e.Command) == 0 {
		return "", fmt.Errorf("linter: no command configured")
	}

	cmd := exec.CommandContext(ctx, e.Command[0], "--version")
	cmd.Dir = e.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("linter: %s --version: %w", e.Command[0], err)
	}

	raw := versionRe.FindString(out.String())
	if raw == "" {
		return "", fmt.Errorf("linter: no version in %q", strings.TrimSpace(out.String()))
	}

	if constraint != "" {
		v, err := masterminds.NewVersion(strings.TrimPrefix(raw, "v"))
		if err != nil {
			return "", fmt.Errorf("linter: parsing version %q: %w", raw, err)
		}
		c, err := masterminds.NewConstraint(constraint)
		if err != nil {
			return "", fmt.Errorf("linter: bad version constraint %q: %w", constraint, err)
		}
		if !c.Check(v) {
			return "", fmt.Errorf("linter: version %s does not satisfy %q", v, constraint)
		}
	}

	return raw, nil
}

// Identity returns a stable string naming the engine for cache
// salting: the command line plus the probed version.
func (e *Exec) Identity(version string) string {
	return strings.Join(e.Command, " ") + "@" + version
}
