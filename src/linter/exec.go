// Package linter adapts an external lint engine to the evaluation
// runner's Verify contract. The engine is driven one invocation per
// (file, batch): a JSON request on stdin, a JSON response on stdout.
package linter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sofmeright/ruleforge/src/batch"
	"github.com/sofmeright/ruleforge/src/rule"
)

// Request is the wire form written to the engine's stdin. Rules maps
// rule id to the positional candidate array; the engine must ignore
// rules absent from it (they stay on its base configuration).
type Request struct {
	File   string                    `json:"file"`
	Source string                    `json:"source"`
	Rules  map[string]rule.Candidate `json:"rules"`
}

// Response is the wire form read from the engine's stdout.
type Response struct {
	Diagnostics []rule.Diagnostic `json:"diagnostics"`
	Error       string            `json:"error,omitempty"`
}

// Exec invokes an external linter command for each verification.
type Exec struct {
	Command []string
	Dir     string
	Timeout time.Duration
}

// Verify runs one linter invocation. Engine failures (spawn errors,
// non-JSON output, in-band errors) surface as errors; the runner
// treats them as zero diagnostics for the pair.
func (e *Exec) Verify(ctx context.Context, file string, source []byte, overrides batch.Batch) ([]rule.Diagnostic, error) {
	if len(e.Command) == 0 {
		return nil, fmt.Errorf("linter: no command configured")
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	req := Request{File: file, Source: string(source), Rules: overrides}
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("linter: encoding request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("linter: %s: %w (%s)", e.Command[0], err, detail)
		}
		return nil, fmt.Errorf("linter: %s: %w", e.Command[0], err)
	}

	return DecodeResponse(stdout.Bytes())
}

// DecodeResponse parses an engine response, promoting in-band errors.
func DecodeResponse(data []byte) ([]rule.Diagnostic, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("linter: decoding response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("linter: %s", resp.Error)
	}
	return resp.Diagnostics, nil
}
