package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Printer formats and writes inference results.
type Printer struct {
	Writer io.Writer
	Color  bool
}

// NewPrinter creates a printer writing to stdout with color auto-detection.
func NewPrinter() *Printer {
	return &Printer{
		Writer: os.Stdout,
		Color:  UseColor(),
	}
}

// Selection prints the final rule → configuration mapping sorted by
// rule id, one aligned row per rule.
func (p *Printer) Selection(selected map[string]rule.Candidate) {
	ids := make([]string, 0, len(selected))
	width := 0
	for id := range selected {
		ids = append(ids, id)
		if len(id) > width {
			width = len(id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := selected[id]
		fmt.Fprintf(p.Writer, "  %-*s  %s %s\n",
			width, p.colorize(id, colorCyan),
			severityTag(c.Severity, p.Color),
			optionsString(c),
		)
	}
}

// SelectionSummaryLine returns a one-line result summary, optionally colored.
func SelectionSummaryLine(selected, considered, stripped int, color bool) string {
	resolved := fmt.Sprintf("%d resolved", selected)
	if color {
		resolved = colorGreen + resolved + colorReset
	}
	unresolved := considered - stripped - selected
	if unresolved < 0 {
		unresolved = 0
	}
	return fmt.Sprintf("%d rules considered: %s, %d unsafe, %d ambiguous",
		considered, resolved, stripped, unresolved)
}

// CandidateTable writes a per-rule candidate table inside a section.
func CandidateTable(sec *Section, reg *registry.Registry, maxCandidates int) {
	sec.Row("%-28s%10s  %10s  %s", "rule", "candidates", "max spec", "batched")
	for _, id := range reg.RuleIDs() {
		entries := reg.Entries(id)
		var maxSpec rule.Specificity
		for _, e := range entries {
			if e.Specificity > maxSpec {
				maxSpec = e.Specificity
			}
		}
		batched := "yes"
		if len(entries) > maxCandidates {
			batched = "no"
		}
		sec.Row("%-28s%10d  %10d  %s", id, len(entries), int(maxSpec), batched)
	}
}

func optionsString(c rule.Candidate) string {
	if len(c.Options) == 0 {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// severityTag returns a short severity label, optionally colored.
func severityTag(s rule.Severity, color bool) string {
	switch s {
	case rule.SeverityError:
		if color {
			return colorRed + "ERROR" + colorReset
		}
		return "ERROR"
	case rule.SeverityWarn:
		if color {
			return colorYellow + "WARN " + colorReset
		}
		return "WARN "
	case rule.SeverityOff:
		if color {
			return colorGray + "OFF  " + colorReset
		}
		return "OFF  "
	default:
		return s.String()
	}
}

func (p *Printer) colorize(text, color string) string {
	if !p.Color {
		return text
	}
	return color + text + colorReset
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}
