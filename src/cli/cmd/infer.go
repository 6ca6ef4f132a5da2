package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sofmeright/ruleforge/src/batch"
	"github.com/sofmeright/ruleforge/src/catalog"
	"github.com/sofmeright/ruleforge/src/corpus"
	"github.com/sofmeright/ruleforge/src/eval"
	"github.com/sofmeright/ruleforge/src/linter"
	"github.com/sofmeright/ruleforge/src/output"
	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
	"github.com/sofmeright/ruleforge/src/selection"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	inferCatalog  string
	inferBaseline string
	inferDeny     []string
	inferMax      int
	inferNoCache  bool
	inferDump     bool
)

var inferCmd = &cobra.Command{
	Use:   "infer [corpus-root]",
	Short: "Infer a rule configuration from a sample corpus",
	Long: `Infer a rule configuration by evaluating every schema-valid candidate.

Every rule's option schema is expanded into candidate configurations,
the candidates are grouped into batches, and the external linter is
run once per (file, batch). Candidates that produce diagnostics are
discarded; the most specific unambiguous survivor wins per rule.`,
	RunE: runInfer,
}

func init() {
	inferCmd.Flags().StringVar(&inferCatalog, "catalog", "", "rule catalog file (default: from config)")
	inferCmd.Flags().StringVar(&inferBaseline, "baseline", "", "existing linter config whose rules are excluded")
	inferCmd.Flags().StringSliceVar(&inferDeny, "deny", nil, "rule ids to exclude (comma-separated)")
	inferCmd.Flags().IntVar(&inferMax, "max-candidates", 0, "candidate cap per rule for batching (default: from config, then 16)")
	inferCmd.Flags().BoolVar(&inferNoCache, "no-cache", false, "disable evaluation cache (clear and re-run)")
	inferCmd.Flags().BoolVar(&inferDump, "dump", false, "print the merged mapping as YAML on stdout")

	rootCmd.AddCommand(inferCmd)
}

func runInfer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	severity, err := rule.ParseSeverity(cfg.Infer.Severity)
	if err != nil {
		return err
	}

	deny, err := denySet()
	if err != nil {
		return err
	}

	maxCandidates := inferMax
	if maxCandidates <= 0 {
		maxCandidates = cfg.Infer.MaxCandidates
	}
	if maxCandidates <= 0 {
		maxCandidates = batch.DefaultMaxCandidates
	}

	reg := registry.New(cat.Candidates(severity, deny), nil)
	considered := reg.Len()
	batches := batch.Plan(reg, maxCandidates)

	files, err := buildCorpus(args)
	if err != nil {
		return err
	}

	engine, identity, err := buildLinter(ctx)
	if err != nil {
		return err
	}

	cache := &eval.Cache{
		Dir:     cfg.Infer.CacheDir,
		Salt:    identity,
		Enabled: !inferNoCache && cfg.Infer.CacheDir != "",
	}
	if inferNoCache {
		if err := cache.Clear(); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "cache: clear failed: %v\n", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "evaluating %d rules, %d candidates, %d batches over %d files\n",
			reg.Len(), reg.CandidateCount(), len(batches), len(files.Files()))
	}

	runner := &eval.Runner{Linter: engine, Cache: cache, Verbose: verbose}

	start := time.Now()
	stats, err := runner.Run(ctx, files, batches, reg)
	if err != nil {
		return fmt.Errorf("evaluating corpus: %w", err)
	}
	elapsed := time.Since(start)

	// JUnit report before stripping, while failing candidates exist.
	if output.IsCI() {
		if jErr := output.WriteEvalJUnit(".ruleforge/reports", reg, elapsed); jErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write junit report: %v\n", jErr)
		}
	}

	overCap := 0
	for _, id := range reg.RuleIDs() {
		if len(reg.Entries(id)) > maxCandidates {
			overCap++
		}
	}

	selected := selection.Assemble(reg, maxCandidates)
	stripped := considered - reg.Len() - overCap

	color := output.UseColor()
	w := os.Stdout

	output.SectionStart(w, "rf_eval", "Evaluation")
	sec := output.NewSection(w, "Evaluation", elapsed, color)
	sec.Row("%-16s%6d", "rules", considered)
	sec.Row("%-16s%6d", "batches", stats.Batches)
	sec.Row("%-16s%6d", "files", stats.Files)
	sec.Row("%-16s%6d   (%d cached, %d failures)", "invocations", stats.Invocations, stats.CacheHits, stats.Failures)
	sec.Row("%-16s%6d   (%d attributed)", "diagnostics", stats.Diagnostics, stats.Attributed)
	sec.Close()
	output.SectionEnd(w, "rf_eval")

	output.SectionStart(w, "rf_selection", "Selection")
	sSec := output.NewSection(w, "Selection", 0, color)
	sSec.Row("%s", output.SelectionSummaryLine(len(selected), considered, stripped, color))
	sSec.Close()
	output.SectionEnd(w, "rf_selection")

	printer := output.NewPrinter()
	printer.Selection(selected)

	if inferDump {
		data, err := yaml.Marshal(map[string]map[string]rule.Candidate{"rules": selected})
		if err != nil {
			return fmt.Errorf("encoding mapping: %w", err)
		}
		fmt.Fprint(w, string(data))
	}

	return nil
}

func loadCatalog() (*catalog.Catalog, error) {
	path := inferCatalog
	if path == "" {
		path = cfg.Catalog
	}
	if path == "" {
		return nil, fmt.Errorf("no rule catalog configured (set catalog: in .ruleforge.yml or pass --catalog)")
	}
	return catalog.Load(path)
}

func denySet() (map[string]bool, error) {
	baseline := inferBaseline
	if baseline == "" {
		baseline = cfg.Baseline
	}

	var baselineRules []string
	if baseline != "" {
		var err error
		baselineRules, err = catalog.BaselineRules(baseline)
		if err != nil {
			return nil, err
		}
		if verbose && len(baselineRules) > 0 {
			fmt.Fprintf(os.Stderr, "baseline: excluding %d configured rules\n", len(baselineRules))
		}
	}

	return cfg.Infer.DenySet(inferDeny, baselineRules), nil
}

func buildCorpus(args []string) (*corpus.Dir, error) {
	root := cfg.Corpus.Root
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}

	d := &corpus.Dir{
		Root:    root,
		Exclude: cfg.Corpus.Exclude,
		MaxSize: cfg.Corpus.MaxFileSize,
	}
	if err := d.Scan(); err != nil {
		return nil, err
	}

	if cfg.Corpus.TrackedOnly {
		tracked, err := corpus.TrackedFiles(root, verbose)
		if err != nil {
			return nil, err
		}
		d.Filter(tracked)
	}

	if len(d.Files()) == 0 {
		fmt.Fprintf(os.Stderr, "warning: corpus is empty, every multi-candidate rule will stay unresolved\n")
	}

	return d, nil
}

func buildLinter(ctx context.Context) (*linter.Exec, string, error) {
	if len(cfg.Linter.Command) == 0 {
		return nil, "", fmt.Errorf("no linter command configured (set linter.command in .ruleforge.yml)")
	}

	engine := &linter.Exec{
		Command: cfg.Linter.Command,
		Timeout: time.Duration(cfg.Linter.TimeoutSec) * time.Second,
	}

	ver, err := engine.Probe(ctx, cfg.Linter.MinVersion)
	if err != nil {
		return nil, "", err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "linter: %s %s\n", strings.Join(cfg.Linter.Command, " "), ver)
	}

	return engine, engine.Identity(ver), nil
}
