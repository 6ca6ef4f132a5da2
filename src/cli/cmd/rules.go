package cmd

import (
	"fmt"
	"os"

	"github.com/sofmeright/ruleforge/src/batch"
	"github.com/sofmeright/ruleforge/src/output"
	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List catalog rules and their candidate expansions",
	Long: `List every catalog rule with its expanded candidate count, highest
specificity, and batching eligibility. Rules above the candidate cap
are listed but never tested.`,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&inferCatalog, "catalog", "", "rule catalog file (default: from config)")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	severity, err := rule.ParseSeverity(cfg.Infer.Severity)
	if err != nil {
		return err
	}

	maxCandidates := cfg.Infer.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = batch.DefaultMaxCandidates
	}

	reg := registry.New(cat.Candidates(severity, nil), nil)

	color := output.UseColor()
	sec := output.NewSection(os.Stdout, "Catalog", 0, color)
	output.CandidateTable(sec, reg, maxCandidates)
	sec.Separator()
	sec.Row("%-28s%10d", "total", reg.CandidateCount())
	sec.Close()

	if verbose {
		for _, id := range cat.RuleIDs() {
			s, _ := cat.Schema(id)
			for _, reason := range s.NotSupported() {
				fmt.Fprintf(os.Stderr, "%s: axis not expanded (%s)\n", id, reason)
			}
		}
	}

	return nil
}
