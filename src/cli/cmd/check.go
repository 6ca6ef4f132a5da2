package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sofmeright/ruleforge/src/output"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [corpus-root]",
	Short: "Verify the linter and corpus before an inference run",
	Long: `Verify that the configured linter runs and satisfies the version
constraint, and that every corpus file is readable. A clean check
means a long inference run will not lose (file, batch) pairs to
environment problems.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	sec := output.NewSection(os.Stdout, "Check", 0, color)
	defer sec.Close()

	failed := false

	if _, identity, err := buildLinter(ctx); err != nil {
		sec.Row("%-10s✗  %v", "linter", err)
		failed = true
	} else {
		sec.Row("%-10s✓  %s", "linter", identity)
	}

	files, err := buildCorpus(args)
	if err != nil {
		sec.Row("%-10s✗  %v", "corpus", err)
		return fmt.Errorf("check failed")
	}

	problems, err := files.Verify(ctx)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		sec.Row("%-10s✗  %d of %d files unreadable", "corpus", len(problems), len(files.Files()))
		for _, p := range problems {
			sec.Row("  %s: %v", p.File, p.Err)
		}
		failed = true
	} else {
		sec.Row("%-10s✓  %d files", "corpus", len(files.Files()))
	}

	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}
