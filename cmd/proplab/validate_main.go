package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proplab/proplab/internal/fields"
	"github.com/proplab/proplab/internal/filter"
)

// runValidate checks a filter definition and reports every problem found.
func runValidate(cmd *cobra.Command, args []string) error {
	filterPath, _ := cmd.Flags().GetString("filter")
	if filterPath == "" {
		return fmt.Errorf("--filter is required")
	}

	f, err := filter.LoadFile(filterPath)
	if err != nil {
		return err
	}

	ev := filter.NewEvaluator(fields.NewStandardRegistry())
	if problems := ev.ValidateFilter(f); len(problems) > 0 {
		fmt.Printf("❌ %s has %d problem(s):\n", filterPath, len(problems))
		printProblems(problems)
		return fmt.Errorf("filter %q failed validation", f.Name)
	}

	fmt.Printf("✅ %s\n   %s\n", filterPath, ev.Summarize(f))
	return nil
}
