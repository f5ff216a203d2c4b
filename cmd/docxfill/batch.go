package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bobiverse/docxfill/internal/values"
)

var batchCmd = &cobra.Command{
	Use:   "batch <template> <sheet.csv|sheet.xlsx>",
	Short: "Generate one PDF per row of a CSV or XLSX sheet",
	Long: `Batch reads a sheet whose first row holds placeholder names (bare or
bracketed) and generates one PDF per following row. A failing row is
reported and the remaining rows are still generated.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveTemplate(args[0])
		if err != nil {
			return err
		}

		sheet, _ := cmd.Flags().GetString("sheet")
		jobs, err := values.LoadSheet(args[1], sheet)
		if err != nil {
			return err
		}

		gen, err := newGenerator()
		if err != nil {
			return err
		}

		res, err := gen.Batch(cmd.Context(), path, jobs, os.Stderr)
		for _, r := range res.Generated {
			success.Printf("Saved: %s\n", r.Output)
			printUnresolved(r)
		}
		for _, jerr := range res.Failed {
			failure.Fprintf(os.Stderr, "Failed: %v\n", jerr)
		}
		if err != nil {
			return err
		}

		if res.HasFailures() {
			return fmt.Errorf("%d of %d job(s) failed", len(res.Failed), res.Total())
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("sheet", "", "XLSX sheet name (default: first sheet)")

	rootCmd.AddCommand(batchCmd)
}
