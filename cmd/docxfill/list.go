package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobiverse/docxfill/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in the templates directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := catalog.List(cfg.TemplatesDir, cfg.Match)
		if err != nil {
			return err
		}
		for i, e := range entries {
			fmt.Printf("%3d. %-30s ", i+1, e.Name)
			faint.Println(e.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
