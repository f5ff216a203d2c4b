package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobiverse/docxfill"
)

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders <template>",
	Short: "Show the placeholders of a template in document order",
	Long: `Placeholders prints every distinct [Placeholder] of the template in the
order it first appears: body paragraphs, table cells, headers, footers.
The template is a path, a file name in the templates directory, a number
from 'docxfill list' or a display name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveTemplate(args[0])
		if err != nil {
			return err
		}

		tdoc, err := docxfill.OpenTemplate(path)
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		placeholders := tdoc.Placeholders()
		if plain {
			for _, ph := range placeholders {
				fmt.Println(ph)
			}
			return nil
		}

		if len(placeholders) == 0 {
			fmt.Println("No placeholders found in this template.")
			return nil
		}
		printPlaceholders(placeholders)
		return nil
	},
}

func init() {
	placeholdersCmd.Flags().Bool("plain", false, "one placeholder per line, nothing else")

	rootCmd.AddCommand(placeholdersCmd)
}
