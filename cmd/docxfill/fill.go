package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobiverse/docxfill"
	"github.com/bobiverse/docxfill/internal/prompt"
	"github.com/bobiverse/docxfill/internal/values"
)

var fillCmd = &cobra.Command{
	Use:   "fill <template>",
	Short: "Fill one template and save it as PDF",
	Long: `Fill takes values from --values (YAML or JSON) and --set name=value, later ones
winning. Placeholders still missing are asked for when stdin is a terminal,
otherwise they are left in the document as they are.`,
	Example: `  docxfill fill "Software Engineer" --set "Company Name=Acme Corp" --set "Job Title=Engineer"
  docxfill fill Templates/letter.docx --values acme.yaml --docx acme.docx`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().String("values", "", "YAML or JSON file of placeholder values")
	fillCmd.Flags().StringArray("set", nil, "placeholder value as name=value (repeatable)")
	fillCmd.Flags().String("docx", "", "also write the filled .docx to this path")

	rootCmd.AddCommand(fillCmd)
}

// presetValues merges --values and --set.
func presetValues(cmd *cobra.Command) (docxfill.Values, error) {
	preset := docxfill.Values{}

	if file, _ := cmd.Flags().GetString("values"); file != "" {
		fromFile, err := values.LoadFile(file)
		if err != nil {
			return nil, err
		}
		preset = docxfill.Merge(preset, fromFile)
	}

	pairs, _ := cmd.Flags().GetStringArray("set")
	fromFlags, err := values.ParsePairs(pairs)
	if err != nil {
		return nil, err
	}
	return docxfill.Merge(preset, fromFlags), nil
}

// missing returns placeholders neither preset nor filled automatically.
func missing(placeholders []docxfill.Placeholder, preset docxfill.Values) []docxfill.Placeholder {
	var out []docxfill.Placeholder
	for _, ph := range placeholders {
		if _, ok := preset.Get(string(ph)); ok || docxfill.IsDateToken(ph, cfg.DateToken) {
			continue
		}
		out = append(out, ph)
	}
	return out
}

func runFill(cmd *cobra.Command, args []string) error {
	path, err := resolveTemplate(args[0])
	if err != nil {
		return err
	}

	preset, err := presetValues(cmd)
	if err != nil {
		return err
	}

	gen, err := newGenerator()
	if err != nil {
		return err
	}

	tdoc, err := docxfill.OpenTemplate(path)
	if err != nil {
		return err
	}

	now := time.Now()
	gen.Now = func() time.Time { return now }

	all := preset
	if todo := missing(tdoc.Placeholders(), preset); len(todo) > 0 && prompt.IsInteractive(os.Stdin) {
		answers, err := prompt.New(os.Stdin, os.Stdout).Values(tdoc.Placeholders(), preset, cfg.DateToken, now)
		if err != nil {
			return err
		}
		all = docxfill.Merge(preset, answers)
	}

	docxOut, _ := cmd.Flags().GetString("docx")
	if docxOut != "" {
		if err := os.MkdirAll(filepath.Dir(docxOut), 0o755); err != nil {
			return fmt.Errorf("create docx dir: %w", err)
		}
	}

	res, err := gen.Render(cmd.Context(), tdoc, all, docxOut)
	if err != nil {
		return err
	}

	success.Printf("Saved: %s\n", res.Output)
	if docxOut != "" {
		success.Printf("Saved: %s\n", docxOut)
	}
	printUnresolved(res)
	return nil
}
