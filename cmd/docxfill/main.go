// Package main is the entry point for the docxfill CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bobiverse/docxfill"
	"github.com/bobiverse/docxfill/internal/catalog"
	"github.com/bobiverse/docxfill/internal/config"
	"github.com/bobiverse/docxfill/internal/convert"
	"github.com/bobiverse/docxfill/internal/generate"
	"github.com/bobiverse/docxfill/internal/prompt"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded before any command runs.
var cfg = config.Default()

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	faint   = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "docxfill",
	Short: "Fill [Placeholder] Word templates and save them as PDF",
	Long: `docxfill fills the [Placeholder] tokens of .docx templates and converts
the result to PDF with LibreOffice.

Run without a subcommand for the interactive loop: pick a template, answer
one question per placeholder, get a PDF in the outputs directory. [Date] is
filled with today's date automatically.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runInteractive,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "config file (default: ./docxfill.yaml or $XDG_CONFIG_HOME/docxfill/docxfill.yaml)")
	f.String("templates", "", "templates directory (default: Templates)")
	f.String("outputs", "", "outputs directory (default: Outputs)")
	f.String("match", "", "only use templates whose file name matches this glob")
	f.String("soffice", "", "LibreOffice soffice binary (default: auto-detect)")

	bind := map[string]string{
		"templates_dir":    "templates",
		"outputs_dir":      "outputs",
		"match":            "match",
		"converter.binary": "soffice",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")

	used, err := config.Init(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	if used != "" {
		faint.Fprintln(os.Stderr, "Using config file:", used)
	}

	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func newGenerator() (*generate.Generator, error) {
	lo, err := convert.NewLibreOffice(cfg.Converter.Binary, cfg.Converter.Args, cfg.Converter.Timeout)
	if err != nil {
		return nil, err
	}
	if err := lo.Available(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureOutputsDir(); err != nil {
		return nil, err
	}
	return &generate.Generator{
		Converter:   lo,
		OutputsDir:  cfg.OutputsDir,
		Prefix:      cfg.OutputPrefix,
		DateToken:   cfg.DateToken,
		CompanyKeys: cfg.CompanyKeys,
	}, nil
}

// resolveTemplate accepts a path, a file in the templates directory, a
// number from `docxfill list` or a display name.
func resolveTemplate(arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}
	if p := filepath.Join(cfg.TemplatesDir, arg); p != arg {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	entries, err := catalog.List(cfg.TemplatesDir, cfg.Match)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(entries) {
			return "", fmt.Errorf("template number %d out of range 1-%d", n, len(entries))
		}
		return entries[n-1].Path, nil
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, arg) {
			return e.Path, nil
		}
	}
	return "", fmt.Errorf("template %q not found in %s", arg, cfg.TemplatesDir)
}

func printPlaceholders(placeholders []docxfill.Placeholder) {
	fmt.Printf("\nFound %d placeholder(s):\n", len(placeholders))
	for _, ph := range placeholders {
		fmt.Printf("  - %s", ph)
		if docxfill.IsDateToken(ph, cfg.DateToken) {
			faint.Print(" (auto)")
		}
		fmt.Println()
	}
}

func printUnresolved(res generate.Result) {
	if len(res.Unresolved) == 0 {
		return
	}
	failure.Fprintf(os.Stderr, "Left unresolved: %v\n", res.Unresolved)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	heading.Println(strings.Repeat("=", 50))
	heading.Println("  Cover Letter Generator")
	heading.Println(strings.Repeat("=", 50))

	gen, err := newGenerator()
	if err != nil {
		return err
	}

	p := prompt.New(os.Stdin, os.Stdout)
	for {
		entries, err := catalog.List(cfg.TemplatesDir, cfg.Match)
		if err != nil {
			return err
		}

		entry, err := p.SelectTemplate(entries)
		if errors.Is(err, prompt.ErrExit) {
			fmt.Println("\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("\nLoading template: %s\n", filepath.Base(entry.Path))
		tdoc, err := docxfill.OpenTemplate(entry.Path)
		if err != nil {
			failure.Printf("\n%v\n", err)
			continue
		}

		placeholders := tdoc.Placeholders()
		if len(placeholders) == 0 {
			fmt.Println("\nNo placeholders found in this template.")
			continue
		}
		printPlaceholders(placeholders)

		now := time.Now()
		gen.Now = func() time.Time { return now }

		answers, err := p.Values(placeholders, nil, cfg.DateToken, now)
		if err != nil {
			return err
		}

		fmt.Println("\nGenerating PDF...")
		res, err := gen.Render(cmd.Context(), tdoc, answers, "")
		if err != nil {
			failure.Printf("\nError: %v\n", err)
			continue
		}
		success.Printf("\nSaved: %s\n", res.Output)
		printUnresolved(res)

		fmt.Println("\n" + strings.Repeat("-", 50))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		failure.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
