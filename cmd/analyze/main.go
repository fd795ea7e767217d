// Command analyze prints the growth, composition and current-ratio analysis
// of a statement file, and optionally the AI commentary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/config"
	"statement_insight/pkg/core/ingest"
	"statement_insight/pkg/core/narrative"
	"statement_insight/pkg/core/prompt"
	"statement_insight/pkg/core/report"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a three-column financial statement",
	Long: `Reads a statement (line item | prior year | current year) from an .xlsx,
.csv or HTML-table file and prints growth, composition against total assets
and the current ratio.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runAnalyze,
}

func init() {
	rootCmd.Flags().String("config", config.DefaultPath, "config file path")
	rootCmd.Flags().Bool("narrate", false, "also request AI commentary")
	rootCmd.Flags().Bool("json", false, "print the display payload as JSON")
	rootCmd.Flags().Duration("timeout", 2*time.Minute, "timeout for the AI request")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	narrate, _ := cmd.Flags().GetBool("narrate")
	asJSON, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := ingest.ReadStatement(f, filepath.Base(path))
	if err != nil {
		return err
	}
	a, err := analysis.NewAnalysisEngineWithPolicy(cfg.LabelPolicy()).Analyze(filepath.Base(path), rows)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	view := report.BuildView(a)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else {
		printView(out, view)
	}

	if !narrate {
		return nil
	}

	if err := prompt.LoadFromDirectory(cfg.Resources); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "[WARNING] using built-in prompts: %v\n", err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	res := narrative.NewService(agent.NewManager(cfg.AI), prompt.Get()).Commentary(ctx, a)
	fmt.Fprintln(out, "\nAI commentary:")
	if res.Failed() {
		fmt.Fprintln(out, res.Error)
		return nil
	}
	fmt.Fprintln(out, res.Text)
	return nil
}

// printView writes the table and the liquidity summary as aligned text.
func printView(w io.Writer, v report.View) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	titles := make([]string, len(v.Table.Columns))
	for i, c := range v.Table.Columns {
		titles[i] = c.Title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t")+"\t")
	for _, r := range v.Table.Rows {
		fmt.Fprintln(tw, strings.Join(r.Cells, "\t")+"\t")
	}
	tw.Flush()

	fmt.Fprintf(w, "\nCurrent ratio: prior %s, current %s (change %s)\n",
		v.Liquidity.Prior, v.Liquidity.Current, v.Liquidity.Delta)
	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}
