// Command scrub-cli analyzes and cleans tabular data files from the
// command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osanai/scrub"
	"github.com/osanai/scrub/internal/config"
	"github.com/osanai/scrub/internal/version"
)

var (
	cfgFile string
	verbose bool

	analyzeOutput string

	cleanOutput string
	cleanReport string
	cleanState  string
	skipAnalyze bool
)

var rootCmd = &cobra.Command{
	Use:     "scrub-cli",
	Short:   "Data quality analysis and automated cleaning for tabular files",
	Long:    "scrub-cli inspects CSV, Parquet, and Excel files for missing data, duplicates, outliers, and format problems, and can run an automated cleaning pipeline over them.",
	Version: version.Info().String(),
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>",
	Short: "Run a quality analysis and print the report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var cleanCmd = &cobra.Command{
	Use:   "clean <input>",
	Short: "Run the cleaning pipeline and write the cleaned table",
	Args:  cobra.ExactArgs(1),
	RunE:  runClean,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "enable debug logging")

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")

	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "cleaned table path (default <input>_cleaned.csv)")
	cleanCmd.Flags().StringVar(&cleanReport, "report", "", "write the cleaning report JSON to a file")
	cleanCmd.Flags().StringVar(&cleanState, "state", "", "write the fitted transformation state JSON to a file")
	cleanCmd.Flags().BoolVar(&skipAnalyze, "skip-analysis", false, "clean without a prior analysis pass")

	rootCmd.AddCommand(analyzeCmd, cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (scrub.Config, error) {
	cfg := config.LoadFromEnv()
	if cfgFile != "" {
		fileCfg, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg
	}
	if verbose {
		cfg.VerboseLogging = true
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := scrub.NewEngine(cfg)
	if err != nil {
		return err
	}

	table, err := scrub.ReadFile(args[0])
	if err != nil {
		return err
	}
	defer table.Release()

	report, err := engine.Analyze(cmd.Context(), table)
	if err != nil {
		return err
	}
	data, err := report.JSON()
	if err != nil {
		return err
	}

	if analyzeOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	return os.WriteFile(analyzeOutput, data, 0o644)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := scrub.NewEngine(cfg)
	if err != nil {
		return err
	}

	table, err := scrub.ReadFile(args[0])
	if err != nil {
		return err
	}
	defer table.Release()

	var report *scrub.AnalysisReport
	if !skipAnalyze {
		report, err = engine.Analyze(cmd.Context(), table)
		if err != nil {
			return err
		}
	}

	cleaned, cleaningReport, err := engine.Clean(cmd.Context(), table, report)
	if err != nil {
		return err
	}

	output := cleanOutput
	if output == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		output = base + "_cleaned.csv"
	}
	if err := cleaned.WriteFile(output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleaned table written to %s (%d rows removed)\n",
		output, cleaningReport.RowsRemoved)

	if cleanReport != "" {
		data, err := cleaningReport.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(cleanReport, data, 0o644); err != nil {
			return err
		}
	}
	if cleanState != "" {
		if err := engine.FittedState().Save(cleanState); err != nil {
			return err
		}
	}
	return nil
}
