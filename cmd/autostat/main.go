package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"autostat/adapters/ingest"
	"autostat/adapters/report"
	"autostat/app"
	"autostat/domain/stats"
	"autostat/internal"
	"autostat/internal/config"
	"autostat/ui"
)

func main() {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "autostat",
		Short: "Automated statistical analysis over CSV and Excel datasets",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newAskCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newAnalyzeCmd() *cobra.Command {
	var format string
	var alpha float64
	var seed int64
	var workers int

	cmd := &cobra.Command{
		Use:   "analyze [dataset-file]",
		Short: "Profile a dataset, generate questions and answer them",
		Long: `Run the full analysis pass over a CSV or Excel file: profile every
column, generate analysis questions, and answer them with the matching
statistical procedure.

Example: autostat analyze sales.csv --alpha 0.01 --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("alpha") {
				cfg.Analysis.Alpha = alpha
			}
			if cmd.Flags().Changed("seed") {
				cfg.Analysis.Seed = seed
			}
			if cmd.Flags().Changed("workers") {
				cfg.Analysis.Workers = workers
			}

			ds, err := ingest.NewReader(args[0]).Read()
			if err != nil {
				return err
			}

			log := internal.NewDefaultLogger()
			svc := app.NewAnalysisService(cfg.Options(), log)
			analysis, err := svc.Run(cmd.Context(), ds)
			if err != nil {
				return err
			}

			builder := report.NewBuilder()
			switch format {
			case "json":
				out := struct {
					*app.Analysis
					Answers    []stats.Answer `json:"answers"`
					Hypotheses []stats.Answer `json:"hypotheses"`
				}{analysis, analysis.AnswerPairs(), analysis.HypothesisResults()}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case "html":
				_, err := os.Stdout.Write(builder.HTML(analysis))
				return err
			default:
				fmt.Print(builder.Markdown(analysis))
				return nil
			}
		},
	}

	cmd.Flags().String("config", "", "path to YAML config file")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, json or html")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level")
	cmd.Flags().Int64Var(&seed, "seed", 42, "normality subsample seed")
	cmd.Flags().IntVar(&workers, "workers", 1, "concurrent answer workers")
	return cmd
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [dataset-file] [question...]",
		Short: "Answer free-form questions against a dataset",
		Long: `Evaluate caller-supplied questions against a CSV or Excel file.
Column names are referenced in single quotes inside the question text.

Example: autostat ask sales.csv "Is there a correlation between 'price' and 'units'?"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ds, err := ingest.NewReader(args[0]).Read()
			if err != nil {
				return err
			}

			svc := app.NewAnalysisService(cfg.Options(), internal.NewDefaultLogger())
			set := svc.AnswerExternal(cmd.Context(), ds, args[1:])

			for _, ans := range set.All() {
				fmt.Printf("Q: %s\n", ans.Question)
				for _, line := range strings.Split(ans.Text, "\n") {
					fmt.Printf("   %s\n", line)
				}
				fmt.Println()
			}
			if set.Len() == 0 {
				fmt.Println("No questions could be answered against this dataset.")
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "path to YAML config file")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return ui.NewServer(cfg, internal.NewDefaultLogger()).Start()
		},
	}

	cmd.Flags().String("config", "", "path to YAML config file")
	cmd.Flags().StringVar(&port, "port", "8080", "listen port")
	return cmd
}
