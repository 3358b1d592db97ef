package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"parlwatch/internal/adapter/store"
	"parlwatch/internal/analysis"
	"parlwatch/internal/keyword"
	"parlwatch/internal/report"
	"parlwatch/internal/usecase"
)

var (
	reportDate string
	reportEnd  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate reports from stored documents",
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Write the daily keyword report",
	Long: `Aggregate the records stored for one day and write the daily report.

Examples:
  parlwatch report daily
  parlwatch report daily --date 2024-05-01`,
	RunE: runDailyReport,
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Write the weekly predictive report",
	Long: `Aggregate the past week, compare the two halves of the trend window,
and project keyword occurrence counts over the prediction horizon.

Examples:
  parlwatch report weekly
  parlwatch report weekly --end 2024-05-01`,
	RunE: runWeeklyReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportDailyCmd)
	reportCmd.AddCommand(reportWeeklyCmd)
	reportDailyCmd.Flags().StringVar(&reportDate, "date", "", "report date (YYYY-MM-DD, default today)")
	reportWeeklyCmd.Flags().StringVar(&reportEnd, "end", "", "last day of the week (YYYY-MM-DD, default today)")
}

func buildReports(st *store.BoltStore, terms *keyword.TermSet) (*usecase.Reports, error) {
	aggregator := buildAggregator(terms)

	analyzer, err := analysis.NewTrendAnalyzer(aggregator, terms, cfg.Report.TrendWindowDays)
	if err != nil {
		return nil, err
	}
	predictor, err := analysis.NewPredictor(cfg.Report.PredictionHorizonDays)
	if err != nil {
		return nil, err
	}

	outputDir := cfg.Report.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(baseDir, outputDir)
	}
	generator := report.NewGenerator(outputDir, cfg.Report.MaxKeywords, cfg.Report.MaxDocuments)

	return usecase.NewReports(st, aggregator, analyzer, predictor, generator), nil
}

func runDailyReport(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if reportDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", reportDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	terms, err := loadTerms(st)
	if err != nil {
		return err
	}
	reports, err := buildReports(st, terms)
	if err != nil {
		return err
	}

	path, err := reports.Daily(date)
	if err != nil {
		return fmt.Errorf("daily report failed: %w", err)
	}
	fmt.Printf("Daily report written: %s\n", path)
	return nil
}

func runWeeklyReport(cmd *cobra.Command, args []string) error {
	end := time.Now()
	if reportEnd != "" {
		var err error
		end, err = time.Parse("2006-01-02", reportEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	terms, err := loadTerms(st)
	if err != nil {
		return err
	}
	reports, err := buildReports(st, terms)
	if err != nil {
		return err
	}

	path, err := reports.WeeklyPredictive(end)
	if err != nil {
		return fmt.Errorf("weekly report failed: %w", err)
	}
	fmt.Printf("Weekly predictive report written: %s\n", path)
	return nil
}
