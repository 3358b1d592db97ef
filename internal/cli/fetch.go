package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"parlwatch/internal/adapter/source"
	"parlwatch/internal/port"
	"parlwatch/internal/usecase"
)

var (
	fetchDate     string
	fetchYear     int
	fetchBackfill int
	fetchFromDir  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and analyze documents",
	Long: `Fetch documents for a date, store them, filter for tracked keywords
and send a notification when matches are found.

Examples:
  parlwatch fetch
  parlwatch fetch --date 2024-05-01
  parlwatch fetch --year 2024
  parlwatch fetch --backfill 30
  parlwatch fetch --from-dir ./data --backfill 7`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "date to fetch (YYYY-MM-DD, default today)")
	fetchCmd.Flags().IntVar(&fetchYear, "year", 0, "fetch a whole calendar year instead of a single date")
	fetchCmd.Flags().IntVar(&fetchBackfill, "backfill", 0, "also fetch the N days before the date")
	fetchCmd.Flags().StringVar(&fetchFromDir, "from-dir", "", "read records from CSV files in this directory instead of the API")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchYear != 0 && (fetchDate != "" || fetchBackfill > 0) {
		return fmt.Errorf("--year cannot be combined with --date or --backfill")
	}

	date := time.Now()
	if fetchDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", fetchDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	if fetchBackfill < 0 {
		return fmt.Errorf("--backfill must be non-negative")
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
	if terms.Len() == 0 {
		return fmt.Errorf("no keywords configured; add some with 'parlwatch keywords add'")
	}

	notifier, err := buildNotifier()
	if err != nil {
		return err
	}

	var src port.DocumentSource
	if fetchFromDir != "" {
		src = source.NewCSVDirSource(fetchFromDir, nil)
	} else {
		src = buildSource()
	}

	monitor := usecase.NewMonitor(src, st, notifier, buildAggregator(terms), cfg.Notify.MaxDocuments)
	ctx := cmd.Context()

	if fetchYear != 0 {
		result, err := monitor.RunYear(ctx, fetchYear, cfg.Source.PageLimit)
		if err != nil {
			return fmt.Errorf("fetch failed for %d: %w", fetchYear, err)
		}
		fmt.Printf("Fetched %d documents for %d; %d matched tracked keywords.\n", result.Fetched, fetchYear, result.Matched)
		return nil
	}

	days := fetchBackfill + 1
	var bar *progressbar.ProgressBar
	if days > 1 {
		bar = progressbar.NewOptions(days,
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Fetching[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}

	totalFetched, totalMatched := 0, 0
	for i := days - 1; i >= 0; i-- {
		day := date.AddDate(0, 0, -i)
		result, err := monitor.Run(ctx, day)
		if err != nil {
			return fmt.Errorf("fetch failed for %s: %w", day.Format("2006-01-02"), err)
		}
		totalFetched += result.Fetched
		totalMatched += result.Matched
		if bar != nil {
			bar.Add(1)
		}
	}

	fmt.Printf("Fetched %d documents over %d day(s); %d matched tracked keywords.\n", totalFetched, days, totalMatched)
	return nil
}
