package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"parlwatch/internal/schedule"
	"parlwatch/internal/usecase"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the monitor on its configured schedule",
	Long: `Run until interrupted: fetch documents at the configured interval,
write the daily report at the configured time and the weekly predictive
report on the configured weekday.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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
	monitor := usecase.NewMonitor(buildSource(), st, notifier, buildAggregator(terms), cfg.Notify.MaxDocuments)

	reports, err := buildReports(st, terms)
	if err != nil {
		return err
	}

	sched, err := schedule.New(cfg.Schedule.FetchIntervalHours, cfg.Schedule.DailyReportTime, cfg.Schedule.WeeklyReportDay)
	if err != nil {
		return err
	}
	sched.Fetch = func(ctx context.Context) error {
		_, err := monitor.Run(ctx, time.Now())
		return err
	}
	sched.Daily = func(ctx context.Context) error {
		_, err := reports.Daily(time.Now())
		return err
	}
	sched.Weekly = func(ctx context.Context) error {
		_, err := reports.WeeklyPredictive(time.Now())
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One initial cycle before settling into the schedule.
	if _, err := monitor.Run(ctx, time.Now()); err != nil {
		return err
	}

	fmt.Println("Watching; press Ctrl+C to stop.")
	sched.Run(ctx)
	return nil
}
