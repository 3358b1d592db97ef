// Package report renders daily and weekly predictive reports from the
// engine's ordered outputs.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"parlwatch/internal/domain"
	"parlwatch/internal/logger"
)

var reportLog = logger.New("report")

// Generator writes plain-text reports to an output directory. It only
// consumes the ordered rankings the engine produces; it never
// recomputes counts.
type Generator struct {
	outputDir    string
	maxKeywords  int
	maxDocuments int

	// now is swapped out in tests.
	now func() time.Time
}

// NewGenerator creates a Generator. The output directory is created on
// first write.
func NewGenerator(outputDir string, maxKeywords, maxDocuments int) *Generator {
	return &Generator{
		outputDir:    outputDir,
		maxKeywords:  maxKeywords,
		maxDocuments: maxDocuments,
		now:          time.Now,
	}
}

// Daily writes the daily report for date and returns the file path.
func (g *Generator) Daily(date time.Time, records []domain.Record, stats domain.AggregateStats) (string, error) {
	dateStr := date.Format("2006-01-02")

	var b strings.Builder
	fmt.Fprintf(&b, "DAILY REPORT - %s\n", dateStr)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Generated at: %s\n\n", g.now().Format("2006-01-02 15:04:05"))

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Documents analyzed: %d\n", len(records))
	fmt.Fprintf(&b, "Keywords found: %d\n\n", len(stats))

	b.WriteString("KEYWORDS FOUND\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if len(stats) == 0 {
		b.WriteString("No keywords found in the analyzed documents.\n")
	} else {
		shown := stats
		if g.maxKeywords > 0 && len(shown) > g.maxKeywords {
			shown = shown[:g.maxKeywords]
		}
		for _, tc := range shown {
			fmt.Fprintf(&b, "- %s: %d occurrences\n", tc.Term, tc.Count)
		}
		if len(stats) > len(shown) {
			fmt.Fprintf(&b, "\n... and %d more keywords\n", len(stats)-len(shown))
		}
	}
	b.WriteString("\n")

	b.WriteString("DOCUMENTS\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if len(records) == 0 {
		b.WriteString("No documents found for this date.\n")
	} else {
		shown := records
		if g.maxDocuments > 0 && len(shown) > g.maxDocuments {
			shown = shown[:g.maxDocuments]
		}
		for i, rec := range shown {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Title())
			if url, ok := rec.StringField("url"); ok && url != "" {
				fmt.Fprintf(&b, "   URL: %s\n", url)
			}
		}
		if len(records) > len(shown) {
			fmt.Fprintf(&b, "\n... and %d more documents\n", len(records)-len(shown))
		}
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("daily_report_%s.txt", dateStr))
	if err := g.write(path, b.String()); err != nil {
		return "", err
	}
	reportLog.Info("daily report written", "path", path)
	return path, nil
}

// WeeklyPredictive writes the weekly predictive report for the week
// ending at end and returns the file path.
func (g *Generator) WeeklyPredictive(start, end time.Time, records []domain.Record, stats domain.AggregateStats, trends []domain.TrendEntry, predictions []domain.Prediction) (string, error) {
	rangeStr := fmt.Sprintf("%s_%s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var b strings.Builder
	fmt.Fprintf(&b, "WEEKLY PREDICTIVE REPORT - %s\n", rangeStr)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Generated at: %s\n\n", g.now().Format("2006-01-02 15:04:05"))

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Period: %s - %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Fprintf(&b, "Documents analyzed: %d\n", len(records))
	fmt.Fprintf(&b, "Keywords found: %d\n\n", len(stats))

	b.WriteString("TREND ANALYSIS\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if len(trends) == 0 {
		b.WriteString("Insufficient data for trend analysis.\n")
	} else {
		for _, t := range trends {
			fmt.Fprintf(&b, "- %s: %s (%+.2f%%)\n", t.Term, direction(t.Change), t.Change)
		}
	}
	b.WriteString("\n")

	b.WriteString("PREDICTIONS FOR NEXT WEEK\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if len(predictions) == 0 {
		b.WriteString("Insufficient data to generate predictions.\n")
	} else {
		for _, p := range predictions {
			fmt.Fprintf(&b, "- %s: expected around %.0f occurrences\n", p.Term, p.Projected)
		}
	}
	b.WriteString("\n")

	b.WriteString("SUGGESTIONS\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if len(trends) == 0 {
		b.WriteString("Insufficient data to generate suggestions.\n")
	} else {
		g.writeSuggestions(&b, trends)
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("weekly_predictive_report_%s.txt", rangeStr))
	if err := g.write(path, b.String()); err != nil {
		return "", err
	}
	reportLog.Info("weekly report written", "path", path)
	return path, nil
}

// writeSuggestions flags the five largest movers. Thresholds at 5 and
// 10 percent separate watch-list entries from strong signals.
func (g *Generator) writeSuggestions(b *strings.Builder, trends []domain.TrendEntry) {
	top := trends
	if len(top) > 5 {
		top = top[:5]
	}
	for _, t := range top {
		switch {
		case t.Change > 10:
			fmt.Fprintf(b, "- %s: strongly rising, may signal an emerging topic.\n", t.Term)
		case t.Change > 5:
			fmt.Fprintf(b, "- %s: rising, worth monitoring closely.\n", t.Term)
		case t.Change < -10:
			fmt.Fprintf(b, "- %s: strongly declining, interest may be fading or the topic has moved on.\n", t.Term)
		case t.Change < -5:
			fmt.Fprintf(b, "- %s: declining, check what is driving the drop.\n", t.Term)
		}
	}
}

func direction(change float64) string {
	switch {
	case change > 0:
		return "rising"
	case change < 0:
		return "falling"
	default:
		return "stable"
	}
}

func (g *Generator) write(path, content string) error {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
