package analysis

import (
	"fmt"
	"sort"

	"parlwatch/internal/domain"
)

// DefaultHorizonDays is the default projection horizon.
const DefaultHorizonDays = 7

// Predictor extrapolates future occurrence counts from a historical
// aggregate and per-term trend percentages.
type Predictor struct {
	horizonDays int
}

// NewPredictor creates a Predictor. horizonDays must be positive.
func NewPredictor(horizonDays int) (*Predictor, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("invalid prediction horizon of %d days: must be positive", horizonDays)
	}
	return &Predictor{horizonDays: horizonDays}, nil
}

// Predict projects an occurrence count over the horizon for every term
// present in both the trend data and the historical ranking. Terms with
// a trend but no historical total are skipped: without a baseline there
// is nothing to extrapolate from. historicalWindowDays is the length of
// the period historical covers and must be at least 1.
//
// Each projection is dailyAverage * (1 + change/100) * horizonDays,
// floored at zero, and the output is ordered by descending projected
// value.
func (p *Predictor) Predict(trends []domain.TrendEntry, historical domain.AggregateStats, historicalWindowDays int) ([]domain.Prediction, error) {
	if historicalWindowDays < 1 {
		return nil, fmt.Errorf("invalid historical window of %d days: must be >= 1", historicalWindowDays)
	}
	if len(trends) == 0 {
		return nil, nil
	}

	predictions := make([]domain.Prediction, 0, len(trends))
	for _, trend := range trends {
		total, ok := historical.Count(trend.Term)
		if !ok {
			continue
		}
		dailyAvg := float64(total) / float64(historicalWindowDays)
		projected := dailyAvg * (1 + trend.Change/100) * float64(p.horizonDays)
		if projected < 0 {
			projected = 0
		}
		predictions = append(predictions, domain.Prediction{
			Term:      trend.Term,
			Projected: projected,
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Projected > predictions[j].Projected
	})
	return predictions, nil
}
