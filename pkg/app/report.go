package app

import (
	"context"
	"time"

	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/search"
	"tableflip.dev/kcal/pkg/stats"
)

// MonthReport captures the data and aggregates of one month.
type MonthReport struct {
	YearMonth  string           `json:"yearMonth"`
	Month      meal.Month       `json:"month"`
	Days       []stats.DayTotal `json:"days"`
	Hours      [24]float64      `json:"hours"`
	Summary    stats.Summary    `json:"summary"`
	Thresholds meal.Thresholds  `json:"-"`
}

// MonthReport returns the month containing t with its statistics.
func (s *Service) MonthReport(ctx context.Context, t time.Time) (MonthReport, error) {
	if s.Persistence == nil {
		return MonthReport{}, errNoPersistence
	}
	ym := meal.YearMonthKey(t)
	month := s.Persistence.MonthData(ctx, ym)
	return MonthReport{
		YearMonth:  ym,
		Month:      month,
		Days:       stats.DayTotals(month),
		Hours:      stats.HourTotals(month),
		Summary:    stats.Summarize(month),
		Thresholds: s.Persistence.Settings(ctx).Thresholds,
	}, nil
}

// Search scans the whole journal for meals. opts.Database is filled in from
// persistence.
func (s *Service) Search(ctx context.Context, opts search.Options) (search.Result, error) {
	if s.Persistence == nil {
		return search.Result{}, errNoPersistence
	}
	ds, err := s.Persistence.AllKnownData(ctx)
	if err != nil {
		return search.Result{}, err
	}
	opts.Database = ds.Database
	return search.Meals(opts), nil
}
