package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/kcal/pkg/app"
	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/stats"
)

const width = len("11 12 13 14 15 16 17") // an example week

// hourBarWidth is the length of the busiest hour's bar.
const hourBarWidth = 30

// Month prints the calendar heat map, the summary and the hourly
// distribution of a month report.
func (pp *PrettyPrint) Month(report app.MonthReport) {
	then, err := time.ParseInLocation("2006-01", report.YearMonth, time.Local)
	if err != nil {
		pp.Title(report.YearMonth)
	} else {
		pp.Calendar(then, report.Days, report.Thresholds)
	}
	pp.Summary(report.Summary)
	pp.Hours(report.Hours)
}

// Calendar prints one month as a week grid. Tracked days are painted with
// their threshold colour, untracked days are faint.
func (pp *PrettyPrint) Calendar(then time.Time, days []stats.DayTotal, thresholds meal.Thresholds) {
	totals := make([]float64, DaysIn(then))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= len(totals) {
			totals[d.Day-1] = d.Kcal
		}
	}

	tf := pp.style(color.Italic)
	m := then.Format("January 2006")
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.Out, "%s%s\n", strings.Repeat(" ", max(mid, 0)), m)
	_, _ = pp.style(color.Faint).Fprintln(pp.Out, "Su Mo Tu We Th Fr Sa")

	d := StartDay(then)
	// Pad out the start of the month.
	_, _ = fmt.Fprint(pp.Out, strings.Repeat("   ", int(d)))

	faint := pp.style(color.Faint)
	for i, total := range totals {
		label := fmt.Sprintf("%2d", i+1)
		if c, ok := thresholds.ColorFor(total); ok && pp.colored() {
			_, _ = fmt.Fprint(pp.Out, pp.swatch(c, label))
		} else if total > 0 {
			_, _ = pp.style(color.Bold).Fprint(pp.Out, label)
		} else {
			_, _ = faint.Fprint(pp.Out, label)
		}

		d++
		if d > time.Saturday || i == len(totals)-1 {
			d = time.Sunday
			_, _ = fmt.Fprintln(pp.Out)
		} else {
			_, _ = fmt.Fprint(pp.Out, " ")
		}
	}
	_, _ = fmt.Fprintln(pp.Out)
}

// Summary prints the month statistics.
func (pp *PrettyPrint) Summary(s stats.Summary) {
	if s.DaysTracked == 0 {
		pp.Title("Summary")
		pp.none()
		return
	}
	pp.TitleWithCount("Summary", s.DaysTracked, "day", "days")
	tbl := pp.table()
	tbl.AddRow("total", kcal(s.TotalKcal))
	tbl.AddRow("mean", kcal(s.MeanKcal))
	tbl.AddRow("median", kcal(s.MedianKcal))
	tbl.AddRow("quartiles", fmt.Sprintf("%s – %s", kcal(s.Q1), kcal(s.Q3)))
	tbl.AddRow("peak", fmt.Sprintf("%s on day %d", kcal(s.PeakDay.Kcal), s.PeakDay.Day))
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

// Hours prints a horizontal bar per hour that saw any kcal.
func (pp *PrettyPrint) Hours(hours [24]float64) {
	peak := 0.0
	for _, h := range hours {
		peak = max(peak, h)
	}
	if peak == 0 {
		return
	}
	pp.Title("By hour")
	bar := pp.style(color.FgCyan)
	for h, v := range hours {
		if v == 0 {
			continue
		}
		n := int(v / peak * hourBarWidth)
		_, _ = fmt.Fprintf(pp.Out, "%02d ", h)
		_, _ = bar.Fprint(pp.Out, strings.Repeat("█", max(n, 1)))
		_, _ = fmt.Fprintf(pp.Out, " %s\n", kcal(v))
	}
	pp.NewLine()
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 0, 0, 0, 0, time.UTC).Weekday()
}
