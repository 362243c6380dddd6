package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"tableflip.dev/kcal/pkg/app"
	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/search"
)

// DefaultNameWidth is where long meal names get cut.
const DefaultNameWidth = 40

type PrettyPrint struct {
	Out        io.Writer
	TimeFormat meal.TimeFormat
	// NameWidth truncates meal names, 0 disables truncation.
	NameWidth uint
	// Profile renders threshold colours. termenv.Ascii disables all styling.
	Profile termenv.Profile
}

// New returns a printer for w. Styling is only enabled when w is a terminal
// and NO_COLOR is unset.
func New(w io.Writer) *PrettyPrint {
	pp := &PrettyPrint{
		Out:        w,
		TimeFormat: meal.TimeFormat12,
		NameWidth:  DefaultNameWidth,
		Profile:    termenv.Ascii,
	}
	if f, ok := w.(*os.File); ok && !color.NoColor {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			pp.Profile = termenv.NewOutput(f).EnvColorProfile()
		}
	}
	return pp
}

func (pp *PrettyPrint) colored() bool {
	return pp.Profile != termenv.Ascii
}

func (pp *PrettyPrint) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if pp.colored() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// swatch paints text on the background colour c with a readable foreground.
func (pp *PrettyPrint) swatch(c meal.RGB, text string) string {
	if !pp.colored() {
		return text
	}
	c = c.Clamped()
	bg := colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	fg := "#000000"
	if _, _, l := bg.Hcl(); l < 0.55 {
		fg = "#ffffff"
	}
	return pp.Profile.String(text).
		Background(pp.Profile.Color(bg.Hex())).
		Foreground(pp.Profile.Color(fg)).
		String()
}

func (pp *PrettyPrint) name(n string) string {
	n = meal.FormatName(n)
	if pp.NameWidth == 0 {
		return n
	}
	return truncate.StringWithTail(n, pp.NameWidth, "…")
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Out)
}

func (pp *PrettyPrint) Title(title string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprintln(pp.Out, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, one, many string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprint(pp.Out, title)
	noun := many
	if count == 1 {
		noun = one
	}
	_, _ = pp.style(color.Faint).Fprintf(pp.Out, " - %d %s\n", count, noun)
}

func (pp *PrettyPrint) none() {
	_, _ = pp.style(color.Faint, color.Italic).Fprint(pp.Out, " none\n\n")
}

func (pp *PrettyPrint) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func (pp *PrettyPrint) header(cells ...string) []interface{} {
	b := pp.style(color.Bold)
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = b.Sprint(c)
	}
	return out
}

func kcal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (pp *PrettyPrint) entries(day meal.Day) {
	tbl := pp.table()
	tbl.AddRow(pp.header("Time", "Meal", "Servings", "Kcal/serving", "Kcal")...)
	for _, e := range day {
		tbl.AddRow(meal.FormatClock(e.Time, pp.TimeFormat), pp.name(e.Name), kcal(e.Servings), kcal(e.KcalPerServing), kcal(e.Kcal()))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Day prints one day of the journal with its total.
func (pp *PrettyPrint) Day(view app.DayView) {
	title := view.Date
	if t, err := meal.ParseDate(view.Date, time.Local); err == nil {
		title = t.Format("Monday, January 2 2006")
	}
	pp.TitleWithCount(title, len(view.Entries), "entry", "entries")
	if len(view.Entries) == 0 {
		pp.none()
		return
	}
	pp.entries(view.Entries)
	total := fmt.Sprintf(" %s kcal ", kcal(view.Kcal))
	if view.HasColor {
		total = pp.swatch(view.Color, total)
	}
	_, _ = fmt.Fprintf(pp.Out, "Total%s\n\n", total)
}

// Search prints one page of search results, newest day first.
func (pp *PrettyPrint) Search(res search.Result) {
	if len(res.Days) == 0 {
		pp.Title("Search")
		pp.none()
		return
	}
	for _, d := range res.Days {
		pp.Title(d.Date)
		pp.entries(d.Entries)
		_, _ = pp.style(color.Faint).Fprintf(pp.Out, "matched %s of %s kcal\n\n", kcal(d.MatchedKcal), kcal(d.DayKcal))
	}
	_, _ = fmt.Fprintf(pp.Out, "%d found", res.FoundCount)
	if res.More() {
		_, _ = pp.style(color.Faint).Fprintf(pp.Out, ", continue with --from %s", res.Cursor)
	}
	_, _ = fmt.Fprintln(pp.Out)
}

// Presets prints the preset list.
func (pp *PrettyPrint) Presets(presets []meal.Preset) {
	pp.TitleWithCount("Presets", len(presets), "preset", "presets")
	if len(presets) == 0 {
		pp.none()
		return
	}
	tbl := pp.table()
	tbl.AddRow(pp.header("ID", "Name", "Kcal/serving", "Used", "Last used")...)
	y := pp.style(color.FgHiYellow, color.Faint)
	for _, p := range presets {
		last := "never"
		if p.LastUsageTime > 0 {
			last = time.UnixMilli(p.LastUsageTime).Local().Format("2006-01-02")
		}
		tbl.AddRow(y.Sprint(p.ID), pp.name(p.Name), kcal(p.KcalPerServing), p.UsageCount, last)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Suggestions prints the foods worth saving as presets.
func (pp *PrettyPrint) Suggestions(suggestions []app.Suggestion) {
	pp.Title("Suggested presets")
	if len(suggestions) == 0 {
		pp.none()
		return
	}
	tbl := pp.table()
	tbl.AddRow(pp.header("Name", "Kcal/serving", "Logged")...)
	for _, s := range suggestions {
		tbl.AddRow(pp.name(s.Name), kcal(s.KcalPerServing), fmt.Sprintf("%dx", s.Times))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Settings prints the settings and the threshold scale, highest floor first.
func (pp *PrettyPrint) Settings(s meal.Settings) {
	pp.Title("Settings")
	tbl := pp.table()
	tbl.AddRow("time format", string(s.TimeFormat)+"h")
	tbl.AddRow("intermediate day page", s.IntermediateDayPage())
	_, _ = fmt.Fprintln(pp.Out, tbl)

	pp.Title("Thresholds")
	floors := s.Thresholds.Floors()
	tbl = pp.table()
	for i := len(floors) - 1; i >= 0; i-- {
		c := s.Thresholds[floors[i]].Clamped()
		tbl.AddRow(fmt.Sprintf("≥ %d", floors[i]), pp.swatch(c, fmt.Sprintf(" %3d %3d %3d ", c[0], c[1], c[2])))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Info prints where the journal lives.
func (pp *PrettyPrint) Info(rows [][2]string) {
	tbl := pp.table()
	for _, r := range rows {
		tbl.AddRow(r[0]+":", r[1])
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v interface{}) error {
	enc := json.NewEncoder(pp.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
