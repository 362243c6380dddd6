package meal

import "sort"

// TimeFormat selects 12 or 24 hour clock display.
type TimeFormat string

const (
	TimeFormat12 TimeFormat = "12"
	TimeFormat24 TimeFormat = "24"
)

// Valid reports whether f is a known format.
func (f TimeFormat) Valid() bool {
	return f == TimeFormat12 || f == TimeFormat24
}

// RGB is a colour as red, green and blue channels.
type RGB [3]int

// Thresholds maps a calorie floor to the colour used for days at or above it.
type Thresholds map[int]RGB

// Settings are the user preferences stored next to the journal. A zero field
// means "not set"; Overlay and DefaultSettings fill the gaps.
type Settings struct {
	TimeFormat TimeFormat `json:"timeFormat,omitempty"`
	// ItemPageHasIntermediateDayPage decides whether opening an entry from
	// outside its day (search, home) returns to the day or to the origin.
	ItemPageHasIntermediateDayPage *bool      `json:"itemPageHasIntermediateDayPage,omitempty"`
	Thresholds                     Thresholds `json:"thresholds,omitempty"`
}

// DefaultSettings returns a fresh copy of the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		TimeFormat:                     TimeFormat12,
		ItemPageHasIntermediateDayPage: boolPtr(true),
		Thresholds:                     DefaultThresholds(),
	}
}

// DefaultThresholds returns the built-in colour scale.
func DefaultThresholds() Thresholds {
	return Thresholds{
		3000: {224, 96, 96},
		2400: {255, 127, 80},
		2000: {255, 255, 0},
		1750: {144, 238, 144},
		1500: {173, 216, 230},
		1000: {255, 182, 193},
		0:    {197, 182, 269},
	}
}

// IntermediateDayPage resolves the flag, defaulting to true.
func (s Settings) IntermediateDayPage() bool {
	if s.ItemPageHasIntermediateDayPage == nil {
		return true
	}
	return *s.ItemPageHasIntermediateDayPage
}

// Overlay returns a copy of s where every field set in o replaces the value
// in s. Thresholds are replaced as a whole, never merged key by key.
func (s Settings) Overlay(o Settings) Settings {
	out := s.Clone()
	if o.TimeFormat != "" {
		out.TimeFormat = o.TimeFormat
	}
	if o.ItemPageHasIntermediateDayPage != nil {
		out.ItemPageHasIntermediateDayPage = boolPtr(*o.ItemPageHasIntermediateDayPage)
	}
	if o.Thresholds != nil {
		out.Thresholds = o.Thresholds.Clone()
	}
	return out
}

// Clone deep copies the settings.
func (s Settings) Clone() Settings {
	out := Settings{TimeFormat: s.TimeFormat}
	if s.ItemPageHasIntermediateDayPage != nil {
		out.ItemPageHasIntermediateDayPage = boolPtr(*s.ItemPageHasIntermediateDayPage)
	}
	if s.Thresholds != nil {
		out.Thresholds = s.Thresholds.Clone()
	}
	return out
}

// Equal reports whether both settings hold the same values.
func (s Settings) Equal(o Settings) bool {
	if s.TimeFormat != o.TimeFormat {
		return false
	}
	if (s.ItemPageHasIntermediateDayPage == nil) != (o.ItemPageHasIntermediateDayPage == nil) {
		return false
	}
	if s.ItemPageHasIntermediateDayPage != nil && *s.ItemPageHasIntermediateDayPage != *o.ItemPageHasIntermediateDayPage {
		return false
	}
	if (s.Thresholds == nil) != (o.Thresholds == nil) || len(s.Thresholds) != len(o.Thresholds) {
		return false
	}
	for k, v := range s.Thresholds {
		if w, ok := o.Thresholds[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Clone copies the thresholds.
func (t Thresholds) Clone() Thresholds {
	out := make(Thresholds, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Floors returns the calorie floors in ascending order.
func (t Thresholds) Floors() []int {
	floors := make([]int, 0, len(t))
	for k := range t {
		floors = append(floors, k)
	}
	sort.Ints(floors)
	return floors
}

// ColorFor picks the colour of the highest floor not above kcal, or the lowest
// floor when kcal is below all of them. Channels are clamped to 0..255. A zero
// kcal day has no colour.
func (t Thresholds) ColorFor(kcal float64) (RGB, bool) {
	if kcal == 0 || len(t) == 0 {
		return RGB{}, false
	}
	floors := t.Floors()
	match := floors[0]
	for i := len(floors) - 1; i >= 0; i-- {
		if kcal >= float64(floors[i]) {
			match = floors[i]
			break
		}
	}
	return t[match].Clamped(), true
}

// Clamped limits every channel to 0..255.
func (c RGB) Clamped() RGB {
	for i, v := range c {
		c[i] = min(max(v, 0), 255)
	}
	return c
}

func boolPtr(b bool) *bool {
	return &b
}
