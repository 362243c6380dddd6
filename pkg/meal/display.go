package meal

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minorWords stay lower case inside a title, following APA title case plus a
// few food words.
var minorWords = map[string]bool{
	"and": true, "as": true, "but": true, "for": true, "if": true, "nor": true,
	"or": true, "so": true, "yet": true, "a": true, "an": true, "the": true,
	"at": true, "by": true, "in": true, "of": true, "off": true, "on": true,
	"per": true, "to": true, "up": true, "via": true,
	"with": true, "without": true, "minus": true, "plus": true,
}

// FormatName title-cases a meal name, e.g. "bowl of fried rice 100g" becomes
// "Bowl of Fried Rice 100g". Words holding a digit are kept as typed.
func FormatName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if i != 0 && minorWords[w] {
			continue
		}
		if strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// FormatClock renders an "HH:MM" time in the requested format. Unparsable
// times are returned unchanged.
func FormatClock(clock string, format TimeFormat) string {
	h, m, ok := ParseClock(clock)
	if !ok {
		return clock
	}
	if format == TimeFormat24 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
